package mysqlparser

import "github.com/nsxbet/ddl-analyzer/pkg/types"

// Node is an AST node.
type Node interface {
	Pos() types.Position
}

type node struct {
	Position types.Position
}

// Pos returns the position of the first token of the node.
func (n *node) Pos() types.Position {
	return n.Position
}

// Script is a parsed DDL document.
type Script struct {
	Statements []Statement
}

// Statement is a top-level statement: *CreateTableStmt or *IgnoredStmt.
type Statement interface {
	Node
	statementNode()
}

// CreateTableStmt is a CREATE TABLE statement.
type CreateTableStmt struct {
	node
	OrReplace   bool
	Temporary   bool
	IfNotExists bool
	// Schema is the optional database qualifier.
	Schema   string
	Table    string
	Elements []TableElement
}

// IgnoredStmt is a statement kept out of the model: any statement other than
// CREATE TABLE, or a CREATE TABLE whose body the grammar does not accept.
type IgnoredStmt struct {
	node
	// Head is the first words of the statement.
	Head string
	// Reason is set when a CREATE TABLE statement was rejected.
	Reason string
	// ReasonPosition is where the statement stopped matching the grammar.
	ReasonPosition types.Position
}

func (*CreateTableStmt) statementNode() {}
func (*IgnoredStmt) statementNode()     {}

// TableElement is a definition inside the CREATE TABLE body: *ColumnDef,
// *IndexDef or *CheckDef.
type TableElement interface {
	Node
	tableElementNode()
}

// ColumnDef is a column definition.
type ColumnDef struct {
	node
	Name      string
	Type      *DataType
	Modifiers []ColumnModifier
}

// DataType is a column type as a token list: the base type, its arguments,
// then UNSIGNED when present.
type DataType struct {
	node
	Tokens []string
}

// IndexKind is the kind keyword of an index definition.
type IndexKind int

const (
	IndexKindKey IndexKind = iota
	IndexKindPrimary
	IndexKindUnique
	IndexKindFulltext
	IndexKindSpatial
)

func (k IndexKind) String() string {
	switch k {
	case IndexKindPrimary:
		return "PRIMARY KEY"
	case IndexKindUnique:
		return "UNIQUE KEY"
	case IndexKindFulltext:
		return "FULLTEXT KEY"
	case IndexKindSpatial:
		return "SPATIAL KEY"
	default:
		return "KEY"
	}
}

// IndexDef is a key or index definition.
type IndexDef struct {
	node
	Kind IndexKind
	// Name is empty when the definition does not name the index.
	Name    string
	Columns []*IndexColumn
}

// IndexColumn is a column reference inside an index definition.
type IndexColumn struct {
	node
	Name string
	// Length is the prefix length, empty when not given.
	Length string
}

// CheckDef is a CHECK constraint. The expression is kept as text.
type CheckDef struct {
	node
	Name string
	Expr string
}

func (*ColumnDef) tableElementNode() {}
func (*IndexDef) tableElementNode()  {}
func (*CheckDef) tableElementNode()  {}

// ColumnModifier is a column attribute clause.
type ColumnModifier interface {
	Node
	modifierNode()
}

// NullModifier is NULL or NOT NULL.
type NullModifier struct {
	node
	Null bool
}

// DefaultModifier is DEFAULT <literal>.
type DefaultModifier struct {
	node
	Value *Literal
}

// AutoIncrementModifier is AUTO_INCREMENT.
type AutoIncrementModifier struct {
	node
}

// CommentModifier is COMMENT <string>.
type CommentModifier struct {
	node
	Text *Literal
}

// OnUpdateModifier is ON UPDATE <expr>.
type OnUpdateModifier struct {
	node
	Expr string
}

// CharsetModifier is CHARACTER SET <name> or CHARSET <name>.
type CharsetModifier struct {
	node
	Name string
}

// CollateModifier is COLLATE <name>.
type CollateModifier struct {
	node
	Name string
}

func (*NullModifier) modifierNode()          {}
func (*DefaultModifier) modifierNode()       {}
func (*AutoIncrementModifier) modifierNode() {}
func (*CommentModifier) modifierNode()       {}
func (*OnUpdateModifier) modifierNode()      {}
func (*CharsetModifier) modifierNode()       {}
func (*CollateModifier) modifierNode()       {}

// LiteralKind is the lexical kind of a literal.
type LiteralKind int

const (
	// LiteralString is a single quoted string.
	LiteralString LiteralKind = iota
	// LiteralQuoted is a double quoted string.
	LiteralQuoted
	LiteralNumber
	// LiteralWord is a bare word such as NULL or CURRENT_TIMESTAMP, with its
	// call arguments when followed by parentheses.
	LiteralWord
	// LiteralExpr is a parenthesized expression.
	LiteralExpr
)

// Literal is a literal as written in the source.
type Literal struct {
	node
	Kind LiteralKind
	Raw  string
}
