package mysqlparser

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/nsxbet/ddl-analyzer/pkg/types"
)

const headWords = 4

// ParseOption customizes Parse.
type ParseOption func(*parseOptions)

type parseOptions struct {
	strict bool
}

// WithStrict makes a CREATE TABLE statement the grammar does not accept a
// SyntaxError instead of an IgnoredStmt.
func WithStrict(strict bool) ParseOption {
	return func(opts *parseOptions) {
		opts.strict = strict
	}
}

// Parse splits a DDL document into statements and parses each one.
//
// Statements other than CREATE TABLE become IgnoredStmt. So does a CREATE
// TABLE statement the grammar does not accept, unless WithStrict is set.
// Lexical errors are always returned as *SyntaxError.
func Parse(text string, opts ...ParseOption) (*Script, error) {
	options := &parseOptions{}
	for _, opt := range opts {
		opt(options)
	}

	list, err := SplitSQL(text)
	if err != nil {
		return nil, err
	}

	script := &Script{}
	for _, sql := range list {
		if sql.Empty && !strings.Contains(sql.Text, "/*!") {
			continue
		}
		stmt, err := parseStatement(sql, options)
		if err != nil {
			return nil, err
		}
		if stmt != nil {
			script.Statements = append(script.Statements, stmt)
		}
	}
	return script, nil
}

func parseStatement(sql SingleSQL, options *parseOptions) (Statement, error) {
	tokens, err := Tokenize(sql.Text, sql.Origin)
	if err != nil {
		return nil, err
	}
	p := &ddlParser{tokens: tokens}
	if p.isEOF() || p.matchSymbol(";") {
		// The splitter saw a statement the DDL lexer reads as a comment: a
		// versioned /*!...*/ block.
		text, pos := sql.Text, sql.Origin
		if i := strings.Index(text, "/*!"); i >= 0 {
			text, pos = text[i:], advancePosition(pos, text[:i])
		}
		return &IgnoredStmt{
			node: node{Position: pos},
			Head: types.Head(strings.TrimSuffix(strings.TrimSpace(text), ";"), headWords),
		}, nil
	}

	first := p.current()
	if !p.isCreateTable() {
		return &IgnoredStmt{node: node{Position: first.Position}, Head: p.head()}, nil
	}

	stmt, gerr := p.parseCreateTable()
	if gerr == nil {
		return stmt, nil
	}
	if options.strict {
		return nil, newSyntaxError(gerr.token.Position, gerr.message, p.around(gerr.token))
	}
	slog.Debug("CREATE TABLE statement does not match the grammar, skipping",
		"line", gerr.token.Position.Line,
		"column", gerr.token.Position.Column,
		"reason", gerr.message)
	return &IgnoredStmt{
		node:           node{Position: first.Position},
		Head:           p.head(),
		Reason:         gerr.message,
		ReasonPosition: gerr.token.Position,
	}, nil
}

// advancePosition returns the position right after text, starting at pos.
func advancePosition(pos types.Position, text string) types.Position {
	for _, r := range text {
		if r == '\n' {
			pos.Line++
			pos.Column = 1
		} else {
			pos.Column++
		}
	}
	return pos
}

// grammarError is the first token a CREATE TABLE statement fails to match.
type grammarError struct {
	token   Token
	message string
}

type ddlParser struct {
	tokens []Token
	pos    int
}

func (p *ddlParser) fail(format string, args ...any) *grammarError {
	return &grammarError{token: p.current(), message: fmt.Sprintf(format, args...)}
}

func (p *ddlParser) current() Token {
	if p.pos >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos]
}

func (p *ddlParser) peek(ahead int) Token {
	if p.pos+ahead >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos+ahead]
}

func (p *ddlParser) advance() Token {
	tok := p.current()
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return tok
}

func (p *ddlParser) isEOF() bool {
	return p.current().Kind == TokenEOF
}

func (p *ddlParser) matchKeyword(kw ...string) bool {
	for _, k := range kw {
		if p.current().IsKeyword(k) {
			return true
		}
	}
	return false
}

func (p *ddlParser) matchSymbol(s string) bool {
	return p.current().IsSymbol(s)
}

func (p *ddlParser) acceptKeyword(kw ...string) bool {
	if p.matchKeyword(kw...) {
		p.advance()
		return true
	}
	return false
}

func (p *ddlParser) acceptSymbol(s string) bool {
	if p.matchSymbol(s) {
		p.advance()
		return true
	}
	return false
}

func (p *ddlParser) expectKeyword(kw string) *grammarError {
	if !p.acceptKeyword(kw) {
		return p.fail("expected %s, got %s", kw, p.current().describe())
	}
	return nil
}

func (p *ddlParser) expectSymbol(s string) *grammarError {
	if !p.acceptSymbol(s) {
		return p.fail("expected %q, got %s", s, p.current().describe())
	}
	return nil
}

func (p *ddlParser) parseIdentifier(what string) (string, *grammarError) {
	tok := p.current()
	if !tok.IsIdentifier() {
		return "", p.fail("expected %s name, got %s", what, tok.describe())
	}
	p.advance()
	return tok.Value, nil
}

// head returns the first words of the statement.
func (p *ddlParser) head() string {
	var parts []string
	for _, tok := range p.tokens {
		if tok.Kind == TokenEOF || tok.IsSymbol(";") || len(parts) == headWords {
			break
		}
		parts = append(parts, tok.Text)
	}
	return strings.Join(parts, " ")
}

// around returns the statement text near tok, for error messages.
func (p *ddlParser) around(tok Token) string {
	var parts []string
	for _, t := range p.tokens {
		if t.Kind == TokenEOF {
			break
		}
		if t.Position.Line > tok.Position.Line ||
			(t.Position.Line == tok.Position.Line && t.Position.Column > tok.Position.Column) {
			break
		}
		parts = append(parts, t.Text)
	}
	if len(parts) > 8 {
		parts = parts[len(parts)-8:]
	}
	return joinTokens(parts)
}

func (p *ddlParser) isCreateTable() bool {
	i := 0
	if !p.peek(i).IsKeyword("CREATE") {
		return false
	}
	i++
	if p.peek(i).IsKeyword("OR") && p.peek(i+1).IsKeyword("REPLACE") {
		i += 2
	}
	if p.peek(i).IsKeyword("TEMPORARY") {
		i++
	}
	return p.peek(i).IsKeyword("TABLE")
}

func (p *ddlParser) parseCreateTable() (*CreateTableStmt, *grammarError) {
	stmt := &CreateTableStmt{node: node{Position: p.advance().Position}}
	if p.acceptKeyword("OR") {
		p.advance()
		stmt.OrReplace = true
	}
	stmt.Temporary = p.acceptKeyword("TEMPORARY")
	p.advance()
	if p.acceptKeyword("IF") {
		if err := p.expectKeyword("NOT"); err != nil {
			return nil, err
		}
		if err := p.expectKeyword("EXISTS"); err != nil {
			return nil, err
		}
		stmt.IfNotExists = true
	}

	name, err := p.parseIdentifier("table")
	if err != nil {
		return nil, err
	}
	if p.acceptSymbol(".") {
		stmt.Schema = name
		if name, err = p.parseIdentifier("table"); err != nil {
			return nil, err
		}
	}
	stmt.Table = name

	if err := p.expectSymbol("("); err != nil {
		return nil, err
	}
	for {
		element, err := p.parseTableElement()
		if err != nil {
			return nil, err
		}
		stmt.Elements = append(stmt.Elements, element)
		if p.acceptSymbol(",") {
			continue
		}
		if err := p.expectSymbol(")"); err != nil {
			return nil, err
		}
		break
	}

	// Table options are not modelled.
	for !p.isEOF() && !p.matchSymbol(";") {
		p.advance()
	}
	p.acceptSymbol(";")
	if !p.isEOF() {
		return nil, p.fail("unexpected %s after statement end", p.current().describe())
	}
	return stmt, nil
}

func (p *ddlParser) parseTableElement() (TableElement, *grammarError) {
	start := p.current()
	constraint := ""
	if p.acceptKeyword("CONSTRAINT") {
		if p.current().IsIdentifier() && !p.matchKeyword("PRIMARY", "UNIQUE", "CHECK", "FOREIGN") {
			constraint = p.advance().Value
		}
		if !p.matchKeyword("PRIMARY", "UNIQUE", "CHECK") {
			return nil, p.fail("unsupported constraint %s", p.current().describe())
		}
	}

	switch {
	case p.acceptKeyword("PRIMARY"):
		if err := p.expectKeyword("KEY"); err != nil {
			return nil, err
		}
		return p.parseIndex(start, IndexKindPrimary, constraint)
	case p.acceptKeyword("UNIQUE"):
		p.acceptKeyword("KEY", "INDEX")
		return p.parseIndex(start, IndexKindUnique, constraint)
	case p.acceptKeyword("FULLTEXT"):
		p.acceptKeyword("KEY", "INDEX")
		return p.parseIndex(start, IndexKindFulltext, "")
	case p.acceptKeyword("SPATIAL"):
		p.acceptKeyword("KEY", "INDEX")
		return p.parseIndex(start, IndexKindSpatial, "")
	case p.acceptKeyword("KEY", "INDEX"):
		return p.parseIndex(start, IndexKindKey, "")
	case p.acceptKeyword("CHECK"):
		expr, err := p.parseParenthesized()
		if err != nil {
			return nil, err
		}
		return &CheckDef{node: node{Position: start.Position}, Name: constraint, Expr: expr}, nil
	case p.matchKeyword("FOREIGN"):
		return nil, p.fail("FOREIGN KEY definitions are not supported")
	}
	return p.parseColumn()
}

func (p *ddlParser) parseIndex(start Token, kind IndexKind, name string) (*IndexDef, *grammarError) {
	index := &IndexDef{node: node{Position: start.Position}, Kind: kind, Name: name}
	if p.current().IsIdentifier() && !p.matchKeyword("USING") {
		index.Name = p.advance().Value
	}
	if err := p.skipIndexOptions(); err != nil {
		return nil, err
	}
	if err := p.expectSymbol("("); err != nil {
		return nil, err
	}
	for {
		tok := p.current()
		column, err := p.parseIdentifier("index column")
		if err != nil {
			return nil, err
		}
		part := &IndexColumn{node: node{Position: tok.Position}, Name: column}
		if p.acceptSymbol("(") {
			length := p.current()
			if length.Kind != TokenNumber {
				return nil, p.fail("expected index prefix length, got %s", length.describe())
			}
			part.Length = p.advance().Text
			if err := p.expectSymbol(")"); err != nil {
				return nil, err
			}
		}
		p.acceptKeyword("ASC", "DESC")
		index.Columns = append(index.Columns, part)
		if p.acceptSymbol(",") {
			continue
		}
		if err := p.expectSymbol(")"); err != nil {
			return nil, err
		}
		break
	}
	if err := p.skipIndexOptions(); err != nil {
		return nil, err
	}
	return index, nil
}

func (p *ddlParser) skipIndexOptions() *grammarError {
	for {
		switch {
		case p.acceptKeyword("USING"):
			if !p.acceptKeyword("BTREE", "HASH", "RTREE") {
				return p.fail("expected index type, got %s", p.current().describe())
			}
		case p.acceptKeyword("COMMENT"):
			if tok := p.current(); tok.Kind != TokenString && tok.Kind != TokenQuotedString {
				return p.fail("expected index comment, got %s", tok.describe())
			}
			p.advance()
		case p.acceptKeyword("KEY_BLOCK_SIZE"):
			p.acceptSymbol("=")
			if p.current().Kind != TokenNumber {
				return p.fail("expected key block size, got %s", p.current().describe())
			}
			p.advance()
		case p.acceptKeyword("VISIBLE", "INVISIBLE", "IGNORED"):
		case p.matchKeyword("NOT") && p.peek(1).IsKeyword("IGNORED"):
			p.advance()
			p.advance()
		default:
			return nil
		}
	}
}

func (p *ddlParser) parseColumn() (*ColumnDef, *grammarError) {
	start := p.current()
	name, err := p.parseIdentifier("column")
	if err != nil {
		return nil, err
	}
	column := &ColumnDef{node: node{Position: start.Position}, Name: name}
	if column.Type, err = p.parseDataType(); err != nil {
		return nil, err
	}
	for !p.matchSymbol(",") && !p.matchSymbol(")") {
		modifier, err := p.parseModifier()
		if err != nil {
			return nil, err
		}
		column.Modifiers = append(column.Modifiers, modifier)
	}
	return column, nil
}

func (p *ddlParser) parseDataType() (*DataType, *grammarError) {
	start := p.current()
	if start.Kind != TokenWord {
		return nil, p.fail("expected data type, got %s", start.describe())
	}
	p.advance()
	dataType := &DataType{node: node{Position: start.Position}, Tokens: []string{strings.ToLower(start.Text)}}
	if p.acceptSymbol("(") {
		for {
			arg := p.current()
			switch arg.Kind {
			case TokenNumber:
				dataType.Tokens = append(dataType.Tokens, arg.Text)
			case TokenString, TokenQuotedString:
				dataType.Tokens = append(dataType.Tokens, arg.Text)
			default:
				return nil, p.fail("expected data type argument, got %s", arg.describe())
			}
			p.advance()
			if p.acceptSymbol(",") {
				continue
			}
			if err := p.expectSymbol(")"); err != nil {
				return nil, err
			}
			break
		}
	}
	for {
		switch {
		case p.acceptKeyword("UNSIGNED"):
			dataType.Tokens = append(dataType.Tokens, "unsigned")
		case p.acceptKeyword("SIGNED", "ZEROFILL"):
		default:
			return dataType, nil
		}
	}
}

func (p *ddlParser) parseModifier() (ColumnModifier, *grammarError) {
	start := p.current()
	at := node{Position: start.Position}
	switch {
	case p.acceptKeyword("NOT"):
		if err := p.expectKeyword("NULL"); err != nil {
			return nil, err
		}
		return &NullModifier{node: at, Null: false}, nil
	case p.acceptKeyword("NULL"):
		return &NullModifier{node: at, Null: true}, nil
	case p.acceptKeyword("DEFAULT"):
		value, err := p.parseLiteral()
		if err != nil {
			return nil, err
		}
		return &DefaultModifier{node: at, Value: value}, nil
	case p.acceptKeyword("AUTO_INCREMENT"):
		return &AutoIncrementModifier{node: at}, nil
	case p.acceptKeyword("COMMENT"):
		text := p.current()
		if text.Kind != TokenString && text.Kind != TokenQuotedString {
			return nil, p.fail("expected comment string, got %s", text.describe())
		}
		value, err := p.parseLiteral()
		if err != nil {
			return nil, err
		}
		return &CommentModifier{node: at, Text: value}, nil
	case p.acceptKeyword("ON"):
		if err := p.expectKeyword("UPDATE"); err != nil {
			return nil, err
		}
		value, err := p.parseLiteral()
		if err != nil {
			return nil, err
		}
		return &OnUpdateModifier{node: at, Expr: value.Raw}, nil
	case p.acceptKeyword("CHARSET"):
		name, err := p.parseIdentifier("character set")
		if err != nil {
			return nil, err
		}
		return &CharsetModifier{node: at, Name: name}, nil
	case p.acceptKeyword("CHARACTER"):
		if err := p.expectKeyword("SET"); err != nil {
			return nil, err
		}
		name, err := p.parseIdentifier("character set")
		if err != nil {
			return nil, err
		}
		return &CharsetModifier{node: at, Name: name}, nil
	case p.acceptKeyword("COLLATE"):
		name, err := p.parseIdentifier("collation")
		if err != nil {
			return nil, err
		}
		return &CollateModifier{node: at, Name: name}, nil
	}
	return nil, p.fail("unexpected %s in column definition", start.describe())
}

func (p *ddlParser) parseLiteral() (*Literal, *grammarError) {
	tok := p.current()
	literal := &Literal{node: node{Position: tok.Position}, Raw: tok.Text}
	switch {
	case tok.Kind == TokenString:
		literal.Kind = LiteralString
	case tok.Kind == TokenQuotedString:
		literal.Kind = LiteralQuoted
	case tok.Kind == TokenNumber:
		literal.Kind = LiteralNumber
	case (tok.IsSymbol("-") || tok.IsSymbol("+")) && p.peek(1).Kind == TokenNumber:
		p.advance()
		literal.Kind = LiteralNumber
		literal.Raw = tok.Text + p.current().Text
	case tok.Kind == TokenWord:
		p.advance()
		literal.Kind = LiteralWord
		if p.matchSymbol("(") {
			args, err := p.parseParenthesized()
			if err != nil {
				return nil, err
			}
			literal.Raw = tok.Text + "(" + args + ")"
		}
		return literal, nil
	case tok.IsSymbol("("):
		expr, err := p.parseParenthesized()
		if err != nil {
			return nil, err
		}
		literal.Kind = LiteralExpr
		literal.Raw = "(" + expr + ")"
		return literal, nil
	default:
		return nil, p.fail("expected literal, got %s", tok.describe())
	}
	p.advance()
	return literal, nil
}

// parseParenthesized consumes a balanced parenthesized group and returns
// the text between the outer parentheses.
func (p *ddlParser) parseParenthesized() (string, *grammarError) {
	if err := p.expectSymbol("("); err != nil {
		return "", err
	}
	var parts []string
	depth := 1
	for {
		tok := p.current()
		switch {
		case tok.Kind == TokenEOF || tok.IsSymbol(";"):
			return "", p.fail("unbalanced parentheses")
		case tok.IsSymbol("("):
			depth++
		case tok.IsSymbol(")"):
			depth--
			if depth == 0 {
				p.advance()
				return joinTokens(parts), nil
			}
		}
		parts = append(parts, tok.Text)
		p.advance()
	}
}

// joinTokens rebuilds source text from token texts.
func joinTokens(parts []string) string {
	var b strings.Builder
	prev := ""
	for _, part := range parts {
		if b.Len() > 0 && needsSpace(prev, part) {
			b.WriteByte(' ')
		}
		b.WriteString(part)
		prev = part
	}
	return b.String()
}

func needsSpace(prev, next string) bool {
	switch next {
	case ",", ")", ".", "(":
		return false
	}
	switch prev {
	case "(", ".":
		return false
	}
	return true
}

// Skipped returns the record the statement is reported under.
func (s *IgnoredStmt) Skipped() *types.SkippedStatement {
	skipped := &types.SkippedStatement{
		Position:  s.Position,
		Statement: s.Head,
		Reason:    s.Reason,
	}
	if s.Reason != "" {
		pos := s.ReasonPosition
		skipped.ReasonPosition = &pos
	}
	return skipped
}
