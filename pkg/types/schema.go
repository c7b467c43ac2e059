package types

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Column is a column of a table. Once rewritten to a named domain, Domain is
// set and the attributes carried by the domain are cleared.
type Column struct {
	Name       string `json:"name"              yaml:"name"`
	Domain     string `json:"domain,omitempty"  yaml:"domain,omitempty"`
	Attributes `yaml:",inline"`
	Comment    *string  `json:"comment,omitempty" yaml:"comment,omitempty"`
	Position   Position `json:"-"                 yaml:"-"`
}

// KeyKind is the kind of a table key.
type KeyKind int32

const (
	KeyKind_SECONDARY KeyKind = 0
	KeyKind_PRIMARY   KeyKind = 1
	KeyKind_UNIQUE    KeyKind = 2
	KeyKind_FULLTEXT  KeyKind = 3
)

func (k KeyKind) String() string {
	switch k {
	case KeyKind_PRIMARY:
		return "primary"
	case KeyKind_UNIQUE:
		return "unique"
	case KeyKind_FULLTEXT:
		return "fulltext"
	default:
		return "key"
	}
}

// KeyPart is a column reference inside a key, with an optional prefix length.
type KeyPart struct {
	Column string
	Length string
}

func (p KeyPart) String() string {
	if p.Length == "" {
		return p.Column
	}
	return p.Column + ":" + p.Length
}

// Key is a table key or index.
type Key struct {
	Name     string
	Kind     KeyKind
	Parts    []KeyPart
	Position Position
}

// ID returns the name the key is reported under: `name` for secondary keys,
// `key:primary` for the primary key, `name:unique` and `name:fulltext`
// otherwise.
func (k *Key) ID() string {
	switch k.Kind {
	case KeyKind_PRIMARY:
		return "key:primary"
	case KeyKind_UNIQUE, KeyKind_FULLTEXT:
		return fmt.Sprintf("%s:%s", k.Name, k.Kind)
	default:
		return k.Name
	}
}

// Columns returns the rendered key parts.
func (k *Key) Columns() []string {
	result := make([]string, 0, len(k.Parts))
	for _, part := range k.Parts {
		result = append(result, part.String())
	}
	return result
}

// MarshalYAML renders the key as its list of parts.
func (k *Key) MarshalYAML() (interface{}, error) {
	return k.Columns(), nil
}

// MarshalJSON renders the key as its list of parts.
func (k *Key) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.Columns())
}

// Table is a table of the schema model, keyed by its logical name.
type Table struct {
	Name     string             `json:"-"      yaml:"-"`
	RawName  string             `json:"-"      yaml:"-"`
	Columns  map[string]*Column `json:"cols"   yaml:"cols"`
	Keys     map[string]*Key    `json:"keys"   yaml:"keys"`
	Checks   map[string]string  `json:"checks" yaml:"checks"`
	Position Position           `json:"-"      yaml:"-"`
}

// NewTable returns an empty table.
func NewTable(name, rawName string, pos Position) *Table {
	return &Table{
		Name:     name,
		RawName:  rawName,
		Columns:  make(map[string]*Column),
		Keys:     make(map[string]*Key),
		Checks:   make(map[string]string),
		Position: pos,
	}
}

// ColumnNames returns the column names in sorted order.
func (t *Table) ColumnNames() []string {
	return sortedKeys(t.Columns)
}

// KeyIDs returns the reported key names in sorted order.
func (t *Table) KeyIDs() []string {
	return sortedKeys(t.Keys)
}

// HasKey reports whether the table declares a key reported under id.
func (t *Table) HasKey(id string) bool {
	_, ok := t.Keys[id]
	return ok
}

// HasKeyOn reports whether a key of the table starts with column.
func (t *Table) HasKeyOn(column string) bool {
	for _, key := range t.Keys {
		if len(key.Parts) > 0 && key.Parts[0].Column == column {
			return true
		}
	}
	return false
}

// SkippedStatement is a top-level statement the parser did not turn into a
// table.
type SkippedStatement struct {
	Position  Position `json:"position"         yaml:"position"`
	Statement string   `json:"statement"        yaml:"statement"`
	// Reason and ReasonPosition are set when a CREATE TABLE statement did
	// not match the grammar.
	Reason         string    `json:"reason,omitempty"          yaml:"reason,omitempty"`
	ReasonPosition *Position `json:"reason_position,omitempty" yaml:"reason_position,omitempty"`
}

// Rejected reports whether the statement was skipped for a syntax error.
func (s *SkippedStatement) Rejected() bool {
	return s.Reason != ""
}

func (s *SkippedStatement) String() string {
	if s.Reason == "" {
		return fmt.Sprintf("%q at %s", s.Statement, s.Position)
	}
	return fmt.Sprintf("%q at %s: %s", s.Statement, s.Position, s.Reason)
}

// Schema is the model built from one DDL document.
type Schema struct {
	Tables  map[string]*Table
	Skipped []*SkippedStatement
}

// NewSchema returns an empty schema.
func NewSchema() *Schema {
	return &Schema{Tables: make(map[string]*Table)}
}

// TableNames returns the logical table names in sorted order.
func (s *Schema) TableNames() []string {
	return sortedKeys(s.Tables)
}

// HasTable reports whether a table with the logical name exists.
func (s *Schema) HasTable(name string) bool {
	_, ok := s.Tables[name]
	return ok
}

// Relation is a reference from one table to another, implied by a column name.
type Relation struct {
	Source string
	Target string
	Via    string
}

func (r Relation) String() string {
	return fmt.Sprintf("%s -> %s via %s", r.Source, r.Target, r.Via)
}

func sortedKeys[V any](m map[string]V) []string {
	result := make([]string, 0, len(m))
	for k := range m {
		result = append(result, k)
	}
	sort.Strings(result)
	return result
}

// Head returns the first words of a statement, used to identify it in
// messages.
func Head(text string, words int) string {
	fields := strings.Fields(text)
	if len(fields) > words {
		fields = fields[:words]
	}
	return strings.Join(fields, " ")
}
