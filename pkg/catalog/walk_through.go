package catalog

import (
	"fmt"
	"strings"

	"github.com/nsxbet/ddl-analyzer/pkg/mysqlparser"
	"github.com/nsxbet/ddl-analyzer/pkg/types"
)

// WalkThroughErrorType is the type of WalkThroughError.
type WalkThroughErrorType int

const (
	// ErrorTypeInternal is the error for internal errors.
	ErrorTypeInternal WalkThroughErrorType = 2

	// 401 ~ 499 column error type.

	// ErrorTypeDuplicateColumnModifier is the error that a column modifier is given twice.
	ErrorTypeDuplicateColumnModifier WalkThroughErrorType = 401
	// ErrorTypeDataTypeMismatch is the error that a data type has no known shape.
	ErrorTypeDataTypeMismatch WalkThroughErrorType = 402
	// ErrorTypeOnUpdateNotImplemented is the error that a column has an ON UPDATE clause.
	ErrorTypeOnUpdateNotImplemented WalkThroughErrorType = 403
	// ErrorTypeInvalidLiteral is the error that a numeric literal cannot be converted.
	ErrorTypeInvalidLiteral WalkThroughErrorType = 404

	// 501 ~ 599 index error type.

	// ErrorTypeUnknownKeyKind is the error that a key is of a kind the model has no place for.
	ErrorTypeUnknownKeyKind WalkThroughErrorType = 501
)

// WalkThroughError is the error for walking-through. It aborts the run.
type WalkThroughError struct {
	Type     WalkThroughErrorType
	Content  string
	Position types.Position

	// Payload is the offending node content: data type tokens, the
	// modifiers merged so far, or key columns.
	Payload any
}

// Error implements the error interface.
func (e *WalkThroughError) Error() string {
	if e.Position.IsZero() {
		return e.Content
	}
	return fmt.Sprintf("%s at %s", e.Content, e.Position)
}

// NewUnexpectedNodeError returns a new ErrorTypeInternal for a node kind the walk
// through has no case for.
func NewUnexpectedNodeError(node mysqlparser.Node) *WalkThroughError {
	return &WalkThroughError{
		Type:     ErrorTypeInternal,
		Content:  fmt.Sprintf("unexpected node %T", node),
		Position: node.Pos(),
	}
}

// newDuplicateColumnModifierError returns a new ErrorTypeDuplicateColumnModifier.
func newDuplicateColumnModifierError(modifier string, merged *modifierSet, pos types.Position) *WalkThroughError {
	return &WalkThroughError{
		Type:     ErrorTypeDuplicateColumnModifier,
		Content:  fmt.Sprintf("duplicate column modifier for %s: %s", modifier, merged),
		Position: pos,
		Payload:  merged.Map(),
	}
}

// NewDataTypeMismatchError returns a new ErrorTypeDataTypeMismatch.
func NewDataTypeMismatchError(tokens []string, pos types.Position) *WalkThroughError {
	return &WalkThroughError{
		Type:     ErrorTypeDataTypeMismatch,
		Content:  fmt.Sprintf("data type %v has no known shape (%d tokens)", tokens, len(tokens)),
		Position: pos,
		Payload:  tokens,
	}
}

// NewOnUpdateNotImplementedError returns a new ErrorTypeOnUpdateNotImplemented.
func NewOnUpdateNotImplementedError(column, expr string, pos types.Position) *WalkThroughError {
	return &WalkThroughError{
		Type:     ErrorTypeOnUpdateNotImplemented,
		Content:  fmt.Sprintf("ON UPDATE not implemented yet: column `%s` ON UPDATE %s", column, expr),
		Position: pos,
		Payload:  expr,
	}
}

// NewUnknownKeyKindError returns a new ErrorTypeUnknownKeyKind.
func NewUnknownKeyKindError(index *mysqlparser.IndexDef, columns []string) *WalkThroughError {
	return &WalkThroughError{
		Type:     ErrorTypeUnknownKeyKind,
		Content:  fmt.Sprintf("unknown key kind %s for key `%s`", index.Kind, index.Name),
		Position: index.Pos(),
		Payload:  columns,
	}
}

const (
	modifierNull          = "null"
	modifierDefault       = "default"
	modifierAutoIncrement = "auto_increment"
	modifierComment       = "comment"
	modifierCharset       = "charset"
	modifierCollate       = "collate"
	modifierType          = "type"
	modifierName          = "name"
)

// modifierSet is the column modifiers merged so far, in source order.
type modifierSet struct {
	keys   []string
	values map[string]string
}

func newModifierSet() *modifierSet {
	return &modifierSet{values: make(map[string]string)}
}

func (m *modifierSet) has(key string) bool {
	_, ok := m.values[key]
	return ok
}

func (m *modifierSet) add(key, value string) {
	m.keys = append(m.keys, key)
	m.values[key] = value
}

// Map returns a copy of the merged modifiers.
func (m *modifierSet) Map() map[string]string {
	result := make(map[string]string, len(m.values))
	for k, v := range m.values {
		result[k] = v
	}
	return result
}

func (m *modifierSet) String() string {
	parts := make([]string, 0, len(m.keys))
	for _, key := range m.keys {
		parts = append(parts, fmt.Sprintf("%s: %s", key, m.values[key]))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
