package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nsxbet/ddl-analyzer/pkg/mysqlparser"
	"github.com/nsxbet/ddl-analyzer/pkg/types"
)

var integerTypes = map[string]bool{
	"tinyint":   true,
	"smallint":  true,
	"mediumint": true,
	"int":       true,
	"integer":   true,
	"bigint":    true,
}

func (f *Finder) createTable(node *mysqlparser.CreateTableStmt) (*types.Table, *WalkThroughError) {
	table := types.NewTable(f.ctx.LogicalName(node.Table), node.Table, node.Pos())
	for _, element := range node.Elements {
		switch e := element.(type) {
		case *mysqlparser.ColumnDef:
			column, err := f.createColumn(e)
			if err != nil {
				return nil, err
			}
			table.Columns[column.Name] = column
		case *mysqlparser.IndexDef:
			key, err := createKey(e)
			if err != nil {
				return nil, err
			}
			table.Keys[key.ID()] = key
		case *mysqlparser.CheckDef:
			// Check expressions are recognized but not modelled.
		default:
			return nil, NewUnexpectedNodeError(element)
		}
	}
	return table, nil
}

func (f *Finder) createColumn(node *mysqlparser.ColumnDef) (*types.Column, *WalkThroughError) {
	column := &types.Column{Name: node.Name, Position: node.Pos()}
	merged := newModifierSet()

	for _, modifier := range node.Modifiers {
		key, value, err := applyModifier(column, modifier)
		if err != nil {
			return nil, err
		}
		if merged.has(key) {
			return nil, newDuplicateColumnModifierError(key, merged, modifier.Pos())
		}
		merged.add(key, value)
	}

	for _, key := range []string{modifierType, modifierName} {
		if merged.has(key) {
			return nil, &WalkThroughError{
				Type:     ErrorTypeInternal,
				Content:  fmt.Sprintf("unexpected '%s' found in column definition", key),
				Position: node.Pos(),
				Payload:  merged.Map(),
			}
		}
	}

	dataType, err := f.resolveDataType(node.Type)
	if err != nil {
		return nil, err
	}
	column.Type = dataType
	return column, nil
}

// applyModifier sets the modifier on column and returns the attribute key it
// sets along with the rendered value.
func applyModifier(column *types.Column, modifier mysqlparser.ColumnModifier) (string, string, *WalkThroughError) {
	switch m := modifier.(type) {
	case *mysqlparser.NullModifier:
		column.Null = types.Bool(m.Null)
		return modifierNull, strconv.FormatBool(m.Null), nil
	case *mysqlparser.DefaultModifier:
		value, err := convertLiteral(m.Value)
		if err != nil {
			return "", "", err
		}
		column.Default = defaultValue(value)
		return modifierDefault, column.Default.String(), nil
	case *mysqlparser.AutoIncrementModifier:
		column.AutoIncrement = types.Bool(true)
		return modifierAutoIncrement, "true", nil
	case *mysqlparser.CommentModifier:
		value, err := convertLiteral(m.Text)
		if err != nil {
			return "", "", err
		}
		comment := value.String()
		column.Comment = &comment
		return modifierComment, comment, nil
	case *mysqlparser.CharsetModifier:
		column.Charset = m.Name
		return modifierCharset, m.Name, nil
	case *mysqlparser.CollateModifier:
		column.Collation = m.Name
		return modifierCollate, m.Name, nil
	case *mysqlparser.OnUpdateModifier:
		return "", "", NewOnUpdateNotImplementedError(column.Name, m.Expr, m.Pos())
	default:
		return "", "", NewUnexpectedNodeError(modifier)
	}
}

// defaultValue folds the keywords NULL and CURRENT_TIMESTAMP, in any case
// and quoted or not, into their keyword kinds. CURRENT_TIMESTAMP() folds too,
// but a call with a precision such as CURRENT_TIMESTAMP(6) is kept as written.
func defaultValue(value *types.Value) *types.Value {
	if value.Kind == types.ValueKind_STRING && strings.EqualFold(value.Str, "current_timestamp()") {
		return types.CurrentTimestampValue()
	}
	return value.Keyword()
}

// convertLiteral converts a literal as written into a value. Single quotes
// are stripped without unescaping, double quoted strings and bare words are
// kept as written, and numbers are integers unless they contain a dot. A
// number without a dot that is not a valid int64, such as 1e3 or one that
// overflows, is rejected.
func convertLiteral(literal *mysqlparser.Literal) (*types.Value, *WalkThroughError) {
	raw := literal.Raw
	switch literal.Kind {
	case mysqlparser.LiteralString:
		if len(raw) >= 2 && raw[0] == '\'' {
			return types.StringValue(raw[1 : len(raw)-1]), nil
		}
		return types.StringValue(raw), nil
	case mysqlparser.LiteralNumber:
		if !strings.Contains(raw, ".") {
			i, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return nil, newInvalidLiteralError(literal)
			}
			return types.IntValue(i), nil
		}
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, newInvalidLiteralError(literal)
		}
		return types.FloatValue(f), nil
	default:
		return types.StringValue(raw), nil
	}
}

// resolveDataType renders the data type tokens as `base`, `char:N`,
// `varchar:N`, `base:unsigned` or `decimal:P,S`.
func (f *Finder) resolveDataType(dataType *mysqlparser.DataType) (string, *WalkThroughError) {
	tokens := dataType.Tokens
	if f.ctx.IgnoreDisplayWidth && len(tokens) >= 2 && integerTypes[tokens[0]] && isDigits(tokens[1]) {
		tokens = append([]string{tokens[0]}, tokens[2:]...)
	}

	switch len(tokens) {
	case 1:
		return tokens[0], nil
	case 2:
		switch {
		case tokens[0] == "char":
			return "char:" + tokens[1], nil
		case tokens[0] == "varchar":
			return "varchar:" + tokens[1], nil
		case tokens[1] == "unsigned":
			return tokens[0] + ":unsigned", nil
		}
	case 3:
		if tokens[0] == "decimal" {
			return fmt.Sprintf("decimal:%s,%s", tokens[1], tokens[2]), nil
		}
	}
	return "", NewDataTypeMismatchError(dataType.Tokens, dataType.Pos())
}

// createKey resolves an index definition into a key. An unnamed key takes
// the name of its first column.
func createKey(node *mysqlparser.IndexDef) (*types.Key, *WalkThroughError) {
	key := &types.Key{Name: node.Name, Position: node.Pos()}
	for _, column := range node.Columns {
		key.Parts = append(key.Parts, types.KeyPart{Column: column.Name, Length: column.Length})
	}
	if key.Name == "" && len(key.Parts) > 0 {
		key.Name = key.Parts[0].Column
	}

	switch node.Kind {
	case mysqlparser.IndexKindKey:
		key.Kind = types.KeyKind_SECONDARY
	case mysqlparser.IndexKindPrimary:
		key.Kind = types.KeyKind_PRIMARY
	case mysqlparser.IndexKindUnique:
		key.Kind = types.KeyKind_UNIQUE
	case mysqlparser.IndexKindFulltext:
		key.Kind = types.KeyKind_FULLTEXT
	default:
		return nil, NewUnknownKeyKindError(node, key.Columns())
	}
	return key, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func newInvalidLiteralError(literal *mysqlparser.Literal) *WalkThroughError {
	return &WalkThroughError{
		Type:     ErrorTypeInvalidLiteral,
		Content:  fmt.Sprintf("invalid numeric literal %s", literal.Raw),
		Position: literal.Pos(),
		Payload:  literal.Raw,
	}
}
