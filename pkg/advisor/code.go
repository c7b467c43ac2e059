package advisor

// Code is the error code for advisor.
type Code int

// Application error codes for advisor.
const (
	// 1 ~ 99 general advisor error.
	StatementSyntaxError Code = 4

	// 101 ~ 199 statement advice.
	StatementSkipped Code = 101

	// 201 ~ 299 relation advice.
	NoIndexForReferentialIntegrity Code = 201

	// 301 ~ 399 column advice.
	ColumnNameCollision  Code = 301
	CommonColumnMismatch Code = 302
)

// Int32 returns the int32 representation of the Code.
func (c Code) Int32() int32 {
	return int32(c)
}

// Title returns the advice title for the code.
func (c Code) Title() string {
	switch c {
	case StatementSkipped:
		return "Statement skipped"
	case NoIndexForReferentialIntegrity:
		return "No index for referential integrity"
	case ColumnNameCollision:
		return "Column name collision"
	case CommonColumnMismatch:
		return "Common column mismatch"
	case StatementSyntaxError:
		return SyntaxErrorTitle
	default:
		return "Unknown"
	}
}

var codeNames = map[string]Code{
	"StatementSyntaxError":           StatementSyntaxError,
	"StatementSkipped":               StatementSkipped,
	"NoIndexForReferentialIntegrity": NoIndexForReferentialIntegrity,
	"ColumnNameCollision":            ColumnNameCollision,
	"CommonColumnMismatch":           CommonColumnMismatch,
}

// ParseCode returns the advice code with the given name, such as
// NoIndexForReferentialIntegrity.
func ParseCode(name string) (Code, bool) {
	code, ok := codeNames[name]
	return code, ok
}
