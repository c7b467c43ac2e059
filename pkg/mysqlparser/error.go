package mysqlparser

import (
	"fmt"

	"github.com/antlr4-go/antlr/v4"

	"github.com/nsxbet/ddl-analyzer/pkg/types"
)

// SyntaxError is a syntax error.
type SyntaxError struct {
	Position   *types.Position
	Message    string
	RawMessage string
}

// Error returns the error message.
func (e *SyntaxError) Error() string {
	return e.Message
}

func newSyntaxError(pos types.Position, message, related string) *SyntaxError {
	text := fmt.Sprintf("Syntax error at line %d:%d \n%s", pos.Line, pos.Column, message)
	if related != "" {
		text = fmt.Sprintf("%s\nrelated text: %s", text, related)
	}
	return &SyntaxError{
		Position:   &pos,
		RawMessage: message,
		Message:    text,
	}
}

// ParseErrorListener is a custom error listener for ANTLR lexing.
type ParseErrorListener struct {
	*antlr.DefaultErrorListener
	Err *SyntaxError
}

// SyntaxError records the first error reported by the recognizer.
func (l *ParseErrorListener) SyntaxError(
	_ antlr.Recognizer,
	token any,
	line, column int,
	message string,
	_ antlr.RecognitionException,
) {
	if l.Err != nil {
		return
	}

	related := ""
	if token, ok := token.(*antlr.CommonToken); ok {
		stream := token.GetInputStream()
		start := token.GetStart() - 40
		if start < 0 {
			start = 0
		}
		stop := token.GetStop()
		if stop >= stream.Size() {
			stop = stream.Size() - 1
		}
		related = stream.GetTextFromInterval(antlr.NewInterval(start, stop))
	}

	// From antlr4, the line is ONE based, and the column is ZERO based.
	l.Err = newSyntaxError(types.Position{
		Line:   line,
		Column: column + 1,
	}, message, related)
}
