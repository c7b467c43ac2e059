package advisor

import (
	"log/slog"

	"github.com/pkg/errors"

	"github.com/nsxbet/ddl-analyzer/pkg/types"
)

const (
	// SyntaxErrorTitle is the error title for syntax error.
	SyntaxErrorTitle string = "Syntax error"
)

// Level is the severity a profile assigns to an advice code.
type Level string

const (
	LevelError   Level = "ERROR"
	LevelWarning Level = "WARNING"
	LevelInfo    Level = "INFO"
)

// NewStatusByLevel returns status by Level.
func NewStatusByLevel(level Level) (types.Advice_Status, error) {
	switch level {
	case LevelError:
		return types.Advice_ERROR, nil
	case LevelWarning:
		return types.Advice_WARNING, nil
	case LevelInfo:
		return types.Advice_INFO, nil
	}
	return types.Advice_STATUS_UNSPECIFIED, errors.Errorf("unexpected advice level: %v", level)
}

// Collector accumulates the advices of one analysis run. Recording an
// advice never aborts the run.
type Collector struct {
	advices []*types.Advice
	// overrides replaces the default status of a code.
	overrides map[Code]types.Advice_Status
}

// NewCollector returns an empty collector.
func NewCollector() *Collector {
	return &Collector{overrides: make(map[Code]types.Advice_Status)}
}

// SetLevel overrides the status advices with code are recorded with.
func (c *Collector) SetLevel(code Code, level Level) error {
	status, err := NewStatusByLevel(level)
	if err != nil {
		return errors.Wrapf(err, "failed to set level for code %d", code)
	}
	c.overrides[code] = status
	return nil
}

// Add records an advice. The status is replaced when a level is set for
// code.
func (c *Collector) Add(status types.Advice_Status, code Code, content string, pos *types.Position) {
	if override, ok := c.overrides[code]; ok {
		status = override
	}
	advice := &types.Advice{
		Status:        status,
		Code:          code.Int32(),
		Title:         code.Title(),
		Content:       content,
		StartPosition: pos,
	}
	slog.Debug("Advice recorded", "status", status.String(), "code", code, "content", content)
	c.advices = append(c.advices, advice)
}

// Warn records a WARNING advice.
func (c *Collector) Warn(code Code, content string, pos *types.Position) {
	c.Add(types.Advice_WARNING, code, content, pos)
}

// Info records an INFO advice.
func (c *Collector) Info(code Code, content string, pos *types.Position) {
	c.Add(types.Advice_INFO, code, content, pos)
}

// Advices returns the recorded advices in the order they were added.
func (c *Collector) Advices() []*types.Advice {
	result := make([]*types.Advice, len(c.advices))
	copy(result, c.advices)
	return result
}

// Len returns the number of recorded advices.
func (c *Collector) Len() int {
	return len(c.advices)
}
