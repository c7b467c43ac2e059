package types

import "fmt"

// Advice_Status is the severity of an advice.
type Advice_Status int32

const (
	Advice_STATUS_UNSPECIFIED Advice_Status = 0
	Advice_SUCCESS            Advice_Status = 1
	Advice_WARNING            Advice_Status = 2
	Advice_ERROR              Advice_Status = 3
	Advice_INFO               Advice_Status = 4
)

func (s Advice_Status) String() string {
	switch s {
	case Advice_SUCCESS:
		return "SUCCESS"
	case Advice_WARNING:
		return "WARNING"
	case Advice_ERROR:
		return "ERROR"
	case Advice_INFO:
		return "INFO"
	default:
		return "STATUS_UNSPECIFIED"
	}
}

// Advice is a finding recorded during an analysis run. Advices never abort
// the run.
type Advice struct {
	Status        Advice_Status `json:"status"                   yaml:"status"`
	Code          int32         `json:"code"                     yaml:"code"`
	Title         string        `json:"title"                    yaml:"title"`
	Content       string        `json:"content"                  yaml:"content"`
	StartPosition *Position     `json:"start_position,omitempty" yaml:"start_position,omitempty"`
}

func (a *Advice) String() string {
	if a.StartPosition == nil {
		return fmt.Sprintf("[%s] %s: %s", a.Status, a.Title, a.Content)
	}
	return fmt.Sprintf("[%s] %s at %s: %s", a.Status, a.Title, a.StartPosition, a.Content)
}
