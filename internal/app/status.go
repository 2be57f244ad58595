package app

// Severity classifies a status line for styling.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityPending Severity = "pending"
)

// Status is the one-line session status message. It is replaced on send
// completion and cleared by the next user action.
type Status struct {
	Text     string
	Severity Severity
}
