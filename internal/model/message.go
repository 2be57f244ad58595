package model

import (
	"strings"
	"time"
)

// Message is a single stored mailbox entry. Messages are created by the
// store at seed time and are read-only from the UI's perspective.
type Message struct {
	// ID is the store-assigned identifier, unique and monotonic
	// within a mailbox.
	ID int64 `db:"id"`

	// From is the sender address.
	From string `db:"sender"`

	// To is the recipient address list, comma-separated.
	To string `db:"recipient"`

	// Subject is the message subject line.
	Subject string `db:"subject"`

	// Body is the plain-text message body, possibly multi-line.
	Body string `db:"body"`

	// ReceivedAt is when the message arrived in the mailbox.
	ReceivedAt time.Time `db:"received_at"`
}

// Recipients splits the To field into individual trimmed addresses.
func (m Message) Recipients() []string {
	parts := strings.Split(m.To, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// BodyLines returns the body split into display lines.
func (m Message) BodyLines() []string {
	return strings.Split(m.Body, "\n")
}
