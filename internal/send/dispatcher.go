package send

import (
	"context"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/maildeck/maildeck/internal/compose"
	"github.com/maildeck/maildeck/internal/mail"
)

// submitTimeout is the maximum time allowed for a single submission attempt.
const submitTimeout = 30 * time.Second

// ResultMsg is delivered into the event loop when a submission attempt
// finishes. Exactly one ResultMsg is produced per Submit call. Err is nil
// on success; on failure the snapshot still holds the fields exactly as
// they were submitted.
type ResultMsg struct {
	Snapshot compose.Snapshot
	Err      error
}

// Dispatcher runs one outbound submission at a time off the event loop.
// The attempt's network I/O happens in the command goroutine; the outcome
// re-enters the loop as an ordinary message, so it can never race with
// key handling. There is no cancellation handshake: if the process exits
// while an attempt is outstanding, its outcome is simply never observed.
type Dispatcher struct {
	mailer   mail.Mailer
	inFlight atomic.Bool
}

// NewDispatcher creates a dispatcher using the given mailer.
func NewDispatcher(m mail.Mailer) *Dispatcher {
	return &Dispatcher{mailer: m}
}

// InFlight reports whether a submission attempt is outstanding.
func (d *Dispatcher) InFlight() bool {
	return d.inFlight.Load()
}

// Submit starts one submission attempt for the snapshot and returns
// immediately. It returns nil when an attempt is already outstanding;
// the dispatcher never queues or retries.
func (d *Dispatcher) Submit(snap compose.Snapshot) tea.Cmd {
	if !d.inFlight.CompareAndSwap(false, true) {
		return nil
	}

	return func() tea.Msg {
		defer d.inFlight.Store(false)

		ctx, cancel := context.WithTimeout(context.Background(), submitTimeout)
		defer cancel()

		err := d.mailer.Send(ctx, mail.Outgoing{
			From:    snap.From,
			To:      snap.To,
			Subject: snap.Subject,
			Body:    snap.Body,
		})
		return ResultMsg{Snapshot: snap, Err: err}
	}
}
