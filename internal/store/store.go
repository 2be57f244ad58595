package store

import (
	"context"
	"errors"

	"github.com/maildeck/maildeck/internal/model"
)

// ErrNotFound is returned when a message id does not exist in the store.
var ErrNotFound = errors.New("message not found")

// Store defines the read-only persistence interface the UI consumes.
// The mailbox is populated once at startup; no mutation operations are
// exposed to the session engine.
type Store interface {
	// ListMessages returns all messages ordered by id ascending.
	ListMessages(ctx context.Context) ([]model.Message, error)

	// GetMessageByID returns a single message, or ErrNotFound.
	GetMessageByID(ctx context.Context, id int64) (*model.Message, error)

	// MessageCount returns the number of stored messages.
	MessageCount(ctx context.Context) (int, error)
}
