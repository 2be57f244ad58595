package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/maildeck/maildeck/internal/model"
)

// SQLiteStore implements the Store interface using a local SQLite database.
type SQLiteStore struct {
	db *sqlx.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath,
// enables WAL mode, and runs any pending schema migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// A single connection is plenty for one interactive session, and it
	// keeps :memory: databases from splitting across pool connections.
	db.SetMaxOpenConns(1)

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *SQLiteStore) runMigrations() error {
	currentVersion := 0

	// Check if schema_version table exists.
	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// sampleMessages is the fixture mailbox inserted on first run.
var sampleMessages = []model.Message{
	{
		From:    "bob@bob.me",
		To:      "me@me.me",
		Subject: "Hi",
		Body:    "Hello there",
	},
	{
		From:    "alice@alice.me",
		To:      "me@me.me",
		Subject: "TPS Reports",
		Body: "Hello there,\n\nDid you get the memo about the new cover sheets?\n" +
			"We're putting them on all TPS reports now.\n\nAlice",
	},
	{
		From:    "carol@example.net",
		To:      "me@me.me",
		Subject: "Lunch on Friday?",
		Body:    "Thinking noodles. Let me know by Thursday.",
	},
}

// EnsureSeeded inserts the sample mailbox when the messages table is
// empty. Repeated calls are no-ops, so running the program against an
// existing database never duplicates the fixtures.
func (s *SQLiteStore) EnsureSeeded(ctx context.Context) error {
	count, err := s.MessageCount(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning seed transaction: %w", err)
	}
	defer tx.Rollback()

	const query = `
		INSERT INTO messages (sender, recipient, subject, body, received_at)
		VALUES (?, ?, ?, ?, ?)`

	stmt, err := tx.PreparexContext(ctx, query)
	if err != nil {
		return fmt.Errorf("preparing seed statement: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for i, msg := range sampleMessages {
		// Stagger timestamps so the seeded mailbox has a stable order.
		receivedAt := now.Add(-time.Duration(len(sampleMessages)-i) * time.Hour)
		_, err = stmt.ExecContext(ctx,
			msg.From, msg.To, msg.Subject, msg.Body, receivedAt,
		)
		if err != nil {
			return fmt.Errorf("seeding message %q: %w", msg.Subject, err)
		}
	}

	return tx.Commit()
}

// ListMessages returns all messages ordered by id ascending.
func (s *SQLiteStore) ListMessages(ctx context.Context) ([]model.Message, error) {
	var messages []model.Message
	err := s.db.SelectContext(ctx, &messages,
		"SELECT * FROM messages ORDER BY id ASC",
	)
	if err != nil {
		return nil, fmt.Errorf("querying messages: %w", err)
	}
	return messages, nil
}

// GetMessageByID retrieves a single message by its id.
func (s *SQLiteStore) GetMessageByID(ctx context.Context, id int64) (*model.Message, error) {
	var msg model.Message
	err := s.db.GetContext(ctx, &msg,
		"SELECT * FROM messages WHERE id = ?", id,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting message %d: %w", id, err)
	}
	return &msg, nil
}

// MessageCount returns the number of stored messages.
func (s *SQLiteStore) MessageCount(ctx context.Context) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM messages")
	if err != nil {
		return 0, fmt.Errorf("counting messages: %w", err)
	}
	return count, nil
}
