package mail

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	netmail "net/mail"
	"net/smtp"
	"strings"
	"time"

	messagemail "github.com/emersion/go-message/mail"
	"github.com/google/uuid"

	"github.com/maildeck/maildeck/internal/model"
)

// Outgoing is the flattened message handed to a Mailer. The To field may
// hold several comma-separated addresses.
type Outgoing struct {
	From    string
	To      string
	Subject string
	Body    string
}

// Mailer performs a single outbound submission attempt.
type Mailer interface {
	Send(ctx context.Context, out Outgoing) error
}

// SubmissionMailer sends mail over an implicit-TLS connection to the
// configured submission host on port 465, authenticating with PLAIN.
type SubmissionMailer struct {
	host     string
	port     int
	username string
	password string
}

// NewSubmissionMailer creates a mailer from the application config.
func NewSubmissionMailer(cfg *model.Config) *SubmissionMailer {
	return &SubmissionMailer{
		host:     cfg.Host,
		port:     model.SubmissionPort,
		username: cfg.Username,
		password: cfg.Password,
	}
}

// Send validates the addresses, serializes the message, and submits it.
// Address syntax is checked before any network I/O so malformed input
// comes back as an ordinary error instead of a mid-session surprise.
func (m *SubmissionMailer) Send(ctx context.Context, out Outgoing) error {
	from, rcpts, err := ValidateAddresses(out.From, out.To)
	if err != nil {
		return err
	}

	raw, err := BuildMessage(from, rcpts, out.Subject, out.Body, m.host, time.Now())
	if err != nil {
		return fmt.Errorf("building message: %w", err)
	}

	addr := fmt.Sprintf("%s:%d", m.host, m.port)
	dialer := &tls.Dialer{}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("connecting to %s: %w", addr, err)
	}

	client, err := smtp.NewClient(conn, m.host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("starting SMTP session with %s: %w", m.host, err)
	}
	defer client.Close()

	auth := smtp.PlainAuth("", m.username, m.password, m.host)
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("authentication failed for %s: %w", m.username, err)
	}

	if err := client.Mail(from); err != nil {
		return fmt.Errorf("setting sender %s: %w", from, err)
	}
	for _, rcpt := range rcpts {
		if err := client.Rcpt(rcpt); err != nil {
			return fmt.Errorf("setting recipient %s: %w", rcpt, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("opening data stream: %w", err)
	}
	if _, err := w.Write(raw); err != nil {
		w.Close()
		return fmt.Errorf("writing message data: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finishing message data: %w", err)
	}

	return client.Quit()
}

// ValidateAddresses parses the sender and the comma-separated recipient
// list, returning the bare addresses used for the SMTP envelope.
func ValidateAddresses(from, to string) (string, []string, error) {
	sender, err := netmail.ParseAddress(strings.TrimSpace(from))
	if err != nil {
		return "", nil, fmt.Errorf("invalid sender address %q: %w", from, err)
	}

	var rcpts []string
	for _, part := range strings.Split(to, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		addr, err := netmail.ParseAddress(part)
		if err != nil {
			return "", nil, fmt.Errorf("invalid recipient address %q: %w", part, err)
		}
		rcpts = append(rcpts, addr.Address)
	}
	if len(rcpts) == 0 {
		return "", nil, fmt.Errorf("no recipient address given")
	}

	return sender.Address, rcpts, nil
}

// BuildMessage serializes a plain-text RFC 5322 message with From, To,
// Subject, Date, and a generated Message-Id header.
func BuildMessage(from string, rcpts []string, subject, body, hostname string, date time.Time) ([]byte, error) {
	toList := make([]*messagemail.Address, len(rcpts))
	for i, r := range rcpts {
		toList[i] = &messagemail.Address{Address: r}
	}

	var h messagemail.Header
	h.SetDate(date)
	h.SetSubject(subject)
	h.SetAddressList("From", []*messagemail.Address{{Address: from}})
	h.SetAddressList("To", toList)
	h.SetMsgIDList("Message-Id", []string{
		fmt.Sprintf("%s@%s", uuid.New().String(), hostname),
	})

	var buf bytes.Buffer
	w, err := messagemail.CreateSingleInlineWriter(&buf, h)
	if err != nil {
		return nil, fmt.Errorf("creating message writer: %w", err)
	}
	if _, err := io.WriteString(w, body); err != nil {
		w.Close()
		return nil, fmt.Errorf("writing body: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("closing message writer: %w", err)
	}

	return buf.Bytes(), nil
}
