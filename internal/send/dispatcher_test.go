package send

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maildeck/maildeck/internal/compose"
	"github.com/maildeck/maildeck/internal/mail"
)

// fakeMailer records the outgoing message and returns a scripted error.
type fakeMailer struct {
	err     error
	got     mail.Outgoing
	blockCh chan struct{}
}

func (f *fakeMailer) Send(_ context.Context, out mail.Outgoing) error {
	if f.blockCh != nil {
		<-f.blockCh
	}
	f.got = out
	return f.err
}

var testSnapshot = compose.Snapshot{
	To:      "x@example.com",
	From:    "y@example.com",
	Subject: "s",
	Body:    "b",
}

func TestSubmitDeliversSuccessOutcome(t *testing.T) {
	m := &fakeMailer{}
	d := NewDispatcher(m)

	cmd := d.Submit(testSnapshot)
	require.NotNil(t, cmd)

	msg := cmd()
	result, ok := msg.(ResultMsg)
	require.True(t, ok, "expected ResultMsg, got %T", msg)
	assert.NoError(t, result.Err)
	assert.Equal(t, testSnapshot, result.Snapshot)

	assert.Equal(t, "x@example.com", m.got.To)
	assert.Equal(t, "y@example.com", m.got.From)
	assert.False(t, d.InFlight())
}

func TestSubmitDeliversFailureWithReasonAndSnapshot(t *testing.T) {
	m := &fakeMailer{err: errors.New("connection refused")}
	d := NewDispatcher(m)

	cmd := d.Submit(testSnapshot)
	require.NotNil(t, cmd)

	result := cmd().(ResultMsg)
	require.Error(t, result.Err)
	assert.Contains(t, result.Err.Error(), "connection refused")

	// A failed attempt hands back the fields exactly as submitted.
	assert.Equal(t, testSnapshot, result.Snapshot)
}

func TestSubmitRefusesSecondAttemptWhileInFlight(t *testing.T) {
	m := &fakeMailer{blockCh: make(chan struct{})}
	d := NewDispatcher(m)

	cmd := d.Submit(testSnapshot)
	require.NotNil(t, cmd)

	results := make(chan ResultMsg, 1)
	go func() {
		results <- cmd().(ResultMsg)
	}()

	// Wait until the attempt is observably outstanding.
	require.Eventually(t, d.InFlight, time.Second, time.Millisecond)
	assert.Nil(t, d.Submit(testSnapshot))

	close(m.blockCh)
	select {
	case result := <-results:
		assert.NoError(t, result.Err)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for send outcome")
	}
	assert.False(t, d.InFlight())
}
