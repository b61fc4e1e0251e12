package amqp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/sony/gobreaker"

	"ghostledger/internal/core"
	"ghostledger/internal/resilience"
)

func TestIsConnectionError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"connection refused", errors.New("dial tcp: connection refused"), true},
		{"closed connection", errors.New("Exception (504) Reason: \"channel/connection is not open\" connection closed"), true},
		{"EOF", errors.New("unexpected EOF"), true},
		{"broken pipe", errors.New("write: broken pipe"), true},
		{"other", errors.New("some other error"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isConnectionError(tt.err); got != tt.expected {
				t.Errorf("isConnectionError(%v) = %v, want %v", tt.err, got, tt.expected)
			}
		})
	}
}

func TestPublishChangeWithoutConnectionTripsBreaker(t *testing.T) {
	c := newClient("", "ledger", "ledger.changes", "gengar-finance-data", nil)
	c.retry = resilience.Config{}
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if err := c.PublishChange(ctx, core.Change{Entity: core.EntityExpense}); !errors.Is(err, ErrNotConnected) {
			t.Fatalf("publish %d = %v, want ErrNotConnected", i, err)
		}
	}
	err := c.PublishChange(ctx, core.Change{Entity: core.EntityExpense})
	if err == nil || !strings.Contains(err.Error(), "circuit breaker is open") {
		t.Errorf("publish after failures = %v, want open breaker", err)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if err := c.PublishChange(cancelled, core.Change{Entity: core.EntityExpense}); !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled publish = %v", err)
	}
}

func TestChangeMessageJSON(t *testing.T) {
	at := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	msg := &ChangeMessage{Key: "k", Change: core.Change{Entity: core.EntityGoal, Op: "update", ID: "g1", Revision: 7, At: at}, Timestamp: at}

	b, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	parsed, err := ChangeMessageFromJSON(b)
	if err != nil {
		t.Fatalf("ChangeMessageFromJSON: %v", err)
	}
	if parsed.Key != "k" || parsed.Change.Revision != 7 || !parsed.Change.At.Equal(at) {
		t.Errorf("parsed = %+v", parsed)
	}

	for _, bad := range []string{`{"key": 1}`, `{"key": "k"}`, `not json`} {
		if _, err := ChangeMessageFromJSON([]byte(bad)); err == nil {
			t.Errorf("%s: expected error", bad)
		}
	}
}

type fakeAck struct {
	acked, nacked, requeued bool
}

func (a *fakeAck) Ack(bool) error { a.acked = true; return nil }
func (a *fakeAck) Nack(_ bool, requeue bool) error {
	a.nacked, a.requeued = true, requeue
	return nil
}

func TestDispatch(t *testing.T) {
	good, _ := NewChangeMessage("k", core.Change{Entity: core.EntityIncome}).ToJSON()
	ok := func(context.Context, *ChangeMessage) error { return nil }
	fail := func(context.Context, *ChangeMessage) error { return errors.New("sheets down") }
	breakerOpen := func(context.Context, *ChangeMessage) error {
		return fmt.Errorf("replace statement: %w", gobreaker.ErrOpenState)
	}

	tests := []struct {
		name    string
		body    []byte
		handler func(context.Context, *ChangeMessage) error
		want    fakeAck
	}{
		{"handled", good, ok, fakeAck{acked: true}},
		{"handler error dropped", good, fail, fakeAck{nacked: true}},
		{"open breaker dropped", good, breakerOpen, fakeAck{nacked: true}},
		{"malformed dropped", []byte("{"), ok, fakeAck{nacked: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var a fakeAck
			dispatch(context.Background(), newClient("", "", "", "", nil).logger, tt.body, &a, tt.handler)
			if a != tt.want {
				t.Errorf("ack = %+v, want %+v", a, tt.want)
			}
		})
	}
}
