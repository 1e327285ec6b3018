package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"

	"rohatours/internal/domain"
)

type recordingWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *recordingWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("publish must be bounded by a deadline")
	}
	w.msgs = append(w.msgs, msgs...)
	return w.err
}

func (w *recordingWriter) Close() error { w.closed = true; return nil }

func TestProducer_Publish(t *testing.T) {
	w := &recordingWriter{}
	p := &Producer{topic: "bookings.created", timeout: time.Second, writer: w}

	ev := domain.NewBookingEvent("booking_created", domain.Booking{
		ID:            "abc123",
		CustomerName:  "Ana",
		CustomerEmail: "a@x.com",
		Package:       "Standard Tour Package",
		TravelerCount: 2,
		Status:        domain.BookingStatusPending,
		CreatedAt:     time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC),
	})
	if err := p.Publish(context.Background(), "abc123", ev); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if len(w.msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(w.msgs))
	}
	m := w.msgs[0]
	if string(m.Key) != "abc123" {
		t.Fatalf("key: %s", m.Key)
	}
	if len(m.Headers) != 1 || string(m.Headers[0].Value) != "booking_created" {
		t.Fatalf("headers: %+v", m.Headers)
	}
	var got domain.BookingEvent
	if err := json.Unmarshal(m.Value, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ID != "abc123" || got.TravelerCount != 2 || got.Status != "pending" {
		t.Fatalf("unexpected payload: %+v", got)
	}

	if err := p.Close(); err != nil || !w.closed {
		t.Fatalf("close: %v closed=%v", err, w.closed)
	}
}

func TestProducer_PublishError(t *testing.T) {
	w := &recordingWriter{err: errors.New("leader not available")}
	p := &Producer{topic: "bookings.created", timeout: time.Second, writer: w}

	err := p.Publish(context.Background(), "k", domain.BookingEvent{Type: "booking_created"})
	if err == nil || !errors.Is(err, w.err) {
		t.Fatalf("expected wrapped writer error, got %v", err)
	}
}
