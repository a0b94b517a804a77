package events

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"github.com/ghuser/itemforge/pkg/config"
	"github.com/ghuser/itemforge/pkg/logger"
)

func setupTracer() *sdktrace.TracerProvider {
	tp := sdktrace.NewTracerProvider()
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	return tp
}

func nopLogger() logger.Logger {
	return logger.NewWithWriter(&config.Config{LogLevel: "error"}, io.Discard)
}

// countingHandler fails with errs in order, then succeeds.
func countingHandler(calls *int, errs ...error) Handler {
	return func(context.Context, *message.Message) error {
		*calls++
		if *calls <= len(errs) {
			return errs[*calls-1]
		}
		return nil
	}
}

func TestRetryWithBackoff(t *testing.T) {
	transient := errors.New("redis down")
	tests := []struct {
		name      string
		errs      []error
		wantErr   bool
		wantCalls int
	}{
		{"success first attempt", nil, false, 1},
		{"success after retries", []error{transient, transient}, false, 3},
		{"attempts exhausted", []error{transient, transient, transient}, true, defaultMaxAttempts},
		{"permanent stops at once", []error{Permanent(transient)}, true, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := retryWithBackoff(context.Background(), message.NewMessage("id", nil),
				countingHandler(&calls, tt.errs...), defaultMaxAttempts, time.Millisecond, nopLogger())
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if calls != tt.wantCalls {
				t.Errorf("expected %d calls, got %d", tt.wantCalls, calls)
			}
		})
	}
}

// TestRetryWithBackoff_ContextCancelled verifies retry stops when context is canceled.
func TestRetryWithBackoff_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := retryWithBackoff(ctx, message.NewMessage("id", nil),
		countingHandler(&calls, errors.New("a"), errors.New("b")), defaultMaxAttempts, time.Second, nopLogger())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call before context cancel, got %d", calls)
	}
}

func TestPermanent(t *testing.T) {
	base := errors.New("bad payload")
	if Permanent(nil) != nil {
		t.Fatal("Permanent(nil) must be nil")
	}
	err := Permanent(base)
	if !IsPermanent(err) || !errors.Is(err, base) {
		t.Fatalf("Permanent lost its cause or marker: %v", err)
	}
	if wrapped := errors.Join(errors.New("context"), err); !IsPermanent(wrapped) {
		t.Fatal("IsPermanent must see through wrapping")
	}
	if IsPermanent(base) {
		t.Fatal("plain errors are not permanent")
	}
}

func TestDecodeJSON(t *testing.T) {
	var v struct {
		Material string `json:"material"`
	}
	if err := DecodeJSON(message.NewMessage("id", []byte(`{"material":"STONE"}`)), &v); err != nil || v.Material != "STONE" {
		t.Fatalf("DecodeJSON: %v, %+v", err, v)
	}
	if err := DecodeJSON(message.NewMessage("id", []byte(`{`)), &v); !IsPermanent(err) {
		t.Fatalf("malformed payload must be permanent, got %v", err)
	}
}

type fakeDedup struct {
	seen      map[string]bool
	released  []string
	claimErr  error
	claimCall int
}

func (f *fakeDedup) Claim(_ context.Context, topic, eventID string) (bool, error) {
	f.claimCall++
	if f.claimErr != nil {
		return false, f.claimErr
	}
	key := topic + "/" + eventID
	if f.seen[key] {
		return false, nil
	}
	f.seen[key] = true
	return true, nil
}

func (f *fakeDedup) Release(_ context.Context, topic, eventID string) error {
	key := topic + "/" + eventID
	delete(f.seen, key)
	f.released = append(f.released, key)
	return nil
}

func eventMessage(eventID string) *message.Message {
	msg := message.NewMessage("uuid-"+eventID, []byte(`{}`))
	msg.Metadata.Set(MetadataEventID, eventID)
	return msg
}

func TestProcess(t *testing.T) {
	bus := &EventBus{log: nopLogger()}
	opts := subscribeOptions{maxAttempts: 2, retryDelay: time.Millisecond}
	ctx := context.Background()

	t.Run("success acks", func(t *testing.T) {
		calls := 0
		ack, err := bus.process(ctx, "item.created", eventMessage("e1"), countingHandler(&calls), opts)
		if !ack || err != nil || calls != 1 {
			t.Fatalf("ack=%v err=%v calls=%d", ack, err, calls)
		}
	})

	t.Run("transient failure nacks", func(t *testing.T) {
		calls := 0
		fail := errors.New("redis down")
		ack, err := bus.process(ctx, "item.created", eventMessage("e2"), countingHandler(&calls, fail, fail), opts)
		if ack || !errors.Is(err, fail) || calls != 2 {
			t.Fatalf("ack=%v err=%v calls=%d", ack, err, calls)
		}
	})

	t.Run("permanent failure acks and reports", func(t *testing.T) {
		calls := 0
		ack, err := bus.process(ctx, "item.created", eventMessage("e3"), countingHandler(&calls, Permanent(errors.New("bad"))), opts)
		if !ack || err == nil || calls != 1 {
			t.Fatalf("ack=%v err=%v calls=%d", ack, err, calls)
		}
	})
}

func TestProcess_Deduplication(t *testing.T) {
	bus := &EventBus{log: nopLogger()}
	dedup := &fakeDedup{seen: map[string]bool{}}
	opts := subscribeOptions{maxAttempts: 1, retryDelay: time.Millisecond, dedup: dedup}
	ctx := context.Background()
	topic := "item.template_uploaded"

	calls := 0
	handler := countingHandler(&calls)
	for range 2 {
		ack, err := bus.process(ctx, topic, eventMessage("evt-1"), handler, opts)
		if !ack || err != nil {
			t.Fatalf("ack=%v err=%v", ack, err)
		}
	}
	if calls != 1 {
		t.Fatalf("duplicate delivery ran the handler: %d calls", calls)
	}

	// A failed attempt releases its claim so the redelivery runs.
	failCalls := 0
	failing := countingHandler(&failCalls, errors.New("redis down"))
	if ack, _ := bus.process(ctx, topic, eventMessage("evt-2"), failing, opts); ack {
		t.Fatal("failed handler must nack")
	}
	if len(dedup.released) != 1 || dedup.released[0] != topic+"/evt-2" {
		t.Fatalf("released = %v", dedup.released)
	}
	if ack, err := bus.process(ctx, topic, eventMessage("evt-2"), failing, opts); !ack || err != nil {
		t.Fatalf("redelivery: ack=%v err=%v", ack, err)
	}
	if failCalls != 2 {
		t.Fatalf("expected redelivery to run the handler, calls=%d", failCalls)
	}

	// Messages without an event ID bypass the deduplicator.
	before := dedup.claimCall
	if _, err := bus.process(ctx, topic, message.NewMessage("no-id", nil), handler, opts); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dedup.claimCall != before {
		t.Fatal("message without event_id must not be claimed")
	}
}

func TestProcess_ClaimErrorNacks(t *testing.T) {
	bus := &EventBus{log: nopLogger()}
	dedup := &fakeDedup{seen: map[string]bool{}, claimErr: errors.New("redis down")}
	calls := 0

	ack, err := bus.process(context.Background(), "item.created", eventMessage("e1"), countingHandler(&calls),
		subscribeOptions{maxAttempts: 1, dedup: dedup})
	if ack || err == nil || calls != 0 {
		t.Fatalf("ack=%v err=%v calls=%d", ack, err, calls)
	}
}

func TestWithRetry(t *testing.T) {
	var o subscribeOptions
	WithRetry(0, time.Second)(&o)
	if o.maxAttempts != 1 || o.retryDelay != time.Second {
		t.Fatalf("unexpected options %+v", o)
	}
}

func TestConsumerGroup(t *testing.T) {
	if got := ConsumerGroup("itemforge"); got != "itemforge-consumer" {
		t.Fatalf("ConsumerGroup = %q", got)
	}
}

// TestStartForwarder_NonForwarderMode verifies StartForwarder returns an error
// when called on an EventBus not configured with forwarder mode.
func TestStartForwarder_NonForwarderMode(t *testing.T) {
	bus := &EventBus{useForwarder: false}
	if err := bus.StartForwarder(context.Background()); err == nil {
		t.Fatal("expected error for non-forwarder EventBus")
	}
}

func TestNewJSONMessage(t *testing.T) {
	payload := struct {
		Material string `json:"material"`
	}{Material: "DIAMOND_SWORD"}

	msg, err := NewJSONMessage("evt-1", 2, payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := string(msg.Payload); got != `{"material":"DIAMOND_SWORD"}` {
		t.Errorf("payload: got %s", got)
	}
	if got := msg.Metadata.Get(MetadataEventID); got != "evt-1" {
		t.Errorf("event_id: got %q", got)
	}
	if got := msg.Metadata.Get(MetadataEventVersion); got != "2" {
		t.Errorf("event_version: got %q", got)
	}
	if msg.UUID == "" {
		t.Error("expected message UUID to be set")
	}
}

func TestNewJSONMessage_UnmarshalableValue(t *testing.T) {
	if _, err := NewJSONMessage("evt-1", 1, make(chan int)); err == nil {
		t.Fatal("expected marshal error for channel value")
	}
}

// TestTracePropagation verifies a subscriber context continues the
// publisher's trace through message metadata.
func TestTracePropagation(t *testing.T) {
	tp := setupTracer()
	defer tp.Shutdown(context.Background()) //nolint:errcheck

	ctx, span := otel.Tracer("test").Start(context.Background(), "publish-span")
	defer span.End()

	msg, err := NewJSONMessage("evt-1", 1, map[string]string{"material": "STONE"})
	if err != nil {
		t.Fatal(err)
	}
	injectTrace(ctx, msg)
	if msg.Metadata.Get(MetadataEventID) != "evt-1" {
		t.Fatal("trace injection clobbered event metadata")
	}

	got := trace.SpanFromContext(extractTrace(context.Background(), msg)).SpanContext()
	if !got.IsValid() {
		t.Fatal("extracted span context is not valid")
	}
	if got.TraceID() != span.SpanContext().TraceID() {
		t.Errorf("trace ID mismatch: want %s, got %s", span.SpanContext().TraceID(), got.TraceID())
	}
}
