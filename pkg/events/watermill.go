// Package events is the Postgres-backed event bus that carries item.created and
// item.template_uploaded between the API and the worker. It is built on
// Watermill's SQL transport.
//
// All instances sharing a ServiceName form one consumer group, so each message
// is handled by a single instance. Handlers must be idempotent: a failing
// handler is retried with exponential backoff and then Nacked for redelivery.
// Errors wrapped with Permanent skip both and the message is dropped.
//
// Trace context travels in message metadata, so a worker span continues the
// trace of the request that published the event.
package events

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	watermillsql "github.com/ThreeDotsLabs/watermill-sql/v3/pkg/sql"
	"github.com/ThreeDotsLabs/watermill/components/forwarder"
	"github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/ghuser/itemforge/pkg/config"
	"github.com/ghuser/itemforge/pkg/logger"
)

const (
	defaultMaxAttempts = 3
	defaultRetryDelay  = time.Second
	shutdownTimeout    = 30 * time.Second
	errChanSize        = 100
	forwarderTopic     = "_forwarder_queue" // outbox topic drained by the Forwarder daemon
)

// Metadata keys set by NewJSONMessage.
const (
	MetadataEventID      = "event_id"
	MetadataEventVersion = "event_version"
)

// Handler processes one message. The context carries the publisher's trace.
type Handler func(ctx context.Context, msg *message.Message) error

type permanentError struct{ err error }

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks a handler error as not worth retrying, such as a payload
// that does not decode. The bus Acks the message and reports the error.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// IsPermanent reports whether err was wrapped with Permanent.
func IsPermanent(err error) bool {
	var p *permanentError
	return errors.As(err, &p)
}

// Deduplicator records which events a consumer has already handled.
// Claim returns false when eventID was claimed before; Release undoes a
// claim so a redelivered message is handled again.
type Deduplicator interface {
	Claim(ctx context.Context, topic, eventID string) (bool, error)
	Release(ctx context.Context, topic, eventID string) error
}

type subscribeOptions struct {
	maxAttempts int
	retryDelay  time.Duration
	dedup       Deduplicator
}

// SubscribeOption configures a single subscription.
type SubscribeOption func(*subscribeOptions)

// WithRetry sets how many times a handler runs before the message is Nacked
// and the delay before the first retry, doubled after each attempt.
func WithRetry(maxAttempts int, delay time.Duration) SubscribeOption {
	return func(o *subscribeOptions) {
		o.maxAttempts = max(maxAttempts, 1)
		o.retryDelay = delay
	}
}

// WithDeduplication skips messages whose event_id metadata was already
// handled. Messages without an event ID are always handled.
func WithDeduplication(d Deduplicator) SubscribeOption {
	return func(o *subscribeOptions) { o.dedup = d }
}

// EventBus is a PostgreSQL-backed pub/sub EventBus built on Watermill's SQL transport.
// It uses FOR UPDATE SKIP LOCKED under the hood for concurrent-safe delivery.
type EventBus struct {
	publisher    message.Publisher // either direct SQL publisher or forwarder-decorated
	subscriber   *watermillsql.Subscriber
	fwd          *forwarder.Forwarder // non-nil only when forwarder mode is enabled
	db           *sql.DB
	log          logger.Logger
	wg           sync.WaitGroup
	useForwarder bool
}

// NewEventBus opens a database connection from cfg.DatabaseURL and
// initializes a Watermill SQL publisher and subscriber. Schema tables are
// created automatically on first use.
func NewEventBus(cfg *config.Config, log logger.Logger) (*EventBus, error) {
	return newEventBus(cfg, log, false)
}

// NewEventBusWithForwarder creates an EventBus whose publishes go to a
// durable outbox topic. The daemon started by StartForwarder moves them to
// their target topics, so an event committed with a template survives a
// crash right after the commit.
func NewEventBusWithForwarder(cfg *config.Config, log logger.Logger) (*EventBus, error) {
	return newEventBus(cfg, log, true)
}

func newEventBus(cfg *config.Config, log logger.Logger, useForwarder bool) (*EventBus, error) {
	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("events: open db: %w", err)
	}

	wlog := &slogAdapter{log: log}

	pub, err := watermillsql.NewPublisher(db, publisherConfig(true), wlog)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("events: new publisher: %w", err)
	}

	sub, err := watermillsql.NewSubscriber(db, subscriberConfig(ConsumerGroup(cfg.ServiceName)), wlog)
	if err != nil {
		_ = pub.Close()
		_ = db.Close()
		return nil, fmt.Errorf("events: new subscriber: %w", err)
	}

	return &EventBus{
		publisher:    wrapForwarder(pub, useForwarder),
		subscriber:   sub,
		db:           db,
		log:          log,
		useForwarder: useForwarder,
	}, nil
}

// ConsumerGroup names the subscriber group shared by every instance of a service.
func ConsumerGroup(serviceName string) string {
	return serviceName + "-consumer"
}

func publisherConfig(autoInit bool) watermillsql.PublisherConfig {
	return watermillsql.PublisherConfig{
		SchemaAdapter:        watermillsql.DefaultPostgreSQLSchema{},
		AutoInitializeSchema: autoInit,
	}
}

func subscriberConfig(group string) watermillsql.SubscriberConfig {
	return watermillsql.SubscriberConfig{
		SchemaAdapter:    watermillsql.DefaultPostgreSQLSchema{},
		OffsetsAdapter:   watermillsql.DefaultPostgreSQLOffsetsAdapter{},
		InitializeSchema: true,
		ConsumerGroup:    group,
	}
}

// wrapForwarder envelopes messages for the outbox topic in forwarder mode.
func wrapForwarder(pub message.Publisher, useForwarder bool) message.Publisher {
	if !useForwarder {
		return pub
	}
	return forwarder.NewPublisher(pub, forwarder.PublisherConfig{ForwarderTopic: forwarderTopic})
}

// StartForwarder starts the background Forwarder daemon that reads messages from
// the outbox topic and publishes them to their target topics.
// Must only be called once on an EventBus created with NewEventBusWithForwarder.
func (b *EventBus) StartForwarder(ctx context.Context) error {
	if !b.useForwarder {
		return fmt.Errorf("events: StartForwarder called on non-forwarder EventBus")
	}
	if b.fwd != nil {
		return fmt.Errorf("events: forwarder already started")
	}

	wlog := &slogAdapter{log: b.log}

	fwdSub, err := watermillsql.NewSubscriber(b.db, subscriberConfig("forwarder-consumer"), wlog)
	if err != nil {
		return fmt.Errorf("events: new forwarder subscriber: %w", err)
	}
	targetPub, err := watermillsql.NewPublisher(b.db, publisherConfig(true), wlog)
	if err != nil {
		_ = fwdSub.Close()
		return fmt.Errorf("events: new forwarder target publisher: %w", err)
	}

	fwd, err := forwarder.NewForwarder(fwdSub, targetPub, wlog, forwarder.Config{
		ForwarderTopic: forwarderTopic,
	})
	if err != nil {
		_ = targetPub.Close()
		_ = fwdSub.Close()
		return fmt.Errorf("events: create forwarder: %w", err)
	}
	b.fwd = fwd

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		b.log.InfoContext(ctx, "events: forwarder started", "topic", forwarderTopic)
		if err := fwd.Run(ctx); err != nil {
			b.log.ErrorContext(ctx, "events: forwarder stopped with error", "error", err)
			return
		}
		b.log.InfoContext(ctx, "events: forwarder stopped")
	}()

	select {
	case <-fwd.Running():
		return nil
	case <-ctx.Done():
		return fmt.Errorf("events: context cancelled waiting for forwarder: %w", ctx.Err())
	}
}

// NewJSONMessage marshals v into a message tagged with the event ID and
// version metadata consumers use for deduplication.
func NewJSONMessage(eventID string, version int, v any) (*message.Message, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("events: marshal payload: %w", err)
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set(MetadataEventID, eventID)
	msg.Metadata.Set(MetadataEventVersion, strconv.Itoa(version))
	return msg, nil
}

// DecodeJSON unmarshals a message payload into v. Decode failures are
// Permanent since redelivery cannot fix them.
func DecodeJSON(msg *message.Message, v any) error {
	if err := json.Unmarshal(msg.Payload, v); err != nil {
		return Permanent(fmt.Errorf("events: decode message %s: %w", msg.UUID, err))
	}
	return nil
}

// DB returns the underlying *sql.DB.
func (b *EventBus) DB() *sql.DB {
	return b.db
}

// NewTxPublisher returns a Publisher bound to tx, so a template row and its
// item.template_uploaded event commit or roll back together. Schema tables are
// expected to exist already.
func (b *EventBus) NewTxPublisher(tx *sql.Tx) (message.Publisher, error) {
	pub, err := watermillsql.NewPublisher(tx, publisherConfig(false), &slogAdapter{log: b.log})
	if err != nil {
		return nil, fmt.Errorf("events: new tx publisher: %w", err)
	}
	return wrapForwarder(pub, b.useForwarder), nil
}

// Publish sends messages to topic with the trace context of ctx injected
// into their metadata.
func (b *EventBus) Publish(ctx context.Context, topic string, msgs ...*message.Message) error {
	injectTrace(ctx, msgs...)
	if err := b.publisher.Publish(topic, msgs...); err != nil { //nolint:contextcheck
		return fmt.Errorf("events: publish to %s: %w", topic, err)
	}
	return nil
}

func injectTrace(ctx context.Context, msgs ...*message.Message) {
	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	for _, msg := range msgs {
		for k, v := range carrier {
			msg.Metadata.Set(k, v)
		}
	}
}

func extractTrace(ctx context.Context, msg *message.Message) context.Context {
	return otel.GetTextMapPropagator().Extract(ctx, propagation.MapCarrier(msg.Metadata))
}

// Subscribe registers handler to process messages from topic asynchronously.
//
// Ack/Nack is managed by the bus:
//   - handler returns nil             → Ack
//   - handler returns Permanent(err)  → Ack, err reported
//   - handler returns another error   → retried (3 attempts, 1s then 2s by default)
//   - all attempts fail               → Nack, err reported
//
// Reported errors arrive on the returned channel (capacity 100), which
// callers must drain. All in-flight handlers complete before Close returns.
func (b *EventBus) Subscribe(ctx context.Context, topic string, handler Handler, opts ...SubscribeOption) (<-chan error, error) {
	o := subscribeOptions{maxAttempts: defaultMaxAttempts, retryDelay: defaultRetryDelay}
	for _, opt := range opts {
		opt(&o)
	}

	ch, err := b.subscriber.Subscribe(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("events: subscribe to %s: %w", topic, err)
	}

	errCh := make(chan error, errChanSize)
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		defer close(errCh)

		for msg := range ch {
			msgCtx := extractTrace(ctx, msg)
			ack, err := b.process(msgCtx, topic, msg, handler, o)
			if ack {
				msg.Ack()
			} else {
				msg.Nack()
			}
			if err == nil {
				continue
			}
			select {
			case errCh <- err:
			default:
				b.log.ErrorContext(msgCtx, "events: error channel full, dropping error",
					"error", err, "topic", topic)
			}
		}
	}()

	return errCh, nil
}

// process runs handler for one message and decides whether it is Acked.
func (b *EventBus) process(ctx context.Context, topic string, msg *message.Message, handler Handler, o subscribeOptions) (ack bool, err error) {
	eventID := msg.Metadata.Get(MetadataEventID)
	if o.dedup != nil && eventID != "" {
		first, err := o.dedup.Claim(ctx, topic, eventID)
		if err != nil {
			return false, fmt.Errorf("events: claim %s on %s: %w", eventID, topic, err)
		}
		if !first {
			b.log.DebugContext(ctx, "events: duplicate delivery skipped", "topic", topic, "event_id", eventID)
			return true, nil
		}
	}

	err = retryWithBackoff(ctx, msg, handler, o.maxAttempts, o.retryDelay, b.log)
	if err == nil {
		return true, nil
	}
	if IsPermanent(err) {
		return true, fmt.Errorf("events: dropped message on %s: %w", topic, err)
	}
	if o.dedup != nil && eventID != "" {
		if rerr := o.dedup.Release(ctx, topic, eventID); rerr != nil {
			b.log.WarnContext(ctx, "events: release claim failed", "topic", topic, "event_id", eventID, "error", rerr)
		}
	}
	return false, err
}

// retryWithBackoff calls handler up to maxAttempts times, doubling the delay
// between attempts. Permanent errors end the loop at once.
func retryWithBackoff(
	ctx context.Context,
	msg *message.Message,
	handler Handler,
	maxAttempts int,
	baseDelay time.Duration,
	log logger.Logger,
) error {
	delay := baseDelay
	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err = handler(ctx, msg); err == nil {
			return nil
		}
		if IsPermanent(err) {
			return err
		}
		if attempt == maxAttempts {
			break
		}
		log.WarnContext(ctx, "events: handler failed, retrying",
			"attempt", attempt,
			"max_attempts", maxAttempts,
			"next_delay", delay,
			"error", err,
		)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
	return fmt.Errorf("events: handler failed after %d attempts: %w", maxAttempts, err)
}

// Ping checks the EventBus database connection health.
func (b *EventBus) Ping(ctx context.Context) error {
	if err := b.db.PingContext(ctx); err != nil {
		return fmt.Errorf("events: ping db: %w", err)
	}
	return nil
}

// Close stops the subscriber and the forwarder, waits up to 30s for
// in-flight handlers, then closes the publisher and the database.
func (b *EventBus) Close() error {
	if err := b.subscriber.Close(); err != nil {
		return fmt.Errorf("events: close subscriber: %w", err)
	}
	if b.fwd != nil {
		if err := b.fwd.Close(); err != nil {
			return fmt.Errorf("events: close forwarder: %w", err)
		}
	}

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(shutdownTimeout):
		b.log.Error("events: timed out waiting for in-flight handlers to complete")
	}

	if err := b.publisher.Close(); err != nil {
		return fmt.Errorf("events: close publisher: %w", err)
	}
	return b.db.Close()
}

// slogAdapter bridges logger.Logger to watermill.LoggerAdapter.
type slogAdapter struct{ log logger.Logger }

func (a *slogAdapter) Error(msg string, err error, fields watermill.LogFields) {
	a.log.Error(msg, append(fieldsToArgs(fields), "error", err)...)
}
func (a *slogAdapter) Info(msg string, fields watermill.LogFields) {
	a.log.Info(msg, fieldsToArgs(fields)...)
}
func (a *slogAdapter) Debug(msg string, fields watermill.LogFields) {
	a.log.Debug(msg, fieldsToArgs(fields)...)
}
func (a *slogAdapter) Trace(msg string, fields watermill.LogFields) {
	a.log.Debug(msg, fieldsToArgs(fields)...)
}
func (a *slogAdapter) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return &slogAdapter{log: a.log.With(fieldsToArgs(fields)...)}
}

func fieldsToArgs(fields watermill.LogFields) []any {
	args := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return args
}
