// Package eventbus implements the event bus adapter.
package eventbus

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bnema/zerowrap"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/bnema/ephemera/internal/adapters/out/telemetry"
	"github.com/bnema/ephemera/internal/boundaries/out"
	"github.com/bnema/ephemera/internal/domain"
)

// Defaults for the in-memory bus.
const (
	DefaultBufferSize     = 100
	DefaultPublishTimeout = 5 * time.Second
	DefaultHandlerTimeout = 30 * time.Second
)

// ErrStopped is returned when publishing to a stopped bus.
var ErrStopped = errors.New("event bus is stopped")

var _ out.EventBus = (*InMemory)(nil)

// InMemory implements the EventBus interface using a buffered channel.
// Events are delivered to handlers one at a time, in publish order.
type InMemory struct {
	handlers  []out.EventHandler
	eventChan chan domain.Event
	done      chan struct{}
	mu        sync.RWMutex
	ctx       context.Context
	cancel    context.CancelFunc
	startOnce sync.Once
	log       zerowrap.Logger
	metrics   *telemetry.Metrics

	publishTimeout time.Duration
	handlerTimeout time.Duration
}

// Option configures an InMemory bus.
type Option func(*InMemory)

// WithMetrics records processed and dropped events.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(bus *InMemory) {
		bus.metrics = m
	}
}

// WithTimeouts overrides how long Publish waits for buffer space and how long
// a handler may run.
func WithTimeouts(publish, handler time.Duration) Option {
	return func(bus *InMemory) {
		if publish > 0 {
			bus.publishTimeout = publish
		}
		if handler > 0 {
			bus.handlerTimeout = handler
		}
	}
}

// NewInMemory creates a new in-memory event bus.
func NewInMemory(bufferSize int, log zerowrap.Logger, opts ...Option) *InMemory {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}

	ctx, cancel := context.WithCancel(context.Background())

	bus := &InMemory{
		eventChan:      make(chan domain.Event, bufferSize),
		done:           make(chan struct{}),
		ctx:            ctx,
		cancel:         cancel,
		log:            log,
		publishTimeout: DefaultPublishTimeout,
		handlerTimeout: DefaultHandlerTimeout,
	}
	for _, opt := range opts {
		opt(bus)
	}
	return bus
}

// logContext carries the bus logger and fields for zerowrap.FromCtx.
func (bus *InMemory) logContext(fields map[string]any) context.Context {
	ctx := zerowrap.WithCtx(context.Background(), bus.log)
	ctx = zerowrap.CtxWithFields(ctx, map[string]any{
		zerowrap.FieldLayer:   "adapter",
		zerowrap.FieldAdapter: "eventbus",
	})
	if len(fields) > 0 {
		ctx = zerowrap.CtxWithFields(ctx, fields)
	}
	return ctx
}

// Publish publishes an event to the bus. It blocks while the buffer is full,
// up to the publish timeout, then drops the event.
func (bus *InMemory) Publish(eventType domain.EventType, payload any) error {
	event := domain.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now(),
		Data:      payload,
	}

	switch p := payload.(type) {
	case domain.ContainerStatePayload:
		event.ContainerID = p.ContainerID
	case *domain.ContainerStatePayload:
		event.ContainerID = p.ContainerID
	}

	log := zerowrap.FromCtx(bus.logContext(map[string]any{
		"event_id":             event.ID,
		zerowrap.FieldEvent:    string(event.Type),
		zerowrap.FieldEntityID: event.ContainerID,
	}))

	if bus.ctx.Err() != nil {
		return ErrStopped
	}

	timer := time.NewTimer(bus.publishTimeout)
	defer timer.Stop()

	select {
	case bus.eventChan <- event:
		log.Debug().Msg("event published")
		return nil
	case <-bus.ctx.Done():
		return ErrStopped
	case <-timer.C:
		log.Error().Dur("timeout", bus.publishTimeout).Msg("event channel is full, dropping event")
		if bus.metrics != nil {
			bus.metrics.EventsDropped.Add(context.Background(), 1, metric.WithAttributes(
				attribute.String("event_type", string(event.Type)),
			))
		}
		return fmt.Errorf("event channel is full, dropping event %s", event.ID)
	}
}

// Subscribe adds an event handler to the bus.
func (bus *InMemory) Subscribe(handler out.EventHandler) error {
	if handler == nil {
		return errors.New("nil event handler")
	}

	bus.mu.Lock()
	defer bus.mu.Unlock()

	bus.handlers = append(bus.handlers, handler)
	log := zerowrap.FromCtx(bus.logContext(nil))
	log.Debug().
		Str(zerowrap.FieldHandler, fmt.Sprintf("%T", handler)).
		Int("total_handlers", len(bus.handlers)).
		Msg("event handler subscribed")
	return nil
}

// Unsubscribe removes an event handler from the bus.
func (bus *InMemory) Unsubscribe(handler out.EventHandler) error {
	bus.mu.Lock()
	defer bus.mu.Unlock()

	for i, h := range bus.handlers {
		if h == handler {
			bus.handlers = append(bus.handlers[:i:i], bus.handlers[i+1:]...)
			log := zerowrap.FromCtx(bus.logContext(nil))
			log.Debug().
				Str(zerowrap.FieldHandler, fmt.Sprintf("%T", handler)).
				Int("total_handlers", len(bus.handlers)).
				Msg("event handler unsubscribed")
			return nil
		}
	}
	return errors.New("handler not found")
}

// Start starts the event bus processing loop. Calling it again is a no-op.
func (bus *InMemory) Start() error {
	if bus.ctx.Err() != nil {
		return ErrStopped
	}
	bus.startOnce.Do(func() {
		log := zerowrap.FromCtx(bus.logContext(nil))
		log.Debug().Int("buffer_size", cap(bus.eventChan)).Msg("starting event bus")
		go bus.processEvents()
	})
	return nil
}

// Stop stops the event bus. Events still buffered are delivered first.
func (bus *InMemory) Stop() error {
	log := zerowrap.FromCtx(bus.logContext(nil))

	started := false
	bus.startOnce.Do(func() { close(bus.done) })
	select {
	case <-bus.done:
	default:
		started = true
	}
	bus.cancel()
	if !started {
		return nil
	}

	select {
	case <-bus.done:
		log.Debug().Msg("event bus stopped")
		return nil
	case <-time.After(bus.publishTimeout):
		log.Warn().Msg("event bus stop timeout")
		return errors.New("timeout waiting for event bus to stop")
	}
}

func (bus *InMemory) processEvents() {
	defer close(bus.done)

	for {
		select {
		case event := <-bus.eventChan:
			bus.handleEvent(event)
		case <-bus.ctx.Done():
			bus.drain()
			return
		}
	}
}

// drain delivers the events published before Stop.
func (bus *InMemory) drain() {
	for {
		select {
		case event := <-bus.eventChan:
			bus.handleEvent(event)
		default:
			return
		}
	}
}

func (bus *InMemory) handleEvent(event domain.Event) {
	bus.mu.RLock()
	handlers := make([]out.EventHandler, len(bus.handlers))
	copy(handlers, bus.handlers)
	bus.mu.RUnlock()

	for _, h := range handlers {
		if !h.CanHandle(event.Type) {
			continue
		}
		bus.dispatch(h, event)
	}
}

func (bus *InMemory) dispatch(h out.EventHandler, event domain.Event) {
	log := zerowrap.FromCtx(bus.logContext(map[string]any{
		"event_id":            event.ID,
		zerowrap.FieldEvent:   string(event.Type),
		zerowrap.FieldHandler: fmt.Sprintf("%T", h),
	}))
	start := time.Now()

	// Handlers still run during drain, so they get a context detached from Stop.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(bus.ctx), bus.handlerTimeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- h.Handle(ctx, event)
	}()

	select {
	case err := <-done:
		if err != nil {
			log.Error().Err(err).Msg("error handling event")
			return
		}
		log.Debug().Dur(zerowrap.FieldDuration, time.Since(start)).Msg("event handled")
		if bus.metrics != nil {
			bus.metrics.EventsProcessed.Add(context.Background(), 1, metric.WithAttributes(
				attribute.String("event_type", string(event.Type)),
			))
		}
	case <-ctx.Done():
		log.Warn().Dur(zerowrap.FieldDuration, time.Since(start)).Msg("event handler timed out")
	}
}
