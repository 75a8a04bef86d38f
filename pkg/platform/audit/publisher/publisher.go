// Package publisher delivers audit events to a sink, synchronously by
// default or through a buffered worker when configured.
package publisher

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"integrity/pkg/platform/audit"
)

// Publisher emits audit events. In sync mode Emit blocks on the sink; in
// async mode events are buffered and delivered by a background worker, and a
// full buffer drops the event rather than stalling the request path.
type Publisher struct {
	sink  audit.Sink
	log   *slog.Logger
	clock func() time.Time

	buffer chan audit.Event
	wg     sync.WaitGroup
	once   sync.Once
}

// Option configures a Publisher.
type Option func(*Publisher)

// WithAsyncBuffer enables asynchronous delivery with the given buffer size.
func WithAsyncBuffer(size int) Option {
	return func(p *Publisher) {
		if size > 0 {
			p.buffer = make(chan audit.Event, size)
		}
	}
}

// WithClock sets the clock function for testability.
func WithClock(clock func() time.Time) Option {
	return func(p *Publisher) {
		if clock != nil {
			p.clock = clock
		}
	}
}

// New builds a Publisher over the sink.
func New(sink audit.Sink, log *slog.Logger, opts ...Option) *Publisher {
	p := &Publisher{sink: sink, log: log, clock: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	if p.buffer != nil {
		p.wg.Add(1)
		go p.drain()
	}
	return p
}

// Emit records the event, stamping the timestamp if unset. Audit failures
// never fail the calling operation; they are logged and counted only.
func (p *Publisher) Emit(ctx context.Context, event audit.Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = p.clock()
	}
	if p.buffer != nil {
		select {
		case p.buffer <- event:
		default:
			p.log.Warn("audit buffer full, event dropped", "action", string(event.Action))
		}
		return
	}
	if err := p.sink.Append(ctx, event); err != nil {
		p.log.ErrorContext(ctx, "audit append failed", "action", string(event.Action), "error", err.Error())
	}
}

func (p *Publisher) drain() {
	defer p.wg.Done()
	for event := range p.buffer {
		if err := p.sink.Append(context.Background(), event); err != nil {
			p.log.Error("audit append failed", "action", string(event.Action), "error", err.Error())
		}
	}
}

// Close stops the async worker after delivering buffered events.
func (p *Publisher) Close() {
	p.once.Do(func() {
		if p.buffer != nil {
			close(p.buffer)
			p.wg.Wait()
		}
	})
}
