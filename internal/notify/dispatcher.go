package notify

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

const (
	defaultQueueSize = 256
	defaultTimeout   = 10 * time.Second
)

// Dispatcher is an asynchronous Notifier. Messages are delivered one at a
// time in the order they were queued.
type Dispatcher struct {
	senders map[Channel]Sender
	timeout time.Duration
	size    int

	mu     sync.RWMutex
	closed bool
	queue  chan Message
	done   chan struct{}
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithQueueSize bounds the number of undelivered messages. When the queue is
// full new messages are dropped with a warning.
func WithQueueSize(n int) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.size = n
		}
	}
}

// WithTimeout bounds each delivery attempt.
func WithTimeout(t time.Duration) Option {
	return func(d *Dispatcher) {
		if t > 0 {
			d.timeout = t
		}
	}
}

// NewDispatcher starts a dispatcher that routes each message to the sender
// for its channel. Call Close to drain and stop it.
func NewDispatcher(senders map[Channel]Sender, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		senders: senders,
		timeout: defaultTimeout,
		size:    defaultQueueSize,
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.queue = make(chan Message, d.size)

	go d.run()
	return d
}

// Notify implements Notifier.
func (d *Dispatcher) Notify(msgs ...Message) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	for _, m := range msgs {
		if d.closed {
			slog.Warn("notification dropped, dispatcher closed", "channel", string(m.Channel), "to", m.To)
			continue
		}
		select {
		case d.queue <- m:
		default:
			slog.Warn("notification dropped, queue full", "channel", string(m.Channel), "to", m.To)
		}
	}
}

// Close stops accepting messages and waits for queued ones to be delivered.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	<-d.done
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for m := range d.queue {
		if err := d.deliver(m); err != nil {
			slog.Error("sending notification", "channel", string(m.Channel), "to", m.To, "err", err)
			continue
		}
		slog.Debug("notification sent", "channel", string(m.Channel), "to", m.To)
	}
}

// deliver sends m, giving up after the dispatcher's timeout. A sender that
// ignores its context keeps running in the background, but the queue moves on.
func (d *Dispatcher) deliver(m Message) error {
	s, ok := d.senders[m.Channel]
	if !ok {
		return fmt.Errorf("no sender for channel %q", m.Channel)
	}

	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	errc := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				errc <- fmt.Errorf("sender panicked: %v", r)
			}
		}()
		errc <- s.Send(ctx, m)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		return fmt.Errorf("delivery timed out: %w", ctx.Err())
	}
}
