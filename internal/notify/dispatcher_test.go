package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type recordingSender struct {
	mu   sync.Mutex
	sent []Message
	err  error
}

func (r *recordingSender) Send(_ context.Context, m Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, m)
	return r.err
}

func (r *recordingSender) messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Message(nil), r.sent...)
}

// blockingSender holds every send until release is closed.
type blockingSender struct {
	started chan struct{}
	release chan struct{}
	once    sync.Once
	rec     recordingSender
}

func newBlockingSender() *blockingSender {
	return &blockingSender{started: make(chan struct{}), release: make(chan struct{})}
}

func (b *blockingSender) Send(ctx context.Context, m Message) error {
	b.once.Do(func() { close(b.started) })
	<-b.release
	return b.rec.Send(ctx, m)
}

func TestDispatcherPreservesOrder(t *testing.T) {
	rec := &recordingSender{}
	d := NewDispatcher(map[Channel]Sender{SMS: rec, Email: rec})

	want := []string{"requested", "approved", "rescheduled", "declined"}
	for i, body := range want {
		ch := SMS
		if i%2 == 1 {
			ch = Email
		}
		d.Notify(Message{Channel: ch, To: "x", Body: body})
	}
	d.Close()

	got := rec.messages()
	if len(got) != len(want) {
		t.Fatalf("sent %d messages, want %d", len(got), len(want))
	}
	for i, body := range want {
		if got[i].Body != body {
			t.Errorf("message %d = %q, want %q", i, got[i].Body, body)
		}
	}
}

func TestDispatcherSwallowsSendErrors(t *testing.T) {
	failing := &recordingSender{err: errors.New("twilio: 21211 invalid number")}
	ok := &recordingSender{}
	d := NewDispatcher(map[Channel]Sender{SMS: failing, Email: ok})

	d.Notify(
		Message{Channel: SMS, To: "+15550000000", Body: "one"},
		Message{Channel: Email, To: "a@example.com", Subject: "s", Body: "two"},
	)
	d.Close()

	if len(failing.messages()) != 1 {
		t.Errorf("failing sender got %d messages, want 1", len(failing.messages()))
	}
	if len(ok.messages()) != 1 {
		t.Errorf("email sender got %d messages, want 1 after earlier failure", len(ok.messages()))
	}
}

func TestDispatcherUnknownChannel(t *testing.T) {
	rec := &recordingSender{}
	d := NewDispatcher(map[Channel]Sender{Email: rec})

	d.Notify(
		Message{Channel: SMS, To: "+15550000000", Body: "no sms provider"},
		Message{Channel: Email, To: "a@example.com", Body: "delivered"},
	)
	d.Close()

	got := rec.messages()
	if len(got) != 1 || got[0].Body != "delivered" {
		t.Errorf("sent = %v, want only the email", got)
	}
}

func TestDispatcherTimeout(t *testing.T) {
	slow := newBlockingSender()
	defer close(slow.release)
	rec := &recordingSender{}
	d := NewDispatcher(map[Channel]Sender{SMS: slow, Email: rec}, WithTimeout(20*time.Millisecond))

	d.Notify(
		Message{Channel: SMS, To: "+15550000000", Body: "stuck"},
		Message{Channel: Email, To: "a@example.com", Body: "after"},
	)

	done := make(chan struct{})
	go func() {
		d.Close()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("dispatcher did not move past a hung sender")
	}

	if got := rec.messages(); len(got) != 1 {
		t.Errorf("sent %d messages after timeout, want 1", len(got))
	}
}

func TestDispatcherDropsWhenFull(t *testing.T) {
	slow := newBlockingSender()
	d := NewDispatcher(map[Channel]Sender{SMS: slow}, WithQueueSize(1), WithTimeout(time.Minute))

	d.Notify(Message{Channel: SMS, To: "1", Body: "first"})
	<-slow.started

	d.Notify(
		Message{Channel: SMS, To: "2", Body: "queued"},
		Message{Channel: SMS, To: "3", Body: "dropped"},
	)
	close(slow.release)
	d.Close()

	got := slow.rec.messages()
	if len(got) != 2 {
		t.Fatalf("sent %d messages, want 2", len(got))
	}
	if got[1].Body != "queued" {
		t.Errorf("second message = %q, want %q", got[1].Body, "queued")
	}
}

func TestDispatcherNotifyAfterClose(t *testing.T) {
	rec := &recordingSender{}
	d := NewDispatcher(map[Channel]Sender{SMS: rec})
	d.Close()
	d.Close()

	d.Notify(Message{Channel: SMS, To: "1", Body: "late"})

	if len(rec.messages()) != 0 {
		t.Error("message delivered after close")
	}
}
