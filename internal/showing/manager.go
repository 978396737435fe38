// Package showing drives showings through request, approval, decline and
// reschedule, and issues the lockbox codes that go with approval.
package showing

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/evcraddock/showing-hive/internal/activity"
	"github.com/evcraddock/showing-hive/internal/clock"
	"github.com/evcraddock/showing-hive/internal/notify"
	"github.com/evcraddock/showing-hive/internal/property"
	"github.com/evcraddock/showing-hive/internal/schedule"
	"github.com/evcraddock/showing-hive/internal/timewindow"
)

const (
	// DefaultDuration is how long a showing occupies its property.
	DefaultDuration = time.Hour
	// DefaultCodeValidity is how long past the scheduled start a lockbox code works.
	DefaultCodeValidity = time.Hour + 15*time.Minute
)

// Properties looks up properties by ID.
type Properties interface {
	Get(ctx context.Context, id string) (*property.Property, error)
	List(ctx context.Context) ([]*property.Property, error)
}

// Manager owns the showing lifecycle.
type Manager struct {
	props    Properties
	registry *schedule.Registry
	events   activity.Recorder
	notifier notify.Notifier

	clock    clock.Clock
	codes    CodeGenerator
	duration time.Duration
	validity time.Duration
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock sets the time source.
func WithClock(c clock.Clock) Option {
	return func(m *Manager) { m.clock = c }
}

// WithCodeGenerator sets how lockbox codes are drawn.
func WithCodeGenerator(g CodeGenerator) Option {
	return func(m *Manager) { m.codes = g }
}

// WithDuration sets the length of a showing slot.
func WithDuration(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.duration = d
		}
	}
}

// WithCodeValidity sets how long after the scheduled start a code expires.
func WithCodeValidity(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.validity = d
		}
	}
}

// NewManager creates a showing manager.
func NewManager(props Properties, registry *schedule.Registry, events activity.Recorder, notifier notify.Notifier, opts ...Option) *Manager {
	m := &Manager{
		props:    props,
		registry: registry,
		events:   events,
		notifier: notifier,
		clock:    clock.NewSystem(),
		codes:    RandomCode,
		duration: DefaultDuration,
		validity: DefaultCodeValidity,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Credential is an issued lockbox code and the instant it stops working.
type Credential struct {
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ParseStart parses an ISO-8601 start time, reporting ErrInvalidTimeRange
// when it cannot.
func ParseStart(s string) (time.Time, error) {
	t, err := timewindow.Parse(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", schedule.ErrInvalidTimeRange, err)
	}
	return t, nil
}

// RequestShowing books a pending showing at start. When the property
// auto-approves showings the approval runs in the same update, so the
// returned showing is already approved.
func (m *Manager) RequestShowing(ctx context.Context, propertyID string, start time.Time, client schedule.Person) (*schedule.Showing, error) {
	p, err := m.props.Get(ctx, propertyID)
	if errors.Is(err, property.ErrNotFound) {
		return nil, fmt.Errorf("property %s: %w", propertyID, schedule.ErrInvalidProperty)
	}
	if err != nil {
		return nil, fmt.Errorf("loading property: %w", err)
	}
	if err := schedule.ValidatePerson(client); err != nil {
		return nil, err
	}
	if start.IsZero() {
		return nil, schedule.ErrInvalidTimeRange
	}
	start = start.UTC()

	var out *schedule.Showing
	err = m.registry.Update(ctx, propertyID, func(tx *schedule.Tx) error {
		if err := tx.State.CheckAvailable(timewindow.Starting(start, m.duration), m.duration, ""); err != nil {
			return err
		}

		sh := &schedule.Showing{
			ID:          uuid.NewString(),
			PropertyID:  propertyID,
			Client:      client,
			ScheduledAt: start,
			Status:      schedule.StatusPending,
			CreatedAt:   m.clock.Now(),
		}
		tx.State.AddShowing(sh)
		m.emit(ctx, tx, propertyID, activity.ShowingRequested, activity.Details{
			"showing_id":   sh.ID,
			"client_name":  client.Name,
			"scheduled_at": start,
		}, requestedMessages(p, sh))

		if p.AutoApproveShowings {
			if err := m.approve(ctx, tx, p, sh, true); err != nil {
				return err
			}
		}
		out = sh
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Approve moves a pending showing to approved and issues its lockbox code.
func (m *Manager) Approve(ctx context.Context, showingID string) (*schedule.Showing, error) {
	return m.transition(ctx, showingID, func(tx *schedule.Tx, p *property.Property, sh *schedule.Showing) error {
		return m.approve(ctx, tx, p, sh, false)
	})
}

// Decline moves a pending showing to declined, freeing its slot. Lockbox
// fields are left as they are.
func (m *Manager) Decline(ctx context.Context, showingID string) (*schedule.Showing, error) {
	return m.transition(ctx, showingID, func(tx *schedule.Tx, p *property.Property, sh *schedule.Showing) error {
		if sh.Status != schedule.StatusPending {
			return fmt.Errorf("showing %s is %s: %w", sh.ID, sh.Status, schedule.ErrInvalidState)
		}
		sh.Status = schedule.StatusDeclined
		m.emit(ctx, tx, p.ID, activity.ShowingDeclined, activity.Details{
			"showing_id": sh.ID,
		}, declinedMessages(p, sh))
		return nil
	})
}

// Reschedule moves a pending or approved showing to newStart. An approved
// showing gets a new lockbox code; its status does not change.
func (m *Manager) Reschedule(ctx context.Context, showingID string, newStart time.Time) (*schedule.Showing, error) {
	if newStart.IsZero() {
		return nil, schedule.ErrInvalidTimeRange
	}
	newStart = newStart.UTC()

	return m.transition(ctx, showingID, func(tx *schedule.Tx, p *property.Property, sh *schedule.Showing) error {
		if !sh.Status.Active() {
			return fmt.Errorf("showing %s is %s: %w", sh.ID, sh.Status, schedule.ErrInvalidState)
		}
		w := timewindow.Starting(newStart, m.duration)
		if err := tx.State.CheckAvailable(w, m.duration, sh.ID); err != nil {
			return err
		}

		previous := sh.ScheduledAt
		sh.ScheduledAt = newStart
		sh.RemindedAt = nil

		newCode := sh.Status == schedule.StatusApproved
		if newCode {
			if err := m.issueCode(sh); err != nil {
				return err
			}
		}

		m.emit(ctx, tx, p.ID, activity.ShowingRescheduled, activity.Details{
			"showing_id": sh.ID,
			"old_time":   previous,
			"new_time":   newStart,
			"new_code":   newCode,
		}, rescheduledMessages(p, sh, previous.Format(timeLayout), newCode))
		return nil
	})
}

// LockboxCode returns the showing's code if it is approved and not yet
// expired. It does not modify the showing.
func (m *Manager) LockboxCode(ctx context.Context, showingID string) (Credential, error) {
	sh, err := m.Get(ctx, showingID)
	if err != nil {
		return Credential{}, err
	}
	if sh.Status != schedule.StatusApproved || sh.LockboxCode == "" || sh.CodeExpiresAt == nil {
		return Credential{}, fmt.Errorf("showing %s is %s: %w", sh.ID, sh.Status, schedule.ErrNotApproved)
	}
	if m.clock.Now().After(*sh.CodeExpiresAt) {
		return Credential{}, fmt.Errorf("showing %s code expired at %s: %w",
			sh.ID, sh.CodeExpiresAt.Format(time.RFC3339), schedule.ErrCodeExpired)
	}
	return Credential{Code: sh.LockboxCode, ExpiresAt: *sh.CodeExpiresAt}, nil
}

// SubmitFeedback attaches a rating of 1 to 5 and a comment to a showing.
func (m *Manager) SubmitFeedback(ctx context.Context, showingID string, rating int, comment string) (*schedule.Feedback, error) {
	fb, err := schedule.NewFeedback(rating, comment, m.clock.Now())
	if err != nil {
		return nil, err
	}

	_, err = m.transition(ctx, showingID, func(tx *schedule.Tx, p *property.Property, sh *schedule.Showing) error {
		sh.Feedback = append(sh.Feedback, fb)
		m.emit(ctx, tx, p.ID, activity.ShowingFeedbackSubmitted, activity.Details{
			"showing_id":  sh.ID,
			"feedback_id": fb.ID,
			"rating":      fb.Rating,
		}, nil)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &fb, nil
}

// Get returns a showing by ID.
func (m *Manager) Get(ctx context.Context, showingID string) (*schedule.Showing, error) {
	propertyID, err := m.registry.Locate(ctx, schedule.KindShowing, showingID)
	if err != nil {
		return nil, err
	}

	var out *schedule.Showing
	err = m.registry.View(ctx, propertyID, func(s *schedule.State) error {
		out = s.Showing(showingID)
		if out == nil {
			return fmt.Errorf("showing %s: %w", showingID, schedule.ErrNotFound)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// List returns a property's showings ordered by scheduled time.
func (m *Manager) List(ctx context.Context, propertyID string) ([]*schedule.Showing, error) {
	if err := m.requireProperty(ctx, propertyID); err != nil {
		return nil, err
	}

	var out []*schedule.Showing
	err := m.registry.View(ctx, propertyID, func(s *schedule.State) error {
		out = append(out, s.Showings...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ScheduledAt.Before(out[j].ScheduledAt)
	})
	return out, nil
}

// BlockTime marks [start, end) as unavailable for the property.
func (m *Manager) BlockTime(ctx context.Context, propertyID string, start, end time.Time) (schedule.BlockedRange, error) {
	_, err := m.props.Get(ctx, propertyID)
	if errors.Is(err, property.ErrNotFound) {
		return schedule.BlockedRange{}, fmt.Errorf("property %s: %w", propertyID, schedule.ErrInvalidProperty)
	}
	if err != nil {
		return schedule.BlockedRange{}, fmt.Errorf("loading property: %w", err)
	}

	var out schedule.BlockedRange
	err = m.registry.Update(ctx, propertyID, func(tx *schedule.Tx) error {
		b, err := tx.State.AddBlock(timewindow.Window{Start: start.UTC(), End: end.UTC()}, m.clock.Now())
		if err != nil {
			return err
		}
		m.emit(ctx, tx, propertyID, activity.BlockAdded, activity.Details{
			"start": b.Start,
			"end":   b.End,
		}, nil)
		out = b
		return nil
	})
	if err != nil {
		return schedule.BlockedRange{}, err
	}
	return out, nil
}

// ListBlocks returns a property's blocked ranges ordered by start.
func (m *Manager) ListBlocks(ctx context.Context, propertyID string) ([]schedule.BlockedRange, error) {
	if err := m.requireProperty(ctx, propertyID); err != nil {
		return nil, err
	}

	var out []schedule.BlockedRange
	err := m.registry.View(ctx, propertyID, func(s *schedule.State) error {
		out = append(out, s.Blocks...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Start.Before(out[j].Start)
	})
	return out, nil
}

// Dashboard is a seller's view of one property.
type Dashboard struct {
	Property *property.Property      `json:"property"`
	Showings []*schedule.Showing     `json:"showings"`
	Blocks   []schedule.BlockedRange `json:"blocks"`
	Packages []*schedule.Package     `json:"packages"`
	Shares   []*schedule.Share       `json:"shares"`
}

// Dashboard returns everything scheduled against a property.
func (m *Manager) Dashboard(ctx context.Context, propertyID string) (*Dashboard, error) {
	p, err := m.props.Get(ctx, propertyID)
	if errors.Is(err, property.ErrNotFound) {
		return nil, fmt.Errorf("property %s: %w", propertyID, schedule.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("loading property: %w", err)
	}

	d := &Dashboard{Property: p}
	err = m.registry.View(ctx, propertyID, func(s *schedule.State) error {
		d.Showings = s.Showings
		d.Blocks = s.Blocks
		d.Packages = s.Packages
		d.Shares = s.Shares
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(d.Showings, func(i, j int) bool {
		return d.Showings[i].ScheduledAt.Before(d.Showings[j].ScheduledAt)
	})
	return d, nil
}

// SendReminders notifies buyers of approved showings that start within lead
// of now. Each showing is reminded once; rescheduling re-arms it. It returns
// the number of reminders queued.
func (m *Manager) SendReminders(ctx context.Context, lead time.Duration) (int, error) {
	props, err := m.props.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing properties: %w", err)
	}

	now := m.clock.Now()
	sent := 0
	for _, p := range props {
		err := m.registry.Update(ctx, p.ID, func(tx *schedule.Tx) error {
			for _, sh := range tx.State.Showings {
				if !dueForReminder(sh, now, lead) {
					continue
				}
				stamp := now
				sh.RemindedAt = &stamp
				m.emit(ctx, tx, p.ID, activity.ShowingReminderSent, activity.Details{
					"showing_id": sh.ID,
				}, reminderMessages(p, sh))
				sent++
			}
			return nil
		})
		if err != nil {
			return sent, fmt.Errorf("reminders for property %s: %w", p.ID, err)
		}
	}
	return sent, nil
}

func dueForReminder(sh *schedule.Showing, now time.Time, lead time.Duration) bool {
	if sh.Status != schedule.StatusApproved || sh.RemindedAt != nil || sh.CodeExpiresAt == nil {
		return false
	}
	return sh.ScheduledAt.After(now) && !sh.ScheduledAt.After(now.Add(lead))
}

// transition locates a showing and runs fn against it under the property's lock.
func (m *Manager) transition(ctx context.Context, showingID string, fn func(tx *schedule.Tx, p *property.Property, sh *schedule.Showing) error) (*schedule.Showing, error) {
	propertyID, err := m.registry.Locate(ctx, schedule.KindShowing, showingID)
	if err != nil {
		return nil, err
	}
	p, err := m.props.Get(ctx, propertyID)
	if err != nil {
		return nil, fmt.Errorf("loading property: %w", err)
	}

	var out *schedule.Showing
	err = m.registry.Update(ctx, propertyID, func(tx *schedule.Tx) error {
		sh := tx.State.Showing(showingID)
		if sh == nil {
			return fmt.Errorf("showing %s: %w", showingID, schedule.ErrNotFound)
		}
		if err := fn(tx, p, sh); err != nil {
			return err
		}
		out = sh
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (m *Manager) approve(ctx context.Context, tx *schedule.Tx, p *property.Property, sh *schedule.Showing, auto bool) error {
	if sh.Status != schedule.StatusPending {
		return fmt.Errorf("showing %s is %s: %w", sh.ID, sh.Status, schedule.ErrInvalidState)
	}
	if err := m.issueCode(sh); err != nil {
		return err
	}
	sh.Status = schedule.StatusApproved

	m.emit(ctx, tx, p.ID, activity.ShowingApproved, activity.Details{
		"showing_id":      sh.ID,
		"auto":            auto,
		"code_expires_at": *sh.CodeExpiresAt,
	}, approvedMessages(p, sh))
	return nil
}

// issueCode sets a fresh code and expiry. A replacement code always differs
// from the one it replaces.
func (m *Manager) issueCode(sh *schedule.Showing) error {
	previous := sh.LockboxCode
	var code string
	for range 8 {
		c, err := m.codes()
		if err != nil {
			return fmt.Errorf("generating lockbox code: %w", err)
		}
		code = c
		if code != previous {
			break
		}
	}
	if code == previous {
		return fmt.Errorf("generating lockbox code: generator keeps returning %s", previous)
	}

	expires := sh.ScheduledAt.Add(m.validity)
	sh.LockboxCode = code
	sh.CodeExpiresAt = &expires
	return nil
}

func (m *Manager) requireProperty(ctx context.Context, propertyID string) error {
	_, err := m.props.Get(ctx, propertyID)
	if errors.Is(err, property.ErrNotFound) {
		return fmt.Errorf("property %s: %w", propertyID, schedule.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("loading property: %w", err)
	}
	return nil
}

// emit records the event and queues the messages once tx commits.
func (m *Manager) emit(ctx context.Context, tx *schedule.Tx, propertyID string, typ activity.Type, details activity.Details, msgs []notify.Message) {
	ctx = context.WithoutCancel(ctx)
	tx.AfterCommit(func() {
		m.events.Record(ctx, propertyID, typ, details)
		if len(msgs) > 0 {
			m.notifier.Notify(msgs...)
		}
	})
}
