// Package disclosure manages disclosure packages and the buyer shares that
// grant access to them.
package disclosure

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/evcraddock/showing-hive/internal/activity"
	"github.com/evcraddock/showing-hive/internal/clock"
	"github.com/evcraddock/showing-hive/internal/filestore"
	"github.com/evcraddock/showing-hive/internal/notify"
	"github.com/evcraddock/showing-hive/internal/property"
	"github.com/evcraddock/showing-hive/internal/schedule"
)

// Properties looks up properties by ID.
type Properties interface {
	Get(ctx context.Context, id string) (*property.Property, error)
}

// Files reads stored disclosure documents.
type Files interface {
	Read(propertyID, filename string) ([]byte, error)
	Exists(propertyID, filename string) bool
}

// Manager owns packages and the share approval workflow.
type Manager struct {
	props    Properties
	registry *schedule.Registry
	files    Files
	events   activity.Recorder
	notifier notify.Notifier
	clock    clock.Clock
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock sets the time source.
func WithClock(c clock.Clock) Option {
	return func(m *Manager) { m.clock = c }
}

// NewManager creates a disclosure manager.
func NewManager(props Properties, registry *schedule.Registry, files Files, events activity.Recorder, notifier notify.Notifier, opts ...Option) *Manager {
	m := &Manager{
		props:    props,
		registry: registry,
		files:    files,
		events:   events,
		notifier: notifier,
		clock:    clock.NewSystem(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// CreatePackage bundles stored files under a name. Every file must already
// exist in the file store.
func (m *Manager) CreatePackage(ctx context.Context, propertyID, name string, filenames []string, isPublic bool) (*schedule.Package, error) {
	p, err := m.props.Get(ctx, propertyID)
	if errors.Is(err, property.ErrNotFound) {
		return nil, fmt.Errorf("property %s: %w", propertyID, schedule.ErrInvalidProperty)
	}
	if err != nil {
		return nil, fmt.Errorf("loading property: %w", err)
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: package name is required", schedule.ErrInvalidInput)
	}
	files := dedupe(filenames)
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: package needs at least one file", schedule.ErrInvalidInput)
	}
	for _, f := range files {
		if !m.files.Exists(p.ID, f) {
			return nil, fmt.Errorf("file %s: %w", f, schedule.ErrNotFound)
		}
	}

	pkg := &schedule.Package{
		ID:         uuid.NewString(),
		PropertyID: p.ID,
		Name:       name,
		Filenames:  files,
		IsPublic:   isPublic,
		CreatedAt:  m.clock.Now(),
	}
	err = m.registry.Update(ctx, p.ID, func(tx *schedule.Tx) error {
		tx.State.AddPackage(pkg)
		m.emit(ctx, tx, p.ID, activity.PackageCreated, activity.Details{
			"package_id": pkg.ID,
			"name":       pkg.Name,
			"files":      len(pkg.Filenames),
		}, nil)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pkg, nil
}

// ListPackages returns a property's packages in creation order.
func (m *Manager) ListPackages(ctx context.Context, propertyID string) ([]*schedule.Package, error) {
	if err := m.requireProperty(ctx, propertyID); err != nil {
		return nil, err
	}
	var out []*schedule.Package
	err := m.registry.View(ctx, propertyID, func(s *schedule.State) error {
		out = append(out, s.Packages...)
		return nil
	})
	return out, err
}

// RequestShare creates a buyer's share of a package. The share starts
// approved unless the property requires disclosure approval.
func (m *Manager) RequestShare(ctx context.Context, propertyID, packageID string, buyer schedule.Person) (*schedule.Share, error) {
	p, err := m.props.Get(ctx, propertyID)
	if errors.Is(err, property.ErrNotFound) {
		return nil, fmt.Errorf("property %s: %w", propertyID, schedule.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("loading property: %w", err)
	}
	if err := schedule.ValidatePerson(buyer); err != nil {
		return nil, err
	}

	var out *schedule.Share
	err = m.registry.Update(ctx, p.ID, func(tx *schedule.Tx) error {
		pkg := tx.State.Package(packageID)
		if pkg == nil {
			return fmt.Errorf("package %s on property %s: %w", packageID, p.ID, schedule.ErrNotFound)
		}

		now := m.clock.Now()
		sh := &schedule.Share{
			ID:         uuid.NewString(),
			PackageID:  pkg.ID,
			PropertyID: p.ID,
			Buyer:      buyer,
			Approved:   !p.RequiresDisclosureApproval,
			Downloads:  []schedule.Download{},
			CreatedAt:  now,
		}
		if sh.Approved {
			sh.ApprovedAt = &now
		}
		tx.State.AddShare(sh)

		m.emit(ctx, tx, p.ID, activity.DisclosureRequested, activity.Details{
			"share_id":      sh.ID,
			"package_id":    pkg.ID,
			"buyer_name":    buyer.Name,
			"auto_approved": sh.Approved,
		}, requestedMessages(p, pkg, sh))
		out = sh
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ApproveShare grants the buyer access. Approving an approved share returns
// it unchanged.
func (m *Manager) ApproveShare(ctx context.Context, shareID string) (*schedule.Share, error) {
	return m.update(ctx, shareID, func(tx *schedule.Tx, p *property.Property, sh *schedule.Share) error {
		if sh.Approved {
			return nil
		}
		pkg := tx.State.Package(sh.PackageID)
		if pkg == nil {
			return fmt.Errorf("package %s: %w", sh.PackageID, schedule.ErrNotFound)
		}

		now := m.clock.Now()
		sh.Approved = true
		sh.ApprovedAt = &now
		m.emit(ctx, tx, p.ID, activity.ShareApproved, activity.Details{
			"share_id":   sh.ID,
			"package_id": sh.PackageID,
		}, approvedMessages(p, pkg, sh))
		return nil
	})
}

// DownloadFile returns one file of an approved share's package and records
// the download.
func (m *Manager) DownloadFile(ctx context.Context, shareID, filename string) ([]byte, error) {
	var data []byte
	_, err := m.update(ctx, shareID, func(tx *schedule.Tx, p *property.Property, sh *schedule.Share) error {
		pkg := tx.State.Package(sh.PackageID)
		if pkg == nil {
			return fmt.Errorf("package %s: %w", sh.PackageID, schedule.ErrNotFound)
		}
		if !pkg.Contains(filename) {
			return fmt.Errorf("file %s in package %s: %w", filename, pkg.ID, schedule.ErrNotFound)
		}
		if !sh.Approved {
			return fmt.Errorf("share %s: %w", sh.ID, schedule.ErrNotApproved)
		}

		b, err := m.files.Read(p.ID, filename)
		if errors.Is(err, filestore.ErrNotFound) || errors.Is(err, filestore.ErrInvalidName) {
			return fmt.Errorf("file %s: %w", filename, schedule.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("reading %s: %w", filename, err)
		}

		sh.Downloads = append(sh.Downloads, schedule.Download{Filename: filename, Timestamp: m.clock.Now()})
		m.emit(ctx, tx, p.ID, activity.ShareDownload, activity.Details{
			"share_id": sh.ID,
			"filename": filename,
		}, nil)
		data = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

// SubmitShareFeedback attaches a rating of 1 to 5 and a comment to a share
// and tells the seller and agent.
func (m *Manager) SubmitShareFeedback(ctx context.Context, shareID string, rating int, comment string) (*schedule.Feedback, error) {
	fb, err := schedule.NewFeedback(rating, comment, m.clock.Now())
	if err != nil {
		return nil, err
	}

	_, err = m.update(ctx, shareID, func(tx *schedule.Tx, p *property.Property, sh *schedule.Share) error {
		sh.Feedback = append(sh.Feedback, fb)
		m.emit(ctx, tx, p.ID, activity.ShareFeedbackSubmitted, activity.Details{
			"share_id":    sh.ID,
			"feedback_id": fb.ID,
			"rating":      fb.Rating,
		}, feedbackMessages(p, sh, fb))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &fb, nil
}

// GetShare returns a share by ID.
func (m *Manager) GetShare(ctx context.Context, shareID string) (*schedule.Share, error) {
	propertyID, err := m.registry.Locate(ctx, schedule.KindShare, shareID)
	if err != nil {
		return nil, err
	}

	var out *schedule.Share
	err = m.registry.View(ctx, propertyID, func(s *schedule.State) error {
		out = s.Share(shareID)
		if out == nil {
			return fmt.Errorf("share %s: %w", shareID, schedule.ErrNotFound)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListShares returns a property's shares in creation order.
func (m *Manager) ListShares(ctx context.Context, propertyID string) ([]*schedule.Share, error) {
	if err := m.requireProperty(ctx, propertyID); err != nil {
		return nil, err
	}
	var out []*schedule.Share
	err := m.registry.View(ctx, propertyID, func(s *schedule.State) error {
		out = append(out, s.Shares...)
		return nil
	})
	return out, err
}

func (m *Manager) update(ctx context.Context, shareID string, fn func(tx *schedule.Tx, p *property.Property, sh *schedule.Share) error) (*schedule.Share, error) {
	propertyID, err := m.registry.Locate(ctx, schedule.KindShare, shareID)
	if err != nil {
		return nil, err
	}
	p, err := m.props.Get(ctx, propertyID)
	if err != nil {
		return nil, fmt.Errorf("loading property: %w", err)
	}

	var out *schedule.Share
	err = m.registry.Update(ctx, propertyID, func(tx *schedule.Tx) error {
		sh := tx.State.Share(shareID)
		if sh == nil {
			return fmt.Errorf("share %s: %w", shareID, schedule.ErrNotFound)
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

func (m *Manager) emit(ctx context.Context, tx *schedule.Tx, propertyID string, typ activity.Type, details activity.Details, msgs []notify.Message) {
	ctx = context.WithoutCancel(ctx)
	tx.AfterCommit(func() {
		m.events.Record(ctx, propertyID, typ, details)
		if len(msgs) > 0 {
			m.notifier.Notify(msgs...)
		}
	})
}

func dedupe(names []string) []string {
	seen := make(map[string]bool, len(names))
	var out []string
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}
