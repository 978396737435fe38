// Package schedule holds the per-property aggregate that owns showings,
// blocked ranges, disclosure packages and shares, together with the
// availability checks and the locking that keeps check-then-act atomic.
package schedule

import (
	"slices"
	"time"

	"github.com/evcraddock/showing-hive/internal/timewindow"
)

// Status is where a showing is in its approval lifecycle.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusDeclined Status = "declined"
)

// Active reports whether a showing in this status occupies its slot.
func (s Status) Active() bool {
	return s == StatusPending || s == StatusApproved
}

// Person identifies a buyer or showing client.
type Person struct {
	Name  string `json:"name" validate:"required,max=200"`
	Phone string `json:"phone,omitempty" validate:"omitempty,max=32"`
	Email string `json:"email,omitempty" validate:"omitempty,email"`
}

// Feedback is a rating and comment left after a showing or on a share.
type Feedback struct {
	ID        string    `json:"id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// Showing is a one-slot visit request for a property.
type Showing struct {
	ID            string     `json:"id"`
	PropertyID    string     `json:"property_id"`
	Client        Person     `json:"client"`
	ScheduledAt   time.Time  `json:"scheduled_at"`
	Status        Status     `json:"status"`
	LockboxCode   string     `json:"lockbox_code,omitempty"`
	CodeExpiresAt *time.Time `json:"code_expires_at,omitempty"`
	RemindedAt    *time.Time `json:"reminded_at,omitempty"`
	Feedback      []Feedback `json:"feedback,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// Window returns the slot the showing occupies for the given length.
func (s *Showing) Window(length time.Duration) timewindow.Window {
	return timewindow.Starting(s.ScheduledAt, length)
}

// BlockedRange is a seller-declared interval during which nothing may be booked.
type BlockedRange struct {
	PropertyID string    `json:"property_id"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	CreatedAt  time.Time `json:"created_at"`
}

// Window returns the range as [Start, End).
func (b BlockedRange) Window() timewindow.Window {
	return timewindow.Window{Start: b.Start, End: b.End}
}

// Package is a named, ordered set of disclosure files for a property.
type Package struct {
	ID         string    `json:"id"`
	PropertyID string    `json:"property_id"`
	Name       string    `json:"name"`
	Filenames  []string  `json:"filenames"`
	IsPublic   bool      `json:"is_public"`
	CreatedAt  time.Time `json:"created_at"`
}

// Contains reports whether filename belongs to the package.
func (p *Package) Contains(filename string) bool {
	return slices.Contains(p.Filenames, filename)
}

// Download records one file retrieval through a share.
type Download struct {
	Filename  string    `json:"filename"`
	Timestamp time.Time `json:"timestamp"`
}

// Share grants one buyer access to a package once approved.
type Share struct {
	ID         string     `json:"id"`
	PackageID  string     `json:"package_id"`
	PropertyID string     `json:"property_id"`
	Buyer      Person     `json:"buyer"`
	Approved   bool       `json:"approved"`
	ApprovedAt *time.Time `json:"approved_at,omitempty"`
	Downloads  []Download `json:"downloads"`
	Feedback   []Feedback `json:"feedback,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// State is everything the core owns for one property. It is the unit of
// mutual exclusion: see Registry.
type State struct {
	PropertyID string         `json:"property_id"`
	Showings   []*Showing     `json:"showings"`
	Blocks     []BlockedRange `json:"blocks"`
	Packages   []*Package     `json:"packages"`
	Shares     []*Share       `json:"shares"`
}

// NewState returns an empty aggregate for a property.
func NewState(propertyID string) *State {
	return &State{PropertyID: propertyID}
}

// Showing returns the showing with the given ID, or nil.
func (s *State) Showing(id string) *Showing {
	for _, sh := range s.Showings {
		if sh.ID == id {
			return sh
		}
	}
	return nil
}

// Package returns the package with the given ID, or nil.
func (s *State) Package(id string) *Package {
	for _, p := range s.Packages {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// Share returns the share with the given ID, or nil.
func (s *State) Share(id string) *Share {
	for _, sh := range s.Shares {
		if sh.ID == id {
			return sh
		}
	}
	return nil
}

// AddShowing appends a showing to the aggregate.
func (s *State) AddShowing(sh *Showing) {
	s.Showings = append(s.Showings, sh)
}

// AddPackage appends a package to the aggregate.
func (s *State) AddPackage(p *Package) {
	s.Packages = append(s.Packages, p)
}

// AddShare appends a share to the aggregate.
func (s *State) AddShare(sh *Share) {
	s.Shares = append(s.Shares, sh)
}
