// Package property provides the property domain model and data access.
package property

import (
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when a property ID is unknown.
	ErrNotFound = errors.New("property not found")
	// ErrInvalid is returned when a property fails validation.
	ErrInvalid = errors.New("invalid property")
)

// Contact is a person reachable about a property. All fields are optional.
type Contact struct {
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone,omitempty" validate:"omitempty,max=32"`
	Email string `json:"email,omitempty" validate:"omitempty,email"`
}

// IsZero reports whether the contact has no name, phone or email.
func (c Contact) IsZero() bool {
	return c.Name == "" && c.Phone == "" && c.Email == ""
}

// Property is a listing whose showings and disclosures are coordinated here.
type Property struct {
	ID                         string    `json:"id"`
	Name                       string    `json:"name" validate:"required"`
	Address                    string    `json:"address" validate:"required"`
	Seller                     Contact   `json:"seller"`
	Agent                      Contact   `json:"agent"`
	AutoApproveShowings        bool      `json:"auto_approve_showings"`
	RequiresDisclosureApproval bool      `json:"requires_disclosure_approval"`
	CreatedAt                  time.Time `json:"created_at"`
	UpdatedAt                  time.Time `json:"updated_at"`
}

// Contacts returns the seller and agent contacts that are set, seller first.
func (p *Property) Contacts() []Contact {
	var out []Contact
	if !p.Seller.IsZero() {
		out = append(out, p.Seller)
	}
	if !p.Agent.IsZero() {
		out = append(out, p.Agent)
	}
	return out
}

// scanProperty scans a property from a database row.
func scanProperty(row interface{ Scan(...interface{}) error }) (*Property, error) {
	var p Property
	err := row.Scan(
		&p.ID, &p.Name, &p.Address,
		&p.Seller.Name, &p.Seller.Phone, &p.Seller.Email,
		&p.Agent.Name, &p.Agent.Phone, &p.Agent.Email,
		&p.AutoApproveShowings, &p.RequiresDisclosureApproval,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
