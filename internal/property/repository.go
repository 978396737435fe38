package property

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var validate = validator.New()

// Repository provides CRUD operations for properties.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a property repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const insertSQL = `INSERT INTO properties
	(id, name, address, seller_name, seller_phone, seller_email, agent_name, agent_phone, agent_email,
	 auto_approve_showings, requires_disclosure_approval, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

const selectColumns = `id, name, address, seller_name, seller_phone, seller_email, agent_name, agent_phone, agent_email,
	auto_approve_showings, requires_disclosure_approval, created_at, updated_at`

// Insert validates and stores a new property, assigning an ID when empty.
func (r *Repository) Insert(ctx context.Context, p *Property) (*Property, error) {
	if err := validate.Struct(p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}

	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx, insertSQL,
		p.ID, p.Name, p.Address,
		p.Seller.Name, p.Seller.Phone, p.Seller.Email,
		p.Agent.Name, p.Agent.Phone, p.Agent.Email,
		p.AutoApproveShowings, p.RequiresDisclosureApproval,
		now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting property: %w", err)
	}

	return r.Get(ctx, p.ID)
}

// Get returns a property by its ID, or ErrNotFound.
func (r *Repository) Get(ctx context.Context, id string) (*Property, error) {
	query := fmt.Sprintf("SELECT %s FROM properties WHERE id = ?", selectColumns)
	row := r.db.QueryRowContext(ctx, query, id)

	p, err := scanProperty(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("property %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying property %s: %w", id, err)
	}

	return p, nil
}

// List returns all properties, newest first.
func (r *Repository) List(ctx context.Context) ([]*Property, error) {
	query := fmt.Sprintf("SELECT %s FROM properties ORDER BY created_at DESC, name", selectColumns)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing properties: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = fmt.Errorf("closing rows: %w", closeErr)
		}
	}()

	var properties []*Property
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning property: %w", err)
		}
		properties = append(properties, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating properties: %w", err)
	}

	return properties, nil
}

// Update replaces a property's contacts and policy flags.
func (r *Repository) Update(ctx context.Context, p *Property) error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE properties SET name = ?, address = ?,
			seller_name = ?, seller_phone = ?, seller_email = ?,
			agent_name = ?, agent_phone = ?, agent_email = ?,
			auto_approve_showings = ?, requires_disclosure_approval = ?,
			updated_at = ?
		 WHERE id = ?`,
		p.Name, p.Address,
		p.Seller.Name, p.Seller.Phone, p.Seller.Email,
		p.Agent.Name, p.Agent.Phone, p.Agent.Email,
		p.AutoApproveShowings, p.RequiresDisclosureApproval,
		time.Now().UTC(), p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating property: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("property %s: %w", p.ID, ErrNotFound)
	}

	return nil
}
