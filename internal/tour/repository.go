package tour

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/evcraddock/showing-hive/internal/schedule"
)

// Repository stores tours.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a tour repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Insert stores a tour.
func (r *Repository) Insert(ctx context.Context, t *Tour) error {
	stops, err := json.Marshal(t.Stops)
	if err != nil {
		return fmt.Errorf("encoding itinerary: %w", err)
	}
	_, err = r.db.ExecContext(ctx,
		"INSERT INTO tours (id, buyer_name, itinerary_json, created_at) VALUES (?, ?, ?, ?)",
		t.ID, t.BuyerName, string(stops), t.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("inserting tour: %w", err)
	}
	return nil
}

// Get returns a tour by ID.
func (r *Repository) Get(ctx context.Context, id string) (*Tour, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT id, buyer_name, itinerary_json, created_at FROM tours WHERE id = ?", id)
	t, err := scanTour(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("tour %s: %w", id, schedule.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying tour %s: %w", id, err)
	}
	return t, nil
}

// List returns all tours, newest first.
func (r *Repository) List(ctx context.Context) ([]*Tour, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, buyer_name, itinerary_json, created_at FROM tours ORDER BY created_at DESC, id")
	if err != nil {
		return nil, fmt.Errorf("listing tours: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = fmt.Errorf("closing rows: %w", closeErr)
		}
	}()

	var tours []*Tour
	for rows.Next() {
		t, err := scanTour(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning tour: %w", err)
		}
		tours = append(tours, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tours: %w", err)
	}
	return tours, nil
}

func scanTour(row interface{ Scan(...interface{}) error }) (*Tour, error) {
	var (
		t     Tour
		stops string
	)
	if err := row.Scan(&t.ID, &t.BuyerName, &stops, &t.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(stops), &t.Stops); err != nil {
		return nil, fmt.Errorf("decoding itinerary: %w", err)
	}
	return &t, nil
}
