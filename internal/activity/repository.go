package activity

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

// Repository appends and lists activity events.
type Repository struct {
	db *sql.DB
}

// NewRepository creates an activity repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Append stores e and sets its ID.
func (r *Repository) Append(ctx context.Context, e *Event) error {
	if e.PropertyID == "" || e.Type == "" {
		return fmt.Errorf("event property and type are required")
	}
	details := e.Details
	if details == nil {
		details = Details{}
	}
	data, err := json.Marshal(details)
	if err != nil {
		return fmt.Errorf("encoding event details: %w", err)
	}

	result, err := r.db.ExecContext(ctx,
		"INSERT INTO activity_events (property_id, type, details_json, created_at) VALUES (?, ?, ?, ?)",
		e.PropertyID, string(e.Type), string(data), e.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("inserting event: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting insert id: %w", err)
	}
	e.ID = id
	return nil
}

// ListByProperty returns a property's events, newest first. A limit of zero
// or less returns every event.
func (r *Repository) ListByProperty(ctx context.Context, propertyID string, limit int) ([]*Event, error) {
	query := "SELECT id, property_id, type, details_json, created_at FROM activity_events WHERE property_id = ? ORDER BY id DESC"
	args := []any{propertyID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = fmt.Errorf("closing rows: %w", closeErr)
		}
	}()

	var events []*Event
	for rows.Next() {
		var (
			e       Event
			typ     string
			details string
		)
		if err := rows.Scan(&e.ID, &e.PropertyID, &typ, &details, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}
		e.Type = Type(typ)
		if err := json.Unmarshal([]byte(details), &e.Details); err != nil {
			return nil, fmt.Errorf("decoding event %d details: %w", e.ID, err)
		}
		events = append(events, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating events: %w", err)
	}

	return events, nil
}
