package schedule

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// SQLiteStore persists each aggregate as a JSON document in the schedules
// table, with an entity index for Locate.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a store over an open database.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Load implements Store.
func (s *SQLiteStore) Load(ctx context.Context, propertyID string) (*State, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		"SELECT state_json FROM schedules WHERE property_id = ?", propertyID,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return NewState(propertyID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying schedule: %w", err)
	}

	var st State
	if err := json.Unmarshal([]byte(data), &st); err != nil {
		return nil, fmt.Errorf("decoding schedule: %w", err)
	}
	return &st, nil
}

// Save implements Store.
func (s *SQLiteStore) Save(ctx context.Context, st *State) (err error) {
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encoding schedule: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				err = fmt.Errorf("%w (also failed to roll back: %v)", err, rbErr)
			}
		}
	}()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO schedules (property_id, state_json, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(property_id) DO UPDATE SET state_json = excluded.state_json, updated_at = excluded.updated_at`,
		st.PropertyID, string(data), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("saving schedule: %w", err)
	}

	for _, e := range st.entities() {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO schedule_index (entity_id, kind, property_id) VALUES (?, ?, ?)
			 ON CONFLICT(entity_id) DO NOTHING`,
			e.id, string(e.kind), st.PropertyID,
		)
		if err != nil {
			return fmt.Errorf("indexing %s %s: %w", e.kind, e.id, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("committing schedule: %w", err)
	}
	return nil
}

// Locate implements Store.
func (s *SQLiteStore) Locate(ctx context.Context, kind Kind, id string) (string, error) {
	var propertyID string
	err := s.db.QueryRowContext(ctx,
		"SELECT property_id FROM schedule_index WHERE entity_id = ? AND kind = ?", id, string(kind),
	).Scan(&propertyID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("locating %s %s: %w", kind, id, err)
	}
	return propertyID, nil
}
