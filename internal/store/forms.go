package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/quillform/quillform/internal/schema"
)

// ErrNotFound is returned when a requested form or draft does not exist.
var ErrNotFound = errors.New("not found")

// FormRecord is one persisted form: identity, title, and the compiled
// definition tree.
type FormRecord struct {
	ID     string         `json:"id"`
	Title  string         `json:"title"`
	Fields []schema.Field `json:"fields"`
}

// SaveForm upserts a form definition. The tree is serialized as JSON;
// saving the same ID again replaces the stored definition.
func (s *Store) SaveForm(ctx context.Context, rec FormRecord) error {
	if rec.ID == "" {
		return fmt.Errorf("save form: id is required")
	}
	definition, err := json.Marshal(rec.Fields)
	if err != nil {
		return fmt.Errorf("save form %s: marshal definition: %w", rec.ID, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO forms (id, title, definition)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			definition = excluded.definition,
			updated_at = strftime('%Y-%m-%dT%H:%M:%fZ', 'now')
	`, rec.ID, rec.Title, string(definition))
	if err != nil {
		return fmt.Errorf("save form %s: %w", rec.ID, err)
	}
	return nil
}

// LoadForm reads a form definition by ID. Returns ErrNotFound when absent.
func (s *Store) LoadForm(ctx context.Context, id string) (*FormRecord, error) {
	var (
		rec        = FormRecord{ID: id}
		definition string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT title, definition FROM forms WHERE id = ?
	`, id).Scan(&rec.Title, &definition)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("load form %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load form %s: %w", id, err)
	}

	if err := json.Unmarshal([]byte(definition), &rec.Fields); err != nil {
		return nil, fmt.Errorf("load form %s: unmarshal definition: %w", id, err)
	}
	return &rec, nil
}

// ListForms returns the stored form IDs and titles, ordered by ID for
// deterministic output.
func (s *Store) ListForms(ctx context.Context) ([]FormRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title FROM forms ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list forms: %w", err)
	}
	defer rows.Close()

	var out []FormRecord
	for rows.Next() {
		var rec FormRecord
		if err := rows.Scan(&rec.ID, &rec.Title); err != nil {
			return nil, fmt.Errorf("list forms: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// DeleteForm removes a form and, via the foreign key cascade, every draft
// saved against it. Returns ErrNotFound when the form does not exist.
func (s *Store) DeleteForm(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM forms WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete form %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete form %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("delete form %s: %w", id, ErrNotFound)
	}
	return nil
}
