package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/quillform/quillform/internal/schema"
)

// SaveDraft upserts a named answer set for a form. Answers are serialized
// with their kind tags so every shape round-trips. The owning form must
// exist (foreign key).
func (s *Store) SaveDraft(ctx context.Context, formID, name string, answers schema.AnswerSet) error {
	if formID == "" || name == "" {
		return fmt.Errorf("save draft: form id and name are required")
	}
	payload, err := json.Marshal(answers)
	if err != nil {
		return fmt.Errorf("save draft %s/%s: marshal answers: %w", formID, name, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO drafts (form_id, name, answers)
		VALUES (?, ?, ?)
		ON CONFLICT(form_id, name) DO UPDATE SET
			answers = excluded.answers,
			updated_at = strftime('%Y-%m-%dT%H:%M:%fZ', 'now')
	`, formID, name, string(payload))
	if err != nil {
		return fmt.Errorf("save draft %s/%s: %w", formID, name, err)
	}
	return nil
}

// LoadDraft reads a named answer set. Returns ErrNotFound when absent.
func (s *Store) LoadDraft(ctx context.Context, formID, name string) (schema.AnswerSet, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `
		SELECT answers FROM drafts WHERE form_id = ? AND name = ?
	`, formID, name).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("load draft %s/%s: %w", formID, name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load draft %s/%s: %w", formID, name, err)
	}

	var answers schema.AnswerSet
	if err := json.Unmarshal([]byte(payload), &answers); err != nil {
		return nil, fmt.Errorf("load draft %s/%s: unmarshal answers: %w", formID, name, err)
	}
	return answers, nil
}

// ListDrafts returns the draft names stored for a form, ordered by name.
func (s *Store) ListDrafts(ctx context.Context, formID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name FROM drafts WHERE form_id = ? ORDER BY name ASC
	`, formID)
	if err != nil {
		return nil, fmt.Errorf("list drafts %s: %w", formID, err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("list drafts %s: %w", formID, err)
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

// DeleteDraft removes a named answer set. Returns ErrNotFound when absent.
func (s *Store) DeleteDraft(ctx context.Context, formID, name string) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM drafts WHERE form_id = ? AND name = ?
	`, formID, name)
	if err != nil {
		return fmt.Errorf("delete draft %s/%s: %w", formID, name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete draft %s/%s: %w", formID, name, err)
	}
	if n == 0 {
		return fmt.Errorf("delete draft %s/%s: %w", formID, name, ErrNotFound)
	}
	return nil
}
