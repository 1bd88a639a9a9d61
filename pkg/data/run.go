package data

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const (
	RunListLimitDefault = 20

	insertRunSQL = `INSERT INTO run (
			created_at, command, reference, predictions, mode,
			sample_count, positives, negatives, auc
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	selectRunsSQL = `SELECT id, created_at, command, reference, COALESCE(predictions, ''),
			mode, sample_count, positives, negatives, auc
		FROM run
		ORDER BY id DESC
		LIMIT ?
	`

	deleteRunsSQL = `DELETE FROM run`
)

// Run is a single recorded scoring result.
type Run struct {
	ID          int64     `json:"id" yaml:"id"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at"`
	Command     string    `json:"command" yaml:"command"`
	Reference   string    `json:"reference" yaml:"reference"`
	Predictions string    `json:"predictions,omitempty" yaml:"predictions,omitempty"`
	Mode        string    `json:"mode" yaml:"mode"`
	Count       int       `json:"count" yaml:"count"`
	Positives   int       `json:"positives" yaml:"positives"`
	Negatives   int       `json:"negatives" yaml:"negatives"`
	AUC         float64   `json:"auc" yaml:"auc"`
}

// SaveRun inserts r and sets its ID.
func SaveRun(db *sql.DB, r *Run) error {
	if db == nil {
		return errDBNotInitialized
	}
	if r == nil {
		return errors.New("run required")
	}
	if r.Command == "" || r.Reference == "" {
		return fmt.Errorf("command: %q and reference: %q are required", r.Command, r.Reference)
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}

	var pred sql.NullString
	if r.Predictions != "" {
		pred = sql.NullString{String: r.Predictions, Valid: true}
	}

	res, err := db.Exec(insertRunSQL,
		r.CreatedAt.UTC().Format(time.RFC3339Nano), r.Command, r.Reference, pred, r.Mode,
		r.Count, r.Positives, r.Negatives, r.AUC)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	if r.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("failed to get run id: %w", err)
	}

	return nil
}

// ListRuns returns up to limit runs, newest first.
func ListRuns(db *sql.DB, limit int) ([]*Run, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}
	if limit <= 0 {
		limit = RunListLimitDefault
	}

	rows, err := db.Query(selectRunsSQL, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	list := make([]*Run, 0)
	for rows.Next() {
		r := &Run{}
		var created string
		if err := rows.Scan(&r.ID, &created, &r.Command, &r.Reference, &r.Predictions,
			&r.Mode, &r.Count, &r.Positives, &r.Negatives, &r.AUC); err != nil {
			return nil, fmt.Errorf("failed to scan run row: %w", err)
		}
		if r.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
			return nil, fmt.Errorf("invalid run timestamp %q: %w", created, err)
		}
		list = append(list, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}

	return list, nil
}

// DeleteRuns removes all runs and returns the number deleted.
func DeleteRuns(db *sql.DB) (int64, error) {
	if db == nil {
		return 0, errDBNotInitialized
	}

	res, err := db.Exec(deleteRunsSQL)
	if err != nil {
		return 0, fmt.Errorf("failed to delete runs: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted runs: %w", err)
	}
	return n, nil
}
