package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// StepRecord is the bookkeeping row for one executed pipeline step.
type StepRecord struct {
	ID        string
	Name      string
	StartedAt time.Time
	Elapsed   time.Duration
	Status    string
	Error     string
}

// StatusOK and StatusFailed are the recognized step statuses.
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// RecordStep inserts a step record, assigning it a fresh ID when none is
// set, and returns the ID.
func (s *Store) RecordStep(ctx context.Context, rec StepRecord) (string, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.Status == "" {
		rec.Status = StatusOK
	}

	_, err := s.Exec(ctx,
		`INSERT INTO steps (id, name, started_at, elapsed_ms, status, error)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Name, rec.StartedAt.UTC().Format(time.RFC3339Nano),
		rec.Elapsed.Milliseconds(), rec.Status, rec.Error)
	if err != nil {
		return "", fmt.Errorf("recording step %s: %w", rec.Name, err)
	}
	return rec.ID, nil
}

// Steps returns all recorded steps, oldest first.
func (s *Store) Steps(ctx context.Context) ([]StepRecord, error) {
	rows, err := s.Query(ctx,
		`SELECT id, name, started_at, elapsed_ms, status, COALESCE(error, '')
		 FROM steps ORDER BY started_at, id`)
	if err != nil {
		return nil, fmt.Errorf("listing steps: %w", err)
	}
	defer rows.Close()

	var records []StepRecord
	for rows.Next() {
		var rec StepRecord
		var started string
		var elapsedMS int64
		if err := rows.Scan(&rec.ID, &rec.Name, &started, &elapsedMS, &rec.Status, &rec.Error); err != nil {
			return nil, fmt.Errorf("scanning step: %w", err)
		}
		rec.StartedAt, err = time.Parse(time.RFC3339Nano, started)
		if err != nil {
			return nil, fmt.Errorf("parsing step timestamp %q: %w", started, err)
		}
		rec.Elapsed = time.Duration(elapsedMS) * time.Millisecond
		records = append(records, rec)
	}
	return records, rows.Err()
}
