package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Outcome values recorded for a refinement call.
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected" // missing fields, model never called
	OutcomeFailed   = "failed"   // model call failed
)

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

// Queries holds the prepared statement text for the usage metrics tables.
type Queries struct {
	db DBTX
}

// New returns Queries bound to db.
func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// RefinementEvent is one recorded call to the refine endpoint.
type RefinementEvent struct {
	ID          string
	RequestID   string
	FieldKind   string
	Perspective string
	Provider    string
	Outcome     string
	InputChars  int64
	OutputChars int64
	LatencyMs   int64
}

const insertRefinementEvent = `
INSERT INTO refinement_events (
    id, request_id, field_kind, perspective, provider, outcome,
    input_chars, output_chars, latency_ms
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`

// InsertRefinementEvent records a refinement call.
func (q *Queries) InsertRefinementEvent(ctx context.Context, e RefinementEvent) error {
	_, err := q.db.ExecContext(ctx, insertRefinementEvent,
		e.ID, e.RequestID, e.FieldKind, e.Perspective, e.Provider, e.Outcome,
		e.InputChars, e.OutputChars, e.LatencyMs,
	)
	if err != nil {
		return fmt.Errorf("insert refinement event: %w", err)
	}
	return nil
}

// CountRefinementEvents returns the total number of recorded events.
func (q *Queries) CountRefinementEvents(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM refinement_events").Scan(&count)
	return count, err
}

// CountRefinementEventsSince returns the number of events at or after since.
func (q *Queries) CountRefinementEventsSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM refinement_events WHERE created_at >= ?",
		since.UTC().Format("2006-01-02 15:04:05"),
	).Scan(&count)
	return count, err
}

// OutcomeCount is an aggregate row grouped by outcome.
type OutcomeCount struct {
	Outcome      string
	Count        int64
	AvgLatencyMs float64
}

// CountByOutcome groups events by outcome.
func (q *Queries) CountByOutcome(ctx context.Context) ([]OutcomeCount, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT outcome, COUNT(*), COALESCE(AVG(latency_ms), 0)
		FROM refinement_events
		GROUP BY outcome
		ORDER BY outcome
	`)
	if err != nil {
		return nil, fmt.Errorf("query outcomes: %w", err)
	}
	defer rows.Close()

	var out []OutcomeCount
	for rows.Next() {
		var row OutcomeCount
		if err := rows.Scan(&row.Outcome, &row.Count, &row.AvgLatencyMs); err != nil {
			return nil, fmt.Errorf("scan outcome: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// BreakdownCount is an aggregate row grouped by field kind and perspective.
type BreakdownCount struct {
	FieldKind   string
	Perspective string
	Count       int64
}

// CountByKindAndPerspective groups successful refinements by field kind and
// perspective.
func (q *Queries) CountByKindAndPerspective(ctx context.Context) ([]BreakdownCount, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT field_kind, perspective, COUNT(*)
		FROM refinement_events
		WHERE outcome = ?
		GROUP BY field_kind, perspective
		ORDER BY field_kind, perspective
	`, OutcomeSuccess)
	if err != nil {
		return nil, fmt.Errorf("query breakdown: %w", err)
	}
	defer rows.Close()

	var out []BreakdownCount
	for rows.Next() {
		var row BreakdownCount
		if err := rows.Scan(&row.FieldKind, &row.Perspective, &row.Count); err != nil {
			return nil, fmt.Errorf("scan breakdown: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
