package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// RecordAdjustment appends a save attempt to the journal
func (db *DB) RecordAdjustment(ctx context.Context, a *Adjustment) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	if strings.TrimSpace(a.CardNo) == "" {
		return fmt.Errorf("adjustment has no card number")
	}

	_, err := db.ExecContext(ctx, `
		INSERT INTO adjustments (id, card_no, value, outcome, message, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, a.ID, a.CardNo, a.Value, a.Outcome, NullString(a.Message), a.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record adjustment: %w", err)
	}
	return nil
}

// GetAdjustment retrieves one entry by ID. It returns nil when not found.
func (db *DB) GetAdjustment(ctx context.Context, id string) (*Adjustment, error) {
	row := db.QueryRowContext(ctx, `
		SELECT id, card_no, value, outcome, message, created_at
		FROM adjustments WHERE id = ?
	`, id)

	a, err := scanAdjustment(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return a, err
}

// LatestSaved returns the most recent successful save for a card, or nil
func (db *DB) LatestSaved(ctx context.Context, cardNo string) (*Adjustment, error) {
	row := db.QueryRowContext(ctx, `
		SELECT id, card_no, value, outcome, message, created_at
		FROM adjustments WHERE card_no = ? AND outcome = ?
		ORDER BY created_at DESC LIMIT 1
	`, cardNo, OutcomeSaved)

	a, err := scanAdjustment(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return a, err
}

// ListAdjustments retrieves journal entries, newest first
func (db *DB) ListAdjustments(ctx context.Context, opts ListOptions) ([]Adjustment, error) {
	query := `
		SELECT id, card_no, value, outcome, message, created_at
		FROM adjustments WHERE 1=1
	`
	args := []interface{}{}

	if opts.CardNo != nil {
		query += " AND card_no = ?"
		args = append(args, *opts.CardNo)
	}
	if opts.Outcome != nil {
		query += " AND outcome = ?"
		args = append(args, *opts.Outcome)
	}
	if opts.Since != nil {
		query += " AND created_at >= ?"
		args = append(args, opts.Since.UTC())
	}

	query += " ORDER BY created_at DESC"

	if opts.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", opts.Limit)
		if opts.Offset > 0 {
			query += fmt.Sprintf(" OFFSET %d", opts.Offset)
		}
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Adjustment
	for rows.Next() {
		a, err := scanAdjustment(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *a)
	}
	return entries, rows.Err()
}

// GetJournalStats counts entries by outcome
func (db *DB) GetJournalStats(ctx context.Context) (*JournalStats, error) {
	stats := &JournalStats{}

	err := db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN outcome = 'saved' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN outcome = 'rejected' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN outcome = 'failed' THEN 1 ELSE 0 END), 0),
			COUNT(DISTINCT card_no)
		FROM adjustments
	`).Scan(&stats.Total, &stats.Saved, &stats.Rejected, &stats.Failed, &stats.Cards)
	if err != nil {
		return nil, err
	}

	if stats.Total > 0 {
		var last time.Time
		err := db.QueryRowContext(ctx,
			`SELECT created_at FROM adjustments ORDER BY created_at DESC LIMIT 1`,
		).Scan(&last)
		if err != nil {
			return nil, err
		}
		stats.LastAt = &last
	}

	return stats, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanAdjustment(s scanner) (*Adjustment, error) {
	a := &Adjustment{}
	var message sql.NullString
	if err := s.Scan(&a.ID, &a.CardNo, &a.Value, &a.Outcome, &message, &a.CreatedAt); err != nil {
		return nil, err
	}
	a.Message = StringPtr(message)
	return a, nil
}
