package database

import (
	"database/sql"
	"time"
)

// Outcome is the result of one weighted-adjustment save attempt
type Outcome string

const (
	OutcomeSaved    Outcome = "saved"    // backend answered "ok"
	OutcomeRejected Outcome = "rejected" // backend answered with another status
	OutcomeFailed   Outcome = "failed"   // no usable answer
)

// Adjustment is one journal entry
type Adjustment struct {
	ID        string    `json:"id"`
	CardNo    string    `json:"card_no"`
	Value     string    `json:"value"`
	Outcome   Outcome   `json:"outcome"`
	Message   *string   `json:"message,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// JournalStats summarizes the journal
type JournalStats struct {
	Total    int        `json:"total"`
	Saved    int        `json:"saved"`
	Rejected int        `json:"rejected"`
	Failed   int        `json:"failed"`
	Cards    int        `json:"cards"`
	LastAt   *time.Time `json:"last_at,omitempty"`
}

// ListOptions filters journal listings
type ListOptions struct {
	CardNo  *string
	Outcome *Outcome
	Since   *time.Time
	Limit   int
	Offset  int
}

// NullString is a helper to convert *string to sql.NullString
func NullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// StringPtr converts sql.NullString to *string
func StringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}
