package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func setupTestDB(t *testing.T) (*DB, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "gcgcards-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}

	dbPath := filepath.Join(tmpDir, "test.db")
	db, err := Open(dbPath)
	if err != nil {
		os.RemoveAll(tmpDir)
		t.Fatalf("failed to open database: %v", err)
	}

	cleanup := func() {
		db.Close()
		os.RemoveAll(tmpDir)
	}

	return db, cleanup
}

func TestOpen(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='adjustments'").Scan(&count)
	if err != nil {
		t.Fatalf("failed to query tables: %v", err)
	}
	if count != 1 {
		t.Errorf("expected adjustments table to exist")
	}

	if err := db.Health(context.Background()); err != nil {
		t.Errorf("Health() error = %v", err)
	}
}

func TestOpen_Reopen(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "nested", "journal.db")

	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	if err := db.RecordAdjustment(context.Background(), &Adjustment{CardNo: "GD01-001", Value: "1", Outcome: OutcomeSaved}); err != nil {
		t.Fatalf("RecordAdjustment() error = %v", err)
	}
	db.Close()

	db, err = Open(dbPath)
	if err != nil {
		t.Fatalf("second open: %v", err)
	}
	defer db.Close()

	entries, err := db.ListAdjustments(context.Background(), ListOptions{})
	if err != nil {
		t.Fatalf("ListAdjustments() error = %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected 1 entry after reopen, got %d", len(entries))
	}
}

func TestRecordAdjustment(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	msg := "找不到工作表"
	a := &Adjustment{
		CardNo:  "GD01-001",
		Value:   "1.5",
		Outcome: OutcomeRejected,
		Message: &msg,
	}
	if err := db.RecordAdjustment(ctx, a); err != nil {
		t.Fatalf("RecordAdjustment() error = %v", err)
	}
	if a.ID == "" {
		t.Error("expected ID to be assigned")
	}
	if a.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be assigned")
	}

	got, err := db.GetAdjustment(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetAdjustment() error = %v", err)
	}
	if got == nil {
		t.Fatal("expected entry, got nil")
	}
	if got.CardNo != "GD01-001" || got.Value != "1.5" || got.Outcome != OutcomeRejected {
		t.Errorf("unexpected entry: %+v", got)
	}
	if got.Message == nil || *got.Message != msg {
		t.Errorf("expected message %q, got %v", msg, got.Message)
	}

	missing, err := db.GetAdjustment(ctx, "nope")
	if err != nil {
		t.Fatalf("GetAdjustment(missing) error = %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for missing entry")
	}
}

func TestRecordAdjustment_RequiresCardNo(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	err := db.RecordAdjustment(context.Background(), &Adjustment{CardNo: "  ", Outcome: OutcomeSaved})
	if err == nil {
		t.Error("expected error for empty card number")
	}
}

func TestListAdjustments(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	entries := []Adjustment{
		{CardNo: "GD01-001", Value: "1", Outcome: OutcomeSaved, CreatedAt: base},
		{CardNo: "GD01-002", Value: "x", Outcome: OutcomeRejected, CreatedAt: base.Add(time.Hour)},
		{CardNo: "GD01-001", Value: "2", Outcome: OutcomeSaved, CreatedAt: base.Add(2 * time.Hour)},
		{CardNo: "GD01-001", Value: "3", Outcome: OutcomeFailed, CreatedAt: base.Add(3 * time.Hour)},
	}
	for i := range entries {
		if err := db.RecordAdjustment(ctx, &entries[i]); err != nil {
			t.Fatalf("RecordAdjustment(%d) error = %v", i, err)
		}
	}

	all, err := db.ListAdjustments(ctx, ListOptions{})
	if err != nil {
		t.Fatalf("ListAdjustments() error = %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(all))
	}
	if all[0].Value != "3" {
		t.Errorf("expected newest first, got %q", all[0].Value)
	}

	cardNo := "GD01-001"
	byCard, err := db.ListAdjustments(ctx, ListOptions{CardNo: &cardNo})
	if err != nil {
		t.Fatalf("ListAdjustments(card) error = %v", err)
	}
	if len(byCard) != 3 {
		t.Errorf("expected 3 entries for %s, got %d", cardNo, len(byCard))
	}

	saved := OutcomeSaved
	bySaved, err := db.ListAdjustments(ctx, ListOptions{Outcome: &saved, Limit: 1})
	if err != nil {
		t.Fatalf("ListAdjustments(outcome) error = %v", err)
	}
	if len(bySaved) != 1 || bySaved[0].Value != "2" {
		t.Errorf("expected latest saved entry, got %+v", bySaved)
	}

	since := base.Add(90 * time.Minute)
	recent, err := db.ListAdjustments(ctx, ListOptions{Since: &since})
	if err != nil {
		t.Fatalf("ListAdjustments(since) error = %v", err)
	}
	if len(recent) != 2 {
		t.Errorf("expected 2 recent entries, got %d", len(recent))
	}

	latest, err := db.LatestSaved(ctx, cardNo)
	if err != nil {
		t.Fatalf("LatestSaved() error = %v", err)
	}
	if latest == nil || latest.Value != "2" {
		t.Errorf("expected latest saved value 2, got %+v", latest)
	}

	none, err := db.LatestSaved(ctx, "GD01-002")
	if err != nil {
		t.Fatalf("LatestSaved(rejected only) error = %v", err)
	}
	if none != nil {
		t.Errorf("expected no saved entry, got %+v", none)
	}
}

func TestGetJournalStats(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	empty, err := db.GetJournalStats(ctx)
	if err != nil {
		t.Fatalf("GetJournalStats(empty) error = %v", err)
	}
	if empty.Total != 0 || empty.LastAt != nil {
		t.Errorf("expected empty stats, got %+v", empty)
	}

	for _, a := range []Adjustment{
		{CardNo: "GD01-001", Value: "1", Outcome: OutcomeSaved},
		{CardNo: "GD01-001", Value: "1", Outcome: OutcomeFailed},
		{CardNo: "GD01-002", Value: "1", Outcome: OutcomeRejected},
	} {
		a := a
		if err := db.RecordAdjustment(ctx, &a); err != nil {
			t.Fatalf("RecordAdjustment() error = %v", err)
		}
	}

	stats, err := db.GetJournalStats(ctx)
	if err != nil {
		t.Fatalf("GetJournalStats() error = %v", err)
	}
	if stats.Total != 3 || stats.Saved != 1 || stats.Rejected != 1 || stats.Failed != 1 {
		t.Errorf("unexpected counts: %+v", stats)
	}
	if stats.Cards != 2 {
		t.Errorf("expected 2 distinct cards, got %d", stats.Cards)
	}
	if stats.LastAt == nil {
		t.Error("expected LastAt to be set")
	}
}
