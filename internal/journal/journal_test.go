package journal_test

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/tides-mcp/tides/internal/journal"
	"github.com/tides-mcp/tides/internal/tides"
)

var t0 = time.Date(2026, 2, 23, 8, 0, 0, 0, time.UTC)

// newTestJournal creates a Journal backed by a temp directory for isolation.
func newTestJournal(t *testing.T) *journal.Journal {
	t.Helper()
	j, err := journal.Open(journal.Config{Path: filepath.Join(t.TempDir(), "journal.db")})
	if err != nil {
		t.Fatalf("failed to open journal: %v", err)
	}
	t.Cleanup(func() { j.Close() })
	return j
}

func entry(tideID, name, insight string, at time.Time) journal.Entry {
	return journal.Entry{
		TideID:          tideID,
		TideName:        name,
		Intensity:       "moderate",
		DurationMinutes: 25,
		Insight:         insight,
		RecordedAt:      at,
	}
}

func sampleTides() []tides.Tide {
	return []tides.Tide{
		{
			ID: "tide_a", Name: "Morning Deep Work", Type: tides.TypeDaily, Status: tides.StatusActive, CreatedAt: t0,
			FlowHistory: []tides.Flow{
				{Intensity: tides.IntensityModerate, DurationMinutes: 25, StartedAt: t0.Add(time.Hour), Insight: "phone in another room"},
				{Intensity: tides.IntensityGentle, DurationMinutes: 15, StartedAt: t0.Add(25 * time.Hour)},
				{Intensity: tides.IntensityStrong, DurationMinutes: 50, StartedAt: t0.Add(49 * time.Hour), Insight: "coffee before the session"},
			},
		},
		{
			ID: "tide_b", Name: "Garden", Type: tides.TypeSeasonal, Status: tides.StatusPaused, CreatedAt: t0,
			FlowHistory: []tides.Flow{
				{Intensity: tides.IntensityGentle, DurationMinutes: 30, StartedAt: t0.Add(2 * time.Hour), Insight: "tomatoes need more sun"},
			},
		},
	}
}

// ─── Open ───────────────────────────────────────────────────────────────────

func TestOpen_CreatesDBFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "journal.db")
	j, err := journal.Open(journal.Config{Path: path})
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	defer j.Close()

	if _, err := os.Stat(path); err != nil {
		t.Errorf("database file not created: %v", err)
	}
}

func TestOpen_IdempotentReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	ctx := context.Background()

	j1, err := journal.Open(journal.Config{Path: path})
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	if err := j1.Record(ctx, entry("tide_a", "A", "keep going", t0)); err != nil {
		t.Fatalf("record: %v", err)
	}
	j1.Close()

	j2, err := journal.Open(journal.Config{Path: path})
	if err != nil {
		t.Fatalf("second open: %v", err)
	}
	defer j2.Close()

	n, err := j2.Count(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("Count = %d after reopen, want 1", n)
	}
}

func TestOpen_EmptyPath(t *testing.T) {
	if _, err := journal.Open(journal.Config{}); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestOpen_DriverFailure(t *testing.T) {
	restore := journal.SetOpenDB(func(string, string) (*sql.DB, error) {
		return nil, errors.New("driver exploded")
	})
	defer restore()

	_, err := journal.Open(journal.Config{Path: filepath.Join(t.TempDir(), "journal.db")})
	if err == nil {
		t.Fatal("expected error from driver")
	}
}

// ─── Record ─────────────────────────────────────────────────────────────────

func TestRecord_SkipsEmptyInsight(t *testing.T) {
	j := newTestJournal(t)
	ctx := context.Background()

	if err := j.Record(ctx, entry("tide_a", "A", "   ", t0)); err != nil {
		t.Fatalf("Record: %v", err)
	}
	n, _ := j.Count(ctx)
	if n != 0 {
		t.Errorf("Count = %d, want 0", n)
	}
}

func TestRecord_SameFlowTwiceIsNoop(t *testing.T) {
	j := newTestJournal(t)
	ctx := context.Background()
	e := entry("tide_a", "A", "steady", t0)

	for i := 0; i < 2; i++ {
		if err := j.Record(ctx, e); err != nil {
			t.Fatalf("Record #%d: %v", i, err)
		}
	}
	n, _ := j.Count(ctx)
	if n != 1 {
		t.Errorf("Count = %d, want 1", n)
	}
}

func TestRecord_RequiresTideID(t *testing.T) {
	j := newTestJournal(t)
	if err := j.Record(context.Background(), entry("", "A", "x", t0)); err == nil {
		t.Fatal("expected error for missing tide id")
	}
}

// ─── Rebuild ────────────────────────────────────────────────────────────────

func TestRebuild_IndexesOnlyFlowsWithInsights(t *testing.T) {
	j := newTestJournal(t)
	ctx := context.Background()

	n, err := j.Rebuild(ctx, sampleTides())
	if err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	if n != 3 {
		t.Errorf("Rebuild indexed %d, want 3", n)
	}
}

func TestRebuild_ReplacesStaleRows(t *testing.T) {
	j := newTestJournal(t)
	ctx := context.Background()

	if err := j.Record(ctx, entry("tide_gone", "Deleted", "orphaned thought", t0)); err != nil {
		t.Fatal(err)
	}
	if _, err := j.Rebuild(ctx, sampleTides()); err != nil {
		t.Fatal(err)
	}

	results, err := j.Search(ctx, "orphaned", journal.SearchOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Errorf("stale insight still searchable: %+v", results)
	}

	n, _ := j.Count(ctx)
	if n != 3 {
		t.Errorf("Count = %d, want 3", n)
	}
}

// ─── Search ─────────────────────────────────────────────────────────────────

func TestSearch_FindsRecordedInsight(t *testing.T) {
	j := newTestJournal(t)
	ctx := context.Background()
	if _, err := j.Rebuild(ctx, sampleTides()); err != nil {
		t.Fatal(err)
	}

	results, err := j.Search(ctx, "coffee", journal.SearchOptions{})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	got := results[0]
	if got.TideID != "tide_a" || got.Intensity != "strong" || got.DurationMinutes != 50 {
		t.Errorf("unexpected result: %+v", got)
	}
	if !got.RecordedAt.Equal(t0.Add(49 * time.Hour)) {
		t.Errorf("RecordedAt = %s", got.RecordedAt)
	}
}

func TestSearch_MatchesTideName(t *testing.T) {
	j := newTestJournal(t)
	ctx := context.Background()
	if _, err := j.Rebuild(ctx, sampleTides()); err != nil {
		t.Fatal(err)
	}

	results, err := j.Search(ctx, "garden", journal.SearchOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].TideID != "tide_b" {
		t.Errorf("results = %+v, want the Garden insight", results)
	}
}

func TestSearch_FilterByTide(t *testing.T) {
	j := newTestJournal(t)
	ctx := context.Background()
	if _, err := j.Rebuild(ctx, sampleTides()); err != nil {
		t.Fatal(err)
	}

	results, err := j.Search(ctx, "", journal.SearchOptions{TideID: "tide_a"})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	// Newest first.
	if results[0].Insight != "coffee before the session" {
		t.Errorf("first result = %q", results[0].Insight)
	}
}

func TestSearch_EmptyQueryReturnsRecent(t *testing.T) {
	j := newTestJournal(t)
	ctx := context.Background()
	if _, err := j.Rebuild(ctx, sampleTides()); err != nil {
		t.Fatal(err)
	}

	results, err := j.Search(ctx, "   ", journal.SearchOptions{Limit: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if !results[0].RecordedAt.After(results[1].RecordedAt) {
		t.Error("results should be newest first")
	}
}

func TestSearch_OperatorsAreLiteral(t *testing.T) {
	j := newTestJournal(t)
	ctx := context.Background()
	if _, err := j.Rebuild(ctx, sampleTides()); err != nil {
		t.Fatal(err)
	}

	// Unquoted, these would be FTS5 syntax errors.
	for _, q := range []string{`sun AND`, `"tomatoes`, `NEAR(`, `-sun`, `col:sun`} {
		if _, err := j.Search(ctx, q, journal.SearchOptions{}); err != nil {
			t.Errorf("Search(%q) error: %v", q, err)
		}
	}
}

func TestSearch_LimitCapped(t *testing.T) {
	j, err := journal.Open(journal.Config{Path: filepath.Join(t.TempDir(), "journal.db"), MaxSearchResults: 3})
	if err != nil {
		t.Fatal(err)
	}
	defer j.Close()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if err := j.Record(ctx, entry("tide_a", "A", "focus", t0.Add(time.Duration(i)*time.Hour))); err != nil {
			t.Fatal(err)
		}
	}
	results, err := j.Search(ctx, "focus", journal.SearchOptions{Limit: 50})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 3 {
		t.Errorf("got %d results, want 3", len(results))
	}
}

func TestSanitizeFTS(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"   ", ""},
		{"coffee", `"coffee"`},
		{`deep  "work"`, `"deep" "work"`},
		{`""`, ""},
		{`a"b`, `"ab"`},
	}
	for _, tt := range tests {
		if got := journal.SanitizeFTS(tt.in); got != tt.want {
			t.Errorf("SanitizeFTS(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEntryFromFlow(t *testing.T) {
	tide := sampleTides()[0]
	e := journal.EntryFromFlow(tide, tide.FlowHistory[0])
	if e.TideID != "tide_a" || e.TideName != "Morning Deep Work" || e.Insight != "phone in another room" {
		t.Errorf("EntryFromFlow = %+v", e)
	}
}
