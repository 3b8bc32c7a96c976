// Package journal keeps a searchable index of flow insights.
//
// It uses SQLite with FTS5. The JSON store stays authoritative: the
// journal is rebuilt from it at startup and fed incrementally after each
// flow, so losing the database loses nothing that cannot be recomputed.
package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/tides-mcp/tides/internal/tides"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// timeLayout is fixed-width so recorded_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// ─── Types ───────────────────────────────────────────────────────────────────

// Entry is one insight recorded during a flow.
type Entry struct {
	ID              int64     `json:"id"`
	TideID          string    `json:"tide_id"`
	TideName        string    `json:"tide_name"`
	Intensity       string    `json:"intensity"`
	DurationMinutes int       `json:"duration_minutes"`
	Insight         string    `json:"insight"`
	RecordedAt      time.Time `json:"recorded_at"`
}

// SearchResult embeds an Entry with its FTS5 rank score.
type SearchResult struct {
	Entry
	Rank float64 `json:"rank"`
}

// SearchOptions narrows a search.
type SearchOptions struct {
	TideID string
	Limit  int
}

// EntryFromFlow builds the journal entry for a flow on t.
func EntryFromFlow(t tides.Tide, f tides.Flow) Entry {
	return Entry{
		TideID:          t.ID,
		TideName:        t.Name,
		Intensity:       string(f.Intensity),
		DurationMinutes: f.DurationMinutes,
		Insight:         strings.TrimSpace(f.Insight),
		RecordedAt:      f.StartedAt.UTC(),
	}
}

// ─── Config ──────────────────────────────────────────────────────────────────

// Config holds journal configuration.
type Config struct {
	// Path of the SQLite database file.
	Path             string
	MaxSearchResults int
}

// DefaultMaxSearchResults caps Search when Config leaves it unset.
const DefaultMaxSearchResults = 20

// ─── Journal ─────────────────────────────────────────────────────────────────

// Journal is the insight index backed by SQLite + FTS5.
type Journal struct {
	db  *sql.DB
	cfg Config
}

// Open creates the parent directory if needed, opens SQLite in WAL mode
// and runs migrations.
func Open(cfg Config) (*Journal, error) {
	if cfg.Path == "" {
		return nil, errors.New("journal: no database path configured")
	}
	if cfg.MaxSearchResults <= 0 {
		cfg.MaxSearchResults = DefaultMaxSearchResults
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o700); err != nil {
		return nil, fmt.Errorf("journal: create data dir: %w", err)
	}

	db, err := openDB("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("journal: open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("journal: pragma %q: %w", p, err)
		}
	}

	j := &Journal{db: db, cfg: cfg}
	if err := j.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("journal: migration: %w", err)
	}
	return j, nil
}

// Close closes the underlying database connection.
func (j *Journal) Close() error {
	return j.db.Close()
}

// ─── Migrations ──────────────────────────────────────────────────────────────

func (j *Journal) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS insights (
			id               INTEGER PRIMARY KEY AUTOINCREMENT,
			tide_id          TEXT    NOT NULL,
			tide_name        TEXT    NOT NULL,
			intensity        TEXT    NOT NULL,
			duration_minutes INTEGER NOT NULL,
			insight          TEXT    NOT NULL,
			recorded_at      TEXT    NOT NULL,
			UNIQUE (tide_id, recorded_at)
		);

		CREATE INDEX IF NOT EXISTS idx_insights_tide     ON insights(tide_id);
		CREATE INDEX IF NOT EXISTS idx_insights_recorded ON insights(recorded_at DESC);

		CREATE VIRTUAL TABLE IF NOT EXISTS insights_fts USING fts5(
			insight,
			tide_name,
			content='insights',
			content_rowid='id'
		);

		CREATE TRIGGER IF NOT EXISTS insights_fts_insert AFTER INSERT ON insights BEGIN
			INSERT INTO insights_fts(rowid, insight, tide_name)
			VALUES (new.id, new.insight, new.tide_name);
		END;

		CREATE TRIGGER IF NOT EXISTS insights_fts_delete AFTER DELETE ON insights BEGIN
			INSERT INTO insights_fts(insights_fts, rowid, insight, tide_name)
			VALUES ('delete', old.id, old.insight, old.tide_name);
		END;
	`
	_, err := j.db.Exec(schema)
	return err
}

// ─── Writes ──────────────────────────────────────────────────────────────────

const insertSQL = `
	INSERT OR IGNORE INTO insights (tide_id, tide_name, intensity, duration_minutes, insight, recorded_at)
	VALUES (?, ?, ?, ?, ?, ?)`

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insert(ctx context.Context, db execer, e Entry) (bool, error) {
	res, err := db.ExecContext(ctx, insertSQL,
		e.TideID, e.TideName, e.Intensity, e.DurationMinutes, e.Insight,
		e.RecordedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// Record indexes one entry. Entries without an insight are skipped and
// re-recording the same flow is a no-op.
func (j *Journal) Record(ctx context.Context, e Entry) error {
	e.Insight = strings.TrimSpace(e.Insight)
	if e.Insight == "" {
		return nil
	}
	if e.TideID == "" {
		return errors.New("journal: entry has no tide id")
	}
	if _, err := insert(ctx, j.db, e); err != nil {
		return fmt.Errorf("journal: record insight for %s: %w", e.TideID, err)
	}
	return nil
}

// Rebuild replaces the index with the insights found in all. It returns
// the number of entries indexed.
func (j *Journal) Rebuild(ctx context.Context, all []tides.Tide) (int, error) {
	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("journal: rebuild: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM insights`); err != nil {
		return 0, fmt.Errorf("journal: rebuild: clear: %w", err)
	}

	count := 0
	for _, t := range all {
		for _, f := range t.FlowHistory {
			e := EntryFromFlow(t, f)
			if e.Insight == "" {
				continue
			}
			added, err := insert(ctx, tx, e)
			if err != nil {
				return 0, fmt.Errorf("journal: rebuild: insert %s: %w", t.ID, err)
			}
			if added {
				count++
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("journal: rebuild: commit: %w", err)
	}
	return count, nil
}

// Count returns the number of indexed insights.
func (j *Journal) Count(ctx context.Context) (int, error) {
	var n int
	if err := j.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM insights`).Scan(&n); err != nil {
		return 0, fmt.Errorf("journal: count: %w", err)
	}
	return n, nil
}

// ─── Search (FTS5) ───────────────────────────────────────────────────────────

// Search performs full-text search over insights and tide names.
// An empty or whitespace-only query returns the most recent insights.
func (j *Journal) Search(ctx context.Context, query string, opts SearchOptions) ([]SearchResult, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 10
	}
	if limit > j.cfg.MaxSearchResults {
		limit = j.cfg.MaxSearchResults
	}

	var (
		sqlStr string
		args   []any
	)
	if ftsQuery := sanitizeFTS(query); ftsQuery != "" {
		sqlStr = `
			SELECT i.id, i.tide_id, i.tide_name, i.intensity, i.duration_minutes, i.insight, i.recorded_at,
			       fts.rank
			FROM insights_fts fts
			JOIN insights i ON i.id = fts.rowid
			WHERE insights_fts MATCH ?`
		args = append(args, ftsQuery)
		if opts.TideID != "" {
			sqlStr += " AND i.tide_id = ?"
			args = append(args, opts.TideID)
		}
		sqlStr += " ORDER BY fts.rank, i.recorded_at DESC LIMIT ?"
	} else {
		sqlStr = `
			SELECT id, tide_id, tide_name, intensity, duration_minutes, insight, recorded_at,
			       0 AS rank
			FROM insights`
		if opts.TideID != "" {
			sqlStr += " WHERE tide_id = ?"
			args = append(args, opts.TideID)
		}
		sqlStr += " ORDER BY recorded_at DESC, id DESC LIMIT ?"
	}
	args = append(args, limit)

	rows, err := j.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("journal: search: %w", err)
	}
	defer func() { _ = rows.Close() }()

	results := []SearchResult{}
	for rows.Next() {
		var (
			sr       SearchResult
			recorded string
		)
		if err := rows.Scan(
			&sr.ID, &sr.TideID, &sr.TideName, &sr.Intensity, &sr.DurationMinutes, &sr.Insight, &recorded,
			&sr.Rank,
		); err != nil {
			return nil, fmt.Errorf("journal: search: scan: %w", err)
		}
		if sr.RecordedAt, err = time.Parse(timeLayout, recorded); err != nil {
			return nil, fmt.Errorf("journal: search: entry %d has bad timestamp %q: %w", sr.ID, recorded, err)
		}
		results = append(results, sr)
	}
	return results, rows.Err()
}

// sanitizeFTS wraps each word in quotes so FTS5 operators in user input
// are matched literally.
func sanitizeFTS(query string) string {
	var words []string
	for _, w := range strings.Fields(query) {
		w = strings.ReplaceAll(w, `"`, "")
		if w == "" {
			continue
		}
		words = append(words, `"`+w+`"`)
	}
	return strings.Join(words, " ")
}
