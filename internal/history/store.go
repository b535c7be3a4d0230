// Package history is the append-only analysis audit store. Writes are best
// effort: a failed insert is logged and dropped, never surfaced to the
// caller of the pipeline.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/k-a-v-i-n-0-0-2/google-govdocgenie/internal/common"
	"github.com/k-a-v-i-n-0-0-2/google-govdocgenie/internal/pipeline"
)

const schema = `
CREATE TABLE IF NOT EXISTS analyses (
	id             TEXT PRIMARY KEY,
	created_at     TEXT NOT NULL,
	decision       TEXT NOT NULL,
	confidence     REAL NOT NULL,
	score          REAL NOT NULL,
	document_count INTEGER NOT NULL,
	response_json  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_analyses_created_at ON analyses (created_at);
`

// Record is one stored analysis row.
type Record struct {
	ID            string    `json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	Decision      string    `json:"decision"`
	Confidence    float64   `json:"confidence"`
	Score         float64   `json:"score"`
	DocumentCount int       `json:"document_count"`
}

// Store wraps the sqlite handle.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open creates (or opens) the sqlite database at path and applies the
// schema. An empty path disables history; callers get a nil store, which is
// safe to use.
func Open(cfg common.HistoryConfig, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Path == "" {
		logger.Warn("history.disabled", "reason", "HISTORY_DB_PATH not set")
		return nil, nil
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply history schema: %w", err)
	}

	logger.Info("history.opened", "path", cfg.Path)
	return &Store{db: db, logger: logger}, nil
}

// Close releases the database handle. Nil-safe.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	return s.db.Close()
}

// Append stores one completed analysis. Failures are logged and swallowed.
func (s *Store) Append(ctx context.Context, resp pipeline.Response) {
	if s == nil || resp.Analysis == nil {
		return
	}

	payload, err := json.Marshal(resp)
	if err != nil {
		s.logger.Error("history.encode_failed", "error", err)
		return
	}

	id := uuid.New().String()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO analyses (id, created_at, decision, confidence, score, document_count, response_json)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id,
		time.Now().UTC().Format(time.RFC3339),
		string(resp.Analysis.Decision),
		resp.Analysis.Confidence,
		resp.ComplianceScore,
		resp.DocumentCount,
		string(payload),
	)
	if err != nil {
		s.logger.Error("history.append_failed", "id", id, "error", err)
		return
	}
	s.logger.Info("history.appended", "id", id, "decision", resp.Analysis.Decision)
}

// Recent returns the newest analyses, most recent first. A nil store returns
// an empty slice.
func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	if s == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, decision, confidence, score, document_count
		 FROM analyses ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var rec Record
		var createdAt string
		if err := rows.Scan(&rec.ID, &createdAt, &rec.Decision, &rec.Confidence, &rec.Score, &rec.DocumentCount); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		if ts, err := time.Parse(time.RFC3339, createdAt); err == nil {
			rec.CreatedAt = ts
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
