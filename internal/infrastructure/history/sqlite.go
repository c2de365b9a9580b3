package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/apex/log"
	"github.com/foodscore/backend/internal/domain"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS analysis_history (
	id                TEXT PRIMARY KEY,
	product_name      TEXT NOT NULL,
	barcode           TEXT NOT NULL DEFAULT '',
	source            TEXT NOT NULL,
	score             INTEGER NOT NULL,
	band              TEXT NOT NULL,
	score_impact      INTEGER NOT NULL,
	ingredients_count INTEGER NOT NULL,
	payload           TEXT NOT NULL,
	created_at        INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_analysis_history_created_at ON analysis_history (created_at DESC);
`

const insertAnalysis = `INSERT INTO analysis_history
	(id, product_name, barcode, source, score, band, score_impact, ingredients_count, payload, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

const listAnalyses = `SELECT id, product_name, barcode, source, score, band, score_impact, ingredients_count, created_at
	FROM analysis_history ORDER BY created_at DESC, rowid DESC LIMIT ?`

var pragmas = []string{
	"PRAGMA journal_mode=WAL",
	"PRAGMA busy_timeout=10000",
	"PRAGMA synchronous=NORMAL",
}

// Store persists finished analyses in SQLite
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (or creates) the SQLite database at path and ensures the schema exists
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	// SQLite allows a single writer
	db.SetMaxOpenConns(1)

	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	store := NewStore(db)
	if err := store.Init(ctx); err != nil {
		db.Close()
		return nil, err
	}

	log.WithField("path", path).Info("history store ready")
	return store, nil
}

// NewStore wraps an already opened database
func NewStore(db *sql.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// Init creates the history table and index when missing
func (s *Store) Init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create history schema: %w", err)
	}
	return nil
}

// Save stores one analysis. The full analysis is kept as JSON next to the listed columns.
func (s *Store) Save(ctx context.Context, analysis *domain.Analysis) error {
	if analysis == nil || analysis.Product == nil || analysis.Score == nil {
		return errors.New("history: incomplete analysis")
	}

	id := analysis.ID
	if id == "" {
		id = uuid.NewString()
	}
	createdAt := analysis.AnalyzedAt
	if createdAt.IsZero() {
		createdAt = s.now()
	}

	payload, err := json.Marshal(analysis)
	if err != nil {
		return fmt.Errorf("history: encode analysis: %w", err)
	}

	_, err = s.db.ExecContext(ctx, insertAnalysis,
		id,
		analysis.Product.ProductName,
		analysis.Product.Barcode,
		analysis.Product.Source,
		analysis.Score.TotalScore,
		string(analysis.Score.Band),
		analysis.Score.ScoreImpact,
		len(analysis.Product.Ingredients),
		string(payload),
		createdAt.UTC().UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("history: insert analysis %s: %w", id, err)
	}
	return nil
}

// List returns up to limit entries, newest first
func (s *Store) List(ctx context.Context, limit int) ([]domain.HistoryEntry, error) {
	if limit <= 0 {
		return []domain.HistoryEntry{}, nil
	}

	rows, err := s.db.QueryContext(ctx, listAnalyses, limit)
	if err != nil {
		return nil, fmt.Errorf("history: query: %w", err)
	}
	defer rows.Close()

	entries := make([]domain.HistoryEntry, 0, limit)
	for rows.Next() {
		var (
			e         domain.HistoryEntry
			band      string
			createdAt int64
		)
		if err := rows.Scan(&e.ID, &e.ProductName, &e.Barcode, &e.Source, &e.Score, &band, &e.ScoreImpact, &e.IngredientsCount, &createdAt); err != nil {
			return nil, fmt.Errorf("history: scan: %w", err)
		}
		e.Band = domain.Band(band)
		e.CreatedAt = time.Unix(0, createdAt).UTC()
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history: rows: %w", err)
	}

	return entries, nil
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}
