package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Run is one scored performance.
type Run struct {
	RunID            string    `json:"run_id"`
	SongID           string    `json:"song_id"`
	PerformancePath  string    `json:"performance_path"`
	ResultPath       string    `json:"result_path"`
	Accuracy         float64   `json:"accuracy"`
	MedianCentsError float64   `json:"median_cents_error"`
	Phrases          int       `json:"phrases"`
	Insufficient     int       `json:"insufficient"`
	Degraded         bool      `json:"degraded"`
	CreatedAt        time.Time `json:"created_at"`
}

// NewRunID returns a fresh run identifier.
func NewRunID() string {
	return uuid.NewString()
}

const runColumns = "run_id, song_id, performance_path, result_path, accuracy, median_cents_error, phrases, insufficient, degraded, created_at"

// RecordRun stores a scoring run. A missing RunID is generated and the
// stored run is returned. The song must already be in the catalog.
func (s *Store) RecordRun(ctx context.Context, run Run) (*Run, error) {
	if strings.TrimSpace(run.SongID) == "" {
		return nil, errors.New("record run: song_id is required")
	}
	if strings.TrimSpace(run.RunID) == "" {
		run.RunID = NewRunID()
	} else if _, err := uuid.Parse(run.RunID); err != nil {
		return nil, fmt.Errorf("record run: invalid run_id %q: %w", run.RunID, err)
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	err := s.exec(ctx,
		`INSERT INTO runs (`+runColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID,
		run.SongID,
		run.PerformancePath,
		nullableString(run.ResultPath),
		run.Accuracy,
		run.MedianCentsError,
		run.Phrases,
		run.Insufficient,
		boolToInt(run.Degraded),
		formatTime(run.CreatedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("record run for %s: %w", run.SongID, err)
	}
	run.CreatedAt = run.CreatedAt.UTC()
	return &run, nil
}

// ListRuns returns runs newest first. An empty songID lists runs for all
// songs; limit <= 0 means no limit.
func (s *Store) ListRuns(ctx context.Context, songID string, limit int) ([]Run, error) {
	query := "SELECT " + runColumns + " FROM runs"
	var args []any
	if strings.TrimSpace(songID) != "" {
		query += " WHERE song_id = ?"
		args = append(args, songID)
	}
	query += " ORDER BY created_at DESC, rowid DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ensureContext(ctx), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

func scanRun(scanner interface{ Scan(dest ...any) error }) (*Run, error) {
	var (
		run        Run
		resultPath sql.NullString
		degraded   int
		createdRaw sql.NullString
	)
	if err := scanner.Scan(
		&run.RunID,
		&run.SongID,
		&run.PerformancePath,
		&resultPath,
		&run.Accuracy,
		&run.MedianCentsError,
		&run.Phrases,
		&run.Insufficient,
		&degraded,
		&createdRaw,
	); err != nil {
		return nil, err
	}
	run.ResultPath = resultPath.String
	run.Degraded = degraded != 0
	run.CreatedAt = parseTime(createdRaw)
	return &run, nil
}
