package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Song is one built reference asset.
type Song struct {
	SongID       string    `json:"song_id"`
	Slug         string    `json:"slug"`
	Version      string    `json:"version"`
	AssetPath    string    `json:"asset_path"`
	Duration     float64   `json:"duration"`
	Tempo        float64   `json:"tempo"`
	Key          string    `json:"key"`
	Segments     int       `json:"segments"`
	NoteBins     int       `json:"note_bins"`
	Phrases      int       `json:"phrases"`
	AlignQuality float64   `json:"align_quality"`
	AlignMethod  string    `json:"align_method"`
	Degraded     bool      `json:"degraded"`
	BuiltAt      time.Time `json:"built_at"`
}

const songColumns = "song_id, slug, version, asset_path, duration, tempo, song_key, segments, note_bins, phrases, align_quality, align_method, degraded, built_at"

// UpsertSong inserts the song or replaces the row with the same song_id.
// Rebuilding a song keeps its run history.
func (s *Store) UpsertSong(ctx context.Context, song Song) error {
	if strings.TrimSpace(song.SongID) == "" {
		return errors.New("upsert song: song_id is required")
	}
	if strings.TrimSpace(song.Slug) == "" {
		song.Slug = song.SongID
	}
	err := s.exec(ctx,
		`INSERT INTO songs (`+songColumns+`)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(song_id) DO UPDATE SET
            slug = excluded.slug,
            version = excluded.version,
            asset_path = excluded.asset_path,
            duration = excluded.duration,
            tempo = excluded.tempo,
            song_key = excluded.song_key,
            segments = excluded.segments,
            note_bins = excluded.note_bins,
            phrases = excluded.phrases,
            align_quality = excluded.align_quality,
            align_method = excluded.align_method,
            degraded = excluded.degraded,
            built_at = excluded.built_at`,
		song.SongID,
		song.Slug,
		song.Version,
		song.AssetPath,
		song.Duration,
		song.Tempo,
		nullableString(song.Key),
		song.Segments,
		song.NoteBins,
		song.Phrases,
		song.AlignQuality,
		nullableString(song.AlignMethod),
		boolToInt(song.Degraded),
		formatTime(song.BuiltAt),
	)
	if err != nil {
		return fmt.Errorf("upsert song %s: %w", song.SongID, err)
	}
	return nil
}

// GetSong returns the song with the given id or ErrNotFound.
func (s *Store) GetSong(ctx context.Context, songID string) (*Song, error) {
	row := s.db.QueryRowContext(ensureContext(ctx),
		"SELECT "+songColumns+" FROM songs WHERE song_id = ?", songID)
	song, err := scanSong(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("song %s: %w", songID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get song %s: %w", songID, err)
	}
	return song, nil
}

// ListSongs returns every song ordered by slug.
func (s *Store) ListSongs(ctx context.Context) ([]Song, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx),
		"SELECT "+songColumns+" FROM songs ORDER BY slug")
	if err != nil {
		return nil, fmt.Errorf("list songs: %w", err)
	}
	defer rows.Close()

	var songs []Song
	for rows.Next() {
		song, err := scanSong(rows)
		if err != nil {
			return nil, fmt.Errorf("scan song: %w", err)
		}
		songs = append(songs, *song)
	}
	return songs, rows.Err()
}

func scanSong(scanner interface{ Scan(dest ...any) error }) (*Song, error) {
	var (
		song        Song
		key         sql.NullString
		alignMethod sql.NullString
		degraded    int
		builtRaw    sql.NullString
	)
	if err := scanner.Scan(
		&song.SongID,
		&song.Slug,
		&song.Version,
		&song.AssetPath,
		&song.Duration,
		&song.Tempo,
		&key,
		&song.Segments,
		&song.NoteBins,
		&song.Phrases,
		&song.AlignQuality,
		&alignMethod,
		&degraded,
		&builtRaw,
	); err != nil {
		return nil, err
	}
	song.Key = key.String
	song.AlignMethod = alignMethod.String
	song.Degraded = degraded != 0
	song.BuiltAt = parseTime(builtRaw)
	return &song, nil
}
