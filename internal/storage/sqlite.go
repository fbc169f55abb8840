// Package storage provides SQLite-based persistence for solved levels and
// generated layouts.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/tilelab/internal/pushbox"
)

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// SolveEntry records one solved level.
type SolveEntry struct {
	ID        int64
	LevelID   string
	Player    string
	Moves     int
	Pushes    int
	CreatedAt time.Time
}

// LevelEntry is a cached generated layout together with the settings that
// produced it.
type LevelEntry struct {
	ID        int64
	Settings  pushbox.Settings
	Layout    string
	CreatedAt time.Time
}

// LevelStats aggregates the solves of one level.
type LevelStats struct {
	LevelID    string
	Solves     int
	BestMoves  int
	BestPushes int
	AvgMoves   float64
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS solves (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			level_id TEXT NOT NULL,
			player TEXT NOT NULL DEFAULT '',
			moves INTEGER NOT NULL,
			pushes INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_solves_level_id ON solves(level_id);
		CREATE INDEX IF NOT EXISTS idx_solves_best ON solves(level_id, moves ASC, pushes ASC);

		CREATE TABLE IF NOT EXISTS levels (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			seed INTEGER NOT NULL,
			width INTEGER NOT NULL,
			height INTEGER NOT NULL,
			num_boxes INTEGER NOT NULL,
			room_steps INTEGER NOT NULL,
			layout TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(seed, width, height, num_boxes, room_steps)
		);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveSolve records a solved level and returns the row ID.
func (s *Store) SaveSolve(levelID, player string, moves, pushes int) (int64, error) {
	result, err := s.db.Exec(
		"INSERT INTO solves (level_id, player, moves, pushes) VALUES (?, ?, ?, ?)",
		levelID, player, moves, pushes,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save solve: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// TopSolves returns the best solves of a level, fewest moves first.
// Ties are broken by pushes.
func (s *Store) TopSolves(levelID string, limit int) ([]SolveEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, level_id, player, moves, pushes, created_at
		 FROM solves
		 WHERE level_id = ?
		 ORDER BY moves ASC, pushes ASC, id ASC
		 LIMIT ?`,
		levelID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query solves: %w", err)
	}
	return scanSolves(rows)
}

// RecentSolves returns the latest solves across all levels.
func (s *Store) RecentSolves(limit int) ([]SolveEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, level_id, player, moves, pushes, created_at
		 FROM solves
		 ORDER BY id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query solves: %w", err)
	}
	return scanSolves(rows)
}

// SolvedLevels returns the ids of solved levels, most recently solved first.
func (s *Store) SolvedLevels(limit int) ([]string, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT level_id
		 FROM solves
		 GROUP BY level_id
		 ORDER BY MAX(id) DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query levels: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return ids, nil
}

func scanSolves(rows *sql.Rows) ([]SolveEntry, error) {
	defer rows.Close()

	var entries []SolveEntry
	for rows.Next() {
		var e SolveEntry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.LevelID, &e.Player, &e.Moves, &e.Pushes, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// BestMoves returns the lowest move count recorded for a level.
// Returns 0 if the level has never been solved.
func (s *Store) BestMoves(levelID string) (int, error) {
	var moves sql.NullInt64
	err := s.db.QueryRow(
		"SELECT MIN(moves) FROM solves WHERE level_id = ?",
		levelID,
	).Scan(&moves)

	if err != nil {
		return 0, fmt.Errorf("storage: cannot query best moves: %w", err)
	}

	if !moves.Valid {
		return 0, nil
	}

	return int(moves.Int64), nil
}

// ClearSolves removes all solves for a level.
func (s *Store) ClearSolves(levelID string) error {
	_, err := s.db.Exec("DELETE FROM solves WHERE level_id = ?", levelID)
	if err != nil {
		return fmt.Errorf("storage: cannot clear solves: %w", err)
	}
	return nil
}

// GetLevelStats returns aggregate statistics for a level.
func (s *Store) GetLevelStats(levelID string) (*LevelStats, error) {
	stats := &LevelStats{LevelID: levelID}
	var best, bestPushes sql.NullInt64
	var avg sql.NullFloat64

	err := s.db.QueryRow(
		`SELECT COUNT(*), MIN(moves), MIN(pushes), AVG(moves)
		 FROM solves
		 WHERE level_id = ?`,
		levelID,
	).Scan(&stats.Solves, &best, &bestPushes, &avg)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query level stats: %w", err)
	}

	stats.BestMoves = int(best.Int64)
	stats.BestPushes = int(bestPushes.Int64)
	stats.AvgMoves = avg.Float64
	return stats, nil
}

// SaveLevel caches a generated layout. Saving the same settings twice keeps
// the first layout. Explicit sub-seeds are not part of the key, so only
// settings without them are cached.
func (s *Store) SaveLevel(settings pushbox.Settings, layout string) (int64, error) {
	if !cacheable(settings) {
		return 0, errors.New("storage: cannot cache settings with explicit sub-seeds")
	}

	_, err := s.db.Exec(
		`INSERT OR IGNORE INTO levels (seed, width, height, num_boxes, room_steps, layout)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		settings.Seed, settings.Width, settings.Height, settings.NumBoxes, settings.RoomSteps, layout,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save level: %w", err)
	}

	entry, err := s.LevelBySettings(settings)
	if err != nil {
		return 0, err
	}
	return entry.ID, nil
}

// LevelBySettings returns the cached layout for settings, or nil if none.
func (s *Store) LevelBySettings(settings pushbox.Settings) (*LevelEntry, error) {
	if !cacheable(settings) {
		return nil, nil
	}

	var entry LevelEntry
	var createdAt any
	err := s.db.QueryRow(
		`SELECT id, seed, width, height, num_boxes, room_steps, layout, created_at
		 FROM levels
		 WHERE seed = ? AND width = ? AND height = ? AND num_boxes = ? AND room_steps = ?`,
		settings.Seed, settings.Width, settings.Height, settings.NumBoxes, settings.RoomSteps,
	).Scan(
		&entry.ID,
		&entry.Settings.Seed,
		&entry.Settings.Width,
		&entry.Settings.Height,
		&entry.Settings.NumBoxes,
		&entry.Settings.RoomSteps,
		&entry.Layout,
		&createdAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query level: %w", err)
	}

	entry.CreatedAt = parseTime(createdAt)
	return &entry, nil
}

// RecentLevels returns the most recently cached layouts.
func (s *Store) RecentLevels(limit int) ([]LevelEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, seed, width, height, num_boxes, room_steps, layout, created_at
		 FROM levels
		 ORDER BY id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query levels: %w", err)
	}
	defer rows.Close()

	var entries []LevelEntry
	for rows.Next() {
		var e LevelEntry
		var createdAt any
		if err := rows.Scan(
			&e.ID,
			&e.Settings.Seed,
			&e.Settings.Width,
			&e.Settings.Height,
			&e.Settings.NumBoxes,
			&e.Settings.RoomSteps,
			&e.Layout,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// GenerateLevel returns the cached layout for settings, generating and
// caching it on a miss.
func (s *Store) GenerateLevel(settings pushbox.Settings) (string, bool, error) {
	if entry, err := s.LevelBySettings(settings); err != nil {
		return "", false, err
	} else if entry != nil {
		return entry.Layout, true, nil
	}

	layout, err := pushbox.GenerateLevel(settings)
	if err != nil {
		return "", false, err
	}
	if cacheable(settings) {
		if _, err := s.SaveLevel(settings, layout); err != nil {
			return "", false, err
		}
	}
	return layout, false, nil
}

func cacheable(settings pushbox.Settings) bool {
	return settings.RoomSeed == nil && settings.TargetsSeed == nil && settings.ActionsSeed == nil
}

// parseTime handles the time formats returned by the driver.
func parseTime(v any) time.Time {
	switch v := v.(type) {
	case time.Time:
		return v
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
