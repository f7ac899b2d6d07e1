// Package store handles SQLite persistence.
//
// The planner treats it as an opaque key-value store of named blobs:
// tasks (JSON array), week_data (JSON 7-element array), week_start,
// daily_goal, notes, and theme. SaveState writes every blob in a single
// transaction so a partial failure never persists only some of them.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/avoronov/studa/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

const (
	keyTasks     = "tasks"
	keyWeekData  = "week_data"
	keyWeekStart = "week_start"
	keyDailyGoal = "daily_goal"
	keyNotes     = "notes"
	keyTheme     = "theme"
)

// Store wraps SQLite access for planner state.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS kv (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// LoadState reads every persisted blob. Missing keys leave zero values;
// the planner applies defaults on top.
func (s *Store) LoadState(ctx context.Context) (model.State, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM kv`)
	if err != nil {
		return model.State{}, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var state model.State
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return model.State{}, err
		}
		switch key {
		case keyTasks:
			if err := json.Unmarshal([]byte(value), &state.Tasks); err != nil {
				return model.State{}, fmt.Errorf("failed to decode tasks: %w", err)
			}
		case keyWeekData:
			var week []float64
			if err := json.Unmarshal([]byte(value), &week); err != nil {
				return model.State{}, fmt.Errorf("failed to decode week data: %w", err)
			}
			for i := 0; i < len(week) && i < len(state.WeekData); i++ {
				state.WeekData[i] = week[i]
			}
		case keyWeekStart:
			state.WeekStart = value
		case keyDailyGoal:
			goal, err := strconv.ParseFloat(value, 64)
			if err == nil {
				state.DailyGoal = goal
			}
		case keyNotes:
			state.Notes = value
		case keyTheme:
			state.Theme = value
		}
	}
	if err := rows.Err(); err != nil {
		return model.State{}, err
	}
	return state, nil
}

// SaveState writes all blobs in one transaction.
func (s *Store) SaveState(ctx context.Context, state model.State) error {
	tasksJSON, err := json.Marshal(state.Tasks)
	if err != nil {
		return fmt.Errorf("failed to encode tasks: %w", err)
	}
	weekJSON, err := json.Marshal(state.WeekData[:])
	if err != nil {
		return fmt.Errorf("failed to encode week data: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := stmt.Close(); cerr != nil {
			// Best-effort statement close.
			_ = cerr
		}
	}()

	pairs := []struct {
		key   string
		value string
	}{
		{keyTasks, string(tasksJSON)},
		{keyWeekData, string(weekJSON)},
		{keyWeekStart, state.WeekStart},
		{keyDailyGoal, strconv.FormatFloat(state.DailyGoal, 'f', -1, 64)},
		{keyNotes, state.Notes},
		{keyTheme, state.Theme},
	}
	for _, pair := range pairs {
		if _, err = stmt.ExecContext(ctx, pair.key, pair.value); err != nil {
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		return err
	}
	return nil
}
