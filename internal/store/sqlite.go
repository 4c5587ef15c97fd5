package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"stockroom-cli/internal/model"

	_ "modernc.org/sqlite"
)

const sqliteFileName = "stockroom.sqlite"

func (s Store) sqlitePath() string {
	return filepath.Join(filepath.Clean(s.Dir), sqliteFileName)
}

func (s Store) openSQLite(ctx context.Context) (*sql.DB, error) {
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", s.sqlitePath())
	if err != nil {
		return nil, err
	}
	// WAL enables one writer + many readers across processes (CLI and web
	// server can share a workspace); busy_timeout avoids "database is locked"
	// flakiness.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA foreign_keys=ON;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("sqlite pragma %q: %w", p, err)
		}
	}
	return db, nil
}

func migrateSQLiteState(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS state_meta (
			k TEXT PRIMARY KEY,
			v TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			pos INTEGER NOT NULL,
			json TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS categories (
			id TEXT PRIMARY KEY,
			pos INTEGER NOT NULL,
			name TEXT NOT NULL,
			archived INTEGER NOT NULL DEFAULT 0,
			json TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS locations (
			id TEXT PRIMARY KEY,
			pos INTEGER NOT NULL,
			name TEXT NOT NULL,
			parent_id TEXT,
			archived INTEGER NOT NULL DEFAULT 0,
			json TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS items (
			id TEXT PRIMARY KEY,
			pos INTEGER NOT NULL,
			name TEXT NOT NULL,
			category_id TEXT,
			location_id TEXT,
			archived INTEGER NOT NULL DEFAULT 0,
			json TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS events (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL,
			ts_unixms INTEGER NOT NULL,
			user_id TEXT NOT NULL,
			type TEXT NOT NULL,
			entity_id TEXT NOT NULL,
			payload_json TEXT
		);`,
		`CREATE INDEX IF NOT EXISTS idx_events_entity ON events(entity_id, seq);`,
		`CREATE INDEX IF NOT EXISTS idx_items_location ON items(location_id);`,
		`CREATE INDEX IF NOT EXISTS idx_items_category ON items(category_id);`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s Store) LoadSQLite(ctx context.Context) (*DB, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	if err := migrateSQLiteState(ctx, db); err != nil {
		return nil, err
	}

	hasState, err := sqliteStateHasAnyRows(ctx, db)
	if err != nil {
		return nil, err
	}
	if !hasState {
		// One-time import from a legacy db.json snapshot if present.
		if b, err := os.ReadFile(s.dbPath()); err == nil && len(b) > 0 {
			var legacy DB
			if err := json.Unmarshal(b, &legacy); err != nil {
				return nil, fmt.Errorf("legacy db.json: %w", err)
			}
			if legacy.Version == 0 {
				legacy.Version = 1
			}
			if err := s.SaveSQLite(ctx, &legacy); err != nil {
				return nil, err
			}
		}
	}

	st := &DB{
		Version:    1,
		Users:      []model.User{},
		Categories: []model.Category{},
		Locations:  []model.Location{},
		Items:      []model.Item{},
	}

	meta, err := readStateMeta(ctx, db)
	if err != nil {
		return nil, err
	}
	if v, err := strconv.Atoi(meta["version"]); err == nil && v > 0 {
		st.Version = v
	}
	st.CurrentUserID = strings.TrimSpace(meta["current_user_id"])

	if err := loadDocs(ctx, db, "users", func(raw []byte) error {
		var u model.User
		if err := json.Unmarshal(raw, &u); err != nil {
			return err
		}
		st.Users = append(st.Users, u)
		return nil
	}); err != nil {
		return nil, err
	}
	if err := loadDocs(ctx, db, "categories", func(raw []byte) error {
		var c model.Category
		if err := json.Unmarshal(raw, &c); err != nil {
			return err
		}
		st.Categories = append(st.Categories, c)
		return nil
	}); err != nil {
		return nil, err
	}
	if err := loadDocs(ctx, db, "locations", func(raw []byte) error {
		var l model.Location
		if err := json.Unmarshal(raw, &l); err != nil {
			return err
		}
		st.Locations = append(st.Locations, l)
		return nil
	}); err != nil {
		return nil, err
	}
	if err := loadDocs(ctx, db, "items", func(raw []byte) error {
		var it model.Item
		if err := json.Unmarshal(raw, &it); err != nil {
			return err
		}
		st.Items = append(st.Items, it)
		return nil
	}); err != nil {
		return nil, err
	}

	return st, nil
}

func (s Store) SaveSQLite(ctx context.Context, st *DB) error {
	if st == nil {
		return errors.New("nil db")
	}
	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := migrateSQLiteState(ctx, db); err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO state_meta(k, v) VALUES(?, ?)`, "version", strconv.Itoa(st.Version)); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO state_meta(k, v) VALUES(?, ?)`, "current_user_id", strings.TrimSpace(st.CurrentUserID)); err != nil {
		return err
	}

	// Replace-all strategy: state snapshots are small and this keeps pos (the
	// slice order) trivially consistent.
	for _, t := range []string{"users", "categories", "locations", "items"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+t); err != nil {
			return err
		}
	}

	nowMs := time.Now().UTC().UnixMilli()

	for i, u := range st.Users {
		raw, _ := json.Marshal(u)
		if _, err := tx.ExecContext(ctx, `INSERT INTO users(id, pos, json, updated_at_unixms) VALUES(?, ?, ?, ?)`,
			u.ID, i, string(raw), nowMs); err != nil {
			return err
		}
	}
	for i, c := range st.Categories {
		raw, _ := json.Marshal(c)
		if _, err := tx.ExecContext(ctx, `INSERT INTO categories(id, pos, name, archived, json, updated_at_unixms) VALUES(?, ?, ?, ?, ?, ?)`,
			c.ID, i, c.Name, boolToInt(c.Archived), string(raw), nowMs); err != nil {
			return err
		}
	}
	for i, l := range st.Locations {
		raw, _ := json.Marshal(l)
		parent := ""
		if l.ParentID != nil {
			parent = strings.TrimSpace(*l.ParentID)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO locations(id, pos, name, parent_id, archived, json, updated_at_unixms) VALUES(?, ?, ?, ?, ?, ?, ?)`,
			l.ID, i, l.Name, parent, boolToInt(l.Archived), string(raw), nowMs); err != nil {
			return err
		}
	}
	for i, it := range st.Items {
		raw, _ := json.Marshal(it)
		if _, err := tx.ExecContext(ctx, `INSERT INTO items(id, pos, name, category_id, location_id, archived, json, updated_at_unixms) VALUES(?, ?, ?, ?, ?, ?, ?, ?)`,
			it.ID, i, it.Name, it.CategoryID, it.LocationID, boolToInt(it.Archived), string(raw), nowMs); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func sqliteStateHasAnyRows(ctx context.Context, db *sql.DB) (bool, error) {
	for _, t := range []string{"users", "categories", "locations", "items", "state_meta"} {
		var n int
		if err := db.QueryRowContext(ctx, `SELECT COUNT(1) FROM `+t).Scan(&n); err != nil {
			return false, err
		}
		if n > 0 {
			return true, nil
		}
	}
	return false, nil
}

func readStateMeta(ctx context.Context, db *sql.DB) (map[string]string, error) {
	rows, err := db.QueryContext(ctx, `SELECT k, v FROM state_meta`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]string{}
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, rows.Err()
}

// loadDocs streams the json column of a state table in pos order.
func loadDocs(ctx context.Context, db *sql.DB, table string, fn func(raw []byte) error) error {
	rows, err := db.QueryContext(ctx, `SELECT json FROM `+table+` ORDER BY pos`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return err
		}
		if err := fn([]byte(raw)); err != nil {
			return err
		}
	}
	return rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
