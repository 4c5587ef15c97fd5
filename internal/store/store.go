package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"stockroom-cli/internal/model"
)

const dbFileName = "db.json"

// DB is the whole workspace state, loaded into memory for the duration of a
// command. Slice order is insertion order and is significant for item specs.
type DB struct {
	Version       int              `json:"version"`
	CurrentUserID string           `json:"currentUserId,omitempty"`
	NextIDs       map[string]int   `json:"nextIds,omitempty"`
	Users         []model.User     `json:"users"`
	Categories    []model.Category `json:"categories"`
	Locations     []model.Location `json:"locations"`
	Items         []model.Item     `json:"items"`
}

type Store struct {
	Dir string
}

// DiscoverDir walks upward from start looking for a .stockroom directory.
func DiscoverDir(start string) (string, bool) {
	dir := start
	for {
		candidate := filepath.Join(dir, ".stockroom")
		if st, err := os.Stat(candidate); err == nil && st.IsDir() {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

func DefaultDir() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	if found, ok := DiscoverDir(cwd); ok {
		return found, nil
	}
	return filepath.Join(cwd, ".stockroom"), nil
}

func (s Store) Ensure() error {
	return os.MkdirAll(s.Dir, 0o755)
}

func (s Store) dbPath() string {
	return filepath.Join(s.Dir, dbFileName)
}

// Load reads the workspace state. SQLite is the only source of truth; a
// legacy db.json snapshot is imported once if the SQLite state is empty.
func (s Store) Load() (*DB, error) {
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	return s.LoadSQLite(context.Background())
}

func (s Store) Save(db *DB) error {
	if err := s.Ensure(); err != nil {
		return err
	}
	return s.SaveSQLite(context.Background(), db)
}

// NextID returns a fresh prefixed id (item-xxx, cat-xxx, loc-xxx, usr-xxx)
// that does not collide with any existing entity.
func (s Store) NextID(db *DB, prefix string) string {
	for i := 0; i < 50; i++ {
		id, err := newRandomID(prefix)
		if err != nil {
			break
		}
		if !idExists(db, id) {
			return id
		}
	}
	// crypto/rand failed or we collided 50 times; fall back to counters.
	if db.NextIDs == nil {
		db.NextIDs = map[string]int{}
	}
	db.NextIDs[prefix]++
	return fmt.Sprintf("%s-%d", prefix, db.NextIDs[prefix])
}

func (s Store) AppendEvent(userID, typ, entityID string, payload any) error {
	return s.appendEventSQLite(context.Background(), userID, typ, entityID, payload)
}

func (db *DB) FindUser(id string) (*model.User, bool) {
	for i := range db.Users {
		if db.Users[i].ID == id {
			return &db.Users[i], true
		}
	}
	return nil, false
}

func (db *DB) FindCategory(id string) (*model.Category, bool) {
	for i := range db.Categories {
		if db.Categories[i].ID == id {
			return &db.Categories[i], true
		}
	}
	return nil, false
}

func (db *DB) FindLocation(id string) (*model.Location, bool) {
	for i := range db.Locations {
		if db.Locations[i].ID == id {
			return &db.Locations[i], true
		}
	}
	return nil, false
}

func (db *DB) FindItem(id string) (*model.Item, bool) {
	for i := range db.Items {
		if db.Items[i].ID == id {
			return &db.Items[i], true
		}
	}
	return nil, false
}

// ItemFilter selects items for list views and the web API.
type ItemFilter struct {
	CategoryID string
	LocationID string
	Archived   *bool
}

func (db *DB) FilterItems(f ItemFilter) []model.Item {
	out := []model.Item{}
	for _, it := range db.Items {
		if f.CategoryID != "" && it.CategoryID != f.CategoryID {
			continue
		}
		if f.LocationID != "" && it.LocationID != f.LocationID {
			continue
		}
		if f.Archived != nil && it.Archived != *f.Archived {
			continue
		}
		out = append(out, it)
	}
	return out
}

// LocationPath renders a nested location as "Garage / Shelf B / Bin 3".
func (db *DB) LocationPath(id string) string {
	parts := []string{}
	seen := map[string]bool{}
	for id != "" && !seen[id] {
		seen[id] = true
		loc, ok := db.FindLocation(id)
		if !ok {
			break
		}
		parts = append([]string{loc.Name}, parts...)
		if loc.ParentID == nil {
			break
		}
		id = strings.TrimSpace(*loc.ParentID)
	}
	return strings.Join(parts, " / ")
}
