// Package specs holds the in-memory model behind the specification editor:
// an ordered list of key/value rows with stable per-row identity.
//
// Rows are addressed by id, never by index. Indices are unstable under
// concurrent edits and removals, so ids double as the reconciliation key for
// rendering and as the reorder handle. The list itself is the single source
// of truth during an edit session; duplicate flags are derived, not stored.
package specs

import (
	"strings"

	"github.com/google/uuid"

	"stockroom-cli/internal/model"
)

// Row is one editable key/value pair. ID is assigned once, when the row is
// created (new or loaded from a persisted item), and survives edits and
// reorders for the lifetime of the editing session.
type Row struct {
	ID    string
	Key   string
	Value string
}

// List is an ordered sequence of rows. Insertion order is the display and
// serialization order. The zero value is an empty, usable list.
type List struct {
	rows []Row
}

func NewRowID() string {
	return uuid.NewString()
}

// FromEntries builds an editing list from an item's persisted specifications.
// Typed values are rendered back to editable text; each row gets a fresh id.
func FromEntries(entries []model.SpecEntry) *List {
	l := &List{rows: make([]Row, 0, len(entries))}
	for _, e := range entries {
		l.rows = append(l.rows, Row{
			ID:    NewRowID(),
			Key:   e.Key,
			Value: FormatValue(e.Value),
		})
	}
	return l
}

// Rows returns a copy of the current rows in order.
func (l *List) Rows() []Row {
	out := make([]Row, len(l.rows))
	copy(out, l.rows)
	return out
}

func (l *List) Len() int {
	return len(l.rows)
}

func (l *List) indexOf(id string) int {
	for i := range l.rows {
		if l.rows[i].ID == id {
			return i
		}
	}
	return -1
}

// Find returns the row with the given id.
func (l *List) Find(id string) (Row, bool) {
	i := l.indexOf(id)
	if i < 0 {
		return Row{}, false
	}
	return l.rows[i], true
}

// Add appends an empty row with a freshly generated id and returns it.
// It always succeeds.
func (l *List) Add() Row {
	r := Row{ID: NewRowID()}
	l.rows = append(l.rows, r)
	return r
}

// RemoveAt deletes the row with the given id. Unknown ids are a silent
// no-op: ids are internally generated, so a miss is a defensive guard, not
// an expected path. All other rows keep their id, content, and relative
// order.
func (l *List) RemoveAt(id string) bool {
	i := l.indexOf(id)
	if i < 0 {
		return false
	}
	l.rows = append(l.rows[:i], l.rows[i+1:]...)
	return true
}

// SetKey replaces the key on the row matching id. Order and other rows are
// unaffected. Unknown ids are a silent no-op.
func (l *List) SetKey(id, key string) bool {
	i := l.indexOf(id)
	if i < 0 {
		return false
	}
	l.rows[i].Key = key
	return true
}

// SetValue replaces the value on the row matching id. Unknown ids are a
// silent no-op.
func (l *List) SetValue(id, value string) bool {
	i := l.indexOf(id)
	if i < 0 {
		return false
	}
	l.rows[i].Value = value
	return true
}

// Reorder moves the row identified by sourceID to the position currently
// occupied by targetID (remove, then reinsert before the target). Rows
// between the old and new positions shift by one; this is a move, not a
// swap. No-op when sourceID == targetID or either id is absent.
func (l *List) Reorder(sourceID, targetID string) bool {
	if sourceID == targetID {
		return false
	}
	src := l.indexOf(sourceID)
	if src < 0 {
		return false
	}
	// The landing slot is the target's position before the source is pulled
	// out. Computing it after the removal would shift forward moves short by
	// one and turn a move onto the next neighbor into a no-op.
	dst := l.indexOf(targetID)
	if dst < 0 {
		return false
	}
	moved := l.rows[src]
	l.rows = append(l.rows[:src], l.rows[src+1:]...)
	l.rows = append(l.rows, Row{})
	copy(l.rows[dst+1:], l.rows[dst:])
	l.rows[dst] = moved
	return true
}

// Entries serializes the list into the ordered-array wire shape. Each value
// goes through Coerce; rows whose trimmed key is empty are dropped entirely,
// even when their value is non-empty.
func (l *List) Entries() []model.SpecEntry {
	out := make([]model.SpecEntry, 0, len(l.rows))
	for _, r := range l.rows {
		if strings.TrimSpace(r.Key) == "" {
			continue
		}
		out = append(out, model.SpecEntry{Key: r.Key, Value: Coerce(r.Value)})
	}
	return out
}

// Map flattens the list into the object-map wire shape. Duplicate keys are
// resolved last-write-wins: a later row overwrites an earlier one, matching
// object literal semantics. Key order is lost; callers that need order must
// use Entries.
func (l *List) Map() map[string]any {
	out := make(map[string]any, len(l.rows))
	for _, e := range l.Entries() {
		out[e.Key] = e.Value
	}
	return out
}
