package mutate

import (
	"reflect"
	"strings"
	"time"

	"stockroom-cli/internal/model"
	"stockroom-cli/internal/specs"
	"stockroom-cli/internal/store"
)

type ApplySpecsResult struct {
	Item         *model.Item
	Changed      bool
	Duplicates   bool
	EventPayload map[string]any
}

// ApplySpecs serializes an editor list onto the item's specifications.
// Duplicate keys are advisory: they are reported in the result but never
// block the write; the array shape preserves them as separate entries.
// Callers are responsible for saving db and appending the item.set_specs
// event.
func ApplySpecs(db *store.DB, userID, itemID string, list *specs.List) (ApplySpecsResult, error) {
	itemID = strings.TrimSpace(itemID)
	if db == nil || itemID == "" || list == nil {
		return ApplySpecsResult{}, nil
	}

	it, ok := db.FindItem(itemID)
	if !ok {
		return ApplySpecsResult{}, NotFoundError{Kind: "item", ID: itemID}
	}

	next := list.Entries()
	dups := specs.HasDuplicates(list.Rows())

	if specEntriesEqual(it.Specs, next) {
		return ApplySpecsResult{Item: it, Changed: false, Duplicates: dups}, nil
	}

	prev := it.Specs
	it.Specs = next
	it.UpdatedAt = time.Now().UTC()

	return ApplySpecsResult{
		Item:       it,
		Changed:    true,
		Duplicates: dups,
		EventPayload: map[string]any{
			"from": prev,
			"to":   next,
		},
	}, nil
}

func specEntriesEqual(a, b []model.SpecEntry) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		// Legacy values can be non-comparable (arrays, nested objects), so
		// a direct != would panic.
		if a[i].Key != b[i].Key || !reflect.DeepEqual(a[i].Value, b[i].Value) {
			return false
		}
	}
	return true
}
