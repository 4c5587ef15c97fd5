package mutate

import (
	"errors"
	"strings"
	"time"

	"stockroom-cli/internal/model"
	"stockroom-cli/internal/store"
)

var ErrEmptyName = errors.New("name must not be empty")
var ErrNegativeQuantity = errors.New("quantity must not be negative")

type ItemResult struct {
	Item         *model.Item
	Changed      bool
	EventPayload map[string]any
}

// RenameItem sets the item's name. Callers save db and append the
// item.rename event.
func RenameItem(db *store.DB, userID, itemID, name string) (ItemResult, error) {
	itemID = strings.TrimSpace(itemID)
	name = strings.TrimSpace(name)
	if db == nil || itemID == "" {
		return ItemResult{}, nil
	}
	if name == "" {
		return ItemResult{}, ErrEmptyName
	}

	it, ok := db.FindItem(itemID)
	if !ok {
		return ItemResult{}, NotFoundError{Kind: "item", ID: itemID}
	}
	if it.Name == name {
		return ItemResult{Item: it, Changed: false}, nil
	}

	prev := it.Name
	it.Name = name
	it.UpdatedAt = time.Now().UTC()
	return ItemResult{
		Item:         it,
		Changed:      true,
		EventPayload: map[string]any{"from": prev, "to": name},
	}, nil
}

// SetQuantity sets the item's on-hand count.
func SetQuantity(db *store.DB, userID, itemID string, quantity int) (ItemResult, error) {
	itemID = strings.TrimSpace(itemID)
	if db == nil || itemID == "" {
		return ItemResult{}, nil
	}
	if quantity < 0 {
		return ItemResult{}, ErrNegativeQuantity
	}

	it, ok := db.FindItem(itemID)
	if !ok {
		return ItemResult{}, NotFoundError{Kind: "item", ID: itemID}
	}
	if it.Quantity == quantity {
		return ItemResult{Item: it, Changed: false}, nil
	}

	prev := it.Quantity
	it.Quantity = quantity
	it.UpdatedAt = time.Now().UTC()
	return ItemResult{
		Item:         it,
		Changed:      true,
		EventPayload: map[string]any{"from": prev, "to": quantity},
	}, nil
}

// MoveItem relocates an item to another location. Empty locationID clears
// the location. A non-empty target must exist.
func MoveItem(db *store.DB, userID, itemID, locationID string) (ItemResult, error) {
	itemID = strings.TrimSpace(itemID)
	locationID = strings.TrimSpace(locationID)
	if db == nil || itemID == "" {
		return ItemResult{}, nil
	}

	it, ok := db.FindItem(itemID)
	if !ok {
		return ItemResult{}, NotFoundError{Kind: "item", ID: itemID}
	}
	if locationID != "" {
		if _, ok := db.FindLocation(locationID); !ok {
			return ItemResult{}, NotFoundError{Kind: "location", ID: locationID}
		}
	}
	if it.LocationID == locationID {
		return ItemResult{Item: it, Changed: false}, nil
	}

	prev := it.LocationID
	it.LocationID = locationID
	it.UpdatedAt = time.Now().UTC()
	return ItemResult{
		Item:         it,
		Changed:      true,
		EventPayload: map[string]any{"from": prev, "to": locationID},
	}, nil
}

// RemoveItem deletes the item outright. Archiving is the softer path;
// remove exists for items created by mistake.
func RemoveItem(db *store.DB, userID, itemID string) (ItemResult, error) {
	itemID = strings.TrimSpace(itemID)
	if db == nil || itemID == "" {
		return ItemResult{}, nil
	}

	for i := range db.Items {
		if db.Items[i].ID != itemID {
			continue
		}
		removed := db.Items[i]
		db.Items = append(db.Items[:i], db.Items[i+1:]...)
		return ItemResult{
			Item:         &removed,
			Changed:      true,
			EventPayload: map[string]any{"name": removed.Name},
		}, nil
	}
	return ItemResult{}, NotFoundError{Kind: "item", ID: itemID}
}

// SetCategory assigns the item to a category. Empty categoryID clears it;
// a non-empty target must exist.
func SetCategory(db *store.DB, userID, itemID, categoryID string) (ItemResult, error) {
	itemID = strings.TrimSpace(itemID)
	categoryID = strings.TrimSpace(categoryID)
	if db == nil || itemID == "" {
		return ItemResult{}, nil
	}

	it, ok := db.FindItem(itemID)
	if !ok {
		return ItemResult{}, NotFoundError{Kind: "item", ID: itemID}
	}
	if categoryID != "" {
		if _, ok := db.FindCategory(categoryID); !ok {
			return ItemResult{}, NotFoundError{Kind: "category", ID: categoryID}
		}
	}
	if it.CategoryID == categoryID {
		return ItemResult{Item: it, Changed: false}, nil
	}

	prev := it.CategoryID
	it.CategoryID = categoryID
	it.UpdatedAt = time.Now().UTC()
	return ItemResult{
		Item:         it,
		Changed:      true,
		EventPayload: map[string]any{"from": prev, "to": categoryID},
	}, nil
}
