package mutate

import (
	"strings"
	"time"

	"stockroom-cli/internal/store"
)

// SetItemArchived archives or restores an item. Archived items stay in the
// store (nothing is deleted) and drop out of default list views.
func SetItemArchived(db *store.DB, userID, itemID string, archived bool) (ItemResult, error) {
	itemID = strings.TrimSpace(itemID)
	if db == nil || itemID == "" {
		return ItemResult{}, nil
	}

	it, ok := db.FindItem(itemID)
	if !ok {
		return ItemResult{}, NotFoundError{Kind: "item", ID: itemID}
	}
	if it.Archived == archived {
		return ItemResult{Item: it, Changed: false}, nil
	}

	it.Archived = archived
	it.UpdatedAt = time.Now().UTC()
	return ItemResult{
		Item:         it,
		Changed:      true,
		EventPayload: map[string]any{"archived": archived},
	}, nil
}
