package mutate

import (
	"errors"
	"testing"

	"stockroom-cli/internal/model"
	"stockroom-cli/internal/store"
)

func itemDB() *store.DB {
	return &store.DB{
		Users:      []model.User{{ID: "usr-1", Name: "Home"}},
		Categories: []model.Category{{ID: "cat-1", Name: "Electronics"}},
		Locations:  []model.Location{{ID: "loc-1", Name: "Garage"}, {ID: "loc-2", Name: "Attic"}},
		Items: []model.Item{
			{ID: "item-1", Name: "Drill", LocationID: "loc-1", Quantity: 1},
		},
	}
}

func TestRenameItem(t *testing.T) {
	db := itemDB()
	res, err := RenameItem(db, "usr-1", "item-1", "Impact Drill")
	if err != nil {
		t.Fatalf("RenameItem: %v", err)
	}
	if !res.Changed || res.Item.Name != "Impact Drill" {
		t.Fatalf("rename not applied: %+v", res)
	}

	if _, err := RenameItem(db, "usr-1", "item-1", "   "); err != ErrEmptyName {
		t.Fatalf("expected ErrEmptyName; got %v", err)
	}

	res2, err := RenameItem(db, "usr-1", "item-1", "Impact Drill")
	if err != nil {
		t.Fatalf("RenameItem same name: %v", err)
	}
	if res2.Changed {
		t.Fatalf("same-name rename should be unchanged")
	}
}

func TestSetQuantity(t *testing.T) {
	db := itemDB()
	if _, err := SetQuantity(db, "usr-1", "item-1", -1); err != ErrNegativeQuantity {
		t.Fatalf("expected ErrNegativeQuantity; got %v", err)
	}
	res, err := SetQuantity(db, "usr-1", "item-1", 4)
	if err != nil {
		t.Fatalf("SetQuantity: %v", err)
	}
	if !res.Changed || res.Item.Quantity != 4 {
		t.Fatalf("quantity not applied: %+v", res)
	}
}

func TestMoveItem(t *testing.T) {
	db := itemDB()

	res, err := MoveItem(db, "usr-1", "item-1", "loc-2")
	if err != nil {
		t.Fatalf("MoveItem: %v", err)
	}
	if !res.Changed || res.Item.LocationID != "loc-2" {
		t.Fatalf("move not applied: %+v", res)
	}

	var nf NotFoundError
	if _, err := MoveItem(db, "usr-1", "item-1", "loc-nope"); !errors.As(err, &nf) || nf.Kind != "location" {
		t.Fatalf("expected location NotFoundError; got %v", err)
	}

	// Clearing the location is allowed.
	res2, err := MoveItem(db, "usr-1", "item-1", "")
	if err != nil {
		t.Fatalf("MoveItem clear: %v", err)
	}
	if !res2.Changed || res2.Item.LocationID != "" {
		t.Fatalf("clear not applied: %+v", res2)
	}
}

func TestSetCategory(t *testing.T) {
	db := itemDB()
	res, err := SetCategory(db, "usr-1", "item-1", "cat-1")
	if err != nil {
		t.Fatalf("SetCategory: %v", err)
	}
	if !res.Changed || res.Item.CategoryID != "cat-1" {
		t.Fatalf("category not applied: %+v", res)
	}
	var nf NotFoundError
	if _, err := SetCategory(db, "usr-1", "item-1", "cat-nope"); !errors.As(err, &nf) || nf.Kind != "category" {
		t.Fatalf("expected category NotFoundError; got %v", err)
	}
}

func TestRemoveItem(t *testing.T) {
	db := itemDB()
	res, err := RemoveItem(db, "usr-1", "item-1")
	if err != nil {
		t.Fatalf("RemoveItem: %v", err)
	}
	if !res.Changed || res.Item.ID != "item-1" {
		t.Fatalf("remove not applied: %+v", res)
	}
	if len(db.Items) != 0 {
		t.Fatalf("item still present: %+v", db.Items)
	}

	var nf NotFoundError
	if _, err := RemoveItem(db, "usr-1", "item-1"); !errors.As(err, &nf) || nf.Kind != "item" {
		t.Fatalf("expected item NotFoundError; got %v", err)
	}
}

func TestSetItemArchived(t *testing.T) {
	db := itemDB()
	res, err := SetItemArchived(db, "usr-1", "item-1", true)
	if err != nil {
		t.Fatalf("SetItemArchived: %v", err)
	}
	if !res.Changed || !res.Item.Archived {
		t.Fatalf("archive not applied: %+v", res)
	}
	res2, err := SetItemArchived(db, "usr-1", "item-1", true)
	if err != nil {
		t.Fatalf("SetItemArchived repeat: %v", err)
	}
	if res2.Changed {
		t.Fatalf("repeat archive should be unchanged")
	}
}
