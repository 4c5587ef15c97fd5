package mutate

import (
	"errors"
	"testing"

	"stockroom-cli/internal/model"
	"stockroom-cli/internal/specs"
	"stockroom-cli/internal/store"
)

func specDB() *store.DB {
	return &store.DB{
		Users: []model.User{{ID: "usr-1", Name: "Home"}},
		Items: []model.Item{
			{
				ID:   "item-1",
				Name: "Arduino Uno",
				Specs: []model.SpecEntry{
					{Key: "voltage", Value: "5V"},
				},
			},
		},
	}
}

func TestApplySpecs_AppendsInOrder(t *testing.T) {
	db := specDB()
	it, _ := db.FindItem("item-1")

	l := specs.FromEntries(it.Specs)
	r := l.Add()
	l.SetKey(r.ID, "current")
	l.SetValue(r.ID, "40mA")

	res, err := ApplySpecs(db, "usr-1", "item-1", l)
	if err != nil {
		t.Fatalf("ApplySpecs: %v", err)
	}
	if !res.Changed {
		t.Fatalf("expected changed=true")
	}
	if res.Duplicates {
		t.Fatalf("unexpected duplicate flag")
	}
	want := []model.SpecEntry{
		{Key: "voltage", Value: "5V"},
		{Key: "current", Value: "40mA"},
	}
	if len(res.Item.Specs) != len(want) {
		t.Fatalf("unexpected specs: %+v", res.Item.Specs)
	}
	for i := range want {
		if res.Item.Specs[i] != want[i] {
			t.Fatalf("spec %d: expected %+v; got %+v", i, want[i], res.Item.Specs[i])
		}
	}
}

func TestApplySpecs_NoChangeIsNotAWrite(t *testing.T) {
	db := specDB()
	it, _ := db.FindItem("item-1")

	l := specs.FromEntries(it.Specs)
	res, err := ApplySpecs(db, "usr-1", "item-1", l)
	if err != nil {
		t.Fatalf("ApplySpecs: %v", err)
	}
	if res.Changed {
		t.Fatalf("expected changed=false for identical specs")
	}
}

func TestApplySpecs_DuplicatesAreAdvisoryNotBlocking(t *testing.T) {
	db := specDB()
	it, _ := db.FindItem("item-1")

	l := specs.FromEntries(it.Specs)
	r := l.Add()
	l.SetKey(r.ID, "Voltage")
	l.SetValue(r.ID, "3V")

	res, err := ApplySpecs(db, "usr-1", "item-1", l)
	if err != nil {
		t.Fatalf("ApplySpecs: %v", err)
	}
	if !res.Changed {
		t.Fatalf("duplicates must not block the save")
	}
	if !res.Duplicates {
		t.Fatalf("expected duplicate flag in result")
	}
	// The array shape preserves both entries.
	if len(res.Item.Specs) != 2 {
		t.Fatalf("expected both duplicate entries kept: %+v", res.Item.Specs)
	}
}

func TestApplySpecs_CoercesValueTypes(t *testing.T) {
	db := specDB()

	l := &specs.List{}
	for _, kv := range [][2]string{
		{"insulated", "true"},
		{"spare", "false"},
		{"pins", "100"},
		{"weight", "5.5"},
		{"color", "red"},
	} {
		r := l.Add()
		l.SetKey(r.ID, kv[0])
		l.SetValue(r.ID, kv[1])
	}

	res, err := ApplySpecs(db, "usr-1", "item-1", l)
	if err != nil {
		t.Fatalf("ApplySpecs: %v", err)
	}
	got := res.Item.Specs
	if v, ok := got[0].Value.(bool); !ok || v != true {
		t.Fatalf("insulated: expected bool true; got %T %v", got[0].Value, got[0].Value)
	}
	if v, ok := got[1].Value.(bool); !ok || v != false {
		t.Fatalf("spare: expected bool false; got %T %v", got[1].Value, got[1].Value)
	}
	if v, ok := got[2].Value.(float64); !ok || v != 100 {
		t.Fatalf("pins: expected 100; got %T %v", got[2].Value, got[2].Value)
	}
	if v, ok := got[3].Value.(float64); !ok || v != 5.5 {
		t.Fatalf("weight: expected 5.5; got %T %v", got[3].Value, got[3].Value)
	}
	if v, ok := got[4].Value.(string); !ok || v != "red" {
		t.Fatalf("color: expected string red; got %T %v", got[4].Value, got[4].Value)
	}
}

func TestApplySpecs_UnknownItem(t *testing.T) {
	db := specDB()
	_, err := ApplySpecs(db, "usr-1", "item-nope", &specs.List{})
	if err == nil {
		t.Fatalf("expected error")
	}
	var nf NotFoundError
	if !errors.As(err, &nf) || nf.Kind != "item" {
		t.Fatalf("expected item NotFoundError; got %v", err)
	}
}
