package specs

import (
	"testing"

	"stockroom-cli/internal/model"
)

func TestDuplicates_CaseInsensitive(t *testing.T) {
	l := FromEntries([]model.SpecEntry{
		{Key: "voltage", Value: "5V"},
		{Key: "Voltage", Value: "3V"},
		{Key: "VOLTAGE", Value: "12V"},
		{Key: "current", Value: "40mA"},
	})
	rows := l.Rows()

	dups := Duplicates(rows)
	if !dups[rows[0].ID] || !dups[rows[1].ID] || !dups[rows[2].ID] {
		t.Fatalf("expected all voltage variants flagged; got %v", dups)
	}
	if dups[rows[3].ID] {
		t.Fatalf("unique key flagged as duplicate")
	}
	if !HasDuplicates(rows) {
		t.Fatalf("HasDuplicates disagrees with Duplicates")
	}
}

func TestDuplicates_TrimsSurroundingWhitespace(t *testing.T) {
	l := FromEntries([]model.SpecEntry{
		{Key: "voltage", Value: "5V"},
		{Key: "  voltage  ", Value: "3V"},
	})
	rows := l.Rows()
	dups := Duplicates(rows)
	if !dups[rows[0].ID] || !dups[rows[1].ID] {
		t.Fatalf("expected trimmed keys to collide; got %v", dups)
	}
}

func TestDuplicates_WhitespaceOnlyKeysNeverCollide(t *testing.T) {
	l := FromEntries([]model.SpecEntry{
		{Key: "   ", Value: "a"},
		{Key: "  ", Value: "b"},
		{Key: "", Value: "c"},
	})
	rows := l.Rows()
	dups := Duplicates(rows)
	if len(dups) != 0 {
		t.Fatalf("whitespace-only keys must not be flagged; got %v", dups)
	}
	if HasDuplicates(rows) {
		t.Fatalf("HasDuplicates flagged whitespace-only keys")
	}
}

func TestDuplicates_FlagClearsAfterEdit(t *testing.T) {
	l := FromEntries([]model.SpecEntry{
		{Key: "voltage", Value: "5V"},
		{Key: "voltage", Value: "3V"},
	})
	rows := l.Rows()

	if dups := Duplicates(l.Rows()); !dups[rows[0].ID] || !dups[rows[1].ID] {
		t.Fatalf("expected both rows flagged before the edit")
	}

	// Making one key unique clears the flag on both rows in the same
	// recomputation.
	l.SetKey(rows[1].ID, "current")
	if dups := Duplicates(l.Rows()); len(dups) != 0 {
		t.Fatalf("expected no flags after edit; got %v", dups)
	}
}
