package main

import (
	"strings"
	"testing"
)

func TestRewriteDirectItemLookupArgs(t *testing.T) {
	cases := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "no args",
			in:   []string{"stockroom"},
			want: []string{"stockroom"},
		},
		{
			name: "direct item id as first token",
			in:   []string{"stockroom", "item-ab12cd34"},
			want: []string{"stockroom", "items", "show", "item-ab12cd34"},
		},
		{
			name: "item id after value flag",
			in:   []string{"stockroom", "--dir", "/tmp/inv", "item-ab12cd34"},
			want: []string{"stockroom", "--dir", "/tmp/inv", "items", "show", "item-ab12cd34"},
		},
		{
			name: "item id after equals flag",
			in:   []string{"stockroom", "--dir=/tmp/inv", "item-ab12cd34"},
			want: []string{"stockroom", "--dir=/tmp/inv", "items", "show", "item-ab12cd34"},
		},
		{
			name: "item id after bool flag",
			in:   []string{"stockroom", "--pretty", "item-ab12cd34"},
			want: []string{"stockroom", "--pretty", "items", "show", "item-ab12cd34"},
		},
		{
			name: "subcommand untouched",
			in:   []string{"stockroom", "items", "list"},
			want: []string{"stockroom", "items", "list"},
		},
		{
			name: "non item positional untouched",
			in:   []string{"stockroom", "status"},
			want: []string{"stockroom", "status"},
		},
		{
			name: "item id after double dash",
			in:   []string{"stockroom", "--", "item-ab12cd34"},
			want: []string{"stockroom", "--", "items", "show", "item-ab12cd34"},
		},
	}

	for _, tc := range cases {
		got := rewriteDirectItemLookupArgs(tc.in)
		if strings.Join(got, " ") != strings.Join(tc.want, " ") {
			t.Fatalf("%s: got %v want %v", tc.name, got, tc.want)
		}
	}
}

func TestIsItemID(t *testing.T) {
	if !isItemID("item-ab12cd34") {
		t.Fatalf("expected item id to match")
	}
	if isItemID("item-") {
		t.Fatalf("bare prefix should not match")
	}
	if isItemID("cat-ab12cd34") {
		t.Fatalf("category id should not match")
	}
}
