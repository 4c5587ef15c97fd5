package specs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"

	"stockroom-cli/internal/model"
)

// The API has carried two wire shapes for specifications over time:
//
//	object map:    {"voltage": "5V", "pins": 14}
//	ordered array: [{"key": "voltage", "value": "5V"}, ...]
//
// The array shape is canonical (it preserves order and duplicate keys); the
// map shape is still accepted on read and available on write. Decoding the
// map shape walks the token stream so the document's key order survives;
// a plain map[string]any would lose it.

// ParseWire decodes a specifications field in either wire shape into the
// canonical ordered entries. nil, empty, and JSON null all yield no entries.
func ParseWire(raw []byte) ([]model.SpecEntry, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()

	switch trimmed[0] {
	case '{':
		pairs, err := decodeObjectPairs(dec)
		if err != nil {
			return nil, err
		}
		out := make([]model.SpecEntry, 0, len(pairs))
		for _, p := range pairs {
			out = append(out, model.SpecEntry{Key: p.key, Value: normalizeWireValue(p.value)})
		}
		return out, nil
	case '[':
		return decodeEntryArray(dec)
	default:
		return nil, fmt.Errorf("specifications: expected object or array, got %q", trimmed[0])
	}
}

// FromWire builds an editing list directly from a raw specifications field.
func FromWire(raw []byte) (*List, error) {
	entries, err := ParseWire(raw)
	if err != nil {
		return nil, err
	}
	return FromEntries(entries), nil
}

// EntriesToMap flattens ordered entries into the object-map shape with
// last-write-wins on duplicate keys.
func EntriesToMap(entries []model.SpecEntry) map[string]any {
	out := make(map[string]any, len(entries))
	for _, e := range entries {
		out[e.Key] = e.Value
	}
	return out
}

type wirePair struct {
	key   string
	value any
}

// decodeObjectPairs consumes one JSON object from dec, preserving member
// order. The decoder must be positioned at the '{' token.
func decodeObjectPairs(dec *json.Decoder) ([]wirePair, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("specifications: expected object, got %v", tok)
	}

	var pairs []wirePair
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("specifications: non-string object key %v", keyTok)
		}
		var v any
		if err := dec.Decode(&v); err != nil {
			return nil, err
		}
		pairs = append(pairs, wirePair{key: key, value: v})
	}
	if _, err := dec.Token(); err != nil { // closing '}'
		return nil, err
	}
	return pairs, nil
}

// decodeEntryArray consumes a specifications array. Elements are normally
// {"key":..., "value":...}; legacy records also appear as bare single-pair
// objects ({"voltage":"5V"}), which fold into one entry per member.
func decodeEntryArray(dec *json.Decoder) ([]model.SpecEntry, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '[' {
		return nil, fmt.Errorf("specifications: expected array, got %v", tok)
	}

	var out []model.SpecEntry
	for dec.More() {
		pairs, err := decodeObjectPairs(dec)
		if err != nil {
			return nil, err
		}
		if entry, ok := keyValuePair(pairs); ok {
			out = append(out, entry)
			continue
		}
		for _, p := range pairs {
			out = append(out, model.SpecEntry{Key: p.key, Value: normalizeWireValue(p.value)})
		}
	}
	if _, err := dec.Token(); err != nil { // closing ']'
		return nil, err
	}
	return out, nil
}

// keyValuePair recognizes the {"key":..., "value":...} element shape.
func keyValuePair(pairs []wirePair) (model.SpecEntry, bool) {
	var key *string
	var value any
	for _, p := range pairs {
		switch p.key {
		case "key":
			s, ok := p.value.(string)
			if !ok {
				return model.SpecEntry{}, false
			}
			key = &s
		case "value":
			value = p.value
		}
	}
	if key == nil {
		return model.SpecEntry{}, false
	}
	return model.SpecEntry{Key: *key, Value: normalizeWireValue(value)}, true
}

// normalizeWireValue maps decoded JSON scalars onto the types Coerce
// produces. Numbers that do not fit a finite float64 stay strings; anything
// non-scalar passes through for FormatValue to render as JSON text.
func normalizeWireValue(v any) any {
	n, ok := v.(json.Number)
	if !ok {
		return v
	}
	f, err := n.Float64()
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return n.String()
	}
	return f
}
