package format

import (
	"encoding/json"
	"fmt"
	"io"
)

// Write writes command output in the requested format.
//
// Supported formats:
// - json (default)
func Write(w io.Writer, v any, format string, pretty bool) error {
	switch format {
	case "", "json":
		return WriteJSON(w, v, pretty)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// WriteJSON writes strict JSON output for CLI commands.
//
// NOTE: Output stays strict JSON only so scripts can pipe it. If a command
// needs to explain how to fetch more data, it uses a `meta` object rather
// than prose on stdout.
func WriteJSON(w io.Writer, v any, pretty bool) error {
	var b []byte
	var err error
	if pretty {
		b, err = json.MarshalIndent(v, "", "  ")
	} else {
		b, err = json.Marshal(v)
	}
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(b))
	return err
}
