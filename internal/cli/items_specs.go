package cli

import (
	"strings"

	"stockroom-cli/internal/mutate"
	"stockroom-cli/internal/specs"
	"stockroom-cli/internal/store"
	"stockroom-cli/internal/tui"

	"github.com/spf13/cobra"
)

func newItemsSpecsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "specs",
		Short: "Item specification commands",
	}
	cmd.AddCommand(newSpecsGetCmd(app))
	cmd.AddCommand(newSpecsSetCmd(app))
	cmd.AddCommand(newSpecsAddCmd(app))
	cmd.AddCommand(newSpecsRemoveCmd(app))
	cmd.AddCommand(newSpecsMoveCmd(app))
	return cmd
}

// saveSpecs runs ApplySpecs and persists + logs the change. The duplicate
// flag is advisory: it shows up under meta, never blocks the save.
func saveSpecs(cmd *cobra.Command, app *App, db *store.DB, s store.Store, userID, itemID string, list *specs.List) error {
	res, err := mutate.ApplySpecs(db, userID, itemID, list)
	if err != nil {
		return writeErr(cmd, err)
	}
	if res.Changed {
		if err := s.Save(db); err != nil {
			return writeErr(cmd, err)
		}
		_ = s.AppendEvent(userID, "item.set_specs", itemID, res.EventPayload)
	}
	out := map[string]any{"data": res.Item.Specs}
	if res.Duplicates {
		out["meta"] = map[string]any{"duplicateKeys": true}
	}
	return writeOut(cmd, app, out)
}

func newSpecsGetCmd(app *App) *cobra.Command {
	var shape string

	cmd := &cobra.Command{
		Use:   "get <item-id>",
		Short: "Print an item's specifications",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			it, ok := db.FindItem(strings.TrimSpace(args[0]))
			if !ok {
				return writeErr(cmd, errNotFound("item", args[0]))
			}
			switch shape {
			case "", "array":
				return writeOut(cmd, app, map[string]any{"data": it.Specs})
			case "map":
				return writeOut(cmd, app, map[string]any{"data": specs.EntriesToMap(it.Specs)})
			default:
				return writeErr(cmd, errNotFound("shape", shape))
			}
		},
	}

	cmd.Flags().StringVar(&shape, "shape", "array", "Wire shape (array|map)")
	return cmd
}

func newSpecsSetCmd(app *App) *cobra.Command {
	var raw string

	cmd := &cobra.Command{
		Use:   "set <item-id>",
		Short: "Replace an item's specifications from JSON (array or map shape)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			userID, err := currentUserID(app, db)
			if err != nil {
				return writeErr(cmd, err)
			}
			list, err := specs.FromWire([]byte(raw))
			if err != nil {
				return writeErr(cmd, err)
			}
			return saveSpecs(cmd, app, db, s, userID, strings.TrimSpace(args[0]), list)
		},
	}

	cmd.Flags().StringVar(&raw, "json", "", `Specifications JSON, e.g. '[{"key":"voltage","value":"5V"}]'`)
	_ = cmd.MarkFlagRequired("json")
	return cmd
}

func newSpecsAddCmd(app *App) *cobra.Command {
	var key string
	var value string

	cmd := &cobra.Command{
		Use:   "add <item-id>",
		Short: "Append one specification row",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			userID, err := currentUserID(app, db)
			if err != nil {
				return writeErr(cmd, err)
			}
			itemID := strings.TrimSpace(args[0])
			it, ok := db.FindItem(itemID)
			if !ok {
				return writeErr(cmd, errNotFound("item", itemID))
			}

			list := specs.FromEntries(it.Specs)
			r := list.Add()
			list.SetKey(r.ID, key)
			list.SetValue(r.ID, value)
			return saveSpecs(cmd, app, db, s, userID, itemID, list)
		},
	}

	cmd.Flags().StringVar(&key, "key", "", "Specification key")
	cmd.Flags().StringVar(&value, "value", "", "Specification value (coerced to bool/number/string on save)")
	_ = cmd.MarkFlagRequired("key")
	return cmd
}

func newSpecsRemoveCmd(app *App) *cobra.Command {
	var key string

	cmd := &cobra.Command{
		Use:   "remove <item-id>",
		Short: "Remove specification rows by key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			userID, err := currentUserID(app, db)
			if err != nil {
				return writeErr(cmd, err)
			}
			itemID := strings.TrimSpace(args[0])
			it, ok := db.FindItem(itemID)
			if !ok {
				return writeErr(cmd, errNotFound("item", itemID))
			}

			list := specs.FromEntries(it.Specs)
			want := strings.ToLower(strings.TrimSpace(key))
			removed := false
			for _, r := range list.Rows() {
				if strings.ToLower(strings.TrimSpace(r.Key)) == want {
					list.RemoveAt(r.ID)
					removed = true
				}
			}
			if !removed {
				return writeErr(cmd, errNotFound("spec key", key))
			}
			return saveSpecs(cmd, app, db, s, userID, itemID, list)
		},
	}

	cmd.Flags().StringVar(&key, "key", "", "Key to remove (case-insensitive)")
	_ = cmd.MarkFlagRequired("key")
	return cmd
}

func newSpecsMoveCmd(app *App) *cobra.Command {
	var key string
	var before string

	cmd := &cobra.Command{
		Use:   "move <item-id>",
		Short: "Move a specification row before another (reorder)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			userID, err := currentUserID(app, db)
			if err != nil {
				return writeErr(cmd, err)
			}
			itemID := strings.TrimSpace(args[0])
			it, ok := db.FindItem(itemID)
			if !ok {
				return writeErr(cmd, errNotFound("item", itemID))
			}

			list := specs.FromEntries(it.Specs)
			srcID := findRowIDByKey(list, key)
			if srcID == "" {
				return writeErr(cmd, errNotFound("spec key", key))
			}
			dstID := findRowIDByKey(list, before)
			if dstID == "" {
				return writeErr(cmd, errNotFound("spec key", before))
			}
			list.Reorder(srcID, dstID)
			return saveSpecs(cmd, app, db, s, userID, itemID, list)
		},
	}

	cmd.Flags().StringVar(&key, "key", "", "Key of the row to move")
	cmd.Flags().StringVar(&before, "before", "", "Key of the row to insert before")
	_ = cmd.MarkFlagRequired("key")
	_ = cmd.MarkFlagRequired("before")
	return cmd
}

// findRowIDByKey resolves the first row whose trimmed, lower-cased key
// matches. Reorder itself always works on row ids; keys are only the CLI's
// lookup handle.
func findRowIDByKey(list *specs.List, key string) string {
	want := strings.ToLower(strings.TrimSpace(key))
	for _, r := range list.Rows() {
		if strings.ToLower(strings.TrimSpace(r.Key)) == want {
			return r.ID
		}
	}
	return ""
}

func newItemsEditSpecsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit-specs <item-id>",
		Short: "Edit an item's specifications in the interactive editor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			userID, err := currentUserID(app, db)
			if err != nil {
				return writeErr(cmd, err)
			}
			itemID := strings.TrimSpace(args[0])
			if _, ok := db.FindItem(itemID); !ok {
				return writeErr(cmd, errNotFound("item", itemID))
			}
			return tui.RunSpecEditor(db, s, userID, itemID)
		},
	}
	return cmd
}
