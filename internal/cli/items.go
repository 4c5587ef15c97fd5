package cli

import (
	"strings"
	"time"

	"stockroom-cli/internal/model"
	"stockroom-cli/internal/mutate"
	"stockroom-cli/internal/store"

	"github.com/spf13/cobra"
)

func newItemsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "items",
		Short: "Item commands",
	}
	cmd.AddCommand(newItemsCreateCmd(app))
	cmd.AddCommand(newItemsListCmd(app))
	cmd.AddCommand(newItemsShowCmd(app))
	cmd.AddCommand(newItemsSetCmd(app))
	cmd.AddCommand(newItemsArchiveCmd(app))
	cmd.AddCommand(newItemsRemoveCmd(app))
	cmd.AddCommand(newItemsSpecsCmd(app))
	cmd.AddCommand(newItemsEditSpecsCmd(app))
	return cmd
}

func newItemsCreateCmd(app *App) *cobra.Command {
	var name string
	var description string
	var categoryID string
	var locationID string
	var quantity int
	var tags []string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an item",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			userID, err := currentUserID(app, db)
			if err != nil {
				return writeErr(cmd, err)
			}
			if strings.TrimSpace(name) == "" {
				return writeErr(cmd, mutate.ErrEmptyName)
			}
			if quantity < 0 {
				return writeErr(cmd, mutate.ErrNegativeQuantity)
			}
			if categoryID != "" {
				if _, ok := db.FindCategory(categoryID); !ok {
					return writeErr(cmd, errNotFound("category", categoryID))
				}
			}
			if locationID != "" {
				if _, ok := db.FindLocation(locationID); !ok {
					return writeErr(cmd, errNotFound("location", locationID))
				}
			}

			now := time.Now().UTC()
			it := model.Item{
				ID:          s.NextID(db, "item"),
				Name:        strings.TrimSpace(name),
				Description: description,
				CategoryID:  categoryID,
				LocationID:  locationID,
				Quantity:    quantity,
				Tags:        tags,
				CreatedBy:   userID,
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			db.Items = append(db.Items, it)
			if err := s.Save(db); err != nil {
				return writeErr(cmd, err)
			}
			_ = s.AppendEvent(userID, "item.create", it.ID, it)
			return writeOut(cmd, app, map[string]any{"data": it})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Item name")
	cmd.Flags().StringVar(&description, "description", "", "Item description (markdown)")
	cmd.Flags().StringVar(&categoryID, "category", "", "Category id")
	cmd.Flags().StringVar(&locationID, "location", "", "Location id")
	cmd.Flags().IntVar(&quantity, "quantity", 1, "On-hand quantity")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "Tag (repeatable)")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newItemsListCmd(app *App) *cobra.Command {
	var categoryID string
	var locationID string
	var archived bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List items",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			f := store.ItemFilter{CategoryID: categoryID, LocationID: locationID}
			arch := archived
			f.Archived = &arch
			return writeOut(cmd, app, map[string]any{"data": db.FilterItems(f)})
		},
	}

	cmd.Flags().StringVar(&categoryID, "category", "", "Filter by category id")
	cmd.Flags().StringVar(&locationID, "location", "", "Filter by location id")
	cmd.Flags().BoolVar(&archived, "archived", false, "Show archived items instead")
	return cmd
}

func newItemsShowCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <item-id>",
		Short: "Show one item",
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
			out := map[string]any{"data": it}
			if it.LocationID != "" {
				out["meta"] = map[string]any{"locationPath": db.LocationPath(it.LocationID)}
			}
			return writeOut(cmd, app, out)
		},
	}
	return cmd
}

func newItemsSetCmd(app *App) *cobra.Command {
	var name string
	var quantity int
	var categoryID string
	var locationID string

	cmd := &cobra.Command{
		Use:   "set <item-id>",
		Short: "Update item fields",
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

			type pending struct {
				typ     string
				payload map[string]any
			}
			var events []pending

			if cmd.Flags().Changed("name") {
				res, err := mutate.RenameItem(db, userID, itemID, name)
				if err != nil {
					return writeErr(cmd, err)
				}
				if res.Changed {
					events = append(events, pending{"item.rename", res.EventPayload})
				}
			}
			if cmd.Flags().Changed("quantity") {
				res, err := mutate.SetQuantity(db, userID, itemID, quantity)
				if err != nil {
					return writeErr(cmd, err)
				}
				if res.Changed {
					events = append(events, pending{"item.set_quantity", res.EventPayload})
				}
			}
			if cmd.Flags().Changed("category") {
				res, err := mutate.SetCategory(db, userID, itemID, categoryID)
				if err != nil {
					return writeErr(cmd, err)
				}
				if res.Changed {
					events = append(events, pending{"item.set_category", res.EventPayload})
				}
			}
			if cmd.Flags().Changed("location") {
				res, err := mutate.MoveItem(db, userID, itemID, locationID)
				if err != nil {
					return writeErr(cmd, err)
				}
				if res.Changed {
					events = append(events, pending{"item.move", res.EventPayload})
				}
			}

			it, ok := db.FindItem(itemID)
			if !ok {
				return writeErr(cmd, errNotFound("item", itemID))
			}
			if len(events) > 0 {
				if err := s.Save(db); err != nil {
					return writeErr(cmd, err)
				}
				for _, ev := range events {
					_ = s.AppendEvent(userID, ev.typ, itemID, ev.payload)
				}
			}
			return writeOut(cmd, app, map[string]any{"data": it})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New name")
	cmd.Flags().IntVar(&quantity, "quantity", 0, "New quantity")
	cmd.Flags().StringVar(&categoryID, "category", "", "New category id (empty clears)")
	cmd.Flags().StringVar(&locationID, "location", "", "New location id (empty clears)")
	return cmd
}

func newItemsArchiveCmd(app *App) *cobra.Command {
	var restore bool

	cmd := &cobra.Command{
		Use:   "archive <item-id>",
		Short: "Archive (or restore) an item",
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
			res, err := mutate.SetItemArchived(db, userID, strings.TrimSpace(args[0]), !restore)
			if err != nil {
				return writeErr(cmd, err)
			}
			if res.Changed {
				if err := s.Save(db); err != nil {
					return writeErr(cmd, err)
				}
				typ := "item.archive"
				if restore {
					typ = "item.restore"
				}
				_ = s.AppendEvent(userID, typ, res.Item.ID, res.EventPayload)
			}
			return writeOut(cmd, app, map[string]any{"data": res.Item})
		},
	}

	cmd.Flags().BoolVar(&restore, "restore", false, "Restore instead of archive")
	return cmd
}

func newItemsRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <item-id>",
		Short: "Delete an item permanently (prefer archive)",
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
			res, err := mutate.RemoveItem(db, userID, strings.TrimSpace(args[0]))
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := s.Save(db); err != nil {
				return writeErr(cmd, err)
			}
			_ = s.AppendEvent(userID, "item.remove", res.Item.ID, res.EventPayload)
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"removed": res.Item.ID}})
		},
	}
}
