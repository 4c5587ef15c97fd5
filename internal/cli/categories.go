package cli

import (
	"strings"
	"time"

	"stockroom-cli/internal/model"

	"github.com/spf13/cobra"
)

func newCategoriesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Category commands",
	}
	cmd.AddCommand(newCategoriesCreateCmd(app))
	cmd.AddCommand(newCategoriesListCmd(app))
	cmd.AddCommand(newCategoriesRenameCmd(app))
	return cmd
}

func newCategoriesCreateCmd(app *App) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a category",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			userID, err := currentUserID(app, db)
			if err != nil {
				return writeErr(cmd, err)
			}

			c := model.Category{
				ID:        s.NextID(db, "cat"),
				Name:      strings.TrimSpace(name),
				CreatedBy: userID,
				CreatedAt: time.Now().UTC(),
			}
			db.Categories = append(db.Categories, c)
			if err := s.Save(db); err != nil {
				return writeErr(cmd, err)
			}
			_ = s.AppendEvent(userID, "category.create", c.ID, c)
			return writeOut(cmd, app, map[string]any{"data": c})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Category name")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newCategoriesListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": db.Categories})
		},
	}
	return cmd
}

func newCategoriesRenameCmd(app *App) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "rename <category-id>",
		Short: "Rename a category",
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
			c, ok := db.FindCategory(strings.TrimSpace(args[0]))
			if !ok {
				return writeErr(cmd, errNotFound("category", args[0]))
			}
			prev := c.Name
			c.Name = strings.TrimSpace(name)
			if err := s.Save(db); err != nil {
				return writeErr(cmd, err)
			}
			_ = s.AppendEvent(userID, "category.rename", c.ID, map[string]any{"from": prev, "to": c.Name})
			return writeOut(cmd, app, map[string]any{"data": c})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New name")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}
