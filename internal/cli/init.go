package cli

import (
	"strings"

	"stockroom-cli/internal/model"

	"github.com/spf13/cobra"
)

func newInitCmd(app *App) *cobra.Command {
	var userName string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a workspace in the current directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}

			created := false
			if strings.TrimSpace(userName) != "" && db.CurrentUserID == "" {
				u := model.User{
					ID:   s.NextID(db, "usr"),
					Name: strings.TrimSpace(userName),
				}
				db.Users = append(db.Users, u)
				db.CurrentUserID = u.ID
				created = true
			}
			if db.Version == 0 {
				db.Version = 1
			}
			if err := s.Save(db); err != nil {
				return writeErr(cmd, err)
			}
			if created {
				_ = s.AppendEvent(db.CurrentUserID, "user.create", db.CurrentUserID, nil)
			}

			return writeOut(cmd, app, map[string]any{"data": map[string]any{
				"dir":           s.Dir,
				"currentUserId": db.CurrentUserID,
			}})
		},
	}

	cmd.Flags().StringVar(&userName, "user", "", "Create the initial user with this name")
	return cmd
}

func newStatusCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Workspace summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			active := 0
			for _, it := range db.Items {
				if !it.Archived {
					active++
				}
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{
				"dir":           s.Dir,
				"currentUserId": db.CurrentUserID,
				"items":         active,
				"itemsArchived": len(db.Items) - active,
				"categories":    len(db.Categories),
				"locations":     len(db.Locations),
			}})
		},
	}
	return cmd
}
