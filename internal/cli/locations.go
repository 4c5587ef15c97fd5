package cli

import (
	"strings"
	"time"

	"stockroom-cli/internal/model"

	"github.com/spf13/cobra"
)

func newLocationsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "locations",
		Short: "Location commands",
	}
	cmd.AddCommand(newLocationsCreateCmd(app))
	cmd.AddCommand(newLocationsListCmd(app))
	cmd.AddCommand(newLocationsRenameCmd(app))
	return cmd
}

func newLocationsCreateCmd(app *App) *cobra.Command {
	var name string
	var parentID string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a location",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			userID, err := currentUserID(app, db)
			if err != nil {
				return writeErr(cmd, err)
			}

			var parent *string
			if strings.TrimSpace(parentID) != "" {
				pid := strings.TrimSpace(parentID)
				if _, ok := db.FindLocation(pid); !ok {
					return writeErr(cmd, errNotFound("location", pid))
				}
				parent = &pid
			}

			l := model.Location{
				ID:        s.NextID(db, "loc"),
				Name:      strings.TrimSpace(name),
				ParentID:  parent,
				CreatedBy: userID,
				CreatedAt: time.Now().UTC(),
			}
			db.Locations = append(db.Locations, l)
			if err := s.Save(db); err != nil {
				return writeErr(cmd, err)
			}
			_ = s.AppendEvent(userID, "location.create", l.ID, l)
			return writeOut(cmd, app, map[string]any{"data": l})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Location name")
	cmd.Flags().StringVar(&parentID, "parent", "", "Parent location id")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newLocationsListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List locations",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			type row struct {
				model.Location
				Path string `json:"path"`
			}
			rows := make([]row, 0, len(db.Locations))
			for _, l := range db.Locations {
				rows = append(rows, row{Location: l, Path: db.LocationPath(l.ID)})
			}
			return writeOut(cmd, app, map[string]any{"data": rows})
		},
	}
	return cmd
}

func newLocationsRenameCmd(app *App) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "rename <location-id>",
		Short: "Rename a location",
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
			l, ok := db.FindLocation(strings.TrimSpace(args[0]))
			if !ok {
				return writeErr(cmd, errNotFound("location", args[0]))
			}
			prev := l.Name
			l.Name = strings.TrimSpace(name)
			if err := s.Save(db); err != nil {
				return writeErr(cmd, err)
			}
			_ = s.AppendEvent(userID, "location.rename", l.ID, map[string]any{"from": prev, "to": l.Name})
			return writeOut(cmd, app, map[string]any{"data": l})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New name")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}
