package cli

import (
	"strings"

	"stockroom-cli/internal/store"

	"github.com/spf13/cobra"
)

func newEventsCmd(app *App) *cobra.Command {
	var entityID string
	var limit int

	cmd := &cobra.Command{
		Use:   "events",
		Short: "List audit log events",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Resolve the dir the same way loadDB does, without needing state.
			if _, _, err := loadDB(app); err != nil {
				return writeErr(cmd, err)
			}
			var err error
			var evs any
			if strings.TrimSpace(entityID) != "" {
				evs, err = store.ReadEventsForEntity(app.Dir, entityID, limit)
			} else {
				evs, err = store.ReadEvents(app.Dir, limit)
			}
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": evs})
		},
	}

	cmd.Flags().StringVar(&entityID, "entity", "", "Only events for this entity id")
	cmd.Flags().IntVar(&limit, "limit", 0, "Max events (0 = all)")
	return cmd
}
