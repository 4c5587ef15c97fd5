package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"stockroom-cli/internal/format"
	"stockroom-cli/internal/store"

	"github.com/spf13/cobra"
)

type App struct {
	Dir        string
	UserID     string
	PrettyJSON bool
	Format     string
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "stockroom",
		Short:        "Local-first home inventory CLI + web API",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Set up a workspace in the current directory
  stockroom init --user "Alex"

  # Scriptable commands
  stockroom items list
  stockroom items create --name "Arduino Uno" --quantity 2

  # Edit an item's specifications interactively
  stockroom items edit-specs item-abc12345

  # Serve the JSON API
  stockroom web --addr :8700

  # Direct item lookup (shortcut for: stockroom items show <item-id>)
  stockroom item-abc12345
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", envOr("STOCKROOM_DIR", ""), "Path to store dir (default: discovered .stockroom)")
	cmd.PersistentFlags().StringVar(&app.UserID, "user", envOr("STOCKROOM_USER", ""), "User id (overrides currentUserId in the workspace)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("STOCKROOM_FORMAT", "json"), "Output format (json)")

	cmd.AddCommand(newInitCmd(app))
	cmd.AddCommand(newStatusCmd(app))
	cmd.AddCommand(newItemsCmd(app))
	cmd.AddCommand(newCategoriesCmd(app))
	cmd.AddCommand(newLocationsCmd(app))
	cmd.AddCommand(newEventsCmd(app))
	cmd.AddCommand(newWebCmd(app))
	cmd.AddCommand(newDocsCmd(app))

	return cmd
}

func loadDB(app *App) (*store.DB, store.Store, error) {
	dir := app.Dir
	if dir == "" {
		d, err := store.DefaultDir()
		if err != nil {
			return nil, store.Store{}, err
		}
		dir = d
		app.Dir = dir
	}

	s := store.Store{Dir: dir}
	db, err := s.Load()
	if err != nil {
		return nil, s, err
	}
	return db, s, nil
}

func currentUserID(app *App, db *store.DB) (string, error) {
	if app.UserID != "" {
		return app.UserID, nil
	}
	if db.CurrentUserID != "" {
		return db.CurrentUserID, nil
	}
	return "", errors.New("no current user; run `stockroom init --user <name>` (or pass --user)")
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
