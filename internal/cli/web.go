package cli

import (
	"fmt"

	"stockroom-cli/internal/web"

	"github.com/spf13/cobra"
)

func newWebCmd(app *App) *cobra.Command {
	var addr string
	var readOnly bool

	cmd := &cobra.Command{
		Use:   "web",
		Short: "Serve the workspace over a JSON HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Load once up front so a broken workspace fails fast, and so
			// app.Dir gets resolved.
			if _, _, err := loadDB(app); err != nil {
				return writeErr(cmd, err)
			}

			srv := web.NewServer(web.ServerConfig{
				Addr:     addr,
				Dir:      app.Dir,
				UserID:   app.UserID,
				ReadOnly: readOnly,
			})
			fmt.Fprintf(cmd.ErrOrStderr(), "stockroom web listening on %s (dir %s)\n", addr, app.Dir)
			return srv.ListenAndServe(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8700", "Listen address")
	cmd.Flags().BoolVar(&readOnly, "read-only", false, "Reject mutating requests")
	return cmd
}
