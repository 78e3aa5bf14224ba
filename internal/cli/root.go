// Package cli defines the cobra command tree for emprende-tacna.
package cli

import (
	"database/sql"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/evcraddock/emprende-tacna/internal/db"
)

var (
	flagFormat string
	flagDB     string
	flagServer string
)

// NewRootCmd creates the root cobra command with global flags.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "et",
		Short: "Directorio de emprendimientos de Tacna",
		Long: `Register local businesses in Tacna, browse them by category, and keep
track of the places you have visited. Commands work on the local database,
or on a running server when a server URL is configured.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flagFormat, "format", "text", "output format (text|json)")
	root.PersistentFlags().StringVar(&flagDB, "db", "", "SQLite database path (default: ~/.config/et/tacna.db)")
	root.PersistentFlags().StringVar(&flagServer, "server", "", "server URL; when set, commands use the HTTP API")

	root.AddCommand(
		newAddCmd(),
		newListCmd(),
		newShowCmd(),
		newVisitCmd(),
		newVisitedCmd(),
		newFeaturedCmd(),
		newStatsCmd(),
		newCategoriesCmd(),
		newLocateCmd(),
		newServeCmd(),
		newKeysCmd(),
		newVersionCmd(),
	)

	return root
}

// dbPath resolves the database path from --db, the config file, or the
// default location.
func dbPath() (string, error) {
	if p := setting(flagDB, "", func(c CLIConfig) string { return c.DBPath }); p != "" {
		return p, nil
	}
	return db.DefaultPath()
}

// openDB opens the SQLite database.
func openDB() (*sql.DB, error) {
	path, err := dbPath()
	if err != nil {
		return nil, err
	}
	return db.Open(path)
}

// isJSON returns true if the --format flag is set to json.
func isJSON() bool {
	return flagFormat == "json"
}

// closeDB closes the database, reporting any error on w.
func closeDB(w io.Writer, database *sql.DB) {
	if err := database.Close(); err != nil {
		fmt.Fprintf(w, "warning: closing database: %v\n", err)
	}
}
