// Package cli defines the cobra command tree for showing-hive.
package cli

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/evcraddock/showing-hive/internal/client"
	"github.com/evcraddock/showing-hive/internal/db"
)

var (
	flagFormat string
	flagDB     string
)

// NewRootCmd creates the root cobra command with global flags.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "hive",
		Short:         "Coordinate property showings and disclosures",
		Long:          "A tool for sellers and agents to schedule showings, hand out lockbox codes, and share disclosure documents with buyers. Run the server with 'hive serve' and drive it from the other commands.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flagFormat, "format", "text", "output format (text|json)")
	root.PersistentFlags().StringVar(&flagDB, "db", "", "SQLite database path for serve (default: ~/.showing-hive/hive.db)")

	root.AddCommand(
		newServeCmd(),
		newPropertyCmd(),
		newBlockCmd(),
		newShowingCmd(),
		newPackageCmd(),
		newShareCmd(),
		newTourCmd(),
		newActivityCmd(),
		newConfigCmd(),
		newVersionCmd(),
	)

	return root
}

// openDB opens the SQLite database from the --db flag, then path, then the
// default location.
func openDB(path string) (*sql.DB, string, error) {
	if flagDB != "" {
		path = flagDB
	}
	if path == "" {
		var err error
		path, err = db.DefaultPath()
		if err != nil {
			return nil, "", err
		}
	}
	d, err := db.Open(path)
	if err != nil {
		return nil, "", err
	}
	return d, path, nil
}

// newAPIClient creates an HTTP client for the showing-hive API.
func newAPIClient() *client.Client {
	return client.New(getServerURL())
}

// isJSON returns true if the --format flag is set to json.
func isJSON() bool {
	return flagFormat == "json"
}

// closeDB closes the database, logging any error to stderr.
func closeDB(database *sql.DB) {
	if err := database.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: closing database: %v\n", err)
	}
}
