package cli

import (
	"log/slog"

	_ "github.com/mattn/go-sqlite3"
	"github.com/spf13/cobra"

	internaldb "clingov/internal/db"
	"clingov/internal/db/repository"
	"clingov/internal/domain"
	"clingov/internal/service/governance"
)

func newLineageCmd() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "lineage",
		Short: "Query the lineage audit store",
	}
	cmd.PersistentFlags().StringVar(&dbPath, "db", "clingov_audit.sqlite", "path to the SQLite audit store")

	cmd.AddCommand(newLineageTraverseCmd(&dbPath, "upstream", "Show where the data at a location came from"))
	cmd.AddCommand(newLineageTraverseCmd(&dbPath, "downstream", "Show what depends on the data at a location"))
	cmd.AddCommand(newLineagePurgeCmd(&dbPath))
	return cmd
}

// openLineageService opens the audit store read-only for queries and
// returns the wired service plus a cleanup func.
func openLineageService(dbPath string, write bool) (*governance.LineageService, func(), error) {
	mode := "read"
	if write {
		mode = "write"
	}
	pool, err := internaldb.OpenSQLite(dbPath, mode, 1)
	if err != nil {
		return nil, nil, err
	}
	// One short-lived command, one pool for both sides.
	svc := governance.NewLineageService(repository.NewLineageEventRepo(pool, pool), slog.Default())
	return svc, func() { _ = pool.Close() }, nil
}

func newLineageTraverseCmd(dbPath *string, direction, short string) *cobra.Command {
	var maxDepth int

	cmd := &cobra.Command{
		Use:   direction + " <location>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeDB, err := openLineageService(*dbPath, false)
			if err != nil {
				return err
			}
			defer closeDB()

			query := svc.Upstream
			if direction == "downstream" {
				query = svc.Downstream
			}
			events, err := query(cmd.Context(), args[0], maxDepth)
			if err != nil {
				return err
			}
			if events == nil {
				events = []domain.LineageEvent{}
			}
			return printJSON(cmd.OutOrStdout(), events)
		},
	}

	cmd.Flags().IntVar(&maxDepth, "max-depth", -1, "traversal depth bound (default 10)")
	return cmd
}

func newLineagePurgeCmd(dbPath *string) *cobra.Command {
	var olderThanDays int

	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete lineage events older than the retention window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, closeDB, err := openLineageService(*dbPath, true)
			if err != nil {
				return err
			}
			defer closeDB()

			n, err := svc.PurgeOlderThan(cmd.Context(), olderThanDays)
			if err != nil {
				return err
			}
			cmd.Printf("purged %d events\n", n)
			return nil
		},
	}

	cmd.Flags().IntVar(&olderThanDays, "older-than-days", 365, "purge events older than this many days")
	return cmd
}
