package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/docsync/internal/source/csvfile"
	"github.com/agentstation/docsync/pkg/logging"
	"github.com/agentstation/docsync/pkg/sync"
)

var (
	pushCSVPath string
	pushDryRun  bool
)

// pushCmd uploads a CSV file into the remote collection.
var pushCmd = &cobra.Command{
	Use:   "push",
	Short: "Upsert CSV rows into the remote collection",
	Long: `Push reads the CSV file, fetches every page of the remote
collection, and classifies each row by its composite key: rows absent
remotely are created, rows whose key matches an existing page overwrite
that page's mapped properties.

Rows are processed in file order. A duplicate key on either side aborts
before any write. Individual write failures are reported at the end and
do not stop the remaining rows.`,
	RunE: runPush,
}

func init() {
	pushCmd.Flags().StringVar(&pushCSVPath, "csv", "", "CSV file to push (required)")
	pushCmd.Flags().BoolVar(&pushDryRun, "dry-run", false, "classify rows without writing")
	_ = pushCmd.MarkFlagRequired("csv")
	rootCmd.AddCommand(pushCmd)
}

func runPush(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	log := logging.FromContext(ctx)

	m, spec, err := loadMapping()
	if err != nil {
		return err
	}

	client, err := remoteClient()
	if err != nil {
		return err
	}

	records, err := csvfile.Load(pushCSVPath, spec)
	if err != nil {
		return err
	}
	log.Info().Int("rows", len(records)).Str("file", pushCSVPath).Msg("Loaded local records")

	pages, err := client.FetchAll(ctx, m, spec)
	if err != nil {
		return err
	}
	log.Info().Int("pages", len(pages)).Msg("Fetched remote collection")

	plan := sync.Reconcile(records, remotePages(pages))
	log.Info().
		Int("creates", len(plan.Creates)).
		Int("updates", len(plan.Updates)).
		Msg("Reconciled")

	if pushDryRun {
		fmt.Fprintln(cmd.OutOrStdout(), "Dry run:", plan.Summary())
		return nil
	}

	executor := sync.NewExecutor(client, m,
		sync.WithRequestsPerSecond(cfg.RequestsPerSecond))
	result, err := executor.Execute(ctx, plan)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), result.Summary())
	for _, f := range result.Failed {
		log.Error().
			Err(f.Err).
			Str("operation", f.Operation).
			Str("key", f.Key).
			Msg("Record failed")
	}

	if result.HasFailures() {
		return fmt.Errorf("%d of %d records failed", len(result.Failed), plan.Total())
	}
	return nil
}
