package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/docsync/internal/source/csvfile"
	"github.com/agentstation/docsync/pkg/logging"
	"github.com/agentstation/docsync/pkg/properties"
)

var pullOutPath string

// pullCmd exports the remote collection to a CSV file.
var pullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Export the remote collection to a CSV file",
	Long: `Pull fetches every page of the remote collection, decodes each
mapped property back to its plain-text cell, and writes a CSV file with
the mapping's column order. Unmapped properties are not exported.`,
	RunE: runPull,
}

func init() {
	pullCmd.Flags().StringVar(&pullOutPath, "out", "", "destination CSV file (required)")
	_ = pullCmd.MarkFlagRequired("out")
	rootCmd.AddCommand(pullCmd)
}

func runPull(cmd *cobra.Command, _ []string) error {
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

	pages, err := client.FetchAll(ctx, m, spec)
	if err != nil {
		return err
	}
	log.Info().Int("pages", len(pages)).Msg("Fetched remote collection")

	rows := make([]map[string]string, 0, len(pages))
	for _, page := range pages {
		row := make(map[string]string, m.Len())
		for _, f := range m.Fields() {
			value, ok := page.Properties[f.Property]
			if !ok {
				continue
			}
			cell, err := properties.Decode(f.Kind, f.Column, value)
			if err != nil {
				return err
			}
			row[f.Column] = cell
		}
		rows = append(rows, row)
	}

	if err := csvfile.Save(pullOutPath, m.Columns(), rows); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d rows to %s\n", len(rows), pullOutPath)
	return nil
}
