package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

// schemaCmd prints the remote collection's property schema.
var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Show the remote collection's property schema",
	Long: `Schema fetches the collection metadata and lists each property
with its type, so a mapping file can be checked against the live
collection before a push.`,
	RunE: runSchema,
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}

func runSchema(cmd *cobra.Command, _ []string) error {
	client, err := remoteClient()
	if err != nil {
		return err
	}

	schema, err := client.Schema(cmd.Context())
	if err != nil {
		return err
	}

	names := make([]string, 0, len(schema))
	for name := range schema {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", name, schema[name].Type)
	}
	return nil
}
