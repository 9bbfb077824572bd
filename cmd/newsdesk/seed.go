package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/helixml/newsdesk/application/service"
)

func seedCmd(envFile *string) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the industry and keyword taxonomy",
		Long: `Load the industry and keyword taxonomy.

The built-in taxonomy is used unless --file names a YAML file of the form:

  industries:
    - name: 科技
      description: optional text
      keywords: [AI, 雲端]

Seeding is idempotent: existing industries and keywords are kept.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			taxonomy, err := loadTaxonomy(file)
			if err != nil {
				return err
			}

			client, _, err := openClient(*envFile)
			if err != nil {
				return err
			}
			defer closeClient(client)

			report, err := client.Seeder.Seed(cmd.Context(), taxonomy)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "created %d industries and %d keywords\n", report.Industries, report.Keywords)
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "YAML taxonomy file (default: built-in taxonomy)")

	return cmd
}

func loadTaxonomy(path string) (service.Taxonomy, error) {
	if path == "" {
		return service.DefaultTaxonomy()
	}
	f, err := os.Open(path)
	if err != nil {
		return service.Taxonomy{}, fmt.Errorf("open taxonomy: %w", err)
	}
	defer func() { _ = f.Close() }()
	return service.ReadTaxonomy(f)
}
