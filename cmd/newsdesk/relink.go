package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func relinkCmd(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "relink",
		Short: "Recompute the industry and keyword links of every article",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := openClient(*envFile)
			if err != nil {
				return err
			}
			defer closeClient(client)

			n, err := client.Linker.RelinkAll(cmd.Context())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "relinked %d articles\n", n)
			return nil
		},
	}
}
