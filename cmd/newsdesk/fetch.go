package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/helixml/newsdesk/application/service"
)

func fetchCmd(envFile *string) *cobra.Command {
	var (
		limit    int
		keyword  string
		industry string
	)

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch the latest articles for stored keywords",
		Long: `Fetch the latest articles for stored keywords.

Without flags every keyword is searched. --keyword selects keywords whose
text contains the value, --industry adds every keyword of that industry.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runFetch(ctx, cmd, *envFile, limit, service.Selection{
				KeywordContains: keyword,
				Industry:        industry,
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Articles to fetch per keyword (default: FETCH_LIMIT or 5)")
	cmd.Flags().StringVar(&keyword, "keyword", "", "Fetch keywords containing this text")
	cmd.Flags().StringVar(&industry, "industry", "", "Fetch every keyword of this industry")

	return cmd
}

func runFetch(ctx context.Context, cmd *cobra.Command, envFile string, limit int, sel service.Selection) error {
	client, _, err := openClient(envFile)
	if err != nil {
		return err
	}
	defer closeClient(client)

	out := cmd.OutOrStdout()
	report, err := client.Ingest.FetchSelection(ctx, sel, limit)
	switch {
	case errors.Is(err, service.ErrNothingToFetch) && sel.IsEmpty():
		_, _ = fmt.Fprintln(out, "no keywords stored yet, run `newsdesk seed` or add some first")
		return nil
	case errors.Is(err, service.ErrNothingToFetch):
		return errors.New("no matching keywords")
	case err != nil && len(report.Terms) == 0:
		return err
	}

	for _, failure := range report.Failures {
		_, _ = fmt.Fprintln(cmd.ErrOrStderr(), failure.Message())
	}
	_, _ = fmt.Fprintf(out, "searched %d keywords, saved %d new articles\n", len(report.Terms), report.Created)
	return err
}
