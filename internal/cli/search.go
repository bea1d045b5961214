package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"metroview.org/internal/search"
)

func searchCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "search [query]",
		Short: "List stations whose name or line matches the query",
		Long: `List stations whose name or line contains the query, ignoring case.

  metroctl search            # every station
  metroctl search pigalle    # by name
  metroctl search 7bis       # by line`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := opts.loadStore(cmd.Context(), opts.logger(cmd))
			if err != nil {
				return err
			}

			query := strings.Join(args, " ")
			results := search.Filter(query, store.Stations())

			out := cmd.OutOrStdout()
			heading(out, fmt.Sprintf("%d station(s) matching %q", len(results), query))
			if len(results) == 0 {
				_, _ = warn.Fprintf(out, "  %s\n", search.NoResults)
				return nil
			}
			for _, station := range results {
				stationLine(out, station)
			}
			return nil
		},
	}
}
