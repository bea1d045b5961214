package cli

import (
	"encoding/json"
	"io"
	"os"

	"github.com/spf13/cobra"

	"metroview.org/internal/logging"
	"metroview.org/internal/mapoverlay"
)

func graphCmd(opts *options) *cobra.Command {
	var outPath string
	var markers bool

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Write the built graph elements, or the map markers, as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			logger := opts.logger(cmd)
			store, err := opts.loadStore(cmd.Context(), logger)
			if err != nil {
				return err
			}

			var doc interface{} = store.Elements()
			if markers {
				doc = mapoverlay.Markers(store.Positions(), mapoverlay.DefaultHeight)
			}

			var w io.Writer = cmd.OutOrStdout()
			if outPath != "" {
				f, createErr := os.Create(outPath)
				if createErr != nil {
					return createErr
				}
				defer logging.HandleDeferredError(&err, f.Close, logger, "close_graph_output")
				w = f
			}

			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(doc)
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Write to this file instead of stdout")
	cmd.Flags().BoolVar(&markers, "markers", false, "Write map overlay markers instead of graph elements")
	return cmd
}
