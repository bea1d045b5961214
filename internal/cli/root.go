// Package cli implements metroctl, a terminal client that loads the network
// and drives a headless viewer against the route service.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"metroview.org/internal/logging"
	"metroview.org/internal/network"
	"metroview.org/internal/routing"
	"metroview.org/internal/viewer"
)

type options struct {
	network      string
	positions    string
	routeService string
	requestForm  string
	timeout      time.Duration
	noColor      bool
	verbose      bool
}

// NewRootCmd builds the metroctl command tree. Output goes to out.
func NewRootCmd(out io.Writer) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "metroctl",
		Short: "metroctl: explore the metro network from the terminal",
		Long: title.Sprint("metroctl") + " loads a metro network and asks the route service for itineraries\n" +
			subtle.Sprint("Station ids are the ids of the network document"),
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.noColor {
				color.NoColor = true
			}
		},
	}
	root.SetOut(out)
	root.SetErr(out)

	flags := root.PersistentFlags()
	flags.StringVar(&opts.network, "network", "data/network.json", "Network document, file path or URL")
	flags.StringVar(&opts.positions, "positions", "data/positions.json", "Positions document, file path or URL; empty to skip")
	flags.StringVar(&opts.routeService, "route-service", "http://127.0.0.1:5000", "Base URL of the route service")
	flags.StringVar(&opts.requestForm, "request-form", string(routing.QueryForm), "How station ids are sent (query|body)")
	flags.DurationVar(&opts.timeout, "timeout", 30*time.Second, "Timeout of each route service call")
	flags.BoolVar(&opts.noColor, "no-color", false, "Disable coloured output")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Log loading and routing details to stderr")

	root.AddCommand(
		searchCmd(opts),
		routeCmd(opts),
		forestCmd(opts),
		graphCmd(opts),
	)
	return root
}

func (o *options) logger(cmd *cobra.Command) *slog.Logger {
	if !o.verbose {
		return slog.New(slog.DiscardHandler)
	}
	return logging.NewStructuredLogger(cmd.ErrOrStderr(), slog.LevelDebug)
}

func (o *options) loadStore(ctx context.Context, logger *slog.Logger) (*network.Store, error) {
	store, err := network.Load(ctx, network.Sources{
		NetworkURL:   o.network,
		PositionsURL: o.positions,
	}, &http.Client{Timeout: o.timeout}, logger)
	if err != nil {
		return nil, fmt.Errorf("loading network: %w", err)
	}
	return store, nil
}

// openViewer loads the network and builds a viewer with no publisher.
// Callers must Close it.
func (o *options) openViewer(cmd *cobra.Command) (*viewer.Viewer, *network.Store, error) {
	logger := o.logger(cmd)

	form, err := routing.ParseRequestForm(o.requestForm)
	if err != nil {
		return nil, nil, err
	}

	store, err := o.loadStore(cmd.Context(), logger)
	if err != nil {
		return nil, nil, err
	}

	config := routing.DefaultConfig(o.routeService)
	config.Form = form
	service := routing.NewClient(config, &http.Client{}, logger)

	v, err := viewer.New(viewer.Config{
		Catalog:      store,
		Service:      service,
		Logger:       logger,
		RouteTimeout: o.timeout,
	})
	if err != nil {
		return nil, nil, err
	}
	return v, store, nil
}
