package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"metroview.org/internal/graph"
	"metroview.org/internal/highlight"
	"metroview.org/internal/models"
	"metroview.org/internal/network"
	"metroview.org/internal/viewer"
)

var errUnknownStation = errors.New("unknown station")

func routeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "route <departure-id> <destination-id>",
		Short: "Ask the route service for the shortest path between two stations",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, store, err := opts.openViewer(cmd)
			if err != nil {
				return err
			}
			defer v.Close()

			departure, destination := models.StationID(args[0]), models.StationID(args[1])
			for _, id := range []models.StationID{departure, destination} {
				if _, ok := store.Station(id); !ok {
					return fmt.Errorf("%w: %s", errUnknownStation, id)
				}
			}

			if _, err := v.ClickListEntry(departure); err != nil {
				return err
			}
			if _, err := v.ClickListEntry(destination); err != nil {
				return err
			}
			before, err := v.RequestRoute(cmd.Context())
			if err != nil {
				return err
			}

			snap, err := settle(v, before)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			heading(out, fmt.Sprintf("%s → %s", snap.Panel.Departure, snap.Panel.Destination))
			printResult(out, store, snap)
			return nil
		},
	}
}

func forestCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "forest",
		Short: "Ask the route service for the minimum spanning forest of the network",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, store, err := opts.openViewer(cmd)
			if err != nil {
				return err
			}
			defer v.Close()

			before, err := v.RequestForest(cmd.Context())
			if err != nil {
				return err
			}
			snap, err := settle(v, before)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			heading(out, "Minimum spanning forest")
			printResult(out, store, snap)
			return nil
		},
	}
}

var errRouteFailed = errors.New("route service request failed")

// settle waits for the pending request and returns the resulting snapshot.
// A failed request leaves the viewer unchanged, which shows as an
// unchanged version.
func settle(v *viewer.Viewer, before viewer.Snapshot) (viewer.Snapshot, error) {
	v.Wait()
	snap, err := v.Snapshot()
	if err != nil {
		return snap, err
	}
	if snap.Version == before.Version {
		return snap, errRouteFailed
	}
	return snap, nil
}

func printResult(w io.Writer, store *network.Store, snap viewer.Snapshot) {
	if snap.Panel.NoRoute {
		_, _ = warn.Fprintln(w, "  No route found")
	}

	_, _ = subtle.Fprintln(w, "Itinerary")
	for _, step := range snap.Panel.Itinerary {
		_, _ = fmt.Fprintf(w, "  %s\n", step)
	}
	_, _ = fmt.Fprintf(w, "%s %s\n", subtle.Sprint("Travel time"), good.Sprint(snap.Panel.TravelTime))

	printHighlight(w, store, snap.Highlight)
}

func printHighlight(w io.Writer, store *network.Store, result highlight.Result) {
	if len(result.Nodes) == 0 {
		return
	}
	_, _ = subtle.Fprintf(w, "Stations (%d), edges (%d)\n", len(result.Nodes), len(result.Edges))
	for _, node := range result.Nodes {
		id, ok := graph.StationIDFromNode(node)
		if !ok {
			continue
		}
		if station, ok := store.Station(id); ok {
			stationLine(w, station)
		}
	}
	if len(result.Skipped) > 0 {
		_, _ = warn.Fprintf(w, "  %d pair(s) referenced stations missing from the network\n", len(result.Skipped))
	}
}
