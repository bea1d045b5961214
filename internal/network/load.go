package network

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/sourcegraph/conc/pool"

	"metroview.org/internal/logging"
	"metroview.org/internal/models"
)

var errNoNetworkSource = errors.New("no network source configured")

func rawData(ctx context.Context, client *http.Client, source string, logger *slog.Logger) ([]byte, error) {
	if !isRemote(source) {
		b, err := os.ReadFile(source)
		if err != nil {
			return nil, fmt.Errorf("error reading local file: %w", err)
		}
		return b, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, fmt.Errorf("error building request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error downloading data: %w", err)
	}
	defer logging.SafeCloseWithLogging(resp.Body, logger, "download_"+source)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("error downloading data: unexpected status %s", resp.Status)
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response body: %w", err)
	}
	return b, nil
}

func loadNetwork(ctx context.Context, client *http.Client, source string, logger *slog.Logger) (*models.Network, error) {
	b, err := rawData(ctx, client, source, logger)
	if err != nil {
		return nil, fmt.Errorf("network document %s: %w", source, err)
	}
	var network models.Network
	if err := json.Unmarshal(b, &network); err != nil {
		return nil, fmt.Errorf("network document %s: error parsing: %w", source, err)
	}
	return &network, nil
}

func loadPositions(ctx context.Context, client *http.Client, source string, logger *slog.Logger) ([]models.Position, error) {
	b, err := rawData(ctx, client, source, logger)
	if err != nil {
		return nil, fmt.Errorf("positions document %s: %w", source, err)
	}
	var doc models.PositionsDocument
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("positions document %s: error parsing: %w", source, err)
	}
	return doc.Positions, nil
}

// Load fetches both documents concurrently and builds a Store. A failure on
// the network document fails the load; the positions document is optional
// and a failure there is only logged.
func Load(ctx context.Context, sources Sources, client *http.Client, logger *slog.Logger) (*Store, error) {
	if sources.NetworkURL == "" {
		return nil, errNoNetworkSource
	}
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}

	var network *models.Network
	var positions []models.Position

	p := pool.New().WithErrors().WithContext(ctx)
	p.Go(func(ctx context.Context) error {
		var err error
		network, err = loadNetwork(ctx, client, sources.NetworkURL, logger)
		return err
	})
	if sources.PositionsURL != "" {
		p.Go(func(ctx context.Context) error {
			var err error
			positions, err = loadPositions(ctx, client, sources.PositionsURL, logger)
			if err != nil {
				logging.LogError(logger, "positions document unavailable", err,
					slog.String("source", sources.PositionsURL))
				positions = nil
			}
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}

	return NewStore(network, positions, logger), nil
}
