package routing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"metroview.org/internal/logging"
	"metroview.org/internal/models"
)

var (
	// ErrRouteStatus is returned when the service answers with a non-2xx status.
	ErrRouteStatus = errors.New("route service returned an error status")
	// ErrMissingEnvelope is returned when the response has no data object.
	ErrMissingEnvelope = errors.New("route service response has no data envelope")
)

// RequestForm selects how the shortest path endpoints are sent.
type RequestForm string

const (
	QueryForm RequestForm = "query"
	BodyForm  RequestForm = "body"
)

// ParseRequestForm maps a configuration value to a RequestForm.
func ParseRequestForm(s string) (RequestForm, error) {
	switch RequestForm(strings.ToLower(strings.TrimSpace(s))) {
	case "", QueryForm:
		return QueryForm, nil
	case BodyForm:
		return BodyForm, nil
	default:
		return "", fmt.Errorf("unknown request form %q", s)
	}
}

// Service is the remote route computation service.
type Service interface {
	ShortestPath(ctx context.Context, departure, destination models.StationID) (*models.RouteData, error)
	SpanningForest(ctx context.Context) (*models.RouteData, error)
}

type Config struct {
	BaseURL      string
	ShortestPath string
	Forest       string
	Form         RequestForm
}

// DefaultConfig matches the paths exposed by the reference route service.
func DefaultConfig(baseURL string) Config {
	return Config{
		BaseURL:      baseURL,
		ShortestPath: "/dijkstra",
		Forest:       "/kruskal",
		Form:         QueryForm,
	}
}

// Client talks to the route service over HTTP.
type Client struct {
	config     Config
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(config Config, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}
	if config.Form == "" {
		config.Form = QueryForm
	}
	return &Client{
		config:     config,
		httpClient: httpClient,
		logger:     logger.With(slog.String("component", "route_client")),
	}
}

type shortestPathBody struct {
	Departure   models.StationID `json:"s1"`
	Destination models.StationID `json:"s2"`
}

func (c *Client) ShortestPath(ctx context.Context, departure, destination models.StationID) (*models.RouteData, error) {
	endpoint := c.endpoint(c.config.ShortestPath)

	var req *http.Request
	var err error
	switch c.config.Form {
	case BodyForm:
		body, marshalErr := json.Marshal(shortestPathBody{Departure: departure, Destination: destination})
		if marshalErr != nil {
			return nil, fmt.Errorf("encoding shortest path request: %w", marshalErr)
		}
		req, err = http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
		if err == nil {
			req.Header.Set("Content-Type", "application/json")
		}
	default:
		q := url.Values{}
		q.Set("s1", string(departure))
		q.Set("s2", string(destination))
		req, err = http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+q.Encode(), nil)
	}
	if err != nil {
		return nil, fmt.Errorf("building shortest path request: %w", err)
	}

	return c.do(req, "shortest_path")
}

func (c *Client) SpanningForest(ctx context.Context) (*models.RouteData, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(c.config.Forest), nil)
	if err != nil {
		return nil, fmt.Errorf("building spanning forest request: %w", err)
	}
	return c.do(req, "spanning_forest")
}

func (c *Client) endpoint(path string) string {
	return strings.TrimRight(c.config.BaseURL, "/") + "/" + strings.TrimLeft(path, "/")
}

func (c *Client) do(req *http.Request, operation string) (*models.RouteData, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", operation, err)
	}
	defer logging.SafeCloseWithLogging(resp.Body, c.logger, operation+"_response_body")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: %s", ErrRouteStatus, resp.Status)
	}

	var envelope models.RouteEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decoding %s response: %w", operation, err)
	}
	if envelope.Data == nil {
		return nil, ErrMissingEnvelope
	}

	return envelope.Data, nil
}
