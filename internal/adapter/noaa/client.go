package noaa

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/sony/gobreaker"

	"github.com/nickdnj/TempestWeather/internal/domain"
	"github.com/nickdnj/TempestWeather/internal/observability"
)

const predictionTimeLayout = "2006-01-02 15:04"

// Client fetches tide extremum predictions from the NOAA CO-OPS API.
// Failures degrade to a prediction with no events; the overlay renders
// those stations as "No data" rather than failing the whole image.
type Client struct {
	httpClient *http.Client
	baseURL    string
	mdapiURL   string
	clock      clockwork.Clock
	breaker    *gobreaker.CircuitBreaker
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewClient creates a tide prediction client.
func NewClient(timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Client {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "noaa",
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,
	})
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL:  "https://api.tidesandcurrents.noaa.gov/api/prod/datagetter",
		mdapiURL: "https://api.tidesandcurrents.noaa.gov/mdapi/prod/webapi/stations",
		clock:    clockwork.NewRealClock(),
		breaker:  cb,
		logger:   logger,
		metrics:  metrics,
	}
}

// SetClock replaces the client's time source. Call before use.
func (c *Client) SetClock(clock clockwork.Clock) {
	c.clock = clock
}

// Fetch requests today's high/low predictions for one station.
func (c *Client) Fetch(ctx context.Context, stationID string) domain.TidePrediction {
	p := domain.TidePrediction{
		StationID:   stationID,
		StationName: c.stationName(ctx, stationID),
		FetchedAt:   c.clock.Now(),
	}
	if stationID == "" {
		return p
	}

	today := c.clock.Now().Format("20060102")
	params := url.Values{
		"begin_date": {today},
		"end_date":   {today},
		"station":    {stationID},
		"product":    {"predictions"},
		"datum":      {"MLLW"},
		"units":      {"english"},
		"time_zone":  {"lst_ldt"},
		"format":     {"json"},
		"interval":   {"hilo"},
	}

	start := time.Now()
	body, err := c.get(ctx, c.baseURL+"?"+params.Encode())
	c.metrics.UpstreamDuration.WithLabelValues("tide").Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.UpstreamRequests.WithLabelValues("tide", "network_error").Inc()
		c.logger.Warn("tide fetch failed", "station_id", stationID, "error", err)
		return p
	}

	var resp predictionsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		c.metrics.UpstreamRequests.WithLabelValues("tide", "upstream_error").Inc()
		c.logger.Warn("tide response unreadable", "station_id", stationID, "error", err)
		return p
	}

	for _, pred := range resp.Predictions {
		event, ok := toEvent(pred)
		if !ok {
			continue
		}
		p.Events = append(p.Events, event)
	}

	c.metrics.UpstreamRequests.WithLabelValues("tide", "success").Inc()
	return p
}

// stationName resolves a human-readable station name via the MDAPI
// metadata endpoint, falling back to the raw id.
func (c *Client) stationName(ctx context.Context, stationID string) string {
	fallback := fmt.Sprintf("Station %s", stationID)
	if stationID == "" {
		return fallback
	}

	body, err := c.get(ctx, fmt.Sprintf("%s/%s.json", c.mdapiURL, url.PathEscape(stationID)))
	if err != nil {
		return fallback
	}

	var resp stationsResponse
	if err := json.Unmarshal(body, &resp); err != nil || len(resp.Stations) == 0 || resp.Stations[0].Name == "" {
		return fallback
	}
	return resp.Stations[0].Name
}

// get runs one request through the circuit breaker. Both CO-OPS endpoints
// share the breaker since they share an upstream.
func (c *Client) get(ctx context.Context, fullURL string) ([]byte, error) {
	body, err := c.breaker.Execute(func() (any, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("noaa API error: status %d", resp.StatusCode)
		}

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("read response: %w", err)
		}
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	return body.([]byte), nil
}

func toEvent(p prediction) (domain.TideEvent, bool) {
	t, err := time.ParseInLocation(predictionTimeLayout, p.Time, time.Local)
	if err != nil {
		return domain.TideEvent{}, false
	}

	var tideType domain.TideType
	switch p.Type {
	case "H":
		tideType = domain.TideHigh
	case "L":
		tideType = domain.TideLow
	default:
		return domain.TideEvent{}, false
	}

	height, _ := strconv.ParseFloat(p.Height, 64)
	return domain.TideEvent{Time: t, HeightFt: height, Type: tideType}, true
}

// CO-OPS API response types. Heights come back as strings.

type predictionsResponse struct {
	Predictions []prediction `json:"predictions"`
}

type prediction struct {
	Time   string `json:"t"`
	Height string `json:"v"`
	Type   string `json:"type"`
}

type stationsResponse struct {
	Stations []struct {
		Name string `json:"name"`
	} `json:"stations"`
}
