package tempest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/sony/gobreaker"

	"github.com/nickdnj/TempestWeather/internal/domain"
	"github.com/nickdnj/TempestWeather/internal/observability"
)

var (
	errUpstreamStatus = errors.New("upstream status")
	errServerError    = errors.New("server error")
)

// Client fetches forecasts from the WeatherFlow better_forecast endpoint.
// Fetch always returns a bundle; data problems are reported through the
// bundle status, never as a Go error.
type Client struct {
	token         string
	stationID     string
	locationState string
	baseURL       string
	httpClient    *http.Client
	breaker       *gobreaker.CircuitBreaker
	clock         clockwork.Clock
	logger        *slog.Logger
	metrics       *observability.Metrics
}

// NewClient creates a forecast client for one station.
func NewClient(token, stationID, locationState string, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Client {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "tempest-forecast",
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &Client{
		token:         token,
		stationID:     stationID,
		locationState: locationState,
		baseURL:       "https://swd.weatherflow.com/swd/rest/better_forecast",
		httpClient: &http.Client{
			Timeout: timeout,
		},
		breaker: cb,
		clock:   clockwork.NewRealClock(),
		logger:  logger,
		metrics: metrics,
	}
}

// SetClock replaces the client's time source. Call before use.
func (c *Client) SetClock(clock clockwork.Clock) {
	c.clock = clock
}

// Fetch requests a full forecast in the given unit system.
func (c *Client) Fetch(ctx context.Context, units domain.Units) domain.ForecastBundle {
	if c.token == "" || c.stationID == "" {
		c.metrics.UpstreamRequests.WithLabelValues("forecast", "config_error").Inc()
		return c.errorBundle(units, domain.BundleConfigError, "station id or API token not configured")
	}

	params := url.Values{
		"station_id": {c.stationID},
		"token":      {c.token},
	}
	if units == domain.UnitsMetric {
		params.Set("units_temp", "c")
		params.Set("units_wind", "kph")
		params.Set("units_pressure", "mb")
		params.Set("units_precip", "mm")
		params.Set("units_distance", "km")
	} else {
		params.Set("units_temp", "f")
		params.Set("units_wind", "mph")
		params.Set("units_pressure", "inhg")
		params.Set("units_precip", "in")
		params.Set("units_distance", "mi")
	}

	start := time.Now()
	body, err := c.doRequest(ctx, c.baseURL+"?"+params.Encode())
	c.metrics.UpstreamDuration.WithLabelValues("forecast").Observe(time.Since(start).Seconds())

	if err != nil {
		status, reason := classifyFetchError(err)
		c.metrics.UpstreamRequests.WithLabelValues("forecast", string(status)).Inc()
		c.logger.Warn("forecast fetch failed", "station_id", c.stationID, "status", status, "error", err)
		return c.errorBundle(units, status, reason)
	}

	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		c.metrics.UpstreamRequests.WithLabelValues("forecast", string(domain.BundleUpstreamError)).Inc()
		c.logger.Warn("forecast response unreadable", "station_id", c.stationID, "error", err)
		return c.errorBundle(units, domain.BundleUpstreamError, "unreadable forecast response")
	}

	c.metrics.UpstreamRequests.WithLabelValues("forecast", "success").Inc()
	return c.toBundle(resp, units)
}

func (c *Client) doRequest(ctx context.Context, fullURL string) ([]byte, error) {
	result, err := c.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 {
			return nil, fmt.Errorf("%w: %d", errServerError, resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("%w: %d", errUpstreamStatus, resp.StatusCode)
		}

		return io.ReadAll(resp.Body)
	})
	if err != nil {
		return nil, err
	}
	return result.([]byte), nil
}

// classifyFetchError maps a request failure to a bundle status. Non-2xx
// answers are upstream errors; everything else, including an open breaker,
// counts as the network being unavailable.
func classifyFetchError(err error) (domain.BundleStatus, string) {
	switch {
	case errors.Is(err, errUpstreamStatus), errors.Is(err, errServerError):
		return domain.BundleUpstreamError, fmt.Sprintf("forecast service error: %v", err)
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return domain.BundleNetworkError, "forecast service unavailable"
	default:
		return domain.BundleNetworkError, "forecast service unreachable"
	}
}

func (c *Client) errorBundle(units domain.Units, status domain.BundleStatus, reason string) domain.ForecastBundle {
	return domain.ForecastBundle{
		Status:    status,
		Reason:    reason,
		StationID: c.stationID,
		Units:     units,
		FetchedAt: c.clock.Now(),
	}
}

func (c *Client) toBundle(resp apiResponse, units domain.Units) domain.ForecastBundle {
	b := domain.ForecastBundle{
		Status:       domain.BundleOK,
		StationID:    c.stationID,
		LocationName: c.formatLocation(resp.LocationName),
		Units:        units,
		FetchedAt:    c.clock.Now(),
		Current: domain.CurrentConditions{
			Time:             time.Unix(resp.CurrentConditions.Time, 0),
			AirTemp:          resp.CurrentConditions.AirTemperature,
			FeelsLike:        resp.CurrentConditions.FeelsLike,
			WindAvg:          resp.CurrentConditions.WindAvg,
			WindDirDeg:       resp.CurrentConditions.WindDirection,
			Humidity:         resp.CurrentConditions.RelativeHumidity,
			UVIndex:          resp.CurrentConditions.UV,
			SeaLevelPressure: resp.CurrentConditions.SeaLevelPressure,
			RainToday:        resp.CurrentConditions.PrecipAccumLocalDay,
			Conditions:       resp.CurrentConditions.Conditions,
			Icon:             resp.CurrentConditions.Icon,
		},
	}

	for _, h := range resp.Forecast.Hourly {
		b.Hourly = append(b.Hourly, domain.HourlyEntry{
			Time:       time.Unix(h.Time, 0),
			AirTemp:    h.AirTemperature,
			WindAvg:    h.WindAvg,
			WindDirDeg: h.WindDirection,
			Conditions: h.Conditions,
			Icon:       h.Icon,
		})
	}
	for _, d := range resp.Forecast.Daily {
		b.Daily = append(b.Daily, domain.DailyEntry{
			DayStart:   time.Unix(d.DayStartLocal, 0),
			TempHigh:   d.AirTempHigh,
			TempLow:    d.AirTempLow,
			PrecipProb: d.PrecipProbability,
			Conditions: d.Conditions,
			Icon:       d.Icon,
		})
	}
	return b
}

// formatLocation appends the configured state abbreviation, e.g.
// "Monmouth Beach" becomes "Monmouth Beach, NJ".
func (c *Client) formatLocation(name string) string {
	if name == "" || c.locationState == "" {
		return name
	}
	return fmt.Sprintf("%s, %s", name, c.locationState)
}

// WeatherFlow better_forecast response types.

type apiResponse struct {
	LocationName      string     `json:"location_name"`
	CurrentConditions apiCurrent `json:"current_conditions"`
	Forecast          struct {
		Hourly []apiHourly `json:"hourly"`
		Daily  []apiDaily  `json:"daily"`
	} `json:"forecast"`
}

type apiCurrent struct {
	Time                int64    `json:"time"`
	AirTemperature      *float64 `json:"air_temperature"`
	FeelsLike           *float64 `json:"feels_like"`
	WindAvg             *float64 `json:"wind_avg"`
	WindDirection       *float64 `json:"wind_direction"`
	RelativeHumidity    *float64 `json:"relative_humidity"`
	UV                  *float64 `json:"uv"`
	SeaLevelPressure    *float64 `json:"sea_level_pressure"`
	PrecipAccumLocalDay *float64 `json:"precip_accum_local_day"`
	Conditions          string   `json:"conditions"`
	Icon                string   `json:"icon"`
}

type apiHourly struct {
	Time           int64    `json:"time"`
	AirTemperature *float64 `json:"air_temperature"`
	WindAvg        *float64 `json:"wind_avg"`
	WindDirection  *float64 `json:"wind_direction"`
	Conditions     string   `json:"conditions"`
	Icon           string   `json:"icon"`
}

type apiDaily struct {
	DayStartLocal     int64    `json:"day_start_local"`
	AirTempHigh       *float64 `json:"air_temp_high"`
	AirTempLow        *float64 `json:"air_temp_low"`
	PrecipProbability int      `json:"precip_probability"`
	Conditions        string   `json:"conditions"`
	Icon              string   `json:"icon"`
}
