package domain

import (
	"fmt"
	"time"
)

// BundleStatus classifies the outcome of one forecast fetch.
type BundleStatus string

const (
	// BundleOK means the upstream service answered with usable data.
	BundleOK BundleStatus = "ok"
	// BundleUpstreamError means the service answered with a non-2xx status.
	BundleUpstreamError BundleStatus = "upstream_error"
	// BundleNetworkError means the service was unreachable within the timeout.
	BundleNetworkError BundleStatus = "network_error"
	// BundleConfigError means the station id or API token is not configured.
	// Rendered the same way as an upstream error.
	BundleConfigError BundleStatus = "config_error"
)

// CurrentConditions is the current-conditions block of a forecast response.
// Values are already in the requested unit system; the upstream API converts.
type CurrentConditions struct {
	Time             time.Time
	AirTemp          *float64
	FeelsLike        *float64
	WindAvg          *float64
	WindDirDeg       *float64
	Humidity         *float64
	UVIndex          *float64
	SeaLevelPressure *float64
	RainToday        *float64
	Conditions       string
	Icon             string
}

// HourlyEntry is one hour of forecast data.
type HourlyEntry struct {
	Time       time.Time
	AirTemp    *float64
	WindAvg    *float64
	WindDirDeg *float64
	Conditions string
	Icon       string
}

// DailyEntry is one day of forecast data.
type DailyEntry struct {
	DayStart   time.Time
	TempHigh   *float64
	TempLow    *float64
	PrecipProb int
	Conditions string
	Icon       string
}

// ForecastBundle is the result of one forecast fetch. Error statuses carry a
// human-readable Reason and empty hourly/daily sequences; callers render an
// error panel from it rather than handling a Go error.
type ForecastBundle struct {
	Status       BundleStatus
	Reason       string
	StationID    string
	LocationName string
	Units        Units
	FetchedAt    time.Time
	Current      CurrentConditions
	Hourly       []HourlyEntry
	Daily        []DailyEntry
}

// OK reports whether the bundle carries real forecast data.
func (b ForecastBundle) OK() bool { return b.Status == BundleOK }

// ContentHash identifies the bundle for render memoization. A bundle's
// content only changes when it is refetched, so station, status, and fetch
// time are sufficient.
func (b ForecastBundle) ContentHash() string {
	return shortHash(fmt.Sprintf("forecast|%s|%s|%s|%s|%d",
		b.StationID, b.Status, b.Reason, b.Units, b.FetchedAt.Unix()))
}
