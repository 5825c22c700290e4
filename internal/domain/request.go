package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownOverlay marks a request for an overlay kind the service does not
// render. It is the only data-path error that crosses the core boundary; the
// HTTP layer maps it to a 400.
var ErrUnknownOverlay = errors.New("unknown overlay kind")

// OverlayKind selects which overlay layout to render.
type OverlayKind string

const (
	KindCurrent  OverlayKind = "current"
	KindExpanded OverlayKind = "expanded"
	KindHourly   OverlayKind = "hourly"
	KindDaily    OverlayKind = "daily"
	KindFiveDay  OverlayKind = "5day"
	KindTide     OverlayKind = "tide"
)

// ParseOverlayKind validates a request's kind parameter.
func ParseOverlayKind(s string) (OverlayKind, error) {
	switch k := OverlayKind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindCurrent, KindExpanded, KindHourly, KindDaily, KindFiveDay, KindTide:
		return k, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownOverlay, s)
	}
}

// Theme selects the overlay color preset.
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// Units selects the display unit system.
type Units string

const (
	UnitsImperial Units = "imperial"
	UnitsMetric   Units = "metric"
)

// Overlay dimension bounds. Out-of-range requests are clamped, never rejected.
const (
	MinWidth  = 160
	MaxWidth  = 3840
	MinHeight = 90
	MaxHeight = 2160
)

// Snapshot is the data an overlay renders from. Exactly the fields relevant
// to the requested kind are populated; a nil Observation or Forecast means
// "no data yet" and produces a waiting/error layout.
type Snapshot struct {
	Observation *Observation
	Forecast    *ForecastBundle
	Tides       []TidePrediction
}

// ContentHash combines the hashes of whichever snapshot parts are present.
func (s Snapshot) ContentHash() string {
	var b strings.Builder
	if s.Observation != nil {
		b.WriteString(s.Observation.ContentHash())
	}
	b.WriteByte('|')
	if s.Forecast != nil {
		b.WriteString(s.Forecast.ContentHash())
	}
	for _, t := range s.Tides {
		b.WriteByte('|')
		b.WriteString(t.ContentHash())
	}
	return shortHash(b.String())
}

// HasData reports whether the snapshot carries any real upstream data, as
// opposed to producing only waiting or error panels.
func (s Snapshot) HasData() bool {
	if s.Observation != nil {
		return true
	}
	if s.Forecast != nil && s.Forecast.OK() {
		return true
	}
	for _, t := range s.Tides {
		if len(t.Events) > 0 {
			return true
		}
	}
	return false
}

// RenderRequest is the normalized input driving one render.
type RenderRequest struct {
	Kind     OverlayKind
	Width    int
	Height   int
	Theme    Theme
	Units    Units
	Snapshot Snapshot
}

// Normalized clamps dimensions to the documented bounds and defaults unknown
// theme/unit values. The kind is assumed already validated by
// [ParseOverlayKind].
func (r RenderRequest) Normalized() RenderRequest {
	r.Width = clampInt(r.Width, MinWidth, MaxWidth)
	r.Height = clampInt(r.Height, MinHeight, MaxHeight)
	if r.Theme != ThemeLight {
		r.Theme = ThemeDark
	}
	if r.Units != UnitsMetric {
		r.Units = UnitsImperial
	}
	return r
}

// Fingerprint is the deterministic cache key for this request: identical
// request content always yields an identical fingerprint.
func (r RenderRequest) Fingerprint() string {
	return shortHash(fmt.Sprintf("%s|%d|%d|%s|%s|%s",
		r.Kind, r.Width, r.Height, r.Theme, r.Units, r.Snapshot.ContentHash()))
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
