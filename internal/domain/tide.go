package domain

import (
	"fmt"
	"strings"
	"time"
)

// MaxTideStations bounds how many stations one tide overlay renders.
const MaxTideStations = 4

// TideType distinguishes high and low water extrema.
type TideType string

const (
	TideHigh TideType = "high"
	TideLow  TideType = "low"
)

// TideEvent is one predicted extremum at a station.
type TideEvent struct {
	Time     time.Time
	HeightFt float64
	Type     TideType
}

// TidePrediction holds the predicted extrema for one monitored station.
// A prediction with no events renders as "No data" for that station.
type TidePrediction struct {
	StationID   string
	StationName string
	FetchedAt   time.Time
	Events      []TideEvent
}

// NextEvent returns the first extremum after now, or ok=false when the
// prediction has none left.
func (p TidePrediction) NextEvent(now time.Time) (TideEvent, bool) {
	for _, e := range p.Events {
		if e.Time.After(now) {
			return e, true
		}
	}
	return TideEvent{}, false
}

// ContentHash identifies the prediction for render memoization.
func (p TidePrediction) ContentHash() string {
	var b strings.Builder
	fmt.Fprintf(&b, "tide|%s|%d", p.StationID, p.FetchedAt.Unix())
	for _, e := range p.Events {
		fmt.Fprintf(&b, "|%d,%g,%s", e.Time.Unix(), e.HeightFt, e.Type)
	}
	return shortHash(b.String())
}
