package overlay

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/nickdnj/TempestWeather/internal/domain"
)

// ObservationSource reads the latest live station reading.
type ObservationSource interface {
	Latest() (domain.Observation, bool)
}

// ForecastSource fetches forecast bundles, typically through a TTL cache.
type ForecastSource interface {
	Fetch(ctx context.Context, units domain.Units) domain.ForecastBundle
}

// TideSource fetches tide predictions per station.
type TideSource interface {
	Fetch(ctx context.Context, stationID string) domain.TidePrediction
}

// Params are the raw, unvalidated request parameters from the HTTP layer.
type Params struct {
	Kind     string
	Width    int
	Height   int
	Theme    string
	Units    string
	Stations []string
}

// Service assembles a data snapshot for a requested overlay and returns
// its rendered PNG via the fingerprint cache.
type Service struct {
	store    ObservationSource
	forecast ForecastSource
	tides    TideSource
	cache    *Cache
	renderer *Renderer

	defaultStations []string
	logger          *slog.Logger

	served atomic.Bool
}

// NewService wires the overlay request path together.
func NewService(store ObservationSource, forecast ForecastSource, tides TideSource, cache *Cache, renderer *Renderer, defaultStations []string, logger *slog.Logger) *Service {
	return &Service{
		store:           store,
		forecast:        forecast,
		tides:           tides,
		cache:           cache,
		renderer:        renderer,
		defaultStations: defaultStations,
		logger:          logger,
	}
}

// CheckReadiness reports healthy once the service has rendered at least one
// overlay backed by real data. Waiting and error panels do not count.
func (s *Service) CheckReadiness(_ context.Context) error {
	if !s.served.Load() {
		return errors.New("no overlay served from live data yet")
	}
	return nil
}

// Overlay returns PNG bytes for the requested overlay. Data problems are
// absorbed into the image; the only error returned for well-formed data is
// an unknown overlay kind.
func (s *Service) Overlay(ctx context.Context, p Params) ([]byte, error) {
	kind, err := domain.ParseOverlayKind(p.Kind)
	if err != nil {
		return nil, err
	}

	req := domain.RenderRequest{
		Kind:   kind,
		Width:  p.Width,
		Height: p.Height,
		Theme:  domain.Theme(p.Theme),
		Units:  domain.Units(p.Units),
	}.Normalized()
	req.Snapshot = s.snapshot(ctx, kind, req.Units, p.Stations)

	img, err := s.cache.GetOrRender(req.Fingerprint(), func() ([]byte, error) {
		list, err := BuildLayout(req)
		if err != nil {
			return nil, err
		}
		return s.renderer.Render(list)
	})
	if err != nil {
		return nil, err
	}

	if req.Snapshot.HasData() {
		s.served.Store(true)
	}
	return img, nil
}

// snapshot gathers exactly the data the requested kind renders from.
func (s *Service) snapshot(ctx context.Context, kind domain.OverlayKind, units domain.Units, stations []string) domain.Snapshot {
	var snap domain.Snapshot

	switch kind {
	case domain.KindCurrent:
		if obs, ok := s.store.Latest(); ok {
			snap.Observation = &obs
		}

	case domain.KindExpanded, domain.KindHourly, domain.KindDaily, domain.KindFiveDay:
		b := s.forecast.Fetch(ctx, units)
		snap.Forecast = &b

	case domain.KindTide:
		if len(stations) == 0 {
			stations = s.defaultStations
		}
		if len(stations) > domain.MaxTideStations {
			stations = stations[:domain.MaxTideStations]
		}
		for _, id := range stations {
			snap.Tides = append(snap.Tides, s.tides.Fetch(ctx, id))
		}
	}
	return snap
}
