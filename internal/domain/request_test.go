package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOverlayKind(t *testing.T) {
	for _, s := range []string{"current", "expanded", "hourly", "daily", "5day", "tide", " Tide ", "CURRENT"} {
		kind, err := ParseOverlayKind(s)
		require.NoError(t, err, s)
		assert.NotEmpty(t, kind)
	}

	_, err := ParseOverlayKind("radar")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownOverlay)

	_, err = ParseOverlayKind("")
	assert.ErrorIs(t, err, ErrUnknownOverlay)
}

func TestRenderRequestNormalized(t *testing.T) {
	t.Run("clamps dimensions", func(t *testing.T) {
		tests := []struct {
			w, h         int
			wantW, wantH int
		}{
			{0, 0, MinWidth, MinHeight},
			{-100, 50, MinWidth, MinHeight},
			{10000, 9000, MaxWidth, MaxHeight},
			{1280, 240, 1280, 240},
			{MinWidth, MaxHeight, MinWidth, MaxHeight},
		}
		for _, tc := range tests {
			r := RenderRequest{Kind: KindCurrent, Width: tc.w, Height: tc.h}.Normalized()
			assert.Equal(t, tc.wantW, r.Width, "width for %dx%d", tc.w, tc.h)
			assert.Equal(t, tc.wantH, r.Height, "height for %dx%d", tc.w, tc.h)
			assert.Positive(t, r.Width)
			assert.Positive(t, r.Height)
		}
	})

	t.Run("defaults theme and units", func(t *testing.T) {
		r := RenderRequest{Kind: KindCurrent, Theme: "sepia", Units: "nautical"}.Normalized()
		assert.Equal(t, ThemeDark, r.Theme)
		assert.Equal(t, UnitsImperial, r.Units)

		r = RenderRequest{Kind: KindCurrent, Theme: ThemeLight, Units: UnitsMetric}.Normalized()
		assert.Equal(t, ThemeLight, r.Theme)
		assert.Equal(t, UnitsMetric, r.Units)
	})
}

func TestSnapshotHasData(t *testing.T) {
	assert.False(t, Snapshot{}.HasData())

	temp := 18.0
	assert.True(t, Snapshot{Observation: &Observation{TempC: &temp}}.HasData())

	assert.False(t, Snapshot{Forecast: &ForecastBundle{Status: BundleNetworkError}}.HasData())
	assert.True(t, Snapshot{Forecast: &ForecastBundle{Status: BundleOK}}.HasData())

	assert.False(t, Snapshot{Tides: []TidePrediction{{StationID: "8531680"}}}.HasData())
	assert.True(t, Snapshot{Tides: []TidePrediction{{StationID: "8531680", Events: []TideEvent{{}}}}}.HasData())
}

func TestFingerprint(t *testing.T) {
	temp := 21.5
	obs := &Observation{ObservedAt: time.Unix(1700000000, 0).UTC(), TempC: &temp}

	base := RenderRequest{
		Kind: KindCurrent, Width: 1280, Height: 240,
		Theme: ThemeDark, Units: UnitsImperial,
		Snapshot: Snapshot{Observation: obs},
	}.Normalized()

	t.Run("deterministic", func(t *testing.T) {
		assert.Equal(t, base.Fingerprint(), base.Fingerprint())
	})

	t.Run("varies with parameters", func(t *testing.T) {
		wider := base
		wider.Width = 1920
		assert.NotEqual(t, base.Fingerprint(), wider.Fingerprint())

		metric := base
		metric.Units = UnitsMetric
		assert.NotEqual(t, base.Fingerprint(), metric.Fingerprint())

		light := base
		light.Theme = ThemeLight
		assert.NotEqual(t, base.Fingerprint(), light.Fingerprint())
	})

	t.Run("varies with snapshot content", func(t *testing.T) {
		warmer := 25.0
		other := base
		otherObs := *obs
		otherObs.TempC = &warmer
		other.Snapshot = Snapshot{Observation: &otherObs}
		assert.NotEqual(t, base.Fingerprint(), other.Fingerprint())
	})

	t.Run("absent data still fingerprints", func(t *testing.T) {
		empty := RenderRequest{Kind: KindCurrent, Width: 1280, Height: 240}.Normalized()
		assert.NotEmpty(t, empty.Fingerprint())
		assert.NotEqual(t, base.Fingerprint(), empty.Fingerprint())
	})
}

func TestTidePredictionNextEvent(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	pred := TidePrediction{
		StationID: "8531680",
		Events: []TideEvent{
			{Time: now.Add(-4 * time.Hour), HeightFt: 4.8, Type: TideHigh},
			{Time: now.Add(2 * time.Hour), HeightFt: 0.3, Type: TideLow},
			{Time: now.Add(8 * time.Hour), HeightFt: 5.1, Type: TideHigh},
		},
	}

	next, ok := pred.NextEvent(now)
	require.True(t, ok)
	assert.Equal(t, TideLow, next.Type)
	assert.Equal(t, now.Add(2*time.Hour), next.Time)

	_, ok = pred.NextEvent(now.Add(24 * time.Hour))
	assert.False(t, ok)

	_, ok = TidePrediction{}.NextEvent(now)
	assert.False(t, ok)
}
