package overlay

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nickdnj/TempestWeather/internal/domain"
)

func ptr(v float64) *float64 { return &v }
func iptr(v int) *int        { return &v }

func dayObservation() *domain.Observation {
	return &domain.Observation{
		Serial:     "ST-00012345",
		ObservedAt: time.Date(2023, 11, 14, 12, 0, 0, 0, time.Local),
		TempC:      ptr(18.2),
		WindAvgMS:  ptr(3.0),
		WindDirDeg: ptr(90),
		Humidity:   ptr(60),
		SolarWM2:   ptr(700),
	}
}

func okForecast() *domain.ForecastBundle {
	base := time.Date(2023, 11, 14, 9, 0, 0, 0, time.Local)
	b := &domain.ForecastBundle{
		Status:       domain.BundleOK,
		StationID:    "12345",
		LocationName: "Monmouth Beach, NJ",
		Units:        domain.UnitsImperial,
		FetchedAt:    base,
		Current: domain.CurrentConditions{
			Time:             base,
			AirTemp:          ptr(62),
			FeelsLike:        ptr(58),
			WindAvg:          ptr(5),
			WindDirDeg:       ptr(225),
			Humidity:         ptr(65),
			UVIndex:          ptr(4.2),
			SeaLevelPressure: ptr(30.12),
			RainToday:        ptr(0.25),
			Conditions:       "Partly Cloudy",
			Icon:             "partly-cloudy-day",
		},
	}
	for i := 0; i < 6; i++ {
		b.Hourly = append(b.Hourly, domain.HourlyEntry{
			Time:       base.Add(time.Duration(i) * time.Hour),
			AirTemp:    ptr(62 - float64(i)),
			WindAvg:    ptr(9),
			WindDirDeg: ptr(225),
			Icon:       "partly-cloudy-day",
		})
	}
	for i := 0; i < 6; i++ {
		b.Daily = append(b.Daily, domain.DailyEntry{
			DayStart:   base.AddDate(0, 0, i),
			TempHigh:   ptr(64 - float64(i)),
			TempLow:    ptr(51 - float64(i)),
			PrecipProb: 20,
			Conditions: "Partly Cloudy",
			Icon:       "partly-cloudy-day",
		})
	}
	return b
}

// textOps flattens the text content of a display list for assertions.
func textOps(list DisplayList) []string {
	var out []string
	for _, op := range list.Ops {
		if t, ok := op.(TextOp); ok {
			out = append(out, t.Text)
		}
	}
	return out
}

func iconOps(list DisplayList) []string {
	var out []string
	for _, op := range list.Ops {
		if i, ok := op.(IconOp); ok {
			out = append(out, i.Name)
		}
	}
	return out
}

func TestBuildLayout_Deterministic(t *testing.T) {
	req := domain.RenderRequest{
		Kind: domain.KindFiveDay, Width: 1280, Height: 240,
		Theme: domain.ThemeDark, Units: domain.UnitsImperial,
		Snapshot: domain.Snapshot{Forecast: okForecast()},
	}

	a, err := BuildLayout(req)
	require.NoError(t, err)
	b, err := BuildLayout(req)
	require.NoError(t, err)

	assert.Equal(t, a, b, "identical request content must yield identical instructions")
}

func TestBuildLayout_UnknownKind(t *testing.T) {
	_, err := BuildLayout(domain.RenderRequest{Kind: "sprinkles", Width: 1280, Height: 240})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnknownOverlay)
}

func TestBuildLayout_ClampsDimensions(t *testing.T) {
	list, err := BuildLayout(domain.RenderRequest{Kind: domain.KindCurrent, Width: 1, Height: 1})
	require.NoError(t, err)
	assert.Equal(t, domain.MinWidth, list.Width)
	assert.Equal(t, domain.MinHeight, list.Height)

	list, err = BuildLayout(domain.RenderRequest{Kind: domain.KindCurrent, Width: 99999, Height: 99999})
	require.NoError(t, err)
	assert.Equal(t, domain.MaxWidth, list.Width)
	assert.Equal(t, domain.MaxHeight, list.Height)
}

func TestBuildLayout_CurrentWaiting(t *testing.T) {
	list, err := BuildLayout(domain.RenderRequest{
		Kind: domain.KindCurrent, Width: 1280, Height: 240,
	})
	require.NoError(t, err)

	texts := textOps(list)
	assert.Contains(t, texts, "Current Conditions")
	assert.Contains(t, texts, "Waiting for data…")
	assert.Empty(t, iconOps(list), "the waiting panel carries no sensor-derived icons")
}

func TestBuildLayout_CurrentConditions(t *testing.T) {
	list, err := BuildLayout(domain.RenderRequest{
		Kind: domain.KindCurrent, Width: 1280, Height: 240,
		Units:    domain.UnitsImperial,
		Snapshot: domain.Snapshot{Observation: dayObservation()},
	})
	require.NoError(t, err)

	texts := textOps(list)
	assert.Contains(t, texts, "65°F")
	assert.Contains(t, texts, "7 mph E")
	assert.Contains(t, texts, "60%")

	icons := iconOps(list)
	assert.Contains(t, icons, "clear", "bright solar reading classifies as clear sky")
	assert.Contains(t, icons, "wind")
	assert.Contains(t, icons, "humidity")
}

func TestBuildLayout_CurrentMetric(t *testing.T) {
	list, err := BuildLayout(domain.RenderRequest{
		Kind: domain.KindCurrent, Width: 1280, Height: 240,
		Units:    domain.UnitsMetric,
		Snapshot: domain.Snapshot{Observation: dayObservation()},
	})
	require.NoError(t, err)

	texts := textOps(list)
	assert.Contains(t, texts, "18°C")
	assert.Contains(t, texts, "11 km/h E")
}

func TestBuildLayout_CurrentMissingSensors(t *testing.T) {
	obs := &domain.Observation{ObservedAt: time.Date(2023, 11, 14, 12, 0, 0, 0, time.Local)}
	list, err := BuildLayout(domain.RenderRequest{
		Kind: domain.KindCurrent, Width: 1280, Height: 240,
		Snapshot: domain.Snapshot{Observation: obs},
	})
	require.NoError(t, err)

	// All three readings render the absent marker, never a zero value.
	count := 0
	for _, text := range textOps(list) {
		if text == "--" {
			count++
		}
	}
	assert.Equal(t, 3, count)
}

func TestBuildLayout_ForecastErrorPanel(t *testing.T) {
	bundle := &domain.ForecastBundle{
		Status: domain.BundleUpstreamError,
		Reason: "forecast service error: 503",
	}

	for _, kind := range []domain.OverlayKind{domain.KindExpanded, domain.KindHourly, domain.KindDaily, domain.KindFiveDay} {
		list, err := BuildLayout(domain.RenderRequest{
			Kind: kind, Width: 1280, Height: 240,
			Snapshot: domain.Snapshot{Forecast: bundle},
		})
		require.NoError(t, err)
		assert.Equal(t, 1280, list.Width)
		assert.Equal(t, 240, list.Height)
		assert.Contains(t, textOps(list), "forecast service error: 503")
	}
}

func TestBuildLayout_ForecastWaiting(t *testing.T) {
	list, err := BuildLayout(domain.RenderRequest{
		Kind: domain.KindHourly, Width: 1280, Height: 240,
	})
	require.NoError(t, err)
	assert.Contains(t, textOps(list), "Waiting for data…")
}

func TestBuildLayout_ExpandedGrid(t *testing.T) {
	list, err := BuildLayout(domain.RenderRequest{
		Kind: domain.KindExpanded, Width: 1280, Height: 240,
		Snapshot: domain.Snapshot{Forecast: okForecast()},
	})
	require.NoError(t, err)

	texts := textOps(list)
	assert.Contains(t, texts, "Current Conditions")
	for _, label := range []string{"Wind", "Humidity", "Feels Like", "UV Index", "Pressure", "Rain Today"} {
		assert.Contains(t, texts, label)
	}

	assert.Contains(t, texts, "62°F")
	assert.Contains(t, texts, "Partly Cloudy")
	assert.Contains(t, texts, "5 mph SW")
	assert.Contains(t, texts, "65%")
	assert.Contains(t, texts, "58°F")
	assert.Contains(t, texts, "4.2")
	assert.Contains(t, texts, "30.12 inHg →", "normal-band pressure reads steady")
	assert.Contains(t, texts, "0.25 in")

	icons := iconOps(list)
	assert.Contains(t, icons, "partly-cloudy-day")
	assert.Contains(t, icons, "wind")
	assert.Contains(t, icons, "humidity")

	last := texts[len(texts)-1]
	assert.Contains(t, last, "Monmouth Beach, NJ (Station 12345)")
}

func TestBuildLayout_ExpandedMetricUnits(t *testing.T) {
	b := okForecast()
	b.Units = domain.UnitsMetric
	b.Current.AirTemp = ptr(17)
	b.Current.SeaLevelPressure = ptr(1026)
	b.Current.RainToday = ptr(3.2)

	list, err := BuildLayout(domain.RenderRequest{
		Kind: domain.KindExpanded, Width: 1280, Height: 240,
		Units:    domain.UnitsMetric,
		Snapshot: domain.Snapshot{Forecast: b},
	})
	require.NoError(t, err)

	texts := textOps(list)
	assert.Contains(t, texts, "17°C")
	assert.Contains(t, texts, "1026 mb ↑", "1026 mb sits above the high-pressure band")
	assert.Contains(t, texts, "3.20 mm")
}

func TestBuildLayout_ExpandedMissingSensors(t *testing.T) {
	b := okForecast()
	b.Current = domain.CurrentConditions{Time: b.Current.Time, Icon: "partly-cloudy-day"}

	list, err := BuildLayout(domain.RenderRequest{
		Kind: domain.KindExpanded, Width: 1280, Height: 240,
		Snapshot: domain.Snapshot{Forecast: b},
	})
	require.NoError(t, err)

	texts := textOps(list)
	assert.Contains(t, texts, "Partly Cloudy Day", "conditions text falls back to the icon token")
	dashes := 0
	for _, s := range texts {
		if s == "--" {
			dashes++
		}
	}
	assert.Equal(t, 7, dashes, "temperature plus every grid cell shows a placeholder")
}

func TestBuildLayout_ExpandedWaiting(t *testing.T) {
	list, err := BuildLayout(domain.RenderRequest{
		Kind: domain.KindExpanded, Width: 1280, Height: 240,
	})
	require.NoError(t, err)

	texts := textOps(list)
	assert.Contains(t, texts, "Current Conditions")
	assert.Contains(t, texts, "Waiting for data…")
}

func TestBuildLayout_HourlyColumns(t *testing.T) {
	list, err := BuildLayout(domain.RenderRequest{
		Kind: domain.KindHourly, Width: 1280, Height: 240,
		Snapshot: domain.Snapshot{Forecast: okForecast()},
	})
	require.NoError(t, err)

	texts := textOps(list)
	assert.Contains(t, texts, "5-Hour Forecast")
	assert.Contains(t, texts, "9 AM")
	assert.Contains(t, texts, "62°F")
	assert.Contains(t, texts, "9 mph SW")
	assert.Len(t, iconOps(list), 5)

	// Credit line carries location, station, and the fetch timestamp.
	last := texts[len(texts)-1]
	assert.Contains(t, last, "Monmouth Beach, NJ (Station 12345)")
	assert.Contains(t, last, "Tempest Weather Network")
}

func TestBuildLayout_HourlyInsufficientData(t *testing.T) {
	b := okForecast()
	b.Hourly = b.Hourly[:3]

	list, err := BuildLayout(domain.RenderRequest{
		Kind: domain.KindHourly, Width: 1280, Height: 240,
		Snapshot: domain.Snapshot{Forecast: b},
	})
	require.NoError(t, err)
	assert.Contains(t, textOps(list), "Insufficient forecast data")
}

func TestBuildLayout_DailyStrip(t *testing.T) {
	list, err := BuildLayout(domain.RenderRequest{
		Kind: domain.KindDaily, Width: 1280, Height: 240,
		Snapshot: domain.Snapshot{Forecast: okForecast()},
	})
	require.NoError(t, err)

	texts := textOps(list)
	assert.Contains(t, texts, "Today's Forecast")
	assert.Contains(t, texts, "64°F / 51°F")
	assert.Contains(t, texts, "Partly Cloudy")
	assert.Contains(t, texts, "Rain: 20%")
}

func TestBuildLayout_FiveDayLabels(t *testing.T) {
	list, err := BuildLayout(domain.RenderRequest{
		Kind: domain.KindFiveDay, Width: 1920, Height: 300,
		Snapshot: domain.Snapshot{Forecast: okForecast()},
	})
	require.NoError(t, err)

	texts := textOps(list)
	assert.Contains(t, texts, "Today")
	assert.Contains(t, texts, "Tomorrow")
	// Days past tomorrow read as weekday names.
	third := okForecast().Daily[2].DayStart.Format("Monday")
	assert.Contains(t, texts, third)
}

func TestBuildLayout_FiveDayAbbreviatesWhenNarrow(t *testing.T) {
	list, err := BuildLayout(domain.RenderRequest{
		Kind: domain.KindFiveDay, Width: 320, Height: 180,
		Snapshot: domain.Snapshot{Forecast: okForecast()},
	})
	require.NoError(t, err)

	texts := textOps(list)
	abbr := okForecast().Daily[2].DayStart.Format("Mon")
	assert.Contains(t, texts, abbr, "narrow columns abbreviate instead of shrinking below the floor")
}

func TestBuildLayout_TideColumns(t *testing.T) {
	fetched := time.Date(2023, 11, 14, 9, 0, 0, 0, time.Local)
	tides := []domain.TidePrediction{
		{
			StationID: "8531680", StationName: "Sandy Hook", FetchedAt: fetched,
			Events: []domain.TideEvent{
				{Time: fetched.Add(-2 * time.Hour), HeightFt: 4.5, Type: domain.TideHigh},
				{Time: fetched.Add(90 * time.Minute), HeightFt: 0.3, Type: domain.TideLow},
			},
		},
		{StationID: "8530186", StationName: "Keyport", FetchedAt: fetched},
	}

	list, err := BuildLayout(domain.RenderRequest{
		Kind: domain.KindTide, Width: 1280, Height: 240,
		Snapshot: domain.Snapshot{Tides: tides},
	})
	require.NoError(t, err)

	texts := textOps(list)
	assert.Contains(t, texts, "Sandy Hook")
	assert.Contains(t, texts, "Low tide", "past events are skipped for the next extremum")
	assert.Contains(t, texts, "10:30 AM")
	assert.Contains(t, texts, "Keyport")
	assert.Contains(t, texts, "No data")

	icons := iconOps(list)
	assert.Contains(t, icons, "low_tide")
	assert.Contains(t, icons, "unknown")
}

func TestBuildLayout_TideNoStations(t *testing.T) {
	list, err := BuildLayout(domain.RenderRequest{
		Kind: domain.KindTide, Width: 1280, Height: 240,
	})
	require.NoError(t, err)
	assert.Contains(t, textOps(list), "No stations specified")
}

func TestBuildLayout_BackgroundFirst(t *testing.T) {
	list, err := BuildLayout(domain.RenderRequest{
		Kind: domain.KindCurrent, Width: 1280, Height: 240,
		Theme:    domain.ThemeLight,
		Snapshot: domain.Snapshot{Observation: dayObservation()},
	})
	require.NoError(t, err)

	require.NotEmpty(t, list.Ops)
	bg, ok := list.Ops[0].(RectOp)
	require.True(t, ok, "first instruction is the backing panel")
	assert.Equal(t, themeStyles[domain.ThemeLight].Background, bg.Color)
	assert.Equal(t, float64(1280), bg.W)
	assert.Equal(t, float64(240), bg.H)
}
