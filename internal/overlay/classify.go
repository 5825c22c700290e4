package overlay

import (
	"github.com/nickdnj/TempestWeather/internal/domain"
)

// precipIcons maps the station's precipitation type codes to icons.
var precipIcons = map[int]string{
	domain.PrecipRain:        "rain",
	domain.PrecipHail:        "snow",
	domain.PrecipHailAndRain: "thunderstorm",
}

// forecastIcons maps WeatherFlow forecast icon ids to local icon names.
var forecastIcons = map[string]string{
	"clear-day":                   "clear",
	"clear-night":                 "night",
	"cloudy":                      "clouds",
	"foggy":                       "fog",
	"partly-cloudy-day":           "clouds",
	"partly-cloudy-night":         "night",
	"possibly-rainy-day":          "drizzle",
	"possibly-rainy-night":        "drizzle",
	"possibly-sleet-day":          "snow",
	"possibly-sleet-night":        "snow",
	"possibly-snow-day":           "snow",
	"possibly-snow-night":         "snow",
	"possibly-thunderstorm-day":   "thunderstorm",
	"possibly-thunderstorm-night": "thunderstorm",
	"rainy":                       "rain",
	"sleet":                       "snow",
	"snow":                        "snow",
	"thunderstorm":                "thunderstorm",
	"windy":                       "wind",
}

// forecastIcon resolves an API icon id to a local icon, falling back to the
// unknown-condition glyph.
func forecastIcon(apiIcon string) string {
	if name, ok := forecastIcons[apiIcon]; ok {
		return name
	}
	return "unknown"
}

// conditionRule pairs a predicate with the icon it selects.
type conditionRule struct {
	match func(domain.Observation) bool
	icon  string
}

// conditionRules classify an observation into a sky-condition icon. Rules
// are evaluated in order and the first match wins: active precipitation
// beats everything, night beats wind, and so on down to the clear-sky
// default.
var conditionRules = []conditionRule{
	{
		match: func(o domain.Observation) bool {
			if o.PrecipType == nil {
				return false
			}
			_, ok := precipIcons[*o.PrecipType]
			return ok
		},
		icon: "", // resolved from precipIcons below
	},
	{match: isNight, icon: "night"},
	{
		match: func(o domain.Observation) bool {
			return o.WindAvgMS != nil && *o.WindAvgMS > 8
		},
		icon: "wind",
	},
	{
		match: func(o domain.Observation) bool {
			return o.Humidity != nil && *o.Humidity >= 95
		},
		icon: "mist",
	},
	{
		match: func(o domain.Observation) bool {
			return o.SolarWM2 != nil && *o.SolarWM2 >= 600
		},
		icon: "clear",
	},
	{
		match: func(o domain.Observation) bool {
			return o.Humidity != nil && *o.Humidity >= 75
		},
		icon: "clouds",
	},
}

// selectIcon picks the condition icon for a live observation. A nil
// observation has no known conditions.
func selectIcon(obs *domain.Observation) string {
	if obs == nil {
		return "unknown"
	}
	for _, rule := range conditionRules {
		if rule.match(*obs) {
			if rule.icon == "" {
				return precipIcons[*obs.PrecipType]
			}
			return rule.icon
		}
	}
	return "clear"
}

// isNight reports whether the observation was taken at night: the local
// hour is outside 06:00-20:00 and the light sensors agree (or the solar
// reading is missing entirely).
func isNight(o domain.Observation) bool {
	hour := o.ObservedAt.Local().Hour()
	if hour >= 6 && hour < 20 {
		return false
	}

	if o.SolarWM2 == nil {
		return true
	}
	lowLight := *o.SolarWM2 < 50
	if o.UVIndex != nil {
		lowLight = lowLight || *o.UVIndex < 0.2
	}
	return lowLight
}
