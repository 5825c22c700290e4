package domain

// HPAToInHg converts station pressure from hectopascals to inches of mercury.
func HPAToInHg(hpa float64) float64 { return hpa * 0.02953 }

// MBToInHg converts millibars to inches of mercury. Millibars and
// hectopascals are the same magnitude.
func MBToInHg(mb float64) float64 { return mb * 0.02953 }

// Barometric bands in inHg. Below the low band a front is usually inbound;
// above the high band the air mass is stable.
const (
	pressureLowInHg  = 29.80
	pressureHighInHg = 30.20
)

// PressureTrend classifies a barometric reading for display. Rating follows
// fish feeding behavior: falling pressure ahead of weather is the best bite,
// high stable pressure the worst.
type PressureTrend struct {
	Trend  string // "Falling", "Rising", "Steady", "Low", "High", "Unknown"
	Arrow  string // "↓", "↑", "→", "?"
	Rating string // "Excellent", "Good", "Fair", "Unknown"
}

// AnalyzePressure classifies a single reading in inHg by its absolute band.
func AnalyzePressure(inHg *float64) PressureTrend {
	if inHg == nil {
		return PressureTrend{Trend: "Unknown", Arrow: "?", Rating: "Unknown"}
	}
	switch {
	case *inHg < pressureLowInHg:
		return PressureTrend{Trend: "Low", Arrow: "↓", Rating: "Good"}
	case *inHg > pressureHighInHg:
		return PressureTrend{Trend: "High", Arrow: "↑", Rating: "Fair"}
	default:
		return PressureTrend{Trend: "Steady", Arrow: "→", Rating: "Good"}
	}
}

// AnalyzePressureChange classifies the movement between two readings in
// inHg, ideally about three hours apart. Changes within 0.02 inHg count as
// steady.
func AnalyzePressureChange(current, previous float64) PressureTrend {
	change := current - previous
	switch {
	case change < -0.02:
		return PressureTrend{Trend: "Falling", Arrow: "↓", Rating: "Excellent"}
	case change > 0.02:
		if current > pressureHighInHg {
			return PressureTrend{Trend: "Rising", Arrow: "↑", Rating: "Fair"}
		}
		return PressureTrend{Trend: "Rising", Arrow: "↑", Rating: "Good"}
	default:
		if current > pressureHighInHg {
			return PressureTrend{Trend: "Steady", Arrow: "→", Rating: "Fair"}
		}
		return PressureTrend{Trend: "Steady", Arrow: "→", Rating: "Good"}
	}
}
