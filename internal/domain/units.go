package domain

// Unit conversions for raw sensor values, which always arrive in SI units
// (°C, m/s). Conversion happens once, at layout time; the renderer never
// sees anything but preformatted strings.

// CToF converts Celsius to Fahrenheit.
func CToF(c float64) float64 { return c*9/5 + 32 }

// FToC converts Fahrenheit to Celsius.
func FToC(f float64) float64 { return (f - 32) * 5 / 9 }

// MSToMPH converts meters per second to miles per hour.
func MSToMPH(ms float64) float64 { return ms * 2.23694 }

// MSToKMH converts meters per second to kilometers per hour.
func MSToKMH(ms float64) float64 { return ms * 3.6 }

var compassSectors = [16]string{
	"N", "NNE", "NE", "ENE",
	"E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW",
	"W", "WNW", "NW", "NNW",
}

// Compass maps a bearing in degrees onto one of 16 compass sectors.
func Compass(degrees float64) string {
	idx := int((degrees+11.25)/22.5) % 16
	if idx < 0 {
		idx += 16
	}
	return compassSectors[idx]
}
