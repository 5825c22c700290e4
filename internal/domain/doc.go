// Package domain models the data flowing through the Tempest overlay service:
// live station telemetry, fetched forecast and tide data, and the normalized
// render requests that drive overlay image generation.
//
// # Tempest UDP Broadcast
//
// WeatherFlow Tempest hubs broadcast JSON packets on UDP port 50222 to the
// local network. Every packet carries a "type" tag; only "obs_st" (a full
// station observation) is consumed here, all other tags (rapid_wind, hub
// status, device status) are ignored. An obs_st packet holds an "obs" array
// of positional numeric fields, any of which may be null:
//
//	[0]  epoch seconds          [8]  relative humidity %
//	[2]  wind avg m/s           [10] UV index
//	[4]  wind direction deg     [11] solar radiation W/m²
//	[6]  station pressure hPa   [12] rain last minute mm
//	[7]  air temperature °C     [13] precipitation type (0 none, 1 rain, 2 hail, 3 hail+rain)
//	[16] battery volts          [18] rain accumulated today mm
//
// Indices not listed are lull/gust/interval/lightning fields the overlay does
// not render.
//
// # Forecast Data
//
// Forecasts come from the WeatherFlow better_forecast REST endpoint, queried
// with the station id, an API token, and unit selectors so values arrive
// already converted. The response carries a current_conditions block and
// forecast.hourly / forecast.daily arrays with condition strings and icon
// codes ("clear-day", "possibly-rainy-night", ...).
//
// # Tide Data
//
// Tide extrema come from the NOAA CO-OPS predictions API
// (product=predictions, interval=hilo, datum=MLLW): an ordered list of
// (timestamp, water level, H|L) per station. Up to [MaxTideStations] stations
// are rendered side by side.
//
// # Fingerprints
//
// Every cacheable render is identified by a deterministic SHA-256 fingerprint
// of the normalized request parameters plus a content hash of the data
// snapshot. Identical inputs always produce the same fingerprint, which is
// what makes memoizing rendered bitmaps safe. See [RenderRequest.Fingerprint].
package domain
