package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Precipitation type codes reported in obs_st index 13.
const (
	PrecipNone        = 0
	PrecipRain        = 1
	PrecipHail        = 2
	PrecipHailAndRain = 3
)

// Observation is one snapshot of live station telemetry, decoded from an
// obs_st broadcast packet. Optional fields are pointers because the UDP
// arrays carry nulls for sensors that did not report. An Observation is
// immutable once constructed.
type Observation struct {
	Serial       string
	ObservedAt   time.Time
	TempC        *float64
	WindAvgMS    *float64
	WindDirDeg   *float64
	Humidity     *float64
	PressureHPA  *float64
	RainRecentMM *float64
	RainDayMM    *float64
	PrecipType   *int
	SolarWM2     *float64
	UVIndex      *float64
	BatteryVolts *float64
}

// udpMessage is the envelope shared by all Tempest broadcast packets.
type udpMessage struct {
	Type   string       `json:"type"`
	Serial string       `json:"serial_number"`
	Obs    [][]*float64 `json:"obs"`
}

// DecodePacket decodes one UDP broadcast payload. It returns ok=false with a
// nil error for well-formed packets of a type the overlay does not consume,
// and an error only for payloads that are not valid packet JSON at all.
func DecodePacket(payload []byte) (Observation, bool, error) {
	var msg udpMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		return Observation{}, false, fmt.Errorf("decode packet: %w", err)
	}
	if msg.Type != "obs_st" || len(msg.Obs) == 0 {
		return Observation{}, false, nil
	}
	return parseObs(msg.Serial, msg.Obs[0]), true, nil
}

// parseObs maps the positional obs_st array onto an Observation. Fields past
// the end of a short array stay nil rather than failing the whole packet.
func parseObs(serial string, obs []*float64) Observation {
	at := func(i int) *float64 {
		if i >= len(obs) {
			return nil
		}
		return obs[i]
	}

	observedAt := clock.Now().UTC()
	if ts := at(0); ts != nil && *ts > 0 {
		observedAt = time.Unix(int64(*ts), 0).UTC()
	}

	var precipType *int
	if p := at(13); p != nil {
		v := int(*p)
		precipType = &v
	}

	return Observation{
		Serial:       serial,
		ObservedAt:   observedAt,
		WindAvgMS:    at(2),
		WindDirDeg:   at(4),
		PressureHPA:  at(6),
		TempC:        at(7),
		Humidity:     at(8),
		UVIndex:      at(10),
		SolarWM2:     at(11),
		RainRecentMM: at(12),
		PrecipType:   precipType,
		BatteryVolts: at(16),
		RainDayMM:    at(18),
	}
}

// ContentHash covers the timestamp and every rendered field, so two
// observations hash equal exactly when they would draw the same overlay.
func (o Observation) ContentHash() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s|%d", o.Serial, o.ObservedAt.Unix())
	for _, f := range []*float64{
		o.TempC, o.WindAvgMS, o.WindDirDeg, o.Humidity, o.PressureHPA,
		o.RainRecentMM, o.RainDayMM, o.SolarWM2, o.UVIndex, o.BatteryVolts,
	} {
		b.WriteByte('|')
		b.WriteString(floatToken(f))
	}
	b.WriteByte('|')
	if o.PrecipType != nil {
		fmt.Fprintf(&b, "%d", *o.PrecipType)
	}
	return shortHash(b.String())
}

func floatToken(f *float64) string {
	if f == nil {
		return ""
	}
	return fmt.Sprintf("%g", *f)
}

// shortHash produces a deterministic 16-hex-char digest of the input.
func shortHash(input string) string {
	sum := sha256.Sum256([]byte(input))
	return hex.EncodeToString(sum[:8])
}
