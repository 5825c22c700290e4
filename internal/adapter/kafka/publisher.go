package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/nickdnj/TempestWeather/internal/domain"
)

// messageWriter is the slice of kafka-go's Writer the publisher needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Publisher forwards decoded station observations to a Kafka topic for
// archival. It implements station.Publisher.
type Publisher struct {
	writer messageWriter
	logger *slog.Logger
}

// NewPublisher creates a Kafka producer for the observation topic.
func NewPublisher(brokers []string, topic string, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireOne,
	}
	return &Publisher{writer: w, logger: logger}
}

// Publish serializes one observation and writes it keyed by station serial,
// so each station's readings stay ordered within a partition.
func (p *Publisher) Publish(ctx context.Context, obs domain.Observation) error {
	msg, err := serializeToMessage(obs)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish observation: %w", err)
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

func serializeToMessage(obs domain.Observation) (kafkago.Message, error) {
	data, err := json.Marshal(toWire(obs))
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize observation: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(obs.Serial),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "observed_at", Value: []byte(obs.ObservedAt.Format(time.RFC3339))},
		},
	}, nil
}

// wireObservation is the published JSON shape. Absent sensor readings are
// serialized as nulls.
type wireObservation struct {
	Serial       string   `json:"serial_number"`
	ObservedAt   int64    `json:"observed_at"`
	TempC        *float64 `json:"air_temperature_c"`
	WindAvgMS    *float64 `json:"wind_avg_ms"`
	WindDirDeg   *float64 `json:"wind_direction_deg"`
	Humidity     *float64 `json:"relative_humidity"`
	PressureHPA  *float64 `json:"station_pressure_hpa"`
	RainRecentMM *float64 `json:"rain_last_minute_mm"`
	RainDayMM    *float64 `json:"rain_day_mm"`
	PrecipType   *int     `json:"precip_type"`
	SolarWM2     *float64 `json:"solar_radiation_wm2"`
	UVIndex      *float64 `json:"uv_index"`
	BatteryVolts *float64 `json:"battery_volts"`
}

func toWire(obs domain.Observation) wireObservation {
	return wireObservation{
		Serial:       obs.Serial,
		ObservedAt:   obs.ObservedAt.Unix(),
		TempC:        obs.TempC,
		WindAvgMS:    obs.WindAvgMS,
		WindDirDeg:   obs.WindDirDeg,
		Humidity:     obs.Humidity,
		PressureHPA:  obs.PressureHPA,
		RainRecentMM: obs.RainRecentMM,
		RainDayMM:    obs.RainDayMM,
		PrecipType:   obs.PrecipType,
		SolarWM2:     obs.SolarWM2,
		UVIndex:      obs.UVIndex,
		BatteryVolts: obs.BatteryVolts,
	}
}
