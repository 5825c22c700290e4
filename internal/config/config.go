package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Tempest station configuration.
	UDPBind       string
	UDPPort       int
	APIToken      string
	StationID     string
	LocationState string // optional "NJ"-style suffix for location names

	// Upstream fetch behavior.
	ForecastTimeout  time.Duration
	ForecastCacheTTL time.Duration
	PrefetchInterval time.Duration // 0 disables the forecast prefetcher
	TideTimeout      time.Duration
	TideCacheTTL     time.Duration
	TideStations     []string

	// Rendering.
	AssetRoot       string
	RenderCacheSize int

	// Optional observation publishing.
	KafkaBrokers  []string
	KafkaObsTopic string
	KafkaEnabled  bool
}

// Load reads configuration from the environment, applying defaults where
// unset. A .env file in the working directory is honored when present.
func Load() (*Config, error) {
	// Best effort; absent .env files are the normal case in containers.
	_ = godotenv.Load()

	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	forecastTimeout, err := parseDuration("FORECAST_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	forecastTTL, err := parseDuration("FORECAST_CACHE_TTL", "5m")
	if err != nil {
		return nil, err
	}
	prefetchInterval, err := parseDuration("PREFETCH_INTERVAL", "0s")
	if err != nil {
		return nil, err
	}
	tideTimeout, err := parseDuration("TIDE_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	tideTTL, err := parseDuration("TIDE_CACHE_TTL", "5m")
	if err != nil {
		return nil, err
	}

	brokers := splitCSV(os.Getenv("KAFKA_BROKERS"))
	kafkaEnabled := len(brokers) > 0
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":5050"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		UDPBind:       os.Getenv("TEMPEST_UDP_BIND"),
		UDPPort:       envInt("TEMPEST_UDP_PORT", 50222),
		APIToken:      os.Getenv("TEMPEST_API_KEY"),
		StationID:     os.Getenv("TEMPEST_STATION_ID"),
		LocationState: os.Getenv("TEMPEST_LOCATION_STATE"),

		ForecastTimeout:  forecastTimeout,
		ForecastCacheTTL: forecastTTL,
		PrefetchInterval: prefetchInterval,
		TideTimeout:      tideTimeout,
		TideCacheTTL:     tideTTL,
		TideStations:     splitCSV(os.Getenv("TIDE_STATIONS")),

		AssetRoot:       envOrDefault("ASSET_ROOT", "assets"),
		RenderCacheSize: envInt("RENDER_CACHE_SIZE", 256),

		KafkaBrokers:  brokers,
		KafkaObsTopic: envOrDefault("KAFKA_OBS_TOPIC", "tempest-observations"),
		KafkaEnabled:  kafkaEnabled,
	}

	if cfg.UDPPort <= 0 || cfg.UDPPort > 65535 {
		return nil, errors.New("invalid TEMPEST_UDP_PORT")
	}
	if cfg.RenderCacheSize <= 0 {
		return nil, errors.New("RENDER_CACHE_SIZE must be positive")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}

	return cfg, nil
}

// ListenAddr is the UDP address the broadcast listener binds to.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.UDPBind, c.UDPPort)
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if s := os.Getenv(key); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			return n
		}
	}
	return def
}

func parseDuration(key, def string) (time.Duration, error) {
	s := envOrDefault(key, def)
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return d, nil
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
