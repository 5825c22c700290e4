// Command stationsim broadcasts synthetic Tempest obs_st packets over UDP so
// the overlay service can be exercised without a physical station. Values
// drift slightly between packets to keep the current-conditions overlay (and
// its render cache keys) changing.
//
// Usage:
//
//	go run ./cmd/stationsim \
//	  -addr 127.0.0.1:50222 \
//	  -serial ST-00012345 \
//	  -interval 10s
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// obsStLen matches the positional array length a real hub reports.
const obsStLen = 22

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	addr := flag.String("addr", "127.0.0.1:50222", "UDP address to send packets to")
	serial := flag.String("serial", "ST-00012345", "station serial number to report")
	interval := flag.Duration("interval", 10*time.Second, "delay between packets")
	tempC := flag.Float64("temp", 18.0, "base air temperature in Celsius")
	windMS := flag.Float64("wind", 3.5, "base average wind speed in m/s")
	humidity := flag.Float64("humidity", 62.0, "base relative humidity percent")
	count := flag.Int("count", 0, "number of packets to send, 0 for unlimited")
	flag.Parse()

	conn, err := net.Dial("udp", *addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", *addr, err)
	}
	defer conn.Close()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	log.Printf("broadcasting obs_st packets to %s every %s", *addr, *interval)

	sent := 0
	for {
		payload, err := buildPacket(*serial, *tempC, *windMS, *humidity)
		if err != nil {
			return fmt.Errorf("build packet: %w", err)
		}
		if _, err := conn.Write(payload); err != nil {
			return fmt.Errorf("send packet: %w", err)
		}
		sent++
		log.Printf("sent packet %d (%d bytes)", sent, len(payload))

		if *count > 0 && sent >= *count {
			return nil
		}
		select {
		case <-stop:
			log.Printf("stopping after %d packets", sent)
			return nil
		case <-time.After(*interval):
		}
	}
}

// buildPacket assembles one obs_st message with the given base values plus a
// small random drift, leaving sensors the simulator does not model null.
func buildPacket(serial string, tempC, windMS, humidity float64) ([]byte, error) {
	obs := make([]*float64, obsStLen)

	set := func(i int, v float64) {
		obs[i] = &v
	}

	now := time.Now()
	set(0, float64(now.Unix()))
	set(2, jitter(windMS, 0.8))
	set(4, float64(rand.Intn(360)))
	set(6, jitter(1013.2, 2.0))
	set(7, jitter(tempC, 0.4))
	set(8, clamp(jitter(humidity, 3.0), 0, 100))
	set(10, solarForHour(now.Hour())/120)
	set(11, solarForHour(now.Hour()))
	set(12, 0)
	set(13, 0)
	set(16, 2.67)
	set(18, 0)

	msg := map[string]any{
		"type":              "obs_st",
		"serial_number":     serial,
		"hub_sn":            "HB-00000001",
		"firmware_revision": 176,
		"obs":               [][]*float64{obs},
	}
	return json.Marshal(msg)
}

func jitter(base, spread float64) float64 {
	return base + (rand.Float64()*2-1)*spread
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// solarForHour gives a rough daylight curve: dark overnight, peaking midday.
func solarForHour(hour int) float64 {
	if hour < 6 || hour >= 20 {
		return 0
	}
	dist := float64(hour - 13)
	if dist < 0 {
		dist = -dist
	}
	return clamp(850-dist*120, 0, 850)
}
