// Command overlaycheck performs end-to-end checks against a running overlay
// service: health and readiness endpoints, every overlay kind at a couple of
// sizes, PNG integrity, and metrics exposure. It exits non-zero if any phase
// fails, which makes it usable as a deploy smoke check.
//
// Usage:
//
//	go run ./cmd/overlaycheck -base-url http://localhost:5050
package main

import (
	"flag"
	"fmt"
	"image/png"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

var overlayKinds = []string{"current", "expanded", "hourly", "daily", "5day", "tide"}

// phase tracks pass/fail for one validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	baseURL := flag.String("base-url", "http://localhost:5050", "base URL of the overlay service")
	timeout := flag.Duration("timeout", 15*time.Second, "per-request timeout")
	flag.Parse()

	client := &http.Client{Timeout: *timeout}
	base := strings.TrimRight(*baseURL, "/")

	phases := []*phase{
		checkHealth(client, base),
		checkOverlays(client, base),
		checkMetrics(client, base),
	}

	failed := 0
	for _, p := range phases {
		if p.passed() {
			fmt.Printf("PASS %s\n", p.name)
			continue
		}
		failed++
		fmt.Printf("FAIL %s\n", p.name)
		for _, e := range p.errors {
			fmt.Printf("  - %s\n", e)
		}
	}

	if failed > 0 {
		fmt.Printf("\n%d of %d phases failed\n", failed, len(phases))
		os.Exit(1)
	}
	fmt.Printf("\nall %d phases passed\n", len(phases))
}

func checkHealth(client *http.Client, base string) *phase {
	p := &phase{name: "health"}

	resp, err := client.Get(base + "/healthz")
	if err != nil {
		p.errorf("healthz: %v", err)
	} else {
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			p.errorf("healthz: status %d", resp.StatusCode)
		}
	}

	resp, err = client.Get(base + "/readyz")
	if err != nil {
		p.errorf("readyz: %v", err)
		return p
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		p.errorf("readyz: status %d (service has no data yet?)", resp.StatusCode)
	}
	return p
}

func checkOverlays(client *http.Client, base string) *phase {
	p := &phase{name: "overlays"}

	sizes := []struct{ w, h int }{{1280, 240}, {640, 180}}
	for _, kind := range overlayKinds {
		for _, sz := range sizes {
			url := fmt.Sprintf("%s/overlay/%s?w=%d&h=%d", base, kind, sz.w, sz.h)
			checkOneOverlay(client, p, kind, url, sz.w, sz.h)
		}
	}

	// An unknown kind must be rejected, not rendered.
	resp, err := client.Get(base + "/overlay/bogus")
	if err != nil {
		p.errorf("bogus kind: %v", err)
		return p
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		p.errorf("bogus kind: expected 400, got %d", resp.StatusCode)
	}
	return p
}

func checkOneOverlay(client *http.Client, p *phase, kind, url string, w, h int) {
	resp, err := client.Get(url)
	if err != nil {
		p.errorf("%s %dx%d: %v", kind, w, h, err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		p.errorf("%s %dx%d: status %d", kind, w, h, resp.StatusCode)
		return
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		p.errorf("%s %dx%d: content type %q", kind, w, h, ct)
		return
	}

	cfg, err := png.DecodeConfig(resp.Body)
	if err != nil {
		p.errorf("%s %dx%d: not a decodable PNG: %v", kind, w, h, err)
		return
	}
	if cfg.Width != w || cfg.Height != h {
		p.errorf("%s: requested %dx%d, got %dx%d", kind, w, h, cfg.Width, cfg.Height)
	}
}

func checkMetrics(client *http.Client, base string) *phase {
	p := &phase{name: "metrics"}

	resp, err := client.Get(base + "/metrics")
	if err != nil {
		p.errorf("metrics: %v", err)
		return p
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		p.errorf("metrics: status %d", resp.StatusCode)
		return p
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		p.errorf("metrics: read body: %v", err)
		return p
	}

	for _, name := range []string{
		"tempest_overlay_renders_total",
		"tempest_overlay_render_cache_total",
		"tempest_overlay_packets_received_total",
	} {
		if !strings.Contains(string(body), name) {
			p.errorf("metrics: %s not exposed", name)
		}
	}
	return p
}
