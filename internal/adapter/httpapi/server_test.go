package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nickdnj/TempestWeather/internal/domain"
	"github.com/nickdnj/TempestWeather/internal/overlay"
)

type fakeService struct {
	lastParams overlay.Params
	img        []byte
	err        error
}

func (f *fakeService) Overlay(_ context.Context, p overlay.Params) ([]byte, error) {
	f.lastParams = p
	if f.err != nil {
		return nil, f.err
	}
	return f.img, nil
}

type readyFunc func(context.Context) error

func (f readyFunc) CheckReadiness(ctx context.Context) error { return f(ctx) }

func alwaysReady() ReadinessChecker {
	return readyFunc(func(context.Context) error { return nil })
}

func neverReady(msg string) ReadinessChecker {
	return readyFunc(func(context.Context) error { return errors.New(msg) })
}

func testServer(svc OverlayService, ready ReadinessChecker) *Server {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewServer(":0", svc, ready, logger)
}

func TestServer_OverlaySuccess(t *testing.T) {
	svc := &fakeService{img: []byte("png-bytes")}
	srv := testServer(svc, alwaysReady())

	req := httptest.NewRequest(http.MethodGet, "/overlay/current?w=640&h=180&theme=light&units=metric", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, []byte("png-bytes"), rec.Body.Bytes())

	assert.Equal(t, "current", svc.lastParams.Kind)
	assert.Equal(t, 640, svc.lastParams.Width)
	assert.Equal(t, 180, svc.lastParams.Height)
	assert.Equal(t, "light", svc.lastParams.Theme)
	assert.Equal(t, "metric", svc.lastParams.Units)
}

func TestServer_OverlayDefaults(t *testing.T) {
	svc := &fakeService{img: []byte("png-bytes")}
	srv := testServer(svc, alwaysReady())

	req := httptest.NewRequest(http.MethodGet, "/overlay/daily", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, defaultWidth, svc.lastParams.Width)
	assert.Equal(t, defaultHeight, svc.lastParams.Height)
	assert.Empty(t, svc.lastParams.Stations)
}

func TestServer_OverlayStations(t *testing.T) {
	svc := &fakeService{img: []byte("png-bytes")}
	srv := testServer(svc, alwaysReady())

	req := httptest.NewRequest(http.MethodGet, "/overlay/tide?stations=8531680,%208530186,,8534720", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"8531680", "8530186", "8534720"}, svc.lastParams.Stations)
}

func TestServer_UnknownOverlayKind(t *testing.T) {
	svc := &fakeService{err: fmt.Errorf("%w: %q", domain.ErrUnknownOverlay, "sprinkles")}
	srv := testServer(svc, alwaysReady())

	req := httptest.NewRequest(http.MethodGet, "/overlay/sprinkles", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body["error"], "sprinkles")
}

func TestServer_RenderFailure(t *testing.T) {
	svc := &fakeService{err: errors.New("encode failed")}
	srv := testServer(svc, alwaysReady())

	req := httptest.NewRequest(http.MethodGet, "/overlay/current", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestServer_Health(t *testing.T) {
	srv := testServer(&fakeService{}, alwaysReady())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServer_Readiness(t *testing.T) {
	srv := testServer(&fakeService{}, neverReady("no data yet"))

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	srv = testServer(&fakeService{}, alwaysReady())
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAnyReady(t *testing.T) {
	assert.Error(t, AnyReady{}.CheckReadiness(context.Background()))
	assert.Error(t, AnyReady{neverReady("a"), neverReady("b")}.CheckReadiness(context.Background()))
	assert.NoError(t, AnyReady{neverReady("a"), alwaysReady()}.CheckReadiness(context.Background()))
}

func TestServer_Metrics(t *testing.T) {
	srv := testServer(&fakeService{}, alwaysReady())

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
