package controllers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tourhub-io/tourhub-backend/api/responses"
	"github.com/tourhub-io/tourhub-backend/pkg/config"
)

type stubPinger struct{ err error }

func (s stubPinger) Ping(ctx context.Context) error { return s.err }

func TestHealthLive(t *testing.T) {
	cfg := &config.Config{}
	cfg.App.Env = "test"

	rec := httptest.NewRecorder()
	HealthLive(cfg)(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if rec.Header().Get("X-TourHub-Env") != "test" {
		t.Fatalf("expected env header, got %q", rec.Header().Get("X-TourHub-Env"))
	}
}

func TestHealthReadyAllUp(t *testing.T) {
	cfg := &config.Config{}
	handler := HealthReady(cfg, responses.Writer{}, map[string]Pinger{
		"postgres": stubPinger{},
		"redis":    stubPinger{},
	})

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"redis":"up"`) {
		t.Fatalf("expected redis up, got %s", rec.Body.String())
	}
}

func TestHealthReadyDependencyDown(t *testing.T) {
	cfg := &config.Config{}
	handler := HealthReady(cfg, responses.Writer{}, map[string]Pinger{
		"postgres": stubPinger{},
		"redis":    stubPinger{err: errors.New("connection refused")},
	})

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d: %s", rec.Code, rec.Body.String())
	}
}
