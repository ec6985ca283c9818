package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/iliyamo/habit-tracker/internal/config"
	"github.com/iliyamo/habit-tracker/internal/database/dbtest"
	"github.com/iliyamo/habit-tracker/internal/logger"
)

func TestNewServerWiresRoutes(t *testing.T) {
	db := dbtest.Open(t)
	cfg := config.Config{BcryptCost: 4}
	e := newServer(cfg, db, config.RateLimitConfig{}, nil, logger.Discard())

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /healthz status = %d, want 200", rec.Code)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID header")
	}

	body := `{"name":"Stretch","time_of_day":"morning"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/habits", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST /v1/habits status = %d, want 201 (%s)", rec.Code, rec.Body.String())
	}
}
