package handlers

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

type stubStore struct {
	healthErr error
}

func (s *stubStore) Init() error        { return nil }
func (s *stubStore) Close() error       { return nil }
func (s *stubStore) GetDB() interface{} { return nil }
func (s *stubStore) HealthCheck() error { return s.healthErr }

func healthStatus(t *testing.T, store *stubStore) string {
	t.Helper()

	app := fiber.New()
	app.Get("/api/health", HandleCheckHealth(store))

	resp, err := app.Test(httptest.NewRequest("GET", "/api/health", nil))
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}

	var body struct {
		Status    string  `json:"status"`
		Uptime    float64 `json:"uptime"`
		Timestamp int64   `json:"timestamp"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode body: %v", err)
	}
	if body.Timestamp == 0 {
		t.Error("Expected a timestamp")
	}
	return body.Status
}

func TestHealthOK(t *testing.T) {
	if status := healthStatus(t, &stubStore{}); status != "ok" {
		t.Errorf("Expected status ok, got %s", status)
	}
}

func TestHealthDegraded(t *testing.T) {
	store := &stubStore{healthErr: errors.New("connection refused")}
	if status := healthStatus(t, store); status != "degraded" {
		t.Errorf("Expected status degraded, got %s", status)
	}
}
