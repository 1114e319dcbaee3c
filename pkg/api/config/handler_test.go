package config

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"dartlens/pkg/core/agent"
)

func TestHandleConfig(t *testing.T) {
	h := NewHandler(agent.NewManager(agent.Config{ActiveProvider: "gemini"}))

	rec := httptest.NewRecorder()
	h.HandleConfig(rec, httptest.NewRequest("GET", "/api/config", nil))

	var resp Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response not JSON: %v", err)
	}
	if resp.ActiveProvider != "gemini" {
		t.Errorf("active provider: got %q", resp.ActiveProvider)
	}
	if len(resp.Available) == 0 {
		t.Error("available providers missing")
	}
}

func TestHandleSwitch(t *testing.T) {
	mgr := agent.NewManager(agent.Config{ActiveProvider: "gemini"})
	h := NewHandler(mgr)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/config/switch", strings.NewReader(`{"provider":"stub"}`))
	h.HandleSwitch(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	if mgr.ActiveProvider() != "stub" {
		t.Errorf("active provider after switch: got %q", mgr.ActiveProvider())
	}
}

func TestHandleSwitchUnknownProvider(t *testing.T) {
	h := NewHandler(agent.NewManager(agent.Config{}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/config/switch", strings.NewReader(`{"provider":"nope"}`))
	h.HandleSwitch(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rec.Code)
	}
}
