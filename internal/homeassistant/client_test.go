package homeassistant

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

const mockSunState = `{"entity_id":"sun.sun","state":"above_horizon","attributes":{"friendly_name":"Sun","elevation":31.5},"last_changed":"2026-06-01T06:12:00.123456+00:00","last_updated":"2026-06-01T09:40:00.000001+00:00"}`

func TestTimeoutsFor(t *testing.T) {
	tests := []struct {
		url  string
		want Timeouts
	}{
		{"http://127.0.0.1:8123", Timeouts{Connect: 2 * time.Second, Read: 5 * time.Second}},
		{"https://ha.example.com", Timeouts{Connect: 10 * time.Second, Read: 30 * time.Second}},
		{"HTTPS://HA.EXAMPLE.COM", Timeouts{Connect: 10 * time.Second, Read: 30 * time.Second}},
	}

	for _, tt := range tests {
		if got := TimeoutsFor(tt.url); got != tt.want {
			t.Errorf("TimeoutsFor(%q) = %+v, want %+v", tt.url, got, tt.want)
		}
	}
}

func TestNewClient(t *testing.T) {
	client := NewClient("http://h:8123/", "abc")

	if client.BaseURL != "http://h:8123" {
		t.Errorf("BaseURL = %s, want http://h:8123", client.BaseURL)
	}
	if client.HTTPClient.Timeout != 7*time.Second {
		t.Errorf("Timeout = %v, want 7s", client.HTTPClient.Timeout)
	}
	if client.transport.MaxIdleConnsPerHost != 5 {
		t.Errorf("MaxIdleConnsPerHost = %d, want 5", client.transport.MaxIdleConnsPerHost)
	}
	if client.transport.MaxConnsPerHost != 10 {
		t.Errorf("MaxConnsPerHost = %d, want 10", client.transport.MaxConnsPerHost)
	}
}

func TestGetState(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer abc" {
			t.Errorf("Authorization = %q, want Bearer abc", r.Header.Get("Authorization"))
		}
		if r.URL.Path != "/api/states/sun.sun" {
			t.Errorf("Path = %s, want /api/states/sun.sun", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(mockSunState))
	}))
	defer server.Close()

	client := NewClient(server.URL, "abc")
	state, err := client.GetState(context.Background(), "sun.sun")
	if err != nil {
		t.Fatalf("GetState() error = %v", err)
	}

	if state.State != "above_horizon" {
		t.Errorf("State = %s, want above_horizon", state.State)
	}
	if state.FriendlyName() != "Sun" {
		t.Errorf("FriendlyName() = %s, want Sun", state.FriendlyName())
	}
	if state.LastChanged.IsZero() {
		t.Error("LastChanged should be parsed")
	}
}

func TestGetStateNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Entity not found."}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "abc")
	state, err := client.GetState(context.Background(), "light.missing")
	if err != nil {
		t.Fatalf("GetState() error = %v, want nil", err)
	}
	if state != nil {
		t.Errorf("GetState() = %+v, want nil", state)
	}
}

func TestGetStateUnauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient(server.URL, "wrong")
	_, err := client.GetState(context.Background(), "sun.sun")
	if !IsAuthError(err) {
		t.Errorf("GetState() error = %v, want auth error", err)
	}
}

func TestGetAllStates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/states" {
			t.Errorf("Path = %s, want /api/states", r.URL.Path)
		}
		_, _ = w.Write([]byte(`[` + mockSunState + `,{"entity_id":"light.kitchen","state":"on","attributes":{"brightness":102}}]`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "abc")
	states, err := client.GetAllStates(context.Background())
	if err != nil {
		t.Fatalf("GetAllStates() error = %v", err)
	}

	if len(states) != 2 {
		t.Fatalf("len(states) = %d, want 2", len(states))
	}
	if states[1].Domain() != "light" {
		t.Errorf("Domain() = %s, want light", states[1].Domain())
	}
	if b, _ := states[1].Attributes["brightness"].(float64); b != 102 {
		t.Errorf("brightness = %v, want 102", states[1].Attributes["brightness"])
	}
}

func TestGetAllStatesMalformed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>proxy login</html>`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "abc")
	_, err := client.GetAllStates(context.Background())
	if !IsParseError(err) {
		t.Errorf("GetAllStates() error = %v, want parse error", err)
	}
}

func TestCallService(t *testing.T) {
	var gotPath string
	var gotBody map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Method = %s, want POST", r.Method)
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("Content-Type = %s, want application/json", r.Header.Get("Content-Type"))
		}
		gotPath = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &gotBody)
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "abc")
	err := client.CallService(context.Background(), "light", "turn_on", "light.kitchen", map[string]any{"brightness": 178})
	if err != nil {
		t.Fatalf("CallService() error = %v", err)
	}

	if gotPath != "/api/services/light/turn_on" {
		t.Errorf("Path = %s, want /api/services/light/turn_on", gotPath)
	}
	if gotBody["entity_id"] != "light.kitchen" {
		t.Errorf("entity_id = %v, want light.kitchen", gotBody["entity_id"])
	}
	if gotBody["brightness"] != float64(178) {
		t.Errorf("brightness = %v, want 178", gotBody["brightness"])
	}
}

func TestCallServiceServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, "abc")
	err := client.CallService(context.Background(), "switch", "turn_on", "switch.fan", nil)
	if !IsHTTPError(err) {
		t.Fatalf("CallService() error = %v, want HTTP error", err)
	}
	if err.(*APIError).StatusCode != http.StatusInternalServerError {
		t.Errorf("StatusCode = %d, want 500", err.(*APIError).StatusCode)
	}
}

func TestToggle(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "abc")
	if err := client.Toggle(context.Background(), "switch.fan"); err != nil {
		t.Fatalf("Toggle() error = %v", err)
	}
	if gotPath != "/api/services/homeassistant/toggle" {
		t.Errorf("Path = %s, want /api/services/homeassistant/toggle", gotPath)
	}
}

func TestTestConnection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/" {
			t.Errorf("Path = %s, want /api/", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"message":"API running."}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "abc")
	defer client.Close()

	if err := client.TestConnection(context.Background()); err != nil {
		t.Errorf("TestConnection() error = %v", err)
	}
}

func TestTestConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewClient(url, "abc")
	err := client.TestConnection(context.Background())
	if !IsNetworkError(err) {
		t.Fatalf("TestConnection() error = %v, want network error", err)
	}
	if !strings.Contains(ShortMessage(err), "refused") {
		t.Errorf("ShortMessage() = %q, want it to mention refused", ShortMessage(err))
	}
}

func TestCanceledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(mockSunState))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient(server.URL, "abc")
	_, err := client.GetState(ctx, "sun.sun")
	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("GetState() error = %T, want *APIError", err)
	}
	if apiErr.Type != ErrTypeCanceled {
		t.Errorf("Type = %v, want %v", apiErr.Type, ErrTypeCanceled)
	}
}
