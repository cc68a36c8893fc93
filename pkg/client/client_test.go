package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"
)

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name        string
		config      Config
		expectError bool
		errorMsg    string
	}{
		{
			name:        "valid config",
			config:      DefaultConfig("TestApp/1.0.0"),
			expectError: false,
		},
		{
			name:        "empty base url",
			config:      Config{UserAgent: "TestApp/1.0.0"},
			expectError: true,
			errorMsg:    "base url is required",
		},
		{
			name:        "empty user agent",
			config:      Config{BaseURL: DefaultBaseURL},
			expectError: true,
			errorMsg:    "user-agent is required",
		},
		{
			name:        "negative timeout",
			config:      Config{BaseURL: DefaultBaseURL, UserAgent: "TestApp/1.0.0", Timeout: -time.Second},
			expectError: true,
			errorMsg:    "timeout must be >= 0 (got -1s)",
		},
		{
			name:        "relative base url",
			config:      Config{BaseURL: "/2", UserAgent: "TestApp/1.0.0"},
			expectError: true,
			errorMsg:    `base url must be absolute (got "/2")`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := New(tt.config)

			if tt.expectError {
				if err == nil {
					t.Errorf("Expected error but got nil")
					return
				}
				if tt.errorMsg != "" && err.Error() != tt.errorMsg {
					t.Errorf("Error message = %q, want %q", err.Error(), tt.errorMsg)
				}
			} else {
				if err != nil {
					t.Errorf("Unexpected error: %v", err)
					return
				}
				if client == nil {
					t.Error("Client is nil")
				}
			}
		})
	}
}

func TestNew_TimeoutDefaultsToBlocking(t *testing.T) {
	client, err := New(DefaultConfig("TestApp/1.0.0"))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if client.httpClient.Timeout != 0 {
		t.Errorf("Timeout = %v, want 0 (no timeout)", client.httpClient.Timeout)
	}

	cfg := DefaultConfig("TestApp/1.0.0")
	cfg.Timeout = 5 * time.Second
	client, err = New(cfg)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if client.httpClient.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s", client.httpClient.Timeout)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		err        error
		expected   ErrorClass
	}{
		{name: "network error", statusCode: 0, err: errors.New("connection refused"), expected: ErrorClassNetwork},
		{name: "read error after 200", statusCode: 200, err: errors.New("unexpected EOF"), expected: ErrorClassNetwork},
		{name: "client error 404", statusCode: 404, expected: ErrorClassClient},
		{name: "client error 429", statusCode: 429, expected: ErrorClassClient},
		{name: "server error 500", statusCode: 500, expected: ErrorClassServer},
		{name: "server error 503", statusCode: 503, expected: ErrorClassServer},
		{name: "redirect 302", statusCode: 302, expected: ErrorClassUnexpected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := classify(tt.statusCode, tt.err)
			if result != tt.expected {
				t.Errorf("classify() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestGet_RequestShape(t *testing.T) {
	var (
		userAgentReceived string
		acceptReceived    string
		pathReceived      string
		queryReceived     url.Values
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userAgentReceived = r.Header.Get("User-Agent")
		acceptReceived = r.Header.Get("Accept")
		pathReceived = r.URL.Path
		queryReceived = r.URL.Query()
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"test": "data"}`))
	}))
	defer server.Close()

	cfg := DefaultConfig("TestApp/1.0.0")
	cfg.BaseURL = server.URL + "/2/"
	client, err := New(cfg)
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	body, err := client.Get(context.Background(), "/events", url.Values{"page": {"3"}})
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}

	if string(body) != `{"test": "data"}` {
		t.Errorf("body = %q", body)
	}
	if userAgentReceived != "TestApp/1.0.0" {
		t.Errorf("User-Agent = %q, want %q", userAgentReceived, "TestApp/1.0.0")
	}
	if acceptReceived != "application/json" {
		t.Errorf("Accept = %q, want application/json", acceptReceived)
	}
	if pathReceived != "/2/events" {
		t.Errorf("path = %q, want /2/events", pathReceived)
	}
	if queryReceived.Get("page") != "3" {
		t.Errorf("page = %q, want 3", queryReceived.Get("page"))
	}
}

func TestGet_StatusErrors(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		class      ErrorClass
	}{
		{name: "not found", statusCode: http.StatusNotFound, class: ErrorClassClient},
		{name: "bad gateway", statusCode: http.StatusBadGateway, class: ErrorClassServer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
				w.Write([]byte(`{"error": "nope"}`))
			}))
			defer server.Close()

			cfg := DefaultConfig("TestApp/1.0.0")
			cfg.BaseURL = server.URL
			client, err := New(cfg)
			if err != nil {
				t.Fatalf("Failed to create client: %v", err)
			}

			_, err = client.Get(context.Background(), "events", nil)
			var fe *FetchError
			if !errors.As(err, &fe) {
				t.Fatalf("Get() error = %v, want *FetchError", err)
			}
			if fe.StatusCode != tt.statusCode {
				t.Errorf("StatusCode = %d, want %d", fe.StatusCode, tt.statusCode)
			}
			if fe.Class != tt.class {
				t.Errorf("Class = %q, want %q", fe.Class, tt.class)
			}
		})
	}
}

func TestGet_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	baseURL := server.URL
	server.Close()

	cfg := DefaultConfig("TestApp/1.0.0")
	cfg.BaseURL = baseURL
	client, err := New(cfg)
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	_, err = client.Get(context.Background(), "events", nil)
	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("Get() error = %v, want *FetchError", err)
	}
	if fe.Class != ErrorClassNetwork {
		t.Errorf("Class = %q, want %q", fe.Class, ErrorClassNetwork)
	}
	if fe.Err == nil {
		t.Error("expected wrapped transport error")
	}
}

func TestGet_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := DefaultConfig("TestApp/1.0.0")
	cfg.BaseURL = server.URL
	cfg.Timeout = 20 * time.Millisecond
	client, err := New(cfg)
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	_, err = client.Get(context.Background(), "events", nil)
	if !IsFetchError(err) {
		t.Fatalf("Get() error = %v, want *FetchError", err)
	}
}
