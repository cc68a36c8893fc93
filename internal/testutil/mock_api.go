// Package testutil provides testing utilities for the snapshot tool.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
	"time"
)

// MockResponse defines the behavior for a mock API endpoint response.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// MockAPI is a configurable mock listings API server for testing.
type MockAPI struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[string]func(w http.ResponseWriter, r *http.Request)

	// Tracking
	RequestCount      int
	Queries           []url.Values
	LastRequestHeader http.Header
}

// NewMockAPI creates a new mock listings API server.
func NewMockAPI() *MockAPI {
	mock := &MockAPI{
		handlers: make(map[string]func(w http.ResponseWriter, r *http.Request)),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.RequestCount++
		mock.Queries = append(mock.Queries, r.URL.Query())
		mock.LastRequestHeader = r.Header.Clone()
		handler, exists := mock.handlers[r.URL.Path]
		mock.mu.Unlock()

		if exists {
			handler(w, r)
			return
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message": "not found"}`))
	}))

	return mock
}

// URL returns the mock server base URL.
func (m *MockAPI) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockAPI) Close() {
	m.server.Close()
}

// Reset clears all tracking counters.
func (m *MockAPI) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestCount = 0
	m.Queries = nil
	m.LastRequestHeader = nil
}

// SetHandler sets a custom handler for a specific path.
func (m *MockAPI) SetHandler(path string, handler func(w http.ResponseWriter, r *http.Request)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// SetResponse configures a simple response for a path.
func (m *MockAPI) SetResponse(path string, resp MockResponse) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		if resp.Delay > 0 {
			time.Sleep(resp.Delay)
		}

		for key, value := range resp.Headers {
			w.Header().Set(key, value)
		}

		w.WriteHeader(resp.StatusCode)
		if resp.Body != "" {
			w.Write([]byte(resp.Body))
		}
	})
}

// SetEventPages serves /events so that page N returns counts[N-1] events and
// every page reports total. Pages past len(counts) are empty. Event IDs run
// sequentially from 1 across pages.
func (m *MockAPI) SetEventPages(total int, counts ...int) {
	m.SetHandler("/events", func(w http.ResponseWriter, r *http.Request) {
		page, err := strconv.Atoi(r.URL.Query().Get("page"))
		if err != nil || page < 1 {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))

		n, firstID := 0, 1
		for i := 0; i < page-1 && i < len(counts); i++ {
			firstID += counts[i]
		}
		if page <= len(counts) {
			n = counts[page-1]
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(EventsPageJSON(page, perPage, total, firstID, n)))
	})
}

// GetRequestCount returns the number of requests made to the server.
func (m *MockAPI) GetRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.RequestCount
}

// GetQueries returns a copy of the query parameters of every request, in order.
func (m *MockAPI) GetQueries() []url.Values {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]url.Values, len(m.Queries))
	copy(out, m.Queries)
	return out
}

type mockPerformer struct {
	ID        int      `json:"id"`
	Name      string   `json:"name"`
	ShortName string   `json:"short_name"`
	Type      string   `json:"type"`
	Score     *float64 `json:"score"`
}

type mockEvent struct {
	ID            int             `json:"id"`
	Title         string          `json:"title"`
	ShortTitle    string          `json:"short_title"`
	DatetimeLocal string          `json:"datetime_local"`
	Score         *float64        `json:"score"`
	Performers    []mockPerformer `json:"performers"`
}

// EventsPageJSON renders an events page body with n events whose IDs start at
// firstID. Even IDs carry a score, odd IDs have a null score.
func EventsPageJSON(page, perPage, total, firstID, n int) string {
	evs := make([]mockEvent, 0, n)
	for i := 0; i < n; i++ {
		id := firstID + i
		var score *float64
		if id%2 == 0 {
			s := float64(id) / 1000
			score = &s
		}
		evs = append(evs, mockEvent{
			ID:            id,
			Title:         fmt.Sprintf("Festival %d", id),
			ShortTitle:    fmt.Sprintf("Fest %d", id),
			DatetimeLocal: time.Date(2026, 7, 1, 18, 0, 0, 0, time.UTC).Add(time.Duration(id) * time.Hour).Format("2006-01-02T15:04:05"),
			Score:         score,
			Performers: []mockPerformer{{
				ID:        id * 10,
				Name:      fmt.Sprintf("Band %d", id),
				ShortName: fmt.Sprintf("B%d", id),
				Type:      "band",
				Score:     score,
			}},
		})
	}

	body := struct {
		Meta struct {
			Page    int `json:"page"`
			PerPage int `json:"per_page"`
			Total   int `json:"total"`
		} `json:"meta"`
		Events []mockEvent `json:"events"`
	}{Events: evs}
	body.Meta.Page = page
	body.Meta.PerPage = perPage
	body.Meta.Total = total

	data, err := json.Marshal(body)
	if err != nil {
		panic(err)
	}
	return string(data)
}

// NewServerErrorResponse creates a 500 Internal Server Error response.
func NewServerErrorResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       `{"error": "Internal server error"}`,
		Headers: map[string]string{
			"Content-Type": "application/json; charset=utf-8",
		},
	}
}

// NewMalformedResponse creates a 200 OK response whose body lacks "meta".
func NewMalformedResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusOK,
		Body:       `{"events": []}`,
		Headers: map[string]string{
			"Content-Type": "application/json; charset=utf-8",
		},
	}
}
