// Package testutil provides testing utilities for the recipe browser.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/cookbookd/recipe-browser/pkg/catalog"
)

// TestToken is the bearer token the mock backend accepts.
const TestToken = "test-token"

// MockResponse defines the behavior for a mock endpoint response.
type MockResponse struct {
	StatusCode int
	Body       string
	Delay      time.Duration
}

// MockBackend is a configurable mock recipe backend for testing.
// It serves the collection, single-record, auth, and favorites endpoints
// and tracks request counts per path.
type MockBackend struct {
	server *httptest.Server

	mu        sync.RWMutex
	records   []catalog.Record
	byID      map[string]catalog.Record
	favorites map[string]bool
	handlers  map[string]func(w http.ResponseWriter, r *http.Request)

	// Tracking
	requestCount int
	pathCounts   map[string]int
}

// NewMockBackend creates a mock backend serving the given records.
func NewMockBackend(records []catalog.Record) *MockBackend {
	mock := &MockBackend{
		favorites:  make(map[string]bool),
		handlers:   make(map[string]func(w http.ResponseWriter, r *http.Request)),
		pathCounts: make(map[string]int),
	}
	mock.SetRecords(records)

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.requestCount++
		mock.pathCounts[r.URL.Path]++
		handler, exists := mock.handlers[r.URL.Path]
		mock.mu.Unlock()

		if exists {
			handler(w, r)
			return
		}

		mock.defaultHandler(w, r)
	}))

	return mock
}

// URL returns the mock server URL, usable as an API base URL.
func (m *MockBackend) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockBackend) Close() {
	m.server.Close()
}

// Reset clears all tracking counters.
func (m *MockBackend) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount = 0
	m.pathCounts = make(map[string]int)
}

// SetRecords replaces the served collection.
func (m *MockBackend) SetRecords(records []catalog.Record) {
	byID := make(map[string]catalog.Record, len(records))
	for _, rec := range records {
		byID[rec.RecordID] = rec
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = records
	m.byID = byID
}

// SetHandler sets a custom handler for a specific path.
func (m *MockBackend) SetHandler(path string, handler func(w http.ResponseWriter, r *http.Request)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// SetResponse configures a fixed response for a path.
func (m *MockBackend) SetResponse(path string, resp MockResponse) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		if resp.Delay > 0 {
			time.Sleep(resp.Delay)
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(resp.StatusCode)
		if resp.Body != "" {
			w.Write([]byte(resp.Body))
		}
	})
}

// ClearHandler removes a custom handler, restoring default behavior.
func (m *MockBackend) ClearHandler(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.handlers, path)
}

// RequestCount returns the total number of requests served.
func (m *MockBackend) RequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.requestCount
}

// PathCount returns the number of requests served for an exact path.
func (m *MockBackend) PathCount(path string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pathCounts[path]
}

// SetFavorite preloads the favorite status of a record.
func (m *MockBackend) SetFavorite(id string, favorited bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.favorites[id] = favorited
}

// IsFavorite reports the stored favorite status of a record.
func (m *MockBackend) IsFavorite(id string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.favorites[id]
}

func (m *MockBackend) defaultHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")

	path := r.URL.Path
	switch {
	case path == "/recipes" && r.Method == http.MethodGet:
		m.mu.RLock()
		records := m.records
		m.mu.RUnlock()
		writeJSON(w, http.StatusOK, map[string]any{"data": records})

	case strings.HasPrefix(path, "/recipes/") && r.Method == http.MethodGet:
		id := strings.TrimPrefix(path, "/recipes/")
		m.mu.RLock()
		rec, ok := m.byID[id]
		m.mu.RUnlock()
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "message": "Recipe not found"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"data": rec})

	case path == "/auth/login" && r.Method == http.MethodPost:
		var creds struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil || creds.Email == "" {
			writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": "Invalid credentials"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data": map[string]any{
				"user":  map[string]any{"_id": "user-1", "username": "tester", "email": creds.Email},
				"token": TestToken,
			},
		})

	case path == "/auth/register" && r.Method == http.MethodPost:
		var creds struct {
			Username string `json:"username"`
			Email    string `json:"email"`
		}
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil || creds.Username == "" {
			writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": "Invalid registration"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data": map[string]any{
				"user":  map[string]any{"_id": "user-1", "username": creds.Username, "email": creds.Email},
				"token": TestToken,
			},
		})

	case path == "/auth/me" && r.Method == http.MethodGet:
		if !m.authorized(r) {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"success": false, "message": "Unauthorized"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data":    map[string]any{"_id": "user-1", "username": "tester", "email": "tester@example.com"},
		})

	case strings.HasPrefix(path, "/favorites/check/") && r.Method == http.MethodGet:
		if !m.authorized(r) {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"success": false, "message": "Unauthorized"})
			return
		}
		id := strings.TrimPrefix(path, "/favorites/check/")
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data":    map[string]any{"isFavorited": m.IsFavorite(id)},
		})

	case strings.HasPrefix(path, "/favorites/"):
		if !m.authorized(r) {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"success": false, "message": "Unauthorized"})
			return
		}
		id := strings.TrimPrefix(path, "/favorites/")
		switch r.Method {
		case http.MethodPost:
			m.SetFavorite(id, true)
			writeJSON(w, http.StatusOK, map[string]any{"success": true})
		case http.MethodDelete:
			m.SetFavorite(id, false)
			writeJSON(w, http.StatusOK, map[string]any{"success": true})
		default:
			writeJSON(w, http.StatusMethodNotAllowed, map[string]any{"success": false, "message": "Method not allowed"})
		}

	default:
		writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "message": "Not found"})
	}
}

func (m *MockBackend) authorized(r *http.Request) bool {
	return r.Header.Get("Authorization") == "Bearer "+TestToken
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// SampleRecords builds n deterministic records for tests.
func SampleRecords(n int) []catalog.Record {
	records := make([]catalog.Record, 0, n)
	for i := 0; i < n; i++ {
		records = append(records, catalog.Record{
			RecordID:             fmt.Sprintf("rec-%03d", i+1),
			DisplayID:            i + 1,
			Title:                fmt.Sprintf("Recipe %d", i+1),
			Ingredients:          catalog.StringList{fmt.Sprintf("%d cups flour", i+1), "1 tsp salt"},
			ExtractedIngredients: catalog.StringList{"flour", "salt"},
			Instructions:         "Mix.\nBake.",
			ImageRef:             fmt.Sprintf("recipe-%03d.jpg", i+1),
		})
	}
	return records
}
