// Package api provides the HTTP client for the recipe backend, with
// retry logic, error classification, and request metrics.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"

	"github.com/cookbookd/recipe-browser/pkg/catalog"
	"github.com/cookbookd/recipe-browser/pkg/logging"
)

// Prometheus metrics for backend requests.
var (
	apiRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "recipe_api_requests_total",
		Help: "Total backend requests by endpoint and status",
	}, []string{"endpoint", "status"})

	apiRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "recipe_api_request_duration_seconds",
		Help:    "Backend request duration in seconds by endpoint",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
	}, []string{"endpoint"})

	apiErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "recipe_api_errors_total",
		Help: "Total backend errors by class",
	}, []string{"class"})
)

// DefaultBaseURL is the production recipe backend.
const DefaultBaseURL = "https://recipebackend-production-5f88.up.railway.app/api"

// FullCollectionLimit is the page size requested when fetching the whole
// collection in one call. The backend defaults to a small page, so the
// limit must exceed any plausible collection size.
const FullCollectionLimit = 50000

// Client is the recipe backend HTTP client.
type Client struct {
	httpClient *http.Client
	config     Config
	logger     zerolog.Logger
}

// Config holds the client configuration.
type Config struct {
	// BaseURL is the backend API root, e.g. "https://host/api".
	BaseURL string

	// UserAgent header sent with every request.
	UserAgent string

	// Timeout per HTTP request.
	Timeout time.Duration

	// Retry controls backoff behavior for server and network errors.
	Retry RetryConfig
}

// DefaultConfig returns a safe default configuration.
func DefaultConfig(baseURL string) Config {
	return Config{
		BaseURL:   baseURL,
		UserAgent: "recipe-browser/0.1.0",
		Timeout:   30 * time.Second,
		Retry:     DefaultRetryConfig(),
	}
}

// New creates a new backend client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}

	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	logger := logging.NewLogger("recipe-api")

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		config: cfg,
		logger: logger,
	}, nil
}

// User is an account as served by the auth endpoints.
type User struct {
	ID             string   `json:"_id"`
	Username       string   `json:"username"`
	Email          string   `json:"email"`
	Favorites      []string `json:"favorites,omitempty"`
	CreatedRecipes []string `json:"createdRecipes,omitempty"`
}

// Session is the result of a successful login or registration.
type Session struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

// Response envelopes used by the backend.
type listEnvelope struct {
	Data []catalog.Record `json:"data"`
}

type recordEnvelope struct {
	Data catalog.Record `json:"data"`
}

type sessionEnvelope struct {
	Success bool    `json:"success"`
	Message string  `json:"message"`
	Data    Session `json:"data"`
}

type userEnvelope struct {
	Success bool   `json:"success"`
	Data    User   `json:"data"`
	Message string `json:"message"`
}

type favoriteEnvelope struct {
	Success bool `json:"success"`
	Data    struct {
		IsFavorited bool `json:"isFavorited"`
	} `json:"data"`
}

// ListRecipes fetches the recipe collection in a single call.
// limit <= 0 uses FullCollectionLimit.
func (c *Client) ListRecipes(ctx context.Context, limit int) ([]catalog.Record, error) {
	if limit <= 0 {
		limit = FullCollectionLimit
	}

	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))

	var env listEnvelope
	if err := c.do(ctx, http.MethodGet, "/recipes", query, "", nil, &env); err != nil {
		return nil, err
	}

	c.logger.Info().
		Int("records", len(env.Data)).
		Msg("Fetched recipe collection")

	return env.Data, nil
}

// GetRecipe fetches a single record by identity.
func (c *Client) GetRecipe(ctx context.Context, id string) (catalog.Record, error) {
	if id == "" {
		return catalog.Record{}, fmt.Errorf("record id is required")
	}

	var env recordEnvelope
	if err := c.do(ctx, http.MethodGet, "/recipes/"+url.PathEscape(id), nil, "", nil, &env); err != nil {
		return catalog.Record{}, err
	}

	return env.Data, nil
}

// Login authenticates with email and password.
func (c *Client) Login(ctx context.Context, email, password string) (Session, error) {
	body := map[string]string{"email": email, "password": password}

	var env sessionEnvelope
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, "", body, &env); err != nil {
		return Session{}, err
	}
	if !env.Success {
		return Session{}, fmt.Errorf("login rejected: %s", env.Message)
	}

	return env.Data, nil
}

// Register creates a new account and returns its session.
func (c *Client) Register(ctx context.Context, username, email, password string) (Session, error) {
	body := map[string]string{"username": username, "email": email, "password": password}

	var env sessionEnvelope
	if err := c.do(ctx, http.MethodPost, "/auth/register", nil, "", body, &env); err != nil {
		return Session{}, err
	}
	if !env.Success {
		return Session{}, fmt.Errorf("registration rejected: %s", env.Message)
	}

	return env.Data, nil
}

// Me verifies a bearer token and returns the current user.
func (c *Client) Me(ctx context.Context, token string) (User, error) {
	var env userEnvelope
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, token, nil, &env); err != nil {
		return User{}, err
	}
	if !env.Success {
		return User{}, fmt.Errorf("token verification rejected: %s", env.Message)
	}

	return env.Data, nil
}

// CheckFavorite reports whether the authenticated user favorited a record.
func (c *Client) CheckFavorite(ctx context.Context, token, id string) (bool, error) {
	var env favoriteEnvelope
	if err := c.do(ctx, http.MethodGet, "/favorites/check/"+url.PathEscape(id), nil, token, nil, &env); err != nil {
		return false, err
	}

	return env.Data.IsFavorited, nil
}

// AddFavorite marks a record as favorited for the authenticated user.
func (c *Client) AddFavorite(ctx context.Context, token, id string) error {
	return c.do(ctx, http.MethodPost, "/favorites/"+url.PathEscape(id), nil, token, struct{}{}, nil)
}

// RemoveFavorite removes a record from the authenticated user's favorites.
func (c *Client) RemoveFavorite(ctx context.Context, token, id string) error {
	return c.do(ctx, http.MethodDelete, "/favorites/"+url.PathEscape(id), nil, token, nil, nil)
}

// do performs an HTTP request with retry, metrics, and error classification.
// The endpoint label strips record ids so metric cardinality stays bounded.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, token string, body, out any) error {
	endpoint := metricEndpoint(path)

	startTime := time.Now()
	defer func() {
		apiRequestDuration.WithLabelValues(endpoint).Observe(time.Since(startTime).Seconds())
	}()

	return retryWithBackoff(ctx, c.logger, c.config.Retry, func() error {
		var reqBody io.Reader
		if body != nil {
			data, err := json.Marshal(body)
			if err != nil {
				return fmt.Errorf("marshal request body: %w", err)
			}
			reqBody = bytes.NewReader(data)
		}

		reqURL := c.config.BaseURL + path
		if len(query) > 0 {
			reqURL += "?" + query.Encode()
		}

		req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}

		req.Header.Set("User-Agent", c.config.UserAgent)
		req.Header.Set("Accept", "application/json")
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}

		c.logger.Debug().
			Str("endpoint", endpoint).
			Str("method", method).
			Msg("Executing backend request")

		resp, reqErr := c.httpClient.Do(req)
		if reqErr != nil {
			c.logger.Error().Err(reqErr).Str("endpoint", endpoint).Msg("HTTP request failed")
			apiErrorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
			apiRequestsTotal.WithLabelValues(endpoint, "network_error").Inc()
			return &APIError{
				ErrorClass: ErrorClassNetwork,
				Message:    "request failed",
				Err:        reqErr,
			}
		}
		defer resp.Body.Close()

		apiRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()

		if resp.StatusCode >= 400 {
			errClass := classifyStatus(resp.StatusCode)
			apiErrorsTotal.WithLabelValues(string(errClass)).Inc()

			c.logger.Warn().
				Str("endpoint", endpoint).
				Int("status", resp.StatusCode).
				Str("error_class", string(errClass)).
				Msg("Backend request error")

			apiErr := &APIError{
				StatusCode: resp.StatusCode,
				ErrorClass: errClass,
				Message:    errorMessage(resp),
			}
			if resp.StatusCode == http.StatusNotFound {
				apiErr.Err = ErrNotFound
			}
			return apiErr
		}

		if out != nil {
			if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
				return fmt.Errorf("decode response: %w", err)
			}
		}

		return nil
	})
}

// errorMessage extracts the backend's error message from a failed response.
func errorMessage(resp *http.Response) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	return resp.Status
}

// metricEndpoint maps a request path to a bounded metric label.
func metricEndpoint(path string) string {
	switch {
	case path == "/recipes":
		return "/recipes"
	case strings.HasPrefix(path, "/recipes/"):
		return "/recipes/{id}"
	case strings.HasPrefix(path, "/favorites/check/"):
		return "/favorites/check/{id}"
	case strings.HasPrefix(path, "/favorites/"):
		return "/favorites/{id}"
	default:
		return path
	}
}
