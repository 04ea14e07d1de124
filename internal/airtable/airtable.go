package airtable

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/narvas12/mercor-assessment/internal/retry"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	apiURL = "https://api.airtable.com/v0"

	requestTimeout = 30 * time.Second

	defaultMaxRetries = 3
	defaultBackoff    = 2 * time.Second
	// backoffCap bounds a single sleep between attempts.
	backoffCap = 60 * time.Second

	// defaultRequestsPerSecond matches the Airtable per-base limit.
	defaultRequestsPerSecond = 5
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Client provides generic CRUD and query access to the tables of one Airtable
// base. All requests honor the configured rate limit and retry policy.
type Client struct {
	token  string
	logger *zap.Logger

	HTTPClient *http.Client
	APIURL     string
	BaseID     string
	Limiter    *rate.Limiter
	Retry      retry.Policy
}

// Config carries the connection settings for a base.
type Config struct {
	Token  string
	BaseID string

	MaxRetries        int
	BackoffBase       time.Duration
	RequestsPerSecond float64
}

func New(cfg Config, logger *zap.Logger) *Client {
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	backoff := cfg.BackoffBase
	if backoff <= 0 {
		backoff = defaultBackoff
	}

	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = defaultRequestsPerSecond
	}

	return &Client{
		token:  cfg.Token,
		logger: logger,
		APIURL: apiURL,
		BaseID: cfg.BaseID,
		HTTPClient: &http.Client{
			Timeout: requestTimeout,
		},
		Limiter: rate.NewLimiter(rate.Limit(rps), 1),
		Retry: retry.Policy{
			MaxAttempts: maxRetries,
			Base:        backoff,
			Cap:         backoffCap,
		},
	}
}

// StatusError reports a non-2xx reply from the API.
type StatusError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("bad status: %s", e.Status)
}

// Retryable reports whether the error is worth another attempt. Transport
// failures and server-side statuses qualify; other client errors do not.
func Retryable(err error) bool {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode >= http.StatusInternalServerError ||
			statusErr.StatusCode == http.StatusTooManyRequests
	}

	return true
}
