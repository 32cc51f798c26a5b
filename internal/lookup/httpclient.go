package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"casefinder/internal/domain"
)

const (
	defaultTimeout = 10 * time.Second
	maxErrorBody   = 4 << 10
)

// ClientOptions configures an HTTPClient
type ClientOptions struct {
	BaseURL   string
	APIKey    string
	Timeout   time.Duration
	RateLimit float64 // requests per second, zero disables limiting
	Logger    *zap.Logger
	HTTP      *http.Client
}

// HTTPClient talks to the case lookup service over JSON/HTTP
type HTTPClient struct {
	baseURL *url.URL
	apiKey  string
	timeout time.Duration
	limiter *rate.Limiter
	logger  *zap.Logger
	http    *http.Client
}

var _ Service = (*HTTPClient)(nil)

// NewHTTPClient creates a client for the lookup service at opts.BaseURL
func NewHTTPClient(opts ClientOptions) (*HTTPClient, error) {
	if opts.BaseURL == "" {
		return nil, fmt.Errorf("lookup base URL is required")
	}
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid lookup base URL: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("lookup base URL must be http or https, got %q", opts.BaseURL)
	}

	c := &HTTPClient{
		baseURL: base,
		apiKey:  opts.APIKey,
		timeout: opts.Timeout,
		logger:  opts.Logger,
		http:    opts.HTTP,
	}
	if c.timeout <= 0 {
		c.timeout = defaultTimeout
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	if c.http == nil {
		c.http = &http.Client{}
	}
	if opts.RateLimit > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	}
	return c, nil
}

// GetCaseDetails fetches one case by number or by ID
func (c *HTTPClient) GetCaseDetails(ctx context.Context, identifier string, searchType domain.SearchType) (*domain.CaseRecord, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, AsLookupError(err)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	endpoint := c.baseURL.JoinPath("api", "cases", string(searchType), identifier)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, &LookupError{Message: fmt.Sprintf("failed to build request: %v", err), Err: err}
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	log := c.logger.With(
		zap.String("request_id", requestID),
		zap.String("search_type", string(searchType)),
	)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		log.Warn("lookup request failed", zap.Error(err))
		return nil, AsLookupError(err)
	}
	defer resp.Body.Close()

	log.Debug("lookup response",
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp)
	}

	var record domain.CaseRecord
	if err := json.NewDecoder(resp.Body).Decode(&record); err != nil {
		return nil, &LookupError{
			Message:    fmt.Sprintf("invalid response body: %v", err),
			StatusCode: resp.StatusCode,
			Err:        err,
		}
	}
	return &record, nil
}

// errorBody is the service's error envelope
type errorBody struct {
	Message string `json:"message"`
}

func decodeError(resp *http.Response) *LookupError {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var body errorBody
	if err := json.Unmarshal(data, &body); err == nil && body.Message != "" {
		return &LookupError{Message: body.Message, StatusCode: resp.StatusCode}
	}

	msg := strings.TrimSpace(string(data))
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return &LookupError{Message: msg, StatusCode: resp.StatusCode}
}
