package cms

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

	"github.com/claireundgeorge/accessible-site/internal/pkg/httpx"
	"github.com/claireundgeorge/accessible-site/internal/platform/envutil"
	"github.com/claireundgeorge/accessible-site/internal/platform/logger"
)

const DefaultBaseURL = "http://localhost:5001/api"

// Client talks to the content backend that stores listings and generates
// their adapted variants.
type Client interface {
	ListHotels(ctx context.Context) ([]Summary, error)
	GetHotel(ctx context.Context, id int64, tag string) (Hotel, error)
	CreateHotel(ctx context.Context, in HotelContent) (int64, error)

	ListTours(ctx context.Context) ([]Summary, error)
	GetTour(ctx context.Context, id int64, tag string) (Tour, error)
	CreateTour(ctx context.Context, in TourContent) (int64, error)

	ListCareServices(ctx context.Context) ([]Summary, error)
	GetCareService(ctx context.Context, id int64, tag string) (CareService, error)
	CreateCareService(ctx context.Context, in CareServiceContent) (int64, error)

	DisabilityTypes(ctx context.Context) (DisabilityTypes, error)
	ContentModels(ctx context.Context) (map[string]ContentModel, error)
	ValidateContent(ctx context.Context, t ContentType, body any) (Validated, error)
	RegenerateContent(ctx context.Context, t ContentType, id int64, tag string) (Regenerated, error)
}

type Config struct {
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
	// RetryBase is the first backoff step; it doubles per attempt.
	RetryBase time.Duration
}

func ConfigFromEnv(log *logger.Logger) Config {
	return Config{
		BaseURL:    envutil.String("CMS_API_BASE_URL", DefaultBaseURL, log),
		Timeout:    envutil.Duration("CMS_API_TIMEOUT_SECONDS", 30*time.Second, time.Second, log),
		MaxRetries: envutil.Int("CMS_API_MAX_RETRIES", 3, log),
		RetryBase:  500 * time.Millisecond,
	}
}

// APIError is a non-2xx reply or a reply with success=false.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("cms backend http %d: %s", e.StatusCode, e.Message)
}

func (e *APIError) HTTPStatusCode() int {
	if e == nil {
		return 0
	}
	return e.StatusCode
}

type client struct {
	log        *logger.Logger
	baseURL    string
	httpClient *http.Client
	maxRetries int
	retryBase  time.Duration
}

func NewClient(log *logger.Logger, cfg Config) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("invalid CMS_API_BASE_URL: %w", err)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.RetryBase <= 0 {
		cfg.RetryBase = 500 * time.Millisecond
	}
	return &client{
		log:        log.With("service", "CMSClient"),
		baseURL:    base,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		maxRetries: cfg.MaxRetries,
		retryBase:  cfg.RetryBase,
	}, nil
}

type envelope struct {
	Success *bool  `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (c *client) doOnce(ctx context.Context, method, path string, body any) (*http.Response, []byte, error) {
	var rdr io.Reader
	if body != nil {
		var buf bytes.Buffer
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, nil, err
		}
		rdr = &buf
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return resp, nil, readErr
	}

	var env envelope
	_ = json.Unmarshal(raw, &env)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := env.Error
		if msg == "" {
			msg = env.Message
		}
		if msg == "" {
			msg = strings.TrimSpace(string(raw))
		}
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return resp, raw, &APIError{StatusCode: resp.StatusCode, Message: msg}
	}
	if env.Success != nil && !*env.Success {
		msg := env.Error
		if msg == "" {
			msg = "request failed"
		}
		return resp, raw, &APIError{StatusCode: resp.StatusCode, Message: msg}
	}
	return resp, raw, nil
}

// read retries transient failures. Only idempotent requests go through it.
func (c *client) read(ctx context.Context, path string, out any) error {
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		resp, raw, err := c.doOnce(ctx, http.MethodGet, path, nil)
		if err == nil {
			return decode(path, raw, out)
		}
		if !httpx.IsRetryableError(err) || attempt == c.maxRetries {
			return err
		}

		sleepFor := httpx.RetryAfterDuration(resp, httpx.Backoff(attempt, c.retryBase, 10*time.Second), 10*time.Second)
		sleepFor = httpx.JitterSleep(sleepFor)

		c.log.Warn("CMS request retrying",
			"path", path,
			"attempt", attempt+1,
			"max_retries", c.maxRetries,
			"sleep", sleepFor.String(),
			"error", err.Error(),
		)

		t := time.NewTimer(sleepFor)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}
	return fmt.Errorf("unreachable retry loop")
}

func (c *client) write(ctx context.Context, path string, body any, out any) error {
	_, raw, err := c.doOnce(ctx, http.MethodPost, path, body)
	if err != nil {
		return err
	}
	return decode(path, raw, out)
}

func decode(path string, raw []byte, out any) error {
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("cms decode %s: %w", path, err)
	}
	return nil
}

func detailPath(collection string, id int64, tag string) string {
	p := "/" + collection + "/" + strconv.FormatInt(id, 10)
	if tag != "" {
		p += "?disability_type=" + url.QueryEscape(tag)
	}
	return p
}

func (c *client) ListHotels(ctx context.Context) ([]Summary, error) {
	var out struct {
		Hotels []Summary `json:"hotels"`
	}
	if err := c.read(ctx, "/hotels", &out); err != nil {
		return nil, err
	}
	return nonNil(out.Hotels), nil
}

func (c *client) GetHotel(ctx context.Context, id int64, tag string) (Hotel, error) {
	var out struct {
		Hotel Hotel `json:"hotel"`
	}
	err := c.read(ctx, detailPath("hotels", id, tag), &out)
	return out.Hotel, err
}

func (c *client) CreateHotel(ctx context.Context, in HotelContent) (int64, error) {
	var out struct {
		ID int64 `json:"hotel_id"`
	}
	err := c.write(ctx, "/hotels", in, &out)
	return out.ID, err
}

func (c *client) ListTours(ctx context.Context) ([]Summary, error) {
	var out struct {
		Tours []Summary `json:"tours"`
	}
	if err := c.read(ctx, "/tours", &out); err != nil {
		return nil, err
	}
	return nonNil(out.Tours), nil
}

func (c *client) GetTour(ctx context.Context, id int64, tag string) (Tour, error) {
	var out struct {
		Tour Tour `json:"tour"`
	}
	err := c.read(ctx, detailPath("tours", id, tag), &out)
	return out.Tour, err
}

func (c *client) CreateTour(ctx context.Context, in TourContent) (int64, error) {
	var out struct {
		ID int64 `json:"tour_id"`
	}
	err := c.write(ctx, "/tours", in, &out)
	return out.ID, err
}

func (c *client) ListCareServices(ctx context.Context) ([]Summary, error) {
	var out struct {
		Services []Summary `json:"care_services"`
	}
	if err := c.read(ctx, "/care-services", &out); err != nil {
		return nil, err
	}
	return nonNil(out.Services), nil
}

func (c *client) GetCareService(ctx context.Context, id int64, tag string) (CareService, error) {
	var out struct {
		Service CareService `json:"service"`
	}
	err := c.read(ctx, detailPath("care-services", id, tag), &out)
	return out.Service, err
}

func (c *client) CreateCareService(ctx context.Context, in CareServiceContent) (int64, error) {
	var out struct {
		ID int64 `json:"service_id"`
	}
	err := c.write(ctx, "/care-services", in, &out)
	return out.ID, err
}

func (c *client) DisabilityTypes(ctx context.Context) (DisabilityTypes, error) {
	var out DisabilityTypes
	err := c.read(ctx, "/disability-types", &out)
	return out, err
}

func (c *client) ContentModels(ctx context.Context) (map[string]ContentModel, error) {
	var out struct {
		Models map[string]ContentModel `json:"content_models"`
	}
	if err := c.read(ctx, "/content-models", &out); err != nil {
		return nil, err
	}
	if out.Models == nil {
		out.Models = map[string]ContentModel{}
	}
	return out.Models, nil
}

func (c *client) ValidateContent(ctx context.Context, t ContentType, body any) (Validated, error) {
	var out Validated
	if !t.Valid() {
		return out, fmt.Errorf("unknown content type %q", t)
	}
	err := c.write(ctx, "/validate-content/"+string(t), body, &out)
	return out, err
}

func (c *client) RegenerateContent(ctx context.Context, t ContentType, id int64, tag string) (Regenerated, error) {
	var out Regenerated
	if !t.Valid() {
		return out, fmt.Errorf("unknown content type %q", t)
	}
	path := "/regenerate-content/" + string(t) + "/" + strconv.FormatInt(id, 10)
	err := c.write(ctx, path, map[string]string{"disability_type": tag}, &out)
	return out, err
}

func nonNil(in []Summary) []Summary {
	if in == nil {
		return []Summary{}
	}
	return in
}
