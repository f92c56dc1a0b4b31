package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/julianstephens/eathmover/internal/constants"
	"github.com/julianstephens/eathmover/internal/errors"
	"github.com/julianstephens/eathmover/internal/logger"
	"github.com/julianstephens/eathmover/internal/models"
)

// maxBodyBytes caps how much of a response is read.
const maxBodyBytes = 4 << 20

type Options struct {
	BaseURL       string
	Timeout       time.Duration
	RatePerSecond float64
	Burst         int
	// HTTPClient overrides the default client; Timeout is then ignored.
	HTTPClient *http.Client
	// Token supplies the bearer token for each request, if any.
	Token func() string
}

// Client is the net/http implementation of Gateway. Requests are throttled
// client-side and never retried.
type Client struct {
	base    *url.URL
	http    *http.Client
	limiter *rate.Limiter
	token   func() string
}

func NewClient(opts Options) (*Client, error) {
	raw := opts.BaseURL
	if raw == "" {
		raw = constants.DefaultBaseURL
	}
	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}
	base, err := url.Parse(raw)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid base url %q", opts.BaseURL)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = constants.DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	perSec := opts.RatePerSecond
	if perSec <= 0 {
		perSec = constants.DefaultRatePerSec
	}
	burst := opts.Burst
	if burst <= 0 {
		burst = 1
	}

	token := opts.Token
	if token == nil {
		token = func() string { return "" }
	}

	return &Client{
		base:    base,
		http:    httpClient,
		limiter: rate.NewLimiter(rate.Limit(perSec), burst),
		token:   token,
	}, nil
}

// BaseURL returns the resolved API root.
func (c *Client) BaseURL() string {
	return c.base.String()
}

type rawResponse struct {
	status int
	body   []byte
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, body any) (rawResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return rawResponse{}, errors.Transport(err)
	}

	ref := &url.URL{Path: path}
	if len(query) > 0 {
		ref.RawQuery = query.Encode()
	}
	target := c.base.ResolveReference(ref)

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return rawResponse{}, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return rawResponse{}, fmt.Errorf("failed to build request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(constants.RequestIDHeader, requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok := c.token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	start := time.Now()
	res, err := c.http.Do(req)
	if err != nil {
		logger.Warn("Request failed", "method", method, "path", path, "request_id", requestID, "error", err)
		return rawResponse{}, errors.Transport(err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(io.LimitReader(res.Body, maxBodyBytes))
	if err != nil {
		return rawResponse{}, errors.Transport(err)
	}
	logger.Debug("Request completed", "method", method, "path", path, "status", res.StatusCode,
		"request_id", requestID, "elapsed", time.Since(start))
	return rawResponse{status: res.StatusCode, body: data}, nil
}

// call performs a request and decodes the envelope. A non-2xx status, an
// undecodable body, or a missing/false success flag is a failure.
func call[T any](ctx context.Context, c *Client, method, path string, query url.Values, body any) (models.Envelope[T], error) {
	var env models.Envelope[T]

	res, err := c.send(ctx, method, path, query, body)
	if err != nil {
		return env, err
	}

	decodeErr := json.Unmarshal(res.body, &env)
	if res.status < 200 || res.status > 299 {
		msg := ""
		if decodeErr == nil {
			msg = env.Text()
		}
		return env, errors.API(res.status, msg)
	}
	if decodeErr != nil {
		return env, errors.Transport(fmt.Errorf("decode %s: %w", path, decodeErr))
	}
	if !env.Succeeded() {
		return env, errors.API(res.status, env.Text())
	}
	return env, nil
}

func get[T any](ctx context.Context, c *Client, path string, query url.Values) (models.Envelope[T], error) {
	return call[T](ctx, c, http.MethodGet, path, query, nil)
}

func post[T any](ctx context.Context, c *Client, path string, body any) (models.Envelope[T], error) {
	return call[T](ctx, c, http.MethodPost, path, nil, body)
}

// message posts body and returns the server's confirmation text.
func (c *Client) message(ctx context.Context, path string, body any) (string, error) {
	env, err := post[json.RawMessage](ctx, c, path, body)
	if err != nil {
		return "", err
	}
	return env.Text(), nil
}
