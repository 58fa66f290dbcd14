package api

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/publicsuffix"
)

const DefaultTimeout = 30 * time.Second

// Config holds the connection settings for a pod service deployment.
type Config struct {
	BaseURL            string
	Timeout            time.Duration
	InsecureSkipVerify bool
	Logger             *logrus.Logger
}

// Client talks to the pod service. It keeps the session cookie obtained by
// Login in its jar and sends it on every later request.
type Client struct {
	BaseURL string
	Client  *http.Client // Allow override for testing
	Logger  *logrus.Logger
}

// NewClient returns a new API client with an empty session.
func NewClient(cfg Config) (*Client, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.InsecureSkipVerify {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // opt-in for self-signed lab deployments
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logrus.New()
		logger.Out = io.Discard
	}

	return &Client{
		BaseURL: strings.TrimRight(cfg.BaseURL, "/"),
		Client: &http.Client{
			Timeout:   timeout,
			Jar:       jar,
			Transport: transport,
		},
		Logger: logger,
	}, nil
}

// APIError is returned for any non-2xx response. Body is the server's
// response text, unmodified apart from surrounding whitespace.
type APIError struct {
	Method string
	Path   string
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (%d) %s %s: %s", e.Status, e.Method, e.Path, e.Body)
}

// AuthError is returned when the login request is rejected.
type AuthError struct {
	Status int
	Body   string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication failed (%d): %s", e.Status, e.Body)
}

// do sends one request and returns the response body. A nil in sends no body.
func (c *Client) do(ctx context.Context, method, path string, in any) ([]byte, error) {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return nil, err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	reqID := uuid.NewString()
	req.Header.Set("X-Request-ID", reqID)

	start := time.Now()
	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s %s response: %w", method, path, err)
	}

	c.Logger.WithFields(logrus.Fields{
		"method":     method,
		"path":       path,
		"status":     resp.StatusCode,
		"request_id": reqID,
		"elapsed":    time.Since(start).Truncate(time.Millisecond),
	}).Debug("api request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return respBody, &APIError{
			Method: method,
			Path:   path,
			Status: resp.StatusCode,
			Body:   strings.TrimSpace(string(respBody)),
		}
	}
	return respBody, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	b, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// Login authenticates and stores the session cookie. It returns the raw
// response body.
func (c *Client) Login(ctx context.Context, username, password string) ([]byte, error) {
	body := map[string]string{
		"username": username,
		"password": password,
	}
	b, err := c.do(ctx, http.MethodPost, "/login", body)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			return b, &AuthError{Status: apiErr.Status, Body: apiErr.Body}
		}
		return nil, err
	}
	return b, nil
}
