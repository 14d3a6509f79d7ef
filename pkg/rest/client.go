package rest

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/scholenwerk/basispoort-client/pkg/errors"
	"github.com/scholenwerk/basispoort-client/pkg/observability"
)

// LevelTrace is the log level for raw request and response payloads.
// It sits below debug so full bodies and headers stay out of normal
// debug output.
const LevelTrace = log.DebugLevel - 4

const defaultConnectTimeout = 10 * time.Second

// ClientBuilder assembles a Client. Setters chain; zero values mean
// "no limit" for the timeouts and "environment default" for the base
// URL. The identity certificate file must hold both the PEM
// certificate and its private key.
type ClientBuilder struct {
	certFile       string
	env            Environment
	baseURL        *url.URL
	timeout        time.Duration
	connectTimeout time.Duration
	minTLSVersion  uint16
	logger         *log.Logger
	httpClient     *http.Client
}

// NewClientBuilder returns a builder for the given identity certificate
// and environment.
func NewClientBuilder(certFile string, env Environment) *ClientBuilder {
	return &ClientBuilder{
		certFile:       certFile,
		env:            env,
		connectTimeout: defaultConnectTimeout,
		minTLSVersion:  tls.VersionTLS12,
		logger:         log.Default(),
	}
}

// Timeout caps the total duration of a single call, including body
// reads. Zero (the default) means no cap; callers bound calls through
// context instead.
func (b *ClientBuilder) Timeout(d time.Duration) *ClientBuilder {
	b.timeout = d
	return b
}

// ConnectTimeout caps connection establishment.
func (b *ClientBuilder) ConnectTimeout(d time.Duration) *ClientBuilder {
	b.connectTimeout = d
	return b
}

// MinTLSVersion overrides the minimum accepted TLS version
// (tls.VersionTLS12 by default).
func (b *ClientBuilder) MinTLSVersion(v uint16) *ClientBuilder {
	b.minTLSVersion = v
	return b
}

// BaseURL overrides the environment's base URL. The URL must end in a
// path separator; violations surface from the first request.
func (b *ClientBuilder) BaseURL(u *url.URL) *ClientBuilder {
	b.baseURL = u
	return b
}

// Logger sets the logger used for request/response logging.
func (b *ClientBuilder) Logger(l *log.Logger) *ClientBuilder {
	b.logger = l
	return b
}

// HTTPClient substitutes the underlying HTTP client, skipping
// certificate loading entirely. Intended for tests against mock
// servers.
func (b *ClientBuilder) HTTPClient(hc *http.Client) *ClientBuilder {
	b.httpClient = hc
	return b
}

// Build loads the identity certificate and constructs the Client.
func (b *ClientBuilder) Build() (*Client, error) {
	base := b.baseURL
	if base == nil {
		base = b.env.BaseURL()
	}

	b.logger.Info("configured client", "environment", b.env, "base_url", base)

	httpClient := b.httpClient
	if httpClient == nil {
		pem, err := os.ReadFile(b.certFile)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeIO, err, "reading identity certificate %q", b.certFile)
		}
		cert, err := tls.X509KeyPair(pem, pem)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeIO, err, "loading identity certificate %q", b.certFile)
		}

		transport := &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout: b.connectTimeout,
			}).DialContext,
			TLSClientConfig: &tls.Config{
				Certificates: []tls.Certificate{cert},
				MinVersion:   b.minTLSVersion,
			},
			ForceAttemptHTTP2:   true,
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		}
		httpClient = &http.Client{
			Transport: transport,
			Timeout:   b.timeout,
		}
	}

	return &Client{
		http:    httpClient,
		baseURL: base,
		logger:  b.logger,
	}, nil
}

// Client performs JSON requests against one Basispoort environment.
// It is immutable and safe for concurrent use.
type Client struct {
	http    *http.Client
	baseURL *url.URL
	logger  *log.Logger
}

// BaseURL returns a copy of the client's base URL.
func (c *Client) BaseURL() *url.URL {
	u := *c.baseURL
	return &u
}

// Get performs a GET request. The response body is decoded into out;
// a nil out means no response content is expected.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, nil, out)
}

// GetQuery performs a GET request with query parameters.
func (c *Client) GetQuery(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

// Post performs a POST request. A nil body sends no payload.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

// Put performs a PUT request.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, nil, body, out)
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, out)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u, err := joinURL(c.baseURL, path)
	if err != nil {
		return err
	}
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var reqBody io.Reader
	var payload []byte
	if body != nil {
		payload, err = json.Marshal(body)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "encoding request payload")
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reqBody)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidURL, err, "building %s request for %q", method, u)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	requestID := uuid.NewString()
	c.logger.Debug("request", "id", requestID, "method", method, "url", u)
	if payload != nil {
		c.logger.Log(LevelTrace, "request payload", "id", requestID, "body", string(payload))
	}

	observability.HTTP().OnRequest(ctx, method, u.Host, u.Path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		observability.HTTP().OnError(ctx, method, u.Host, u.Path, err)
		return errors.Wrap(errors.ErrCodeTransport, err, "%s %s", method, u)
	}
	defer resp.Body.Close()

	observability.HTTP().OnResponse(ctx, method, u.Host, u.Path, resp.StatusCode, time.Since(start))

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		observability.HTTP().OnError(ctx, method, u.Host, u.Path, err)
		return errors.Wrap(errors.ErrCodeTransport, err, "reading response from %s %s", method, u)
	}

	// Log the raw exchange before any interpretation, so malformed
	// responses are still visible in full.
	c.logger.Debug("response", "id", requestID, "status", resp.StatusCode)
	c.logger.Log(LevelTrace, "response detail", "id", requestID, "headers", resp.Header, "body", string(raw))

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return statusError(u, resp.StatusCode, raw)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &errors.DeserializationError{
			Status:  resp.StatusCode,
			Snippet: snippet(raw),
			Cause:   err,
		}
	}
	return nil
}

// statusError builds the error for a non-success response. The error
// body is decoded as JSON when possible; otherwise only the raw text is
// carried.
func statusError(u *url.URL, status int, raw []byte) error {
	var payload any
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &payload); err != nil {
			payload = nil
		}
	}
	return &errors.StatusError{
		Status:  status,
		URL:     u.String(),
		Payload: payload,
		Raw:     string(raw),
	}
}

const maxSnippetLen = 256

func snippet(raw []byte) string {
	if len(raw) > maxSnippetLen {
		return string(raw[:maxSnippetLen])
	}
	return string(raw)
}
