package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/contactx/contactx/internal/client/metrics"
	"github.com/contactx/contactx/internal/logging"
)

const DefaultTimeout = 30 * time.Second

// maxBodySize caps how much of a response body is read.
var maxBodySize int64 = 10 << 20

// ErrBodyTooLarge means the response body exceeded maxBodySize.
var ErrBodyTooLarge = errors.New("response body too large")

const outcomeTooLarge = "too_large"

// Doer is the surface the service façade depends on.
type Doer interface {
	Do(ctx context.Context, req *Request) (*Response, error)
}

// SessionStore is the part of the token store the client needs.
type SessionStore interface {
	TokenSource
	SessionPurger
}

type Options struct {
	BaseURL     string
	Timeout     time.Duration
	Store       SessionStore
	Logger      logging.Logger
	Development bool
	// Transport overrides the HTTP round tripper; nil uses the default.
	Transport http.RoundTripper
	// Timezone resolves X-Timezone; nil uses ResolveTimezone.
	Timezone func() (string, error)
}

type HTTPClient struct {
	baseURL      string
	http         *http.Client
	interceptors []RequestInterceptor
	classifier   *Classifier
	logger       logging.Logger
}

func New(opts Options) *HTTPClient {
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Timezone == nil {
		opts.Timezone = ResolveTimezone
	}

	interceptors := []RequestInterceptor{JSONHeaders()}
	if opts.Store != nil {
		interceptors = append(interceptors, BearerAuth(opts.Store, opts.Logger))
	}
	interceptors = append(interceptors,
		OriginHeaders(opts.BaseURL),
		TimezoneHeader(opts.Timezone),
		RequestID(),
	)
	if opts.Development {
		interceptors = append(interceptors, DebugLog(opts.Logger))
	}

	var purger SessionPurger
	if opts.Store != nil {
		purger = opts.Store
	}

	return &HTTPClient{
		baseURL:      strings.TrimSuffix(opts.BaseURL, "/"),
		http:         &http.Client{Timeout: opts.Timeout, Transport: opts.Transport},
		interceptors: interceptors,
		classifier: NewClassifier(ClassifierConfig{
			Purger:      purger,
			Logger:      opts.Logger,
			Development: opts.Development,
			BaseURL:     opts.BaseURL,
		}),
		logger: opts.Logger,
	}
}

// Do sends req and classifies the result. A nil error always comes with a
// 2xx response, possibly the synthetic empty one.
func (c *HTTPClient) Do(ctx context.Context, req *Request) (*Response, error) {
	start := time.Now()

	httpReq, err := c.newHTTPRequest(ctx, req)
	if err != nil {
		metrics.ObserveRequest(req.Method, "request", time.Since(start))
		return nil, &APIError{
			Handled:     true,
			UserMessage: err.Error(),
			Kind:        KindRequest,
			Method:      req.Method,
			Path:        req.Path,
			Err:         err,
		}
	}

	resp, err := c.roundTrip(httpReq)
	if errors.Is(err, ErrBodyTooLarge) {
		metrics.ObserveRequest(req.Method, outcomeTooLarge, time.Since(start))
		c.logger.Error(ctx, "response body too large", "method", req.Method, "path", req.Path, "limit", maxBodySize)
		return nil, &APIError{
			Handled:     true,
			UserMessage: "The server response was too large to read",
			Kind:        KindServer,
			Status:      resp.Status,
			Method:      req.Method,
			Path:        req.Path,
			Err:         err,
		}
	}
	rule, out, err := c.classifier.classify(ctx, &Outcome{Request: req, Response: resp, Err: err})
	metrics.ObserveRequest(req.Method, rule, time.Since(start))
	return out, err
}

func (c *HTTPClient) newHTTPRequest(ctx context.Context, req *Request) (*http.Request, error) {
	u := c.baseURL + "/" + strings.TrimPrefix(req.Path, "/")
	if len(req.Query) > 0 {
		u += "?" + req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		b, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(b)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, u, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	for k, vs := range req.Header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}

	for _, ic := range c.interceptors {
		if err := ic(ctx, httpReq); err != nil {
			return nil, err
		}
	}
	return httpReq, nil
}

func (c *HTTPClient) roundTrip(httpReq *http.Request) (*Response, error) {
	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(httpResp.Body, maxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	if int64(len(body)) > maxBodySize {
		return &Response{Status: httpResp.StatusCode, Header: httpResp.Header}, ErrBodyTooLarge
	}

	resp := &Response{Status: httpResp.StatusCode, Header: httpResp.Header, Body: body}
	if !resp.OK() {
		return resp, &StatusError{Status: resp.Status}
	}
	return resp, nil
}
