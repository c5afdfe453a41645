package client

import (
	"context"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/contactx/contactx/internal/common"
	"github.com/contactx/contactx/internal/logging"
)

// Outcome is what the transport produced for one request. Response is nil
// when nothing came back.
type Outcome struct {
	Request  *Request
	Response *Response
	Err      error
}

// Rule is one classifier step. Apply returns either a response to resolve
// with or an error to reject with.
type Rule struct {
	Name  string
	Match func(o *Outcome) bool
	Apply func(ctx context.Context, o *Outcome) (*Response, error)
}

// SessionPurger clears the stored session after an expired token.
type SessionPurger interface {
	ClearSession(ctx context.Context) error
}

const (
	RuleSuccess     = "success"
	RuleTransport   = "transport"
	RuleAbsorb      = "absorb-schema-error"
	RuleAuthExpired = "auth-expired"
	RulePropagate   = "propagate"
)

// SchemaErrorVocabulary are the substrings that mark a backend database
// failure the UI should render as an empty list.
var SchemaErrorVocabulary = []string{
	"column",
	"table",
	"does not exist",
	"database",
	"prisma",
	"not available",
	"invocation",
}

// IsSchemaError reports whether a status/message pair is absorbed.
func IsSchemaError(status int, message string) bool {
	if status != http.StatusBadRequest && status != http.StatusInternalServerError {
		return false
	}
	msg := strings.ToLower(message)
	for _, word := range SchemaErrorVocabulary {
		if strings.Contains(msg, word) {
			return true
		}
	}
	return false
}

// EmptyDataBody is the synthetic body returned for absorbed errors.
var EmptyDataBody = []byte(`{"success":true,"data":[],"message":"` + common.NoDataAvailableMessage + `"}`)

type ClassifierConfig struct {
	Purger      SessionPurger
	Logger      logging.Logger
	Development bool
	BaseURL     string
}

type Classifier struct {
	rules []Rule
}

func NewClassifier(cfg ClassifierConfig) *Classifier {
	if cfg.Logger == nil {
		cfg.Logger = logging.Discard()
	}
	return NewClassifierWithRules(DefaultRules(cfg)...)
}

func NewClassifierWithRules(rules ...Rule) *Classifier {
	return &Classifier{rules: rules}
}

// RuleNames lists the rules in evaluation order.
func (c *Classifier) RuleNames() []string {
	names := make([]string, len(c.rules))
	for i, r := range c.rules {
		names[i] = r.Name
	}
	return names
}

// Classify decides the final result of a request.
func (c *Classifier) Classify(ctx context.Context, req *Request, resp *Response, err error) (*Response, error) {
	_, out, err := c.classify(ctx, &Outcome{Request: req, Response: resp, Err: err})
	return out, err
}

func (c *Classifier) classify(ctx context.Context, o *Outcome) (string, *Response, error) {
	if o.Request == nil {
		o.Request = &Request{}
	}
	for _, r := range c.rules {
		if r.Match(o) {
			out, err := r.Apply(ctx, o)
			return r.Name, out, err
		}
	}
	return RulePropagate, nil, newAPIError(o)
}

func DefaultRules(cfg ClassifierConfig) []Rule {
	return []Rule{
		SuccessRule(cfg.Logger, cfg.Development),
		TransportRule(cfg.BaseURL),
		AbsorbSchemaErrorRule(cfg.Logger),
		AuthExpiredRule(cfg.Purger, cfg.Logger),
		PropagateRule(),
	}
}

func SuccessRule(logger logging.Logger, development bool) Rule {
	return Rule{
		Name: RuleSuccess,
		Match: func(o *Outcome) bool {
			return o.Err == nil && o.Response != nil && o.Response.OK()
		},
		Apply: func(ctx context.Context, o *Outcome) (*Response, error) {
			if development {
				logger.Debug(ctx, "api response",
					"method", o.Request.Method,
					"path", o.Request.Path,
					"status", o.Response.Status)
			}
			return o.Response, nil
		},
	}
}

func TransportRule(baseURL string) Rule {
	return Rule{
		Name: RuleTransport,
		Match: func(o *Outcome) bool {
			return o.Response == nil
		},
		Apply: func(_ context.Context, o *Outcome) (*Response, error) {
			kind := transportKind(o.Err)
			return nil, &APIError{
				Handled:     true,
				UserMessage: transportMessage(kind, baseURL),
				Kind:        kind,
				Method:      o.Request.Method,
				Path:        o.Request.Path,
				Err:         o.Err,
			}
		},
	}
}

func AbsorbSchemaErrorRule(logger logging.Logger) Rule {
	return Rule{
		Name: RuleAbsorb,
		Match: func(o *Outcome) bool {
			return o.Response != nil && IsSchemaError(o.Response.Status, messageOf(o))
		},
		Apply: func(ctx context.Context, o *Outcome) (*Response, error) {
			logger.Warn(ctx, "backend data error absorbed",
				"method", o.Request.Method,
				"path", o.Request.Path,
				"status", o.Response.Status,
				"message", messageOf(o))
			return &Response{
				Status: http.StatusOK,
				Header: http.Header{common.HeaderContentType: []string{common.ContentTypeJSON}},
				Body:   append([]byte(nil), EmptyDataBody...),
			}, nil
		},
	}
}

// AuthExpiredRule purges the session on the first 401 of a request. The
// request is still rejected; callers decide where to send the user.
func AuthExpiredRule(purger SessionPurger, logger logging.Logger) Rule {
	return Rule{
		Name: RuleAuthExpired,
		Match: func(o *Outcome) bool {
			return o.Response != nil && o.Response.Status == http.StatusUnauthorized && !o.Request.Retry
		},
		Apply: func(ctx context.Context, o *Outcome) (*Response, error) {
			o.Request.Retry = true
			if purger != nil {
				if err := purger.ClearSession(ctx); err != nil {
					logger.Error(ctx, "clear expired session", "error", err)
				}
			}
			logger.Info(ctx, "session expired", "path", o.Request.Path)
			return nil, newAPIError(o)
		},
	}
}

func PropagateRule() Rule {
	return Rule{
		Name: RulePropagate,
		Match: func(*Outcome) bool {
			return true
		},
		Apply: func(_ context.Context, o *Outcome) (*Response, error) {
			return nil, newAPIError(o)
		},
	}
}

func newAPIError(o *Outcome) *APIError {
	e := &APIError{
		Handled:     true,
		UserMessage: messageOf(o),
		Kind:        KindUnknown,
		Method:      o.Request.Method,
		Path:        o.Request.Path,
		Err:         o.Err,
	}
	if o.Response != nil {
		e.Status = o.Response.Status
		e.Kind = kindForStatus(o.Response.Status)
		e.Body = o.Response.Body
	}
	return e
}

// messageOf picks body "message", body "error", the cause text, then the
// generic fallback. Non-string fields are skipped.
func messageOf(o *Outcome) string {
	if o.Response != nil && gjson.ValidBytes(o.Response.Body) {
		for _, path := range []string{"message", "error"} {
			if r := gjson.GetBytes(o.Response.Body, path); r.Type == gjson.String && r.Str != "" {
				return r.Str
			}
		}
	}
	if o.Err != nil && o.Err.Error() != "" {
		return o.Err.Error()
	}
	return common.GenericErrorMessage
}
