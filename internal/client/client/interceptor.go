package client

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/contactx/contactx/internal/common"
	"github.com/contactx/contactx/internal/logging"
)

// RequestInterceptor decorates an outgoing request. A non-nil error aborts
// the request before it is sent.
type RequestInterceptor func(ctx context.Context, req *http.Request) error

// TokenSource yields the current bearer token; "" means signed out.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

func JSONHeaders() RequestInterceptor {
	return func(_ context.Context, req *http.Request) error {
		req.Header.Set(common.HeaderContentType, common.ContentTypeJSON)
		req.Header.Set(common.HeaderAccept, common.ContentTypeJSON)
		return nil
	}
}

// BearerAuth attaches the stored token. A failing store is logged and the
// request goes out unauthenticated.
func BearerAuth(tokens TokenSource, logger logging.Logger) RequestInterceptor {
	return func(ctx context.Context, req *http.Request) error {
		token, err := tokens.Token(ctx)
		if err != nil {
			logger.Warn(ctx, "read auth token", "error", err)
			return nil
		}
		if token != "" {
			req.Header.Set(common.HeaderAuthorization, common.BearerPrefix+token)
		}
		return nil
	}
}

// OriginFromBaseURL strips a trailing slash and then a trailing "/api".
func OriginFromBaseURL(baseURL string) string {
	origin := strings.TrimSuffix(baseURL, "/")
	return strings.TrimSuffix(origin, common.APIPathSuffix)
}

// OriginHeaders sets the whole origin family to the same value; the backend
// checks whichever one its proxy forwards.
func OriginHeaders(baseURL string) RequestInterceptor {
	origin := OriginFromBaseURL(baseURL)
	return func(_ context.Context, req *http.Request) error {
		for _, h := range []string{
			common.HeaderOrigin,
			common.HeaderXOrigin,
			common.HeaderRequestedOrigin,
			common.HeaderForwardedOrigin,
			common.HeaderReferer,
		} {
			req.Header.Set(h, origin)
		}
		return nil
	}
}

// TimezoneHeader sets X-Timezone when resolve succeeds and is silent otherwise.
func TimezoneHeader(resolve func() (string, error)) RequestInterceptor {
	return func(_ context.Context, req *http.Request) error {
		if resolve == nil {
			return nil
		}
		tz, err := resolve()
		if err == nil && tz != "" {
			req.Header.Set(common.HeaderTimezone, tz)
		}
		return nil
	}
}

func RequestID() RequestInterceptor {
	return func(_ context.Context, req *http.Request) error {
		if req.Header.Get(common.HeaderRequestID) == "" {
			req.Header.Set(common.HeaderRequestID, uuid.NewString())
		}
		return nil
	}
}

func DebugLog(logger logging.Logger) RequestInterceptor {
	return func(ctx context.Context, req *http.Request) error {
		logger.Debug(ctx, "api request",
			"method", req.Method,
			"url", req.URL.String(),
			"request_id", req.Header.Get(common.HeaderRequestID))
		return nil
	}
}
