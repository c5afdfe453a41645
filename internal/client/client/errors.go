package client

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/contactx/contactx/internal/common"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
)

// Kind is the coarse category of a rejected request.
type Kind string

const (
	KindRequest           Kind = "request"
	KindCanceled          Kind = "canceled"
	KindTimeout           Kind = "timeout"
	KindConnectionRefused Kind = "connection_refused"
	KindDNS               Kind = "dns"
	KindNetwork           Kind = "network"
	KindValidation        Kind = "validation"
	KindAuth              Kind = "auth"
	KindForbidden         Kind = "forbidden"
	KindNotFound          Kind = "not_found"
	KindServer            Kind = "server"
	KindUnknown           Kind = "unknown"
)

// Transport reports whether the kind means no response was received.
func (k Kind) Transport() bool {
	switch k {
	case KindTimeout, KindConnectionRefused, KindDNS, KindNetwork:
		return true
	}
	return false
}

func kindForStatus(status int) Kind {
	switch {
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return KindValidation
	case status == http.StatusUnauthorized:
		return KindAuth
	case status == http.StatusForbidden:
		return KindForbidden
	case status == http.StatusNotFound:
		return KindNotFound
	case status >= 500:
		return KindServer
	default:
		return KindUnknown
	}
}

// APIError is the normalized form of every rejected request.
type APIError struct {
	Handled     bool
	UserMessage string
	Kind        Kind
	Status      int
	Method      string
	Path        string
	Body        []byte
	Err         error
}

func (e *APIError) Error() string {
	return e.UserMessage
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// Is maps kinds onto the package sentinels.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Kind == KindAuth
	case ErrUnavailable:
		return e.Kind.Transport()
	}
	return false
}

// StatusError is the cause attached to a non-2xx response.
type StatusError struct {
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("Request failed with status code %d", e.Status)
}

// AsAPIError unwraps err to an *APIError.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// UserMessage returns the text to show for err.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if apiErr, ok := AsAPIError(err); ok && apiErr.UserMessage != "" {
		return apiErr.UserMessage
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return common.GenericErrorMessage
}

func IsAuth(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

func IsNetwork(err error) bool {
	return errors.Is(err, ErrUnavailable)
}

func IsNotFound(err error) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.Kind == KindNotFound
}

var emptyStatePhrases = []string{
	"no card found",
	"no cards found",
	"no contacts found",
	"not found",
}

// IsEmptyState reports whether err means "nothing here yet" rather than a
// failure worth an alert: a 404, or a message such as "No card found".
func IsEmptyState(err error) bool {
	apiErr, ok := AsAPIError(err)
	if !ok || apiErr.Kind.Transport() || apiErr.Kind == KindAuth {
		return false
	}
	if IsNotFound(err) {
		return true
	}
	msg := strings.ToLower(apiErr.UserMessage)
	for _, p := range emptyStatePhrases {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}
