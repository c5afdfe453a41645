package client

import (
	"context"
	"errors"
	"net"
	"net/http"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/contactx/contactx/internal/common"
	"github.com/contactx/contactx/internal/logging"
)

// ---- fakes ----

type fakePurger struct {
	calls int
	err   error
}

func (f *fakePurger) ClearSession(context.Context) error {
	f.calls++
	return f.err
}

func newTestClassifier(p *fakePurger) *Classifier {
	return NewClassifier(ClassifierConfig{Purger: p, Logger: logging.Discard(), BaseURL: "https://api.test/api"})
}

func statusOutcome(status int, body string) (*Response, error) {
	return &Response{Status: status, Body: []byte(body)}, &StatusError{Status: status}
}

// ---- tests ----

func TestClassifier_RuleOrder(t *testing.T) {
	c := newTestClassifier(&fakePurger{})
	assert.Equal(t,
		[]string{RuleSuccess, RuleTransport, RuleAbsorb, RuleAuthExpired, RulePropagate},
		c.RuleNames())
}

func TestClassifier_SuccessPassesThrough(t *testing.T) {
	c := newTestClassifier(&fakePurger{})
	in := &Response{Status: http.StatusCreated, Body: []byte(`{"success":true}`)}

	out, err := c.Classify(context.Background(), &Request{Method: http.MethodPost}, in, nil)
	require.NoError(t, err)
	assert.Same(t, in, out)
}

func TestClassifier_AbsorbsSchemaErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"missing column", 500, `{"message":"The column card.theme does not exist"}`},
		{"prisma invocation", 500, `{"message":"Invalid prisma.card.findMany() invocation"}`},
		{"error field", 400, `{"error":"Database is NOT AVAILABLE"}`},
		{"table", 400, `{"message":"relation table missing"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &fakePurger{}
			resp, cause := statusOutcome(tt.status, tt.body)

			out, err := newTestClassifier(p).Classify(context.Background(), &Request{Method: http.MethodGet}, resp, cause)
			require.NoError(t, err)
			require.NotNil(t, out)
			assert.Equal(t, http.StatusOK, out.Status)
			assert.True(t, gjson.GetBytes(out.Body, "success").Bool())
			assert.True(t, gjson.GetBytes(out.Body, "data").IsArray())
			assert.Len(t, gjson.GetBytes(out.Body, "data").Array(), 0)
			assert.Equal(t, common.NoDataAvailableMessage, gjson.GetBytes(out.Body, "message").String())
			assert.Zero(t, p.calls)
		})
	}
}

func TestClassifier_SchemaWordsOnOtherStatusPropagate(t *testing.T) {
	resp, cause := statusOutcome(http.StatusUnprocessableEntity, `{"message":"column name too long"}`)

	_, err := newTestClassifier(&fakePurger{}).Classify(context.Background(), &Request{}, resp, cause)
	apiErr, ok := AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, "column name too long", apiErr.UserMessage)
	assert.Equal(t, KindValidation, apiErr.Kind)
}

func TestClassifier_Unauthorized(t *testing.T) {
	p := &fakePurger{}
	c := newTestClassifier(p)
	req := &Request{Method: http.MethodGet, Path: "/auth/profile"}

	resp, cause := statusOutcome(http.StatusUnauthorized, `{"message":"jwt expired"}`)
	_, err := c.Classify(context.Background(), req, resp, cause)

	require.Error(t, err)
	assert.True(t, req.Retry)
	assert.Equal(t, 1, p.calls)
	assert.True(t, IsAuth(err))
	assert.Equal(t, "jwt expired", err.Error())

	// A request already marked does not purge again.
	_, err = c.Classify(context.Background(), req, resp, cause)
	require.Error(t, err)
	assert.Equal(t, 1, p.calls)
	assert.True(t, IsAuth(err))
}

func TestClassifier_PurgeFailureStillRejects(t *testing.T) {
	p := &fakePurger{err: errors.New("disk full")}
	resp, cause := statusOutcome(http.StatusUnauthorized, ``)

	_, err := newTestClassifier(p).Classify(context.Background(), &Request{}, resp, cause)
	apiErr, ok := AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "Request failed with status code 401", apiErr.UserMessage)
}

func TestClassifier_UserMessageFallbacks(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		cause error
		want  string
	}{
		{"message wins", `{"message":"Card not found","error":"NotFound"}`, &StatusError{Status: 404}, "Card not found"},
		{"error field", `{"error":"Forbidden"}`, &StatusError{Status: 404}, "Forbidden"},
		{"non-string message skipped", `{"message":{"code":1},"error":"Bad"}`, &StatusError{Status: 404}, "Bad"},
		{"cause text", `<html>oops</html>`, &StatusError{Status: 404}, "Request failed with status code 404"},
		{"generic", ``, nil, common.GenericErrorMessage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := &Response{Status: http.StatusNotFound, Body: []byte(tt.body)}
			_, err := newTestClassifier(&fakePurger{}).Classify(context.Background(), &Request{}, resp, tt.cause)

			apiErr, ok := AsAPIError(err)
			require.True(t, ok)
			assert.True(t, apiErr.Handled)
			assert.Equal(t, tt.want, apiErr.UserMessage)
			assert.Equal(t, KindNotFound, apiErr.Kind)
		})
	}
}

func TestClassifier_TransportKinds(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"canceled", context.Canceled, KindCanceled},
		{"deadline", context.DeadlineExceeded, KindTimeout},
		{"dns", &net.DNSError{Err: "no such host", Name: "api.test"}, KindDNS},
		{"refused", &net.OpError{Op: "dial", Err: syscall.ECONNREFUSED}, KindConnectionRefused},
		{"other", errors.New("broken pipe"), KindNetwork},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newTestClassifier(&fakePurger{}).Classify(context.Background(), &Request{}, nil, tt.err)

			apiErr, ok := AsAPIError(err)
			require.True(t, ok)
			assert.Equal(t, tt.want, apiErr.Kind)
			assert.ErrorIs(t, err, tt.err)
			if tt.want != KindCanceled {
				assert.Contains(t, apiErr.UserMessage, "https://api.test/api")
				assert.True(t, IsNetwork(err))
			}
		})
	}
}

func TestClassifier_CustomRulesFirstMatchWins(t *testing.T) {
	var applied []string
	rule := func(name string, match bool) Rule {
		return Rule{
			Name:  name,
			Match: func(*Outcome) bool { return match },
			Apply: func(context.Context, *Outcome) (*Response, error) {
				applied = append(applied, name)
				return &Response{Status: 200}, nil
			},
		}
	}
	c := NewClassifierWithRules(rule("a", false), rule("b", true), rule("c", true))

	_, err := c.Classify(context.Background(), nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, applied)
}

func TestIsSchemaError(t *testing.T) {
	assert.True(t, IsSchemaError(500, "Unknown COLUMN"))
	assert.True(t, IsSchemaError(400, "service not available"))
	assert.False(t, IsSchemaError(404, "table"))
	assert.False(t, IsSchemaError(500, "internal failure"))
}
