package client

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAPIError_Predicates(t *testing.T) {
	auth := &APIError{Kind: KindAuth, UserMessage: "Unauthorized"}
	offline := fmt.Errorf("load cards: %w", &APIError{Kind: KindTimeout, UserMessage: "timed out"})
	missing := &APIError{Kind: KindNotFound, Status: 404}
	noCard := &APIError{Kind: KindValidation, UserMessage: "No card found for this user"}

	assert.True(t, IsAuth(auth))
	assert.False(t, IsAuth(offline))
	assert.True(t, IsNetwork(offline))
	assert.ErrorIs(t, offline, ErrUnavailable)
	assert.True(t, IsNotFound(missing))

	assert.True(t, IsEmptyState(missing))
	assert.True(t, IsEmptyState(noCard))
	assert.False(t, IsEmptyState(offline))
	assert.False(t, IsEmptyState(errors.New("not found")))
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "", UserMessage(nil))
	assert.Equal(t, "boom", UserMessage(errors.New("boom")))
	assert.Equal(t, "Card not found", UserMessage(fmt.Errorf("wrap: %w", &APIError{UserMessage: "Card not found"})))
}

func TestKind_Transport(t *testing.T) {
	for _, k := range []Kind{KindTimeout, KindConnectionRefused, KindDNS, KindNetwork} {
		assert.True(t, k.Transport(), k)
	}
	for _, k := range []Kind{KindCanceled, KindAuth, KindServer, KindRequest} {
		assert.False(t, k.Transport(), k)
	}
}
