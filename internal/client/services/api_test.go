package services

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contactx/contactx/internal/client/client"
	"github.com/contactx/contactx/internal/client/models"
	"github.com/contactx/contactx/internal/common"
)

func TestAPI_ScanCard_LocationQuery(t *testing.T) {
	h := newHarness(t)
	h.backend.handle("GET /api/scan/{id}", http.StatusOK, `{"success":true,"data":{"card":{"id":"abc123"}}}`)

	env, err := h.api.ScanCard(context.Background(), "abc123", models.ScanSourceQR, &models.Location{Latitude: models.Float(1.5)})
	require.NoError(t, err)

	got := h.backend.last()
	assert.Equal(t, "/api/scan/abc123", got.Path)
	assert.Equal(t, "source=qr&latitude=1.5", got.Query)
	for _, key := range []string{"longitude", "city", "country", "street", "district", "region", "postalCode", "addressName", "formattedAddress"} {
		assert.NotContains(t, got.Query, key)
	}

	card, err := env.Card()
	require.NoError(t, err)
	assert.Equal(t, "abc123", card.ID)
}

func TestAPI_ScanCard_NoLocation(t *testing.T) {
	h := newHarness(t)
	h.backend.handle("GET /api/scan/{id}", http.StatusOK, `{}`)

	_, err := h.api.ScanCard(context.Background(), "c1", models.ScanSourceLink, nil)
	require.NoError(t, err)
	assert.Equal(t, "source=link", h.backend.last().Query)

	_, err = h.api.ScanCard(context.Background(), "", models.ScanSourceQR, nil)
	assert.ErrorIs(t, err, common.ErrInvalidData)
}

func TestAPI_CardEndpoints(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.backend.handle("GET /api/card/all", http.StatusOK, `{"data":{"cards":[{"id":"c1"},{"id":"c2"}]}}`)
	h.backend.handle("PUT /api/card/update/{id}", http.StatusOK, `{"success":true}`)
	h.backend.handle("DELETE /api/card/delete/{id}", http.StatusOK, `{"success":true}`)

	env, err := h.api.GetCards(ctx)
	require.NoError(t, err)
	cards, err := env.Cards()
	require.NoError(t, err)
	assert.Len(t, cards, 2)

	_, err = h.api.UpdateCard(ctx, "c1", models.Card{Name: "Ada"})
	require.NoError(t, err)
	got := h.backend.last()
	assert.Equal(t, http.MethodPut, got.Method)
	assert.Equal(t, "/api/card/update/c1", got.Path)
	assert.Equal(t, "Ada", got.Body["name"])

	_, err = h.api.DeleteCard(ctx, "c2")
	require.NoError(t, err)
	assert.Equal(t, "/api/card/delete/c2", h.backend.last().Path)
}

func TestAPI_CreateCardRemembersLastCreated(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.backend.handle("POST /api/card/create", http.StatusCreated, `{"success":true,"data":{"id":"new1","name":"Ada"}}`)

	last, err := h.api.LastCreatedCard(ctx)
	require.NoError(t, err)
	assert.Nil(t, last)

	_, err = h.api.CreateCard(ctx, map[string]string{"name": "Ada"})
	require.NoError(t, err)

	last, err = h.api.LastCreatedCard(ctx)
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, "new1", last.ID)
}

func TestAPI_SchemaErrorReadsAsEmptyList(t *testing.T) {
	h := newHarness(t)
	h.backend.handle("GET /api/contacts/all", http.StatusInternalServerError,
		`{"message":"Invalid prisma.contact.findMany() invocation: The table main.Contact does not exist"}`)

	env, err := h.api.GetContacts(context.Background())
	require.NoError(t, err)
	contacts, err := env.Contacts()
	require.NoError(t, err)
	assert.Empty(t, contacts)
	assert.Equal(t, common.NoDataAvailableMessage, env.Message())
}

func TestAPI_ErrorsPropagateUnchanged(t *testing.T) {
	h := newHarness(t)
	h.backend.handle("DELETE /api/contacts/delete/{id}", http.StatusForbidden, `{"error":"Not your contact"}`)

	_, err := h.api.DeleteContact(context.Background(), "k1")
	apiErr, ok := client.AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, client.KindForbidden, apiErr.Kind)
	assert.Equal(t, "Not your contact", apiErr.UserMessage)
}

func TestAPI_SaveContactOnce(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.backend.handle("GET /api/contacts/all", http.StatusOK, `{"data":{"contacts":[{"id":"k1","cardId":"c1"},{"id":"k2","card":{"id":"c2"}}]}}`)
	h.backend.handle("POST /api/contacts/save/{id}", http.StatusCreated, `{"success":true}`)

	_, err := h.api.SaveContactOnce(ctx, "c2", nil)
	assert.ErrorIs(t, err, ErrContactExists)
	assert.Equal(t, http.MethodGet, h.backend.last().Method)

	_, err = h.api.SaveContactOnce(ctx, "c3", map[string]string{"notes": "met at expo"})
	require.NoError(t, err)
	got := h.backend.last()
	assert.Equal(t, "/api/contacts/save/c3", got.Path)
	assert.Equal(t, "met at expo", got.Body["notes"])
}

func TestAPI_SaveContactOnce_EmptyList(t *testing.T) {
	h := newHarness(t)
	h.backend.handle("GET /api/contacts/all", http.StatusNotFound, `{"message":"No contacts found"}`)
	h.backend.handle("POST /api/contacts/save/{id}", http.StatusOK, `{"success":true}`)

	_, err := h.api.SaveContactOnce(context.Background(), "c1", nil)
	require.NoError(t, err)
	assert.Equal(t, "/api/contacts/save/c1", h.backend.last().Path)
}

func TestAPI_ContactEndpoints(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.backend.handle("POST /api/contacts/create", http.StatusCreated, `{"success":true}`)
	h.backend.handle("PUT /api/contacts/update/{id}", http.StatusOK, `{"success":true}`)

	_, err := h.api.CreateContact(ctx, models.Contact{Name: "Grace"})
	require.NoError(t, err)
	assert.Equal(t, "Grace", h.backend.last().Body["name"])

	_, err = h.api.UpdateContact(ctx, "k9", models.Contact{Notes: "x"})
	require.NoError(t, err)
	assert.Equal(t, "/api/contacts/update/k9", h.backend.last().Path)
}

func TestAPI_VisitorShares(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.backend.handle("POST /api/contacts/visitor/share-contact", http.StatusOK, `{"success":true}`)
	h.backend.handle("GET /api/contacts/visitor/pending-shares", http.StatusOK, `{"data":{"shares":[{"id":"s1","status":"pending"}]}}`)
	h.backend.handle("POST /api/contacts/visitor/approve-share/{id}", http.StatusOK, `{"success":true}`)
	h.backend.handle("POST /api/contacts/visitor/reject-share/{id}", http.StatusOK, `{"success":true}`)

	_, err := h.api.ShareVisitorContact(ctx, models.ShareRequest{
		OwnerCardID:   "owner",
		VisitorCardID: "visitor",
		ScanLocation:  &models.Location{City: models.String("Riga")},
	})
	require.NoError(t, err)
	body := h.backend.last().Body
	assert.Equal(t, "owner", body["ownerCardId"])
	assert.Equal(t, "visitor", body["visitorCardId"])
	assert.Equal(t, map[string]any{"city": "Riga"}, body["scanLocation"])

	env, err := h.api.PendingShares(ctx)
	require.NoError(t, err)
	shares, err := env.Shares()
	require.NoError(t, err)
	require.Len(t, shares, 1)

	_, err = h.api.ApproveShare(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "/api/contacts/visitor/approve-share/s1", h.backend.last().Path)

	_, err = h.api.RejectShare(ctx, "s2")
	require.NoError(t, err)
	assert.Equal(t, "/api/contacts/visitor/reject-share/s2", h.backend.last().Path)

	_, err = h.api.ShareVisitorContact(ctx, models.ShareRequest{OwnerCardID: "owner"})
	assert.True(t, errors.Is(err, common.ErrInvalidData))
}
