package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/contactx/contactx/internal/client/client"
	"github.com/contactx/contactx/internal/client/models"
	"github.com/contactx/contactx/internal/common"
	"github.com/contactx/contactx/internal/logging"
)

const lastCreatedCardTTL = 10 * time.Second

// APIService covers cards, scans, contacts and visitor shares.
type APIService interface {
	GetCards(ctx context.Context) (*models.Envelope, error)
	CreateCard(ctx context.Context, card any) (*models.Envelope, error)
	UpdateCard(ctx context.Context, id string, card any) (*models.Envelope, error)
	DeleteCard(ctx context.Context, id string) (*models.Envelope, error)
	LastCreatedCard(ctx context.Context) (*models.Card, error)

	ScanCard(ctx context.Context, cardID string, source models.ScanSource, loc *models.Location) (*models.Envelope, error)

	CreateContact(ctx context.Context, contact any) (*models.Envelope, error)
	SaveContact(ctx context.Context, cardID string, contact any) (*models.Envelope, error)
	SaveContactOnce(ctx context.Context, cardID string, contact any) (*models.Envelope, error)
	GetContacts(ctx context.Context) (*models.Envelope, error)
	UpdateContact(ctx context.Context, id string, contact any) (*models.Envelope, error)
	DeleteContact(ctx context.Context, id string) (*models.Envelope, error)

	ShareVisitorContact(ctx context.Context, req models.ShareRequest) (*models.Envelope, error)
	PendingShares(ctx context.Context) (*models.Envelope, error)
	ApproveShare(ctx context.Context, id string) (*models.Envelope, error)
	RejectShare(ctx context.Context, id string) (*models.Envelope, error)
}

// Cache is the expiring store used for the last created card.
type Cache interface {
	Put(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Get(ctx context.Context, key string) ([]byte, error)
}

type apiService struct {
	client client.Doer
	cache  Cache
	logger logging.Logger
}

// NewAPIService builds the façade. cache may be nil.
func NewAPIService(c client.Doer, cache Cache, logger logging.Logger) APIService {
	if logger == nil {
		logger = logging.Discard()
	}
	return &apiService{client: c, cache: cache, logger: logger}
}

func (s *apiService) do(ctx context.Context, method, path string, body any) (*models.Envelope, error) {
	return send(ctx, s.client, client.NewRequest(method, path, body))
}

// withID appends an escaped path segment.
func withID(prefix, id string) (string, error) {
	if id == "" {
		return "", fmt.Errorf("%s: id is required: %w", prefix, common.ErrInvalidData)
	}
	return prefix + "/" + url.PathEscape(id), nil
}

func (s *apiService) GetCards(ctx context.Context) (*models.Envelope, error) {
	return s.do(ctx, http.MethodGet, "/card/all", nil)
}

// CreateCard also remembers the created card for a few seconds so that the
// next screen can show it before the list endpoint catches up.
func (s *apiService) CreateCard(ctx context.Context, card any) (*models.Envelope, error) {
	env, err := s.do(ctx, http.MethodPost, "/card/create", card)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.Put(ctx, common.KeyLastCreatedCard, env.Data(), lastCreatedCardTTL); err != nil {
			s.logger.Warn(ctx, "cache created card", "error", err)
		}
	}
	return env, nil
}

func (s *apiService) LastCreatedCard(ctx context.Context) (*models.Card, error) {
	if s.cache == nil {
		return nil, nil
	}
	raw, err := s.cache.Get(ctx, common.KeyLastCreatedCard)
	if err != nil || raw == nil {
		return nil, err
	}
	c, err := models.NewEnvelope(http.StatusOK, raw).Card()
	if errors.Is(err, models.ErrNoPayload) {
		err = json.Unmarshal(raw, &c)
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *apiService) UpdateCard(ctx context.Context, id string, card any) (*models.Envelope, error) {
	path, err := withID("/card/update", id)
	if err != nil {
		return nil, err
	}
	return s.do(ctx, http.MethodPut, path, card)
}

func (s *apiService) DeleteCard(ctx context.Context, id string) (*models.Envelope, error) {
	path, err := withID("/card/delete", id)
	if err != nil {
		return nil, err
	}
	return s.do(ctx, http.MethodDelete, path, nil)
}

// ScanCard fetches a scanned card. source comes first in the query, then the
// known location fields in a fixed order; unknown fields are left out.
func (s *apiService) ScanCard(ctx context.Context, cardID string, source models.ScanSource, loc *models.Location) (*models.Envelope, error) {
	path, err := withID("/scan", cardID)
	if err != nil {
		return nil, err
	}
	if source == "" {
		source = models.ScanSourceQR
	}
	q := client.Query{}.Add("source", string(source))
	q = loc.AppendQuery(q)

	return send(ctx, s.client, &client.Request{Method: http.MethodGet, Path: path, Query: q})
}

func (s *apiService) CreateContact(ctx context.Context, contact any) (*models.Envelope, error) {
	return s.do(ctx, http.MethodPost, "/contacts/create", contact)
}

func (s *apiService) SaveContact(ctx context.Context, cardID string, contact any) (*models.Envelope, error) {
	path, err := withID("/contacts/save", cardID)
	if err != nil {
		return nil, err
	}
	return s.do(ctx, http.MethodPost, path, contact)
}

// SaveContactOnce refuses to save a card that is already among the user's
// contacts. The check is a list fetch, so two concurrent saves can both pass.
func (s *apiService) SaveContactOnce(ctx context.Context, cardID string, contact any) (*models.Envelope, error) {
	env, err := s.GetContacts(ctx)
	if err != nil && !client.IsEmptyState(err) {
		return nil, err
	}
	if env != nil {
		contacts, err := env.Contacts()
		if err != nil {
			return nil, fmt.Errorf("read contacts: %w", err)
		}
		for _, c := range contacts {
			if c.LinkedCardID() == cardID {
				return nil, ErrContactExists
			}
		}
	}
	return s.SaveContact(ctx, cardID, contact)
}

func (s *apiService) GetContacts(ctx context.Context) (*models.Envelope, error) {
	return s.do(ctx, http.MethodGet, "/contacts/all", nil)
}

func (s *apiService) UpdateContact(ctx context.Context, id string, contact any) (*models.Envelope, error) {
	path, err := withID("/contacts/update", id)
	if err != nil {
		return nil, err
	}
	return s.do(ctx, http.MethodPut, path, contact)
}

func (s *apiService) DeleteContact(ctx context.Context, id string) (*models.Envelope, error) {
	path, err := withID("/contacts/delete", id)
	if err != nil {
		return nil, err
	}
	return s.do(ctx, http.MethodDelete, path, nil)
}

func (s *apiService) ShareVisitorContact(ctx context.Context, req models.ShareRequest) (*models.Envelope, error) {
	if req.OwnerCardID == "" || req.VisitorCardID == "" {
		return nil, fmt.Errorf("share contact: owner and visitor card are required: %w", common.ErrInvalidData)
	}
	return s.do(ctx, http.MethodPost, "/contacts/visitor/share-contact", req)
}

func (s *apiService) PendingShares(ctx context.Context) (*models.Envelope, error) {
	return s.do(ctx, http.MethodGet, "/contacts/visitor/pending-shares", nil)
}

func (s *apiService) ApproveShare(ctx context.Context, id string) (*models.Envelope, error) {
	path, err := withID("/contacts/visitor/approve-share", id)
	if err != nil {
		return nil, err
	}
	return s.do(ctx, http.MethodPost, path, nil)
}

func (s *apiService) RejectShare(ctx context.Context, id string) (*models.Envelope, error) {
	path, err := withID("/contacts/visitor/reject-share", id)
	if err != nil {
		return nil, err
	}
	return s.do(ctx, http.MethodPost, path, nil)
}
