package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/contactx/contactx/internal/client/client"
	"github.com/contactx/contactx/internal/client/models"
	"github.com/contactx/contactx/internal/client/session"
	"github.com/contactx/contactx/internal/common"
	"github.com/contactx/contactx/internal/logging"
)

// AuthService drives phone-number OTP login and the stored session.
type AuthService interface {
	SendOTP(ctx context.Context, phone string) (*models.Envelope, error)
	VerifyOTP(ctx context.Context, phone, code string, opts VerifyOptions) (*models.Session, error)
	Profile(ctx context.Context) (*models.Envelope, error)
	SignOut(ctx context.Context) error
	Refresh(ctx context.Context, refreshToken string) (*models.Envelope, error)
	Session(ctx context.Context) (*session.AuthSession, error)
}

type VerifyOptions struct {
	DisableSession    bool
	UpdatePhoneNumber bool
}

type authService struct {
	client client.Doer
	store  session.Store
	logger logging.Logger
}

func NewAuthService(c client.Doer, store session.Store, logger logging.Logger) AuthService {
	if logger == nil {
		logger = logging.Discard()
	}
	return &authService{client: c, store: store, logger: logger}
}

func (a *authService) SendOTP(ctx context.Context, phone string) (*models.Envelope, error) {
	if phone == "" {
		return nil, fmt.Errorf("phone number is required: %w", common.ErrInvalidData)
	}
	return send(ctx, a.client, client.NewRequest(http.MethodPost, "/auth/phone-number/send-otp",
		map[string]any{"phoneNumber": phone}))
}

// VerifyOTP exchanges the code for a session and persists token and user
// together.
func (a *authService) VerifyOTP(ctx context.Context, phone, code string, opts VerifyOptions) (*models.Session, error) {
	if phone == "" || code == "" {
		return nil, fmt.Errorf("phone number and code are required: %w", common.ErrInvalidData)
	}

	env, err := send(ctx, a.client, client.NewRequest(http.MethodPost, "/auth/phone-number/verify", map[string]any{
		"phoneNumber":       phone,
		"code":              code,
		"disableSession":    opts.DisableSession,
		"updatePhoneNumber": opts.UpdatePhoneNumber,
	}))
	if err != nil {
		return nil, err
	}

	s, err := env.Session()
	if err != nil {
		return nil, fmt.Errorf("verify otp: %w", err)
	}
	if err := a.store.SetSession(ctx, s.Token, s.User); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}
	a.logger.Info(ctx, "signed in")
	return &s, nil
}

func (a *authService) Profile(ctx context.Context) (*models.Envelope, error) {
	return send(ctx, a.client, client.NewRequest(http.MethodGet, "/auth/profile", nil))
}

// SignOut tells the backend first and clears the local session regardless of
// whether that call succeeded.
func (a *authService) SignOut(ctx context.Context) error {
	if _, err := send(ctx, a.client, client.NewRequest(http.MethodPost, "/auth/sign-out", nil)); err != nil {
		a.logger.Warn(ctx, "remote sign-out failed", "error", err)
	}
	if err := a.store.ClearSession(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Refresh trades a refresh token for a new access token. A returned token
// replaces the stored one and keeps the stored user.
func (a *authService) Refresh(ctx context.Context, refreshToken string) (*models.Envelope, error) {
	env, err := send(ctx, a.client, client.NewRequest(http.MethodPost, "/auth/refresh",
		map[string]any{"refreshToken": refreshToken}))
	if err != nil {
		return nil, err
	}

	s, err := env.Session()
	if err != nil {
		return env, nil
	}
	user, err := a.store.User(ctx)
	if err != nil {
		return nil, fmt.Errorf("read stored user: %w", err)
	}
	if len(user) == 0 {
		user = s.User
	}
	if err := a.store.SetSession(ctx, s.Token, user); err != nil {
		return nil, fmt.Errorf("persist refreshed session: %w", err)
	}
	return env, nil
}

func (a *authService) Session(ctx context.Context) (*session.AuthSession, error) {
	return a.store.Session(ctx)
}

func send(ctx context.Context, c client.Doer, req *client.Request) (*models.Envelope, error) {
	resp, err := c.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	return models.NewEnvelope(resp.Status, resp.Body), nil
}
