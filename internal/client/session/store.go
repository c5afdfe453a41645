package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/contactx/contactx/internal/client/repositories/metadata"
	"github.com/contactx/contactx/internal/common"
	"github.com/contactx/contactx/internal/dbx"
)

// AuthSession is the persisted login: the bearer token and the user object
// returned by the verify endpoint.
type AuthSession struct {
	Token string          `json:"token"`
	User  json.RawMessage `json:"user"`
}

// Store reads and writes the persisted session.
//
// Token and User return zero values (not errors) when nothing is stored.
// ClearSession on an empty store is a no-op.
type Store interface {
	Token(ctx context.Context) (string, error)
	User(ctx context.Context) (json.RawMessage, error)
	Session(ctx context.Context) (*AuthSession, error)
	SetSession(ctx context.Context, token string, user json.RawMessage) error
	ClearSession(ctx context.Context) error
}

// Sealer encrypts the token before it reaches disk.
type Sealer interface {
	Seal(plaintext []byte) ([]byte, error)
	Open(sealed []byte) ([]byte, error)
}

// SQLiteStore keeps the session in the metadata table. With a Sealer the
// token is stored encrypted; the user object is stored as plain JSON.
type SQLiteStore struct {
	db     *sql.DB
	sealer Sealer
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// NewSealedSQLiteStore is NewSQLiteStore with the token sealed at rest.
func NewSealedSQLiteStore(db *sql.DB, sealer Sealer) *SQLiteStore {
	return &SQLiteStore{db: db, sealer: sealer}
}

func (s *SQLiteStore) sealToken(token string) ([]byte, error) {
	if s.sealer == nil {
		return []byte(token), nil
	}
	return s.sealer.Seal([]byte(token))
}

func (s *SQLiteStore) openToken(v []byte) (string, error) {
	if len(v) == 0 || s.sealer == nil {
		return string(v), nil
	}
	plain, err := s.sealer.Open(v)
	if err != nil {
		return "", fmt.Errorf("unseal token: %w", err)
	}
	return string(plain), nil
}

func (s *SQLiteStore) repo(tx dbx.DBTX) metadata.Repository {
	return metadata.NewSQLiteRepository(tx)
}

func (s *SQLiteStore) Token(ctx context.Context) (string, error) {
	v, err := s.repo(s.db).Get(ctx, common.KeyAuthToken)
	if err != nil {
		return "", err
	}
	return s.openToken(v)
}

func (s *SQLiteStore) User(ctx context.Context) (json.RawMessage, error) {
	v, err := s.repo(s.db).Get(ctx, common.KeyAuthUser)
	if err != nil {
		return nil, err
	}
	if len(v) == 0 {
		return nil, nil
	}
	return json.RawMessage(v), nil
}

// Session reads token and user in one transaction. It returns (nil, nil)
// when no session is stored.
func (s *SQLiteStore) Session(ctx context.Context) (*AuthSession, error) {
	var out *AuthSession
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repo(tx)
		token, err := repo.Get(ctx, common.KeyAuthToken)
		if err != nil {
			return err
		}
		if len(token) == 0 {
			return nil
		}
		user, err := repo.Get(ctx, common.KeyAuthUser)
		if err != nil {
			return err
		}
		plain, err := s.openToken(token)
		if err != nil {
			return err
		}
		out = &AuthSession{Token: plain, User: json.RawMessage(user)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// SetSession writes token and user atomically.
func (s *SQLiteStore) SetSession(ctx context.Context, token string, user json.RawMessage) error {
	if token == "" {
		return fmt.Errorf("set session: %w", common.ErrNoToken)
	}
	if len(user) == 0 {
		user = json.RawMessage(`{}`)
	}
	if !json.Valid(user) {
		return fmt.Errorf("set session: user is not valid JSON: %w", common.ErrInvalidData)
	}

	sealed, err := s.sealToken(token)
	if err != nil {
		return fmt.Errorf("set session: %w", err)
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repo(tx)
		if err := repo.Set(ctx, common.KeyAuthToken, sealed); err != nil {
			return err
		}
		return repo.Set(ctx, common.KeyAuthUser, user)
	})
}

// ClearSession removes token and user atomically.
func (s *SQLiteStore) ClearSession(ctx context.Context) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return s.repo(tx).Delete(ctx, common.KeyAuthToken, common.KeyAuthUser)
	})
}

var _ Store = (*SQLiteStore)(nil)
