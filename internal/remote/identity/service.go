// Package identity implements account operations against the cloud
// database: registration, credential checks, and issuing and rotating
// tokens. Access tokens are JWTs; refresh tokens are opaque strings kept in
// the refresh_tokens table.
package identity

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/bibliotube/internal/auth"
	"github.com/dmitrijs2005/bibliotube/internal/common"
	"github.com/dmitrijs2005/bibliotube/internal/cryptox"
	"github.com/dmitrijs2005/bibliotube/internal/dbx"
	"github.com/dmitrijs2005/bibliotube/internal/models"
	"github.com/dmitrijs2005/bibliotube/internal/remote/repositories/refreshtokens"
	"github.com/dmitrijs2005/bibliotube/internal/remote/repositories/users"
	"github.com/dmitrijs2005/bibliotube/internal/shared"
)

// Repositories is the part of repomanager.RepositoryManager the service
// needs.
type Repositories interface {
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
}

// TokenPair is the result of a successful login or refresh.
type TokenPair struct {
	UserID       string
	AccessToken  string
	RefreshToken string
	// ExpiresAt is when AccessToken stops being valid.
	ExpiresAt time.Time
}

type Config struct {
	Secret     []byte
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type Service struct {
	db         *sql.DB
	repos      Repositories
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewService(db *sql.DB, repos Repositories, cfg Config) *Service {
	return &Service{
		db:         db,
		repos:      repos,
		secret:     cfg.Secret,
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
		now:        time.Now,
	}
}

// NormalizeEmail lower-cases and trims an address before lookups.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a user with a client-computed salt and verifier.
func (s *Service) Register(ctx context.Context, email, username string, salt, verifier []byte) (*models.User, error) {
	email = NormalizeEmail(email)
	if email == "" || len(salt) == 0 || len(verifier) == 0 {
		return nil, fmt.Errorf("%w: email, salt and verifier are required", common.ErrValidation)
	}
	u, err := s.repos.Users(s.db).Create(ctx, &models.User{
		Email:    email,
		Username: strings.TrimSpace(username),
		Salt:     salt,
		Verifier: verifier,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return u, nil
}

// GetSalt returns the user's salt, or a random one for an unknown email so
// the response does not reveal whether the account exists.
func (s *Service) GetSalt(ctx context.Context, email string) ([]byte, error) {
	u, err := s.repos.Users(s.db).GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return shared.GenerateRandByteArray(cryptox.SaltSize), nil
		}
		return nil, fmt.Errorf("error getting salt: %w", err)
	}
	return u.Salt, nil
}

// Login checks verifierCandidate against the stored verifier and issues a
// new token pair.
func (s *Service) Login(ctx context.Context, email string, verifierCandidate []byte) (*TokenPair, error) {
	u, err := s.repos.Users(s.db).GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error getting user: %w", err)
	}
	if subtle.ConstantTimeCompare(u.Verifier, verifierCandidate) != 1 {
		return nil, common.ErrInvalidCredentials
	}
	return s.issue(ctx, u.ID, s.db)
}

// Refresh validates a refresh token and rotates it inside a transaction.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	token, err := s.repos.RefreshTokens(s.db).Find(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrInvalidToken
		}
		return nil, fmt.Errorf("error searching refresh token: %w", err)
	}
	if !s.now().Before(token.ExpiresAt) {
		return nil, common.ErrRefreshTokenExpired
	}

	var pair *TokenPair
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repos.RefreshTokens(tx).Delete(ctx, refreshToken); err != nil {
			return fmt.Errorf("error deleting refresh token: %w", err)
		}
		var genErr error
		pair, genErr = s.issue(ctx, token.UserID, tx)
		return genErr
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

// Revoke deletes a refresh token. Unknown tokens are not an error.
func (s *Service) Revoke(ctx context.Context, refreshToken string) error {
	if err := s.repos.RefreshTokens(s.db).Delete(ctx, refreshToken); err != nil {
		return fmt.Errorf("error revoking refresh token: %w", err)
	}
	return nil
}

// ValidateAccessToken returns the user id carried by a valid access token.
func (s *Service) ValidateAccessToken(token string) (string, error) {
	return auth.GetUserIDFromToken(token, s.secret)
}

// PurgeExpired removes refresh tokens that can no longer be used.
func (s *Service) PurgeExpired(ctx context.Context) (int64, error) {
	n, err := s.repos.RefreshTokens(s.db).DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("error purging refresh tokens: %w", err)
	}
	return n, nil
}

func (s *Service) issue(ctx context.Context, userID string, tx dbx.DBTX) (*TokenPair, error) {
	access, err := auth.GenerateToken(userID, s.secret, s.accessTTL)
	if err != nil {
		return nil, fmt.Errorf("error generating access token: %w", err)
	}
	refresh, err := shared.MakeRandHexString(32)
	if err != nil {
		return nil, fmt.Errorf("error generating refresh token: %w", err)
	}
	if err := s.repos.RefreshTokens(tx).Create(ctx, userID, refresh, s.refreshTTL); err != nil {
		return nil, fmt.Errorf("error storing refresh token: %w", err)
	}
	return &TokenPair{
		UserID:       userID,
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    s.now().Add(s.accessTTL),
	}, nil
}
