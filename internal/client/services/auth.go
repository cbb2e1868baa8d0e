// Package services contains the client application services: the session
// manager, the library service and quick save.
//
// This file is the session manager: sign-up and sign-in against the cloud
// identity service, session restore on start-up, biometric unlock and
// sign-out.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/bibliotube/internal/common"
	"github.com/dmitrijs2005/bibliotube/internal/cryptox"
	"github.com/dmitrijs2005/bibliotube/internal/logging"
	"github.com/dmitrijs2005/bibliotube/internal/models"
	"github.com/dmitrijs2005/bibliotube/internal/remote/identity"
	"github.com/dmitrijs2005/bibliotube/internal/shared"
)

// IdentityProvider is the cloud account API. *identity.Service implements
// it.
type IdentityProvider interface {
	GetSalt(ctx context.Context, email string) ([]byte, error)
	Register(ctx context.Context, email, username string, salt, verifier []byte) (*models.User, error)
	Login(ctx context.Context, email string, verifier []byte) (*identity.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*identity.TokenPair, error)
	Revoke(ctx context.Context, refreshToken string) error
	ValidateAccessToken(token string) (string, error)
}

// BiometricPrompt asks the device owner to authenticate. It returns false
// when the user cancels or fails.
type BiometricPrompt interface {
	Authenticate(ctx context.Context, reason string) (bool, error)
}

// AuthService owns the live session. The persisted record only outlives the
// process; the live session is what UserID reports.
type AuthService struct {
	idp       IdentityProvider
	store     SecureStore
	biometric BiometricPrompt
	log       logging.Logger
	now       func() time.Time

	mu   sync.RWMutex
	live *models.Session
}

func NewAuthService(idp IdentityProvider, store SecureStore, biometric BiometricPrompt, log logging.Logger) *AuthService {
	return &AuthService{
		idp:       idp,
		store:     store,
		biometric: biometric,
		log:       log.With("module", "auth"),
		now:       time.Now,
	}
}

// SignUp creates an account and signs it in.
func (a *AuthService) SignUp(ctx context.Context, email, username string, password []byte) (models.Session, error) {
	email = identity.NormalizeEmail(email)
	username = strings.TrimSpace(username)
	if email == "" || username == "" || len(password) == 0 {
		return models.Session{}, fmt.Errorf("%w: email, username and password are required", common.ErrValidation)
	}

	salt := shared.GenerateRandByteArray(cryptox.SaltSize)
	key := cryptox.DeriveMasterKey(password, salt)
	verifier := cryptox.MakeVerifier(key)
	shared.WipeByteArray(key)

	if _, err := a.idp.Register(ctx, email, username, salt, verifier); err != nil {
		return models.Session{}, fmt.Errorf("register error: %w", err)
	}
	a.log.Info(ctx, "account created", "email", email)
	return a.SignIn(ctx, email, password)
}

// SignIn authenticates with email and password and persists the session.
func (a *AuthService) SignIn(ctx context.Context, email string, password []byte) (models.Session, error) {
	email = identity.NormalizeEmail(email)
	if email == "" || len(password) == 0 {
		return models.Session{}, fmt.Errorf("%w: email and password are required", common.ErrValidation)
	}

	salt, err := a.idp.GetSalt(ctx, email)
	if err != nil {
		return models.Session{}, fmt.Errorf("get salt error: %w", err)
	}
	key := cryptox.DeriveMasterKey(password, salt)
	verifier := cryptox.MakeVerifier(key)
	shared.WipeByteArray(key)

	pair, err := a.idp.Login(ctx, email, verifier)
	if err != nil {
		return models.Session{}, fmt.Errorf("login error: %w", err)
	}
	return a.establish(ctx, pair, email)
}

// Restore brings back a session after start-up. A live session wins; an
// expired access token is renewed through the refresh token.
func (a *AuthService) Restore(ctx context.Context) (models.Session, error) {
	if s, ok := a.Session(); ok && !s.Expired(a.now()) {
		return s, nil
	}

	saved, err := a.store.Load(ctx)
	if err != nil {
		return models.Session{}, err
	}

	if !saved.Expired(a.now()) {
		if uid, err := a.idp.ValidateAccessToken(saved.AccessToken); err == nil && uid == saved.UserID {
			a.setLive(&saved)
			return saved, nil
		}
	}
	return a.renew(ctx, saved)
}

// UnlockWithBiometrics renews the persisted session after the device owner
// passes the biometric prompt.
func (a *AuthService) UnlockWithBiometrics(ctx context.Context) (models.Session, error) {
	saved, err := a.store.Load(ctx)
	if err != nil {
		return models.Session{}, err
	}
	if saved.Email == "" || saved.RefreshToken == "" {
		return models.Session{}, common.ErrNoSavedSession
	}
	if a.biometric == nil {
		return models.Session{}, common.ErrBiometricDenied
	}

	ok, err := a.biometric.Authenticate(ctx, "Unlock BiblioTube as "+saved.Email)
	if err != nil {
		return models.Session{}, fmt.Errorf("biometric prompt: %w", err)
	}
	if !ok {
		return models.Session{}, common.ErrBiometricDenied
	}
	return a.renew(ctx, saved)
}

// SignOut drops the live session. The persisted record stays so the user
// can unlock again.
func (a *AuthService) SignOut(ctx context.Context) {
	a.setLive(nil)
	a.log.Info(ctx, "signed out")
}

// FullSignOut also revokes the refresh token and purges the persisted
// record. Revocation is best effort.
func (a *AuthService) FullSignOut(ctx context.Context) error {
	a.setLive(nil)

	saved, err := a.store.Load(ctx)
	switch {
	case err == nil:
		if saved.RefreshToken != "" {
			if err := a.idp.Revoke(ctx, saved.RefreshToken); err != nil {
				a.log.Warn(ctx, "refresh token revoke failed", "err", err)
			}
		}
	case !errors.Is(err, common.ErrNoSavedSession):
		a.log.Warn(ctx, "saved session unreadable", "err", err)
	}

	if err := a.store.Purge(ctx); err != nil {
		return err
	}
	a.log.Info(ctx, "signed out and session purged")
	return nil
}

// UserID returns the signed-in user or common.ErrNoUser.
func (a *AuthService) UserID() (string, error) {
	s, ok := a.Session()
	if !ok || s.UserID == "" {
		return "", common.ErrNoUser
	}
	return s.UserID, nil
}

// Session returns a copy of the live session.
func (a *AuthService) Session() (models.Session, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.live == nil {
		return models.Session{}, false
	}
	return *a.live, true
}

func (a *AuthService) renew(ctx context.Context, saved models.Session) (models.Session, error) {
	pair, err := a.idp.Refresh(ctx, saved.RefreshToken)
	if err != nil {
		if errors.Is(err, common.ErrRefreshTokenExpired) || errors.Is(err, common.ErrInvalidToken) {
			if perr := a.store.Purge(ctx); perr != nil {
				a.log.Warn(ctx, "purge stale session failed", "err", perr)
			}
		}
		return models.Session{}, fmt.Errorf("refresh error: %w", err)
	}
	return a.establish(ctx, pair, saved.Email)
}

func (a *AuthService) establish(ctx context.Context, pair *identity.TokenPair, email string) (models.Session, error) {
	s := models.Session{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		UserID:       pair.UserID,
		Email:        email,
		ExpiresAt:    pair.ExpiresAt,
	}
	if err := a.store.Save(ctx, s); err != nil {
		return models.Session{}, err
	}
	a.setLive(&s)
	a.log.Info(ctx, "session established", "user_id", s.UserID)
	return s, nil
}

func (a *AuthService) setLive(s *models.Session) {
	a.mu.Lock()
	a.live = s
	a.mu.Unlock()
}
