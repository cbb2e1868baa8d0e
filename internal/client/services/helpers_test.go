package services

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/bibliotube/internal/auth"
	"github.com/dmitrijs2005/bibliotube/internal/client/storage"
	"github.com/dmitrijs2005/bibliotube/internal/common"
	"github.com/dmitrijs2005/bibliotube/internal/models"
	"github.com/dmitrijs2005/bibliotube/internal/remote/identity"
	"github.com/stretchr/testify/require"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := storage.Open(context.Background(), storage.DSN(filepath.Join(t.TempDir(), "client.db")))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

type fakeAccount struct {
	id       string
	salt     []byte
	verifier []byte
}

// fakeIDP is an in-memory identity provider issuing real JWTs.
type fakeIDP struct {
	mu        sync.Mutex
	secret    []byte
	accessTTL time.Duration
	accounts  map[string]fakeAccount
	refresh   map[string]string
	revoked   []string
	seq       int

	refreshErr error
	revokeErr  error
}

func newFakeIDP() *fakeIDP {
	return &fakeIDP{
		secret:    []byte("test-secret"),
		accessTTL: time.Hour,
		accounts:  map[string]fakeAccount{},
		refresh:   map[string]string{},
	}
}

func (f *fakeIDP) GetSalt(_ context.Context, email string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a, ok := f.accounts[email]; ok {
		return a.salt, nil
	}
	return []byte("random-salt-0000"), nil
}

func (f *fakeIDP) Register(_ context.Context, email, username string, salt, verifier []byte) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.accounts[email]; ok {
		return nil, common.ErrAlreadyExists
	}
	f.seq++
	id := fmt.Sprintf("user-%d", f.seq)
	f.accounts[email] = fakeAccount{id: id, salt: salt, verifier: verifier}
	return &models.User{ID: id, Email: email, Username: username}, nil
}

func (f *fakeIDP) Login(_ context.Context, email string, verifier []byte) (*identity.TokenPair, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.accounts[email]
	if !ok || subtle.ConstantTimeCompare(a.verifier, verifier) != 1 {
		return nil, common.ErrInvalidCredentials
	}
	return f.issue(a.id)
}

func (f *fakeIDP) Refresh(_ context.Context, token string) (*identity.TokenPair, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.refreshErr != nil {
		return nil, f.refreshErr
	}
	uid, ok := f.refresh[token]
	if !ok {
		return nil, common.ErrInvalidToken
	}
	delete(f.refresh, token)
	return f.issue(uid)
}

func (f *fakeIDP) Revoke(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.revoked = append(f.revoked, token)
	delete(f.refresh, token)
	return f.revokeErr
}

func (f *fakeIDP) ValidateAccessToken(token string) (string, error) {
	return auth.GetUserIDFromToken(token, f.secret)
}

func (f *fakeIDP) issue(uid string) (*identity.TokenPair, error) {
	access, err := auth.GenerateToken(uid, f.secret, f.accessTTL)
	if err != nil {
		return nil, err
	}
	f.seq++
	refresh := fmt.Sprintf("refresh-%d", f.seq)
	f.refresh[refresh] = uid
	return &identity.TokenPair{UserID: uid, AccessToken: access, RefreshToken: refresh, ExpiresAt: time.Now().Add(f.accessTTL)}, nil
}

type fakeBiometric struct {
	ok    bool
	err   error
	calls int
}

func (f *fakeBiometric) Authenticate(context.Context, string) (bool, error) {
	f.calls++
	return f.ok, f.err
}

// staticIdentity satisfies the identity lookups of the library service.
type staticIdentity string

func (s staticIdentity) UserID() (string, error) {
	if s == "" {
		return "", common.ErrNoUser
	}
	return string(s), nil
}
