package cli

import (
	"bufio"
	"bytes"
	"context"
	"crypto/subtle"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/bibliotube/internal/auth"
	"github.com/dmitrijs2005/bibliotube/internal/client/config"
	"github.com/dmitrijs2005/bibliotube/internal/client/services"
	"github.com/dmitrijs2005/bibliotube/internal/client/storage"
	"github.com/dmitrijs2005/bibliotube/internal/common"
	"github.com/dmitrijs2005/bibliotube/internal/logging"
	"github.com/dmitrijs2005/bibliotube/internal/models"
	"github.com/dmitrijs2005/bibliotube/internal/remote/identity"
	"github.com/dmitrijs2005/bibliotube/internal/store/memstore"
	"github.com/stretchr/testify/require"
)

type account struct {
	user     models.User
	verifier []byte
}

// stubIDP is an in-memory identity provider issuing real JWTs.
type stubIDP struct {
	mu       sync.Mutex
	secret   []byte
	accounts map[string]account
	refresh  map[string]string
	seq      int
}

func newStubIDP() *stubIDP {
	return &stubIDP{secret: []byte("cli-test"), accounts: map[string]account{}, refresh: map[string]string{}}
}

func (s *stubIDP) GetSalt(_ context.Context, email string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a, ok := s.accounts[identity.NormalizeEmail(email)]; ok {
		return a.user.Salt, nil
	}
	return []byte("0123456789abcdef"), nil
}

func (s *stubIDP) Register(_ context.Context, email, username string, salt, verifier []byte) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	email = identity.NormalizeEmail(email)
	if _, ok := s.accounts[email]; ok {
		return nil, common.ErrAlreadyExists
	}
	s.seq++
	u := models.User{ID: fmt.Sprintf("user-%d", s.seq), Email: email, Username: username, Salt: salt}
	s.accounts[email] = account{user: u, verifier: append([]byte(nil), verifier...)}
	return &u, nil
}

func (s *stubIDP) Login(_ context.Context, email string, verifier []byte) (*identity.TokenPair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[identity.NormalizeEmail(email)]
	if !ok || subtle.ConstantTimeCompare(a.verifier, verifier) != 1 {
		return nil, common.ErrInvalidCredentials
	}
	return s.issue(a.user.ID)
}

func (s *stubIDP) Refresh(_ context.Context, token string) (*identity.TokenPair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	uid, ok := s.refresh[token]
	if !ok {
		return nil, common.ErrInvalidToken
	}
	delete(s.refresh, token)
	return s.issue(uid)
}

func (s *stubIDP) Revoke(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.refresh, token)
	return nil
}

func (s *stubIDP) ValidateAccessToken(token string) (string, error) {
	return auth.GetUserIDFromToken(token, s.secret)
}

func (s *stubIDP) issue(uid string) (*identity.TokenPair, error) {
	access, err := auth.GenerateToken(uid, s.secret, time.Hour)
	if err != nil {
		return nil, err
	}
	s.seq++
	rt := fmt.Sprintf("rt-%d", s.seq)
	s.refresh[rt] = uid
	return &identity.TokenPair{UserID: uid, AccessToken: access, RefreshToken: rt, ExpiresAt: time.Now().Add(time.Hour)}, nil
}

type testApp struct {
	*App
	out    *bytes.Buffer
	remote *memstore.Memory
	idp    *stubIDP
	dbPath string
}

// newTestApp builds an App over a real SQLite file and an in-memory remote.
func newTestApp(t *testing.T) *testApp {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bibliotube.db")
	return openTestApp(t, path, newStubIDP(), memstore.New())
}

func openTestApp(t *testing.T, path string, idp *stubIDP, remote *memstore.Memory) *testApp {
	t.Helper()
	db, err := storage.Open(context.Background(), storage.DSN(path))
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.SyncOnStart = false
	cfg.CheckClipboard = false

	out := &bytes.Buffer{}
	a := newApp(cfg, logging.NewNopLogger(), db, idp, remote.Store(), bufio.NewReader(strings.NewReader("")), out)
	t.Cleanup(func() { _ = a.Close() })

	stubPassword(t, "s3cret")
	return &testApp{App: a, out: out, remote: remote, idp: idp, dbPath: path}
}

// feed replaces the input with the given lines.
func (ta *testApp) feed(lines ...string) {
	ta.reader = bufio.NewReader(strings.NewReader(strings.Join(lines, "\n") + "\n"))
}

func stubPassword(t *testing.T, pw string) {
	t.Helper()
	old := getPassword
	getPassword = func(io.Writer) ([]byte, error) { return []byte(pw), nil }
	t.Cleanup(func() { getPassword = old })
}

// register signs up ann@example.com.
func (ta *testApp) register(t *testing.T) {
	t.Helper()
	ta.feed("ann@example.com", "ann")
	require.NoError(t, ta.Register(context.Background()))
	require.True(t, ta.isLoggedIn())
}

func videoInput(folderID, url string, importance int) services.VideoInput {
	return services.VideoInput{FolderID: folderID, URL: url, Importance: importance}
}
