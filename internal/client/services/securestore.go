package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/bibliotube/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/bibliotube/internal/common"
	"github.com/dmitrijs2005/bibliotube/internal/models"
)

// SessionKey is the metadata key holding the persisted session record.
const SessionKey = "bibliotube.session"

// SecureStore persists the session record between runs. Load returns
// common.ErrNoSavedSession when nothing is stored.
type SecureStore interface {
	Load(ctx context.Context) (models.Session, error)
	Save(ctx context.Context, s models.Session) error
	Purge(ctx context.Context) error
}

// MetadataSecureStore keeps the session as JSON in the local metadata table.
type MetadataSecureStore struct {
	repo metadata.Repository
}

func NewMetadataSecureStore(repo metadata.Repository) *MetadataSecureStore {
	return &MetadataSecureStore{repo: repo}
}

func (s *MetadataSecureStore) Load(ctx context.Context) (models.Session, error) {
	raw, err := s.repo.Get(ctx, SessionKey)
	if err != nil {
		return models.Session{}, fmt.Errorf("load session: %w", err)
	}
	if len(raw) == 0 {
		return models.Session{}, common.ErrNoSavedSession
	}
	var sess models.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return models.Session{}, fmt.Errorf("decode session: %w", err)
	}
	return sess, nil
}

func (s *MetadataSecureStore) Save(ctx context.Context, sess models.Session) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.repo.Set(ctx, SessionKey, raw); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Purge forgets the session together with everything else the account left
// in the metadata table.
func (s *MetadataSecureStore) Purge(ctx context.Context) error {
	if err := s.repo.Clear(ctx); err != nil {
		return fmt.Errorf("purge session: %w", err)
	}
	return nil
}
