// Package refreshtokens stores the opaque refresh tokens that renew access
// tokens.
package refreshtokens

import (
	"context"
	"time"

	"github.com/dmitrijs2005/bibliotube/internal/models"
)

type Repository interface {
	// Create stores token for userID, expiring validity from now.
	Create(ctx context.Context, userID string, token string, validity time.Duration) error
	// Find returns common.ErrNotFound for an unknown token.
	Find(ctx context.Context, token string) (*models.RefreshToken, error)
	// Delete is a no-op for an unknown token.
	Delete(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
