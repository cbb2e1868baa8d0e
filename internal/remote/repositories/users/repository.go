// Package users stores accounts in the cloud database.
package users

import (
	"context"

	"github.com/dmitrijs2005/bibliotube/internal/models"
)

type Repository interface {
	// Create inserts user and fills in the generated ID and CreatedAt. A
	// duplicate email yields common.ErrAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
}
