// Package users declares the identity registry storage contract and its
// PostgreSQL and badger implementations.
package users

import (
	"context"

	"github.com/dmitrijs2005/sealbox/internal/server/models"
)

// Repository persists principals. Implementations return common.ErrorConflict
// when the email is taken and common.ErrorNotFound for missing principals.
type Repository interface {
	// Create stores user and fills in its ID and CreatedAt.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
}
