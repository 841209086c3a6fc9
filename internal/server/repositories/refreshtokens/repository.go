// Package refreshtokens stores the server-side refresh tokens that back
// session renewal.
package refreshtokens

import (
	"context"
	"time"

	"github.com/dmitrijs2005/sealbox/internal/server/models"
)

// Repository defines operations for issuing, retrieving and rotating refresh tokens.
type Repository interface {
	// Create stores a new refresh token for userID with an expiry of now+validity.
	Create(ctx context.Context, userID string, token string, validity time.Duration) error

	// Find returns common.ErrorNotFound when the token is absent.
	Find(ctx context.Context, token string) (*models.RefreshToken, error)

	// Rotate consumes oldToken and stores newToken for userID in one atomic
	// step. If oldToken was already consumed it returns common.ErrorNotFound
	// and newToken is not stored, so a refresh token is usable exactly once.
	Rotate(ctx context.Context, oldToken, userID, newToken string, validity time.Duration) error
}
