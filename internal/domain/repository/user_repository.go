package repository

import (
	"context"
	"time"

	"github.com/eadebayo/delicioso/internal/domain/entity"
)

// UserFilter is the explicit read predicate applied by every user lookup.
// ActiveOnly excludes soft-deleted accounts; the zero value matches all rows.
// Callers always state which behaviour they want instead of relying on an
// invisible default.
type UserFilter struct {
	ActiveOnly bool
}

// UpdateUserInput enumerates the profile fields a user may change about
// themselves. Nil means "leave unchanged". Password and role updates go
// through their own repository methods.
type UpdateUserInput struct {
	Name  *string
	Email *string
}

// UserRepository defines user persistence. Reads take a UserFilter so the
// soft-delete exclusion is a visible, testable parameter on every call site.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string, f UserFilter) (*entity.User, error)
	GetByEmail(ctx context.Context, email string, f UserFilter) (*entity.User, error)
	// GetByResetTokenHash looks up the user holding the given reset token
	// hash with an expiry in the future.
	GetByResetTokenHash(ctx context.Context, hash string, f UserFilter) (*entity.User, error)
	Update(ctx context.Context, id string, in UpdateUserInput) (*entity.User, error)
	// UpdatePassword sets a new password hash and password_changed_at.
	UpdatePassword(ctx context.Context, id, passwordHash string, changedAt time.Time) error
	// SetResetToken stores the hash + expiry of a freshly issued reset token.
	SetResetToken(ctx context.Context, id, tokenHash string, expires time.Time) error
	// ResetPassword consumes a reset flow: it sets the new password hash and
	// password_changed_at, and clears both reset token fields, all in a
	// single update.
	ResetPassword(ctx context.Context, id, passwordHash string, changedAt time.Time) error
	// Deactivate soft-deletes the account.
	Deactivate(ctx context.Context, id string) error

	// ToggleHeart adds the store to the user's favourites, or removes it if
	// already present. Reports whether the store is hearted afterwards.
	ToggleHeart(ctx context.Context, userID, storeID string) (bool, error)
	Hearts(ctx context.Context, userID string) ([]string, error)
}
