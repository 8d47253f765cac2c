package repository

import (
	"context"

	"github.com/eadebayo/delicioso/internal/domain/entity"
)

// UpdateReviewInput enumerates the mutable review fields. Nil means "leave
// unchanged". Store and author references are immutable after creation.
type UpdateReviewInput struct {
	Text   *string
	Rating *int
}

// ReviewRepository defines review persistence. Create returns ErrDuplicate
// when the author already reviewed the store.
type ReviewRepository interface {
	Create(ctx context.Context, r *entity.Review) error
	GetByID(ctx context.Context, id string) (*entity.Review, error)
	ListByStore(ctx context.Context, storeID string) ([]*entity.Review, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Review, error)
	Update(ctx context.Context, id string, in UpdateReviewInput) (*entity.Review, error)
	Delete(ctx context.Context, id string) error
	// DeleteByStore bulk-removes a store's reviews (store deletion cascade).
	DeleteByStore(ctx context.Context, storeID string) (int64, error)
}
