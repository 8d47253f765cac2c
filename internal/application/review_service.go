package application

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/eadebayo/delicioso/internal/domain/entity"
	"github.com/eadebayo/delicioso/internal/domain/repository"
)

// ReviewService handles review mutations and owns the rating recomputation.
// Every successful create, update or delete is followed by an explicit
// RecalcStoreRatings call; there is no hidden persistence hook.
type ReviewService struct {
	Reviews repository.ReviewRepository
	Stores  repository.StoreRepository
	Logger  *logrus.Logger
}

func NewReviewService(reviews repository.ReviewRepository, stores repository.StoreRepository, logger *logrus.Logger) *ReviewService {
	return &ReviewService{Reviews: reviews, Stores: stores, Logger: logger}
}

// Create adds a review authored by the principal. A second review for the
// same (store, author) pair fails with ErrDuplicateReview. When the review
// is saved but the recomputation fails, the review is returned together
// with the error; the write is never rolled back.
func (s *ReviewService) Create(ctx context.Context, principal *entity.User, storeID, text string, rating int) (*entity.Review, error) {
	if principal == nil {
		return nil, ErrUnauthenticated
	}
	if _, err := s.Stores.GetByID(ctx, storeID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	r := &entity.Review{Text: text, Rating: rating, StoreID: storeID, AuthorID: principal.ID}
	if err := s.Reviews.Create(ctx, r); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateReview
		}
		return nil, err
	}
	if err := s.RecalcStoreRatings(ctx, storeID); err != nil {
		return r, fmt.Errorf("review saved but rating recompute failed: %w", err)
	}
	return r, nil
}

// Update mutates a review's text or rating. Only the author or an
// administrator may do this.
func (s *ReviewService) Update(ctx context.Context, principal *entity.User, id string, in repository.UpdateReviewInput) (*entity.Review, error) {
	r, err := s.Reviews.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := Authorize(principal, r.AuthorID); err != nil {
		return nil, err
	}
	updated, err := s.Reviews.Update(ctx, id, in)
	if err != nil {
		return nil, err
	}
	if err := s.RecalcStoreRatings(ctx, updated.StoreID); err != nil {
		return updated, fmt.Errorf("review saved but rating recompute failed: %w", err)
	}
	return updated, nil
}

// Delete removes a review (author or administrator only) and recomputes the
// parent store's rating summary.
func (s *ReviewService) Delete(ctx context.Context, principal *entity.User, id string) error {
	r, err := s.Reviews.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if err := Authorize(principal, r.AuthorID); err != nil {
		return err
	}
	if err := s.Reviews.Delete(ctx, id); err != nil {
		return err
	}
	return s.RecalcStoreRatings(ctx, r.StoreID)
}

func (s *ReviewService) Get(ctx context.Context, id string) (*entity.Review, error) {
	r, err := s.Reviews.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return r, nil
}

func (s *ReviewService) List(ctx context.Context, limit, offset int) ([]*entity.Review, error) {
	return s.Reviews.List(ctx, limit, offset)
}

func (s *ReviewService) ListByStore(ctx context.Context, storeID string) ([]*entity.Review, error) {
	return s.Reviews.ListByStore(ctx, storeID)
}

// RecalcStoreRatings recomputes a store's derived rating fields from the
// full current review set and persists them in one update. The read-then-
// write has no version check: under concurrent mutations the last writer
// wins, and because each run recomputes from the complete set the aggregate
// converges once the last writer finishes. A store that no longer exists
// (deletion cascade already removed it) makes the trigger a no-op.
func (s *ReviewService) RecalcStoreRatings(ctx context.Context, storeID string) error {
	reviews, err := s.Reviews.ListByStore(ctx, storeID)
	if err != nil {
		return err
	}
	quantity := len(reviews)
	average := entity.DefaultRatingsAverage
	if quantity > 0 {
		sum := 0
		for _, r := range reviews {
			sum += r.Rating
		}
		average = math.Round(float64(sum)/float64(quantity)*10) / 10
	}
	err = s.Stores.UpdateRatings(ctx, storeID, average, quantity)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("store_id", storeID).Error("rating recompute write-back failed")
	}
	return err
}
