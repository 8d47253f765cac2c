package application

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/eadebayo/delicioso/internal/domain/entity"
	"github.com/eadebayo/delicioso/internal/domain/repository"
)

// UserService covers profile reads and self-service mutations. Password
// changes are rejected here and belong to AuthService.
type UserService struct {
	Users  repository.UserRepository
	Stores repository.StoreRepository
	Logger *logrus.Logger
}

func NewUserService(users repository.UserRepository, stores repository.StoreRepository, logger *logrus.Logger) *UserService {
	return &UserService{Users: users, Stores: stores, Logger: logger}
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Users.GetByID(ctx, userID, activeOnly)
	if err != nil || u == nil {
		return nil, ErrNotFound
	}
	return u, nil
}

// UpdateProfile applies the typed update input. Unknown fields never reach
// this layer; the request struct at the boundary enumerates what is mutable.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, in repository.UpdateUserInput) (*entity.User, error) {
	u, err := s.Users.Update(ctx, userID, in)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return u, nil
}

// Deactivate soft-deletes the account. Every read path filtering on
// ActiveOnly stops seeing the user from here on.
func (s *UserService) Deactivate(ctx context.Context, userID string) error {
	if err := s.Users.Deactivate(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// ToggleHeart flips the favourite state of a store for the user.
func (s *UserService) ToggleHeart(ctx context.Context, userID, storeID string) (bool, error) {
	if _, err := s.Stores.GetByID(ctx, storeID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, ErrNotFound
		}
		return false, err
	}
	return s.Users.ToggleHeart(ctx, userID, storeID)
}

// HeartedStores lists the user's favourite stores.
func (s *UserService) HeartedStores(ctx context.Context, userID string) ([]*entity.Store, error) {
	ids, err := s.Users.Hearts(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []*entity.Store{}, nil
	}
	return s.Stores.ListByIDs(ctx, ids)
}
