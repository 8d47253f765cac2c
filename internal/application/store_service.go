package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/eadebayo/delicioso/internal/domain/entity"
	"github.com/eadebayo/delicioso/internal/domain/repository"
	"github.com/eadebayo/delicioso/pkg/helpers"
)

const (
	cacheKeyTags = "stores:tags"
	cacheKeyTop  = "stores:top"
	cacheTTL     = time.Minute
)

// CreateStoreInput is what a caller may set on a new store. Slug, ratings
// and author are derived server-side.
type CreateStoreInput struct {
	Name        string
	Description string
	Tags        []string
	Location    entity.Location
	Photo       string
}

// StoreService handles store CRUD, favourites-adjacent listings, and the
// cached directory aggregations. Store mutations are mirrored into the
// search index via the SearchService.
type StoreService struct {
	Stores  repository.StoreRepository
	Reviews repository.ReviewRepository
	Search  *SearchService
	Recalc  *ReviewService
	Redis   *redis.Client
	Logger  *logrus.Logger
}

func NewStoreService(stores repository.StoreRepository, reviews repository.ReviewRepository, search *SearchService, recalc *ReviewService, rdb *redis.Client, logger *logrus.Logger) *StoreService {
	return &StoreService{Stores: stores, Reviews: reviews, Search: search, Recalc: recalc, Redis: rdb, Logger: logger}
}

// Create persists a new store owned by the principal. The slug derives from
// the name, lowercased, with a numeric suffix when the base already exists.
func (s *StoreService) Create(ctx context.Context, principal *entity.User, in CreateStoreInput) (*entity.Store, error) {
	if principal == nil {
		return nil, ErrUnauthenticated
	}
	// tags is a non-empty set; a store without at least one tag is invalid
	if len(in.Tags) == 0 {
		return nil, ErrTagsRequired
	}
	slug, err := s.uniqueSlug(ctx, in.Name)
	if err != nil {
		return nil, err
	}
	st := &entity.Store{
		Name:           in.Name,
		Slug:           slug,
		Description:    in.Description,
		Tags:           in.Tags,
		RatingsAverage: entity.DefaultRatingsAverage,
		Photo:          in.Photo,
		Location:       in.Location,
		AuthorID:       principal.ID,
	}
	if err := s.Stores.Create(ctx, st); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("slug %q: %w", slug, err)
		}
		return nil, err
	}
	s.index(ctx, st)
	return st, nil
}

// Update applies the typed input to an existing store. Only the owner or an
// administrator may mutate it; a name change regenerates the slug.
func (s *StoreService) Update(ctx context.Context, principal *entity.User, id string, in repository.UpdateStoreInput) (*entity.Store, error) {
	st, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := Authorize(principal, st.AuthorID); err != nil {
		return nil, err
	}
	// a nil slice leaves tags unchanged; an explicit empty set is rejected
	if in.Tags != nil && len(in.Tags) == 0 {
		return nil, ErrTagsRequired
	}
	if in.Name != nil && *in.Name != st.Name {
		slug, err := s.uniqueSlug(ctx, *in.Name)
		if err != nil {
			return nil, err
		}
		in.Slug = &slug
	}
	updated, err := s.Stores.Update(ctx, id, in)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	s.index(ctx, updated)
	return updated, nil
}

// Delete removes a store after an ownership check. The store's reviews are
// removed explicitly first; the rating trigger afterwards is a no-op since
// the store row is gone.
func (s *StoreService) Delete(ctx context.Context, principal *entity.User, id string) error {
	st, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := Authorize(principal, st.AuthorID); err != nil {
		return err
	}
	if _, err := s.Reviews.DeleteByStore(ctx, id); err != nil {
		return err
	}
	if err := s.Stores.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if err := s.Recalc.RecalcStoreRatings(ctx, id); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("store_id", id).Warn("post-delete rating trigger failed")
	}
	s.removeFromIndex(ctx, id)
	return nil
}

func (s *StoreService) Get(ctx context.Context, id string) (*entity.Store, error) {
	st, err := s.Stores.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return st, nil
}

func (s *StoreService) GetBySlug(ctx context.Context, slug string) (*entity.Store, error) {
	st, err := s.Stores.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return st, nil
}

func (s *StoreService) List(ctx context.Context, limit, offset int) ([]*entity.Store, error) {
	return s.Stores.List(ctx, limit, offset)
}

func (s *StoreService) ListByTag(ctx context.Context, tag string) ([]*entity.Store, error) {
	return s.Stores.ListByTag(ctx, tag)
}

// TagCounts returns the tag aggregation, cached briefly in redis.
func (s *StoreService) TagCounts(ctx context.Context) ([]repository.TagCount, error) {
	if s.Redis != nil {
		var cached []repository.TagCount
		if ok, err := helpers.RedisGetJSON(ctx, s.Redis, cacheKeyTags, &cached); err == nil && ok {
			return cached, nil
		}
	}
	tags, err := s.Stores.TagCounts(ctx)
	if err != nil {
		return nil, err
	}
	s.cache(ctx, cacheKeyTags, tags)
	return tags, nil
}

// TopRated returns the ten best stores with at least two reviews, cached
// briefly in redis.
func (s *StoreService) TopRated(ctx context.Context) ([]*entity.Store, error) {
	if s.Redis != nil {
		var cached []*entity.Store
		if ok, err := helpers.RedisGetJSON(ctx, s.Redis, cacheKeyTop, &cached); err == nil && ok {
			return cached, nil
		}
	}
	stores, err := s.Stores.TopRated(ctx, 10)
	if err != nil {
		return nil, err
	}
	s.cache(ctx, cacheKeyTop, stores)
	return stores, nil
}

func (s *StoreService) StatsByAuthor(ctx context.Context) ([]repository.AuthorStats, error) {
	return s.Stores.StatsByAuthor(ctx)
}

func (s *StoreService) uniqueSlug(ctx context.Context, name string) (string, error) {
	base := helpers.Slugify(name)
	n, err := s.Stores.CountSlugLike(ctx, base)
	if err != nil {
		return "", err
	}
	if n > 0 {
		return fmt.Sprintf("%s-%d", base, n+1), nil
	}
	return base, nil
}

func (s *StoreService) cache(ctx context.Context, key string, value any) {
	if s.Redis == nil {
		return
	}
	if err := helpers.RedisSetJSON(ctx, s.Redis, key, value, cacheTTL); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("key", key).Warn("redis cache write failed")
	}
}

func (s *StoreService) index(ctx context.Context, st *entity.Store) {
	if s.Search == nil {
		return
	}
	if err := s.Search.IndexStore(ctx, st); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("store_id", st.ID).Warn("es index failed")
	}
}

func (s *StoreService) removeFromIndex(ctx context.Context, id string) {
	if s.Search == nil {
		return
	}
	if err := s.Search.RemoveStore(ctx, id); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("store_id", id).Warn("es delete failed")
	}
}
