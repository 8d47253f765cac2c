package repository

import (
	"context"

	"github.com/eadebayo/delicioso/internal/domain/entity"
)

// UpdateStoreInput enumerates the mutable store fields. Nil (or nil slice)
// means "leave unchanged". Slug is managed by the service and only
// regenerated when Name changes; the derived rating fields are excluded on
// purpose and only reachable through UpdateRatings.
type UpdateStoreInput struct {
	Name        *string
	Slug        *string
	Description *string
	Tags        []string
	Location    *entity.Location
	Photo       *string
}

// TagCount is one entry of the tag aggregation.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// StoreDistance annotates a store with its distance from a query origin, in
// the unit requested by the caller.
type StoreDistance struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Distance float64 `json:"distance"`
}

// AuthorStats summarizes the highly rated stores of one author.
type AuthorStats struct {
	AuthorID   string  `json:"author_id"`
	NumStores  int     `json:"num_stores"`
	NumRatings int     `json:"num_ratings"`
	AvgRating  float64 `json:"avg_rating"`
}

// StoreRepository defines store persistence including the geo query modes.
// Geo radii are expressed in meters; unit conversion happens in the search
// service.
type StoreRepository interface {
	Create(ctx context.Context, s *entity.Store) error
	GetByID(ctx context.Context, id string) (*entity.Store, error)
	GetBySlug(ctx context.Context, slug string) (*entity.Store, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Store, error)
	ListByIDs(ctx context.Context, ids []string) ([]*entity.Store, error)
	ListByTag(ctx context.Context, tag string) ([]*entity.Store, error)
	Update(ctx context.Context, id string, in UpdateStoreInput) (*entity.Store, error)
	// UpdateRatings persists both derived rating fields in a single update.
	UpdateRatings(ctx context.Context, id string, average float64, quantity int) error
	Delete(ctx context.Context, id string) error

	// CountSlugLike counts stores whose slug is base or base-N, used to pick
	// a collision-free suffix.
	CountSlugLike(ctx context.Context, base string) (int, error)

	TagCounts(ctx context.Context) ([]TagCount, error)
	// TopRated lists stores with at least two reviews ordered by the live
	// average of their review ratings, best first.
	TopRated(ctx context.Context, limit int) ([]*entity.Store, error)
	StatsByAuthor(ctx context.Context) ([]AuthorStats, error)

	// Near returns stores within radiusMeters of the origin, nearest first,
	// capped at limit.
	Near(ctx context.Context, lng, lat, radiusMeters float64, limit int) ([]*entity.Store, error)
	// Within returns every store inside the spherical cap, with no ordering
	// guarantee.
	Within(ctx context.Context, lng, lat, radiusMeters float64) ([]*entity.Store, error)
	// Distances annotates every store with its distance from the origin,
	// scaled by multiplier (meters to the requested unit), ascending.
	Distances(ctx context.Context, lng, lat, multiplier float64) ([]StoreDistance, error)
}
