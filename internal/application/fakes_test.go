package application

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/eadebayo/delicioso/internal/domain/entity"
	"github.com/eadebayo/delicioso/internal/domain/repository"
)

// In-memory repositories backing the service tests.

type fakeUserRepo struct {
	users  map[string]*entity.User
	hearts map[string]map[string]bool
	nextID int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*entity.User{}, hearts: map[string]map[string]bool{}}
}

func (f *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	for _, existing := range f.users {
		if existing.Email == strings.ToLower(u.Email) {
			return repository.ErrDuplicate
		}
	}
	f.nextID++
	u.ID = fmt.Sprintf("user-%d", f.nextID)
	u.Email = strings.ToLower(u.Email)
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	f.users[u.ID] = u
	return nil
}

func (f *fakeUserRepo) match(u *entity.User, filter repository.UserFilter) bool {
	return u != nil && (!filter.ActiveOnly || u.Active)
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string, filter repository.UserFilter) (*entity.User, error) {
	u := f.users[id]
	if !f.match(u, filter) {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string, filter repository.UserFilter) (*entity.User, error) {
	for _, u := range f.users {
		if u.Email == strings.ToLower(email) && f.match(u, filter) {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) GetByResetTokenHash(_ context.Context, hash string, filter repository.UserFilter) (*entity.User, error) {
	for _, u := range f.users {
		if u.ResetTokenHash == hash && hash != "" && f.match(u, filter) &&
			u.ResetTokenExpires != nil && u.ResetTokenExpires.After(time.Now()) {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) Update(_ context.Context, id string, in repository.UpdateUserInput) (*entity.User, error) {
	u := f.users[id]
	if u == nil || !u.Active {
		return nil, repository.ErrNotFound
	}
	if in.Email != nil {
		email := strings.ToLower(*in.Email)
		for _, other := range f.users {
			if other.ID != id && other.Email == email {
				return nil, repository.ErrDuplicate
			}
		}
		u.Email = email
	}
	if in.Name != nil {
		u.Name = *in.Name
	}
	return u, nil
}

func (f *fakeUserRepo) UpdatePassword(_ context.Context, id, hash string, changedAt time.Time) error {
	u := f.users[id]
	if u == nil || !u.Active {
		return repository.ErrNotFound
	}
	u.PasswordHash = hash
	u.PasswordChangedAt = &changedAt
	return nil
}

func (f *fakeUserRepo) SetResetToken(_ context.Context, id, tokenHash string, expires time.Time) error {
	u := f.users[id]
	if u == nil || !u.Active {
		return repository.ErrNotFound
	}
	u.ResetTokenHash = tokenHash
	u.ResetTokenExpires = &expires
	return nil
}

func (f *fakeUserRepo) ResetPassword(_ context.Context, id, hash string, changedAt time.Time) error {
	u := f.users[id]
	if u == nil || !u.Active {
		return repository.ErrNotFound
	}
	u.PasswordHash = hash
	u.PasswordChangedAt = &changedAt
	u.ResetTokenHash = ""
	u.ResetTokenExpires = nil
	return nil
}

func (f *fakeUserRepo) Deactivate(_ context.Context, id string) error {
	u := f.users[id]
	if u == nil || !u.Active {
		return repository.ErrNotFound
	}
	u.Active = false
	return nil
}

func (f *fakeUserRepo) ToggleHeart(_ context.Context, userID, storeID string) (bool, error) {
	if f.hearts[userID] == nil {
		f.hearts[userID] = map[string]bool{}
	}
	if f.hearts[userID][storeID] {
		delete(f.hearts[userID], storeID)
		return false, nil
	}
	f.hearts[userID][storeID] = true
	return true, nil
}

func (f *fakeUserRepo) Hearts(_ context.Context, userID string) ([]string, error) {
	var ids []string
	for id := range f.hearts[userID] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

type geoCall struct {
	lng, lat, radius, multiplier float64
	limit                        int
}

type fakeStoreRepo struct {
	stores map[string]*entity.Store
	nextID int

	ratingsErr error // injected UpdateRatings failure
	lastGeo    geoCall
}

func newFakeStoreRepo() *fakeStoreRepo {
	return &fakeStoreRepo{stores: map[string]*entity.Store{}}
}

func (f *fakeStoreRepo) Create(_ context.Context, s *entity.Store) error {
	for _, existing := range f.stores {
		if existing.Slug == s.Slug {
			return repository.ErrDuplicate
		}
	}
	f.nextID++
	s.ID = fmt.Sprintf("store-%d", f.nextID)
	s.CreatedAt = time.Now()
	s.UpdatedAt = s.CreatedAt
	f.stores[s.ID] = s
	return nil
}

func (f *fakeStoreRepo) GetByID(_ context.Context, id string) (*entity.Store, error) {
	s := f.stores[id]
	if s == nil {
		return nil, repository.ErrNotFound
	}
	return s, nil
}

func (f *fakeStoreRepo) GetBySlug(_ context.Context, slug string) (*entity.Store, error) {
	for _, s := range f.stores {
		if s.Slug == slug {
			return s, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeStoreRepo) List(_ context.Context, limit, offset int) ([]*entity.Store, error) {
	return f.all(), nil
}

func (f *fakeStoreRepo) ListByIDs(_ context.Context, ids []string) ([]*entity.Store, error) {
	var out []*entity.Store
	for _, id := range ids {
		if s := f.stores[id]; s != nil {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeStoreRepo) ListByTag(_ context.Context, tag string) ([]*entity.Store, error) {
	var out []*entity.Store
	for _, s := range f.all() {
		for _, t := range s.Tags {
			if t == tag {
				out = append(out, s)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeStoreRepo) Update(_ context.Context, id string, in repository.UpdateStoreInput) (*entity.Store, error) {
	s := f.stores[id]
	if s == nil {
		return nil, repository.ErrNotFound
	}
	if in.Name != nil {
		s.Name = *in.Name
	}
	if in.Slug != nil {
		s.Slug = *in.Slug
	}
	if in.Description != nil {
		s.Description = *in.Description
	}
	if in.Tags != nil {
		s.Tags = in.Tags
	}
	if in.Location != nil {
		s.Location = *in.Location
	}
	if in.Photo != nil {
		s.Photo = *in.Photo
	}
	return s, nil
}

func (f *fakeStoreRepo) UpdateRatings(_ context.Context, id string, average float64, quantity int) error {
	if f.ratingsErr != nil {
		return f.ratingsErr
	}
	s := f.stores[id]
	if s == nil {
		return repository.ErrNotFound
	}
	s.RatingsAverage = average
	s.RatingsQuantity = quantity
	return nil
}

func (f *fakeStoreRepo) Delete(_ context.Context, id string) error {
	if f.stores[id] == nil {
		return repository.ErrNotFound
	}
	delete(f.stores, id)
	return nil
}

func (f *fakeStoreRepo) CountSlugLike(_ context.Context, base string) (int, error) {
	n := 0
	for _, s := range f.stores {
		if s.Slug == base || strings.HasPrefix(s.Slug, base+"-") {
			n++
		}
	}
	return n, nil
}

func (f *fakeStoreRepo) TagCounts(_ context.Context) ([]repository.TagCount, error) {
	counts := map[string]int{}
	for _, s := range f.stores {
		for _, t := range s.Tags {
			counts[t]++
		}
	}
	out := make([]repository.TagCount, 0, len(counts))
	for tag, n := range counts {
		out = append(out, repository.TagCount{Tag: tag, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Tag < out[j].Tag
	})
	return out, nil
}

func (f *fakeStoreRepo) TopRated(_ context.Context, limit int) ([]*entity.Store, error) {
	var out []*entity.Store
	for _, s := range f.all() {
		if s.RatingsQuantity >= 2 {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RatingsAverage > out[j].RatingsAverage })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeStoreRepo) StatsByAuthor(_ context.Context) ([]repository.AuthorStats, error) {
	return nil, nil
}

func (f *fakeStoreRepo) Near(_ context.Context, lng, lat, radiusMeters float64, limit int) ([]*entity.Store, error) {
	f.lastGeo = geoCall{lng: lng, lat: lat, radius: radiusMeters, limit: limit}
	return f.all(), nil
}

func (f *fakeStoreRepo) Within(_ context.Context, lng, lat, radiusMeters float64) ([]*entity.Store, error) {
	f.lastGeo = geoCall{lng: lng, lat: lat, radius: radiusMeters}
	return f.all(), nil
}

func (f *fakeStoreRepo) Distances(_ context.Context, lng, lat, multiplier float64) ([]repository.StoreDistance, error) {
	f.lastGeo = geoCall{lng: lng, lat: lat, multiplier: multiplier}
	return nil, nil
}

func (f *fakeStoreRepo) all() []*entity.Store {
	out := make([]*entity.Store, 0, len(f.stores))
	for _, s := range f.stores {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

type fakeReviewRepo struct {
	reviews map[string]*entity.Review
	nextID  int
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{reviews: map[string]*entity.Review{}}
}

func (f *fakeReviewRepo) Create(_ context.Context, r *entity.Review) error {
	for _, existing := range f.reviews {
		if existing.StoreID == r.StoreID && existing.AuthorID == r.AuthorID {
			return repository.ErrDuplicate
		}
	}
	f.nextID++
	r.ID = fmt.Sprintf("review-%d", f.nextID)
	r.CreatedAt = time.Now()
	f.reviews[r.ID] = r
	return nil
}

func (f *fakeReviewRepo) GetByID(_ context.Context, id string) (*entity.Review, error) {
	r := f.reviews[id]
	if r == nil {
		return nil, repository.ErrNotFound
	}
	return r, nil
}

func (f *fakeReviewRepo) ListByStore(_ context.Context, storeID string) ([]*entity.Review, error) {
	out := make([]*entity.Review, 0)
	for _, r := range f.reviews {
		if r.StoreID == storeID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeReviewRepo) List(_ context.Context, limit, offset int) ([]*entity.Review, error) {
	out := make([]*entity.Review, 0, len(f.reviews))
	for _, r := range f.reviews {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeReviewRepo) Update(_ context.Context, id string, in repository.UpdateReviewInput) (*entity.Review, error) {
	r := f.reviews[id]
	if r == nil {
		return nil, repository.ErrNotFound
	}
	if in.Text != nil {
		r.Text = *in.Text
	}
	if in.Rating != nil {
		r.Rating = *in.Rating
	}
	return r, nil
}

func (f *fakeReviewRepo) Delete(_ context.Context, id string) error {
	if f.reviews[id] == nil {
		return repository.ErrNotFound
	}
	delete(f.reviews, id)
	return nil
}

func (f *fakeReviewRepo) DeleteByStore(_ context.Context, storeID string) (int64, error) {
	var n int64
	for id, r := range f.reviews {
		if r.StoreID == storeID {
			delete(f.reviews, id)
			n++
		}
	}
	return n, nil
}

var (
	_ repository.UserRepository   = (*fakeUserRepo)(nil)
	_ repository.StoreRepository  = (*fakeStoreRepo)(nil)
	_ repository.ReviewRepository = (*fakeReviewRepo)(nil)
)
