package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eadebayo/delicioso/internal/domain/entity"
	"github.com/eadebayo/delicioso/internal/domain/repository"
)

func newReviewFixture(t *testing.T) (*ReviewService, *fakeStoreRepo, *fakeReviewRepo, *entity.Store) {
	t.Helper()
	stores := newFakeStoreRepo()
	reviews := newFakeReviewRepo()
	svc := NewReviewService(reviews, stores, nil)

	st := &entity.Store{Name: "Fish Shack", Slug: "fish-shack", RatingsAverage: entity.DefaultRatingsAverage, AuthorID: "owner-1"}
	require.NoError(t, stores.Create(context.Background(), st))
	return svc, stores, reviews, st
}

func user(id string) *entity.User {
	return &entity.User{ID: id, Role: entity.RoleUser, Active: true}
}

func admin(id string) *entity.User {
	return &entity.User{ID: id, Role: entity.RoleAdmin, Active: true}
}

func TestReviewLifecycleKeepsAggregateConsistent(t *testing.T) {
	ctx := context.Background()
	svc, stores, _, st := newReviewFixture(t)

	// one 5-star review
	r1, err := svc.Create(ctx, user("p1"), st.ID, "great", 5)
	require.NoError(t, err)
	assert.Equal(t, 5.0, stores.stores[st.ID].RatingsAverage)
	assert.Equal(t, 1, stores.stores[st.ID].RatingsQuantity)

	// a second author adds a 3: mean 4.0
	r2, err := svc.Create(ctx, user("p2"), st.ID, "okay", 3)
	require.NoError(t, err)
	assert.Equal(t, 4.0, stores.stores[st.ID].RatingsAverage)
	assert.Equal(t, 2, stores.stores[st.ID].RatingsQuantity)

	// removing the 5 leaves mean 3.0
	require.NoError(t, svc.Delete(ctx, user("p1"), r1.ID))
	assert.Equal(t, 3.0, stores.stores[st.ID].RatingsAverage)
	assert.Equal(t, 1, stores.stores[st.ID].RatingsQuantity)

	// removing the last review restores the neutral default
	require.NoError(t, svc.Delete(ctx, user("p2"), r2.ID))
	assert.Equal(t, entity.DefaultRatingsAverage, stores.stores[st.ID].RatingsAverage)
	assert.Equal(t, 0, stores.stores[st.ID].RatingsQuantity)
}

func TestAverageRoundsToOneDecimal(t *testing.T) {
	ctx := context.Background()
	svc, stores, _, st := newReviewFixture(t)

	_, err := svc.Create(ctx, user("p1"), st.ID, "a", 5)
	require.NoError(t, err)
	_, err = svc.Create(ctx, user("p2"), st.ID, "b", 4)
	require.NoError(t, err)
	_, err = svc.Create(ctx, user("p3"), st.ID, "c", 4)
	require.NoError(t, err)

	// 13/3 = 4.333... -> 4.3
	assert.Equal(t, 4.3, stores.stores[st.ID].RatingsAverage)
}

func TestDuplicateReviewRejected(t *testing.T) {
	ctx := context.Background()
	svc, stores, _, st := newReviewFixture(t)

	_, err := svc.Create(ctx, user("p1"), st.ID, "first", 4)
	require.NoError(t, err)

	_, err = svc.Create(ctx, user("p1"), st.ID, "second", 5)
	assert.ErrorIs(t, err, ErrDuplicateReview)

	// failed create leaves the aggregate untouched
	assert.Equal(t, 4.0, stores.stores[st.ID].RatingsAverage)
	assert.Equal(t, 1, stores.stores[st.ID].RatingsQuantity)
}

func TestCreateOnMissingStore(t *testing.T) {
	svc, _, _, _ := newReviewFixture(t)
	_, err := svc.Create(context.Background(), user("p1"), "no-such-store", "text", 3)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateRequiresPrincipal(t *testing.T) {
	svc, _, _, st := newReviewFixture(t)
	_, err := svc.Create(context.Background(), nil, st.ID, "text", 3)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestReviewOwnership(t *testing.T) {
	ctx := context.Background()
	svc, _, _, st := newReviewFixture(t)

	r, err := svc.Create(ctx, user("p1"), st.ID, "mine", 4)
	require.NoError(t, err)

	// another user may not touch it
	newText := "hijacked"
	_, err = svc.Update(ctx, user("p2"), r.ID, repository.UpdateReviewInput{Text: &newText})
	assert.ErrorIs(t, err, ErrForbidden)
	assert.ErrorIs(t, svc.Delete(ctx, user("p2"), r.ID), ErrForbidden)

	// an administrator may
	rating := 2
	updated, err := svc.Update(ctx, admin("a1"), r.ID, repository.UpdateReviewInput{Rating: &rating})
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Rating)

	require.NoError(t, svc.Delete(ctx, admin("a1"), r.ID))
}

func TestCreateSurvivesRecalcFailure(t *testing.T) {
	ctx := context.Background()
	svc, stores, reviews, st := newReviewFixture(t)

	stores.ratingsErr = errors.New("db down")
	r, err := svc.Create(ctx, user("p1"), st.ID, "text", 5)
	require.Error(t, err)
	require.NotNil(t, r, "review must be returned even when the recompute fails")
	assert.Len(t, reviews.reviews, 1)

	// next mutation catches the aggregate up
	stores.ratingsErr = nil
	_, err = svc.Create(ctx, user("p2"), st.ID, "also", 3)
	require.NoError(t, err)
	assert.Equal(t, 4.0, stores.stores[st.ID].RatingsAverage)
	assert.Equal(t, 2, stores.stores[st.ID].RatingsQuantity)
}

func TestRecalcIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc, stores, _, st := newReviewFixture(t)

	_, err := svc.Create(ctx, user("p1"), st.ID, "a", 4)
	require.NoError(t, err)

	require.NoError(t, svc.RecalcStoreRatings(ctx, st.ID))
	require.NoError(t, svc.RecalcStoreRatings(ctx, st.ID))
	assert.Equal(t, 4.0, stores.stores[st.ID].RatingsAverage)
	assert.Equal(t, 1, stores.stores[st.ID].RatingsQuantity)
}

func TestRecalcOnMissingStoreIsNoop(t *testing.T) {
	svc, _, _, _ := newReviewFixture(t)
	assert.NoError(t, svc.RecalcStoreRatings(context.Background(), "gone"))
}
