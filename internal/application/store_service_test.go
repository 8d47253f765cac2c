package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eadebayo/delicioso/internal/domain/entity"
	"github.com/eadebayo/delicioso/internal/domain/repository"
)

func newStoreFixture() (*StoreService, *fakeStoreRepo, *fakeReviewRepo) {
	stores := newFakeStoreRepo()
	reviews := newFakeReviewRepo()
	recalc := NewReviewService(reviews, stores, nil)
	svc := NewStoreService(stores, reviews, nil, recalc, nil, nil)
	return svc, stores, reviews
}

func TestCreateStoreDerivesSlugAndDefaults(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newStoreFixture()

	st, err := svc.Create(ctx, user("p1"), CreateStoreInput{Name: "The Fish Shack!", Tags: []string{"wifi"}})
	require.NoError(t, err)
	assert.Equal(t, "the-fish-shack", st.Slug)
	assert.Equal(t, entity.DefaultRatingsAverage, st.RatingsAverage)
	assert.Equal(t, 0, st.RatingsQuantity)
	assert.Equal(t, "p1", st.AuthorID)
}

func TestSlugCollisionGetsSuffix(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newStoreFixture()

	first, err := svc.Create(ctx, user("p1"), CreateStoreInput{Name: "Fish Shack", Tags: []string{"wifi"}})
	require.NoError(t, err)
	assert.Equal(t, "fish-shack", first.Slug)

	second, err := svc.Create(ctx, user("p2"), CreateStoreInput{Name: "Fish Shack", Tags: []string{"wifi"}})
	require.NoError(t, err)
	assert.Equal(t, "fish-shack-2", second.Slug)

	third, err := svc.Create(ctx, user("p3"), CreateStoreInput{Name: "Fish Shack", Tags: []string{"wifi"}})
	require.NoError(t, err)
	assert.Equal(t, "fish-shack-3", third.Slug)
}

func TestCreateStoreRequiresPrincipal(t *testing.T) {
	svc, _, _ := newStoreFixture()
	_, err := svc.Create(context.Background(), nil, CreateStoreInput{Name: "Fish Shack", Tags: []string{"wifi"}})
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestCreateStoreRequiresTags(t *testing.T) {
	ctx := context.Background()
	svc, stores, _ := newStoreFixture()

	_, err := svc.Create(ctx, user("p1"), CreateStoreInput{Name: "Fish Shack"})
	assert.ErrorIs(t, err, ErrTagsRequired)

	_, err = svc.Create(ctx, user("p1"), CreateStoreInput{Name: "Fish Shack", Tags: []string{}})
	assert.ErrorIs(t, err, ErrTagsRequired)
	assert.Empty(t, stores.stores)
}

func TestUpdateCannotClearTags(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newStoreFixture()

	st, err := svc.Create(ctx, user("owner"), CreateStoreInput{Name: "Fish Shack", Tags: []string{"wifi", "vegan"}})
	require.NoError(t, err)

	_, err = svc.Update(ctx, user("owner"), st.ID, repository.UpdateStoreInput{Tags: []string{}})
	assert.ErrorIs(t, err, ErrTagsRequired)

	// nil means "leave tags alone", not "clear them"
	desc := "still tagged"
	updated, err := svc.Update(ctx, user("owner"), st.ID, repository.UpdateStoreInput{Description: &desc})
	require.NoError(t, err)
	assert.Equal(t, []string{"wifi", "vegan"}, updated.Tags)

	updated, err = svc.Update(ctx, user("owner"), st.ID, repository.UpdateStoreInput{Tags: []string{"coffee"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"coffee"}, updated.Tags)
}

func TestStoreOwnership(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newStoreFixture()

	st, err := svc.Create(ctx, user("owner"), CreateStoreInput{Name: "Fish Shack", Tags: []string{"wifi"}})
	require.NoError(t, err)

	desc := "updated"
	_, err = svc.Update(ctx, user("stranger"), st.ID, repository.UpdateStoreInput{Description: &desc})
	assert.ErrorIs(t, err, ErrForbidden)
	assert.ErrorIs(t, svc.Delete(ctx, user("stranger"), st.ID), ErrForbidden)

	updated, err := svc.Update(ctx, admin("a1"), st.ID, repository.UpdateStoreInput{Description: &desc})
	require.NoError(t, err)
	assert.Equal(t, "updated", updated.Description)

	assert.NoError(t, svc.Delete(ctx, user("owner"), st.ID))
}

func TestRenameRegeneratesSlug(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newStoreFixture()

	st, err := svc.Create(ctx, user("owner"), CreateStoreInput{Name: "Fish Shack", Tags: []string{"wifi"}})
	require.NoError(t, err)

	name := "Chip Palace"
	updated, err := svc.Update(ctx, user("owner"), st.ID, repository.UpdateStoreInput{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "chip-palace", updated.Slug)

	// untouched name leaves the slug alone
	desc := "same name"
	updated, err = svc.Update(ctx, user("owner"), st.ID, repository.UpdateStoreInput{Description: &desc})
	require.NoError(t, err)
	assert.Equal(t, "chip-palace", updated.Slug)
}

func TestDeleteStoreRemovesItsReviews(t *testing.T) {
	ctx := context.Background()
	svc, stores, reviews := newStoreFixture()

	st, err := svc.Create(ctx, user("owner"), CreateStoreInput{Name: "Fish Shack", Tags: []string{"wifi"}})
	require.NoError(t, err)
	require.NoError(t, reviews.Create(ctx, &entity.Review{StoreID: st.ID, AuthorID: "p1", Rating: 4, Text: "x"}))
	require.NoError(t, reviews.Create(ctx, &entity.Review{StoreID: st.ID, AuthorID: "p2", Rating: 5, Text: "y"}))

	require.NoError(t, svc.Delete(ctx, user("owner"), st.ID))
	assert.Empty(t, reviews.reviews)
	assert.Empty(t, stores.stores)
}

func TestTagCountsAggregation(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newStoreFixture()

	_, err := svc.Create(ctx, user("p1"), CreateStoreInput{Name: "Fish Shack One", Tags: []string{"wifi", "vegan"}})
	require.NoError(t, err)
	_, err = svc.Create(ctx, user("p1"), CreateStoreInput{Name: "Fish Shack Two", Tags: []string{"wifi"}})
	require.NoError(t, err)

	tags, err := svc.TagCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []repository.TagCount{{Tag: "wifi", Count: 2}, {Tag: "vegan", Count: 1}}, tags)
}
