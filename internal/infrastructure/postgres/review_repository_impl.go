package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/eadebayo/delicioso/internal/domain/entity"
	"github.com/eadebayo/delicioso/internal/domain/repository"
)

type ReviewRepository struct {
	pool db
}

func NewReviewRepository(pool db) *ReviewRepository {
	return &ReviewRepository{pool: pool}
}

const reviewColumns = `id, text, rating, store_id, author_id, created_at`

func scanReview(row pgx.Row) (*entity.Review, error) {
	rv := &entity.Review{}
	if err := row.Scan(&rv.ID, &rv.Text, &rv.Rating, &rv.StoreID, &rv.AuthorID, &rv.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return rv, nil
}

func collectReviews(rows pgx.Rows) ([]*entity.Review, error) {
	defer rows.Close()
	reviews := make([]*entity.Review, 0)
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, rv)
	}
	return reviews, rows.Err()
}

// Create inserts a review. The unique (store_id, author_id) index enforces
// one review per author per store; a violation maps to ErrDuplicate.
func (r *ReviewRepository) Create(ctx context.Context, rv *entity.Review) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO reviews (text, rating, store_id, author_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, rv.Text, rv.Rating, rv.StoreID, rv.AuthorID)
	if err := row.Scan(&rv.ID, &rv.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *ReviewRepository) GetByID(ctx context.Context, id string) (*entity.Review, error) {
	return scanReview(r.pool.QueryRow(ctx, `
		SELECT `+reviewColumns+` FROM reviews WHERE id = $1`, id))
}

func (r *ReviewRepository) ListByStore(ctx context.Context, storeID string) ([]*entity.Review, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+reviewColumns+` FROM reviews WHERE store_id = $1 ORDER BY created_at DESC
	`, storeID)
	if err != nil {
		return nil, err
	}
	return collectReviews(rows)
}

func (r *ReviewRepository) List(ctx context.Context, limit, offset int) ([]*entity.Review, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+reviewColumns+` FROM reviews ORDER BY created_at DESC LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	return collectReviews(rows)
}

func (r *ReviewRepository) Update(ctx context.Context, id string, in repository.UpdateReviewInput) (*entity.Review, error) {
	return scanReview(r.pool.QueryRow(ctx, `
		UPDATE reviews
		SET text = COALESCE($1, text),
		    rating = COALESCE($2, rating)
		WHERE id = $3
		RETURNING `+reviewColumns, in.Text, in.Rating, id))
}

func (r *ReviewRepository) Delete(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// DeleteByStore removes all reviews of a store and reports how many went.
func (r *ReviewRepository) DeleteByStore(ctx context.Context, storeID string) (int64, error) {
	res, err := r.pool.Exec(ctx, `DELETE FROM reviews WHERE store_id = $1`, storeID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected(), nil
}

var _ repository.ReviewRepository = (*ReviewRepository)(nil)
