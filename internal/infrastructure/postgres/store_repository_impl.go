package postgres

import (
	"context"
	"errors"
	"regexp"

	"github.com/jackc/pgx/v5"

	"github.com/eadebayo/delicioso/internal/domain/entity"
	"github.com/eadebayo/delicioso/internal/domain/repository"
)

// StoreRepository persists stores with pgx. Geo queries rely on the cube +
// earthdistance extensions (ll_to_earth / earth_distance) installed by the
// initial migration.
type StoreRepository struct {
	pool db
}

func NewStoreRepository(pool db) *StoreRepository {
	return &StoreRepository{pool: pool}
}

const storeColumns = `id, name, slug, description, tags, ratings_average, ratings_quantity,
	photo, lng, lat, address, author_id, created_at, updated_at`

func scanStore(row pgx.Row) (*entity.Store, error) {
	s := &entity.Store{}
	if err := row.Scan(&s.ID, &s.Name, &s.Slug, &s.Description, &s.Tags, &s.RatingsAverage,
		&s.RatingsQuantity, &s.Photo, &s.Location.Lng, &s.Location.Lat, &s.Location.Address,
		&s.AuthorID, &s.CreatedAt, &s.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

func collectStores(rows pgx.Rows) ([]*entity.Store, error) {
	defer rows.Close()
	stores := make([]*entity.Store, 0)
	for rows.Next() {
		s, err := scanStore(rows)
		if err != nil {
			return nil, err
		}
		stores = append(stores, s)
	}
	return stores, rows.Err()
}

func (r *StoreRepository) Create(ctx context.Context, s *entity.Store) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO stores (name, slug, description, tags, ratings_average, photo, lng, lat, address, author_id)
		VALUES ($1, $2, $3, $4, $5, COALESCE(NULLIF($6, ''), 'store.png'), $7, $8, $9, $10)
		RETURNING id, ratings_quantity, photo, created_at, updated_at
	`, s.Name, s.Slug, s.Description, s.Tags, s.RatingsAverage,
		s.Photo, s.Location.Lng, s.Location.Lat, s.Location.Address, s.AuthorID)
	if err := row.Scan(&s.ID, &s.RatingsQuantity, &s.Photo, &s.CreatedAt, &s.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *StoreRepository) GetByID(ctx context.Context, id string) (*entity.Store, error) {
	return scanStore(r.pool.QueryRow(ctx, `
		SELECT `+storeColumns+` FROM stores WHERE id = $1`, id))
}

func (r *StoreRepository) GetBySlug(ctx context.Context, slug string) (*entity.Store, error) {
	return scanStore(r.pool.QueryRow(ctx, `
		SELECT `+storeColumns+` FROM stores WHERE slug = $1`, slug))
}

func (r *StoreRepository) List(ctx context.Context, limit, offset int) ([]*entity.Store, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+storeColumns+` FROM stores ORDER BY created_at DESC LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	return collectStores(rows)
}

func (r *StoreRepository) ListByIDs(ctx context.Context, ids []string) ([]*entity.Store, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+storeColumns+` FROM stores WHERE id = ANY($1)
	`, ids)
	if err != nil {
		return nil, err
	}
	return collectStores(rows)
}

func (r *StoreRepository) ListByTag(ctx context.Context, tag string) ([]*entity.Store, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+storeColumns+` FROM stores WHERE $1 = ANY(tags) ORDER BY created_at DESC
	`, tag)
	if err != nil {
		return nil, err
	}
	return collectStores(rows)
}

func (r *StoreRepository) Update(ctx context.Context, id string, in repository.UpdateStoreInput) (*entity.Store, error) {
	var lng, lat *float64
	var address *string
	if in.Location != nil {
		lng, lat, address = &in.Location.Lng, &in.Location.Lat, &in.Location.Address
	}
	row := r.pool.QueryRow(ctx, `
		UPDATE stores
		SET name = COALESCE($1, name),
		    slug = COALESCE($2, slug),
		    description = COALESCE($3, description),
		    tags = COALESCE($4, tags),
		    photo = COALESCE($5, photo),
		    lng = COALESCE($6, lng),
		    lat = COALESCE($7, lat),
		    address = COALESCE($8, address),
		    updated_at = now()
		WHERE id = $9
		RETURNING `+storeColumns,
		in.Name, in.Slug, in.Description, in.Tags, in.Photo, lng, lat, address, id)
	s, err := scanStore(row)
	if err != nil && isUniqueViolation(err) {
		return nil, repository.ErrDuplicate
	}
	return s, err
}

// UpdateRatings writes both derived rating fields in one statement.
func (r *StoreRepository) UpdateRatings(ctx context.Context, id string, average float64, quantity int) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE stores SET ratings_average = $1, ratings_quantity = $2, updated_at = now() WHERE id = $3
	`, average, quantity, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *StoreRepository) Delete(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM stores WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *StoreRepository) CountSlugLike(ctx context.Context, base string) (int, error) {
	pattern := "^" + regexp.QuoteMeta(base) + "(-[0-9]+)?$"
	var n int
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM stores WHERE slug ~ $1`, pattern).Scan(&n)
	return n, err
}

func (r *StoreRepository) TagCounts(ctx context.Context) ([]repository.TagCount, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT tag, count(*) AS count
		FROM stores, unnest(tags) AS tag
		GROUP BY tag
		ORDER BY count DESC, tag
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]repository.TagCount, 0)
	for rows.Next() {
		var tc repository.TagCount
		if err := rows.Scan(&tc.Tag, &tc.Count); err != nil {
			return nil, err
		}
		out = append(out, tc)
	}
	return out, rows.Err()
}

// TopRated orders by the live average of review ratings rather than the
// denormalized field, so a briefly stale aggregate cannot skew the list.
func (r *StoreRepository) TopRated(ctx context.Context, limit int) ([]*entity.Store, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+prefixedStoreColumns("s")+`
		FROM stores s
		JOIN reviews rv ON rv.store_id = s.id
		GROUP BY s.id
		HAVING count(rv.id) >= 2
		ORDER BY avg(rv.rating) DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	return collectStores(rows)
}

func (r *StoreRepository) StatsByAuthor(ctx context.Context) ([]repository.AuthorStats, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT author_id, count(*) AS num_stores, sum(ratings_quantity) AS num_ratings,
		       avg(ratings_average) AS avg_rating
		FROM stores
		WHERE ratings_average >= 4.5
		GROUP BY author_id
		ORDER BY avg_rating
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]repository.AuthorStats, 0)
	for rows.Next() {
		var st repository.AuthorStats
		if err := rows.Scan(&st.AuthorID, &st.NumStores, &st.NumRatings, &st.AvgRating); err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

func (r *StoreRepository) Near(ctx context.Context, lng, lat, radiusMeters float64, limit int) ([]*entity.Store, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+storeColumns+`
		FROM stores
		WHERE earth_box(ll_to_earth($1, $2), $3) @> ll_to_earth(lat, lng)
		  AND earth_distance(ll_to_earth($1, $2), ll_to_earth(lat, lng)) <= $3
		ORDER BY earth_distance(ll_to_earth($1, $2), ll_to_earth(lat, lng))
		LIMIT $4
	`, lat, lng, radiusMeters, limit)
	if err != nil {
		return nil, err
	}
	return collectStores(rows)
}

func (r *StoreRepository) Within(ctx context.Context, lng, lat, radiusMeters float64) ([]*entity.Store, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+storeColumns+`
		FROM stores
		WHERE earth_box(ll_to_earth($1, $2), $3) @> ll_to_earth(lat, lng)
		  AND earth_distance(ll_to_earth($1, $2), ll_to_earth(lat, lng)) <= $3
	`, lat, lng, radiusMeters)
	if err != nil {
		return nil, err
	}
	return collectStores(rows)
}

func (r *StoreRepository) Distances(ctx context.Context, lng, lat, multiplier float64) ([]repository.StoreDistance, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, earth_distance(ll_to_earth($1, $2), ll_to_earth(lat, lng)) * $3 AS distance
		FROM stores
		ORDER BY distance
	`, lat, lng, multiplier)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]repository.StoreDistance, 0)
	for rows.Next() {
		var d repository.StoreDistance
		if err := rows.Scan(&d.ID, &d.Name, &d.Distance); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func prefixedStoreColumns(alias string) string {
	return alias + `.id, ` + alias + `.name, ` + alias + `.slug, ` + alias + `.description, ` +
		alias + `.tags, ` + alias + `.ratings_average, ` + alias + `.ratings_quantity, ` +
		alias + `.photo, ` + alias + `.lng, ` + alias + `.lat, ` + alias + `.address, ` +
		alias + `.author_id, ` + alias + `.created_at, ` + alias + `.updated_at`
}

var _ repository.StoreRepository = (*StoreRepository)(nil)
