package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/eadebayo/delicioso/internal/domain/entity"
	"github.com/eadebayo/delicioso/internal/domain/repository"
)

type UserRepository struct {
	pool db
}

func NewUserRepository(pool db) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `id, name, email, role, password_hash, photo, active,
	password_changed_at, reset_token_hash, reset_token_expires, created_at, updated_at`

func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	var resetHash *string
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.PasswordHash, &u.Photo, &u.Active,
		&u.PasswordChangedAt, &resetHash, &u.ResetTokenExpires, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	if resetHash != nil {
		u.ResetTokenHash = *resetHash
	}
	return u, nil
}

// activeClause renders the explicit read predicate. Callers opting out of
// the soft-delete exclusion get an always-true clause.
func activeClause(f repository.UserFilter) string {
	if f.ActiveOnly {
		return "active"
	}
	return "TRUE"
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (name, email, role, password_hash, photo, active)
		VALUES ($1, lower($2), $3, $4, COALESCE(NULLIF($5, ''), 'default.jpg'), $6)
		RETURNING id, email, photo, created_at, updated_at
	`, u.Name, u.Email, u.Role, u.PasswordHash, u.Photo, u.Active)
	if err := row.Scan(&u.ID, &u.Email, &u.Photo, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string, f repository.UserFilter) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1 AND `+activeClause(f), id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string, f repository.UserFilter) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE email = lower($1) AND `+activeClause(f), email))
}

func (r *UserRepository) GetByResetTokenHash(ctx context.Context, hash string, f repository.UserFilter) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE reset_token_hash = $1 AND reset_token_expires > now() AND `+activeClause(f), hash))
}

func (r *UserRepository) Update(ctx context.Context, id string, in repository.UpdateUserInput) (*entity.User, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE users
		SET name = COALESCE($1, name),
		    email = COALESCE(lower($2), email),
		    updated_at = now()
		WHERE id = $3 AND active
		RETURNING `+userColumns, in.Name, in.Email, id)
	u, err := scanUser(row)
	if err != nil && isUniqueViolation(err) {
		return nil, repository.ErrDuplicate
	}
	return u, err
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id, passwordHash string, changedAt time.Time) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET password_hash = $1, password_changed_at = $2, updated_at = now()
		WHERE id = $3 AND active
	`, passwordHash, changedAt, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) SetResetToken(ctx context.Context, id, tokenHash string, expires time.Time) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET reset_token_hash = $1, reset_token_expires = $2, updated_at = now()
		WHERE id = $3 AND active
	`, tokenHash, expires, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// ResetPassword clears the reset token fields in the same update that sets
// the new password, making the token single-use.
func (r *UserRepository) ResetPassword(ctx context.Context, id, passwordHash string, changedAt time.Time) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET password_hash = $1,
		    password_changed_at = $2,
		    reset_token_hash = NULL,
		    reset_token_expires = NULL,
		    updated_at = now()
		WHERE id = $3 AND active
	`, passwordHash, changedAt, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) Deactivate(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE users SET active = FALSE, updated_at = now() WHERE id = $1 AND active
	`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) ToggleHeart(ctx context.Context, userID, storeID string) (bool, error) {
	res, err := r.pool.Exec(ctx, `
		INSERT INTO user_hearts (user_id, store_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, store_id) DO NOTHING
	`, userID, storeID)
	if err != nil {
		return false, err
	}
	if res.RowsAffected() > 0 {
		return true, nil
	}
	_, err = r.pool.Exec(ctx, `
		DELETE FROM user_hearts WHERE user_id = $1 AND store_id = $2
	`, userID, storeID)
	return false, err
}

func (r *UserRepository) Hearts(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT store_id FROM user_hearts WHERE user_id = $1
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

var _ repository.UserRepository = (*UserRepository)(nil)
