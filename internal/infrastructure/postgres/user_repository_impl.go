package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/petaverse-auth/internal/domain/entity"
	"github.com/oksasatya/petaverse-auth/internal/domain/repository"
)

const (
	pgUniqueViolation  = "23505"
	pgInvalidTextInput = "22P02"
)

const userColumns = `id, name, email, password_hash, date_of_birth, country,
	verification_token, is_verified, created_at, updated_at`

// querier is the subset of *pgxpool.Pool the repository runs statements on.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type UserRepository struct {
	db querier
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: pool}
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO users (name, email, password_hash, date_of_birth, country, verification_token, is_verified)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`, u.Name, u.Email, u.Password, u.DateOfBirth, u.Country, u.VerificationToken, u.IsVerified)

	if err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if pgCode(err) == pgUniqueViolation {
			return repository.ErrDuplicateEmail
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	// ids that are not UUIDs cannot exist
	if pgCode(err) == pgInvalidTextInput {
		return nil, repository.ErrNotFound
	}
	return u, err
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	err := r.db.QueryRow(ctx, `
		UPDATE users
		SET name = $1, date_of_birth = $2, country = $3,
		    verification_token = $4, is_verified = $5, updated_at = now()
		WHERE id = $6
		RETURNING updated_at
	`, u.Name, u.DateOfBirth, u.Country, u.VerificationToken, u.IsVerified, u.ID).Scan(&u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return repository.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

func (r *UserRepository) Activate(ctx context.Context, u *entity.User, code string) error {
	got, err := scanUser(r.db.QueryRow(ctx, `
		UPDATE users
		SET is_verified = true, verification_token = NULL, updated_at = now()
		WHERE id = $1 AND is_verified = false AND verification_token = $2
		RETURNING `+userColumns, u.ID, code))
	if pgCode(err) == pgInvalidTextInput {
		return repository.ErrNotFound
	}
	if err != nil {
		return err
	}
	*u = *got
	return nil
}

func (r *UserRepository) DeleteByEmail(ctx context.Context, email string) error {
	res, err := r.db.Exec(ctx, `DELETE FROM users WHERE email = $1`, email)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) List(ctx context.Context) ([]entity.User, error) {
	rows, err := r.db.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	out := make([]entity.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	return out, rows.Err()
}

func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.DateOfBirth, &u.Country,
		&u.VerificationToken, &u.IsVerified, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

var _ repository.UserRepository = (*UserRepository)(nil)
