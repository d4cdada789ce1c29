package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/petaverse-auth/internal/domain/entity"
	"github.com/oksasatya/petaverse-auth/internal/domain/repository"
)

// fakeRow answers Scan with err, or copies values into the destinations.
type fakeRow struct {
	values []any
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	for i, d := range dest {
		switch p := d.(type) {
		case *string:
			*p = r.values[i].(string)
		case **string:
			*p = r.values[i].(*string)
		case *bool:
			*p = r.values[i].(bool)
		case *time.Time:
			*p = r.values[i].(time.Time)
		}
	}
	return nil
}

// fakeDB records the last statement and answers with canned results.
type fakeDB struct {
	row  fakeRow
	tag  pgconn.CommandTag
	err  error
	sql  string
	args []any
}

func (f *fakeDB) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	f.sql, f.args = sql, args
	return f.row
}

func (f *fakeDB) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	f.sql, f.args = sql, args
	return nil, f.err
}

func (f *fakeDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.sql, f.args = sql, args
	return f.tag, f.err
}

func newRepo(db *fakeDB) *UserRepository {
	return &UserRepository{db: db}
}

func TestCreate_DuplicateEmail(t *testing.T) {
	db := &fakeDB{row: fakeRow{err: &pgconn.PgError{Code: pgUniqueViolation, ConstraintName: "users_email_key"}}}
	err := newRepo(db).Create(context.Background(), &entity.User{Email: "ana@example.com"})
	assert.ErrorIs(t, err, repository.ErrDuplicateEmail)
	assert.Contains(t, db.sql, "INSERT INTO users")
}

func TestCreate_OtherFailureIsWrapped(t *testing.T) {
	cause := &pgconn.PgError{Code: "08006"}
	err := newRepo(&fakeDB{row: fakeRow{err: cause}}).Create(context.Background(), &entity.User{})
	require.Error(t, err)
	assert.NotErrorIs(t, err, repository.ErrDuplicateEmail)
	assert.ErrorIs(t, err, cause)
}

func TestCreate_FillsGeneratedColumns(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	db := &fakeDB{row: fakeRow{values: []any{"6b1c7d2e-0000-4000-8000-000000000001", now, now}}}
	u := &entity.User{Email: "ana@example.com"}
	require.NoError(t, newRepo(db).Create(context.Background(), u))
	assert.Equal(t, "6b1c7d2e-0000-4000-8000-000000000001", u.ID)
	assert.Equal(t, now, u.CreatedAt)
}

func TestLookups_NotFound(t *testing.T) {
	ctx := context.Background()

	t.Run("no rows by email", func(t *testing.T) {
		_, err := newRepo(&fakeDB{row: fakeRow{err: pgx.ErrNoRows}}).GetByEmail(ctx, "who@example.com")
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("no rows by id", func(t *testing.T) {
		_, err := newRepo(&fakeDB{row: fakeRow{err: pgx.ErrNoRows}}).GetByID(ctx, "6b1c7d2e-0000-4000-8000-000000000001")
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("id is not a uuid", func(t *testing.T) {
		db := &fakeDB{row: fakeRow{err: &pgconn.PgError{Code: pgInvalidTextInput}}}
		_, err := newRepo(db).GetByID(ctx, "not-a-uuid")
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("connection failure passes through", func(t *testing.T) {
		cause := errors.New("conn closed")
		_, err := newRepo(&fakeDB{row: fakeRow{err: cause}}).GetByEmail(ctx, "ana@example.com")
		assert.ErrorIs(t, err, cause)
		assert.NotErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestUpdate_Missing(t *testing.T) {
	err := newRepo(&fakeDB{row: fakeRow{err: pgx.ErrNoRows}}).Update(context.Background(), &entity.User{ID: "x"})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestActivate(t *testing.T) {
	ctx := context.Background()

	t.Run("code already consumed", func(t *testing.T) {
		db := &fakeDB{row: fakeRow{err: pgx.ErrNoRows}}
		err := newRepo(db).Activate(ctx, &entity.User{ID: "u-1"}, "123456")
		assert.ErrorIs(t, err, repository.ErrNotFound)
		assert.Contains(t, db.sql, "verification_token = $2")
		assert.Equal(t, []any{"u-1", "123456"}, db.args)
	})

	t.Run("id is not a uuid", func(t *testing.T) {
		db := &fakeDB{row: fakeRow{err: &pgconn.PgError{Code: pgInvalidTextInput}}}
		err := newRepo(db).Activate(ctx, &entity.User{ID: "u-1"}, "123456")
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("activated", func(t *testing.T) {
		now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
		var noCode *string
		db := &fakeDB{row: fakeRow{values: []any{
			"u-1", "Ana", "ana@example.com", "$2a$10$hash", now, "PT", noCode, true, now, now,
		}}}
		u := &entity.User{ID: "u-1"}
		require.NoError(t, newRepo(db).Activate(ctx, u, "123456"))
		assert.True(t, u.IsVerified)
		assert.Nil(t, u.VerificationToken)
		assert.Equal(t, "ana@example.com", u.Email)
	})
}

func TestDeleteByEmail(t *testing.T) {
	ctx := context.Background()

	err := newRepo(&fakeDB{tag: pgconn.NewCommandTag("DELETE 0")}).DeleteByEmail(ctx, "who@example.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	err = newRepo(&fakeDB{tag: pgconn.NewCommandTag("DELETE 1")}).DeleteByEmail(ctx, "ana@example.com")
	assert.NoError(t, err)
}

func TestPgCode(t *testing.T) {
	assert.Equal(t, pgUniqueViolation, pgCode(&pgconn.PgError{Code: pgUniqueViolation}))
	assert.Equal(t, pgUniqueViolation, pgCode(errors.Join(errors.New("ctx"), &pgconn.PgError{Code: pgUniqueViolation})))
	assert.Empty(t, pgCode(pgx.ErrNoRows))
	assert.Empty(t, pgCode(nil))
}
