package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/petaverse-auth/internal/domain/entity"
)

var (
	// ErrNotFound is returned when no record matches the lookup.
	ErrNotFound = errors.New("user not found")
	// ErrDuplicateEmail is returned when an insert collides with an existing email.
	ErrDuplicateEmail = errors.New("email already exists")
)

// UserRepository defines the interface for user persistence.
// Implementations must enforce email uniqueness on Create and report
// collisions as ErrDuplicateEmail.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, u *entity.User) error
	// Activate marks the record Active only while it still holds code, and
	// copies the stored result into u. It returns ErrNotFound when no pending
	// record with that id and code exists.
	Activate(ctx context.Context, u *entity.User, code string) error
	DeleteByEmail(ctx context.Context, email string) error
	List(ctx context.Context) ([]entity.User, error)
}
