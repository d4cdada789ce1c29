package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/petaverse-auth/internal/domain/entity"
	"github.com/oksasatya/petaverse-auth/internal/domain/repository"
)

// UserRepository keeps users in process memory. It backs STORE_DRIVER=memory
// for local runs and the service/HTTP tests.
type UserRepository struct {
	mu      sync.RWMutex
	byID    map[string]*entity.User
	byEmail map[string]string
	Now     func() time.Time
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		byID:    make(map[string]*entity.User),
		byEmail: make(map[string]string),
		Now:     time.Now,
	}
}

func clone(u *entity.User) *entity.User {
	cp := *u
	if u.VerificationToken != nil {
		tok := *u.VerificationToken
		cp.VerificationToken = &tok
	}
	return &cp
}

func (r *UserRepository) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEmail[u.Email]; ok {
		return repository.ErrDuplicateEmail
	}
	now := r.Now().UTC()
	u.ID = uuid.NewString()
	u.CreatedAt, u.UpdatedAt = now, now
	r.byID[u.ID] = clone(u)
	r.byEmail[u.Email] = u.ID
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return clone(u), nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return clone(r.byID[id]), nil
}

func (r *UserRepository) Update(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.byID[u.ID]
	if !ok {
		return repository.ErrNotFound
	}
	u.UpdatedAt = r.Now().UTC()
	// email, password and createdAt are immutable after registration
	u.Email, u.Password, u.CreatedAt = cur.Email, cur.Password, cur.CreatedAt
	r.byID[u.ID] = clone(u)
	return nil
}

func (r *UserRepository) Activate(_ context.Context, u *entity.User, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.byID[u.ID]
	if !ok || cur.IsVerified || cur.VerificationToken == nil || *cur.VerificationToken != code {
		return repository.ErrNotFound
	}
	cur.Activate()
	cur.UpdatedAt = r.Now().UTC()
	*u = *clone(cur)
	return nil
}

func (r *UserRepository) DeleteByEmail(_ context.Context, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byEmail[email]
	if !ok {
		return repository.ErrNotFound
	}
	delete(r.byEmail, email)
	delete(r.byID, id)
	return nil
}

func (r *UserRepository) List(_ context.Context) ([]entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]entity.User, 0, len(r.byID))
	for _, u := range r.byID {
		out = append(out, *clone(u))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].Email < out[j].Email
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
