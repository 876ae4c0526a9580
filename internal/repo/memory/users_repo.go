package memory

import (
	"context"
	"sync"
	"time"

	"github.com/clearlist/api/internal/domain/user"
	"github.com/google/uuid"
)

type UsersRepo struct {
	mu    sync.RWMutex
	items map[string]user.User // keyed by username, the unique index
}

func NewUsersRepo() *UsersRepo {
	return &UsersRepo{
		items: make(map[string]user.User),
	}
}

func (r *UsersRepo) GetByUsername(_ context.Context, username string) (user.User, error) {
	r.mu.RLock()
	u, ok := r.items[username]
	r.mu.RUnlock()

	if !ok {
		return user.User{}, user.ErrNotFound
	}

	return u, nil
}

func (r *UsersRepo) Create(_ context.Context, username, passwordHash string) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[username]; exists {
		return user.User{}, user.ErrUsernameTaken
	}

	now := time.Now().UTC()

	u := user.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	r.items[username] = u

	return u, nil
}
