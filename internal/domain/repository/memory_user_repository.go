package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"authgate/internal/common"
	"authgate/internal/domain/model"

	"github.com/google/uuid"
)

type memoryUserRepository struct {
	mu         sync.RWMutex
	byID       map[string]model.User
	byUsername map[string]string
	byEmail    map[string]string
}

// NewMemoryUserRepository returns a process-local store. Uniqueness is
// enforced under a single lock, so concurrent Creates cannot both succeed.
func NewMemoryUserRepository() UserRepository {
	return &memoryUserRepository{
		byID:       make(map[string]model.User),
		byUsername: make(map[string]string),
		byEmail:    make(map[string]string),
	}
}

func (r *memoryUserRepository) Create(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, usernameTaken := r.byUsername[user.Username]
	_, emailTaken := r.byEmail[user.Email]
	if usernameTaken || emailTaken {
		return fmt.Errorf("user with given username or email already exists: %w", common.ErrConflict)
	}

	now := time.Now().UTC()
	user.ID = uuid.NewString()
	user.CreatedAt = now
	user.UpdatedAt = now

	r.byID[user.ID] = *user
	r.byUsername[user.Username] = user.ID
	r.byEmail[user.Email] = user.ID
	return nil
}

func (r *memoryUserRepository) FindByUsername(_ context.Context, username string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byUsername[username]
	if !ok {
		return nil, common.ErrNotFound
	}
	u := r.byID[id]
	return &u, nil
}

func (r *memoryUserRepository) FindByUsernameOrEmail(_ context.Context, username, email string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byUsername[username]
	if !ok {
		id, ok = r.byEmail[email]
	}
	if !ok {
		return nil, common.ErrNotFound
	}
	u := r.byID[id]
	return &u, nil
}
