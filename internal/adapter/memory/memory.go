// Package memory implements the user repository in memory for development
// and testing.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"accounts/internal/domain"
)

// DB is an in-memory user store. It enforces the same username/email
// uniqueness the SQL adapter gets from its constraints.
type DB struct {
	mu    sync.Mutex
	users map[uuid.UUID]*domain.User
}

var _ domain.UserRepository = (*DB)(nil)

// New creates an empty in-memory store.
func New() *DB {
	return &DB{users: make(map[uuid.UUID]*domain.User)}
}

// Create inserts a user, failing with domain.ErrDuplicate when the username
// or email is already taken.
func (db *DB) Create(ctx context.Context, u *domain.User) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, existing := range db.users {
		if existing.Username == u.Username || (u.Email != "" && existing.Email == u.Email) {
			return domain.ErrDuplicate
		}
	}
	clone := *u
	db.users[u.ID] = &clone
	return nil
}

// GetByID retrieves a user by ID.
func (db *DB) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	u, ok := db.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *u
	return &clone, nil
}

// GetByUsername retrieves a user by exact username match.
func (db *DB) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.Username == username {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrNotFound
}

// GetByUsernameOrEmail returns the first user matching either value.
func (db *DB) GetByUsernameOrEmail(ctx context.Context, username, email string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.Username == username || u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrNotFound
}

// List returns all users ordered by creation time.
func (db *DB) List(ctx context.Context) ([]domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	out := make([]domain.User, 0, len(db.users))
	for _, u := range db.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// Update replaces the stored record, enforcing uniqueness against other users.
func (db *DB) Update(ctx context.Context, u *domain.User) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, ok := db.users[u.ID]; !ok {
		return domain.ErrNotFound
	}
	for id, existing := range db.users {
		if id == u.ID {
			continue
		}
		if existing.Username == u.Username || (u.Email != "" && existing.Email == u.Email) {
			return domain.ErrDuplicate
		}
	}
	clone := *u
	db.users[u.ID] = &clone
	return nil
}

// Delete removes a user by ID.
func (db *DB) Delete(ctx context.Context, id uuid.UUID) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, ok := db.users[id]; !ok {
		return domain.ErrNotFound
	}
	delete(db.users, id)
	return nil
}
