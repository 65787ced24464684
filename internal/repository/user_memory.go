package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"account-ledger/internal/models"
)

// MemoryUserStore mirrors PostgresUserStore for tests and dev mode.
type MemoryUserStore struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{users: make(map[string]*models.User)}
}

func (r *MemoryUserStore) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return ErrDuplicateEmail
		}
	}
	user.ID = uuid.New().String()
	user.CreatedAt = time.Now()
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *MemoryUserStore) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *MemoryUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *MemoryUserStore) matches(u *models.User, search string) bool {
	field, value, ok := strings.Cut(search, ":")
	if !ok || value == "" {
		return true
	}
	switch field {
	case "name":
		return strings.Contains(strings.ToLower(u.Name), strings.ToLower(value))
	case "email":
		return strings.Contains(strings.ToLower(u.Email), strings.ToLower(value))
	}
	return true
}

func (r *MemoryUserStore) List(ctx context.Context, q ListQuery) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var users []models.User
	for _, u := range r.users {
		if r.matches(u, q.Search) {
			users = append(users, *u)
		}
	}

	field, dir, _ := strings.Cut(q.Sort, ":")
	desc := dir == "desc"
	sort.Slice(users, func(i, j int) bool {
		var less bool
		switch field {
		case "name":
			less = users[i].Name < users[j].Name
		case "created_at":
			less = users[i].CreatedAt.Before(users[j].CreatedAt)
		default:
			less = users[i].Email < users[j].Email
		}
		if desc {
			return !less
		}
		return less
	})

	if q.Offset >= len(users) {
		return nil, nil
	}
	users = users[q.Offset:]
	if q.Limit > 0 && q.Limit < len(users) {
		users = users[:q.Limit]
	}
	return users, nil
}

func (r *MemoryUserStore) Count(ctx context.Context, search string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, u := range r.users {
		if r.matches(u, search) {
			count++
		}
	}
	return count, nil
}

func (r *MemoryUserStore) Update(ctx context.Context, id, name, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return ErrUserNotFound
	}
	for otherID, other := range r.users {
		if otherID != id && other.Email == email {
			return ErrDuplicateEmail
		}
	}
	u.Name = name
	u.Email = email
	return nil
}

func (r *MemoryUserStore) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *MemoryUserStore) SetPasswordHash(ctx context.Context, id, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return ErrUserNotFound
	}
	u.PasswordHash = hash
	return nil
}
