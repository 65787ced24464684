package repository

import (
	"context"

	"account-ledger/internal/models"
)

// ListQuery carries the pagination, search, and sort parameters of the user
// listing endpoint. Search and Sort use the "field:value" form, e.g.
// "email:@example.com" or "name:desc".
type ListQuery struct {
	Offset int
	Limit  int
	Search string
	Sort   string
}

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, q ListQuery) ([]models.User, error)
	Count(ctx context.Context, search string) (int, error)
	Update(ctx context.Context, id, name, email string) error
	Delete(ctx context.Context, id string) error
	SetPasswordHash(ctx context.Context, id, hash string) error
}
