package services

import (
	"context"

	"account-ledger/internal/models"
	"account-ledger/internal/repository"
	"account-ledger/internal/utils"
)

type UserService struct {
	users repository.UserStore
	auth  *AuthService
}

func NewUserService(users repository.UserStore, auth *AuthService) *UserService {
	return &UserService{users: users, auth: auth}
}

func (s *UserService) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	hash, err := s.auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	user := &models.User{Name: name, Email: email, PasswordHash: hash}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}

// List returns one page of users together with the paging envelope.
func (s *UserService) List(ctx context.Context, page, pageSize int, search, sort string) (*models.UserListResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}

	count, err := s.users.Count(ctx, search)
	if err != nil {
		return nil, err
	}

	users, err := s.users.List(ctx, repository.ListQuery{
		Offset: (page - 1) * pageSize,
		Limit:  pageSize,
		Search: search,
		Sort:   sort,
	})
	if err != nil {
		return nil, err
	}

	totalPages := (count + pageSize - 1) / pageSize
	resp := &models.UserListResponse{
		PageNumber:      page,
		PageSize:        pageSize,
		Count:           count,
		TotalPages:      totalPages,
		HasPreviousPage: page > 1,
		HasNextPage:     page < totalPages,
		Data:            make([]models.UserResponse, 0, len(users)),
	}
	for _, u := range users {
		resp.Data = append(resp.Data, models.UserResponse{ID: u.ID, Name: u.Name, Email: u.Email})
	}
	return resp, nil
}

func (s *UserService) Update(ctx context.Context, id, name, email string) error {
	return s.users.Update(ctx, id, name, email)
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	return s.users.Delete(ctx, id)
}

func (s *UserService) ChangePassword(ctx context.Context, id, oldPassword, newPassword string) error {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.auth.CheckPasswordHash(oldPassword, user.PasswordHash); err != nil {
		return ErrInvalidCredentials
	}
	hash, err := s.auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.users.SetPasswordHash(ctx, id, hash); err != nil {
		return err
	}
	utils.LogInfo("UserService", "Password changed for user %s", id)
	return nil
}
