package models

import "time"

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateUserRequest struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

type UserResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UserListResponse mirrors the paginated listing shape of the user endpoint.
type UserListResponse struct {
	PageNumber      int            `json:"page_number"`
	PageSize        int            `json:"page_size"`
	Count           int            `json:"count"`
	TotalPages      int            `json:"total_pages"`
	HasPreviousPage bool           `json:"has_previous_page"`
	HasNextPage     bool           `json:"has_next_page"`
	Data            []UserResponse `json:"data"`
}
