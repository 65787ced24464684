package models

import "time"

// Account types form a closed enumeration.
const (
	AccountTypeSavings  = "savings"
	AccountTypeChecking = "checking"
	AccountTypeBusiness = "business"
)

func ValidAccountType(t string) bool {
	switch t {
	case AccountTypeSavings, AccountTypeChecking, AccountTypeBusiness:
		return true
	}
	return false
}

// Account is the persisted account record. Balance is a string-encoded
// decimal with three fraction digits; it is mutated only through the ledger
// operations' atomic paths.
type Account struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	AccountType string    `json:"account_type"`
	Balance     string    `json:"balance"`
	CreatedAt   time.Time `json:"created_at"`
}

type CreateAccountRequest struct {
	Name        string `json:"name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	AccountType string `json:"account_type" validate:"required,oneof=savings checking business"`
}

type UpdateAccountRequest struct {
	AccountType string `json:"account_type" validate:"required,oneof=savings checking business"`
}

type AccountResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	AccountType string `json:"account_type"`
	Balance     string `json:"balance"`
}

type AccountListResponse struct {
	Accounts []AccountResponse `json:"accounts"`
	Total    int               `json:"total"`
}
