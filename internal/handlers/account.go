package handlers

import (
	"github.com/valyala/fasthttp"

	"account-ledger/internal/models"
	"account-ledger/internal/services"
)

type AccountHandler struct {
	accounts *services.AccountService
}

func NewAccountHandler(accounts *services.AccountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

func accountResponse(a *models.Account) models.AccountResponse {
	return models.AccountResponse{
		ID:          a.ID,
		Name:        a.Name,
		Email:       a.Email,
		AccountType: a.AccountType,
		Balance:     a.Balance,
	}
}

// Create handles POST /accounts.
func (h *AccountHandler) Create(ctx *fasthttp.RequestCtx) {
	var req models.CreateAccountRequest
	if !decodeAndValidate(ctx, &req) {
		return
	}

	account, err := h.accounts.Create(ctx, req.Name, req.Email, req.AccountType)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	respondJSON(ctx, fasthttp.StatusCreated, accountResponse(account))
}

// Get handles GET /accounts/{id}.
func (h *AccountHandler) Get(ctx *fasthttp.RequestCtx, accountID string) {
	account, err := h.accounts.Get(ctx, accountID)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	respondJSON(ctx, fasthttp.StatusOK, accountResponse(account))
}

// List handles GET /accounts.
func (h *AccountHandler) List(ctx *fasthttp.RequestCtx) {
	accounts, err := h.accounts.List(ctx)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	resp := models.AccountListResponse{
		Accounts: make([]models.AccountResponse, 0, len(accounts)),
		Total:    len(accounts),
	}
	for i := range accounts {
		resp.Accounts = append(resp.Accounts, accountResponse(&accounts[i]))
	}
	respondJSON(ctx, fasthttp.StatusOK, resp)
}

// Update handles PUT /accounts/{id}; only account_type is updatable, the
// balance has no administrative write path.
func (h *AccountHandler) Update(ctx *fasthttp.RequestCtx, accountID string) {
	var req models.UpdateAccountRequest
	if !decodeAndValidate(ctx, &req) {
		return
	}

	if err := h.accounts.UpdateType(ctx, accountID, req.AccountType); err != nil {
		respondServiceError(ctx, err)
		return
	}
	respondJSON(ctx, fasthttp.StatusOK, map[string]string{"id": accountID, "account_type": req.AccountType})
}

// Delete handles DELETE /accounts/{id}.
func (h *AccountHandler) Delete(ctx *fasthttp.RequestCtx, accountID string) {
	if err := h.accounts.Delete(ctx, accountID); err != nil {
		respondServiceError(ctx, err)
		return
	}
	respondJSON(ctx, fasthttp.StatusOK, map[string]string{"id": accountID, "status": "deleted"})
}
