package handlers

import (
	"time"

	"github.com/valyala/fasthttp"

	"account-ledger/internal/models"
	"account-ledger/internal/services"
	"account-ledger/internal/utils"
)

type LedgerHandler struct {
	ledger *services.LedgerService
}

func NewLedgerHandler(ledger *services.LedgerService) *LedgerHandler {
	return &LedgerHandler{ledger: ledger}
}

// Deposit handles POST /accounts/{id}/deposit.
func (h *LedgerHandler) Deposit(ctx *fasthttp.RequestCtx, accountID string) {
	start := time.Now()

	var req models.DepositRequest
	if !decodeAndValidate(ctx, &req) {
		return
	}

	account, err := h.ledger.Deposit(ctx, accountID, req.Amount)
	if err != nil {
		respondServiceError(ctx, err)
		utils.LogResponse("/accounts/deposit", ctx.Response.StatusCode(), time.Since(start))
		return
	}

	respondJSON(ctx, fasthttp.StatusOK, models.LedgerResponse{
		AccountID: account.ID,
		Balance:   account.Balance,
	})
	utils.LogResponse("/accounts/deposit", fasthttp.StatusOK, time.Since(start))
}

// Withdraw handles POST /accounts/{id}/withdraw.
func (h *LedgerHandler) Withdraw(ctx *fasthttp.RequestCtx, accountID string) {
	start := time.Now()

	var req models.WithdrawRequest
	if !decodeAndValidate(ctx, &req) {
		return
	}

	account, err := h.ledger.Withdraw(ctx, accountID, req.Amount)
	if err != nil {
		respondServiceError(ctx, err)
		utils.LogResponse("/accounts/withdraw", ctx.Response.StatusCode(), time.Since(start))
		return
	}

	respondJSON(ctx, fasthttp.StatusOK, models.LedgerResponse{
		AccountID: account.ID,
		Balance:   account.Balance,
	})
	utils.LogResponse("/accounts/withdraw", fasthttp.StatusOK, time.Since(start))
}

// Transfer handles POST /transfers.
func (h *LedgerHandler) Transfer(ctx *fasthttp.RequestCtx) {
	start := time.Now()

	var req models.TransferRequest
	if !decodeAndValidate(ctx, &req) {
		return
	}

	if err := h.ledger.Transfer(ctx, req.FromAccountID, req.ToAccountID, req.Amount); err != nil {
		respondServiceError(ctx, err)
		utils.LogResponse("/transfers", ctx.Response.StatusCode(), time.Since(start))
		return
	}

	from, to, err := h.ledger.AccountPair(ctx, req.FromAccountID, req.ToAccountID)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	respondJSON(ctx, fasthttp.StatusOK, models.TransferResponse{
		FromAccountID: from.ID,
		ToAccountID:   to.ID,
		FromBalance:   from.Balance,
		ToBalance:     to.Balance,
	})
	utils.LogResponse("/transfers", fasthttp.StatusOK, time.Since(start))
}
