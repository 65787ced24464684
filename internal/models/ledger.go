package models

// Amounts travel as decimal strings end to end. They are parsed exactly once,
// by the ledger service; handlers never convert them to floats.
type DepositRequest struct {
	Amount string `json:"amount" validate:"required"`
}

type WithdrawRequest struct {
	Amount string `json:"amount" validate:"required"`
}

type TransferRequest struct {
	FromAccountID string `json:"from_account_id" validate:"required"`
	ToAccountID   string `json:"to_account_id" validate:"required"`
	Amount        string `json:"amount" validate:"required"`
}

type LedgerResponse struct {
	AccountID string `json:"account_id"`
	Balance   string `json:"balance"`
}

type TransferResponse struct {
	FromAccountID string `json:"from_account_id"`
	ToAccountID   string `json:"to_account_id"`
	FromBalance   string `json:"from_balance"`
	ToBalance     string `json:"to_balance"`
}
