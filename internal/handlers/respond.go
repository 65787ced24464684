package handlers

import (
	"encoding/json"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/valyala/fasthttp"

	"account-ledger/internal/repository"
	"account-ledger/internal/services"
	"account-ledger/internal/utils"
)

var validate = validator.New()

func respondJSON(ctx *fasthttp.RequestCtx, status int, payload interface{}) {
	ctx.SetStatusCode(status)
	ctx.SetContentType("application/json")
	_ = json.NewEncoder(ctx).Encode(payload)
}

func respondError(ctx *fasthttp.RequestCtx, status int, message string) {
	respondJSON(ctx, status, map[string]string{"error": message})
}

// decodeAndValidate unmarshals the request body into req and runs the
// validator tags. A false return means the response has been written.
func decodeAndValidate(ctx *fasthttp.RequestCtx, req interface{}) bool {
	if err := json.Unmarshal(ctx.PostBody(), req); err != nil {
		respondError(ctx, fasthttp.StatusBadRequest, "malformed JSON body")
		return false
	}
	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			respondError(ctx, fasthttp.StatusBadRequest, "invalid field: "+verrs[0].Field())
			return false
		}
		respondError(ctx, fasthttp.StatusBadRequest, "invalid request")
		return false
	}
	return true
}

// respondServiceError translates the service error taxonomy into HTTP
// statuses. Consistency violations are never mapped to a client error: they
// are incidents and surface as 500.
func respondServiceError(ctx *fasthttp.RequestCtx, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidAmount),
		errors.Is(err, services.ErrSelfTransfer),
		errors.Is(err, services.ErrInvalidAccountType):
		respondError(ctx, fasthttp.StatusBadRequest, err.Error())

	case errors.Is(err, repository.ErrAccountNotFound),
		errors.Is(err, repository.ErrUserNotFound):
		respondError(ctx, fasthttp.StatusNotFound, err.Error())

	case errors.Is(err, repository.ErrDuplicateEmail):
		respondError(ctx, fasthttp.StatusConflict, err.Error())

	case errors.Is(err, repository.ErrInsufficientFunds):
		respondError(ctx, fasthttp.StatusUnprocessableEntity, err.Error())

	case errors.Is(err, services.ErrInvalidCredentials):
		respondError(ctx, fasthttp.StatusUnauthorized, err.Error())

	case errors.Is(err, services.ErrTooManyAttempts):
		respondError(ctx, fasthttp.StatusForbidden, err.Error())

	case errors.Is(err, repository.ErrStoreUnavailable):
		respondError(ctx, fasthttp.StatusServiceUnavailable, "storage temporarily unavailable, retry the operation")

	case errors.Is(err, repository.ErrPartialFailure),
		errors.Is(err, repository.ErrFatalInconsistency):
		utils.LogIncident("Handlers", "atomic commit contract violated", err)
		respondError(ctx, fasthttp.StatusInternalServerError, "internal ledger error")

	default:
		utils.LogError("Handlers", "unhandled service error", err)
		respondError(ctx, fasthttp.StatusInternalServerError, "internal server error")
	}
}
