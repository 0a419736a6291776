package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Profanor/micro-commerce-app/internal/domain"
)

const (
	codeMethodNotAllowed   = "method_not_allowed"
	codeNotFound           = "not_found"
	codeInvalidRequestBody = "invalid_request_body"
	codeInvalidUserID      = "invalid_user_id"
	codeInvalidID          = "invalid_id"
	codeEmptyOrder         = "empty_order"
	codeInvalidQuantity    = "invalid_quantity"
	codeProductNotFound    = "product_not_found"
	codeInsufficientStock  = "insufficient_stock"
	codeOrderNotFound      = "order_not_found"
	codeOrderAlreadyPaid   = "order_already_paid"
	codeTitleRequired      = "title_required"
	codeNegativePrice      = "negative_price"
	codeNegativeInventory  = "negative_inventory"
	codeTransactionFailed  = "transaction_failed"
	codeForbidden          = "forbidden"
	codeInternalError      = "internal_error"
)

type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	ProductID int64  `json:"product_id,omitempty"`
	Requested int    `json:"requested,omitempty"`
	Available int    `json:"available,omitempty"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeErrorResponse(w, status, errorResponse{Error: msg, Code: code})
}

func writeErrorResponse(w http.ResponseWriter, status int, resp errorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload, err := json.Marshal(resp)
	if err != nil {
		_, _ = w.Write([]byte(`{"error":"internal error","code":"internal_error"}`))
		return
	}
	_, _ = w.Write(payload)
}

// writeServiceError maps domain errors onto HTTP responses. Validation
// errors are 400, missing entities 404, business conflicts 409 and a
// rolled-back transaction 503 so the caller knows a retry is safe.
func writeServiceError(w http.ResponseWriter, err error) {
	var notFound domain.ProductNotFoundError
	if errors.As(err, &notFound) {
		writeErrorResponse(w, http.StatusNotFound, errorResponse{
			Error:     notFound.Error(),
			Code:      codeProductNotFound,
			ProductID: notFound.ProductID,
		})
		return
	}

	var stock domain.InsufficientStockError
	if errors.As(err, &stock) {
		writeErrorResponse(w, http.StatusConflict, errorResponse{
			Error:     stock.Error(),
			Code:      codeInsufficientStock,
			ProductID: stock.ProductID,
			Requested: stock.Requested,
			Available: stock.Available,
		})
		return
	}

	var txFailed *domain.TransactionFailedError
	if errors.As(err, &txFailed) {
		writeError(w, http.StatusServiceUnavailable, codeTransactionFailed, "transaction failed, retry the request")
		return
	}

	switch {
	case errors.Is(err, domain.ErrEmptyOrder):
		writeError(w, http.StatusBadRequest, codeEmptyOrder, err.Error())
	case errors.Is(err, domain.ErrInvalidQuantity):
		writeError(w, http.StatusBadRequest, codeInvalidQuantity, err.Error())
	case errors.Is(err, domain.ErrTitleRequired):
		writeError(w, http.StatusBadRequest, codeTitleRequired, err.Error())
	case errors.Is(err, domain.ErrNegativePrice):
		writeError(w, http.StatusBadRequest, codeNegativePrice, err.Error())
	case errors.Is(err, domain.ErrNegativeInventory):
		writeError(w, http.StatusBadRequest, codeNegativeInventory, err.Error())
	case errors.Is(err, domain.ErrOrderNotFound):
		writeError(w, http.StatusNotFound, codeOrderNotFound, err.Error())
	case errors.Is(err, domain.ErrOrderAlreadyPaid):
		writeError(w, http.StatusConflict, codeOrderAlreadyPaid, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}
