package http

import (
	"net/http"

	"github.com/cmlabs-hris/hris-leave-go/internal/domain/balance"
	"github.com/cmlabs-hris/hris-leave-go/internal/handler/http/response"
)

type BalanceHandler interface {
	Get(w http.ResponseWriter, r *http.Request)
	InitializeAll(w http.ResponseWriter, r *http.Request)
}

type balanceHandlerImpl struct {
	ledger balance.Ledger
}

func NewBalanceHandler(ledger balance.Ledger) BalanceHandler {
	return &balanceHandlerImpl{ledger: ledger}
}

// Get implements BalanceHandler.
func (h *balanceHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := idParam(r, "employeeID")
	if !ok {
		response.BadRequest(w, "Invalid employee ID", nil)
		return
	}

	remaining, err := h.ledger.GetBalance(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, balance.BalanceResponse{EmployeeID: employeeID, Balance: remaining})
}

// InitializeAll implements BalanceHandler.
func (h *balanceHandlerImpl) InitializeAll(w http.ResponseWriter, r *http.Request) {
	n, err := h.ledger.InitializeAll(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave balances initialized", balance.InitializeResponse{Initialized: n})
}
