package handler

import (
	"net/http"

	"github.com/segyhp/fundease/internal/domain"
	"github.com/segyhp/fundease/internal/service"
	"github.com/segyhp/fundease/pkg/response"
)

// LedgerHandler serves contributions and withdrawals.
type LedgerHandler struct {
	ledger *service.LedgerService
}

func NewLedgerHandler(ledger *service.LedgerService) *LedgerHandler {
	return &LedgerHandler{ledger: ledger}
}

func (h *LedgerHandler) CreateContribution(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateContributionRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	contribution, err := h.ledger.CreateContribution(r.Context(), &req)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.Created(w, contribution)
}

// ListContributions accepts user_id, status, payment_method, from and to.
func (h *LedgerHandler) ListContributions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.ContributionFilter{
		Status:        domain.ContributionStatus(q.Get("status")),
		PaymentMethod: domain.PaymentMethod(q.Get("payment_method")),
	}

	var err error
	if filter.UserID, err = queryUUID(r, "user_id"); err != nil {
		response.BadRequest(w, err.Error())
		return
	}
	if filter.From, err = queryDate(r, "from"); err != nil {
		response.BadRequest(w, err.Error())
		return
	}
	if filter.To, err = queryDate(r, "to"); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	contributions, err := h.ledger.ListContributions(r.Context(), filter)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.Success(w, contributions)
}

func (h *LedgerHandler) UpdateContributionStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	var req domain.UpdateContributionStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	contribution, err := h.ledger.UpdateContributionStatus(r.Context(), id, &req)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.Success(w, contribution)
}

func (h *LedgerHandler) CreateWithdrawal(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateWithdrawalRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	withdrawal, err := h.ledger.CreateWithdrawal(r.Context(), &req)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.Created(w, withdrawal)
}

func (h *LedgerHandler) ListWithdrawals(w http.ResponseWriter, r *http.Request) {
	userID, err := queryUUID(r, "user_id")
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	withdrawals, err := h.ledger.ListWithdrawals(r.Context(), userID)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.Success(w, withdrawals)
}

func (h *LedgerHandler) UpdateWithdrawalStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	var req domain.UpdateWithdrawalStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	withdrawal, err := h.ledger.UpdateWithdrawalStatus(r.Context(), id, &req)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.Success(w, withdrawal)
}
