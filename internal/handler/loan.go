package handler

import (
	"net/http"
	"strings"

	"github.com/segyhp/fundease/internal/domain"
	"github.com/segyhp/fundease/internal/service"
	"github.com/segyhp/fundease/pkg/response"
)

type LoanHandler struct {
	loans      *service.LoanService
	repayments *service.RepaymentService
}

func NewLoanHandler(loans *service.LoanService, repayments *service.RepaymentService) *LoanHandler {
	return &LoanHandler{
		loans:      loans,
		repayments: repayments,
	}
}

// CreateLoan handles POST /api/v1/loans
func (h *LoanHandler) CreateLoan(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateLoanRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	loan, err := h.loans.CreateLoan(r.Context(), &req)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.Created(w, loan)
}

// ListLoans handles GET /api/v1/loans
func (h *LoanHandler) ListLoans(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.LoanFilter{
		Status:  domain.LoanStatus(q.Get("status")),
		Search:  q.Get("search"),
		SortBy:  q.Get("sort_by"),
		SortDir: strings.ToUpper(q.Get("sort_dir")),
	}

	var err error
	if filter.Page, err = queryInt(r, "page"); err != nil {
		response.BadRequest(w, err.Error())
		return
	}
	if filter.Limit, err = queryInt(r, "limit"); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	page, err := h.loans.ListLoans(r.Context(), filter)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.Success(w, page)
}

// GetLoan handles GET /api/v1/loans/{loanId}
func (h *LoanHandler) GetLoan(w http.ResponseWriter, r *http.Request) {
	loanID, err := pathUUID(r, "loanId")
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	detail, err := h.loans.GetLoan(r.Context(), loanID)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.Success(w, detail)
}

// UpdateLoanStatus handles PUT /api/v1/loans/{loanId}/status
func (h *LoanHandler) UpdateLoanStatus(w http.ResponseWriter, r *http.Request) {
	loanID, err := pathUUID(r, "loanId")
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	var req domain.UpdateLoanStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	loan, err := h.loans.UpdateLoanStatus(r.Context(), loanID, &req)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.Success(w, loan)
}

// ListUserLoans handles GET /api/v1/users/{userId}/loans
func (h *LoanHandler) ListUserLoans(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUUID(r, "userId")
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	loans, err := h.loans.ListMemberLoans(r.Context(), userID)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.Success(w, loans)
}

// RepayLoan handles POST /api/v1/loans/{loanId}/repayments
func (h *LoanHandler) RepayLoan(w http.ResponseWriter, r *http.Request) {
	loanID, err := pathUUID(r, "loanId")
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	var req domain.RepayLoanRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}
	req.LoanID = loanID

	result, err := h.repayments.RepayLoan(r.Context(), &req)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.Created(w, result)
}

// ListRepayments handles GET /api/v1/loans/{loanId}/repayments
func (h *LoanHandler) ListRepayments(w http.ResponseWriter, r *http.Request) {
	loanID, err := pathUUID(r, "loanId")
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	repayments, err := h.repayments.ListRepayments(r.Context(), loanID)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.Success(w, repayments)
}

// ListUserRepayments handles GET /api/v1/users/{userId}/repayments
func (h *LoanHandler) ListUserRepayments(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUUID(r, "userId")
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	repayments, err := h.repayments.ListUserRepayments(r.Context(), userID)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.Success(w, repayments)
}

// UpdateRepaymentStatus handles PUT /api/v1/repayments/{repaymentId}/status
func (h *LoanHandler) UpdateRepaymentStatus(w http.ResponseWriter, r *http.Request) {
	repaymentID, err := pathUUID(r, "repaymentId")
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	var req domain.UpdateRepaymentStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	repayment, err := h.repayments.UpdateRepaymentStatus(r.Context(), repaymentID, &req)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.Success(w, repayment)
}
