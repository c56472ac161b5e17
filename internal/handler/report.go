package handler

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/segyhp/fundease/internal/domain"
	"github.com/segyhp/fundease/internal/service"
	"github.com/segyhp/fundease/pkg/response"
)

// ReportHandler serves dashboard aggregates.
type ReportHandler struct {
	reports *service.ReportService
}

func NewReportHandler(reports *service.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

type fundBalanceResponse struct {
	*domain.FundBalance
	Balance decimal.Decimal `json:"balance"`
}

// FundBalance handles GET /api/v1/reports/fund-balance
func (h *ReportHandler) FundBalance(w http.ResponseWriter, r *http.Request) {
	balance, err := h.reports.FundBalance(r.Context())
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.Success(w, fundBalanceResponse{FundBalance: balance, Balance: balance.Total()})
}

// LoanStats handles GET /api/v1/loans/stats
func (h *ReportHandler) LoanStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.reports.ComputeLoanStats(r.Context())
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.Success(w, stats)
}

// FinancialSummary handles GET /api/v1/reports/summary
func (h *ReportHandler) FinancialSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.reports.FinancialSummary(r.Context())
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.Success(w, summary)
}

// MemberSummary handles GET /api/v1/users/{userId}/summary
func (h *ReportHandler) MemberSummary(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUUID(r, "userId")
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	summary, err := h.reports.MemberSummary(r.Context(), userID)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.Success(w, summary)
}
