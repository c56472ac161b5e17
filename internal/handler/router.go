package handler

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/segyhp/fundease/internal/middleware"
	"github.com/segyhp/fundease/pkg/response"
)

// Handlers groups everything the router dispatches to.
type Handlers struct {
	Health  *HealthHandler
	Loans   *LoanHandler
	Ledger  *LedgerHandler
	Members *MemberHandler
	Reports *ReportHandler
}

// NewRouter wires the API routes. idempotency guards every mutating /api/v1
// route and may be nil.
func NewRouter(h Handlers, idempotency *middleware.Idempotency, logger *slog.Logger) *mux.Router {
	router := mux.NewRouter()
	router.Use(response.CORSMiddleware)
	if logger != nil {
		router.Use(response.LoggingMiddleware(logger))
	}

	// Health check
	if h.Health != nil {
		router.HandleFunc("/health", h.Health.Health).Methods(http.MethodGet)
		router.HandleFunc("/health/ready", h.Health.Ready).Methods(http.MethodGet)
	}

	// API routes
	api := router.PathPrefix("/api/v1").Subrouter()
	if idempotency != nil {
		api.Use(idempotency.Middleware)
	}

	// /loans/stats is registered before /loans/{loanId} so it is not read as an id
	api.HandleFunc("/loans/stats", h.Reports.LoanStats).Methods(http.MethodGet)
	api.HandleFunc("/loans", h.Loans.CreateLoan).Methods(http.MethodPost)
	api.HandleFunc("/loans", h.Loans.ListLoans).Methods(http.MethodGet)
	api.HandleFunc("/loans/{loanId}", h.Loans.GetLoan).Methods(http.MethodGet)
	api.HandleFunc("/loans/{loanId}/status", h.Loans.UpdateLoanStatus).Methods(http.MethodPut)
	api.HandleFunc("/loans/{loanId}/repayments", h.Loans.RepayLoan).Methods(http.MethodPost)
	api.HandleFunc("/loans/{loanId}/repayments", h.Loans.ListRepayments).Methods(http.MethodGet)
	api.HandleFunc("/repayments/{repaymentId}/status", h.Loans.UpdateRepaymentStatus).Methods(http.MethodPut)

	api.HandleFunc("/users/{userId}/loans", h.Loans.ListUserLoans).Methods(http.MethodGet)
	api.HandleFunc("/users/{userId}/repayments", h.Loans.ListUserRepayments).Methods(http.MethodGet)
	api.HandleFunc("/users/{userId}/summary", h.Reports.MemberSummary).Methods(http.MethodGet)
	api.HandleFunc("/users/{userId}/notifications", h.Members.ListNotifications).Methods(http.MethodGet)

	api.HandleFunc("/contributions", h.Ledger.CreateContribution).Methods(http.MethodPost)
	api.HandleFunc("/contributions", h.Ledger.ListContributions).Methods(http.MethodGet)
	api.HandleFunc("/contributions/{id}/status", h.Ledger.UpdateContributionStatus).Methods(http.MethodPut)
	api.HandleFunc("/withdrawals", h.Ledger.CreateWithdrawal).Methods(http.MethodPost)
	api.HandleFunc("/withdrawals", h.Ledger.ListWithdrawals).Methods(http.MethodGet)
	api.HandleFunc("/withdrawals/{id}/status", h.Ledger.UpdateWithdrawalStatus).Methods(http.MethodPut)

	api.HandleFunc("/members/{memberId}/status", h.Members.UpdateMemberStatus).Methods(http.MethodPut)

	api.HandleFunc("/reports/fund-balance", h.Reports.FundBalance).Methods(http.MethodGet)
	api.HandleFunc("/reports/summary", h.Reports.FinancialSummary).Methods(http.MethodGet)

	return router
}
