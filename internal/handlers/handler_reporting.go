package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/smb_books/internal/core/domain"
	portssvc "github.com/SscSPs/smb_books/internal/core/ports/services"
	"github.com/SscSPs/smb_books/internal/dto"
	"github.com/SscSPs/smb_books/internal/middleware"
	"github.com/gin-gonic/gin"
)

// reportingHandler handles HTTP requests related to financial reports
type reportingHandler struct {
	reportingService portssvc.ReportingSvc
	accessService    portssvc.AccessSvc
}

// registerReportingRoutes registers routes related to financial reports
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingSvc, accessService portssvc.AccessSvc) {
	h := &reportingHandler{
		reportingService: reportingService,
		accessService:    accessService,
	}

	reportingGroup := rg.Group("/reports")
	{
		reportingGroup.GET("/trial-balance", h.getTrialBalance)
		reportingGroup.GET("/integrity", h.getIntegrity)
	}
}

// getTrialBalance godoc
// @Summary Generate trial balance report
// @Description Nets every account's running balance into a debit or credit column
// @Tags reports
// @Produce json
// @Success 200 {object} dto.TrialBalanceResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Security BearerAuth
// @Router /reports/trial-balance [get]
func (h *reportingHandler) getTrialBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	tb, err := h.reportingService.TrialBalance(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err, "Failed to generate report")
		return
	}

	if !tb.IsBalanced {
		logger.Warn("Trial balance does not balance",
			slog.String("total_debit", tb.TotalDebit.String()),
			slog.String("total_credit", tb.TotalCredit.String()))
	}
	c.JSON(http.StatusOK, dto.ToTrialBalanceResponse(tb))
}

// getIntegrity godoc
// @Summary Check ledger integrity
// @Description Recomputes account balances from journal lines and reports drift and unbalanced entries
// @Tags reports
// @Produce json
// @Success 200 {object} domain.IntegrityReport
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 500 {object} map[string]string "Failed to check ledger integrity"
// @Security BearerAuth
// @Router /reports/integrity [get]
func (h *reportingHandler) getIntegrity(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	if err := h.accessService.CheckPermission(c.Request.Context(), actor, domain.PermReportsView); err != nil {
		respondError(c, err, "Failed to check ledger integrity")
		return
	}

	report, err := h.reportingService.CheckLedgerIntegrity(c.Request.Context(), actor.OrganizationID)
	if err != nil {
		respondError(c, err, "Failed to check ledger integrity")
		return
	}

	if !report.OK() {
		logger.Warn("Ledger integrity problems found",
			slog.Int("drifted_accounts", len(report.DriftedAccounts)),
			slog.Int("unbalanced_entries", len(report.UnbalancedEntries)))
	}
	c.JSON(http.StatusOK, report)
}
