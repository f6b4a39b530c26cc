package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/smb_books/internal/core/ports/services"
	"github.com/SscSPs/smb_books/internal/dto"
	"github.com/SscSPs/smb_books/internal/middleware"
	"github.com/gin-gonic/gin"
)

// reconciliationHandler handles bank statement reconciliations.
type reconciliationHandler struct {
	reconciliationService portssvc.ReconciliationSvcFacade
}

func registerReconciliationRoutes(rg *gin.RouterGroup, svc portssvc.ReconciliationSvcFacade) {
	h := &reconciliationHandler{reconciliationService: svc}

	recs := rg.Group("/reconciliations")
	{
		recs.POST("", h.createReconciliation)
		recs.GET("", h.listReconciliations)
		recs.GET("/:id", h.getReconciliation)
		recs.POST("/:id/complete", h.completeReconciliation)
		recs.POST("/:id/cancel", h.cancelReconciliation)
	}
}

// createReconciliation godoc
// @Summary Start a reconciliation
// @Description Snapshots the book balance against a statement balance
// @Tags reconciliations
// @Accept  json
// @Produce  json
// @Param   reconciliation body dto.CreateReconciliationRequest true "Statement"
// @Success 201 {object} domain.BankReconciliation
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Bank account not found"
// @Failure 500 {object} map[string]string "Failed to create reconciliation"
// @Security BearerAuth
// @Router /reconciliations [post]
func (h *reconciliationHandler) createReconciliation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateReconciliationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateReconciliation", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actor, ok := requireActor(c)
	if !ok {
		return
	}

	rec, err := h.reconciliationService.CreateBankReconciliation(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err, "Failed to create reconciliation")
		return
	}

	logger.Info("Reconciliation started",
		slog.String("reconciliation_id", rec.ReconciliationID),
		slog.String("difference", rec.Difference.String()))
	c.JSON(http.StatusCreated, rec)
}

// listReconciliations godoc
// @Summary List reconciliations of a bank account
// @Tags reconciliations
// @Produce  json
// @Param   bankAccountID query string true "Bank account ID"
// @Success 200 {array} domain.BankReconciliation
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list reconciliations"
// @Security BearerAuth
// @Router /reconciliations [get]
func (h *reconciliationHandler) listReconciliations(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var params dto.ListReconciliationsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListReconciliations", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	recs, err := h.reconciliationService.ListBankReconciliations(c.Request.Context(), actor, params)
	if err != nil {
		respondError(c, err, "Failed to list reconciliations")
		return
	}
	c.JSON(http.StatusOK, recs)
}

// getReconciliation godoc
// @Summary Get a reconciliation
// @Tags reconciliations
// @Produce  json
// @Param   id path string true "Reconciliation ID"
// @Success 200 {object} domain.BankReconciliation
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Reconciliation not found"
// @Failure 500 {object} map[string]string "Failed to retrieve reconciliation"
// @Security BearerAuth
// @Router /reconciliations/{id} [get]
func (h *reconciliationHandler) getReconciliation(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	rec, err := h.reconciliationService.GetBankReconciliation(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve reconciliation")
		return
	}
	c.JSON(http.StatusOK, rec)
}

// completeReconciliation godoc
// @Summary Complete a reconciliation
// @Description Marks the matched transactions reconciled and stamps the bank account
// @Tags reconciliations
// @Accept  json
// @Produce  json
// @Param   id path string true "Reconciliation ID"
// @Param   matched body dto.CompleteReconciliationRequest true "Matched transactions"
// @Success 200 {object} domain.BankReconciliation
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Reconciliation not found"
// @Failure 409 {object} map[string]string "Reconciliation is not in progress"
// @Failure 500 {object} map[string]string "Failed to complete reconciliation"
// @Security BearerAuth
// @Router /reconciliations/{id}/complete [post]
func (h *reconciliationHandler) completeReconciliation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CompleteReconciliationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CompleteReconciliation", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actor, ok := requireActor(c)
	if !ok {
		return
	}

	rec, err := h.reconciliationService.CompleteBankReconciliation(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		respondError(c, err, "Failed to complete reconciliation")
		return
	}

	logger.Info("Reconciliation completed",
		slog.String("reconciliation_id", rec.ReconciliationID),
		slog.Int("transaction_count", len(rec.ReconciledTransactionIDs)))
	c.JSON(http.StatusOK, rec)
}

// cancelReconciliation godoc
// @Summary Cancel a reconciliation
// @Tags reconciliations
// @Produce  json
// @Param   id path string true "Reconciliation ID"
// @Success 200 {object} domain.BankReconciliation
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Reconciliation not found"
// @Failure 409 {object} map[string]string "Reconciliation is not in progress"
// @Failure 500 {object} map[string]string "Failed to cancel reconciliation"
// @Security BearerAuth
// @Router /reconciliations/{id}/cancel [post]
func (h *reconciliationHandler) cancelReconciliation(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	rec, err := h.reconciliationService.CancelBankReconciliation(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to cancel reconciliation")
		return
	}
	c.JSON(http.StatusOK, rec)
}
