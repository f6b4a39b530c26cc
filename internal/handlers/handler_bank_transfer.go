package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/smb_books/internal/core/ports/services"
	"github.com/SscSPs/smb_books/internal/dto"
	"github.com/SscSPs/smb_books/internal/middleware"
	"github.com/gin-gonic/gin"
)

type bankTransferHandler struct {
	transferService portssvc.BankTransferSvcFacade
}

func registerBankTransferRoutes(rg *gin.RouterGroup, svc portssvc.BankTransferSvcFacade) {
	h := &bankTransferHandler{transferService: svc}

	transfers := rg.Group("/transfers")
	{
		transfers.POST("", h.createTransfer)
		transfers.GET("", h.listTransfers)
		transfers.GET("/:id", h.getTransfer)
		transfers.DELETE("/:id", h.deleteTransfer)
	}
}

// createTransfer godoc
// @Summary Transfer cash between bank accounts
// @Description Records the withdrawal and deposit legs and posts one journal entry
// @Tags transfers
// @Accept  json
// @Produce  json
// @Param   transfer body dto.CreateBankTransferRequest true "Transfer"
// @Success 201 {object} domain.BankTransfer
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Bank account not found"
// @Failure 500 {object} map[string]string "Failed to create transfer"
// @Security BearerAuth
// @Router /transfers [post]
func (h *bankTransferHandler) createTransfer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateBankTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateBankTransfer", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actor, ok := requireActor(c)
	if !ok {
		return
	}

	transfer, err := h.transferService.CreateBankTransfer(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err, "Failed to create transfer")
		return
	}

	logger.Info("Bank transfer created",
		slog.String("transfer_id", transfer.TransferID),
		slog.String("from_bank_account_id", transfer.FromBankAccountID),
		slog.String("to_bank_account_id", transfer.ToBankAccountID))
	c.JSON(http.StatusCreated, transfer)
}

// listTransfers godoc
// @Summary List bank transfers
// @Tags transfers
// @Produce  json
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListBankTransfersResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list transfers"
// @Security BearerAuth
// @Router /transfers [get]
func (h *bankTransferHandler) listTransfers(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var params dto.ListBankTransfersParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListBankTransfers", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	transfers, next, err := h.transferService.ListBankTransfers(c.Request.Context(), actor, params)
	if err != nil {
		respondError(c, err, "Failed to list transfers")
		return
	}
	c.JSON(http.StatusOK, dto.ListBankTransfersResponse{Transfers: transfers, NextToken: next})
}

// getTransfer godoc
// @Summary Get a bank transfer
// @Tags transfers
// @Produce  json
// @Param   id path string true "Transfer ID"
// @Success 200 {object} domain.BankTransfer
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Transfer not found"
// @Failure 500 {object} map[string]string "Failed to retrieve transfer"
// @Security BearerAuth
// @Router /transfers/{id} [get]
func (h *bankTransferHandler) getTransfer(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	transfer, err := h.transferService.GetBankTransfer(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve transfer")
		return
	}
	c.JSON(http.StatusOK, transfer)
}

// deleteTransfer godoc
// @Summary Delete a bank transfer
// @Description Reverses both legs and the transfer's journal entry
// @Tags transfers
// @Param   id path string true "Transfer ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Transfer not found"
// @Failure 409 {object} map[string]string "A leg is reconciled"
// @Failure 500 {object} map[string]string "Failed to delete transfer"
// @Security BearerAuth
// @Router /transfers/{id} [delete]
func (h *bankTransferHandler) deleteTransfer(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	if err := h.transferService.DeleteBankTransfer(c.Request.Context(), actor, c.Param("id")); err != nil {
		respondError(c, err, "Failed to delete transfer")
		return
	}
	c.Status(http.StatusNoContent)
}
