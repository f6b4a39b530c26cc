package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/smb_books/internal/core/ports/services"
	"github.com/SscSPs/smb_books/internal/dto"
	"github.com/SscSPs/smb_books/internal/middleware"
	"github.com/gin-gonic/gin"
)

// bankTransactionHandler handles deposits, withdrawals and the other single-account cash movements.
type bankTransactionHandler struct {
	txnService portssvc.BankTransactionSvcFacade
}

func registerBankTransactionRoutes(rg *gin.RouterGroup, svc portssvc.BankTransactionSvcFacade) {
	h := &bankTransactionHandler{txnService: svc}

	txns := rg.Group("/bank-transactions")
	{
		txns.POST("", h.createTransaction)
		txns.GET("", h.listTransactions)
		txns.GET("/:id", h.getTransaction)
		txns.PUT("/:id", h.updateTransaction)
		txns.DELETE("/:id", h.deleteTransaction)
		txns.POST("/:id/reconcile", h.reconcileTransaction)
	}
}

// createTransaction godoc
// @Summary Record a bank transaction
// @Description Records a cash movement, adjusts the bank balance and posts the matching journal entry
// @Tags bank-transactions
// @Accept  json
// @Produce  json
// @Param   transaction body dto.CreateBankTransactionRequest true "Transaction"
// @Success 201 {object} dto.BankTransactionResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Bank account not found"
// @Failure 500 {object} map[string]string "Failed to record transaction"
// @Security BearerAuth
// @Router /bank-transactions [post]
func (h *bankTransactionHandler) createTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateBankTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateBankTransaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actor, ok := requireActor(c)
	if !ok {
		return
	}

	logger.Info("Received request to record bank transaction",
		slog.String("bank_account_id", req.BankAccountID),
		slog.String("transaction_type", string(req.TransactionType)),
		slog.String("amount", req.Amount.String()))

	txn, err := h.txnService.CreateBankTransaction(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err, "Failed to record transaction")
		return
	}

	logger.Info("Bank transaction recorded", slog.String("transaction_id", txn.TransactionID))
	c.JSON(http.StatusCreated, dto.ToBankTransactionResponse(txn))
}

// listTransactions godoc
// @Summary List transactions of a bank account
// @Tags bank-transactions
// @Produce  json
// @Param   bankAccountID query string true "Bank account ID"
// @Param   unreconciled query bool false "Only unreconciled transactions"
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListBankTransactionsResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list transactions"
// @Security BearerAuth
// @Router /bank-transactions [get]
func (h *bankTransactionHandler) listTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var params dto.ListBankTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListBankTransactions", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	txns, next, err := h.txnService.ListBankTransactions(c.Request.Context(), actor, params)
	if err != nil {
		respondError(c, err, "Failed to list transactions")
		return
	}

	resp := dto.ListBankTransactionsResponse{
		Transactions: make([]dto.BankTransactionResponse, len(txns)),
		NextToken:    next,
	}
	for i := range txns {
		resp.Transactions[i] = dto.ToBankTransactionResponse(&txns[i])
	}
	c.JSON(http.StatusOK, resp)
}

// getTransaction godoc
// @Summary Get a bank transaction
// @Tags bank-transactions
// @Produce  json
// @Param   id path string true "Transaction ID"
// @Success 200 {object} dto.BankTransactionResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 500 {object} map[string]string "Failed to retrieve transaction"
// @Security BearerAuth
// @Router /bank-transactions/{id} [get]
func (h *bankTransactionHandler) getTransaction(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	txn, err := h.txnService.GetBankTransaction(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve transaction")
		return
	}
	c.JSON(http.StatusOK, dto.ToBankTransactionResponse(txn))
}

// updateTransaction godoc
// @Summary Update a bank transaction
// @Description Only the date, description, category and reference can change. Amount and type are fixed once posted.
// @Tags bank-transactions
// @Accept  json
// @Produce  json
// @Param   id path string true "Transaction ID"
// @Param   transaction body dto.UpdateBankTransactionRequest true "Fields to update"
// @Success 200 {object} dto.BankTransactionResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 409 {object} map[string]string "Transaction is reconciled"
// @Failure 500 {object} map[string]string "Failed to update transaction"
// @Security BearerAuth
// @Router /bank-transactions/{id} [put]
func (h *bankTransactionHandler) updateTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdateBankTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateBankTransaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actor, ok := requireActor(c)
	if !ok {
		return
	}

	txn, err := h.txnService.UpdateBankTransaction(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		respondError(c, err, "Failed to update transaction")
		return
	}
	c.JSON(http.StatusOK, dto.ToBankTransactionResponse(txn))
}

// deleteTransaction godoc
// @Summary Delete a bank transaction
// @Description Reverses the cash movement and its journal entry
// @Tags bank-transactions
// @Param   id path string true "Transaction ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 409 {object} map[string]string "Transaction is reconciled or part of a transfer"
// @Failure 500 {object} map[string]string "Failed to delete transaction"
// @Security BearerAuth
// @Router /bank-transactions/{id} [delete]
func (h *bankTransactionHandler) deleteTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("id")

	actor, ok := requireActor(c)
	if !ok {
		return
	}

	if err := h.txnService.DeleteBankTransaction(c.Request.Context(), actor, transactionID); err != nil {
		respondError(c, err, "Failed to delete transaction")
		return
	}

	logger.Info("Bank transaction deleted", slog.String("transaction_id", transactionID))
	c.Status(http.StatusNoContent)
}

// reconcileTransaction godoc
// @Summary Mark a transaction reconciled
// @Tags bank-transactions
// @Produce  json
// @Param   id path string true "Transaction ID"
// @Success 200 {object} dto.BankTransactionResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 409 {object} map[string]string "Already reconciled"
// @Failure 500 {object} map[string]string "Failed to reconcile transaction"
// @Security BearerAuth
// @Router /bank-transactions/{id}/reconcile [post]
func (h *bankTransactionHandler) reconcileTransaction(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	txn, err := h.txnService.ReconcileBankTransaction(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to reconcile transaction")
		return
	}
	c.JSON(http.StatusOK, dto.ToBankTransactionResponse(txn))
}
