package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/smb_books/internal/core/ports/services"
	"github.com/SscSPs/smb_books/internal/dto"
	"github.com/SscSPs/smb_books/internal/middleware"
	"github.com/gin-gonic/gin"
)

type bankAccountHandler struct {
	bankAccountService portssvc.BankAccountSvcFacade
}

func registerBankAccountRoutes(rg *gin.RouterGroup, svc portssvc.BankAccountSvcFacade) {
	h := &bankAccountHandler{bankAccountService: svc}

	bankAccounts := rg.Group("/bank-accounts")
	{
		bankAccounts.POST("", h.createBankAccount)
		bankAccounts.GET("", h.listBankAccounts)
		bankAccounts.GET("/:id", h.getBankAccount)
		bankAccounts.PUT("/:id", h.updateBankAccount)
		bankAccounts.DELETE("/:id", h.deleteBankAccount)
	}
}

// createBankAccount godoc
// @Summary Register a bank account
// @Tags bank-accounts
// @Accept  json
// @Produce  json
// @Param   bankAccount body dto.CreateBankAccountRequest true "Bank account"
// @Success 201 {object} dto.BankAccountResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 500 {object} map[string]string "Failed to create bank account"
// @Security BearerAuth
// @Router /bank-accounts [post]
func (h *bankAccountHandler) createBankAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateBankAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateBankAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actor, ok := requireActor(c)
	if !ok {
		return
	}

	account, err := h.bankAccountService.CreateBankAccount(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err, "Failed to create bank account")
		return
	}

	logger.Info("Bank account created", slog.String("bank_account_id", account.BankAccountID))
	c.JSON(http.StatusCreated, dto.ToBankAccountResponse(account))
}

// listBankAccounts godoc
// @Summary List bank accounts
// @Tags bank-accounts
// @Produce  json
// @Success 200 {array} dto.BankAccountResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list bank accounts"
// @Security BearerAuth
// @Router /bank-accounts [get]
func (h *bankAccountHandler) listBankAccounts(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	accounts, err := h.bankAccountService.ListBankAccounts(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err, "Failed to list bank accounts")
		return
	}

	resp := make([]dto.BankAccountResponse, len(accounts))
	for i := range accounts {
		resp[i] = dto.ToBankAccountResponse(&accounts[i])
	}
	c.JSON(http.StatusOK, resp)
}

// getBankAccount godoc
// @Summary Get a bank account
// @Tags bank-accounts
// @Produce  json
// @Param   id path string true "Bank account ID"
// @Success 200 {object} dto.BankAccountResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Bank account not found"
// @Failure 500 {object} map[string]string "Failed to retrieve bank account"
// @Security BearerAuth
// @Router /bank-accounts/{id} [get]
func (h *bankAccountHandler) getBankAccount(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	account, err := h.bankAccountService.GetBankAccount(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve bank account")
		return
	}
	c.JSON(http.StatusOK, dto.ToBankAccountResponse(account))
}

// updateBankAccount godoc
// @Summary Update a bank account
// @Tags bank-accounts
// @Accept  json
// @Produce  json
// @Param   id path string true "Bank account ID"
// @Param   bankAccount body dto.UpdateBankAccountRequest true "Fields to update"
// @Success 200 {object} dto.BankAccountResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Bank account not found"
// @Failure 500 {object} map[string]string "Failed to update bank account"
// @Security BearerAuth
// @Router /bank-accounts/{id} [put]
func (h *bankAccountHandler) updateBankAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdateBankAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateBankAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actor, ok := requireActor(c)
	if !ok {
		return
	}

	account, err := h.bankAccountService.UpdateBankAccount(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		respondError(c, err, "Failed to update bank account")
		return
	}
	c.JSON(http.StatusOK, dto.ToBankAccountResponse(account))
}

// deleteBankAccount godoc
// @Summary Delete a bank account
// @Description Soft-deletes the bank account. Its transactions stay on the books.
// @Tags bank-accounts
// @Param   id path string true "Bank account ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Bank account not found"
// @Failure 500 {object} map[string]string "Failed to delete bank account"
// @Security BearerAuth
// @Router /bank-accounts/{id} [delete]
func (h *bankAccountHandler) deleteBankAccount(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	if err := h.bankAccountService.DeleteBankAccount(c.Request.Context(), actor, c.Param("id")); err != nil {
		respondError(c, err, "Failed to delete bank account")
		return
	}
	c.Status(http.StatusNoContent)
}
