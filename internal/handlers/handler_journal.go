package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/smb_books/internal/core/ports/services"
	"github.com/SscSPs/smb_books/internal/dto"
	"github.com/SscSPs/smb_books/internal/middleware"
	"github.com/gin-gonic/gin"
)

// journalHandler handles HTTP requests related to journal entries.
type journalHandler struct {
	journalService portssvc.JournalSvc
}

func newJournalHandler(js portssvc.JournalSvc) *journalHandler {
	return &journalHandler{
		journalService: js,
	}
}

// registerJournalRoutes registers routes related to journal entries.
func registerJournalRoutes(rg *gin.RouterGroup, journalService portssvc.JournalSvc) {
	h := newJournalHandler(journalService)

	journals := rg.Group("/journals")
	{
		journals.POST("", h.createJournal)
		journals.GET("", h.listJournals)
		journals.GET("/:id", h.getJournal)
		journals.POST("/:id/reverse", h.reverseJournal)
	}
}

// createJournal godoc
// @Summary Post a manual journal entry
// @Description Posts a balanced manual journal entry and updates account balances
// @Tags journals
// @Accept  json
// @Produce  json
// @Param   journal body dto.CreateJournalEntryRequest true "Journal entry"
// @Success 201 {object} dto.JournalEntryResponse
// @Failure 400 {object} map[string]string "Invalid input or unbalanced entry"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 500 {object} map[string]string "Failed to post journal entry"
// @Security BearerAuth
// @Router /journals [post]
func (h *journalHandler) createJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateJournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateJournal", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actor, ok := requireActor(c)
	if !ok {
		return
	}

	logger.Info("Received request to post journal entry", slog.Int("line_count", len(req.Lines)))

	entry, err := h.journalService.PostManualEntry(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err, "Failed to post journal entry")
		return
	}

	logger.Info("Journal entry posted", slog.String("entry_id", entry.EntryID), slog.String("entry_number", entry.EntryNumber))
	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(entry))
}

// getJournal godoc
// @Summary Get a journal entry
// @Tags journals
// @Produce  json
// @Param   id path string true "Journal entry ID"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Journal entry not found"
// @Failure 500 {object} map[string]string "Failed to retrieve journal entry"
// @Security BearerAuth
// @Router /journals/{id} [get]
func (h *journalHandler) getJournal(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	entry, err := h.journalService.GetJournalEntry(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve journal entry")
		return
	}
	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

// listJournals godoc
// @Summary List journal entries
// @Description Lists journal entries newest first, optionally filtered by the document they came from
// @Tags journals
// @Produce  json
// @Param   referenceType query string false "Source document type"
// @Param   referenceID query string false "Source document ID"
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListJournalEntriesResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list journal entries"
// @Security BearerAuth
// @Router /journals [get]
func (h *journalHandler) listJournals(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var params dto.ListJournalEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListJournals", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	entries, next, err := h.journalService.ListJournalEntries(c.Request.Context(), actor, params)
	if err != nil {
		respondError(c, err, "Failed to list journal entries")
		return
	}

	resp := dto.ListJournalEntriesResponse{
		Entries:   make([]dto.JournalEntryResponse, len(entries)),
		NextToken: next,
	}
	for i := range entries {
		resp.Entries[i] = dto.ToJournalEntryResponse(&entries[i])
	}
	c.JSON(http.StatusOK, resp)
}

// reverseJournal godoc
// @Summary Reverse a journal entry
// @Description Posts a mirrored entry that cancels the original. An entry can be reversed once.
// @Tags journals
// @Accept  json
// @Produce  json
// @Param   id path string true "Journal entry ID"
// @Param   reversal body dto.ReverseJournalEntryRequest false "Reason"
// @Success 201 {object} dto.JournalEntryResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Journal entry not found"
// @Failure 409 {object} map[string]string "Entry already reversed"
// @Failure 500 {object} map[string]string "Failed to reverse journal entry"
// @Security BearerAuth
// @Router /journals/{id}/reverse [post]
func (h *journalHandler) reverseJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("id")

	var req dto.ReverseJournalEntryRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.Warn("Failed to bind JSON for ReverseJournal", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
			return
		}
	}

	actor, ok := requireActor(c)
	if !ok {
		return
	}

	reversal, err := h.journalService.ReverseJournalEntry(c.Request.Context(), actor, entryID, req)
	if err != nil {
		respondError(c, err, "Failed to reverse journal entry")
		return
	}

	logger.Info("Journal entry reversed", slog.String("entry_id", entryID), slog.String("reversal_id", reversal.EntryID))
	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(reversal))
}
