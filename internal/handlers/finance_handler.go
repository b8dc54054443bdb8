package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mcavalcanti/lexora-api/internal/finance"
	"github.com/mcavalcanti/lexora-api/internal/models"
	"github.com/mcavalcanti/lexora-api/internal/repository"
	"github.com/mcavalcanti/lexora-api/internal/services"
)

// FinanceHandler serves the ledger entry endpoints
type FinanceHandler struct {
	financeService *services.FinanceService
}

// NewFinanceHandler creates a new finance handler
func NewFinanceHandler(financeService *services.FinanceService) *FinanceHandler {
	return &FinanceHandler{financeService: financeService}
}

// Index lists ledger entries with filters and pagination
func (h *FinanceHandler) Index(c *gin.Context) {
	query := &repository.LedgerQuery{ListQuery: repository.NewListQuery()}
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Search = c.Query("search")
	query.Kind = c.Query("kind")
	query.Status = c.Query("status")
	query.Origin = c.Query("origin")
	query.Filters["start_date"] = c.Query("start_date")
	query.Filters["end_date"] = c.Query("end_date")

	if clientID, err := strconv.ParseUint(c.Query("client_id"), 10, 32); err == nil {
		query.ClientID = uint(clientID)
	}
	if caseID, err := strconv.ParseUint(c.Query("case_id"), 10, 32); err == nil {
		query.CaseID = uint(caseID)
	}

	entries, total, err := h.financeService.List(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	now := time.Now()
	responses := make([]models.LedgerEntryResponse, 0, len(entries))
	for _, e := range entries {
		responses = append(responses, e.ToResponse(now))
	}

	c.JSON(http.StatusOK, gin.H{
		"entries": responses,
		"pagination": gin.H{
			"page":        query.Page,
			"per_page":    query.PerPage,
			"total":       total,
			"total_pages": (total + int64(query.PerPage) - 1) / int64(query.PerPage),
		},
	})
}

// Show retrieves one ledger entry
func (h *FinanceHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("entry_id"), 10, 32)
	entry, err := h.financeService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Lançamento não encontrado"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"entry": entry.ToResponse(time.Now())})
}

// Create records a manual revenue or expense
func (h *FinanceHandler) Create(c *gin.Context) {
	var entry models.LedgerEntry
	if err := c.ShouldBindJSON(&entry); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.financeService.CreateManualEntry(c.Request.Context(), &entry); err != nil {
		if errors.Is(err, finance.ErrInvalidProfile) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"entry": entry.ToResponse(time.Now())})
}

// Update edits a manual entry
func (h *FinanceHandler) Update(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("entry_id"), 10, 32)

	var entry models.LedgerEntry
	if err := c.ShouldBindJSON(&entry); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	entry.ID = uint(id)

	if err := h.financeService.UpdateManualEntry(c.Request.Context(), &entry); err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Lançamento não encontrado"})
		case errors.Is(err, services.ErrGeneratedReadOnly):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"entry": entry.ToResponse(time.Now())})
}

// Toggle flips an entry between pago and pendente
func (h *FinanceHandler) Toggle(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("entry_id"), 10, 32)

	entry, err := h.financeService.ToggleStatus(c.Request.Context(), uint(id), time.Now())
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Lançamento não encontrado"})
		case errors.Is(err, services.ErrInvalidState):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"entry": entry.ToResponse(time.Now())})
}

// Delete removes an entry
func (h *FinanceHandler) Delete(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("entry_id"), 10, 32)
	if err := h.financeService.DeleteEntry(c.Request.Context(), uint(id)); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Lançamento não encontrado"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Lançamento excluído"})
}

// Summary returns office-wide ledger totals for the dashboard
func (h *FinanceHandler) Summary(c *gin.Context) {
	summary, err := h.financeService.OfficeSummary(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, summary)
}
