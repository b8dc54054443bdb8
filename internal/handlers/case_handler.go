package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mcavalcanti/lexora-api/internal/models"
	"github.com/mcavalcanti/lexora-api/internal/repository"
	"github.com/mcavalcanti/lexora-api/internal/services"
)

// CaseHandler serves legal case CRUD and the case ledger view
type CaseHandler struct {
	caseService    *services.CaseService
	financeService *services.FinanceService
}

// NewCaseHandler creates a new case handler
func NewCaseHandler(caseService *services.CaseService, financeService *services.FinanceService) *CaseHandler {
	return &CaseHandler{caseService: caseService, financeService: financeService}
}

// Index lists cases with pagination and search
func (h *CaseHandler) Index(c *gin.Context) {
	query := repository.NewListQuery()
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Search = c.Query("search")
	query.Filters["status"] = c.Query("status")
	query.Filters["area"] = c.Query("area")

	cases, total, err := h.caseService.List(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"cases": cases,
		"pagination": gin.H{
			"page":        query.Page,
			"per_page":    query.PerPage,
			"total":       total,
			"total_pages": (total + int64(query.PerPage) - 1) / int64(query.PerPage),
		},
	})
}

// Show retrieves one case
func (h *CaseHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("case_id"), 10, 32)
	legalCase, err := h.caseService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Processo não encontrado"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"case": legalCase})
}

// ByClient lists every case of one client
func (h *CaseHandler) ByClient(c *gin.Context) {
	clientID, _ := strconv.ParseUint(c.Param("client_id"), 10, 32)
	cases, err := h.caseService.FindByClient(c.Request.Context(), uint(clientID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"cases": cases})
}

// Create registers a new case under a client
func (h *CaseHandler) Create(c *gin.Context) {
	clientID, _ := strconv.ParseUint(c.Param("client_id"), 10, 32)

	var legalCase models.LegalCase
	if err := c.ShouldBindJSON(&legalCase); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	legalCase.ClientID = uint(clientID)

	if err := h.caseService.Create(c.Request.Context(), &legalCase); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Cliente não encontrado"})
			return
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"case": legalCase})
}

// Update saves case data
func (h *CaseHandler) Update(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("case_id"), 10, 32)

	var legalCase models.LegalCase
	if err := c.ShouldBindJSON(&legalCase); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	legalCase.ID = uint(id)

	if err := h.caseService.Update(c.Request.Context(), &legalCase); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Processo não encontrado"})
			return
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"case": legalCase})
}

// Ledger lists the ledger entries tied to one case
func (h *CaseHandler) Ledger(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("case_id"), 10, 32)
	entries, err := h.financeService.CaseLedger(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	now := time.Now()
	responses := make([]models.LedgerEntryResponse, 0, len(entries))
	for _, e := range entries {
		responses = append(responses, e.ToResponse(now))
	}
	c.JSON(http.StatusOK, gin.H{"entries": responses})
}

// Delete removes a case
func (h *CaseHandler) Delete(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("case_id"), 10, 32)
	if err := h.caseService.Delete(c.Request.Context(), uint(id)); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Processo não encontrado"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Processo excluído"})
}
