package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/mcavalcanti/lexora-api/internal/finance"
	"github.com/mcavalcanti/lexora-api/internal/models"
	"github.com/mcavalcanti/lexora-api/internal/repository"
	"github.com/mcavalcanti/lexora-api/internal/services"
)

// ClientHandler serves client CRUD and the financial profile save endpoint
type ClientHandler struct {
	clientService  *services.ClientService
	financeService *services.FinanceService
}

// NewClientHandler creates a new client handler
func NewClientHandler(clientService *services.ClientService, financeService *services.FinanceService) *ClientHandler {
	return &ClientHandler{clientService: clientService, financeService: financeService}
}

// Index lists clients with pagination and search
func (h *ClientHandler) Index(c *gin.Context) {
	query := repository.NewListQuery()
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Search = c.Query("search")
	query.Filters["category"] = c.Query("category")

	clients, total, err := h.clientService.List(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"clients": clients,
		"pagination": gin.H{
			"page":        query.Page,
			"per_page":    query.PerPage,
			"total":       total,
			"total_pages": (total + int64(query.PerPage) - 1) / int64(query.PerPage),
		},
	})
}

// Show retrieves one client with its cases and ledger
func (h *ClientHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("client_id"), 10, 32)
	client, err := h.clientService.FindByIDWithLedger(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Cliente não encontrado"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"client": client})
}

// Create registers a new client
func (h *ClientHandler) Create(c *gin.Context) {
	var client models.Client
	if err := c.ShouldBindJSON(&client); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.clientService.Create(c.Request.Context(), &client)
	if err != nil {
		if client.ID == 0 {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		// The row was saved but the initial plan generation failed; the
		// client is created and the caller retries the sync via a profile
		// save.
		c.JSON(http.StatusCreated, gin.H{
			"client":     client,
			"sync_error": err.Error(),
			"retryable":  true,
		})
		return
	}

	resp := gin.H{"client": client}
	if result != nil {
		resp["sync"] = result
	}
	c.JSON(http.StatusCreated, resp)
}

// Update saves non-financial client data
func (h *ClientHandler) Update(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("client_id"), 10, 32)

	var client models.Client
	if err := c.ShouldBindJSON(&client); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	client.ID = uint(id)

	if err := h.clientService.Update(c.Request.Context(), &client); err != nil {
		status := http.StatusUnprocessableEntity
		if errors.Is(err, services.ErrNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"client": client})
}

// FinancialProfileRequest carries the financial columns of the client form
type FinancialProfileRequest struct {
	PaymentMethod    string          `json:"payment_method"`
	ContractedFees   decimal.Decimal `json:"contracted_fees"`
	HasEntryFee      bool            `json:"has_entry_fee"`
	EntryFeeAmount   decimal.Decimal `json:"entry_fee_amount"`
	EntryFeeDate     *time.Time      `json:"entry_fee_date"`
	InstallmentsLeft int             `json:"installments_left"`
	BillingDay       int             `json:"billing_day"`

	GuiaPrincipalAmount    decimal.Decimal `json:"guia_principal_amount"`
	GuiaPrincipalDate      *time.Time      `json:"guia_principal_date"`
	GuiaPrincipalStatus    string          `json:"guia_principal_status"`
	GuiaPrincipalProtocolo string          `json:"guia_principal_protocolo"`
	HasRecurso             bool            `json:"has_recurso"`
	GuiaRecursoAmount      decimal.Decimal `json:"guia_recurso_amount"`
	GuiaRecursoDate        *time.Time      `json:"guia_recurso_date"`
	GuiaRecursoStatus      string          `json:"guia_recurso_status"`
	GuiaRecursoProtocolo   string          `json:"guia_recurso_protocolo"`
}

// SaveFinancialProfile persists the financial profile and reconciles the
// client's ledger in the same request.
func (h *ClientHandler) SaveFinancialProfile(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("client_id"), 10, 32)

	var req FinancialProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	client, err := h.clientService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Cliente não encontrado"})
		return
	}

	client.PaymentMethod = req.PaymentMethod
	client.ContractedFees = req.ContractedFees
	client.HasEntryFee = req.HasEntryFee
	client.EntryFeeAmount = req.EntryFeeAmount
	client.EntryFeeDate = req.EntryFeeDate
	client.InstallmentsLeft = req.InstallmentsLeft
	client.BillingDay = req.BillingDay
	client.GuiaPrincipalAmount = req.GuiaPrincipalAmount
	client.GuiaPrincipalDate = req.GuiaPrincipalDate
	client.GuiaPrincipalStatus = req.GuiaPrincipalStatus
	client.GuiaPrincipalProtocolo = req.GuiaPrincipalProtocolo
	client.HasRecurso = req.HasRecurso
	client.GuiaRecursoAmount = req.GuiaRecursoAmount
	client.GuiaRecursoDate = req.GuiaRecursoDate
	client.GuiaRecursoStatus = req.GuiaRecursoStatus
	client.GuiaRecursoProtocolo = req.GuiaRecursoProtocolo

	result, err := h.clientService.SaveFinancialProfile(c.Request.Context(), client, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, finance.ErrInvalidProfile):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrSyncInProgress):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "retryable": true})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"client": client, "sync": result})
}

// Summary returns a client's aggregated financial view
func (h *ClientHandler) Summary(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("client_id"), 10, 32)
	summary, err := h.financeService.ClientSummary(c.Request.Context(), uint(id))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Cliente não encontrado"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, summary)
}

// Delete removes a client
func (h *ClientHandler) Delete(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("client_id"), 10, 32)
	if err := h.clientService.Delete(c.Request.Context(), uint(id)); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Cliente não encontrado"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cliente excluído"})
}
