package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mcavalcanti/lexora-api/internal/models"
	"github.com/mcavalcanti/lexora-api/internal/repository"
	"github.com/mcavalcanti/lexora-api/internal/services"
)

// DeadlineHandler serves deadline CRUD
type DeadlineHandler struct {
	deadlineService *services.DeadlineService
}

// NewDeadlineHandler creates a new deadline handler
func NewDeadlineHandler(deadlineService *services.DeadlineService) *DeadlineHandler {
	return &DeadlineHandler{deadlineService: deadlineService}
}

// Index lists deadlines
func (h *DeadlineHandler) Index(c *gin.Context) {
	query := repository.NewListQuery()
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Search = c.Query("search")
	query.Filters["done"] = c.Query("done")
	query.Filters["client_id"] = c.Query("client_id")

	deadlines, total, err := h.deadlineService.List(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"deadlines": deadlines,
		"pagination": gin.H{
			"page":        query.Page,
			"per_page":    query.PerPage,
			"total":       total,
			"total_pages": (total + int64(query.PerPage) - 1) / int64(query.PerPage),
		},
	})
}

// Show retrieves one deadline
func (h *DeadlineHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("deadline_id"), 10, 32)
	deadline, err := h.deadlineService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Prazo não encontrado"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deadline": deadline})
}

// Create registers a deadline
func (h *DeadlineHandler) Create(c *gin.Context) {
	var deadline models.Deadline
	if err := c.ShouldBindJSON(&deadline); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.deadlineService.Create(c.Request.Context(), &deadline); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"deadline": deadline})
}

// Update saves deadline data
func (h *DeadlineHandler) Update(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("deadline_id"), 10, 32)

	var deadline models.Deadline
	if err := c.ShouldBindJSON(&deadline); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	deadline.ID = uint(id)

	if err := h.deadlineService.Update(c.Request.Context(), &deadline); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Prazo não encontrado"})
			return
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deadline": deadline})
}

// MarkDone closes a deadline
func (h *DeadlineHandler) MarkDone(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("deadline_id"), 10, 32)
	deadline, err := h.deadlineService.MarkDone(c.Request.Context(), uint(id))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Prazo não encontrado"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deadline": deadline})
}

// Delete removes a deadline
func (h *DeadlineHandler) Delete(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("deadline_id"), 10, 32)
	if err := h.deadlineService.Delete(c.Request.Context(), uint(id)); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Prazo não encontrado"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Prazo excluído"})
}
