package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mcavalcanti/lexora-api/internal/services"
)

// ReportHandler serves downloadable reports and exports
type ReportHandler struct {
	reportService *services.ReportService
	exportService *services.ExportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *services.ReportService, exportService *services.ExportService) *ReportHandler {
	return &ReportHandler{reportService: reportService, exportService: exportService}
}

// RevenueCSV downloads the revenue report for a period
func (h *ReportHandler) RevenueCSV(c *gin.Context) {
	buf, err := h.reportService.RevenueCSV(c.Request.Context(), c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	filename := fmt.Sprintf("receitas_%s.csv", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "text/csv", buf.Bytes())
}

// ClientStatementPDF downloads one client's financial statement
func (h *ReportHandler) ClientStatementPDF(c *gin.Context) {
	clientID, _ := strconv.ParseUint(c.Query("client_id"), 10, 32)
	if clientID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "client_id é obrigatório"})
		return
	}

	buf, err := h.reportService.ClientStatementPDF(c.Request.Context(), uint(clientID))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Cliente não encontrado"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	filename := fmt.Sprintf("extrato_%d_%s.pdf", clientID, time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

// LedgerXLSX downloads the ledger spreadsheet, optionally per client
func (h *ReportHandler) LedgerXLSX(c *gin.Context) {
	clientID, _ := strconv.ParseUint(c.Query("client_id"), 10, 32)

	data, filename, err := h.exportService.LedgerXLSX(c.Request.Context(), uint(clientID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
