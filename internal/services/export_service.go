package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/mcavalcanti/lexora-api/internal/models"
	"github.com/mcavalcanti/lexora-api/internal/repository"
)

// ExportService produces spreadsheet exports of the ledger
type ExportService struct {
	financeSvc *FinanceService
}

// NewExportService creates a new export service
func NewExportService(financeSvc *FinanceService) *ExportService {
	return &ExportService{financeSvc: financeSvc}
}

// LedgerXLSX exports ledger entries (optionally filtered by client) to a
// spreadsheet with a totals block on top.
func (s *ExportService) LedgerXLSX(ctx context.Context, clientID uint) ([]byte, string, error) {
	query := &repository.LedgerQuery{ListQuery: repository.NewListQuery()}
	query.PerPage = 10000
	query.ClientID = clientID

	entries, _, err := s.financeSvc.List(ctx, query)
	if err != nil {
		return nil, "", fmt.Errorf("falha ao carregar lançamentos: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Financeiro"
	_ = f.SetSheetName("Sheet1", sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 12},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})

	_ = f.SetCellValue(sheet, "A1", "Extrato Financeiro")
	_ = f.SetCellStyle(sheet, "A1", "A1", headerStyle)
	_ = f.SetCellValue(sheet, "B1", time.Now().Format("02/01/2006 15:04"))

	columns := []string{"Cliente", "Processo", "Tipo", "Categoria", "Valor", "Vencimento", "Situação", "Pago em", "Origem"}
	for i, col := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 3)
		_ = f.SetCellValue(sheet, cell, col)
		_ = f.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	for row, e := range entries {
		clientName := ""
		if e.Client != nil {
			clientName = e.Client.Name
		}
		caseNumber := ""
		if e.Case != nil {
			caseNumber = e.Case.Number
		}
		paidAt := ""
		if e.PaidDate != nil {
			paidAt = e.PaidDate.Format("02/01/2006")
		}

		values := []interface{}{
			clientName,
			caseNumber,
			kindLabel(e.Kind),
			e.Category,
			e.Amount.InexactFloat64(),
			e.DueDate.Format("02/01/2006"),
			e.Status,
			paidAt,
			e.Origin,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+4)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	_ = f.SetColWidth(sheet, "A", "D", 28)
	_ = f.SetColWidth(sheet, "E", "I", 16)

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, "", fmt.Errorf("falha ao gerar planilha: %w", err)
	}

	filename := fmt.Sprintf("extrato_%s.xlsx", time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

// kindLabel maps entry kinds to export labels
func kindLabel(kind string) string {
	switch kind {
	case models.EntryKindRevenue:
		return "Receita"
	case models.EntryKindExpense:
		return "Despesa"
	default:
		return kind
	}
}
