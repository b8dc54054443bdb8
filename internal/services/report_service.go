package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/mcavalcanti/lexora-api/internal/finance"
	"github.com/mcavalcanti/lexora-api/internal/models"
	"github.com/mcavalcanti/lexora-api/internal/repository"
)

// ReportService renders printable reports over the ledger
type ReportService struct {
	financeSvc *FinanceService
	clientSvc  *ClientService
}

// NewReportService creates a new report service
func NewReportService(financeSvc *FinanceService, clientSvc *ClientService) *ReportService {
	return &ReportService{financeSvc: financeSvc, clientSvc: clientSvc}
}

// RevenueCSV generates a CSV of every revenue entry in the period
func (s *ReportService) RevenueCSV(ctx context.Context, startDate, endDate string) (*bytes.Buffer, error) {
	query := &repository.LedgerQuery{ListQuery: repository.NewListQuery()}
	query.PerPage = 10000
	query.Kind = models.EntryKindRevenue
	if startDate != "" {
		query.Filters["start_date"] = startDate
	}
	if endDate != "" {
		query.Filters["end_date"] = endDate
	}

	entries, _, err := s.financeSvc.List(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("falha ao carregar receitas: %w", err)
	}

	buf := new(bytes.Buffer)
	writer := csv.NewWriter(buf)

	_ = writer.Write([]string{"Relatório de Receitas", time.Now().Format("2006-01-02 15:04")})
	_ = writer.Write([]string{""})
	_ = writer.Write([]string{"Cliente", "Categoria", "Valor", "Vencimento", "Situação", "Pago em"})

	for _, e := range entries {
		clientName := ""
		if e.Client != nil {
			clientName = e.Client.Name
		}
		paidAt := ""
		if e.PaidDate != nil {
			paidAt = e.PaidDate.Format("02/01/2006")
		}
		_ = writer.Write([]string{
			clientName,
			e.Category,
			e.Amount.StringFixed(2),
			e.DueDate.Format("02/01/2006"),
			e.Status,
			paidAt,
		})
	}

	writer.Flush()
	return buf, writer.Error()
}

// ClientStatementPDF renders one client's financial statement: contracted
// values, totals and the full entry list grouped the way the finance screen
// shows it.
func (s *ReportService) ClientStatementPDF(ctx context.Context, clientID uint) (*bytes.Buffer, error) {
	client, err := s.clientSvc.FindByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	summary, err := s.financeSvc.ClientSummary(ctx, clientID)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	translator := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, translator("Extrato Financeiro"))
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 11)
	pdf.Cell(0, 7, translator(fmt.Sprintf("Cliente: %s", client.Name)))
	pdf.Ln(7)
	pdf.Cell(0, 7, translator(fmt.Sprintf("Emitido em: %s", time.Now().Format("02/01/2006"))))
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, translator("Resumo"))
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 11)
	rows := [][2]string{
		{"Honorários firmados", summary.ContractedTotal.StringFixed(2)},
		{"Total pago", summary.TotalPaid.StringFixed(2)},
		{"Total pendente", summary.TotalPending.StringFixed(2)},
		{"Saldo restante", summary.RemainingBalance.StringFixed(2)},
	}
	for _, row := range rows {
		pdf.Cell(80, 7, translator(row[0]))
		pdf.Cell(0, 7, "R$ "+row[1])
		pdf.Ln(7)
	}
	pdf.Ln(5)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, translator("Lançamentos"))
	pdf.Ln(8)

	pdf.SetFont("Arial", "B", 9)
	pdf.CellFormat(70, 7, translator("Categoria"), "1", 0, "L", false, 0, "")
	pdf.CellFormat(30, 7, "Valor", "1", 0, "R", false, 0, "")
	pdf.CellFormat(30, 7, "Vencimento", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 7, translator("Situação"), "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 7, "Pago em", "1", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 9)
	for _, family := range finance.GroupByFamily(summary.Entries) {
		for _, e := range family.Members {
			paidAt := "-"
			if e.PaidDate != nil {
				paidAt = e.PaidDate.Format("02/01/2006")
			}
			pdf.CellFormat(70, 6, translator(e.Category), "1", 0, "L", false, 0, "")
			pdf.CellFormat(30, 6, e.Amount.StringFixed(2), "1", 0, "R", false, 0, "")
			pdf.CellFormat(30, 6, e.DueDate.Format("02/01/2006"), "1", 0, "C", false, 0, "")
			pdf.CellFormat(30, 6, translator(e.Status), "1", 0, "C", false, 0, "")
			pdf.CellFormat(30, 6, paidAt, "1", 1, "C", false, 0, "")
		}
	}

	buf := new(bytes.Buffer)
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("falha ao gerar PDF: %w", err)
	}
	return buf, nil
}
