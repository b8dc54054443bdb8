package services

import (
	"gorm.io/gorm"

	"github.com/mcavalcanti/lexora-api/internal/repository"
)

// Services holds all service instances
type Services struct {
	Client       *ClientService
	Case         *CaseService
	Finance      *FinanceService
	LedgerSync   *LedgerSyncService
	Deadline     *DeadlineService
	Notification *NotificationService
	Audit        *AuditService
	Report       *ReportService
	Export       *ExportService
}

// NewServices creates all service instances
func NewServices(repos *repository.Repositories, db *gorm.DB) *Services {
	auditSvc := NewAuditService(db)
	notificationSvc := NewNotificationService(repos.Notification)
	syncSvc := NewLedgerSyncService(repos.Ledger, auditSvc)
	financeSvc := NewFinanceService(repos.Ledger, repos.Client, auditSvc, notificationSvc)
	clientSvc := NewClientService(repos.Client, syncSvc, auditSvc)

	return &Services{
		Client:       clientSvc,
		Case:         NewCaseService(repos.Case, repos.Client, auditSvc),
		Finance:      financeSvc,
		LedgerSync:   syncSvc,
		Deadline:     NewDeadlineService(repos.Deadline, notificationSvc),
		Notification: notificationSvc,
		Audit:        auditSvc,
		Report:       NewReportService(financeSvc, clientSvc),
		Export:       NewExportService(financeSvc),
	}
}
