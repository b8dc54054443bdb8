package handlers

import (
	"github.com/mcavalcanti/lexora-api/internal/services"
)

// Handlers holds all handler instances
type Handlers struct {
	Health       *HealthHandler
	Client       *ClientHandler
	Case         *CaseHandler
	Finance      *FinanceHandler
	Deadline     *DeadlineHandler
	Notification *NotificationHandler
	Report       *ReportHandler
}

// NewHandlers creates all handler instances
func NewHandlers(svcs *services.Services) *Handlers {
	return &Handlers{
		Health:       NewHealthHandler(),
		Client:       NewClientHandler(svcs.Client, svcs.Finance),
		Case:         NewCaseHandler(svcs.Case, svcs.Finance),
		Finance:      NewFinanceHandler(svcs.Finance),
		Deadline:     NewDeadlineHandler(svcs.Deadline),
		Notification: NewNotificationHandler(svcs.Notification),
		Report:       NewReportHandler(svcs.Report, svcs.Export),
	}
}
