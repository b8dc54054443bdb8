package repository

import (
	"gorm.io/gorm"
)

// Repositories holds all repository instances
type Repositories struct {
	Client       ClientRepository
	Case         CaseRepository
	Ledger       LedgerRepository
	Deadline     DeadlineRepository
	Notification NotificationRepository
}

// NewRepositories creates all repository instances
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Client:       NewClientRepository(db),
		Case:         NewCaseRepository(db),
		Ledger:       NewLedgerRepository(db),
		Deadline:     NewDeadlineRepository(db),
		Notification: NewNotificationRepository(db),
	}
}
