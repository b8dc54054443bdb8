package models

import (
	"time"
)

// AuditLog records a mutation applied to an entity. Presentation of the audit
// trail is handled elsewhere; this service only appends.
type AuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Action    string    `gorm:"size:50;not null" json:"action"` // CREATE, UPDATE, DELETE, SYNC, TOGGLE
	Entity    string    `gorm:"size:50;not null" json:"entity"` // Client, Case, LedgerEntry, Deadline
	EntityID  uint      `json:"entity_id"`
	Details   string    `gorm:"type:text" json:"details"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for AuditLog
func (AuditLog) TableName() string {
	return "audit_logs"
}
