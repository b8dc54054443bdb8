package models

import (
	"time"
)

// Deadline represents a procedural deadline or scheduled commitment
type Deadline struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	CaseID      *uint      `gorm:"index" json:"case_id,omitempty"`
	ClientID    *uint      `gorm:"index" json:"client_id,omitempty"`
	Title       string     `gorm:"size:150;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	DueAt       time.Time  `gorm:"not null;index" json:"due_at"`
	Done        bool       `gorm:"default:false;index" json:"done"`
	DoneAt      *time.Time `json:"done_at,omitempty"`
	ReminderSentAt *time.Time `gorm:"column:reminder_sent_at" json:"-"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Associations
	Case   *LegalCase `gorm:"foreignKey:CaseID" json:"case,omitempty"`
	Client *Client    `gorm:"foreignKey:ClientID" json:"client,omitempty"`
}

// TableName specifies the table name for Deadline
func (Deadline) TableName() string {
	return "deadlines"
}

// IsUpcoming returns true if the deadline is open and falls within the window
func (d *Deadline) IsUpcoming(now time.Time, window time.Duration) bool {
	return !d.Done && d.DueAt.After(now) && d.DueAt.Before(now.Add(window))
}
