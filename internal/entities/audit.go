package entities

import (
	"time"
)

type AuditAction string

const (
	AuditActionSync   AuditAction = "sync"
	AuditActionImport AuditAction = "import"
)

// AuditEvent is one row of the sync/import audit trail.
type AuditEvent struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	Action      AuditAction `gorm:"size:20;index" json:"action"`
	Source      string      `gorm:"size:50" json:"source"`
	Description string      `gorm:"size:1024" json:"description"`
	Success     bool        `json:"success"`
	Error       string      `gorm:"type:text" json:"error,omitempty"`
	Orders      int         `json:"orders"`
	CreatedAt   time.Time   `json:"created_at"`
}

func (AuditEvent) TableName() string {
	return "audit_events"
}
