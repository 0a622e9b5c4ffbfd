// Package audit records a trail of sync and import runs.
package audit

import (
	"gorm.io/gorm"

	"github.com/a94tkh14/magazzino/internal/entities"
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// LogSync records one sync run outcome.
func (s *Service) LogSync(source, description string, success bool, errMsg string, orders int) error {
	event := entities.AuditEvent{
		Action:      entities.AuditActionSync,
		Source:      source,
		Description: description,
		Success:     success,
		Error:       errMsg,
		Orders:      orders,
	}
	return s.db.Create(&event).Error
}

// List returns the most recent audit events, newest first.
func (s *Service) List(limit int) ([]entities.AuditEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	var events []entities.AuditEvent
	err := s.db.Order("created_at desc, id desc").Limit(limit).Find(&events).Error
	return events, err
}
