package leads_module

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"solarhub/commons/enums"
	"solarhub/commons/logger"
	"solarhub/database/entities"
)

const SOURCE_CALCULATOR = "calculator"

type CaptureRequest struct {
	Name           string  `json:"name" binding:"max=255"`
	Email          string  `json:"email" binding:"omitempty,email"`
	Phone          string  `json:"phone" binding:"required,max=50"`
	Postcode       string  `json:"postcode" binding:"omitempty,numeric,len=4"`
	QuoteSessionID *string `json:"quoteSessionId"`
}

type LeadService struct {
	db *gorm.DB
}

func NewLeadService(db *gorm.DB) *LeadService {
	return &LeadService{db: db}
}

func normalizePhone(phone string) string {
	return strings.Join(strings.Fields(phone), "")
}

// Capture records a calculator lead. A phone number seen before updates that lead's contact
// details instead of creating another.
func (s *LeadService) Capture(ctx context.Context, req CaptureRequest) (entities.Lead, error) {
	lead := entities.Lead{
		Name:           strings.TrimSpace(req.Name),
		Email:          strings.TrimSpace(req.Email),
		Phone:          normalizePhone(req.Phone),
		Postcode:       req.Postcode,
		Source:         SOURCE_CALCULATOR,
		Status:         enums.LEAD_NEW,
		QuoteSessionID: req.QuoteSessionID,
	}
	db := s.db.WithContext(ctx)
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "phone"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "email", "postcode", "quote_session_id", "updated_at"}),
	}).Create(&lead).Error
	if err != nil {
		return lead, fmt.Errorf("capture lead: %w", err)
	}
	if err := db.Where("phone = ?", lead.Phone).First(&lead).Error; err != nil {
		return lead, fmt.Errorf("reload lead: %w", err)
	}
	logger.FromContext(ctx).Info("lead captured", zap.Uint("id", lead.ID), zap.String("source", lead.Source))
	return lead, nil
}

func (s *LeadService) List(ctx context.Context, status string) ([]entities.Lead, error) {
	q := s.db.WithContext(ctx)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var leads []entities.Lead
	if err := q.Order("created_at desc").Order("id desc").Find(&leads).Error; err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	return leads, nil
}
