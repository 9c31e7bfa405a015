package packages_module

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"solarhub/commons/logger"
	"solarhub/database/entities"
	energy_module "solarhub/modules/energy-module"
)

type QuoteRequest struct {
	energy_module.ConsumptionInput
	Postcode string `json:"postcode" binding:"omitempty,numeric,len=4"`
}

type RoofRequest struct {
	MaxArrayPanelsCount int     `json:"maxArrayPanelsCount" binding:"gte=0"`
	RoofAreaM2          float64 `json:"roofAreaM2" binding:"gte=0"`
	SunshineHoursYear   float64 `json:"sunshineHoursYear" binding:"gte=0"`
}

// QuoteService owns the calculator session: the household answers, the energy profile derived
// from them and the roof analyses recorded against it.
type QuoteService struct {
	db          *gorm.DB
	consumption *energy_module.ConsumptionService
	packages    *PackageService
}

func NewQuoteService(db *gorm.DB, consumption *energy_module.ConsumptionService, packages *PackageService) *QuoteService {
	return &QuoteService{db: db, consumption: consumption, packages: packages}
}

func (s *QuoteService) apply(ctx context.Context, q *entities.CustomerQuote, req QuoteRequest) error {
	breakdown, err := s.consumption.DetailedBreakdown(ctx, req.ConsumptionInput)
	if err != nil {
		return err
	}
	in := req.ConsumptionInput
	q.Postcode = req.Postcode
	q.HouseholdSize = in.HouseholdSize
	q.HasEv = in.HasEv
	q.PlanningEv = in.PlanningEv
	q.EvCount = in.EvCount
	q.EvChargingMethod = in.EvChargingMethod
	q.EvChargingHours = in.EvChargingHours
	q.EvChargingTime = in.EvChargingTime
	q.HasPool = in.HasPool
	q.PoolHeated = in.PoolHeated
	q.HomeOfficeCount = in.HomeOfficeCount
	q.AcUsage = in.AcUsage
	q.HasElectricHotWater = in.HasElectricHotWater
	q.BimonthlyBill = in.BimonthlyBill
	q.DailyConsumption = breakdown.DailyConsumption
	q.DailyUsage = breakdown.DailyConsumption
	q.EnergyProfile = breakdown.Profile()
	return nil
}

// Create opens a new session with a freshly generated id.
func (s *QuoteService) Create(ctx context.Context, req QuoteRequest) (entities.CustomerQuote, error) {
	q := entities.CustomerQuote{SessionID: uuid.NewString()}
	if err := s.apply(ctx, &q, req); err != nil {
		return q, err
	}
	if err := s.db.WithContext(ctx).Create(&q).Error; err != nil {
		return q, fmt.Errorf("create quote: %w", err)
	}
	logger.FromContext(ctx).Info("quote session created",
		zap.String("sessionId", q.SessionID),
		zap.Float64("dailyConsumption", q.DailyConsumption),
	)
	return q, nil
}

func (s *QuoteService) Get(ctx context.Context, sessionID string) (entities.CustomerQuote, error) {
	var q entities.CustomerQuote
	err := s.db.WithContext(ctx).Where("session_id = ?", sessionID).First(&q).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return q, ErrQuoteNotFound
	}
	if err != nil {
		return q, fmt.Errorf("load quote: %w", err)
	}
	return q, nil
}

// Update recalculates the session's consumption from new answers.
func (s *QuoteService) Update(ctx context.Context, sessionID string, req QuoteRequest) (entities.CustomerQuote, error) {
	q, err := s.Get(ctx, sessionID)
	if err != nil {
		return q, err
	}
	if err := s.apply(ctx, &q, req); err != nil {
		return q, err
	}
	if err := s.db.WithContext(ctx).Save(&q).Error; err != nil {
		return q, fmt.Errorf("update quote: %w", err)
	}
	s.packages.Invalidate(ctx, sessionID)
	return q, nil
}

// RecordRoofAnalysis stores a new analysis; package generation uses the newest one.
func (s *QuoteService) RecordRoofAnalysis(ctx context.Context, sessionID string, req RoofRequest) (entities.RoofAnalysis, error) {
	if _, err := s.Get(ctx, sessionID); err != nil {
		return entities.RoofAnalysis{}, err
	}
	roof := entities.RoofAnalysis{
		SessionID:           sessionID,
		MaxArrayPanelsCount: req.MaxArrayPanelsCount,
		RoofAreaM2:          req.RoofAreaM2,
		SunshineHoursYear:   req.SunshineHoursYear,
	}
	if err := s.db.WithContext(ctx).Create(&roof).Error; err != nil {
		return roof, fmt.Errorf("create roof analysis: %w", err)
	}
	s.packages.Invalidate(ctx, sessionID)
	logger.FromContext(ctx).Debug("roof analysis recorded",
		zap.String("sessionId", sessionID),
		zap.Int("maxPanels", roof.MaxArrayPanelsCount),
	)
	return roof, nil
}
