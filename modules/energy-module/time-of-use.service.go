package energy_module

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"solarhub/commons/enums"
	"solarhub/commons/logger"
	"solarhub/database/entities"
)

// Pattern is the share of daily base consumption used in each part of the day.
type Pattern struct {
	Daytime float64 `json:"daytime"`
	Evening float64 `json:"evening"`
	Night   float64 `json:"night"`
}

var DefaultPattern = Pattern{Daytime: 0.30, Evening: 0.45, Night: 0.25}

// Normalize scales the fractions so they sum to 1. A pattern with no positive total is
// replaced by DefaultPattern.
func (p Pattern) Normalize() Pattern {
	if p.Daytime < 0 || p.Evening < 0 || p.Night < 0 {
		return DefaultPattern
	}
	total := p.Daytime + p.Evening + p.Night
	if total <= 0 {
		return DefaultPattern
	}
	if total == 1 {
		return p
	}
	return Pattern{Daytime: p.Daytime / total, Evening: p.Evening / total, Night: p.Night / total}
}

type Split struct {
	Daytime float64 `json:"daytime"`
	Evening float64 `json:"evening"`
	Night   float64 `json:"night"`
}

// SplitTimeOfUse spreads daily consumption over the day. The EV share is excluded from the
// pattern and added whole to the window the customer charges in.
func SplitTimeOfUse(daily, ev float64, chargingTime string, p Pattern) Split {
	base := daily - ev
	s := Split{
		Daytime: base * p.Daytime,
		Evening: base * p.Evening,
		Night:   base * p.Night,
	}
	if ev <= 0 {
		return s
	}
	switch chargingTime {
	case enums.CHARGING_MORNING, enums.CHARGING_MIDDAY:
		s.Daytime += ev
	case enums.CHARGING_EVENING:
		s.Evening += ev
	default:
		s.Night += ev
	}
	return s
}

type TimeOfUseService struct {
	db     *gorm.DB
	region string
}

func NewTimeOfUseService(db *gorm.DB, region string) *TimeOfUseService {
	return &TimeOfUseService{db: db, region: region}
}

// GetPattern returns the newest active pattern for the region, or DefaultPattern when none
// is configured.
func (s *TimeOfUseService) GetPattern(ctx context.Context) (Pattern, error) {
	var row entities.TimeOfUsePattern
	err := s.db.WithContext(ctx).
		Where("region = ? AND active = ?", s.region, true).
		Order("created_at desc").Order("id desc").
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		logger.FromContext(ctx).Debug("no time of use pattern configured, using default", zap.String("region", s.region))
		return DefaultPattern, nil
	}
	if err != nil {
		return Pattern{}, fmt.Errorf("load time of use pattern: %w", err)
	}
	return Pattern{Daytime: row.Daytime, Evening: row.Evening, Night: row.Night}.Normalize(), nil
}
