package packages_module

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"solarhub/commons/cache"
	"solarhub/commons/enums"
	"solarhub/commons/logger"
	"solarhub/commons/response"
	"solarhub/database/entities"
)

var ErrTemplateNotFound = response.NotFound("Template not found")

// NewTemplateValidator checks the struct tags and that each strategy carries the parameter
// it sizes from.
func NewTemplateValidator() *validator.Validate {
	v := validator.New()
	v.RegisterStructValidation(validateStrategies, entities.SystemPackageTemplate{})
	return v
}

func validateStrategies(sl validator.StructLevel) {
	t := sl.Current().Interface().(entities.SystemPackageTemplate)

	switch {
	case !enums.IsSolarStrategy(t.SolarSizingStrategy):
		sl.ReportError(t.SolarSizingStrategy, "solarSizingStrategy", "SolarSizingStrategy", "solar_strategy", "")
	case t.SolarSizingStrategy == enums.SOLAR_COVERAGE_PERCENTAGE && t.SolarCoveragePercent == nil:
		sl.ReportError(t.SolarCoveragePercent, "solarCoveragePercent", "SolarCoveragePercent", "required_for_strategy", enums.SOLAR_COVERAGE_PERCENTAGE)
	case t.SolarSizingStrategy == enums.SOLAR_FIXED_KW && t.SolarFixedKw == nil:
		sl.ReportError(t.SolarFixedKw, "solarFixedKw", "SolarFixedKw", "required_for_strategy", enums.SOLAR_FIXED_KW)
	}

	switch {
	case !enums.IsBatteryStrategy(t.BatterySizingStrategy):
		sl.ReportError(t.BatterySizingStrategy, "batterySizingStrategy", "BatterySizingStrategy", "battery_strategy", "")
	case t.BatterySizingStrategy == enums.BATTERY_FIXED_KWH && t.BatteryFixedKwh == nil:
		sl.ReportError(t.BatteryFixedKwh, "batteryFixedKwh", "BatteryFixedKwh", "required_for_strategy", enums.BATTERY_FIXED_KWH)
	case t.BatterySizingStrategy == enums.BATTERY_COVERAGE_HOURS && t.BatteryCoverageHours == nil:
		sl.ReportError(t.BatteryCoverageHours, "batteryCoverageHours", "BatteryCoverageHours", "required_for_strategy", enums.BATTERY_COVERAGE_HOURS)
	}
}

type TemplateService struct {
	db       *gorm.DB
	cache    cache.Cache
	validate *validator.Validate
}

// NewTemplateService flushes every session's cached packages in c whenever a template
// changes. A nil cache means nothing is cached.
func NewTemplateService(db *gorm.DB, c cache.Cache) *TemplateService {
	if c == nil {
		c = cache.Nop{}
	}
	return &TemplateService{db: db, cache: c, validate: NewTemplateValidator()}
}

func (s *TemplateService) flushPackages(ctx context.Context) {
	if err := s.cache.DeletePrefix(ctx, cacheKeyPrefix); err != nil {
		logger.FromContext(ctx).Warn("package cache flush failed", zap.Error(err))
	}
}

func (s *TemplateService) List(ctx context.Context, includeInactive bool) ([]entities.SystemPackageTemplate, error) {
	q := s.db.WithContext(ctx)
	if !includeInactive {
		q = q.Where("active = ?", true)
	}
	var templates []entities.SystemPackageTemplate
	if err := q.Order("sort_order asc").Order("id asc").Find(&templates).Error; err != nil {
		return nil, fmt.Errorf("list package templates: %w", err)
	}
	return templates, nil
}

func (s *TemplateService) Get(ctx context.Context, id uint) (entities.SystemPackageTemplate, error) {
	var t entities.SystemPackageTemplate
	err := s.db.WithContext(ctx).First(&t, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return t, ErrTemplateNotFound
	}
	if err != nil {
		return t, fmt.Errorf("load package template %d: %w", id, err)
	}
	return t, nil
}

// Create stores a new, active template.
func (s *TemplateService) Create(ctx context.Context, t entities.SystemPackageTemplate) (entities.SystemPackageTemplate, error) {
	t.ID = 0
	t.Active = true
	if err := s.validate.StructCtx(ctx, t); err != nil {
		return t, err
	}
	if err := s.db.WithContext(ctx).Create(&t).Error; err != nil {
		return t, fmt.Errorf("create package template: %w", err)
	}
	s.flushPackages(ctx)
	logger.FromContext(ctx).Info("package template created", zap.Uint("id", t.ID), zap.String("name", t.Name))
	return t, nil
}

// Update replaces every editable field of the template. Active is left as stored; use
// Deactivate to retire a template.
func (s *TemplateService) Update(ctx context.Context, id uint, in entities.SystemPackageTemplate) (entities.SystemPackageTemplate, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return current, err
	}
	in.ID = current.ID
	in.CreatedAt = current.CreatedAt
	in.Active = current.Active
	if err := s.validate.StructCtx(ctx, in); err != nil {
		return in, err
	}
	if err := s.db.WithContext(ctx).Save(&in).Error; err != nil {
		return in, fmt.Errorf("update package template %d: %w", id, err)
	}
	s.flushPackages(ctx)
	logger.FromContext(ctx).Info("package template updated", zap.Uint("id", id))
	return in, nil
}

// Deactivate hides the template from package generation without deleting it.
func (s *TemplateService) Deactivate(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Model(&entities.SystemPackageTemplate{}).Where("id = ?", id).Update("active", false)
	if res.Error != nil {
		return fmt.Errorf("deactivate package template %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrTemplateNotFound
	}
	s.flushPackages(ctx)
	logger.FromContext(ctx).Info("package template deactivated", zap.Uint("id", id))
	return nil
}
