package database

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"solarhub/commons/logger"
	"solarhub/configs"
	"solarhub/database/entities"
)

// Models lists every table owned by the service, in dependency order.
var Models = []any{
	&entities.Lead{},
	&entities.LeadFileHistory{},
	&entities.LeadPhoneDuplicateHistory{},
	&entities.LeadDomain{},
	&entities.LeadDomainRelations{},
	&entities.CustomerQuote{},
	&entities.RoofAnalysis{},
	&entities.SystemPackageTemplate{},
	&entities.Supplier{},
	&entities.Product{},
	&entities.SupplierProduct{},
	&entities.LaborType{},
	&entities.ProductInstallationRequirement{},
	&entities.SolarPricing{},
	&entities.ConsumptionAssumption{},
	&entities.TimeOfUsePattern{},
	&entities.RebateConfig{},
	&entities.PostcodeZoneRating{},
	&entities.InstallationPricing{},
}

func Connect(log *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  configs.DatabaseDSN(),
		PreferSimpleProtocol: true,
	}), GormConfig(log))
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(configs.DatabaseMaxOpenConns)
	sqlDB.SetMaxIdleConns(configs.DatabaseMaxIdleConns)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	log.Info("Database connection established", zap.String("host", configs.DatabaseHost), zap.String("database", configs.DatabaseName))
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// GormConfig is shared by the postgres connection and the sqlite test databases so both
// translate driver errors into gorm's sentinel errors.
func GormConfig(log *zap.Logger) *gorm.Config {
	return &gorm.Config{
		Logger:         logger.NewGormLogger(log, logger.MapGormLogLevel(configs.LogLevel)),
		TranslateError: true,
	}
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models...); err != nil {
		return fmt.Errorf("database migrate error: %w", err)
	}
	return nil
}

func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
