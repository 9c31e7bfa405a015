package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"solarhub/commons/cache"
	"solarhub/commons/logger"
	"solarhub/commons/metrics"
	energy_module "solarhub/modules/energy-module"
	installation_module "solarhub/modules/installation-module"
	leads_module "solarhub/modules/leads-module"
	packages_module "solarhub/modules/packages-module"
	products_module "solarhub/modules/products-module"
	rebates_module "solarhub/modules/rebates-module"
)

type Options struct {
	Region     string
	Cache      cache.Cache
	CacheTTL   time.Duration
	FileServer leads_module.FileServer
	StorageDir string
	HTTPClient *http.Client
}

// NewRouter builds every service on db and mounts the public API under /api and the
// back-office API under /api/admin.
func NewRouter(db *gorm.DB, log *zap.Logger, opts Options) *gin.Engine {
	if opts.Cache == nil {
		opts.Cache = cache.Nop{}
	}

	timeOfUse := energy_module.NewTimeOfUseService(db, opts.Region)
	consumption := energy_module.NewConsumptionService(db, opts.Region, timeOfUse)
	products := products_module.NewProductService(db)
	zones := rebates_module.NewZoneService(db)
	rebates := rebates_module.NewRebateService(db, zones, opts.Region)
	installation := installation_module.NewInstallationService(db, opts.Region)
	packages := packages_module.NewPackageService(db, products, rebates, opts.Cache, opts.CacheTTL, opts.Region)
	quotes := packages_module.NewQuoteService(db, consumption, packages)
	templates := packages_module.NewTemplateService(db, opts.Cache)
	leads := leads_module.NewLeadService(db)
	leadFiles := leads_module.NewLeadFileService(db, opts.HTTPClient, opts.FileServer, opts.StorageDir)

	r := gin.New()
	r.Use(logger.GinMiddleware(log), logger.Recovery(log), metrics.GinMiddleware())

	r.GET("/healthz", func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := r.Group("/api")
	admin := api.Group("/admin")

	energy_module.NewHandler(consumption, timeOfUse).RegisterRoutes(api)
	products_module.NewHandler(products).RegisterRoutes(api)
	rebates_module.NewHandler(db, zones, rebates).RegisterRoutes(api, admin)
	installation_module.NewHandler(installation).RegisterRoutes(api)
	packages_module.NewHandler(packages, quotes, templates).RegisterRoutes(api, admin)
	leads_module.NewHandler(leads, leadFiles).RegisterRoutes(api, admin)

	return r
}
