package main

import (
	"go.uber.org/zap"

	"solarhub/commons/cache"
	"solarhub/commons/logger"
	"solarhub/configs"
	"solarhub/database"
	leads_module "solarhub/modules/leads-module"
	"solarhub/server"
)

func main() {
	configs.LoadEnv()
	log := logger.New(logger.ConfigForEnvironment(configs.AppEnv, configs.LogLevel))
	defer func() { _ = log.Sync() }()

	db, err := database.Connect(log)
	if err != nil {
		log.Fatal("Failed to connect database", zap.Error(err))
	}
	defer func() { _ = database.Close(db) }()

	if err := database.Seed(db, configs.Region, log); err != nil {
		log.Fatal("Failed to seed database", zap.Error(err))
	}

	var packageCache cache.Cache = cache.Nop{}
	if configs.RedisAddr != "" {
		redisCache, err := cache.NewRedisCache(cache.RedisConfig{
			Addr:     configs.RedisAddr,
			Password: configs.RedisPassword,
			DB:       configs.RedisDB,
		}, "solarhub:")
		if err != nil {
			log.Fatal("Failed to connect redis", zap.Error(err))
		}
		defer func() { _ = redisCache.Close() }()
		packageCache = redisCache
	} else {
		log.Warn("REDIS_ADDR not set, package cache disabled")
	}

	r := server.NewRouter(db, log, server.Options{
		Region:   configs.Region,
		Cache:    packageCache,
		CacheTTL: configs.PackageCacheTTL,
		FileServer: leads_module.FileServer{
			URL:      configs.FileServerUrl,
			Username: configs.FileServerUrlUsername,
			Password: configs.FileServerUrlPassword,
		},
		StorageDir: configs.StorageDir,
	})

	log.Info("Starting server", zap.String("port", configs.AppPort), zap.String("region", configs.Region))
	if err := r.Run(":" + configs.AppPort); err != nil {
		log.Fatal("Failed to run server", zap.Error(err))
	}
}
