package configs

import (
	"log"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

var loadOnce sync.Once

var (
	AppEnv                = getEnv("APP_ENV", "development")
	AppPort               = getEnv("APP_PORT", "8080")
	LogLevel              = getEnv("LOG_LEVEL", "info")
	Region                = getEnv("REGION", "WA")
	DatabaseHost          = getEnv("DATABASE_HOST", "localhost")
	DatabasePort          = getEnv("DATABASE_PORT", "5432")
	DatabaseUser          = getEnv("DATABASE_USERNAME", "postgres")
	DatabaseName          = getEnv("DATABASE_NAME", "postgres")
	DatabasePassword      = getEnv("DATABASE_PASSWORD", "postgres")
	DatabaseSSL           = getEnv("DATABASE_SSL", "disable")
	DatabaseMaxOpenConns  = GetInt("DATABASE_MAX_OPEN_CONNS", 20)
	DatabaseMaxIdleConns  = GetInt("DATABASE_MAX_IDLE_CONNS", 5)
	RedisAddr             = getEnv("REDIS_ADDR", "")
	RedisPassword         = getEnv("REDIS_PASSWORD", "")
	RedisDB               = GetInt("REDIS_DB", 0)
	PackageCacheTTL       = GetDuration("PACKAGE_CACHE_TTL", 15*time.Minute)
	StorageDir            = getEnv("STORAGE_DIR", "storage/tmp")
	FileServerUrl         = getEnv("FILE_SERVER_URL", "http://localhost:8080/files")
	FileServerUrlUsername = getEnv("FILE_SERVER_URL_USERNAME", "user")
	FileServerUrlPassword = getEnv("FILE_SERVER_URL_PASSWORD", "password")
)

func getEnv(key, fallback string) string {
	LoadEnv()
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

// GetInt reads an integer variable, falling back when it is unset or malformed.
func GetInt(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("invalid %s=%q, using %d", key, value, fallback)
		return fallback
	}
	return n
}

// GetDuration reads a time.ParseDuration value such as "15m".
func GetDuration(key string, fallback time.Duration) time.Duration {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("invalid %s=%q, using %s", key, value, fallback)
		return fallback
	}
	return d
}

func DatabaseDSN() string {
	return "host=" + DatabaseHost + " " + "port=" + DatabasePort + " " + "user=" + DatabaseUser + " " + "password=" + DatabasePassword + " " +
		"dbname=" + DatabaseName + " " + "sslmode=" + DatabaseSSL
}

func IsProduction() bool {
	return AppEnv == "production"
}

// LoadEnv reads .env once. Deployments that inject the environment directly run without the file.
func LoadEnv() {
	loadOnce.Do(func() {
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			log.Printf("failed to load .env: %v", err)
		}
	})
}
