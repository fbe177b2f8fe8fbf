package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port     string
	GinMode  string
	LogLevel string
	// LogPretty switches zerolog to the human readable console writer.
	LogPretty bool

	DBDriver    string
	DatabaseURL string

	// Audit logs go to MongoDB when MongoURI is set, otherwise to the SQL store.
	MongoURI string
	MongoDB  string

	// Settings are cached in Redis when RedisAddr is set, otherwise in process.
	RedisAddr        string
	RedisPassword    string
	SettingsCacheTTL time.Duration

	JWTSecret string
	JWTIssuer string

	RestockOnCancel bool
	ShutdownTimeout time.Duration
}

// LoadConfig reads configuration from the environment, falling back to defaults.
func LoadConfig() *Config {
	// .env is optional; deployed environments set variables directly
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			log.Println("error loading .env file:", err)
		}
	}

	return &Config{
		Port:             getEnv("PORT", "8080"),
		GinMode:          getEnv("GIN_MODE", "release"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogPretty:        getEnvBool("LOG_PRETTY", false),
		DBDriver:         getEnv("DB_DRIVER", "postgres"),
		DatabaseURL:      getEnv("DATABASE_URL", "host=localhost user=postgres password=postgres dbname=crm port=5432 sslmode=disable"),
		MongoURI:         getEnv("MONGO_URI", ""),
		MongoDB:          getEnv("MONGO_DB", "crm"),
		RedisAddr:        getEnv("REDIS_ADDR", ""),
		RedisPassword:    getEnv("REDIS_PASSWORD", ""),
		SettingsCacheTTL: getEnvDuration("SETTINGS_CACHE_TTL", 5*time.Minute),
		JWTSecret:        getEnv("JWT_SECRET", ""),
		JWTIssuer:        getEnv("JWT_ISSUER", "crm-commerce"),
		RestockOnCancel:  getEnvBool("RESTOCK_ON_CANCEL", false),
		ShutdownTimeout:  getEnvDuration("SHUTDOWN_TIMEOUT", 30*time.Second),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("invalid boolean for %s: %q, using %v", key, value, fallback)
		return fallback
	}
	return b
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("invalid duration for %s: %q, using %v", key, value, fallback)
		return fallback
	}
	return d
}
