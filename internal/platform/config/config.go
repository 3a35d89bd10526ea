package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	APIPort     string
	Environment string

	JWTKey []byte
	JWTExp time.Duration

	DBHost       string
	DBPort       string
	DBUser       string
	DBPassword   string
	DBName       string
	DBSslMode    string
	DBConnStr    string
	DBConnURL    string
	QueryTimeout time.Duration

	MigrationsPath string

	AdminUsername string
	AdminEmail    string
	AdminPassword string
}

var AppConfig *Config

func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	AppConfig = &Config{
		APIPort:     getEnv("API_PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),

		JWTKey: []byte(getEnv("JWT_SECRET", "defaultsecret")),
		JWTExp: time.Duration(getEnvAsInt("JWT_EXPIRATION_HOURS", 24)) * time.Hour,

		DBHost:       getEnv("DB_HOST", "localhost"),
		DBPort:       getEnv("DB_PORT", "5432"),
		DBUser:       getEnv("DB_USER", "user"),
		DBPassword:   getEnv("DB_PASSWORD", "password"),
		DBName:       getEnv("DB_NAME", "calendar_db"),
		DBSslMode:    getEnv("DB_SSLMODE", "disable"),
		QueryTimeout: time.Duration(getEnvAsInt("DB_QUERY_TIMEOUT_SECONDS", 3)) * time.Second,

		MigrationsPath: getEnv("MIGRATIONS_PATH", "internal/platform/database/migrations"),

		AdminUsername: getEnv("ADMIN_USERNAME", "admin"),
		AdminEmail:    getEnv("ADMIN_EMAIL", "admin@empresa.com"),
		AdminPassword: getEnv("ADMIN_PASSWORD", "admin123"),
	}

	AppConfig.DBConnStr = "host=" + AppConfig.DBHost +
		" port=" + AppConfig.DBPort +
		" user=" + AppConfig.DBUser +
		" password=" + AppConfig.DBPassword +
		" dbname=" + AppConfig.DBName +
		" sslmode=" + AppConfig.DBSslMode

	AppConfig.DBConnURL = "postgres://" + AppConfig.DBUser + ":" + AppConfig.DBPassword +
		"@" + AppConfig.DBHost + ":" + AppConfig.DBPort + "/" + AppConfig.DBName +
		"?sslmode=" + AppConfig.DBSslMode
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}
