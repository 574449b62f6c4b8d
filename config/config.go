package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Vivek-Rav/yawye/models"
)

// Config holds everything the server reads from the environment. It is
// built once in main and handed to the services that need it, so a missing
// secret shows up at startup (or as an explicit 500) instead of deep inside
// a request.
type Config struct {
	Port           string
	JWTSecret      string
	AdminEmail     string
	GeminiAPIKey   string
	GeminiModel    string
	DailyScanLimit int

	AWSRegion string
	S3Bucket  string
	SESSender string

	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
}

// Load reads .env (if present) and builds the Config. Only database and
// model settings are defaulted; secrets stay empty when unset and are
// checked where they are used.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	return &Config{
		Port:           getEnv("PORT", "8080"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		AdminEmail:     os.Getenv("ADMIN_EMAIL"),
		GeminiAPIKey:   os.Getenv("GEMINI_API_KEY"),
		GeminiModel:    getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		DailyScanLimit: getEnvInt("DAILY_SCAN_LIMIT", 3),
		AWSRegion:      getEnv("AWS_REGION", "ap-south-1"),
		S3Bucket:       os.Getenv("S3_BUCKET"),
		SESSender:      os.Getenv("SES_EMAIL"),
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBUser:         getEnv("DB_USER", "postgres"),
		DBPassword:     os.Getenv("DB_PASSWORD"),
		DBName:         getEnv("DB_NAME", "yawye"),
		DBPort:         getEnv("DB_PORT", "5432"),
	}
}

func InitDB(cfg *Config) *gorm.DB {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		cfg.DBHost,
		cfg.DBUser,
		cfg.DBPassword,
		cfg.DBName,
		cfg.DBPort,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(&models.ScanRecord{}); err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}
	return db
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}
