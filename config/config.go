package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"vegoodies/models"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	EnvDev  = "dev"
	EnvProd = "prod"

	defaultRegion = "eu-west-2"
	defaultPort   = 8080
)

type Config struct {
	Env         string
	DatabaseURL string
	Port        int
	LogLevel    slog.Level

	S3Bucket   string
	S3Key      string
	S3Secret   string
	S3Region   string
	S3Endpoint string
}

// Debug reports whether the service runs with the dev database and debug output.
func (c *Config) Debug() bool {
	return c.Env == EnvDev
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Load reads an optional .env file and then the process environment.
func Load(files ...string) (*Config, error) {
	// Only the implicit ./.env may be absent.
	if err := godotenv.Load(files...); err != nil && (len(files) > 0 || !errors.Is(err, fs.ErrNotExist)) {
		return nil, fmt.Errorf("load env file: %w", err)
	}

	cfg := &Config{
		Env:        strings.ToLower(getenv("ENV", EnvProd)),
		S3Bucket:   os.Getenv("S3_BUCKET"),
		S3Key:      os.Getenv("S3_KEY"),
		S3Secret:   os.Getenv("S3_SECRET"),
		S3Endpoint: os.Getenv("S3_ENDPOINT"),
	}
	if cfg.Env != EnvDev && cfg.Env != EnvProd {
		return nil, fmt.Errorf("unknown ENV %q", cfg.Env)
	}

	cfg.S3Region = os.Getenv("S3_REGION")
	if cfg.S3Region == "" {
		cfg.S3Region = getenv("AWS_REGION", defaultRegion) // fallback
	}

	cfg.DatabaseURL = databaseURL(cfg.Env)
	if cfg.DatabaseURL == "" {
		return nil, errors.New("no database configured: set PSQL_DEV/PSQL_PRD, DATABASE_URL or DB_HOST")
	}
	if cfg.S3Bucket == "" {
		return nil, errors.New("S3_BUCKET not set")
	}

	port, err := strconv.Atoi(getenv("PORT", strconv.Itoa(defaultPort)))
	if err != nil || port <= 0 {
		return nil, fmt.Errorf("invalid PORT %q", os.Getenv("PORT"))
	}
	cfg.Port = port

	if err := cfg.LogLevel.UnmarshalText([]byte(getenv("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	return cfg, nil
}

func databaseURL(env string) string {
	key := "PSQL_PRD"
	if env == EnvDev {
		key = "PSQL_DEV"
	}
	if dsn := os.Getenv(key); dsn != "" {
		return dsn
	}
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		return dsn
	}
	if os.Getenv("DB_HOST") == "" {
		return ""
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		getenv("DB_PORT", "5432"),
	)
}

// OpenDB connects to postgres. Errors are translated so that unique
// violations surface as gorm.ErrDuplicatedKey.
func OpenDB(cfg *Config) (*gorm.DB, error) {
	level := logger.Warn
	if cfg.Debug() {
		level = logger.Info
	}
	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(level),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Recipe{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
