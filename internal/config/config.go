package config

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/dkotenko/storefront/internal/models"
)

type Config struct {
	Addr          string
	DatabaseURL   string
	JWTSecret     []byte
	RefreshSecret []byte
	KafkaAddress  string
	ESURL         string
	ESUser        string
	ESPassword    string
	ESIndex       string
	LogLevel      string
}

func must(v string, name string) string {
	if v == "" {
		log.Fatalf("missing required env %s", name)
	}
	return v
}

func getenvDefault(name, def string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return def
}

func Load() *Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("notice: .env file not found: %v, using system environment", err)
	}

	return &Config{
		Addr:          getenvDefault("SERVER_ADDR", ":8080"),
		DatabaseURL:   must(os.Getenv("DATABASE_URL"), "DATABASE_URL"),
		JWTSecret:     []byte(must(os.Getenv("JWT_SECRET"), "JWT_SECRET")),
		RefreshSecret: []byte(must(os.Getenv("REFRESH_SECRET"), "REFRESH_SECRET")),
		KafkaAddress:  os.Getenv("KAFKA_ADDRESS"),
		ESURL:         os.Getenv("ES_URL"),
		ESUser:        os.Getenv("ES_USER"),
		ESPassword:    os.Getenv("ES_PASSWORD"),
		ESIndex:       getenvDefault("ES_INDEX", "products"),
		LogLevel:      getenvDefault("LOG_LEVEL", "info"),
	}
}

func configurePool(sqlDB *sql.DB) {
	const (
		maxOpenConns    = 20
		maxIdleConns    = 10
		connMaxLifetime = 30 * time.Minute
		connMaxIdleTime = 5 * time.Minute
	)

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)
}

func InitDB(ctx context.Context, dsn string) (*gorm.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("DATABASE_URL is empty")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		PrepareStmt: true,
		NowFunc:     func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("unwrap sql.DB: %w", err)
	}
	configurePool(sqlDB)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.Product{}, &models.CartItem{}, &models.RefreshToken{}); err != nil {
		return nil, fmt.Errorf("db migrate: %w", err)
	}

	return db, nil
}
