package config

import (
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type DB struct {
	Driver         string `env:"DRIVER" envDefault:"postgres"`
	DbHOST         string `env:"HOST" envDefault:"localhost"`
	DbPORT         string `env:"PORT" envDefault:"5432"`
	DbUSER         string `env:"USER" envDefault:"postgres"`
	DbPASSWORD     string `env:"PASSWORD" envDefault:"password"`
	DbNAME         string `env:"NAME" envDefault:"yelpcamp"`
	DbSSLMODE      string `env:"SSLMODE" envDefault:"disable"`
	SQLitePath     string `env:"SQLITE_PATH" envDefault:"yelpcamp.db"`
	MigrationsPath string `env:"MIGRATIONS_PATH" envDefault:"migrations/001_create_tables.sql"`
}

type MinIO struct {
	Endpoint   string        `env:"ENDPOINT" envDefault:"localhost:9000"`
	AccessKey  string        `env:"ACCESS_KEY" envDefault:"minioadmin"`
	SecretKey  string        `env:"SECRET_KEY" envDefault:"minioadmin"`
	BucketName string        `env:"BUCKET_NAME" envDefault:"yelpcamp"`
	Folder     string        `env:"FOLDER" envDefault:"YelpCamp"`
	UseSSL     bool          `env:"USE_SSL" envDefault:"false"`
	Region     string        `env:"REGION" envDefault:"us-east-1"`
	PublicURL  string        `env:"PUBLIC_URL"`
	Timeout    time.Duration `env:"TIMEOUT" envDefault:"15s"`
}

type Mapbox struct {
	Token   string        `env:"TOKEN"`
	BaseURL string        `env:"BASE_URL" envDefault:"https://api.mapbox.com"`
	Timeout time.Duration `env:"TIMEOUT" envDefault:"5s"`
}

type Session struct {
	Secret   string        `env:"SECRET" envDefault:"thisisadevelopmentbackupsecret"`
	Name     string        `env:"NAME" envDefault:"session"`
	Duration time.Duration `env:"DURATION" envDefault:"168h"`
	Secure   bool          `env:"SECURE" envDefault:"false"`
}

type Config struct {
	ServerPort      int           `env:"SERVER_PORT" envDefault:"3000"`
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"30s"`
	IdleTimeout     time.Duration `env:"SERVER_IDLE_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	TemplatesDebug  bool          `env:"TEMPLATES_DEBUG" envDefault:"false"`
	MaxUploadSize   int64         `env:"MAX_UPLOAD_SIZE" envDefault:"10485760"`

	DB      DB      `envPrefix:"DB_"`
	MinIO   MinIO   `envPrefix:"MINIO_"`
	Mapbox  Mapbox  `envPrefix:"MAPBOX_"`
	Session Session `envPrefix:"SESSION_"`
}

// Parse reads the configuration from the process environment only.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.MaxUploadSize <= 0 {
		cfg.MaxUploadSize = 10 * 1024 * 1024
	}
	return cfg, nil
}

func LoadConfig() *Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	cfg, err := Parse()
	if err != nil {
		log.Fatalf("Failed to read configuration: %v", err)
	}

	return cfg
}
