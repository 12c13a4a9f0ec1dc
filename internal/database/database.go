package database

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"yelpcamp/internal/config"
)

type DB struct {
	*sqlx.DB
}

// DataSource returns the driver name and DSN selected by the configuration.
func DataSource(cfg *config.Config) (string, string, error) {
	switch cfg.DB.Driver {
	case "postgres", "":
		return "postgres", fmt.Sprintf(
			"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			cfg.DB.DbHOST,
			cfg.DB.DbPORT,
			cfg.DB.DbUSER,
			cfg.DB.DbPASSWORD,
			cfg.DB.DbNAME,
			cfg.DB.DbSSLMODE,
		), nil
	case "sqlite3":
		return "sqlite3", fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", cfg.DB.SQLitePath), nil
	default:
		return "", "", fmt.Errorf("unsupported database driver %q", cfg.DB.Driver)
	}
}

func ConnectDB(cfg *config.Config) (*DB, error) {
	driver, dsn, err := DataSource(cfg)
	if err != nil {
		return nil, err
	}

	if driver == "postgres" {
		log.Printf("Connecting to database: driver=%s host=%s dbname=%s", driver, cfg.DB.DbHOST, cfg.DB.DbNAME)
	} else {
		log.Printf("Connecting to database: driver=%s path=%s", driver, cfg.DB.SQLitePath)
	}

	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if driver == "sqlite3" {
		// sqlite allows a single writer
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
	}
	db.SetConnMaxLifetime(30 * time.Minute)

	dbStruct := &DB{db}

	if err := dbStruct.RunMigrations(cfg.DB.MigrationsPath); err != nil {
		db.Close()
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbStruct.HealthCheck(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("database health check failed: %w", err)
	}

	log.Printf("Connected to %s", driver)
	return dbStruct, nil
}

func (db *DB) CloseDB() error {
	return db.DB.Close()
}

func (db *DB) RunMigrations(migrationFilePath string) error {
	if _, err := os.Stat(migrationFilePath); os.IsNotExist(err) {
		return fmt.Errorf("migrations file not found: %s", migrationFilePath)
	}

	migrationSQL, err := os.ReadFile(migrationFilePath)
	if err != nil {
		return fmt.Errorf("failed to read migrations file: %w", err)
	}

	log.Printf("Applying migrations from: %s", migrationFilePath)

	_, err = db.Exec(string(migrationSQL))
	if err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	log.Println("Migrations applied")
	return nil
}

func (db *DB) HealthCheck(ctx context.Context) error {
	if db == nil || db.DB == nil {
		return fmt.Errorf("database connection is not initialized")
	}

	return db.PingContext(ctx)
}
