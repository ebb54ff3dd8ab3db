package models

import (
	"fmt"
	"os"
	"testing"

	"proxpeek/config"

	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres" // using postgres sql
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DSN builds the postgres connection string from the configuration.
func DSN(conf *config.Config) string {
	return fmt.Sprintf("host=%s port=%s user=%s dbname=%s password=%s",
		conf.DBHost, conf.DBPort, conf.DBUser, conf.DBName, conf.DBPassword)
}

// SetupModels opens the database and creates the tables, if not yet
func SetupModels(conf *config.Config) (*gorm.DB, error) {
	log.Infof("Connecting to postgres at %s:%s/%s", conf.DBHost, conf.DBPort, conf.DBName)
	return open(DSN(conf))
}

func open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&Setting{}, &Action{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return db, nil
}

// InitTestDB connects to the database named by PROXPEEK_TEST_DSN and empties
// its tables. The test is skipped when the variable is unset.
func InitTestDB(t testing.TB) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("PROXPEEK_TEST_DSN")
	if dsn == "" {
		t.Skip("PROXPEEK_TEST_DSN not set")
	}
	db, err := open(dsn)
	if err != nil {
		t.Fatalf("init test db: %v", err)
	}
	if err := db.Exec("TRUNCATE settings, actions RESTART IDENTITY;").Error; err != nil {
		t.Fatalf("truncate test db: %v", err)
	}
	return db
}
