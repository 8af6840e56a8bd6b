package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/rpupo63/project-showcase-backend/config"
	"github.com/rpupo63/project-showcase-backend/errs"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"
)

// DSN builds the primary connection string for DB_TYPE.
//
//	supa      SUPABASE_DB_HOST, SUPABASE_DB_USER, SUPABASE_DB_PASSWORD, SUPABASE_DB_NAME, SUPABASE_DB_PORT
//	postgres  DATABASE_URL
func DSN(c map[string]string) (string, error) {
	dbType := config.GetString(c, "DB_TYPE", "postgres")
	switch dbType {
	case "supa":
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=require",
			config.GetString(c, "SUPABASE_DB_HOST", ""),
			config.GetString(c, "SUPABASE_DB_USER", ""),
			config.GetString(c, "SUPABASE_DB_PASSWORD", ""),
			config.GetString(c, "SUPABASE_DB_NAME", ""),
			config.GetString(c, "SUPABASE_DB_PORT", "5432"),
		), nil
	case "postgres":
		url := config.GetString(c, "DATABASE_URL", "")
		if url == "" {
			return "", errs.NewConfigMissingError("DATABASE_URL")
		}
		return url, nil
	default:
		return "", errs.NewConfigInvalidError("DB_TYPE", fmt.Errorf("unsupported value %q", dbType))
	}
}

// Open connects to postgres and registers read replicas listed in
// DB_REPLICA_URLS. Reads go to the replicas, writes and transactions stay on
// the primary.
func Open(c map[string]string) (*gorm.DB, error) {
	dsn, err := DSN(c)
	if err != nil {
		return nil, err
	}

	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Duration(config.GetInt(c, "DB_SLOW_THRESHOLD_MS", 10000)) * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		PrepareStmt: false,
		Logger:      newLogger,
	})
	if err != nil {
		return nil, errs.NewDatabaseError("connect to", "database", err)
	}

	if replicas := config.GetList(c, "DB_REPLICA_URLS"); len(replicas) > 0 {
		dialectors := make([]gorm.Dialector, 0, len(replicas))
		for _, replica := range replicas {
			dialectors = append(dialectors, postgres.New(postgres.Config{
				DSN:                  replica,
				PreferSimpleProtocol: true,
			}))
		}

		resolver := dbresolver.Register(dbresolver.Config{
			Replicas: dialectors,
			Policy:   dbresolver.RandomPolicy{},
		}).
			SetMaxOpenConns(config.GetInt(c, "DB_MAX_OPEN_CONNS", 20)).
			SetMaxIdleConns(config.GetInt(c, "DB_MAX_IDLE_CONNS", 5))

		if err := db.Use(resolver); err != nil {
			return nil, errs.NewDatabaseError("register replicas for", "database", err)
		}
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(config.GetInt(c, "DB_MAX_OPEN_CONNS", 20))
	sqlDB.SetMaxIdleConns(config.GetInt(c, "DB_MAX_IDLE_CONNS", 5))
	sqlDB.SetConnMaxLifetime(time.Duration(config.GetInt(c, "DB_CONN_MAX_LIFETIME_SECONDS", 1800)) * time.Second)

	return db, nil
}
