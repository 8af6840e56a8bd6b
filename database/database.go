package database

import (
	"context"

	"github.com/rpupo63/project-showcase-backend/models"
	"gorm.io/gorm"
)

type Database struct {
	db          *gorm.DB
	authorRepo  *AuthorRepo
	projectRepo *ProjectRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		db:          db,
		authorRepo:  NewAuthorRepo(db),
		projectRepo: NewProjectRepo(db),
	}
}

// Accessor methods for each repository

func (d Database) AuthorRepo() *AuthorRepo {
	return d.authorRepo
}

func (d Database) ProjectRepo() *ProjectRepo {
	return d.projectRepo
}

// Ping checks that the primary connection pool can reach the server
func (d Database) Ping(ctx context.Context) error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Migrate creates or updates the tables for every model
func (d Database) Migrate() error {
	// gen_random_uuid() is built in from postgres 13, pgcrypto covers older servers
	if err := d.db.Exec(`CREATE EXTENSION IF NOT EXISTS "pgcrypto"`).Error; err != nil {
		return err
	}
	return d.db.AutoMigrate(models.All()...)
}

// Close releases the underlying connection pool
func (d Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
