package database

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rpupo63/project-showcase-backend/errs"
	"github.com/rpupo63/project-showcase-backend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AuthorRepo struct {
	db *gorm.DB
}

func NewAuthorRepo(db *gorm.DB) *AuthorRepo {
	return &AuthorRepo{db}
}

// FindByID returns an author by its ID
func (r *AuthorRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Author, error) {
	return findAuthor(r.db.WithContext(ctx), id)
}

// UpsertByEmail inserts the author or refreshes the name and image of the
// existing row with the same email. The stored row is returned.
func (r *AuthorRepo) UpsertByEmail(ctx context.Context, author *models.Author) (*models.Author, error) {
	db := r.db.WithContext(ctx)
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "image"}),
	}).Create(author).Error
	if err != nil {
		return nil, err
	}

	var stored models.Author
	if err := db.Where("email = ?", author.Email).First(&stored).Error; err != nil {
		return nil, err
	}
	return &stored, nil
}

// findAuthor loads an author, mapping a missing row to errs.NewNotFound
func findAuthor(db *gorm.DB, id uuid.UUID) (*models.Author, error) {
	var author models.Author
	err := db.Where("id = ?", id).First(&author).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewNotFound("author")
	}
	if err != nil {
		return nil, err
	}
	return &author, nil
}
