package database

import (
	"context"

	"github.com/rpupo63/project-showcase-backend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProjectRepo struct {
	db *gorm.DB
}

func NewProjectRepo(db *gorm.DB) *ProjectRepo {
	return &ProjectRepo{db}
}

// FindAllWithAuthor returns every project with its author preloaded
func (r *ProjectRepo) FindAllWithAuthor(ctx context.Context) ([]*models.Project, error) {
	projects := []*models.Project{}
	err := r.db.WithContext(ctx).Preload("Author").Find(&projects).Error
	return projects, err
}

// CreateForAuthor links the project to project.AuthorID and inserts it.
// The author lookup and the insert share one transaction, so an unknown
// author leaves nothing behind.
func (r *ProjectRepo) CreateForAuthor(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := findAuthor(tx, project.AuthorID); err != nil {
			return err
		}
		return tx.Omit(clause.Associations).Create(project).Error
	})
}
