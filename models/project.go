package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Project represents a showcased project linked to exactly one author
type Project struct {
	ID               uuid.UUID                   `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	Title            string                      `json:"title" db:"title" gorm:"type:text;not null"`
	Description      string                      `json:"description" db:"description" gorm:"type:text;not null"`
	GithubRepository string                      `json:"githubRepository" db:"github_repository" gorm:"type:text;not null"`
	Tags             datatypes.JSONSlice[string] `json:"tags" db:"tags" gorm:"not null"`
	CoverImg         string                      `json:"coverImg" db:"cover_img" gorm:"type:text;not null"`
	AuthorID         uuid.UUID                   `json:"authorId" db:"author_id" gorm:"type:uuid;not null;index:idx_project_author_id"`
	CreatedAt        time.Time                   `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time                   `json:"updatedAt" db:"updated_at"`

	Author *Author `json:"author,omitempty" gorm:"foreignKey:AuthorID;references:ID;constraint:OnDelete:CASCADE"`
}
