package models

import (
	"time"

	"github.com/google/uuid"
)

// Author owns projects. Rows are created by the seed mode or by whatever
// identity provider issues sessions; this service only reads them.
type Author struct {
	ID        uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	Name      string    `json:"name" db:"name" gorm:"type:text;not null"`
	Email     string    `json:"email" db:"email" gorm:"type:text;not null;uniqueIndex:idx_author_email"`
	Image     *string   `json:"image,omitempty" db:"image" gorm:"type:text"`
	CreatedAt time.Time `json:"createdAt" db:"created_at" gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP"`
}
