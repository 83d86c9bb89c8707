package models

import (
	"time"

	"github.com/google/uuid"
)

// Project represents a portfolio entry shown on the public site
type Project struct {
	ID           uuid.UUID `json:"id" db:"id" gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid();not null"`
	Title        string    `json:"title" db:"title" gorm:"column:title;type:text;not null"`
	Category     string    `json:"category" db:"category" gorm:"column:category;type:text;not null;index:idx_projects_category"`
	Description  *string   `json:"description" db:"description" gorm:"column:description;type:text"`
	ImageURL     *string   `json:"image_url" db:"image_url" gorm:"column:image_url;type:text"`
	DisplayOrder int       `json:"display_order" db:"display_order" gorm:"column:display_order;type:integer;not null;default:0"`
	CreatedAt    time.Time `json:"created_at" db:"created_at" gorm:"column:created_at;type:timestamptz;not null;default:now()"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at" gorm:"column:updated_at;type:timestamptz;not null;default:now()"`
}

func (Project) TableName() string {
	return "projects"
}

// DescriptionText returns the description or an empty string when unset
func (p Project) DescriptionText() string {
	if p.Description == nil {
		return ""
	}
	return *p.Description
}

// ImageURLText returns the image URL or an empty string when no image was uploaded
func (p Project) ImageURLText() string {
	if p.ImageURL == nil {
		return ""
	}
	return *p.ImageURL
}
