package models

import "time"

// Asset is a binary resource scoped to a project and optionally to a locale.
// Its ID is derived as <project_id>-<slug>[-<locale>].
type Asset struct {
	ID        string    `json:"id" db:"id" gorm:"type:text;primaryKey;not null"`
	ProjectID string    `json:"project_id" db:"project_id" gorm:"type:text;not null;index:idx_project_assets_lookup,priority:1"`
	Slug      string    `json:"slug" db:"slug" gorm:"type:text;not null;index:idx_project_assets_lookup,priority:2"`
	Locale    *string   `json:"locale,omitempty" db:"locale" gorm:"type:text;index:idx_project_assets_lookup,priority:3"`
	MimeType  string    `json:"mime_type" db:"mime_type" gorm:"column:mime_type;type:text;not null"`
	Blob      Blob      `json:"-" db:"blob" gorm:"column:blob;not null"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

func (Asset) TableName() string { return "project_assets" }
