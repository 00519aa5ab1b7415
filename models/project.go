package models

import (
	"time"

	"gorm.io/datatypes"
)

// Project is the locale-resolved project served to the site.
type Project struct {
	ID                    string   `json:"id"`
	Title                 string   `json:"title"`
	ShortDescription      string   `json:"shortDescription"`
	Image                 *string  `json:"image"`
	Tags                  []string `json:"tags"`
	Markdown              *string  `json:"markdown"`
	Github                *string  `json:"github"`
	Demo                  *string  `json:"demo"`
	Features              []string `json:"features"`
	Featured              bool     `json:"featured"`
	HasItalianTranslation bool     `json:"hasItalianTranslation"`
}

// ProjectRow is a row of the projects table. Italian mirror columns carry the
// _it suffix.
type ProjectRow struct {
	ID                 string                      `json:"id" db:"id" gorm:"type:text;primaryKey;not null"`
	Title              string                      `json:"title" db:"title" gorm:"type:text;not null"`
	ShortDescription   string                      `json:"short_description" db:"short_description" gorm:"column:short_description;type:text;not null"`
	ShortDescriptionIt *string                     `json:"short_description_it,omitempty" db:"short_description_it" gorm:"column:short_description_it;type:text"`
	Image              string                      `json:"image" db:"image" gorm:"type:text;not null;default:''"`
	ImageMime          *string                     `json:"image_mime,omitempty" db:"image_mime" gorm:"column:image_mime;type:text"`
	ImageBlob          Blob                        `json:"-" db:"image_blob" gorm:"column:image_blob"`
	Tags               datatypes.JSONSlice[string] `json:"tags" db:"tags" gorm:"column:tags"`
	Markdown           *string                     `json:"markdown,omitempty" db:"markdown" gorm:"type:text"`
	MarkdownIt         *string                     `json:"markdown_it,omitempty" db:"markdown_it" gorm:"column:markdown_it;type:text"`
	Github             *string                     `json:"github,omitempty" db:"github" gorm:"type:text"`
	Demo               *string                     `json:"demo,omitempty" db:"demo" gorm:"type:text"`
	Features           datatypes.JSONSlice[string] `json:"features,omitempty" db:"features" gorm:"column:features"`
	FeaturesIt         datatypes.JSONSlice[string] `json:"features_it,omitempty" db:"features_it" gorm:"column:features_it"`
	Featured           bool                        `json:"featured" db:"featured" gorm:"not null;default:false"`
	CreatedAt          time.Time                   `json:"created_at" db:"created_at" gorm:"index"`
}

func (ProjectRow) TableName() string { return "projects" }

// ProjectImage is the cover blob stored alongside a project row.
type ProjectImage struct {
	ImageBlob Blob    `gorm:"column:image_blob"`
	ImageMime *string `gorm:"column:image_mime"`
}
