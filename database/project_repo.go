package database

import (
	"context"
	"errors"

	"github.com/SignorelliLorenzo/portfolio/errs"
	"github.com/SignorelliLorenzo/portfolio/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProjectRepo struct {
	db *gorm.DB
}

func NewProjectRepo(db *gorm.DB) *ProjectRepo {
	return &ProjectRepo{db}
}

// GetDB returns the underlying database connection for debugging purposes
func (r *ProjectRepo) GetDB() *gorm.DB {
	return r.db
}

// FindAll returns every project, newest first. The cover blob is not loaded.
func (r *ProjectRepo) FindAll(ctx context.Context) ([]models.ProjectRow, error) {
	var rows []models.ProjectRow
	err := r.db.WithContext(ctx).
		Omit("image_blob").
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

// FindByID returns a project by its ID, or nil when there is none.
func (r *ProjectRepo) FindByID(ctx context.Context, id string) (*models.ProjectRow, error) {
	var row models.ProjectRow
	err := r.db.WithContext(ctx).
		Omit("image_blob").
		Where("id = ?", id).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// Exists reports whether a row with id is present.
func (r *ProjectRepo) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ProjectRow{}).
		Where("id = ?", id).
		Count(&count).Error
	return count > 0, err
}

// FindImage returns the stored cover of a project, or nil when the project
// does not exist.
func (r *ProjectRepo) FindImage(ctx context.Context, id string) (*models.ProjectImage, error) {
	var image models.ProjectImage
	err := r.db.WithContext(ctx).
		Model(&models.ProjectRow{}).
		Select("image_blob", "image_mime").
		Where("id = ?", id).
		Take(&image).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &image, nil
}

// seededColumns are overwritten when a seeded project already exists.
// Translation columns belong to the publisher and are left alone.
var seededColumns = []string{
	"title", "short_description", "image", "image_mime", "image_blob",
	"tags", "markdown", "github", "demo", "features", "featured",
}

// Upsert inserts a project or refreshes its base columns.
func (r *ProjectRepo) Upsert(ctx context.Context, row *models.ProjectRow) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns(seededColumns),
		}).
		Create(row).Error
}

// Translations is the set of columns a content publish rewrites.
type Translations struct {
	Markdown           string
	MarkdownIt         *string
	ShortDescriptionIt *string
	FeaturesIt         []string
}

// UpdateTranslations rewrites the markdown and Italian columns of an existing
// project. Absent Italian values are stored as NULL.
func (r *ProjectRepo) UpdateTranslations(ctx context.Context, id string, t Translations) error {
	var featuresIt any
	if len(t.FeaturesIt) > 0 {
		featuresIt = datatypes.JSONSlice[string](t.FeaturesIt)
	}

	res := r.db.WithContext(ctx).
		Model(&models.ProjectRow{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"markdown":             t.Markdown,
			"markdown_it":          t.MarkdownIt,
			"short_description_it": t.ShortDescriptionIt,
			"features_it":          featuresIt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errs.NewNotFound("project " + id)
	}
	return nil
}

// UpdateMarkdown rewrites only the markdown columns.
func (r *ProjectRepo) UpdateMarkdown(ctx context.Context, id string, markdown string, markdownIt *string) error {
	res := r.db.WithContext(ctx).
		Model(&models.ProjectRow{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"markdown":    markdown,
			"markdown_it": markdownIt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errs.NewNotFound("project " + id)
	}
	return nil
}

// Delete removes a project from the database by id
func (r *ProjectRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.ProjectRow{}).Error
}
