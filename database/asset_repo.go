package database

import (
	"context"
	"errors"

	"github.com/SignorelliLorenzo/portfolio/errs"
	"github.com/SignorelliLorenzo/portfolio/models"
	"gorm.io/gorm"
)

type AssetRepo struct {
	db *gorm.DB
}

func NewAssetRepo(db *gorm.DB) *AssetRepo {
	return &AssetRepo{db}
}

// FindForLocale returns the asset for projectID and slug, preferring the
// variant stored for locale over the locale-neutral one. An empty locale
// only matches locale-neutral rows. Returns nil when nothing matches.
func (r *AssetRepo) FindForLocale(ctx context.Context, projectID, slug, locale string) (*models.Asset, error) {
	q := r.db.WithContext(ctx).Where("project_id = ? AND slug = ?", projectID, slug)
	if locale == "" {
		q = q.Where("locale IS NULL")
	} else {
		q = q.Where("(locale = ? OR locale IS NULL)", locale)
	}

	var asset models.Asset
	err := q.Order("CASE WHEN locale IS NULL THEN 1 ELSE 0 END").
		Limit(1).
		Take(&asset).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &asset, nil
}

// FindByProject lists the assets of a project without their blobs.
func (r *AssetRepo) FindByProject(ctx context.Context, projectID string) ([]models.Asset, error) {
	var assets []models.Asset
	err := r.db.WithContext(ctx).
		Omit("blob").
		Where("project_id = ?", projectID).
		Order("slug, locale").
		Find(&assets).Error
	return assets, err
}

// Replace stores asset under its id, dropping whatever was there before.
func (r *AssetRepo) Replace(ctx context.Context, asset *models.Asset) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", asset.ID).Delete(&models.Asset{}).Error; err != nil {
			return err
		}
		return tx.Create(asset).Error
	})
	if err != nil {
		return errs.NewTransactionFailedError("replace asset "+asset.ID, err)
	}
	return nil
}
