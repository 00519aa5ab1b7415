package database

import (
	"context"

	"github.com/SignorelliLorenzo/portfolio/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ContactRepo struct {
	db *gorm.DB
}

func NewContactRepo(db *gorm.DB) *ContactRepo {
	return &ContactRepo{db}
}

// Add inserts a new contact request, assigning an id when it has none.
func (r *ContactRepo) Add(ctx context.Context, req *models.ContactRequest) error {
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(req).Error
}

// FindRecent returns up to limit requests, newest first.
func (r *ContactRepo) FindRecent(ctx context.Context, limit int) ([]models.ContactRequest, error) {
	var requests []models.ContactRequest
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&requests).Error
	return requests, err
}
