package repository

import (
	"context"

	"gorm.io/gorm"

	"leadsmanager/internal/model"
)

// LeadRepository defines lead persistence operations.
//
// FindByIDAndOwner is the single ownership-checked lookup: it filters by both
// lead id and owner id, so a lead belonging to another user is
// indistinguishable from one that does not exist. Every read or mutation of an
// existing lead must resolve the record through it.
type LeadRepository interface {
	Create(ctx context.Context, lead *model.Lead) error
	ListByOwner(ctx context.Context, ownerID uint) ([]model.Lead, error)
	FindByIDAndOwner(ctx context.Context, id, ownerID uint) (*model.Lead, error)
	Update(ctx context.Context, lead *model.Lead) error
	Delete(ctx context.Context, lead *model.Lead) error
}

type leadRepository struct {
	db *gorm.DB
}

// NewLeadRepository builds a GORM-backed repository.
func NewLeadRepository(db *gorm.DB) LeadRepository {
	return &leadRepository{db: db}
}

func (r *leadRepository) Create(ctx context.Context, lead *model.Lead) error {
	return r.db.WithContext(ctx).Create(lead).Error
}

func (r *leadRepository) ListByOwner(ctx context.Context, ownerID uint) ([]model.Lead, error) {
	var leads []model.Lead
	if err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Find(&leads).Error; err != nil {
		return nil, err
	}
	return leads, nil
}

func (r *leadRepository) FindByIDAndOwner(ctx context.Context, id, ownerID uint) (*model.Lead, error) {
	var lead model.Lead
	if err := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&lead).Error; err != nil {
		return nil, err
	}
	return &lead, nil
}

func (r *leadRepository) Update(ctx context.Context, lead *model.Lead) error {
	return r.db.WithContext(ctx).Save(lead).Error
}

func (r *leadRepository) Delete(ctx context.Context, lead *model.Lead) error {
	return r.db.WithContext(ctx).Delete(lead).Error
}
