package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"voting-service/internal/models"
)

type OptionRepository struct {
	db *gorm.DB
}

func NewOptionRepository(db *gorm.DB) *OptionRepository {
	return &OptionRepository{db}
}

func (r *OptionRepository) Create(ctx context.Context, option *models.VotingOption) error {
	return r.db.WithContext(ctx).Create(option).Error
}

// GetByID returns (nil, nil) when the option does not exist.
func (r *OptionRepository) GetByID(ctx context.Context, id uint) (*models.VotingOption, error) {
	var o models.VotingOption
	err := r.db.WithContext(ctx).First(&o, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OptionRepository) Update(ctx context.Context, option *models.VotingOption) error {
	return r.db.WithContext(ctx).Save(option).Error
}

func (r *OptionRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.VotingOption{}, id).Error
}

func (r *OptionRepository) ListBySession(ctx context.Context, sessionID uint) ([]models.VotingOption, error) {
	var options []models.VotingOption
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("order_index ASC, id ASC").
		Find(&options).Error
	return options, err
}
