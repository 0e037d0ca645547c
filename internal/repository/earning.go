package repository

import (
	"context"

	"gorm.io/gorm"
	"quickmoney-backend/internal/model"
)

type EarningRepository interface {
	Create(ctx context.Context, tx *gorm.DB, earning *model.Earning) error
	ExistsForPurchase(ctx context.Context, purchaseID string) (bool, error)
	ListRecentByUser(ctx context.Context, userID string, limit int) ([]*model.Earning, error)
}

type earningRepoImpl struct {
	db *gorm.DB
}

func NewEarningRepository(db *gorm.DB) EarningRepository {
	return &earningRepoImpl{
		db: db,
	}
}

func (r *earningRepoImpl) Create(ctx context.Context, tx *gorm.DB, earning *model.Earning) error {
	return tx.WithContext(ctx).Create(earning).Error
}

func (r *earningRepoImpl) ExistsForPurchase(ctx context.Context, purchaseID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Earning{}).
		Where("purchase_id = ?", purchaseID).
		Count(&count).Error

	return count > 0, err
}

func (r *earningRepoImpl) ListRecentByUser(ctx context.Context, userID string, limit int) ([]*model.Earning, error) {
	var earnings []*model.Earning
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&earnings).Error

	if err != nil {
		return nil, err
	}

	return earnings, nil
}
