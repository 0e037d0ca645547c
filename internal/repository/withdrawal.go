package repository

import (
	"context"

	"gorm.io/gorm"
	"quickmoney-backend/internal/model"
)

type WithdrawalRepository interface {
	Create(ctx context.Context, tx *gorm.DB, withdrawal *model.Withdrawal) error
	FindByID(ctx context.Context, withdrawalID string) (*model.Withdrawal, error)
	ListAll(ctx context.Context) ([]*model.Withdrawal, error)
	ListByUser(ctx context.Context, userID string) ([]*model.Withdrawal, error)
	MarkProcessed(ctx context.Context, tx *gorm.DB, withdrawalID, status string) (bool, error)
}

type withdrawalRepoImpl struct {
	db *gorm.DB
}

func NewWithdrawalRepository(db *gorm.DB) WithdrawalRepository {
	return &withdrawalRepoImpl{
		db: db,
	}
}

func (r *withdrawalRepoImpl) Create(ctx context.Context, tx *gorm.DB, withdrawal *model.Withdrawal) error {
	return tx.WithContext(ctx).Create(withdrawal).Error
}

func (r *withdrawalRepoImpl) FindByID(ctx context.Context, withdrawalID string) (*model.Withdrawal, error) {
	var withdrawal model.Withdrawal
	err := r.db.WithContext(ctx).
		Where("id = ?", withdrawalID).
		First(&withdrawal).Error

	if err != nil {
		return nil, err
	}

	return &withdrawal, nil
}

func (r *withdrawalRepoImpl) ListAll(ctx context.Context) ([]*model.Withdrawal, error) {
	var withdrawals []*model.Withdrawal
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&withdrawals).Error

	if err != nil {
		return nil, err
	}

	return withdrawals, nil
}

func (r *withdrawalRepoImpl) ListByUser(ctx context.Context, userID string) ([]*model.Withdrawal, error) {
	var withdrawals []*model.Withdrawal
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&withdrawals).Error

	if err != nil {
		return nil, err
	}

	return withdrawals, nil
}

// MarkProcessed transitions a withdrawal out of pending, guarded the same
// way as purchase verification so a request is settled at most once.
func (r *withdrawalRepoImpl) MarkProcessed(ctx context.Context, tx *gorm.DB, withdrawalID, status string) (bool, error) {
	result := tx.WithContext(ctx).Model(&model.Withdrawal{}).
		Where(`
			id = ?
			AND status = ?
		`,
			withdrawalID,
			model.WithdrawalPending,
		).
		Update("status", status)

	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}
