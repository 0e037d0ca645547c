package repository

import (
	"context"

	"gorm.io/gorm"
	"quickmoney-backend/internal/model"
)

type PurchaseRepository interface {
	Create(ctx context.Context, tx *gorm.DB, purchase *model.Purchase) error
	FindByID(ctx context.Context, purchaseID string) (*model.Purchase, error)
	ListAll(ctx context.Context) ([]*model.Purchase, error)
	ListByUser(ctx context.Context, userID string) ([]*model.Purchase, error)
	CountByReferrer(ctx context.Context, referrerID string) (int64, error)
	HasApproved(ctx context.Context, userID string) (bool, error)
	HasOpenOrApproved(ctx context.Context, userID, cardID string) (bool, error)
	MarkVerified(ctx context.Context, tx *gorm.DB, purchaseID, status string) (bool, error)
	ForceStatus(ctx context.Context, tx *gorm.DB, purchaseID, status string) (bool, error)
}

type purchaseRepoImpl struct {
	db *gorm.DB
}

func NewPurchaseRepository(db *gorm.DB) PurchaseRepository {
	return &purchaseRepoImpl{
		db: db,
	}
}

func (r *purchaseRepoImpl) Create(ctx context.Context, tx *gorm.DB, purchase *model.Purchase) error {
	return tx.WithContext(ctx).Create(purchase).Error
}

func (r *purchaseRepoImpl) FindByID(ctx context.Context, purchaseID string) (*model.Purchase, error) {
	var purchase model.Purchase
	err := r.db.WithContext(ctx).
		Where("id = ?", purchaseID).
		First(&purchase).Error

	if err != nil {
		return nil, err
	}

	return &purchase, nil
}

func (r *purchaseRepoImpl) ListAll(ctx context.Context) ([]*model.Purchase, error) {
	var purchases []*model.Purchase
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&purchases).Error

	if err != nil {
		return nil, err
	}

	return purchases, nil
}

func (r *purchaseRepoImpl) ListByUser(ctx context.Context, userID string) ([]*model.Purchase, error) {
	var purchases []*model.Purchase
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&purchases).Error

	if err != nil {
		return nil, err
	}

	return purchases, nil
}

func (r *purchaseRepoImpl) CountByReferrer(ctx context.Context, referrerID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Purchase{}).
		Where("referrer_id = ?", referrerID).
		Count(&count).Error

	return count, err
}

func (r *purchaseRepoImpl) HasApproved(ctx context.Context, userID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Purchase{}).
		Where("user_id = ?", userID).
		Where("verification_status = ?", model.VerificationApproved).
		Count(&count).Error

	return count > 0, err
}

func (r *purchaseRepoImpl) HasOpenOrApproved(ctx context.Context, userID, cardID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Purchase{}).
		Where("user_id = ? AND card_id = ?", userID, cardID).
		Where("verification_status IN ?", []string{model.VerificationPending, model.VerificationApproved}).
		Count(&count).Error

	return count > 0, err
}

// MarkVerified transitions a purchase out of pending. The status guard makes
// the transition a compare-and-swap: two racing verifications of the same
// purchase can both compute a decision, but only one will see a row update,
// and only that one may apply the commission credit.
func (r *purchaseRepoImpl) MarkVerified(ctx context.Context, tx *gorm.DB, purchaseID, status string) (bool, error) {
	result := tx.WithContext(ctx).Model(&model.Purchase{}).
		Where(`
			id = ?
			AND verification_status = ?
		`,
			purchaseID,
			model.VerificationPending,
		).
		Update("verification_status", status)

	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

// ForceStatus is the admin override: authoritative regardless of the current
// state. Returns whether the stored status actually changed.
func (r *purchaseRepoImpl) ForceStatus(ctx context.Context, tx *gorm.DB, purchaseID, status string) (bool, error) {
	result := tx.WithContext(ctx).Model(&model.Purchase{}).
		Where("id = ? AND verification_status <> ?", purchaseID, status).
		Update("verification_status", status)

	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}
