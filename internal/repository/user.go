package repository

import (
	"context"

	"gorm.io/gorm"
	"quickmoney-backend/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, userID string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByReferralCode(ctx context.Context, code string) (*model.User, error)
	ListAll(ctx context.Context) ([]*model.User, error)
	CountReferredBy(ctx context.Context, userID string) (int64, error)
	SetBanned(ctx context.Context, userID string, banned bool) error
	CreditCommission(ctx context.Context, tx *gorm.DB, userID string, amount float64) error
	DebitBalance(ctx context.Context, tx *gorm.DB, userID string, amount float64) (bool, error)
	RefundBalance(ctx context.Context, tx *gorm.DB, userID string, amount float64) error
}

type userRepoImpl struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepoImpl{
		db: db,
	}
}

func (r *userRepoImpl) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepoImpl) FindByID(ctx context.Context, userID string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("id = ?", userID).
		First(&user).Error

	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userRepoImpl) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&user).Error

	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userRepoImpl) FindByReferralCode(ctx context.Context, code string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("referral_code = ?", code).
		First(&user).Error

	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userRepoImpl) ListAll(ctx context.Context) ([]*model.User, error) {
	var users []*model.User
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&users).Error

	if err != nil {
		return nil, err
	}

	return users, nil
}

func (r *userRepoImpl) CountReferredBy(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Where("referred_by = ?", userID).
		Count(&count).Error

	return count, err
}

func (r *userRepoImpl) SetBanned(ctx context.Context, userID string, banned bool) error {
	result := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", userID).
		Update("is_banned", banned)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// CreditCommission adds the referral commission to both the lifetime total
// and the balance available for withdrawal.
func (r *userRepoImpl) CreditCommission(ctx context.Context, tx *gorm.DB, userID string, amount float64) error {
	result := tx.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"total_earnings":       gorm.Expr("total_earnings + ?", amount),
			"withdrawable_balance": gorm.Expr("withdrawable_balance + ?", amount),
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// DebitBalance withdraws from the balance only if it covers the amount;
// returns false when it does not.
func (r *userRepoImpl) DebitBalance(ctx context.Context, tx *gorm.DB, userID string, amount float64) (bool, error) {
	result := tx.WithContext(ctx).Model(&model.User{}).
		Where("id = ? AND withdrawable_balance >= ?", userID, amount).
		Update("withdrawable_balance", gorm.Expr("withdrawable_balance - ?", amount))

	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

func (r *userRepoImpl) RefundBalance(ctx context.Context, tx *gorm.DB, userID string, amount float64) error {
	return tx.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", userID).
		Update("withdrawable_balance", gorm.Expr("withdrawable_balance + ?", amount)).Error
}
