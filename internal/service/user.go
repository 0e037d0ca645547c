package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"quickmoney-backend/internal/dto"
	"quickmoney-backend/internal/model"
	"quickmoney-backend/internal/repository"
)

type UserService interface {
	Profile(ctx context.Context, userID string) (*dto.ProfileResponse, error)
	Analytics(ctx context.Context, userID string) (*dto.AnalyticsResponse, error)
	ListAll(ctx context.Context) ([]*model.User, error)
	SetBanned(ctx context.Context, userID string, banned bool) error
}

type userServiceImpl struct {
	userRepo     repository.UserRepository
	purchaseRepo repository.PurchaseRepository
	earningRepo  repository.EarningRepository
}

func NewUserService(
	userRepo repository.UserRepository,
	purchaseRepo repository.PurchaseRepository,
	earningRepo repository.EarningRepository,
) UserService {
	return &userServiceImpl{
		userRepo:     userRepo,
		purchaseRepo: purchaseRepo,
		earningRepo:  earningRepo,
	}
}

// Profile returns the user's own view. The referral code is only usable
// ("unlocked") once the user has at least one approved purchase.
func (s *userServiceImpl) Profile(ctx context.Context, userID string) (*dto.ProfileResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("load user: %w", err)
	}

	unlocked, err := s.purchaseRepo.HasApproved(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("check purchases: %w", err)
	}

	return &dto.ProfileResponse{
		ID:                  user.ID,
		Email:               user.Email,
		Username:            user.Username,
		ReferralCode:        user.ReferralCode,
		ReferralUnlocked:    unlocked,
		TotalEarnings:       user.TotalEarnings,
		WithdrawableBalance: user.WithdrawableBalance,
	}, nil
}

func (s *userServiceImpl) Analytics(ctx context.Context, userID string) (*dto.AnalyticsResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("load user: %w", err)
	}

	referrals, err := s.userRepo.CountReferredBy(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count referrals: %w", err)
	}

	referredPurchases, err := s.purchaseRepo.CountByReferrer(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count referred purchases: %w", err)
	}

	earnings, err := s.earningRepo.ListRecentByUser(ctx, userID, 10)
	if err != nil {
		return nil, fmt.Errorf("list earnings: %w", err)
	}

	entries := make([]dto.EarningEntry, len(earnings))
	for i, e := range earnings {
		entry := dto.EarningEntry{
			Amount:    e.Amount,
			CreatedAt: e.CreatedAt.Format(time.RFC3339),
		}
		if from, err := s.userRepo.FindByID(ctx, e.FromUserID); err == nil {
			entry.FromUsername = from.Username
		}
		entries[i] = entry
	}

	return &dto.AnalyticsResponse{
		TotalReferrals:    referrals,
		ReferredPurchases: referredPurchases,
		TotalEarnings:     user.TotalEarnings,
		RecentEarnings:    entries,
	}, nil
}

func (s *userServiceImpl) ListAll(ctx context.Context) ([]*model.User, error) {
	return s.userRepo.ListAll(ctx)
}

func (s *userServiceImpl) SetBanned(ctx context.Context, userID string, banned bool) error {
	err := s.userRepo.SetBanned(ctx, userID, banned)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrUserNotFound
	}
	return err
}
