package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"quickmoney-backend/internal/dto"
	"quickmoney-backend/internal/model"
	"quickmoney-backend/internal/registry"
	"quickmoney-backend/internal/repository"
)

// Half of the card price goes to the referrer when the purchase is approved.
const commissionRate = 0.5

type PurchaseService interface {
	Submit(ctx context.Context, userID string, req *dto.SubmitPurchaseRequest) (*dto.SubmitPurchaseResponse, error)
	ListByUser(ctx context.Context, userID string) ([]*model.Purchase, error)
	ListAll(ctx context.Context) ([]*model.Purchase, error)
	Stats(ctx context.Context) (*dto.PurchaseStats, error)
}

type purchaseServiceImpl struct {
	db           *gorm.DB
	purchaseRepo repository.PurchaseRepository
	cardRepo     repository.CardRepository
	userRepo     repository.UserRepository
}

func NewPurchaseService(
	db *gorm.DB,
	purchaseRepo repository.PurchaseRepository,
	cardRepo repository.CardRepository,
	userRepo repository.UserRepository,
) PurchaseService {
	return &purchaseServiceImpl{
		db:           db,
		purchaseRepo: purchaseRepo,
		cardRepo:     cardRepo,
		userRepo:     userRepo,
	}
}

// Submit records a pending purchase for a manual transfer: the amount and
// referral commission are snapshotted from the card and buyer at this moment,
// and the screenshot path is attached for verification.
func (s *purchaseServiceImpl) Submit(ctx context.Context, userID string, req *dto.SubmitPurchaseRequest) (*dto.SubmitPurchaseResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	if user.IsBanned {
		return nil, ErrUserBanned
	}

	card, err := s.cardRepo.FindByID(ctx, req.CardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCardNotFound
		}
		return nil, fmt.Errorf("load card: %w", err)
	}
	if !card.IsActive {
		return nil, ErrCardInactive
	}

	open, err := s.purchaseRepo.HasOpenOrApproved(ctx, userID, card.ID)
	if err != nil {
		return nil, fmt.Errorf("check existing purchases: %w", err)
	}
	if open {
		return nil, ErrAlreadyPurchased
	}

	purchase := &model.Purchase{
		ID:                   uuid.NewString(),
		UserID:               user.ID,
		CardID:               card.ID,
		Amount:               card.Price,
		PaymentScreenshotURL: req.ScreenshotPath,
		PaymentMethod:        "manual",
		VerificationStatus:   model.VerificationPending,
	}

	if user.ReferredBy != nil {
		purchase.ReferrerID = user.ReferredBy
		purchase.CommissionToReferrer = card.Price * commissionRate
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.purchaseRepo.Create(ctx, tx, purchase)
	})
	if err != nil {
		return nil, fmt.Errorf("store purchase: %w", err)
	}

	return &dto.SubmitPurchaseResponse{
		PurchaseID:     purchase.ID,
		ExpectedAmount: registry.ExpectedAmount(card.Price),
		Status:         purchase.VerificationStatus,
	}, nil
}

func (s *purchaseServiceImpl) ListByUser(ctx context.Context, userID string) ([]*model.Purchase, error) {
	return s.purchaseRepo.ListByUser(ctx, userID)
}

func (s *purchaseServiceImpl) ListAll(ctx context.Context) ([]*model.Purchase, error) {
	return s.purchaseRepo.ListAll(ctx)
}

func (s *purchaseServiceImpl) Stats(ctx context.Context) (*dto.PurchaseStats, error) {
	purchases, err := s.purchaseRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}

	stats := &dto.PurchaseStats{Total: int64(len(purchases))}
	for _, p := range purchases {
		stats.TotalAmount += p.Amount
		stats.TotalCommission += p.CommissionToReferrer
	}

	return stats, nil
}
