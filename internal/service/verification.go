package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"quickmoney-backend/internal/client"
	"quickmoney-backend/internal/dto"
	"quickmoney-backend/internal/model"
	"quickmoney-backend/internal/registry"
	"quickmoney-backend/internal/repository"
	"quickmoney-backend/internal/verification"
)

type VerificationService interface {
	Verify(ctx context.Context, req *dto.VerifyRequest) (*dto.VerifyResponse, error)
	Override(ctx context.Context, purchaseID, status string) error
}

type verificationServiceImpl struct {
	db           *gorm.DB
	vision       client.VisionClient
	reg          *registry.Registry
	purchaseRepo repository.PurchaseRepository
	userRepo     repository.UserRepository
	earningRepo  repository.EarningRepository
	logger       *zap.Logger
}

func NewVerificationService(
	db *gorm.DB,
	vision client.VisionClient,
	reg *registry.Registry,
	purchaseRepo repository.PurchaseRepository,
	userRepo repository.UserRepository,
	earningRepo repository.EarningRepository,
	logger *zap.Logger,
) VerificationService {
	return &verificationServiceImpl{
		db:           db,
		vision:       vision,
		reg:          reg,
		purchaseRepo: purchaseRepo,
		userRepo:     userRepo,
		earningRepo:  earningRepo,
		logger:       logger,
	}
}

// Verify runs the automatic verification flow for one purchase: extract
// (amount, card name) from the screenshot, decide, and transition the
// purchase out of pending. A classifier failure leaves the purchase pending
// and surfaces ErrVerificationInconclusive so the caller reports manual
// review instead of a terminal outcome. The decision is only reported after
// the status write succeeded.
func (s *verificationServiceImpl) Verify(ctx context.Context, req *dto.VerifyRequest) (*dto.VerifyResponse, error) {
	purchase, err := s.purchaseRepo.FindByID(ctx, req.PurchaseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPurchaseNotFound
		}
		return nil, fmt.Errorf("load purchase: %w", err)
	}

	extraction, err := s.vision.ExtractPayment(ctx, req.ScreenshotURL)
	if err != nil {
		if errors.Is(err, client.ErrClassifierUnavailable) || errors.Is(err, client.ErrBadExtraction) {
			s.logger.Warn("screenshot classification failed, purchase left pending",
				zap.String("purchase_id", purchase.ID),
				zap.Error(err),
			)
			return nil, fmt.Errorf("%w: %v", ErrVerificationInconclusive, err)
		}
		return nil, fmt.Errorf("classify screenshot: %w", err)
	}

	decision := verification.Decide(s.reg, extraction.Amount, extraction.CardName, req.CardTitle)

	s.logger.Info("verification decision",
		zap.String("purchase_id", purchase.ID),
		zap.String("extracted_amount", extraction.Amount),
		zap.String("extracted_card", extraction.CardName),
		zap.String("status", decision.Status),
	)

	transitioned := false
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		transitioned, err = s.purchaseRepo.MarkVerified(ctx, tx, purchase.ID, decision.Status)
		if err != nil {
			return fmt.Errorf("update verification status: %w", err)
		}

		if transitioned && decision.Approved {
			return s.creditReferrer(ctx, tx, purchase)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	status := decision.Status
	verified := decision.Approved
	if !transitioned {
		// Another invocation already settled this purchase; report the
		// stored state instead of pretending this run transitioned it.
		stored, err := s.purchaseRepo.FindByID(ctx, purchase.ID)
		if err != nil {
			return nil, fmt.Errorf("reload purchase: %w", err)
		}
		status = stored.VerificationStatus
		verified = stored.VerificationStatus == model.VerificationApproved
	}

	expectedCard, _ := s.reg.CardFor(req.ExpectedAmount)

	return &dto.VerifyResponse{
		Success:  true,
		Verified: verified,
		Status:   status,
		Message:  decision.Message,
		Details: &dto.VerifyDetails{
			ExtractedAmount:   extraction.Amount,
			ExtractedCardName: extraction.CardName,
			ExpectedAmount:    req.ExpectedAmount,
			ExpectedCardName:  expectedCard,
		},
	}, nil
}

// Override is the admin manual path: authoritative regardless of the current
// status. An override to approved still credits the referrer at most once.
func (s *verificationServiceImpl) Override(ctx context.Context, purchaseID, status string) error {
	if status != model.VerificationApproved && status != model.VerificationRejected {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	purchase, err := s.purchaseRepo.FindByID(ctx, purchaseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPurchaseNotFound
		}
		return fmt.Errorf("load purchase: %w", err)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		changed, err := s.purchaseRepo.ForceStatus(ctx, tx, purchase.ID, status)
		if err != nil {
			return fmt.Errorf("force verification status: %w", err)
		}

		if changed && status == model.VerificationApproved {
			credited, err := s.earningRepo.ExistsForPurchase(ctx, purchase.ID)
			if err != nil {
				return fmt.Errorf("check prior credit: %w", err)
			}
			if !credited {
				return s.creditReferrer(ctx, tx, purchase)
			}
		}
		return nil
	})
}

// creditReferrer applies the commission snapshotted at purchase creation to
// the referrer's lifetime earnings and withdrawable balance, and records the
// earning row. The earning's unique purchase_id index backstops the
// at-most-once guarantee.
func (s *verificationServiceImpl) creditReferrer(ctx context.Context, tx *gorm.DB, purchase *model.Purchase) error {
	if purchase.ReferrerID == nil || purchase.CommissionToReferrer <= 0 {
		return nil
	}

	if err := s.userRepo.CreditCommission(ctx, tx, *purchase.ReferrerID, purchase.CommissionToReferrer); err != nil {
		return fmt.Errorf("credit referrer: %w", err)
	}

	if err := s.earningRepo.Create(ctx, tx, &model.Earning{
		ID:         uuid.NewString(),
		UserID:     *purchase.ReferrerID,
		FromUserID: purchase.UserID,
		PurchaseID: purchase.ID,
		Amount:     purchase.CommissionToReferrer,
	}); err != nil {
		return fmt.Errorf("record earning: %w", err)
	}

	s.logger.Info("referral commission credited",
		zap.String("purchase_id", purchase.ID),
		zap.String("referrer_id", *purchase.ReferrerID),
		zap.Float64("amount", purchase.CommissionToReferrer),
	)

	return nil
}
