package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"quickmoney-backend/internal/dto"
	"quickmoney-backend/internal/model"
	"quickmoney-backend/internal/repository"
)

const minWithdrawalAmount = 100

type WithdrawalService interface {
	Request(ctx context.Context, userID string, req *dto.WithdrawalRequest) (*model.Withdrawal, error)
	ListByUser(ctx context.Context, userID string) ([]*model.Withdrawal, error)
	ListAll(ctx context.Context) ([]*model.Withdrawal, error)
	Process(ctx context.Context, withdrawalID, status string) error
}

type withdrawalServiceImpl struct {
	db             *gorm.DB
	withdrawalRepo repository.WithdrawalRepository
	userRepo       repository.UserRepository
}

func NewWithdrawalService(
	db *gorm.DB,
	withdrawalRepo repository.WithdrawalRepository,
	userRepo repository.UserRepository,
) WithdrawalService {
	return &withdrawalServiceImpl{
		db:             db,
		withdrawalRepo: withdrawalRepo,
		userRepo:       userRepo,
	}
}

// Request debits the withdrawable balance immediately and files a pending
// withdrawal; the debit and the insert happen in one transaction so a failed
// insert cannot strand the user's money.
func (s *withdrawalServiceImpl) Request(ctx context.Context, userID string, req *dto.WithdrawalRequest) (*model.Withdrawal, error) {
	if req.Amount < minWithdrawalAmount {
		return nil, fmt.Errorf("%w: minimum is %d", ErrBelowMinimumWithdrawal, minWithdrawalAmount)
	}
	if req.Method != "bank" && req.Method != "upi" {
		return nil, fmt.Errorf("%w: unknown method %q", ErrInvalidStatus, req.Method)
	}

	details, err := json.Marshal(req.AccountDetails)
	if err != nil {
		return nil, fmt.Errorf("marshal account details: %w", err)
	}

	withdrawal := &model.Withdrawal{
		ID:             uuid.NewString(),
		UserID:         userID,
		Amount:         req.Amount,
		Method:         req.Method,
		AccountDetails: string(details),
		Status:         model.WithdrawalPending,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		debited, err := s.userRepo.DebitBalance(ctx, tx, userID, req.Amount)
		if err != nil {
			return fmt.Errorf("debit balance: %w", err)
		}
		if !debited {
			return ErrInsufficientBalance
		}

		return s.withdrawalRepo.Create(ctx, tx, withdrawal)
	})
	if err != nil {
		return nil, err
	}

	return withdrawal, nil
}

func (s *withdrawalServiceImpl) ListByUser(ctx context.Context, userID string) ([]*model.Withdrawal, error) {
	return s.withdrawalRepo.ListByUser(ctx, userID)
}

func (s *withdrawalServiceImpl) ListAll(ctx context.Context) ([]*model.Withdrawal, error) {
	return s.withdrawalRepo.ListAll(ctx)
}

// Process settles a pending withdrawal. A rejection refunds the amount that
// was debited when the request was filed.
func (s *withdrawalServiceImpl) Process(ctx context.Context, withdrawalID, status string) error {
	if status != model.WithdrawalApproved && status != model.WithdrawalRejected {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	withdrawal, err := s.withdrawalRepo.FindByID(ctx, withdrawalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrWithdrawalNotFound
		}
		return fmt.Errorf("load withdrawal: %w", err)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		processed, err := s.withdrawalRepo.MarkProcessed(ctx, tx, withdrawal.ID, status)
		if err != nil {
			return fmt.Errorf("update withdrawal status: %w", err)
		}
		if !processed {
			return ErrAlreadyProcessed
		}

		if status == model.WithdrawalRejected {
			if err := s.userRepo.RefundBalance(ctx, tx, withdrawal.UserID, withdrawal.Amount); err != nil {
				return fmt.Errorf("refund balance: %w", err)
			}
		}
		return nil
	})
}
