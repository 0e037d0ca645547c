package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"quickmoney-backend/internal/client"
	"quickmoney-backend/internal/dto"
	"quickmoney-backend/internal/model"
	"quickmoney-backend/internal/repository"
	"quickmoney-backend/internal/verification"
)

type verificationFixture struct {
	db       *gorm.DB
	vision   *stubVision
	svc      VerificationService
	referrer *model.User
	buyer    *model.User
	purchase *model.Purchase
}

func newVerificationFixture(t *testing.T, vision *stubVision) *verificationFixture {
	t.Helper()

	db := newTestDB(t)

	referrer := createUser(t, db, &model.User{
		ID: "ref-1", Email: "ref@example.com", PasswordHash: "x",
		Username: "referrer", ReferralCode: "REF1",
	})
	buyer := createUser(t, db, &model.User{
		ID: "buyer-1", Email: "buyer@example.com", PasswordHash: "x",
		Username: "buyer", ReferralCode: "BUY1", ReferredBy: &referrer.ID,
	})

	purchase := &model.Purchase{
		ID: "purchase-1", UserID: buyer.ID, CardID: "card_gold",
		Amount: 300, CommissionToReferrer: 150, ReferrerID: &referrer.ID,
		PaymentMethod: "manual", VerificationStatus: model.VerificationPending,
	}
	require.NoError(t, db.Create(purchase).Error)

	svc := NewVerificationService(
		db, vision, testRegistry(),
		repository.NewPurchaseRepository(db),
		repository.NewUserRepository(db),
		repository.NewEarningRepository(db),
		zap.NewNop(),
	)

	return &verificationFixture{
		db: db, vision: vision, svc: svc,
		referrer: referrer, buyer: buyer, purchase: purchase,
	}
}

func goldVerifyRequest() *dto.VerifyRequest {
	return &dto.VerifyRequest{
		ScreenshotURL:  "https://storage.example/payment-proofs/buyer-1/proof.png",
		PurchaseID:     "purchase-1",
		CardTitle:      "Gold Card",
		ExpectedAmount: "300.01",
	}
}

func TestVerifyApprovesAndCreditsReferrer(t *testing.T) {
	f := newVerificationFixture(t, &stubVision{
		result: &client.ExtractionResult{Amount: "300.01", CardName: "Gold Card"},
	})

	resp, err := f.svc.Verify(context.Background(), goldVerifyRequest())
	require.NoError(t, err)

	assert.True(t, resp.Success)
	assert.True(t, resp.Verified)
	assert.Equal(t, model.VerificationApproved, resp.Status)
	assert.Equal(t, verification.MessageApproved, resp.Message)
	require.NotNil(t, resp.Details)
	assert.Equal(t, "300.01", resp.Details.ExtractedAmount)
	assert.Equal(t, "Gold Card", resp.Details.ExpectedCardName)

	assert.Equal(t, model.VerificationApproved, loadPurchase(t, f.db, "purchase-1").VerificationStatus)

	referrer := loadUser(t, f.db, f.referrer.ID)
	assert.Equal(t, 150.0, referrer.TotalEarnings)
	assert.Equal(t, 150.0, referrer.WithdrawableBalance)

	var earnings int64
	require.NoError(t, f.db.Model(&model.Earning{}).Where("purchase_id = ?", "purchase-1").Count(&earnings).Error)
	assert.Equal(t, int64(1), earnings)
}

func TestVerifyTwiceCreditsOnlyOnce(t *testing.T) {
	f := newVerificationFixture(t, &stubVision{
		result: &client.ExtractionResult{Amount: "300.01", CardName: "Gold Card"},
	})

	_, err := f.svc.Verify(context.Background(), goldVerifyRequest())
	require.NoError(t, err)

	resp, err := f.svc.Verify(context.Background(), goldVerifyRequest())
	require.NoError(t, err)

	// Second run reports the stored terminal state but must not re-credit.
	assert.True(t, resp.Verified)
	assert.Equal(t, model.VerificationApproved, resp.Status)
	assert.Equal(t, 150.0, loadUser(t, f.db, f.referrer.ID).WithdrawableBalance)

	var earnings int64
	require.NoError(t, f.db.Model(&model.Earning{}).Count(&earnings).Error)
	assert.Equal(t, int64(1), earnings)
}

func TestVerifyRejectsMismatchWithoutCredit(t *testing.T) {
	f := newVerificationFixture(t, &stubVision{
		result: &client.ExtractionResult{Amount: "300.01", CardName: "Silver Card"},
	})

	resp, err := f.svc.Verify(context.Background(), goldVerifyRequest())
	require.NoError(t, err)

	assert.False(t, resp.Verified)
	assert.Equal(t, model.VerificationRejected, resp.Status)
	assert.Equal(t, verification.ReasonCardMismatch, resp.Message)

	assert.Equal(t, model.VerificationRejected, loadPurchase(t, f.db, "purchase-1").VerificationStatus)
	assert.Equal(t, 0.0, loadUser(t, f.db, f.referrer.ID).WithdrawableBalance)
}

func TestVerifyRejectsUnreadableScreenshot(t *testing.T) {
	f := newVerificationFixture(t, &stubVision{
		result: &client.ExtractionResult{Amount: client.NotFound, CardName: client.NotFound},
	})

	resp, err := f.svc.Verify(context.Background(), goldVerifyRequest())
	require.NoError(t, err)

	assert.False(t, resp.Verified)
	assert.Equal(t, verification.ReasonInvalidAmount, resp.Message)
	assert.Equal(t, model.VerificationRejected, loadPurchase(t, f.db, "purchase-1").VerificationStatus)
}

func TestVerifyClassifierUnavailableLeavesPending(t *testing.T) {
	f := newVerificationFixture(t, &stubVision{err: client.ErrClassifierUnavailable})

	_, err := f.svc.Verify(context.Background(), goldVerifyRequest())

	assert.ErrorIs(t, err, ErrVerificationInconclusive)
	assert.Equal(t, model.VerificationPending, loadPurchase(t, f.db, "purchase-1").VerificationStatus)
	assert.Equal(t, 0.0, loadUser(t, f.db, f.referrer.ID).WithdrawableBalance)
}

func TestVerifyBadExtractionLeavesPending(t *testing.T) {
	f := newVerificationFixture(t, &stubVision{err: client.ErrBadExtraction})

	_, err := f.svc.Verify(context.Background(), goldVerifyRequest())

	assert.ErrorIs(t, err, ErrVerificationInconclusive)
	assert.Equal(t, model.VerificationPending, loadPurchase(t, f.db, "purchase-1").VerificationStatus)
}

func TestVerifyUnknownPurchase(t *testing.T) {
	f := newVerificationFixture(t, &stubVision{
		result: &client.ExtractionResult{Amount: "300.01", CardName: "Gold Card"},
	})

	req := goldVerifyRequest()
	req.PurchaseID = "missing"

	_, err := f.svc.Verify(context.Background(), req)
	assert.ErrorIs(t, err, ErrPurchaseNotFound)
	// The classifier must not be called for a purchase that does not exist.
	assert.Equal(t, 0, f.vision.calls)
}

func TestOverrideApprovesAndCreditsOnce(t *testing.T) {
	f := newVerificationFixture(t, &stubVision{})

	require.NoError(t, f.svc.Override(context.Background(), "purchase-1", model.VerificationApproved))

	assert.Equal(t, model.VerificationApproved, loadPurchase(t, f.db, "purchase-1").VerificationStatus)
	assert.Equal(t, 150.0, loadUser(t, f.db, f.referrer.ID).WithdrawableBalance)

	// Repeating the same override is a no-op.
	require.NoError(t, f.svc.Override(context.Background(), "purchase-1", model.VerificationApproved))
	assert.Equal(t, 150.0, loadUser(t, f.db, f.referrer.ID).WithdrawableBalance)
}

func TestOverrideFlipFlopDoesNotDoubleCredit(t *testing.T) {
	f := newVerificationFixture(t, &stubVision{})

	ctx := context.Background()
	require.NoError(t, f.svc.Override(ctx, "purchase-1", model.VerificationApproved))
	require.NoError(t, f.svc.Override(ctx, "purchase-1", model.VerificationRejected))
	require.NoError(t, f.svc.Override(ctx, "purchase-1", model.VerificationApproved))

	// The earning row for the purchase already exists, so re-approval does
	// not credit again.
	assert.Equal(t, 150.0, loadUser(t, f.db, f.referrer.ID).WithdrawableBalance)
}

func TestOverrideRejectsInvalidStatus(t *testing.T) {
	f := newVerificationFixture(t, &stubVision{})

	err := f.svc.Override(context.Background(), "purchase-1", "paid")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestVerifyWithoutReferrerCreditsNobody(t *testing.T) {
	db := newTestDB(t)
	createUser(t, db, &model.User{
		ID: "solo-1", Email: "solo@example.com", PasswordHash: "x",
		Username: "solo", ReferralCode: "SOLO",
	})
	require.NoError(t, db.Create(&model.Purchase{
		ID: "purchase-solo", UserID: "solo-1", CardID: "card_starter",
		Amount: 100, PaymentMethod: "manual",
		VerificationStatus: model.VerificationPending,
	}).Error)

	svc := NewVerificationService(
		db,
		&stubVision{result: &client.ExtractionResult{Amount: "100.01", CardName: "Starter Card"}},
		testRegistry(),
		repository.NewPurchaseRepository(db),
		repository.NewUserRepository(db),
		repository.NewEarningRepository(db),
		zap.NewNop(),
	)

	resp, err := svc.Verify(context.Background(), &dto.VerifyRequest{
		ScreenshotURL:  "https://storage.example/proof.png",
		PurchaseID:     "purchase-solo",
		CardTitle:      "Starter Card",
		ExpectedAmount: "100.01",
	})
	require.NoError(t, err)

	assert.True(t, resp.Verified)

	var earnings int64
	require.NoError(t, db.Model(&model.Earning{}).Count(&earnings).Error)
	assert.Equal(t, int64(0), earnings)
}
