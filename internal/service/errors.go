package service

import "errors"

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserBanned         = errors.New("account is banned")
	ErrUserNotFound       = errors.New("user not found")

	ErrCardNotFound     = errors.New("card not found")
	ErrCardInactive     = errors.New("card is not available")
	ErrAlreadyPurchased = errors.New("card already purchased or pending verification")

	ErrPurchaseNotFound = errors.New("purchase not found")

	// ErrVerificationInconclusive means the classifier could not produce a
	// usable extraction; the purchase stays pending for manual admin review.
	ErrVerificationInconclusive = errors.New("verification inconclusive, pending manual review")

	ErrWithdrawalNotFound     = errors.New("withdrawal not found")
	ErrInsufficientBalance    = errors.New("insufficient withdrawable balance")
	ErrBelowMinimumWithdrawal = errors.New("amount below minimum withdrawal")
	ErrAlreadyProcessed       = errors.New("request already processed")

	ErrInvalidStatus = errors.New("invalid status")
)
