// Package verification holds the payment screenshot decision procedure: the
// pure function that turns an extraction result into an approved/rejected
// outcome for a purchase.
package verification

import (
	"strings"

	"quickmoney-backend/internal/model"
	"quickmoney-backend/internal/registry"
)

const (
	MessageApproved     = "Payment verified successfully! Your referral code is now unlocked."
	ReasonInvalidAmount = "Payment not verified — invalid amount."
	ReasonCardMismatch  = "Card name or amount mismatch."
	MessageManualReview = "Screenshot could not be analyzed. Payment is pending manual review."
)

type Decision struct {
	Approved bool
	Status   string // model.VerificationApproved or model.VerificationRejected
	Message  string
}

// Decide applies the verification rules to an extracted (amount, card name)
// pair. The extracted amount must be a registry key, and the extracted card
// name must match both the card the registry binds that amount to and the
// card the user claims to have bought. The authoritative amount is the
// extracted one checked against the registry; the purchase's own expected
// amount is only echoed back to the caller, not enforced here.
//
// Deterministic and side-effect free: identical inputs always yield the same
// decision.
func Decide(reg *registry.Registry, extractedAmount, extractedCardName, selectedCardTitle string) Decision {
	if !reg.IsValidAmount(extractedAmount) {
		return Decision{
			Approved: false,
			Status:   model.VerificationRejected,
			Message:  ReasonInvalidAmount,
		}
	}

	expectedTitle, _ := reg.CardFor(extractedAmount)

	extracted := normalize(extractedCardName)
	expected := normalize(expectedTitle)
	selected := normalize(selectedCardTitle)

	if extracted == expected && extracted == selected {
		return Decision{
			Approved: true,
			Status:   model.VerificationApproved,
			Message:  MessageApproved,
		}
	}

	return Decision{
		Approved: false,
		Status:   model.VerificationRejected,
		Message:  ReasonCardMismatch,
	}
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
