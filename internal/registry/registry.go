package registry

import (
	"fmt"

	"github.com/shopspring/decimal"
	"quickmoney-backend/internal/model"
)

// VerificationFee is added on top of every card price so the transferred
// amount is distinguishable from round-number coincidental payments. It is a
// weak anti-spoofing fingerprint, not a security measure.
const VerificationFee = "0.01"

var ErrUnknownAmount = fmt.Errorf("amount not in registry")

// Registry maps every supported payment amount (card price + verification
// fee, formatted to exactly two decimals) to the one card title it belongs
// to. It is built once at startup from the catalog and never mutated.
type Registry struct {
	amountToTitle map[string]string
	titles        []string
}

// ExpectedAmount returns the amount a buyer must transfer for the given card
// price. Comparison against extracted amounts is string equality on this
// exact formatting, with no numeric tolerance.
func ExpectedAmount(price float64) string {
	fee, _ := decimal.NewFromString(VerificationFee)
	return decimal.NewFromFloat(price).Add(fee).StringFixed(2)
}

func New(cards []*model.Card) *Registry {
	r := &Registry{
		amountToTitle: make(map[string]string, len(cards)),
		titles:        make([]string, 0, len(cards)),
	}
	for _, card := range cards {
		r.amountToTitle[ExpectedAmount(card.Price)] = card.Title
		r.titles = append(r.titles, card.Title)
	}
	return r
}

func (r *Registry) IsValidAmount(amount string) bool {
	_, ok := r.amountToTitle[amount]
	return ok
}

// CardFor returns the card title registered for the amount, or
// ErrUnknownAmount if the amount is not a registry key.
func (r *Registry) CardFor(amount string) (string, error) {
	title, ok := r.amountToTitle[amount]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownAmount, amount)
	}
	return title, nil
}

// Titles returns the card titles in catalog order, for building the
// classifier prompt's closed set.
func (r *Registry) Titles() []string {
	return r.titles
}
