package verification

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"quickmoney-backend/internal/model"
	"quickmoney-backend/internal/registry"
)

func testRegistry() *registry.Registry {
	return registry.New([]*model.Card{
		{Title: "Starter Card", Price: 100},
		{Title: "Silver Card", Price: 200},
		{Title: "Gold Card", Price: 300},
		{Title: "Premium Card", Price: 400},
		{Title: "Platinum Card", Price: 500},
	})
}

func TestDecideApprovedIgnoresCaseAndWhitespace(t *testing.T) {
	d := Decide(testRegistry(), "100.01", "starter card ", "Starter Card")

	assert.True(t, d.Approved)
	assert.Equal(t, model.VerificationApproved, d.Status)
	assert.Equal(t, MessageApproved, d.Message)
}

func TestDecideRejectsUnknownAmount(t *testing.T) {
	d := Decide(testRegistry(), "250.01", "Starter Card", "Starter Card")

	assert.False(t, d.Approved)
	assert.Equal(t, model.VerificationRejected, d.Status)
	assert.Equal(t, ReasonInvalidAmount, d.Message)
}

func TestDecideRejectsSelectedCardMismatch(t *testing.T) {
	// Registry says 300.01 belongs to Gold Card and the screenshot agrees,
	// but the user claims to have bought a Silver Card.
	d := Decide(testRegistry(), "300.01", "Gold Card", "Silver Card")

	assert.False(t, d.Approved)
	assert.Equal(t, ReasonCardMismatch, d.Message)
}

func TestDecideRejectsExtractedCardMismatch(t *testing.T) {
	d := Decide(testRegistry(), "300.01", "Platinum Card", "Gold Card")

	assert.False(t, d.Approved)
	assert.Equal(t, ReasonCardMismatch, d.Message)
}

func TestDecideRejectsNotFoundSentinel(t *testing.T) {
	// An unreadable screenshot yields not_found in both fields, which fails
	// the amount check.
	d := Decide(testRegistry(), "not_found", "not_found", "Starter Card")

	assert.False(t, d.Approved)
	assert.Equal(t, ReasonInvalidAmount, d.Message)
}

func TestDecideIsDeterministic(t *testing.T) {
	reg := testRegistry()

	first := Decide(reg, "400.01", "Premium Card", "premium card")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Decide(reg, "400.01", "Premium Card", "premium card"))
	}
	assert.True(t, first.Approved)
}
