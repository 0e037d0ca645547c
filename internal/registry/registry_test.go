package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"quickmoney-backend/internal/model"
)

func catalogFixture() []*model.Card {
	return []*model.Card{
		{Title: "Starter Card", Price: 100},
		{Title: "Silver Card", Price: 200},
		{Title: "Gold Card", Price: 300},
		{Title: "Premium Card", Price: 400},
		{Title: "Platinum Card", Price: 500},
	}
}

func TestExpectedAmountFormatting(t *testing.T) {
	tests := []struct {
		price float64
		want  string
	}{
		{100, "100.01"},
		{200, "200.01"},
		{500, "500.01"},
		{99.99, "100.00"},
		{0.5, "0.51"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ExpectedAmount(tt.price))
	}
}

func TestRegistryLookup(t *testing.T) {
	reg := New(catalogFixture())

	assert.True(t, reg.IsValidAmount("100.01"))
	assert.True(t, reg.IsValidAmount("500.01"))
	assert.False(t, reg.IsValidAmount("250.01"))
	assert.False(t, reg.IsValidAmount("100.010")) // string equality, no tolerance
	assert.False(t, reg.IsValidAmount("not_found"))

	title, err := reg.CardFor("300.01")
	require.NoError(t, err)
	assert.Equal(t, "Gold Card", title)

	_, err = reg.CardFor("123.45")
	assert.ErrorIs(t, err, ErrUnknownAmount)
}

func TestRegistryRoundTrip(t *testing.T) {
	cards := catalogFixture()
	reg := New(cards)

	// Every catalog price must map back to its own title through the
	// formatted amount.
	for _, card := range cards {
		title, err := reg.CardFor(ExpectedAmount(card.Price))
		require.NoError(t, err)
		assert.Equal(t, card.Title, title)
	}

	assert.Equal(t, []string{"Starter Card", "Silver Card", "Gold Card", "Premium Card", "Platinum Card"}, reg.Titles())
}
