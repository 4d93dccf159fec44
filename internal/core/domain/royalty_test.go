package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		salePrice      string
		royaltyPercent int64
		fee            string
		royalty        string
		proceeds       string
	}{
		{"100", 10, "2.5", "10", "87.5"},
		{"5", 0, "0.125", "0", "4.875"},
		{"5.25", 10, "0.13125", "0.525", "4.59375"},
		{"1", 100, "0.025", "1", "-0.025"},
		{"0.01", 50, "0.00025", "0.005", "0.00475"},
	}

	for _, tt := range tests {
		split, err := Split(decimal.RequireFromString(tt.salePrice), tt.royaltyPercent)
		require.NoError(t, err)
		require.True(t, split.MarketplaceFee.Equal(decimal.RequireFromString(tt.fee)),
			"fee for %s: got %s", tt.salePrice, split.MarketplaceFee)
		require.True(t, split.CreatorRoyalty.Equal(decimal.RequireFromString(tt.royalty)),
			"royalty for %s: got %s", tt.salePrice, split.CreatorRoyalty)
		require.True(t, split.SellerProceeds.Equal(decimal.RequireFromString(tt.proceeds)),
			"proceeds for %s: got %s", tt.salePrice, split.SellerProceeds)

		// exact conservation: fee + royalty + proceeds == sale price
		sum := split.MarketplaceFee.Add(split.CreatorRoyalty).Add(split.SellerProceeds)
		require.True(t, sum.Equal(decimal.RequireFromString(tt.salePrice)))
	}
}

func TestSplitRejectsInvalidInput(t *testing.T) {
	_, err := Split(decimal.RequireFromString("100"), 101)
	require.ErrorIs(t, err, ErrInvalidRoyalty)

	_, err = Split(decimal.RequireFromString("100"), -1)
	require.ErrorIs(t, err, ErrInvalidRoyalty)

	_, err = Split(decimal.Zero, 10)
	require.ErrorIs(t, err, ErrInvalidRoyalty)

	_, err = Split(decimal.RequireFromString("-5"), 10)
	require.ErrorIs(t, err, ErrInvalidRoyalty)
}
