package domain

import "github.com/shopspring/decimal"

// marketplaceFeeRate is the flat platform cut taken from every completed sale.
var marketplaceFeeRate = decimal.New(25, -3)

// RoyaltySplit is how the proceeds of one sale divide between platform, creator
// and seller. The three parts always sum exactly to the sale price.
type RoyaltySplit struct {
	MarketplaceFee decimal.Decimal `json:"marketplaceFee"`
	CreatorRoyalty decimal.Decimal `json:"creatorRoyalty"`
	SellerProceeds decimal.Decimal `json:"sellerProceeds"`
}

// Split computes the fee/royalty division for a sale. The creator royalty is a
// perpetual resale right and applies on every sale, primary ones included.
func Split(salePrice decimal.Decimal, royaltyPercent int64) (RoyaltySplit, error) {
	if royaltyPercent < 0 || royaltyPercent > 100 {
		return RoyaltySplit{}, ErrInvalidRoyalty
	}
	if salePrice.Sign() <= 0 {
		return RoyaltySplit{}, ErrInvalidRoyalty
	}

	fee := salePrice.Mul(marketplaceFeeRate)
	royalty := salePrice.Mul(decimal.New(royaltyPercent, -2))
	return RoyaltySplit{
		MarketplaceFee: fee,
		CreatorRoyalty: royalty,
		SellerProceeds: salePrice.Sub(fee).Sub(royalty),
	}, nil
}

// RoyaltyConfig is the artist-level aggregate configuration used by dashboard
// reporting. It is a reporting projection input over many sales and is kept
// strictly apart from the per-asset resale royalty above.
type RoyaltyConfig struct {
	StreamingPercentage decimal.Decimal `json:"streamingPercentage"`
	NFTSaleShare        decimal.Decimal `json:"nftSaleShare"`
}
