package application

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vinylmint/vinyld/internal/core/domain"
)

// SaleRecord is one concluded sale reconstructed from the committed history.
type SaleRecord struct {
	AssetID   string           `json:"assetId"`
	Event     domain.EventType `json:"event"`
	Seller    domain.Principal `json:"seller"`
	Buyer     domain.Principal `json:"buyer"`
	SalePrice decimal.Decimal  `json:"salePrice"`
	Split     domain.RoyaltySplit `json:"split"`
	At        time.Time        `json:"at"`
}

// CreatorRoyaltyReport aggregates a creator's earnings across every sale of
// their minted assets. It is a pure read-projection over committed history
// entries; nothing here is a second source of truth for the per-sale splits.
type CreatorRoyaltyReport struct {
	Creator      domain.Principal      `json:"creator"`
	Sales        []SaleRecord          `json:"sales"`
	TotalVolume  decimal.Decimal       `json:"totalVolume"`
	TotalRoyalty decimal.Decimal       `json:"totalRoyalty"`
	TotalFees    decimal.Decimal       `json:"totalFees"`
	Config       *domain.RoyaltyConfig `json:"royaltyConfig,omitempty"`
}

func (s *marketService) RoyaltyReport(
	ctx context.Context, creator domain.Principal,
) (*CreatorRoyaltyReport, error) {
	if err := creator.Validate(); err != nil {
		return nil, err
	}

	assets, err := s.repoManager.Assets().GetAssetsByCreator(ctx, creator)
	if err != nil {
		return nil, err
	}

	report := &CreatorRoyaltyReport{
		Creator: creator,
		Sales:   make([]SaleRecord, 0),
		Config:  s.royaltyConfig,
	}
	for _, asset := range assets {
		for _, entry := range asset.History {
			if entry.Event != domain.EventPurchased && entry.Event != domain.EventOfferAccepted {
				continue
			}
			if entry.Price == nil {
				continue
			}

			split, err := domain.Split(*entry.Price, asset.RoyaltyPercent)
			if err != nil {
				return nil, err
			}

			report.Sales = append(report.Sales, SaleRecord{
				AssetID:   asset.ID,
				Event:     entry.Event,
				Seller:    entry.From,
				Buyer:     entry.To,
				SalePrice: *entry.Price,
				Split:     split,
				At:        entry.At,
			})
			report.TotalVolume = report.TotalVolume.Add(*entry.Price)
			report.TotalRoyalty = report.TotalRoyalty.Add(split.CreatorRoyalty)
			report.TotalFees = report.TotalFees.Add(split.MarketplaceFee)
		}
	}
	return report, nil
}
