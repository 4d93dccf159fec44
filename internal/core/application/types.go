package application

import (
	"time"

	"github.com/vinylmint/vinyld/internal/core/domain"
)

// AssetInfo is an asset snapshot enriched with read-time auction state. Split
// is set only on responses to ownership-transferring commands.
type AssetInfo struct {
	domain.Asset
	AuctionStatus domain.AuctionStatus `json:"auctionStatus,omitempty"`
	Countdown     string               `json:"countdown,omitempty"`
	Split         *domain.RoyaltySplit `json:"split,omitempty"`
}

type PlaceOfferResult struct {
	Asset   *AssetInfo          `json:"asset"`
	Outcome domain.OfferOutcome `json:"outcome"`
}

func newAssetInfo(asset *domain.Asset, split *domain.RoyaltySplit, now time.Time) *AssetInfo {
	info := &AssetInfo{Asset: *asset, Split: split}
	if status, ok := asset.AuctionState(now); ok {
		info.AuctionStatus = status
		info.Countdown = domain.Countdown(*asset.Listing.EndsAt, now)
	}
	return info
}
