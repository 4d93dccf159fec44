package ports

import (
	"context"
	"time"

	"github.com/vinylmint/vinyld/internal/core/domain"
)

// AuctionDisplay is the read-side auction state served to UIs: a status plus a
// pre-formatted countdown. It is derived data only, the ledger store never
// depends on it.
type AuctionDisplay struct {
	AssetID   string               `json:"assetId"`
	Status    domain.AuctionStatus `json:"status"`
	Countdown string               `json:"countdown"`
	UpdatedAt time.Time            `json:"updatedAt"`
}

type LiveStore interface {
	UpsertAuctionStatus(ctx context.Context, display AuctionDisplay) error
	GetAuctionStatus(ctx context.Context, assetID string) (*AuctionDisplay, error)
	DeleteAuctionStatus(ctx context.Context, assetID string) error
	Close()
}
