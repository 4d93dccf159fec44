package domain

import (
	"context"
)

// AssetRepository is the Ledger Store: durable keyed storage for asset records
// and their version counters. UpdateAsset is a compare-and-swap: the given
// asset must carry exactly the stored version plus one, otherwise the write
// fails with ErrConflict and the caller retries from a fresh read.
type AssetRepository interface {
	AddAsset(ctx context.Context, asset Asset) error
	GetAsset(ctx context.Context, id string) (*Asset, error)
	UpdateAsset(ctx context.Context, asset Asset) error
	GetAssets(ctx context.Context) ([]Asset, error)
	GetAssetsByCreator(ctx context.Context, creator Principal) ([]Asset, error)
	GetListedAssets(ctx context.Context) ([]Asset, error)
	Close()
}
