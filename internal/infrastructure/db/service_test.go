package db_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/vinylmint/vinyld/internal/core/domain"
	"github.com/vinylmint/vinyld/internal/core/ports"
	"github.com/vinylmint/vinyld/internal/infrastructure/db"
)

func TestAssetRepository(t *testing.T) {
	tests := []struct {
		name   string
		config func(t *testing.T) db.ServiceConfig
	}{
		{
			name: "badger",
			config: func(t *testing.T) db.ServiceConfig {
				return db.ServiceConfig{
					DataStoreType:   "badger",
					DataStoreConfig: []interface{}{"", nil},
				}
			},
		},
		{
			name: "sqlite",
			config: func(t *testing.T) db.ServiceConfig {
				return db.ServiceConfig{
					DataStoreType:   "sqlite",
					DataStoreConfig: []interface{}{t.TempDir()},
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := db.NewService(tt.config(t))
			require.NoError(t, err)
			t.Cleanup(svc.Close)

			testAddAndGetAsset(t, svc)
			testUpdateAsset(t, svc)
			testConcurrentUpdateConflict(t, svc)
			testQueries(t, svc)
		})
	}
}

func newAsset(t *testing.T, creator domain.Principal) *domain.Asset {
	t.Helper()

	asset, err := domain.NewAsset(
		"track-001", creator, domain.EditionUnique, 10,
		decimal.RequireFromString("100"), time.Now(),
	)
	require.NoError(t, err)
	return asset
}

func testAddAndGetAsset(t *testing.T, svc ports.RepoManager) {
	ctx := context.Background()
	repo := svc.Assets()

	asset := newAsset(t, "alice")
	require.NoError(t, repo.AddAsset(ctx, *asset))

	got, err := repo.GetAsset(ctx, asset.ID)
	require.NoError(t, err)
	require.Equal(t, asset.ID, got.ID)
	require.Equal(t, asset.Owner, got.Owner)
	require.Equal(t, uint64(1), got.Version)
	require.True(t, got.Price.Equal(asset.Price))
	require.Len(t, got.History, 1)
	require.NotNil(t, got.Offers)

	_, err = repo.GetAsset(ctx, "missing")
	require.ErrorIs(t, err, domain.ErrAssetNotFound)

	err = repo.AddAsset(ctx, *asset)
	require.Error(t, err)
}

func testUpdateAsset(t *testing.T, svc ports.RepoManager) {
	ctx := context.Background()
	repo := svc.Assets()

	asset := newAsset(t, "alice")
	require.NoError(t, repo.AddAsset(ctx, *asset))

	require.NoError(t, asset.List(
		"alice", domain.ListingKindFixed, decimal.RequireFromString("150"), 0, time.Now(),
	))
	asset.Version++
	require.NoError(t, repo.UpdateAsset(ctx, *asset))

	got, err := repo.GetAsset(ctx, asset.ID)
	require.NoError(t, err)
	require.Equal(t, uint64(2), got.Version)
	require.NotNil(t, got.Listing)
	require.True(t, got.Listing.Price.Equal(decimal.RequireFromString("150")))

	missing := newAsset(t, "alice")
	missing.Version = 2
	require.ErrorIs(t, repo.UpdateAsset(ctx, *missing), domain.ErrAssetNotFound)
}

func testConcurrentUpdateConflict(t *testing.T, svc ports.RepoManager) {
	ctx := context.Background()
	repo := svc.Assets()

	asset := newAsset(t, "alice")
	require.NoError(t, repo.AddAsset(ctx, *asset))

	// Two writers read the same snapshot, only the first commit lands.
	first := *asset
	second := *asset

	first.Version++
	require.NoError(t, repo.UpdateAsset(ctx, first))

	second.Version++
	require.ErrorIs(t, repo.UpdateAsset(ctx, second), domain.ErrConflict)

	got, err := repo.GetAsset(ctx, asset.ID)
	require.NoError(t, err)
	require.Equal(t, uint64(2), got.Version)
}

func testQueries(t *testing.T, svc ports.RepoManager) {
	ctx := context.Background()
	repo := svc.Assets()

	creator := domain.Principal("query-creator")
	listedAsset := newAsset(t, creator)
	require.NoError(t, listedAsset.List(
		creator, domain.ListingKindAuction, decimal.RequireFromString("10"), time.Hour, time.Now(),
	))
	unlistedAsset := newAsset(t, creator)

	require.NoError(t, repo.AddAsset(ctx, *listedAsset))
	require.NoError(t, repo.AddAsset(ctx, *unlistedAsset))

	byCreator, err := repo.GetAssetsByCreator(ctx, creator)
	require.NoError(t, err)
	require.Len(t, byCreator, 2)

	listed, err := repo.GetListedAssets(ctx)
	require.NoError(t, err)
	listedIDs := make(map[string]struct{})
	for _, asset := range listed {
		require.NotNil(t, asset.Listing)
		listedIDs[asset.ID] = struct{}{}
	}
	require.Contains(t, listedIDs, listedAsset.ID)
	require.NotContains(t, listedIDs, unlistedAsset.ID)

	all, err := repo.GetAssets(ctx)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(all), 2)
}
