package badgerdb

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/timshannon/badgerhold/v4"

	"github.com/vinylmint/vinyld/internal/core/domain"
)

const assetStoreDir = "assets"

type assetRepository struct {
	store *badgerhold.Store
}

func NewAssetRepository(config ...interface{}) (domain.AssetRepository, error) {
	if len(config) != 2 {
		return nil, fmt.Errorf("invalid config")
	}
	baseDir, ok := config[0].(string)
	if !ok {
		return nil, fmt.Errorf("invalid base directory")
	}
	var logger badger.Logger
	if config[1] != nil {
		logger, ok = config[1].(badger.Logger)
		if !ok {
			return nil, fmt.Errorf("invalid logger")
		}
	}

	var dir string
	if len(baseDir) > 0 {
		dir = filepath.Join(baseDir, assetStoreDir)
	}
	store, err := createDB(dir, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open asset store: %s", err)
	}

	return &assetRepository{store}, nil
}

func (r *assetRepository) Close() {
	// nolint:all
	r.store.Close()
}

func (r *assetRepository) AddAsset(ctx context.Context, asset domain.Asset) error {
	insertFn := func() error {
		return r.store.Insert(asset.ID, asset)
	}
	if err := insertFn(); err != nil {
		if errors.Is(err, badgerhold.ErrKeyExists) {
			return fmt.Errorf("asset %s already exists", asset.ID)
		}
		if errors.Is(err, badger.ErrConflict) {
			attempts := 1
			for errors.Is(err, badger.ErrConflict) && attempts <= maxRetries {
				time.Sleep(100 * time.Millisecond)
				err = insertFn()
				attempts++
			}
		}
		return err
	}
	return nil
}

func (r *assetRepository) GetAsset(ctx context.Context, id string) (*domain.Asset, error) {
	var asset domain.Asset
	if err := r.store.Get(id, &asset); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, domain.ErrAssetNotFound
		}
		return nil, err
	}
	if asset.Offers == nil {
		asset.Offers = make(map[string]domain.Offer)
	}
	return &asset, nil
}

// UpdateAsset is the conditional commit: the write happens inside a single
// badger transaction and fails with domain.ErrConflict unless the stored
// version is exactly asset.Version-1.
func (r *assetRepository) UpdateAsset(ctx context.Context, asset domain.Asset) error {
	updateFn := func() error {
		return r.store.Badger().Update(func(txn *badger.Txn) error {
			var stored domain.Asset
			if err := r.store.TxGet(txn, asset.ID, &stored); err != nil {
				if errors.Is(err, badgerhold.ErrNotFound) {
					return domain.ErrAssetNotFound
				}
				return err
			}
			if stored.Version != asset.Version-1 {
				return domain.ErrConflict
			}
			return r.store.TxUpdate(txn, asset.ID, asset)
		})
	}

	err := updateFn()
	if errors.Is(err, badger.ErrConflict) {
		attempts := 1
		for errors.Is(err, badger.ErrConflict) && attempts <= maxRetries {
			time.Sleep(100 * time.Millisecond)
			err = updateFn()
			attempts++
		}
	}
	return err
}

func (r *assetRepository) GetAssets(ctx context.Context) ([]domain.Asset, error) {
	var assets []domain.Asset
	if err := r.store.Find(&assets, nil); err != nil {
		return nil, err
	}
	return assets, nil
}

func (r *assetRepository) GetAssetsByCreator(
	ctx context.Context, creator domain.Principal,
) ([]domain.Asset, error) {
	var assets []domain.Asset
	if err := r.store.Find(&assets, badgerhold.Where("Creator").Eq(creator)); err != nil {
		return nil, err
	}
	return assets, nil
}

func (r *assetRepository) GetListedAssets(ctx context.Context) ([]domain.Asset, error) {
	assets, err := r.GetAssets(ctx)
	if err != nil {
		return nil, err
	}
	listed := make([]domain.Asset, 0, len(assets))
	for _, asset := range assets {
		if asset.Listing != nil {
			listed = append(listed, asset)
		}
	}
	return listed, nil
}
