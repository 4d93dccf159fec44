package sqlitedb

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vinylmint/vinyld/internal/core/domain"
)

const (
	insertAssetQuery = `
		INSERT INTO asset (id, creator, listed, version, doc) VALUES (?, ?, ?, ?, ?)
	`
	selectAssetQuery           = `SELECT doc FROM asset WHERE id = ?`
	selectAssetVersionQuery    = `SELECT version FROM asset WHERE id = ?`
	selectAssetsQuery          = `SELECT doc FROM asset`
	selectAssetsByCreatorQuery = `SELECT doc FROM asset WHERE creator = ?`
	selectListedAssetsQuery    = `SELECT doc FROM asset WHERE listed = 1`
	updateAssetQuery           = `
		UPDATE asset SET doc = ?, version = ?, listed = ? WHERE id = ? AND version = ?
	`
)

type assetRepository struct {
	db *sql.DB
}

func NewAssetRepository(config ...interface{}) (domain.AssetRepository, error) {
	if len(config) != 1 {
		return nil, fmt.Errorf("invalid config: expected 1 argument, got %d", len(config))
	}
	db, ok := config[0].(*sql.DB)
	if !ok {
		return nil, fmt.Errorf(
			"cannot open asset repository: expected *sql.DB but got %T", config[0],
		)
	}

	return &assetRepository{db}, nil
}

func (r *assetRepository) Close() {
	// nolint:all
	r.db.Close()
}

func (r *assetRepository) AddAsset(ctx context.Context, asset domain.Asset) error {
	doc, err := json.Marshal(asset)
	if err != nil {
		return fmt.Errorf("failed to serialize asset: %w", err)
	}

	if _, err := r.db.ExecContext(
		ctx, insertAssetQuery,
		asset.ID, asset.Creator.String(), boolToInt(asset.Listing != nil), asset.Version, doc,
	); err != nil {
		return fmt.Errorf("failed to insert asset: %w", err)
	}
	return nil
}

func (r *assetRepository) GetAsset(ctx context.Context, id string) (*domain.Asset, error) {
	var doc []byte
	if err := r.db.QueryRowContext(ctx, selectAssetQuery, id).Scan(&doc); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAssetNotFound
		}
		return nil, fmt.Errorf("failed to get asset: %w", err)
	}
	return decodeAsset(doc)
}

func (r *assetRepository) UpdateAsset(ctx context.Context, asset domain.Asset) error {
	doc, err := json.Marshal(asset)
	if err != nil {
		return fmt.Errorf("failed to serialize asset: %w", err)
	}

	res, err := r.db.ExecContext(
		ctx, updateAssetQuery,
		doc, asset.Version, boolToInt(asset.Listing != nil), asset.ID, asset.Version-1,
	)
	if err != nil {
		return fmt.Errorf("failed to update asset: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		var version uint64
		err := r.db.QueryRowContext(ctx, selectAssetVersionQuery, asset.ID).Scan(&version)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrAssetNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to check asset version: %w", err)
		}
		return domain.ErrConflict
	}
	return nil
}

func (r *assetRepository) GetAssets(ctx context.Context) ([]domain.Asset, error) {
	return r.queryAssets(ctx, selectAssetsQuery)
}

func (r *assetRepository) GetAssetsByCreator(
	ctx context.Context, creator domain.Principal,
) ([]domain.Asset, error) {
	return r.queryAssets(ctx, selectAssetsByCreatorQuery, creator.String())
}

func (r *assetRepository) GetListedAssets(ctx context.Context) ([]domain.Asset, error) {
	return r.queryAssets(ctx, selectListedAssetsQuery)
}

func (r *assetRepository) queryAssets(
	ctx context.Context, query string, args ...interface{},
) ([]domain.Asset, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query assets: %w", err)
	}
	// nolint:all
	defer rows.Close()

	assets := make([]domain.Asset, 0)
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		asset, err := decodeAsset(doc)
		if err != nil {
			return nil, err
		}
		assets = append(assets, *asset)
	}
	return assets, rows.Err()
}

func decodeAsset(doc []byte) (*domain.Asset, error) {
	var asset domain.Asset
	if err := json.Unmarshal(doc, &asset); err != nil {
		return nil, fmt.Errorf("failed to deserialize asset: %w", err)
	}
	if asset.Offers == nil {
		asset.Offers = make(map[string]domain.Offer)
	}
	return &asset, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
