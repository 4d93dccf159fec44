package redislivestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vinylmint/vinyld/internal/core/ports"
)

const auctionStatusKeyPrefix = "auctionStatus:"

// displays are refreshed by the sweeper every interval, the TTL only reaps
// entries for assets that stopped being swept.
const auctionStatusTTL = 10 * time.Minute

type liveStore struct {
	rdb *redis.Client
}

func NewLiveStore(rdb *redis.Client) ports.LiveStore {
	return &liveStore{rdb}
}

func (s *liveStore) UpsertAuctionStatus(
	ctx context.Context, display ports.AuctionDisplay,
) error {
	buf, err := json.Marshal(display)
	if err != nil {
		return fmt.Errorf("failed to serialize auction display: %w", err)
	}
	return s.rdb.Set(ctx, auctionStatusKey(display.AssetID), buf, auctionStatusTTL).Err()
}

func (s *liveStore) GetAuctionStatus(
	ctx context.Context, assetID string,
) (*ports.AuctionDisplay, error) {
	buf, err := s.rdb.Get(ctx, auctionStatusKey(assetID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get auction display: %w", err)
	}

	var display ports.AuctionDisplay
	if err := json.Unmarshal(buf, &display); err != nil {
		return nil, fmt.Errorf("failed to deserialize auction display: %w", err)
	}
	return &display, nil
}

func (s *liveStore) DeleteAuctionStatus(ctx context.Context, assetID string) error {
	return s.rdb.Del(ctx, auctionStatusKey(assetID)).Err()
}

func (s *liveStore) Close() {
	// nolint:all
	s.rdb.Close()
}

func auctionStatusKey(assetID string) string {
	return auctionStatusKeyPrefix + assetID
}
