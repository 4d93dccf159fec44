package inmemorylivestore

import (
	"context"
	"sync"

	"github.com/vinylmint/vinyld/internal/core/ports"
)

type liveStore struct {
	lock     sync.RWMutex
	displays map[string]ports.AuctionDisplay
}

func NewLiveStore() ports.LiveStore {
	return &liveStore{
		displays: make(map[string]ports.AuctionDisplay),
	}
}

func (s *liveStore) UpsertAuctionStatus(_ context.Context, display ports.AuctionDisplay) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.displays[display.AssetID] = display
	return nil
}

func (s *liveStore) GetAuctionStatus(
	_ context.Context, assetID string,
) (*ports.AuctionDisplay, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	display, ok := s.displays[assetID]
	if !ok {
		return nil, nil
	}
	return &display, nil
}

func (s *liveStore) DeleteAuctionStatus(_ context.Context, assetID string) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	delete(s.displays, assetID)
	return nil
}

func (s *liveStore) Close() {}
