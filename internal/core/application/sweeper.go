package application

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vinylmint/vinyld/internal/core/domain"
	"github.com/vinylmint/vinyld/internal/core/ports"
)

// sweeper periodically mirrors the auction clock into the live store so that
// displays can poll a pre-computed status. It is display-only: it never writes
// to the ledger store and never transfers ownership, auction state stays
// derived from the stored end time on every read.
type sweeper struct {
	repoManager ports.RepoManager
	liveStore   ports.LiveStore
	scheduler   ports.SchedulerService
	interval    time.Duration
}

func newSweeper(
	repoManager ports.RepoManager, liveStore ports.LiveStore,
	scheduler ports.SchedulerService, interval time.Duration,
) *sweeper {
	return &sweeper{repoManager, liveStore, scheduler, interval}
}

func (s *sweeper) start() error {
	s.scheduler.Start()
	return s.scheduler.ScheduleTaskEvery(s.interval, s.sweep)
}

func (s *sweeper) stop() {
	s.scheduler.Stop()
}

func (s *sweeper) sweep() {
	ctx := context.Background()

	assets, err := s.repoManager.Assets().GetListedAssets(ctx)
	if err != nil {
		log.WithError(err).Warn("sweeper: failed to load listed assets")
		return
	}

	now := time.Now()
	count := 0
	for _, asset := range assets {
		status, ok := asset.AuctionState(now)
		if !ok {
			continue
		}

		display := ports.AuctionDisplay{
			AssetID:   asset.ID,
			Status:    status,
			Countdown: domain.Countdown(*asset.Listing.EndsAt, now),
			UpdatedAt: now,
		}
		if err := s.liveStore.UpsertAuctionStatus(ctx, display); err != nil {
			log.WithError(err).Warnf("sweeper: failed to update status for asset %s", asset.ID)
			continue
		}
		count++
	}

	if count > 0 {
		log.Debugf("sweeper: refreshed %d auction statuses", count)
	}
}
