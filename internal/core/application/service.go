package application

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/vinylmint/vinyld/internal/core/domain"
	"github.com/vinylmint/vinyld/internal/core/ports"
)

// Service is the transaction coordinator: the single entry point performing
// every mutating command as one atomic unit against the ledger store. Each
// command reads a snapshot, validates against it, and commits conditionally on
// the version still matching; a concurrent commit surfaces as ErrConflict and
// the caller re-issues the command. The coordinator never retries on its own.
type Service interface {
	Start() error
	Stop()

	MintAsset(
		ctx context.Context, trackID string, creator domain.Principal,
		edition domain.Edition, royaltyPercent int64, price decimal.Decimal,
	) (*AssetInfo, error)
	ListAsset(
		ctx context.Context, assetID string, caller domain.Principal,
		kind domain.ListingKind, price decimal.Decimal, duration time.Duration,
	) (*AssetInfo, error)
	CancelListing(ctx context.Context, assetID string, caller domain.Principal) (*AssetInfo, error)
	PlaceOffer(
		ctx context.Context, assetID string, caller domain.Principal,
		price decimal.Decimal, duration time.Duration,
	) (*PlaceOfferResult, error)
	AcceptOffer(
		ctx context.Context, assetID, offerID string, caller domain.Principal,
	) (*AssetInfo, error)
	DeclineOffer(
		ctx context.Context, assetID, offerID string, caller domain.Principal,
	) (*AssetInfo, error)
	GetAsset(ctx context.Context, assetID string) (*AssetInfo, error)
	GetAssets(ctx context.Context) ([]AssetInfo, error)
	RoyaltyReport(ctx context.Context, creator domain.Principal) (*CreatorRoyaltyReport, error)
}

type marketService struct {
	repoManager   ports.RepoManager
	liveStore     ports.LiveStore
	sweeper       *sweeper
	royaltyConfig *domain.RoyaltyConfig
}

func NewService(
	repoManager ports.RepoManager, liveStore ports.LiveStore,
	scheduler ports.SchedulerService, sweepInterval time.Duration,
	royaltyConfig *domain.RoyaltyConfig,
) (Service, error) {
	if repoManager == nil {
		return nil, fmt.Errorf("missing repo manager")
	}
	if liveStore == nil {
		return nil, fmt.Errorf("missing live store")
	}
	if scheduler == nil {
		return nil, fmt.Errorf("missing scheduler")
	}

	svc := &marketService{
		repoManager:   repoManager,
		liveStore:     liveStore,
		royaltyConfig: royaltyConfig,
	}
	svc.sweeper = newSweeper(repoManager, liveStore, scheduler, sweepInterval)
	return svc, nil
}

func (s *marketService) Start() error {
	return s.sweeper.start()
}

func (s *marketService) Stop() {
	s.sweeper.stop()
	s.liveStore.Close()
	s.repoManager.Close()
}

func (s *marketService) MintAsset(
	ctx context.Context, trackID string, creator domain.Principal,
	edition domain.Edition, royaltyPercent int64, price decimal.Decimal,
) (*AssetInfo, error) {
	now := time.Now()
	asset, err := domain.NewAsset(trackID, creator, edition, royaltyPercent, price, now)
	if err != nil {
		return nil, err
	}
	if err := s.repoManager.Assets().AddAsset(ctx, *asset); err != nil {
		return nil, err
	}

	log.WithField("creator", creator).Debugf("minted asset %s for track %s", asset.ID, trackID)
	return newAssetInfo(asset, nil, now), nil
}

func (s *marketService) ListAsset(
	ctx context.Context, assetID string, caller domain.Principal,
	kind domain.ListingKind, price decimal.Decimal, duration time.Duration,
) (*AssetInfo, error) {
	asset, err := s.repoManager.Assets().GetAsset(ctx, assetID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err := asset.List(caller, kind, price, duration, now); err != nil {
		return nil, err
	}
	if err := s.commit(ctx, asset); err != nil {
		return nil, err
	}

	log.Debugf("asset %s listed as %s at %s", asset.ID, kind, price)
	return newAssetInfo(asset, nil, now), nil
}

func (s *marketService) CancelListing(
	ctx context.Context, assetID string, caller domain.Principal,
) (*AssetInfo, error) {
	asset, err := s.repoManager.Assets().GetAsset(ctx, assetID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err := asset.CancelListing(caller, now); err != nil {
		return nil, err
	}
	if err := s.commit(ctx, asset); err != nil {
		return nil, err
	}

	if err := s.liveStore.DeleteAuctionStatus(ctx, asset.ID); err != nil {
		log.WithError(err).Warnf("failed to drop auction status for asset %s", asset.ID)
	}

	log.Debugf("listing cancelled for asset %s", asset.ID)
	return newAssetInfo(asset, nil, now), nil
}

func (s *marketService) PlaceOffer(
	ctx context.Context, assetID string, caller domain.Principal,
	price decimal.Decimal, duration time.Duration,
) (*PlaceOfferResult, error) {
	asset, err := s.repoManager.Assets().GetAsset(ctx, assetID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	seller := asset.Owner
	outcome, err := asset.PlaceOffer(caller, price, duration, now)
	if err != nil {
		return nil, err
	}

	var split *domain.RoyaltySplit
	if outcome == domain.OutcomePurchased {
		payout, err := domain.Split(price, asset.RoyaltyPercent)
		if err != nil {
			return nil, err
		}
		split = &payout
	}

	if err := s.commit(ctx, asset); err != nil {
		return nil, err
	}

	if split != nil {
		logSalePayout(asset, seller, caller, price, *split)
	} else {
		log.Debugf("bid of %s accepted on asset %s", price, asset.ID)
	}
	return &PlaceOfferResult{
		Asset:   newAssetInfo(asset, split, now),
		Outcome: outcome,
	}, nil
}

func (s *marketService) AcceptOffer(
	ctx context.Context, assetID, offerID string, caller domain.Principal,
) (*AssetInfo, error) {
	asset, err := s.repoManager.Assets().GetAsset(ctx, assetID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	seller := asset.Owner
	offer, err := asset.AcceptOffer(caller, offerID, now)
	if err != nil {
		return nil, err
	}

	payout, err := domain.Split(offer.Price, asset.RoyaltyPercent)
	if err != nil {
		return nil, err
	}

	if err := s.commit(ctx, asset); err != nil {
		return nil, err
	}

	if err := s.liveStore.DeleteAuctionStatus(ctx, asset.ID); err != nil {
		log.WithError(err).Warnf("failed to drop auction status for asset %s", asset.ID)
	}

	logSalePayout(asset, seller, offer.Offerer, offer.Price, payout)
	return newAssetInfo(asset, &payout, now), nil
}

func (s *marketService) DeclineOffer(
	ctx context.Context, assetID, offerID string, caller domain.Principal,
) (*AssetInfo, error) {
	asset, err := s.repoManager.Assets().GetAsset(ctx, assetID)
	if err != nil {
		return nil, err
	}

	if err := asset.DeclineOffer(caller, offerID); err != nil {
		return nil, err
	}
	if err := s.commit(ctx, asset); err != nil {
		return nil, err
	}

	log.Debugf("offer %s declined on asset %s", offerID, asset.ID)
	return newAssetInfo(asset, nil, time.Now()), nil
}

func (s *marketService) GetAsset(ctx context.Context, assetID string) (*AssetInfo, error) {
	asset, err := s.repoManager.Assets().GetAsset(ctx, assetID)
	if err != nil {
		return nil, err
	}
	return newAssetInfo(asset, nil, time.Now()), nil
}

func (s *marketService) GetAssets(ctx context.Context) ([]AssetInfo, error) {
	assets, err := s.repoManager.Assets().GetAssets(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	infos := make([]AssetInfo, 0, len(assets))
	for _, asset := range assets {
		infos = append(infos, *newAssetInfo(&asset, nil, now))
	}
	return infos, nil
}

// commit bumps the version by exactly one; the ledger store rejects the write
// with ErrConflict if the stored version moved since the snapshot was read.
func (s *marketService) commit(ctx context.Context, asset *domain.Asset) error {
	asset.Version++
	return s.repoManager.Assets().UpdateAsset(ctx, *asset)
}

func logSalePayout(
	asset *domain.Asset, seller, buyer domain.Principal,
	salePrice decimal.Decimal, split domain.RoyaltySplit,
) {
	log.WithFields(log.Fields{
		"seller":   seller,
		"buyer":    buyer,
		"fee":      split.MarketplaceFee,
		"royalty":  split.CreatorRoyalty,
		"proceeds": split.SellerProceeds,
	}).Infof("asset %s sold for %s", asset.ID, salePrice)
}
