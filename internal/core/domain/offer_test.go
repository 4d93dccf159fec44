package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestPlaceOffer(t *testing.T) {
	now := time.Now()

	t.Run("self offer", func(t *testing.T) {
		asset := newTestAsset(t, "5")
		require.NoError(t, asset.List(
			alice, ListingKindFixed, decimal.RequireFromString("5"), 0, now,
		))
		_, err := asset.PlaceOffer(alice, decimal.RequireFromString("5"), 0, now)
		require.ErrorIs(t, err, ErrSelfOffer)
	})

	t.Run("not listed", func(t *testing.T) {
		asset := newTestAsset(t, "5")
		_, err := asset.PlaceOffer(bob, decimal.RequireFromString("5"), 0, now)
		require.ErrorIs(t, err, ErrNotListed)
	})

	t.Run("invalid price", func(t *testing.T) {
		asset := newTestAsset(t, "5")
		require.NoError(t, asset.List(
			alice, ListingKindFixed, decimal.RequireFromString("5"), 0, now,
		))
		_, err := asset.PlaceOffer(bob, decimal.Zero, 0, now)
		require.ErrorIs(t, err, ErrInvalidPrice)
	})

	t.Run("fixed price at ask is a purchase", func(t *testing.T) {
		asset := newTestAsset(t, "5")
		require.NoError(t, asset.List(
			alice, ListingKindFixed, decimal.RequireFromString("5"), 0, now,
		))
		historyLen := len(asset.History)

		outcome, err := asset.PlaceOffer(bob, decimal.RequireFromString("5"), 0, now)
		require.NoError(t, err)
		require.Equal(t, OutcomePurchased, outcome)
		require.Equal(t, bob, asset.Owner)
		require.Nil(t, asset.Listing)
		require.Empty(t, asset.Offers)
		require.Len(t, asset.History, historyLen+1)

		last := asset.History[len(asset.History)-1]
		require.Equal(t, EventPurchased, last.Event)
		require.Equal(t, alice, last.From)
		require.Equal(t, bob, last.To)
		require.Equal(t, "5", last.Price.String())
	})

	t.Run("fixed price below ask", func(t *testing.T) {
		asset := newTestAsset(t, "5")
		require.NoError(t, asset.List(
			alice, ListingKindFixed, decimal.RequireFromString("5"), 0, now,
		))
		_, err := asset.PlaceOffer(bob, decimal.RequireFromString("4.99"), 0, now)
		require.ErrorIs(t, err, ErrBidTooLow)
		require.Equal(t, alice, asset.Owner)
	})

	t.Run("auction minimum increment", func(t *testing.T) {
		asset := newTestAsset(t, "5")
		require.NoError(t, asset.List(
			alice, ListingKindAuction, decimal.RequireFromString("5"), time.Hour, now,
		))

		// 5 * 1.05 = 5.25 is the lowest acceptable first bid.
		outcome, err := asset.PlaceOffer(bob, decimal.RequireFromString("5.25"), 0, now)
		require.NoError(t, err)
		require.Equal(t, OutcomeBidAccepted, outcome)
		require.Equal(t, "5.25", asset.Listing.Price.String())
		require.Len(t, asset.Offers, 1)

		_, err = asset.PlaceOffer(carol, decimal.RequireFromString("5.10"), 0, now)
		require.ErrorIs(t, err, ErrBidTooLow)
		require.Len(t, asset.Offers, 1)
	})

	t.Run("late bids allowed after expiry", func(t *testing.T) {
		asset := newTestAsset(t, "5")
		require.NoError(t, asset.List(
			alice, ListingKindAuction, decimal.RequireFromString("5"), time.Hour, now,
		))
		late := now.Add(2 * time.Hour)
		outcome, err := asset.PlaceOffer(bob, decimal.RequireFromString("5.25"), 0, late)
		require.NoError(t, err)
		require.Equal(t, OutcomeBidAccepted, outcome)
	})
}

func TestAcceptOffer(t *testing.T) {
	now := time.Now()

	setup := func(t *testing.T) (*Asset, string) {
		asset := newTestAsset(t, "5")
		require.NoError(t, asset.List(
			alice, ListingKindAuction, decimal.RequireFromString("5"), time.Hour, now,
		))
		_, err := asset.PlaceOffer(bob, decimal.RequireFromString("5.25"), 0, now)
		require.NoError(t, err)
		return asset, asset.RankedOffers()[0].ID
	}

	t.Run("transfers ownership at offer price", func(t *testing.T) {
		asset, offerID := setup(t)
		offer, err := asset.AcceptOffer(alice, offerID, now)
		require.NoError(t, err)
		require.Equal(t, bob, offer.Offerer)
		require.Equal(t, bob, asset.Owner)
		require.Equal(t, "5.25", asset.Price.String())
		require.Nil(t, asset.Listing)
		require.Empty(t, asset.Offers)
		require.Equal(t, EventOfferAccepted, asset.History[len(asset.History)-1].Event)
	})

	t.Run("not owner", func(t *testing.T) {
		asset, offerID := setup(t)
		_, err := asset.AcceptOffer(bob, offerID, now)
		require.ErrorIs(t, err, ErrNotOwner)
	})

	t.Run("stale offer id", func(t *testing.T) {
		asset, offerID := setup(t)
		_, err := asset.AcceptOffer(alice, offerID, now)
		require.NoError(t, err)
		_, err = asset.AcceptOffer(bob, offerID, now)
		// ownership moved to bob, so bob is the owner now but the offer is gone
		require.ErrorIs(t, err, ErrOfferNotFound)
	})

	t.Run("expired offer", func(t *testing.T) {
		asset := newTestAsset(t, "5")
		require.NoError(t, asset.List(
			alice, ListingKindAuction, decimal.RequireFromString("5"), 2*time.Hour, now,
		))
		_, err := asset.PlaceOffer(bob, decimal.RequireFromString("5.25"), time.Minute, now)
		require.NoError(t, err)
		offerID := asset.RankedOffers()[0].ID

		_, err = asset.AcceptOffer(alice, offerID, now.Add(time.Hour))
		require.ErrorIs(t, err, ErrOfferNotFound)
		require.Equal(t, alice, asset.Owner)
	})
}

func TestDeclineOffer(t *testing.T) {
	now := time.Now()
	asset := newTestAsset(t, "5")
	require.NoError(t, asset.List(
		alice, ListingKindAuction, decimal.RequireFromString("5"), time.Hour, now,
	))
	_, err := asset.PlaceOffer(bob, decimal.RequireFromString("5.25"), 0, now)
	require.NoError(t, err)
	_, err = asset.PlaceOffer(carol, decimal.RequireFromString("6"), 0, now)
	require.NoError(t, err)
	require.Len(t, asset.Offers, 2)

	declined := asset.RankedOffers()[1]

	require.ErrorIs(t, asset.DeclineOffer(bob, declined.ID), ErrNotOwner)
	require.ErrorIs(t, asset.DeclineOffer(alice, "missing"), ErrOfferNotFound)

	require.NoError(t, asset.DeclineOffer(alice, declined.ID))
	require.Len(t, asset.Offers, 1)
	require.NotNil(t, asset.Listing)
	require.Equal(t, alice, asset.Owner)
}

func TestOfferRanking(t *testing.T) {
	now := time.Now()
	asset := newTestAsset(t, "5")
	asset.Offers = map[string]Offer{
		"b": {ID: "b", Offerer: bob, Price: decimal.RequireFromString("7"), SubmittedAt: now.Add(time.Minute)},
		"a": {ID: "a", Offerer: carol, Price: decimal.RequireFromString("7"), SubmittedAt: now},
		"c": {ID: "c", Offerer: carol, Price: decimal.RequireFromString("6"), SubmittedAt: now},
	}

	ranked := asset.RankedOffers()
	require.Len(t, ranked, 3)
	// equal prices rank by earlier submission
	require.Equal(t, "a", ranked[0].ID)
	require.Equal(t, "b", ranked[1].ID)
	require.Equal(t, "c", ranked[2].ID)
	require.Equal(t, "a", asset.TopBid().ID)

	asset.Offers = map[string]Offer{}
	require.Nil(t, asset.TopBid())
}
