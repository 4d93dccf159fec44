package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// minBidIncrement is the auction minimum step: a new bid must be at least 5%
// above the current high bid.
var minBidIncrement = decimal.New(105, -2)

// Offer is a bid or buy proposal from a non-owner against a listed asset.
// Offers are scoped to a single listing episode: cancelling or concluding the
// listing invalidates them all.
type Offer struct {
	ID          string          `json:"id"`
	Offerer     Principal       `json:"offerer"`
	Price       decimal.Decimal `json:"price"`
	SubmittedAt time.Time       `json:"submittedAt"`
	ExpiresAt   *time.Time      `json:"expiresAt,omitempty"`
}

func (o Offer) Expired(now time.Time) bool {
	return o.ExpiresAt != nil && !now.Before(*o.ExpiresAt)
}

type OfferOutcome string

const (
	OutcomePurchased   OfferOutcome = "Purchased"
	OutcomeBidAccepted OfferOutcome = "BidAccepted"
)

// PlaceOffer runs the offer book rules against the current listing. On a
// fixed-price listing an offer at or above the ask short-circuits straight to a
// purchase; on an auction the offer must beat the current price by the minimum
// increment and becomes the new high bid. A zero duration means the offer never
// expires.
func (a *Asset) PlaceOffer(
	offerer Principal, price decimal.Decimal, duration time.Duration, now time.Time,
) (OfferOutcome, error) {
	if a.IsOwner(offerer) {
		return "", ErrSelfOffer
	}
	if price.Sign() <= 0 {
		return "", ErrInvalidPrice
	}
	if a.Listing == nil {
		return "", ErrNotListed
	}

	switch a.Listing.Kind {
	case ListingKindFixed:
		if price.LessThan(a.Listing.Price) {
			return "", bidTooLowError(a.Listing.Price)
		}
		a.transfer(offerer, price, EventPurchased, now)
		return OutcomePurchased, nil

	case ListingKindAuction:
		minBid := a.Listing.Price.Mul(minBidIncrement)
		if price.LessThan(minBid) {
			return "", bidTooLowError(minBid)
		}

		offer := Offer{
			ID:          uuid.New().String(),
			Offerer:     offerer,
			Price:       price,
			SubmittedAt: now,
		}
		if duration > 0 {
			expiresAt := now.Add(duration)
			offer.ExpiresAt = &expiresAt
		}
		a.Offers[offer.ID] = offer
		a.Listing.Price = price
		a.Price = price
		return OutcomeBidAccepted, nil

	default:
		return "", ErrNotListed
	}
}

// AcceptOffer transfers ownership to the offerer at the offered price. A stale
// or expired offer id fails with OfferNotFound even if it has not been swept
// from storage yet.
func (a *Asset) AcceptOffer(caller Principal, offerID string, now time.Time) (*Offer, error) {
	if !a.IsOwner(caller) {
		return nil, ErrNotOwner
	}
	offer, ok := a.Offers[offerID]
	if !ok || offer.Expired(now) {
		return nil, ErrOfferNotFound
	}

	a.transfer(offer.Offerer, offer.Price, EventOfferAccepted, now)
	return &offer, nil
}

// DeclineOffer removes exactly the named offer, nothing else.
func (a *Asset) DeclineOffer(caller Principal, offerID string) error {
	if !a.IsOwner(caller) {
		return ErrNotOwner
	}
	if _, ok := a.Offers[offerID]; !ok {
		return ErrOfferNotFound
	}
	delete(a.Offers, offerID)
	return nil
}
