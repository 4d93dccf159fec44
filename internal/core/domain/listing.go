package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type ListingKind string

const (
	ListingKindFixed   ListingKind = "fixed"
	ListingKindAuction ListingKind = "auction"
)

func ParseListingKind(s string) (ListingKind, error) {
	switch ListingKind(s) {
	case ListingKindFixed, ListingKindAuction:
		return ListingKind(s), nil
	default:
		return "", fmt.Errorf("unknown listing kind: %s", s)
	}
}

// Listing is the current sale state of an asset. A nil Listing means the asset
// is unlisted. EndsAt is set for auctions and never for fixed-price listings.
// For auctions Price tracks the current high bid.
type Listing struct {
	Kind   ListingKind     `json:"kind"`
	Price  decimal.Decimal `json:"price"`
	EndsAt *time.Time      `json:"endsAt,omitempty"`
}

func (l *Listing) IsAuction() bool {
	return l != nil && l.Kind == ListingKindAuction
}

// List opens a new listing episode. Re-listing an already listed asset is
// allowed and starts a fresh episode: offers from the previous episode are
// invalidated.
func (a *Asset) List(
	caller Principal, kind ListingKind, price decimal.Decimal,
	duration time.Duration, now time.Time,
) error {
	if !a.IsOwner(caller) {
		return ErrNotOwner
	}
	if price.Sign() <= 0 {
		return ErrInvalidPrice
	}

	listing := &Listing{Kind: kind, Price: price}
	switch kind {
	case ListingKindFixed:
	case ListingKindAuction:
		if duration <= 0 {
			return ErrInvalidPrice
		}
		endsAt := now.Add(duration)
		listing.EndsAt = &endsAt
	default:
		return fmt.Errorf("unknown listing kind: %s", kind)
	}

	askPrice := price
	a.Listing = listing
	a.Price = price
	a.Offers = make(map[string]Offer)
	a.appendHistory(HistoryEntry{
		Event: EventListed,
		From:  a.Owner,
		To:    a.Owner,
		Price: &askPrice,
		At:    now,
	})
	return nil
}

// CancelListing always succeeds for the owner: the listing and every
// outstanding offer are cleared and a Cancelled entry is appended. No ownership
// changes.
func (a *Asset) CancelListing(caller Principal, now time.Time) error {
	if !a.IsOwner(caller) {
		return ErrNotOwner
	}

	a.Listing = nil
	a.Offers = make(map[string]Offer)
	a.appendHistory(HistoryEntry{
		Event: EventCancelled,
		From:  a.Owner,
		To:    a.Owner,
		At:    now,
	})
	return nil
}
