package domain

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Principal identifies a wallet or account taking part in a transaction.
// Ownership and authorization checks always go through this type instead of
// comparing loose strings at call sites.
type Principal string

func (p Principal) String() string {
	return string(p)
}

func (p Principal) Validate() error {
	if len(p) == 0 {
		return fmt.Errorf("principal cannot be empty")
	}
	return nil
}

func (p Principal) Equals(other Principal) bool {
	return p == other
}

type Edition string

const (
	EditionUnique  Edition = "Unique"
	EditionLimited Edition = "Limited"
	EditionRare    Edition = "Rare"
)

func ParseEdition(s string) (Edition, error) {
	switch Edition(s) {
	case EditionUnique, EditionLimited, EditionRare:
		return Edition(s), nil
	default:
		return "", fmt.Errorf("unknown edition: %s", s)
	}
}

type EventType string

const (
	EventMinted        EventType = "Minted"
	EventListed        EventType = "Listed"
	EventOfferAccepted EventType = "OfferAccepted"
	EventPurchased     EventType = "Purchased"
	EventCancelled     EventType = "Cancelled"
)

// HistoryEntry is one record of the append-only audit trail. Entries are never
// reordered, mutated or truncated once committed.
type HistoryEntry struct {
	Event EventType        `json:"event"`
	From  Principal        `json:"from"`
	To    Principal        `json:"to"`
	Price *decimal.Decimal `json:"price,omitempty"`
	At    time.Time        `json:"at"`
}

// Asset is the NFT item record tracked by the engine. One owner at any time,
// royalty percent immutable after mint, version bumped by exactly 1 per commit.
type Asset struct {
	ID             string           `json:"id"`
	TrackID        string           `json:"trackId"`
	Owner          Principal        `json:"owner"`
	Creator        Principal        `json:"creator"`
	Price          decimal.Decimal  `json:"price"`
	Edition        Edition          `json:"edition"`
	RoyaltyPercent int64            `json:"royaltyPercent"`
	Listing        *Listing         `json:"listing"`
	Offers         map[string]Offer `json:"offers"`
	History        []HistoryEntry   `json:"history"`
	Version        uint64           `json:"version"`
}

func NewAsset(
	trackID string, creator Principal, edition Edition,
	royaltyPercent int64, price decimal.Decimal, now time.Time,
) (*Asset, error) {
	if err := creator.Validate(); err != nil {
		return nil, fmt.Errorf("invalid creator: %w", err)
	}
	if royaltyPercent < 0 || royaltyPercent > 100 {
		return nil, ErrInvalidRoyalty
	}
	if price.Sign() <= 0 {
		return nil, ErrInvalidPrice
	}

	mintPrice := price
	return &Asset{
		ID:             uuid.New().String(),
		TrackID:        trackID,
		Owner:          creator,
		Creator:        creator,
		Price:          price,
		Edition:        edition,
		RoyaltyPercent: royaltyPercent,
		Offers:         make(map[string]Offer),
		History: []HistoryEntry{{
			Event: EventMinted,
			To:    creator,
			Price: &mintPrice,
			At:    now,
		}},
		Version: 1,
	}, nil
}

func (a *Asset) IsOwner(p Principal) bool {
	return a.Owner.Equals(p)
}

// RankedOffers returns the outstanding offers ordered best-first: higher price
// wins, equal prices rank by earlier submission. The ranking feeds the top-bid
// display tag only, it has no bearing on eligibility.
func (a *Asset) RankedOffers() []Offer {
	offers := make([]Offer, 0, len(a.Offers))
	for _, offer := range a.Offers {
		offers = append(offers, offer)
	}
	sort.SliceStable(offers, func(i, j int) bool {
		if offers[i].Price.Equal(offers[j].Price) {
			return offers[i].SubmittedAt.Before(offers[j].SubmittedAt)
		}
		return offers[i].Price.GreaterThan(offers[j].Price)
	})
	return offers
}

func (a *Asset) TopBid() *Offer {
	ranked := a.RankedOffers()
	if len(ranked) == 0 {
		return nil
	}
	return &ranked[0]
}

func (a *Asset) appendHistory(entry HistoryEntry) {
	a.History = append(a.History, entry)
}

// transfer moves ownership, closes the current listing episode with its offers,
// and appends exactly one history entry whose To is the new owner.
func (a *Asset) transfer(to Principal, price decimal.Decimal, event EventType, now time.Time) {
	from := a.Owner
	salePrice := price
	a.Owner = to
	a.Price = price
	a.Listing = nil
	a.Offers = make(map[string]Offer)
	a.appendHistory(HistoryEntry{
		Event: event,
		From:  from,
		To:    to,
		Price: &salePrice,
		At:    now,
	})
}
