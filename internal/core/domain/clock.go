package domain

import (
	"fmt"
	"time"
)

// AuctionStatus is derived from the stored end time at read time. The engine
// never settles an auction on expiry: an expired auction still accepts bids and
// owner acceptance, the status only lets displays disable the live badge.
type AuctionStatus string

const (
	AuctionStatusLive    AuctionStatus = "Live"
	AuctionStatusExpired AuctionStatus = "AuctionExpired"
)

const endedCountdown = "ENDED"

// AuctionState reports the auction status of the asset at the given instant.
// The second return is false when the asset is not under auction.
func (a *Asset) AuctionState(now time.Time) (AuctionStatus, bool) {
	if !a.Listing.IsAuction() || a.Listing.EndsAt == nil {
		return "", false
	}
	if now.Before(*a.Listing.EndsAt) {
		return AuctionStatusLive, true
	}
	return AuctionStatusExpired, true
}

// Countdown formats the remaining auction time as HH:MM:SS, clamped to "ENDED"
// at or below zero. Existing displays depend on this exact format.
func Countdown(endsAt, now time.Time) string {
	remaining := endsAt.Sub(now)
	if remaining <= 0 {
		return endedCountdown
	}
	total := int64(remaining / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}
