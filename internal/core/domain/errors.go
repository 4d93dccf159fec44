package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type ErrorCode string

const (
	ErrCodeNotOwner       ErrorCode = "NOT_OWNER"
	ErrCodeSelfOffer      ErrorCode = "SELF_OFFER"
	ErrCodeNotListed      ErrorCode = "NOT_LISTED"
	ErrCodeBidTooLow      ErrorCode = "BID_TOO_LOW"
	ErrCodeInvalidPrice   ErrorCode = "INVALID_PRICE"
	ErrCodeInvalidRoyalty ErrorCode = "INVALID_ROYALTY"
	ErrCodeOfferNotFound  ErrorCode = "OFFER_NOT_FOUND"
	ErrCodeAssetNotFound  ErrorCode = "ASSET_NOT_FOUND"
	ErrCodeConflict       ErrorCode = "CONFLICT"
)

// MarketError is a terminal validation or lookup failure surfaced verbatim to
// callers. Only ErrConflict is retryable, and only by re-issuing the command.
type MarketError struct {
	Code ErrorCode

	message string
}

func (e *MarketError) Error() string {
	return e.message
}

// Is matches errors by code so that errors.Is(err, ErrBidTooLow) works for
// instances carrying contextual messages.
func (e *MarketError) Is(target error) bool {
	t, ok := target.(*MarketError)
	return ok && t.Code == e.Code
}

func newMarketError(code ErrorCode, message string) *MarketError {
	return &MarketError{Code: code, message: message}
}

var (
	ErrNotOwner       = newMarketError(ErrCodeNotOwner, "caller does not own this asset")
	ErrSelfOffer      = newMarketError(ErrCodeSelfOffer, "cannot place an offer on your own asset")
	ErrNotListed      = newMarketError(ErrCodeNotListed, "asset is not listed for sale")
	ErrBidTooLow      = newMarketError(ErrCodeBidTooLow, "offer is below the minimum accepted price")
	ErrInvalidPrice   = newMarketError(ErrCodeInvalidPrice, "price must be a positive amount")
	ErrInvalidRoyalty = newMarketError(ErrCodeInvalidRoyalty, "royalty percent must be between 0 and 100")
	ErrOfferNotFound  = newMarketError(ErrCodeOfferNotFound, "offer not found or no longer valid")
	ErrAssetNotFound  = newMarketError(ErrCodeAssetNotFound, "asset not found")
	ErrConflict       = newMarketError(ErrCodeConflict, "listing changed, please retry")
)

func bidTooLowError(min decimal.Decimal) *MarketError {
	return newMarketError(
		ErrCodeBidTooLow, fmt.Sprintf("offer is below the minimum accepted price of %s", min),
	)
}
