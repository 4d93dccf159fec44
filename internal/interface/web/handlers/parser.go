package handlers

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vinylmint/vinyld/internal/core/application"
	"github.com/vinylmint/vinyld/internal/core/domain"
)

type mintAssetRequest struct {
	TrackID        string `json:"trackId"`
	Creator        string `json:"creator"`
	Edition        string `json:"edition"`
	RoyaltyPercent int64  `json:"royaltyPercent"`
	Price          string `json:"price"`
}

type listAssetRequest struct {
	Caller          string `json:"caller"`
	Kind            string `json:"kind"`
	Price           string `json:"price"`
	DurationSeconds int64  `json:"durationSeconds"`
}

type callerRequest struct {
	Caller string `json:"caller"`
}

type placeOfferRequest struct {
	Caller          string `json:"caller"`
	Price           string `json:"price"`
	DurationSeconds int64  `json:"durationSeconds"`
}

type offerResponse struct {
	ID          string     `json:"id"`
	Offerer     string     `json:"offerer"`
	Price       string     `json:"price"`
	SubmittedAt time.Time  `json:"submittedAt"`
	ExpiresAt   *time.Time `json:"expiresAt,omitempty"`
	TopBid      bool       `json:"topBid"`
}

type listingResponse struct {
	Kind   string     `json:"kind"`
	Price  string     `json:"price"`
	EndsAt *time.Time `json:"endsAt,omitempty"`
}

type historyEntryResponse struct {
	Event string    `json:"event"`
	From  string    `json:"from,omitempty"`
	To    string    `json:"to"`
	Price string    `json:"price,omitempty"`
	At    time.Time `json:"at"`
}

type splitResponse struct {
	MarketplaceFee string `json:"marketplaceFee"`
	CreatorRoyalty string `json:"creatorRoyalty"`
	SellerProceeds string `json:"sellerProceeds"`
}

type assetResponse struct {
	ID             string                 `json:"id"`
	TrackID        string                 `json:"trackId"`
	Owner          string                 `json:"owner"`
	Creator        string                 `json:"creator"`
	Price          string                 `json:"price"`
	Edition        string                 `json:"edition"`
	RoyaltyPercent int64                  `json:"royaltyPercent"`
	Listing        *listingResponse       `json:"listing,omitempty"`
	Offers         []offerResponse        `json:"offers"`
	History        []historyEntryResponse `json:"history"`
	Version        uint64                 `json:"version"`
	AuctionStatus  string                 `json:"auctionStatus,omitempty"`
	Countdown      string                 `json:"countdown,omitempty"`
	Split          *splitResponse         `json:"split,omitempty"`
}

type placeOfferResponse struct {
	Asset   assetResponse `json:"asset"`
	Outcome string        `json:"outcome"`
}

type saleRecordResponse struct {
	AssetID   string        `json:"assetId"`
	Event     string        `json:"event"`
	Seller    string        `json:"seller"`
	Buyer     string        `json:"buyer"`
	SalePrice string        `json:"salePrice"`
	Split     splitResponse `json:"split"`
	At        time.Time     `json:"at"`
}

type royaltyConfigResponse struct {
	StreamingPercentage string `json:"streamingPercentage"`
	NFTSaleShare        string `json:"nftSaleShare"`
}

type royaltyReportResponse struct {
	Creator      string                 `json:"creator"`
	Sales        []saleRecordResponse   `json:"sales"`
	TotalVolume  string                 `json:"totalVolume"`
	TotalRoyalty string                 `json:"totalRoyalty"`
	TotalFees    string                 `json:"totalFees"`
	Config       *royaltyConfigResponse `json:"royaltyConfig,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func parsePrincipal(name, value string) (domain.Principal, error) {
	p := domain.Principal(value)
	if err := p.Validate(); err != nil {
		return "", fmt.Errorf("invalid %s: %w", name, err)
	}
	return p, nil
}

func parsePrice(value string) (decimal.Decimal, error) {
	if value == "" {
		return decimal.Decimal{}, fmt.Errorf("missing price")
	}
	price, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid price: %s", value)
	}
	return price, nil
}

func parseDuration(seconds int64) (time.Duration, error) {
	if seconds < 0 {
		return 0, fmt.Errorf("invalid duration: %d", seconds)
	}
	return time.Duration(seconds) * time.Second, nil
}

func toAssetResponse(info *application.AssetInfo) assetResponse {
	resp := assetResponse{
		ID:             info.ID,
		TrackID:        info.TrackID,
		Owner:          info.Owner.String(),
		Creator:        info.Creator.String(),
		Price:          info.Price.String(),
		Edition:        string(info.Edition),
		RoyaltyPercent: info.RoyaltyPercent,
		Offers:         make([]offerResponse, 0, len(info.Offers)),
		History:        make([]historyEntryResponse, 0, len(info.History)),
		Version:        info.Version,
		AuctionStatus:  string(info.AuctionStatus),
		Countdown:      info.Countdown,
	}

	if info.Listing != nil {
		resp.Listing = &listingResponse{
			Kind:   string(info.Listing.Kind),
			Price:  info.Listing.Price.String(),
			EndsAt: info.Listing.EndsAt,
		}
	}
	for i, offer := range info.RankedOffers() {
		resp.Offers = append(resp.Offers, offerResponse{
			ID:          offer.ID,
			Offerer:     offer.Offerer.String(),
			Price:       offer.Price.String(),
			SubmittedAt: offer.SubmittedAt,
			ExpiresAt:   offer.ExpiresAt,
			TopBid:      i == 0,
		})
	}
	for _, entry := range info.History {
		historyEntry := historyEntryResponse{
			Event: string(entry.Event),
			From:  entry.From.String(),
			To:    entry.To.String(),
			At:    entry.At,
		}
		if entry.Price != nil {
			historyEntry.Price = entry.Price.String()
		}
		resp.History = append(resp.History, historyEntry)
	}
	if info.Split != nil {
		resp.Split = toSplitResponse(*info.Split)
	}
	return resp
}

func toSplitResponse(split domain.RoyaltySplit) *splitResponse {
	return &splitResponse{
		MarketplaceFee: split.MarketplaceFee.String(),
		CreatorRoyalty: split.CreatorRoyalty.String(),
		SellerProceeds: split.SellerProceeds.String(),
	}
}

func toRoyaltyReportResponse(report *application.CreatorRoyaltyReport) royaltyReportResponse {
	resp := royaltyReportResponse{
		Creator:      report.Creator.String(),
		Sales:        make([]saleRecordResponse, 0, len(report.Sales)),
		TotalVolume:  report.TotalVolume.String(),
		TotalRoyalty: report.TotalRoyalty.String(),
		TotalFees:    report.TotalFees.String(),
	}
	if report.Config != nil {
		resp.Config = &royaltyConfigResponse{
			StreamingPercentage: report.Config.StreamingPercentage.String(),
			NFTSaleShare:        report.Config.NFTSaleShare.String(),
		}
	}
	for _, sale := range report.Sales {
		resp.Sales = append(resp.Sales, saleRecordResponse{
			AssetID:   sale.AssetID,
			Event:     string(sale.Event),
			Seller:    sale.Seller.String(),
			Buyer:     sale.Buyer.String(),
			SalePrice: sale.SalePrice.String(),
			Split:     *toSplitResponse(sale.Split),
			At:        sale.At,
		})
	}
	return resp
}
