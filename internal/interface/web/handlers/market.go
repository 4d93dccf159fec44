package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"

	"github.com/vinylmint/vinyld/internal/core/application"
	"github.com/vinylmint/vinyld/internal/core/domain"
)

const requestBodyLimit = 1 << 20 // 1 MiB

type MarketHandler struct {
	svc application.Service
}

func NewMarketHandler(svc application.Service) *MarketHandler {
	return &MarketHandler{svc}
}

func (h *MarketHandler) Mount(r chi.Router) {
	r.Route("/v1", func(r chi.Router) {
		r.Post("/assets", h.mintAsset)
		r.Get("/assets", h.getAssets)
		r.Route("/assets/{assetId}", func(r chi.Router) {
			r.Get("/", h.getAsset)
			r.Post("/list", h.listAsset)
			r.Post("/cancel", h.cancelListing)
			r.Post("/offers", h.placeOffer)
			r.Post("/offers/{offerId}/accept", h.acceptOffer)
			r.Post("/offers/{offerId}/decline", h.declineOffer)
		})
		r.Get("/creators/{creatorId}/royalties", h.royaltyReport)
	})
}

func (h *MarketHandler) mintAsset(w http.ResponseWriter, r *http.Request) {
	var req mintAssetRequest
	if err := decodeRequest(w, r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	creator, err := parsePrincipal("creator", req.Creator)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	edition, err := domain.ParseEdition(req.Edition)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	price, err := parsePrice(req.Price)
	if err != nil {
		writeBadRequest(w, err)
		return
	}

	info, err := h.svc.MintAsset(r.Context(), req.TrackID, creator, edition, req.RoyaltyPercent, price)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toAssetResponse(info))
}

func (h *MarketHandler) getAsset(w http.ResponseWriter, r *http.Request) {
	info, err := h.svc.GetAsset(r.Context(), chi.URLParam(r, "assetId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAssetResponse(info))
}

func (h *MarketHandler) getAssets(w http.ResponseWriter, r *http.Request) {
	infos, err := h.svc.GetAssets(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	assets := make([]assetResponse, 0, len(infos))
	for i := range infos {
		assets = append(assets, toAssetResponse(&infos[i]))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"assets": assets})
}

func (h *MarketHandler) listAsset(w http.ResponseWriter, r *http.Request) {
	var req listAssetRequest
	if err := decodeRequest(w, r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	caller, err := parsePrincipal("caller", req.Caller)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	kind, err := domain.ParseListingKind(req.Kind)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	price, err := parsePrice(req.Price)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	duration, err := parseDuration(req.DurationSeconds)
	if err != nil {
		writeBadRequest(w, err)
		return
	}

	info, err := h.svc.ListAsset(r.Context(), chi.URLParam(r, "assetId"), caller, kind, price, duration)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAssetResponse(info))
}

func (h *MarketHandler) cancelListing(w http.ResponseWriter, r *http.Request) {
	var req callerRequest
	if err := decodeRequest(w, r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	caller, err := parsePrincipal("caller", req.Caller)
	if err != nil {
		writeBadRequest(w, err)
		return
	}

	info, err := h.svc.CancelListing(r.Context(), chi.URLParam(r, "assetId"), caller)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAssetResponse(info))
}

func (h *MarketHandler) placeOffer(w http.ResponseWriter, r *http.Request) {
	var req placeOfferRequest
	if err := decodeRequest(w, r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	caller, err := parsePrincipal("caller", req.Caller)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	price, err := parsePrice(req.Price)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	duration, err := parseDuration(req.DurationSeconds)
	if err != nil {
		writeBadRequest(w, err)
		return
	}

	result, err := h.svc.PlaceOffer(r.Context(), chi.URLParam(r, "assetId"), caller, price, duration)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, placeOfferResponse{
		Asset:   toAssetResponse(result.Asset),
		Outcome: string(result.Outcome),
	})
}

func (h *MarketHandler) acceptOffer(w http.ResponseWriter, r *http.Request) {
	var req callerRequest
	if err := decodeRequest(w, r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	caller, err := parsePrincipal("caller", req.Caller)
	if err != nil {
		writeBadRequest(w, err)
		return
	}

	info, err := h.svc.AcceptOffer(
		r.Context(), chi.URLParam(r, "assetId"), chi.URLParam(r, "offerId"), caller,
	)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAssetResponse(info))
}

func (h *MarketHandler) declineOffer(w http.ResponseWriter, r *http.Request) {
	var req callerRequest
	if err := decodeRequest(w, r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	caller, err := parsePrincipal("caller", req.Caller)
	if err != nil {
		writeBadRequest(w, err)
		return
	}

	info, err := h.svc.DeclineOffer(
		r.Context(), chi.URLParam(r, "assetId"), chi.URLParam(r, "offerId"), caller,
	)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAssetResponse(info))
}

func (h *MarketHandler) royaltyReport(w http.ResponseWriter, r *http.Request) {
	creator, err := parsePrincipal("creator", chi.URLParam(r, "creatorId"))
	if err != nil {
		writeBadRequest(w, err)
		return
	}

	report, err := h.svc.RoyaltyReport(r.Context(), creator)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRoyaltyReportResponse(report))
}

func decodeRequest(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, requestBodyLimit)).Decode(dst)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.WithError(err).Warn("failed to write response")
	}
}

func writeBadRequest(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
}

func writeError(w http.ResponseWriter, err error) {
	var marketErr *domain.MarketError
	if !errors.As(err, &marketErr) {
		log.WithError(err).Error("unexpected error")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}

	status := http.StatusBadRequest
	switch marketErr.Code {
	case domain.ErrCodeNotOwner:
		status = http.StatusForbidden
	case domain.ErrCodeAssetNotFound, domain.ErrCodeOfferNotFound:
		status = http.StatusNotFound
	case domain.ErrCodeConflict:
		status = http.StatusConflict
	}
	writeJSON(w, status, errorResponse{Error: marketErr.Error(), Code: string(marketErr.Code)})
}
