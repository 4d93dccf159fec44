package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/vinylmint/vinyld/internal/core/application"
	"github.com/vinylmint/vinyld/internal/infrastructure/db"
	inmemorylivestore "github.com/vinylmint/vinyld/internal/infrastructure/live-store/inmemory"
	timescheduler "github.com/vinylmint/vinyld/internal/infrastructure/scheduler/gocron"
	"github.com/vinylmint/vinyld/internal/interface/web/handlers"
)

func setupServer(t *testing.T) *httptest.Server {
	t.Helper()

	repoManager, err := db.NewService(db.ServiceConfig{
		DataStoreType:   "badger",
		DataStoreConfig: []interface{}{"", nil},
	})
	require.NoError(t, err)

	svc, err := application.NewService(
		repoManager, inmemorylivestore.NewLiveStore(), timescheduler.NewScheduler(),
		time.Second, nil,
	)
	require.NoError(t, err)
	t.Cleanup(svc.Stop)

	router := chi.NewRouter()
	handlers.NewMarketHandler(svc).Mount(router)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func doRequest(
	t *testing.T, srv *httptest.Server, method, path string, body interface{},
) (*http.Response, map[string]interface{}) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(buf)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, srv.URL+path, reader)
	require.NoError(t, err)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() {
		// nolint:all
		resp.Body.Close()
	})

	var parsed map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	return resp, parsed
}

func mintAsset(t *testing.T, srv *httptest.Server) string {
	t.Helper()

	resp, body := doRequest(t, srv, http.MethodPost, "/v1/assets", map[string]interface{}{
		"trackId":        "track-001",
		"creator":        "alice",
		"edition":        "Unique",
		"royaltyPercent": 10,
		"price":          "100",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	id, ok := body["id"].(string)
	require.True(t, ok)
	require.NotEmpty(t, id)
	return id
}

func TestMintAndGetAsset(t *testing.T) {
	srv := setupServer(t)

	id := mintAsset(t, srv)

	resp, body := doRequest(t, srv, http.MethodGet, "/v1/assets/"+id, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "alice", body["owner"])
	require.Equal(t, "alice", body["creator"])
	require.Equal(t, float64(1), body["version"])

	resp, body = doRequest(t, srv, http.MethodGet, "/v1/assets/missing", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Equal(t, "ASSET_NOT_FOUND", body["code"])
}

func TestFixedPricePurchase(t *testing.T) {
	srv := setupServer(t)

	id := mintAsset(t, srv)

	resp, _ := doRequest(t, srv, http.MethodPost, "/v1/assets/"+id+"/list", map[string]interface{}{
		"caller": "alice",
		"kind":   "fixed",
		"price":  "100",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := doRequest(t, srv, http.MethodPost, "/v1/assets/"+id+"/offers", map[string]interface{}{
		"caller": "bob",
		"price":  "100",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "Purchased", body["outcome"])

	asset, ok := body["asset"].(map[string]interface{})
	require.True(t, ok)
	require.Equal(t, "bob", asset["owner"])

	split, ok := asset["split"].(map[string]interface{})
	require.True(t, ok)
	require.Equal(t, "2.5", split["marketplaceFee"])
	require.Equal(t, "10", split["creatorRoyalty"])
	require.Equal(t, "87.5", split["sellerProceeds"])
}

func TestErrorMapping(t *testing.T) {
	srv := setupServer(t)

	id := mintAsset(t, srv)

	// Listing by a non-owner is forbidden.
	resp, body := doRequest(t, srv, http.MethodPost, "/v1/assets/"+id+"/list", map[string]interface{}{
		"caller": "bob",
		"kind":   "fixed",
		"price":  "100",
	})
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	require.Equal(t, "NOT_OWNER", body["code"])

	// Offers against an unlisted asset are rejected.
	resp, body = doRequest(t, srv, http.MethodPost, "/v1/assets/"+id+"/offers", map[string]interface{}{
		"caller": "bob",
		"price":  "100",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "NOT_LISTED", body["code"])

	resp, _ = doRequest(t, srv, http.MethodPost, "/v1/assets/"+id+"/list", map[string]interface{}{
		"caller": "alice",
		"kind":   "fixed",
		"price":  "100",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Below-ask offer on a fixed listing.
	resp, body = doRequest(t, srv, http.MethodPost, "/v1/assets/"+id+"/offers", map[string]interface{}{
		"caller": "bob",
		"price":  "50",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "BID_TOO_LOW", body["code"])

	// Accepting an unknown offer.
	resp, body = doRequest(
		t, srv, http.MethodPost, "/v1/assets/"+id+"/offers/unknown/accept",
		map[string]interface{}{"caller": "alice"},
	)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Equal(t, "OFFER_NOT_FOUND", body["code"])

	// Malformed price never reaches the engine.
	resp, _ = doRequest(t, srv, http.MethodPost, "/v1/assets/"+id+"/offers", map[string]interface{}{
		"caller": "bob",
		"price":  "not-a-number",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAuctionOverRest(t *testing.T) {
	srv := setupServer(t)

	id := mintAsset(t, srv)

	resp, body := doRequest(t, srv, http.MethodPost, "/v1/assets/"+id+"/list", map[string]interface{}{
		"caller":          "alice",
		"kind":            "auction",
		"price":           "5",
		"durationSeconds": 3600,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "Live", body["auctionStatus"])
	require.NotEmpty(t, body["countdown"])

	resp, body = doRequest(t, srv, http.MethodPost, "/v1/assets/"+id+"/offers", map[string]interface{}{
		"caller": "bob",
		"price":  "5.25",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "BidAccepted", body["outcome"])

	asset, ok := body["asset"].(map[string]interface{})
	require.True(t, ok)
	offers, ok := asset["offers"].([]interface{})
	require.True(t, ok)
	require.Len(t, offers, 1)
	topOffer, ok := offers[0].(map[string]interface{})
	require.True(t, ok)
	require.Equal(t, true, topOffer["topBid"])
	offerID, ok := topOffer["id"].(string)
	require.True(t, ok)

	path := fmt.Sprintf("/v1/assets/%s/offers/%s/accept", id, offerID)
	resp, body = doRequest(t, srv, http.MethodPost, path, map[string]interface{}{
		"caller": "alice",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "bob", body["owner"])
}

func TestRoyaltyReportOverRest(t *testing.T) {
	srv := setupServer(t)

	id := mintAsset(t, srv)
	resp, _ := doRequest(t, srv, http.MethodPost, "/v1/assets/"+id+"/list", map[string]interface{}{
		"caller": "alice",
		"kind":   "fixed",
		"price":  "100",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = doRequest(t, srv, http.MethodPost, "/v1/assets/"+id+"/offers", map[string]interface{}{
		"caller": "bob",
		"price":  "100",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := doRequest(t, srv, http.MethodGet, "/v1/creators/alice/royalties", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "alice", body["creator"])
	require.Equal(t, "100", body["totalVolume"])
	require.Equal(t, "10", body["totalRoyalty"])
	require.Equal(t, "2.5", body["totalFees"])
}
