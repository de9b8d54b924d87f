package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hmalvik/matchflow/internal/engine"
	"github.com/hmalvik/matchflow/internal/model"
	"github.com/hmalvik/matchflow/internal/testutil"
)

func newTestRouter(t *testing.T) (*gin.Engine, *testutil.TestDB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.SetupTestDB(t)
	e := engine.New(db.Storage)
	handler := NewHandler(e, db.Storage)

	cfg := DefaultConfig()
	cfg.RateLimit = 0 // keep tests deterministic
	return SetupRouter(cfg, handler), db
}

func postJSON(t *testing.T, router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealthCheck(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestSingleMatchEndpoint(t *testing.T) {
	router, db := newTestRouter(t)
	db.SeedProducts(
		model.Product{ID: "p1", Name: "Acme Widget 500", PurchaseOrderRef: "Invoice #PO123-X"},
		model.Product{ID: "p2", Name: "Unrelated Thing"},
	)

	w := postJSON(t, router, "/api/v1/match", map[string]any{
		"searchName": "Acme Widget 500",
		"poNumber":   "PO123",
	})

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			BestMatch *model.ProductMatch  `json:"bestMatch"`
			Matches   []model.ProductMatch `json:"matches"`
		} `json:"data"`
		Error   string `json:"error"`
		Success bool   `json:"success"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.True(t, resp.Success)
	require.NotNil(t, resp.Data.BestMatch)
	assert.Equal(t, "p1", resp.Data.BestMatch.CandidateID)
	assert.Equal(t, 1, resp.Data.BestMatch.PriorityTier)
	assert.InDelta(t, 1.0, resp.Data.BestMatch.Confidence, 1e-9)
}

func TestSingleMatchValidation(t *testing.T) {
	router, _ := newTestRouter(t)

	w := postJSON(t, router, "/api/v1/match", map[string]any{"searchName": ""})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "search name is required")
}

func TestSingleMatchBadDate(t *testing.T) {
	router, _ := newTestRouter(t)

	w := postJSON(t, router, "/api/v1/match", map[string]any{
		"searchName":   "Widget",
		"purchaseDate": "14-03-2025",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "purchaseDate")
}

func TestBatchMatchEndpoint(t *testing.T) {
	router, db := newTestRouter(t)
	db.SeedProducts(model.Product{ID: "p1", Name: "Acme Widget 500"})
	db.SeedMessages(
		model.Message{ID: "m1", Caption: "Acme Widget 500", NeedsReview: true},
		model.Message{ID: "m2", Caption: "no match for this caption at all", NeedsReview: true},
	)

	w := postJSON(t, router, "/api/v1/match/batch", map[string]any{
		"messageIds": []string{"m1", "m2"},
	})

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			Summary model.BatchSummary `json:"summary"`
			Results []model.BatchItem  `json:"results"`
		} `json:"data"`
		Success bool `json:"success"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.True(t, resp.Success)
	assert.Equal(t, 2, resp.Data.Summary.Total)
	assert.Equal(t, 1, resp.Data.Summary.Matched)
	assert.Equal(t, 1, resp.Data.Summary.Unmatched)
	require.Len(t, resp.Data.Results, 2)
	assert.True(t, resp.Data.Results[0].AutoApplied)
}

func TestBatchMatchValidation(t *testing.T) {
	router, _ := newTestRouter(t)

	w := postJSON(t, router, "/api/v1/match/batch", map[string]any{
		"messageIds": []string{},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListMatches(t *testing.T) {
	router, db := newTestRouter(t)
	db.SeedProducts(model.Product{ID: "p1", Name: "Acme Widget 500"})
	db.SeedMessages(model.Message{ID: "m1", Caption: "Acme Widget 500", NeedsReview: true})

	// Run a batch to create an approved record.
	w := postJSON(t, router, "/api/v1/match/batch", map[string]any{
		"messageIds": []string{"m1"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/matches?status=APPROVED", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data    []model.MatchRecord `json:"data"`
		Success bool                `json:"success"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "m1", resp.Data[0].MessageID)
	assert.True(t, resp.Data[0].Applied)
}

func TestListMatchesBadStatus(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/matches?status=WEIRD", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
