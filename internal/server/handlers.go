package server

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hmalvik/matchflow/internal/engine"
	"github.com/hmalvik/matchflow/internal/model"
)

// envelope is the uniform JSON response shape.
type envelope struct {
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Success bool   `json:"success"`
}

func okEnvelope(data any) envelope {
	return envelope{Success: true, Data: data}
}

func errorEnvelope(msg string) envelope {
	return envelope{Success: false, Error: msg}
}

// matchRequestPayload is the wire form of a single match request.
type matchRequestPayload struct {
	SearchName    string  `json:"searchName"`
	VendorName    string  `json:"vendorName"`
	PONumber      string  `json:"poNumber"`
	VendorUID     string  `json:"vendorUid"`
	PurchaseDate  string  `json:"purchaseDate"`
	MinConfidence float64 `json:"minConfidence"`
}

// batchRequestPayload is the wire form of a bulk match request.
type batchRequestPayload struct {
	MessageIDs []string `json:"messageIds"`
}

// matchResponse carries the scored candidates for one request.
type matchResponse struct {
	BestMatch *model.ProductMatch  `json:"bestMatch"`
	Matches   []model.ProductMatch `json:"matches"`
}

// batchResponse carries the batch outcome for operational consumers.
type batchResponse struct {
	Summary model.BatchSummary `json:"summary"`
	Results []model.BatchItem  `json:"results"`
}

// HealthCheck returns the health status of the API.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "matchflow",
	})
}

// SingleMatch scores one search request against the candidate pool.
func (h *Handler) SingleMatch(c *gin.Context) {
	var payload matchRequestPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, errorEnvelope("invalid request body: "+err.Error()))
		return
	}

	req := model.MatchRequest{
		SearchName:    payload.SearchName,
		VendorName:    payload.VendorName,
		PONumber:      payload.PONumber,
		VendorUID:     payload.VendorUID,
		MinConfidence: payload.MinConfidence,
	}

	if payload.PurchaseDate != "" {
		d, err := time.Parse("2006-01-02", payload.PurchaseDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorEnvelope("invalid purchaseDate, expected YYYY-MM-DD"))
			return
		}
		req.PurchaseDate = &d
	}

	matches, best, err := h.engine.Match(c.Request.Context(), req)
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, engine.ErrEmptySearchName) {
			status = http.StatusBadRequest
		}
		c.JSON(status, errorEnvelope(err.Error()))
		return
	}

	if matches == nil {
		matches = []model.ProductMatch{}
	}
	c.JSON(http.StatusOK, okEnvelope(matchResponse{Matches: matches, BestMatch: best}))
}

// BatchMatch runs the orchestrator over a list of message IDs.
func (h *Handler) BatchMatch(c *gin.Context) {
	var payload batchRequestPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, errorEnvelope("invalid request body: "+err.Error()))
		return
	}

	result, err := h.engine.RunBatch(c.Request.Context(), payload.MessageIDs)
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, engine.ErrNoMessageIDs) {
			status = http.StatusBadRequest
		}
		c.JSON(status, errorEnvelope(err.Error()))
		return
	}

	c.JSON(http.StatusOK, okEnvelope(batchResponse{
		Summary: result.Summary,
		Results: result.Items,
	}))
}

// ListMatches returns persisted match records filtered by status.
func (h *Handler) ListMatches(c *gin.Context) {
	status := model.MatchStatus(c.DefaultQuery("status", string(model.MatchStatusPending)))
	switch status {
	case model.MatchStatusPending, model.MatchStatusApproved:
	default:
		c.JSON(http.StatusBadRequest, errorEnvelope("invalid status, expected PENDING or APPROVED"))
		return
	}

	limit := 100
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, errorEnvelope("invalid limit"))
			return
		}
		limit = parsed
	}

	records, err := h.storage.GetMatchesByStatus(c.Request.Context(), status, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorEnvelope(err.Error()))
		return
	}

	if records == nil {
		records = []model.MatchRecord{}
	}
	c.JSON(http.StatusOK, okEnvelope(records))
}
