package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/botanex/marketplace-backend/internal/http/response"
	"github.com/botanex/marketplace-backend/internal/logger"
	"github.com/botanex/marketplace-backend/internal/repos"
	"github.com/botanex/marketplace-backend/internal/services"
)

type IntelHandler struct {
	log       *logger.Logger
	intelSvc  services.IntelService
	marketSvc services.MarketService
}

func NewIntelHandler(log *logger.Logger, intelSvc services.IntelService, marketSvc services.MarketService) *IntelHandler {
	return &IntelHandler{
		log:       log.With("handler", "IntelHandler"),
		intelSvc:  intelSvc,
		marketSvc: marketSvc,
	}
}

// POST /api/intel/matches/generate
// Runs match generation synchronously and returns its counts. Optional
// ?product_id= narrows the scope to one product.
func (h *IntelHandler) GenerateMatches(c *gin.Context) {
	var productID *uuid.UUID
	if raw := c.Query("product_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_product_id", err)
			return
		}
		productID = &id
	}
	result, err := h.intelSvc.GenerateMatches(c.Request.Context(), productID)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "match_generation_failed", err)
		return
	}
	response.RespondOK(c, result)
}

// GET /api/intel/matches
func (h *IntelHandler) ListMatches(c *gin.Context) {
	filter := repos.MatchFilter{
		Status: c.Query("status"),
		Limit:  intQuery(c, "limit", 50),
		Offset: intQuery(c, "offset", 0),
	}
	if raw := c.Query("buyer_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_buyer_id", err)
			return
		}
		filter.BuyerID = &id
	}
	if raw := c.Query("min_score"); raw != "" {
		min, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_min_score", err)
			return
		}
		filter.MinScore = &min
	}
	matches, total, err := h.intelSvc.GetMatches(c.Request.Context(), filter)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "list_matches_failed", err)
		return
	}
	response.RespondOK(c, gin.H{
		"matches": matches,
		"total":   total,
		"limit":   filter.Limit,
		"offset":  filter.Offset,
	})
}

// POST /api/intel/matches/:id/dismiss
func (h *IntelHandler) DismissMatch(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_match_id", err)
		return
	}
	if err := h.intelSvc.DismissMatch(c.Request.Context(), id); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			response.RespondError(c, http.StatusNotFound, "match_not_found", err)
			return
		}
		response.RespondError(c, http.StatusInternalServerError, "dismiss_match_failed", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// POST /api/intel/churn/run
func (h *IntelHandler) RunChurnDetection(c *gin.Context) {
	result, err := h.intelSvc.RunChurnDetection(c.Request.Context())
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "churn_detection_failed", err)
		return
	}
	response.RespondOK(c, result)
}

// GET /api/intel/churn/at-risk
func (h *IntelHandler) ListAtRiskBuyers(c *gin.Context) {
	signals, err := h.intelSvc.GetAtRiskBuyers(c.Request.Context(), c.Query("min_risk_level"), intQuery(c, "limit", 100))
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "list_at_risk_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"signals": signals})
}

// POST /api/intel/predictions/run
func (h *IntelHandler) RunReorderPrediction(c *gin.Context) {
	result, err := h.intelSvc.RunReorderPrediction(c.Request.Context())
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "reorder_prediction_failed", err)
		return
	}
	response.RespondOK(c, result)
}

// GET /api/intel/predictions
func (h *IntelHandler) ListPredictions(c *gin.Context) {
	preds, err := h.intelSvc.GetPredictions(c.Request.Context(), intQuery(c, "days", 30), c.Query("type"))
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "list_predictions_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"predictions": preds})
}

// POST /api/intel/sellers/recalculate
func (h *IntelHandler) RecalculateSellerScores(c *gin.Context) {
	result, err := h.intelSvc.RecalculateSellerScores(c.Request.Context())
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "seller_scoring_failed", err)
		return
	}
	response.RespondOK(c, result)
}

// GET /api/intel/sellers/:id/score
func (h *IntelHandler) GetSellerScore(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_seller_id", err)
		return
	}
	score, err := h.intelSvc.GetSellerScore(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			response.RespondError(c, http.StatusNotFound, "seller_score_not_found", err)
			return
		}
		response.RespondError(c, http.StatusInternalServerError, "get_seller_score_failed", err)
		return
	}
	response.RespondOK(c, score)
}

// GET /api/intel/market/:category
func (h *IntelHandler) GetMarketContext(c *gin.Context) {
	category := c.Param("category")
	if category == "" {
		response.RespondError(c, http.StatusBadRequest, "missing_category", errors.New("category is required"))
		return
	}
	mc, err := h.marketSvc.GetMarketContext(c.Request.Context(), category)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "market_context_failed", err)
		return
	}
	response.RespondOK(c, mc)
}

// GET /api/intel/dashboard
func (h *IntelHandler) GetDashboard(c *gin.Context) {
	dash, err := h.intelSvc.GetDashboard(c.Request.Context())
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "dashboard_failed", err)
		return
	}
	response.RespondOK(c, dash)
}

func intQuery(c *gin.Context, key string, defaultVal int) int {
	raw := c.Query(key)
	if raw == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return defaultVal
	}
	return v
}
