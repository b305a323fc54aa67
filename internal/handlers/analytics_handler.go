package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/k1llushka/vtb-finance-tracker1/internal/errors"
	"github.com/k1llushka/vtb-finance-tracker1/internal/pagination"
	"github.com/k1llushka/vtb-finance-tracker1/internal/services"
)

// AnalyticsHandler handles advisory recommendation requests.
type AnalyticsHandler struct {
	recommendationService services.RecommendationServicer
}

// NewAnalyticsHandler creates a new AnalyticsHandler.
func NewAnalyticsHandler(recommendationService services.RecommendationServicer) *AnalyticsHandler {
	return &AnalyticsHandler{recommendationService: recommendationService}
}

// GetRecommendations regenerates and returns the user's current
// recommendation set over the requested period.
// @Summary     Get recommendations
// @Description Re-evaluate the advisory rules over the period and return the fresh recommendation set
// @Tags        analytics
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       period query string false "Analysis period (week/month/year, default trailing 30 days)"
// @Success     200 {object} map[string]interface{} "Current recommendations"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /analytics/recommendations [get]
func (h *AnalyticsHandler) GetRecommendations(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	from, to := services.ResolvePeriod(c.Query("period"), time.Now())

	recommendations, err := h.recommendationService.Generate(userID, from, to)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"recommendations": recommendations,
		"period": gin.H{
			"from": from,
			"to":   to,
		},
	})
}

// GetRecommendationHistory returns the stored recommendation set.
// @Summary     Get recommendation history
// @Description Get the stored recommendations from the most recent evaluation, newest first
// @Tags        analytics
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Recommendation] "Stored recommendations"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /analytics/recommendations/history [get]
func (h *AnalyticsHandler) GetRecommendationHistory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.recommendationService.ListHistory(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
