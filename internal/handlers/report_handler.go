package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/k1llushka/vtb-finance-tracker1/internal/services"
)

// ReportHandler handles reporting and chart data requests.
type ReportHandler struct {
	reportService services.ReportServicer
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService services.ReportServicer) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// GetStatistics returns aggregate totals for the requested period.
// @Summary     Get statistics
// @Description Get income/expense totals, balance, and averages for the period
// @Tags        reports
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       period query string false "Reporting period (week/month/year, default trailing 30 days)"
// @Success     200 {object} services.Statistics "Aggregate statistics"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /reports/statistics [get]
func (h *ReportHandler) GetStatistics(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	from, to := services.ResolvePeriod(c.Query("period"), time.Now())

	stats, err := h.reportService.GetStatistics(userID, from, to)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"statistics": stats,
		"period": gin.H{
			"from": from,
			"to":   to,
		},
	})
}

// GetCategoryBreakdown returns per-category expense totals for charting.
// @Summary     Get category breakdown
// @Description Get expense totals grouped by category, largest first
// @Tags        reports
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       period query string false "Reporting period (week/month/year, default trailing 30 days)"
// @Success     200 {object} map[string]interface{} "Category totals"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /reports/categories [get]
func (h *ReportHandler) GetCategoryBreakdown(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	from, to := services.ResolvePeriod(c.Query("period"), time.Now())

	breakdown, err := h.reportService.GetCategoryBreakdown(userID, from, to)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": breakdown})
}

// GetTimeSeries returns a zero-filled income/expense chart series.
// @Summary     Get time series
// @Description Get a gap-free income/expense/balance series, daily for short periods and monthly for long ones
// @Tags        reports
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       period query string false "Reporting period (week/month/year, default trailing 30 days)"
// @Success     200 {object} services.TimeSeries "Chart series"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /reports/timeseries [get]
func (h *ReportHandler) GetTimeSeries(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	from, to := services.ResolvePeriod(c.Query("period"), time.Now())

	series, err := h.reportService.GetTimeSeries(userID, from, to)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"series": series})
}
