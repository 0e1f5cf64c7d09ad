package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"incident-report-api/internal/models"
	"incident-report-api/internal/service"

	"github.com/gin-gonic/gin"
)

// ReportHandler serves stored reports
type ReportHandler struct {
	service ReportQueryService
}

// ReportQueryService interface for dependency injection
type ReportQueryService interface {
	ListReports(ctx context.Context, limit int) ([]models.Report, error)
	GetReport(ctx context.Context, id int64) (*models.Report, error)
	FindNearby(ctx context.Context, lat, lon, radiusMeters float64) ([]models.NearbyReport, error)
}

// NewReportHandler creates a new report handler
func NewReportHandler(svc ReportQueryService) *ReportHandler {
	return &ReportHandler{service: svc}
}

// ListReports handles GET /api/reports requests
//
//	@Summary	List reports, newest first
//	@Tags		reports
//	@Produce	json
//	@Param		limit	query		int	false	"maximum number of reports"
//	@Success	200		{array}		models.Report
//	@Failure	400		{object}	map[string]string
//	@Router		/api/reports [get]
func (h *ReportHandler) ListReports(c *gin.Context) {
	limit := 0
	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit format"})
			return
		}
		limit = n
	}

	reports, err := h.service.ListReports(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, reports)
}

// GetReport handles GET /api/reports/:id requests
//
//	@Summary	Get a single report
//	@Tags		reports
//	@Produce	json
//	@Param		id	path		int	true	"report id"
//	@Success	200	{object}	models.Report
//	@Failure	400	{object}	map[string]string
//	@Failure	404	{object}	map[string]string
//	@Router		/api/reports/{id} [get]
func (h *ReportHandler) GetReport(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid report id"})
		return
	}

	report, err := h.service.GetReport(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	if report == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "report not found"})
		return
	}

	c.JSON(http.StatusOK, report)
}

// NearbyReports handles GET /api/reports/nearby requests
//
//	@Summary	Reports near a coordinate, nearest first
//	@Tags		reports
//	@Produce	json
//	@Param		lat		query		number	true	"latitude"
//	@Param		lon		query		number	true	"longitude"
//	@Param		radius	query		number	false	"radius in meters"
//	@Success	200		{array}		models.NearbyReport
//	@Failure	400		{object}	map[string]string
//	@Router		/api/reports/nearby [get]
func (h *ReportHandler) NearbyReports(c *gin.Context) {
	latStr := c.Query("lat")
	lonStr := c.Query("lon")

	if latStr == "" || lonStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required query parameters 'lat' and 'lon'"})
		return
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid latitude format"})
		return
	}

	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid longitude format"})
		return
	}

	var radius float64
	if s := c.Query("radius"); s != "" {
		radius, err = strconv.ParseFloat(s, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid radius format"})
			return
		}
	}

	reports, err := h.service.FindNearby(c.Request.Context(), lat, lon, radius)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, reports)
}

func respondError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrInvalidQuery) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}
