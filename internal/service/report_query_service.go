package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"incident-report-api/internal/models"
)

const (
	DefaultListLimit    = 100
	MaxListLimit        = 500
	DefaultNearbyRadius = 1000.0
	MaxNearbyRadius     = 50000.0
)

// ErrInvalidQuery marks read requests rejected because of their arguments
var ErrInvalidQuery = errors.New("invalid query")

// ReportQueryService contains the read-side logic for stored reports
type ReportQueryService struct {
	repo ReportQueryRepository
}

// ReportQueryRepository interface for dependency injection
type ReportQueryRepository interface {
	ListReports(ctx context.Context, limit int) ([]models.Report, error)
	FindReportByID(ctx context.Context, id int64) (*models.Report, error)
	FindReportsNear(ctx context.Context, lat, lon, radiusMeters float64, limit int) ([]models.NearbyReport, error)
}

// NewReportQueryService creates a new report query service
func NewReportQueryService(repo ReportQueryRepository) *ReportQueryService {
	return &ReportQueryService{repo: repo}
}

// ListReports returns the newest reports first. Non-positive limits select the default
func (s *ReportQueryService) ListReports(ctx context.Context, limit int) ([]models.Report, error) {
	reports, err := s.repo.ListReports(ctx, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("service: failed to list reports: %w", err)
	}
	return reports, nil
}

// GetReport returns a single report, or nil when it does not exist
func (s *ReportQueryService) GetReport(ctx context.Context, id int64) (*models.Report, error) {
	if id <= 0 {
		return nil, fmt.Errorf("service: %w: report id %d", ErrInvalidQuery, id)
	}

	report, err := s.repo.FindReportByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service: failed to find report: %w", err)
	}
	return report, nil
}

// FindNearby returns reports within radiusMeters of the given coordinates, nearest first
func (s *ReportQueryService) FindNearby(ctx context.Context, lat, lon, radiusMeters float64) ([]models.NearbyReport, error) {
	for _, v := range []float64{lat, lon, radiusMeters} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("service: %w: coordinates and radius must be finite", ErrInvalidQuery)
		}
	}
	if lat < -90 || lat > 90 {
		return nil, fmt.Errorf("service: %w: latitude %f", ErrInvalidQuery, lat)
	}
	if lon < -180 || lon > 180 {
		return nil, fmt.Errorf("service: %w: longitude %f", ErrInvalidQuery, lon)
	}
	if radiusMeters <= 0 {
		radiusMeters = DefaultNearbyRadius
	}
	if radiusMeters > MaxNearbyRadius {
		return nil, fmt.Errorf("service: %w: radius exceeds %.0f meters", ErrInvalidQuery, MaxNearbyRadius)
	}

	reports, err := s.repo.FindReportsNear(ctx, lat, lon, radiusMeters, DefaultListLimit)
	if err != nil {
		return nil, fmt.Errorf("service: failed to find nearby reports: %w", err)
	}
	return reports, nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}
