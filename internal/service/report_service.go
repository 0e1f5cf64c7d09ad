package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"incident-report-api/internal/address"
	"incident-report-api/internal/models"
	"incident-report-api/internal/observability"
	"incident-report-api/internal/parser"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
)

// ReportRepository persists parsed reports
type ReportRepository interface {
	SaveReport(ctx context.Context, report *models.Report) (int64, error)
}

// AddressResolver turns fallback address candidates into coordinates
type AddressResolver interface {
	Resolve(ctx context.Context, original string, candidates []string) (models.GeoPoint, error)
}

// ReportService turns inbound incident messages into stored, geocoded reports
type ReportService struct {
	repo     ReportRepository
	resolver AddressResolver
	clock    clockwork.Clock
	metrics  *observability.Metrics
	logger   zerolog.Logger
}

// NewReportService creates a new report service
func NewReportService(repo ReportRepository, resolver AddressResolver, clock clockwork.Clock, metrics *observability.Metrics, logger zerolog.Logger) *ReportService {
	return &ReportService{
		repo:     repo,
		resolver: resolver,
		clock:    clock,
		metrics:  metrics,
		logger:   logger,
	}
}

// reportRun carries the intermediate state of one message through the pipeline
type reportRun struct {
	msg        models.RawMessage
	fields     models.ExtractedFields
	parts      models.AddressParts
	occurAt    *time.Time
	address    string
	candidates []string
	location   models.GeoPoint
}

// Handle parses, geocodes and stores one message. Nothing is stored when any
// step fails
func (s *ReportService) Handle(ctx context.Context, senderID, text string) (*models.Report, error) {
	report, err := s.handle(ctx, models.RawMessage{SenderID: senderID, Text: text})
	switch {
	case err == nil:
		s.metrics.Reports.WithLabelValues("saved").Inc()
	case IsRejected(err):
		s.metrics.Reports.WithLabelValues("rejected").Inc()
	default:
		s.metrics.Reports.WithLabelValues("failed").Inc()
	}
	return report, err
}

func (s *ReportService) handle(ctx context.Context, msg models.RawMessage) (*models.Report, error) {
	run := &reportRun{msg: msg}

	if strings.TrimSpace(msg.SenderID) == "" {
		return nil, &ValidationError{Field: "senderId"}
	}
	if strings.TrimSpace(msg.Text) == "" {
		return nil, &ValidationError{Field: "text"}
	}

	run.fields = parser.Extract(msg.Text)
	if err := run.collectAddress(); err != nil {
		return nil, err
	}

	if run.fields.OccurDate != nil {
		occurAt, err := parser.ParseOccurDate(*run.fields.OccurDate)
		if err != nil {
			return nil, err
		}
		run.occurAt = occurAt
	}

	normalized, ok := address.Normalize(address.Assemble(run.parts))
	if !ok {
		return nil, &ValidationError{Field: "address"}
	}
	run.address = normalized
	run.candidates = address.Fallbacks(run.address)
	if len(run.candidates) == 0 {
		return nil, &ValidationError{Field: "address"}
	}

	location, err := s.resolver.Resolve(ctx, run.address, run.candidates)
	if err != nil {
		return nil, err
	}
	run.location = location

	report := run.toReport(s.clock.Now())
	if len(run.fields.Tags) > models.MaxTagSlots {
		s.logger.Debug().
			Strs("tags", run.fields.Tags).
			Int("kept", models.MaxTagSlots).
			Msg("dropping tags beyond the available slots")
	}

	id, err := s.repo.SaveReport(ctx, report)
	if err != nil {
		return nil, fmt.Errorf("service: failed to save report: %w", err)
	}
	report.ID = id

	s.logger.Info().
		Int64("id", id).
		Str("user_id", report.UserID).
		Str("address", run.address).
		Float64("latitude", report.Latitude).
		Float64("longitude", report.Longitude).
		Msg("report saved")

	return report, nil
}

// collectAddress copies the address lines into parts, requiring the
// prefecture, municipality and district
func (r *reportRun) collectAddress() error {
	required := []struct {
		field string
		value *string
		dst   *string
	}{
		{"prefecture", r.fields.Prefecture, &r.parts.Prefecture},
		{"municipality", r.fields.Municipality, &r.parts.Municipality},
		{"district", r.fields.District, &r.parts.District},
	}
	for _, f := range required {
		if f.value == nil || strings.TrimSpace(*f.value) == "" {
			return &ValidationError{Field: f.field}
		}
		*f.dst = *f.value
	}
	if r.fields.AddressDetails != nil {
		r.parts.AddressDetails = *r.fields.AddressDetails
	}
	return nil
}

func (r *reportRun) parsed() models.ParsedReport {
	var summary string
	if r.fields.Summary != nil {
		summary = *r.fields.Summary
	}
	return models.ParsedReport{
		SenderID:      r.msg.SenderID,
		Tags:          r.fields.Tags,
		OccurDateTime: r.occurAt,
		Address:       r.parts,
		Location:      r.location,
		Summary:       summary,
	}
}

func (r *reportRun) toReport(created time.Time) *models.Report {
	p := r.parsed()

	var tags [models.MaxTagSlots]string
	copy(tags[:], p.Tags)

	return &models.Report{
		UserID:       p.SenderID,
		Tag1:         tags[0],
		Tag2:         tags[1],
		Tag3:         tags[2],
		OccurDate:    p.OccurDateTime,
		AddressParts: p.Address,
		Latitude:     p.Location.Latitude,
		Longitude:    p.Location.Longitude,
		Summary:      p.Summary,
		Created:      created,
	}
}
