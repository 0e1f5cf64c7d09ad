package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"incident-report-api/internal/geocoder"
	"incident-report-api/internal/models"
	"incident-report-api/internal/observability"
	"incident-report-api/internal/parser"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockReportRepository is a mock implementation of the ReportRepository interface
type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) SaveReport(ctx context.Context, report *models.Report) (int64, error) {
	args := m.Called(ctx, report)
	return args.Get(0).(int64), args.Error(1)
}

// stubProvider answers geocoding requests from a fixed table and records every call
type stubProvider struct {
	responses map[string]geocoder.Response
	err       error
	calls     []string
}

func (p *stubProvider) Geocode(_ context.Context, address string) (geocoder.Response, error) {
	p.calls = append(p.calls, address)
	if p.err != nil {
		return geocoder.Response{}, p.err
	}
	if resp, ok := p.responses[address]; ok {
		return resp, nil
	}
	return geocoder.Response{Status: geocoder.StatusZeroResults}, nil
}

var createdAt = time.Date(2025, 9, 9, 8, 0, 0, 0, time.UTC)

const fullMessage = "タグ:不審な声かけ、撮影行為\n" +
	"日時:2025年9月8日午後6時10分\n" +
	"都道府県:東京都\n" +
	"市区町村:千代田区\n" +
	"丁目:丸の内１丁目\n" +
	"番地以降:９－１\n" +
	"概要:下校中の児童に声をかける男性"

func okResult(lat, lng float64, types ...string) geocoder.Response {
	return geocoder.Response{Status: geocoder.StatusOK, Results: []geocoder.Result{{
		Types:    types,
		Geometry: &geocoder.Geometry{Location: &geocoder.LatLng{Lat: lat, Lng: lng}},
	}}}
}

func newTestService(repo ReportRepository, provider geocoder.Provider) (*ReportService, *observability.Metrics) {
	metrics := observability.NewMetricsForTesting()
	resolver := geocoder.NewResolver(provider, metrics, zerolog.Nop())
	svc := NewReportService(repo, resolver, clockwork.NewFakeClockAt(createdAt), metrics, zerolog.Nop())
	return svc, metrics
}

func TestReportService_Handle_ResolvesOnThirdCandidate(t *testing.T) {
	provider := &stubProvider{responses: map[string]geocoder.Response{
		"東京都千代田区丸の内1丁目9-1": {Status: geocoder.StatusOK, Results: []geocoder.Result{{
			PartialMatch: true,
			Geometry:     &geocoder.Geometry{Location: &geocoder.LatLng{Lat: 1, Lng: 1}},
		}}},
		"東京都千代田区丸の内1丁目9": okResult(2, 2, "route"),
		"東京都千代田区丸の内1丁目":  okResult(35.681236, 139.767125, "sublocality"),
	}}

	var saved *models.Report
	repo := new(MockReportRepository)
	repo.On("SaveReport", mock.Anything, mock.AnythingOfType("*models.Report")).
		Run(func(args mock.Arguments) { saved = args.Get(1).(*models.Report) }).
		Return(int64(42), nil)

	svc, _ := newTestService(repo, provider)
	report, err := svc.Handle(context.Background(), "U123", fullMessage)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"東京都千代田区丸の内1丁目9-1",
		"東京都千代田区丸の内1丁目9",
		"東京都千代田区丸の内1丁目",
	}, provider.calls)

	occur := time.Date(2025, 9, 8, 18, 10, 0, 0, parser.JST)
	expected := &models.Report{
		ID:        42,
		UserID:    "U123",
		Tag1:      "不審な声かけ",
		Tag2:      "撮影行為",
		OccurDate: &occur,
		AddressParts: models.AddressParts{
			Prefecture:     "東京都",
			Municipality:   "千代田区",
			District:       "丸の内１丁目",
			AddressDetails: "９－１",
		},
		Latitude:  35.681236,
		Longitude: 139.767125,
		Summary:   "下校中の児童に声をかける男性",
		Created:   createdAt,
	}
	assert.Equal(t, expected, report)
	assert.Same(t, saved, report)
	repo.AssertExpectations(t)
}

func TestReportService_Handle_Validation(t *testing.T) {
	tests := []struct {
		name     string
		senderID string
		text     string
		field    string
	}{
		{
			name:     "blank sender",
			senderID: "  ",
			text:     fullMessage,
			field:    "senderId",
		},
		{
			name:     "blank text",
			senderID: "U123",
			text:     "\n \n",
			field:    "text",
		},
		{
			name:     "missing municipality line",
			senderID: "U123",
			text:     "都道府県:東京都\n丁目:丸の内1丁目",
			field:    "municipality",
		},
		{
			name:     "missing prefecture line",
			senderID: "U123",
			text:     "市区町村:千代田区\n丁目:丸の内1丁目",
			field:    "prefecture",
		},
		{
			name:     "district without value",
			senderID: "U123",
			text:     "都道府県:東京都\n市区町村:千代田区\n丁目:",
			field:    "district",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &stubProvider{}
			repo := new(MockReportRepository)
			svc, _ := newTestService(repo, provider)

			report, err := svc.Handle(context.Background(), tt.senderID, tt.text)
			assert.Nil(t, report)

			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tt.field, validationErr.Field)
			assert.True(t, IsRejected(err))
			assert.Empty(t, provider.calls)
			repo.AssertNotCalled(t, "SaveReport", mock.Anything, mock.Anything)
		})
	}
}

func TestReportService_Handle_MalformedDate(t *testing.T) {
	provider := &stubProvider{}
	repo := new(MockReportRepository)
	svc, _ := newTestService(repo, provider)

	text := "日時:先週の金曜日\n都道府県:東京都\n市区町村:千代田区\n丁目:丸の内1丁目"
	_, err := svc.Handle(context.Background(), "U123", text)

	var dateErr *parser.DateFormatError
	require.ErrorAs(t, err, &dateErr)
	assert.Equal(t, "先週の金曜日", dateErr.Input)
	assert.True(t, IsRejected(err))
	assert.Empty(t, provider.calls)
	repo.AssertNotCalled(t, "SaveReport", mock.Anything, mock.Anything)
}

func TestReportService_Handle_OptionalFieldsAbsent(t *testing.T) {
	provider := &stubProvider{responses: map[string]geocoder.Response{
		"東京都港区赤坂1丁目": okResult(35.67, 139.73),
	}}
	repo := new(MockReportRepository)
	repo.On("SaveReport", mock.Anything, mock.AnythingOfType("*models.Report")).Return(int64(7), nil)
	svc, _ := newTestService(repo, provider)

	report, err := svc.Handle(context.Background(), "U123", "都道府県:東京都\n市区町村:港区\n丁目:赤坂1丁目")
	require.NoError(t, err)

	assert.Nil(t, report.OccurDate)
	assert.Empty(t, report.Tag1)
	assert.Empty(t, report.AddressDetails)
	assert.Empty(t, report.Summary)
	assert.Equal(t, []string{"東京都港区赤坂1丁目"}, provider.calls)
}

func TestReportService_Handle_KeepsFirstThreeTags(t *testing.T) {
	provider := &stubProvider{responses: map[string]geocoder.Response{
		"東京都港区赤坂1丁目": okResult(35.67, 139.73),
	}}
	repo := new(MockReportRepository)
	repo.On("SaveReport", mock.Anything, mock.AnythingOfType("*models.Report")).Return(int64(8), nil)
	svc, _ := newTestService(repo, provider)

	text := "タグ:つきまとい、不審な声かけ、撮影行為、露出\n都道府県:東京都\n市区町村:港区\n丁目:赤坂1丁目"
	report, err := svc.Handle(context.Background(), "U123", text)
	require.NoError(t, err)

	assert.Equal(t, "つきまとい", report.Tag1)
	assert.Equal(t, "不審な声かけ", report.Tag2)
	assert.Equal(t, "撮影行為", report.Tag3)
}

func TestReportService_Handle_GeocodingExhausted(t *testing.T) {
	provider := &stubProvider{}
	repo := new(MockReportRepository)
	svc, metrics := newTestService(repo, provider)

	_, err := svc.Handle(context.Background(), "U123", fullMessage)

	var exhausted *geocoder.ExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, "東京都千代田区丸の内1丁目9-1", exhausted.Address)
	assert.Len(t, provider.calls, 4)
	assert.True(t, IsRejected(err))
	assert.Equal(t, float64(1), counterValue(t, metrics.Reports.WithLabelValues("rejected")))
	repo.AssertNotCalled(t, "SaveReport", mock.Anything, mock.Anything)
}

func TestReportService_Handle_TransportError(t *testing.T) {
	provider := &stubProvider{err: context.DeadlineExceeded}
	repo := new(MockReportRepository)
	svc, metrics := newTestService(repo, provider)

	_, err := svc.Handle(context.Background(), "U123", fullMessage)

	var transport *geocoder.TransportError
	require.ErrorAs(t, err, &transport)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Len(t, provider.calls, 1)
	assert.False(t, IsRejected(err))
	assert.Equal(t, float64(1), counterValue(t, metrics.Reports.WithLabelValues("failed")))
	repo.AssertNotCalled(t, "SaveReport", mock.Anything, mock.Anything)
}

func TestReportService_Handle_SaveError(t *testing.T) {
	provider := &stubProvider{responses: map[string]geocoder.Response{
		"東京都千代田区丸の内1丁目9-1": okResult(35.68, 139.76),
	}}
	repo := new(MockReportRepository)
	repo.On("SaveReport", mock.Anything, mock.Anything).Return(int64(0), errors.New("connection reset"))
	svc, _ := newTestService(repo, provider)

	report, err := svc.Handle(context.Background(), "U123", fullMessage)
	assert.Nil(t, report)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to save report")
	assert.False(t, IsRejected(err))
}
