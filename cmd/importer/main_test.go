package main

import (
	"context"
	"strings"
	"testing"

	"incident-report-api/internal/geocoder"
	"incident-report-api/internal/models"
	"incident-report-api/internal/service"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockMessageHandler struct {
	mock.Mock
}

func (m *MockMessageHandler) Handle(ctx context.Context, senderID, text string) (*models.Report, error) {
	args := m.Called(ctx, senderID, text)
	return args.Get(0).(*models.Report), args.Error(1)
}

func TestReadMessages(t *testing.T) {
	input := "sender_id,text\n" +
		"U1,\"都道府県:東京都\n市区町村:千代田区\"\n" +
		" U2 ,概要:落下物\n"

	messages, err := readMessages(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []models.RawMessage{
		{SenderID: "U1", Text: "都道府県:東京都\n市区町村:千代田区"},
		{SenderID: "U2", Text: "概要:落下物"},
	}, messages)
}

func TestReadMessages_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty file", input: ""},
		{name: "wrong column count", input: "sender_id,text\nU1,a,b\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := readMessages(strings.NewReader(tt.input))
			assert.Error(t, err)
		})
	}
}

func TestImportMessages(t *testing.T) {
	messages := []models.RawMessage{
		{SenderID: "U1", Text: "ok"},
		{SenderID: "U2", Text: "missing"},
		{SenderID: "U3", Text: "nowhere"},
		{SenderID: "U4", Text: "ok too"},
	}

	h := new(MockMessageHandler)
	h.On("Handle", mock.Anything, "U1", "ok").Return(&models.Report{ID: 1}, nil)
	h.On("Handle", mock.Anything, "U2", "missing").Return((*models.Report)(nil), &service.ValidationError{Field: "prefecture"})
	h.On("Handle", mock.Anything, "U3", "nowhere").Return((*models.Report)(nil), &geocoder.ExhaustedError{Address: "nowhere", Candidates: 1})
	h.On("Handle", mock.Anything, "U4", "ok too").Return(&models.Report{ID: 2}, nil)

	summary, err := importMessages(context.Background(), h, messages, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, importSummary{Saved: 2, Rejected: 2}, summary)
	h.AssertExpectations(t)
}

func TestImportMessages_AbortsOnInfrastructureError(t *testing.T) {
	messages := []models.RawMessage{
		{SenderID: "U1", Text: "ok"},
		{SenderID: "U2", Text: "down"},
		{SenderID: "U3", Text: "never"},
	}

	h := new(MockMessageHandler)
	h.On("Handle", mock.Anything, "U1", "ok").Return(&models.Report{ID: 1}, nil)
	h.On("Handle", mock.Anything, "U2", "down").Return((*models.Report)(nil), &geocoder.TransportError{Address: "down", Err: assert.AnError})

	summary, err := importMessages(context.Background(), h, messages, zerolog.Nop())
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), "row 3")
	assert.Equal(t, importSummary{Saved: 1}, summary)
	h.AssertNotCalled(t, "Handle", mock.Anything, "U3", "never")
}
