package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"incident-report-api/internal/config"
	"incident-report-api/internal/geocoder"
	"incident-report-api/internal/models"
	"incident-report-api/internal/observability"
	"incident-report-api/internal/repository"
	"incident-report-api/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// MessageHandler runs one message through the report pipeline
type MessageHandler interface {
	Handle(ctx context.Context, senderID, text string) (*models.Report, error)
}

type importSummary struct {
	Saved    int
	Rejected int
}

func main() {
	file := flag.String("file", "", "Path to a CSV of sender_id,text rows")
	flag.Parse()

	if *file == "" {
		fmt.Println("Error: --file flag is required")
		os.Exit(1)
	}

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	logger, err := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot build logger")
	}

	messages, err := parseCSV(*file)
	if err != nil {
		logger.Fatal().Err(err).Str("file", *file).Msg("cannot parse csv")
	}
	logger.Info().Int("rows", len(messages)).Str("file", *file).Msg("starting import")

	ctx := context.Background()
	conn, err := pgxpool.New(ctx, cfg.DBSource)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot connect to db")
	}
	defer conn.Close()

	repo := repository.NewRepository(conn)
	if err := repo.Migrate(ctx); err != nil {
		logger.Fatal().Err(err).Msg("cannot migrate db")
	}

	metrics := observability.NewMetrics()
	client := geocoder.NewGoogleClient(cfg.GoogleAPIKey, cfg.GeocodeBaseURL, cfg.GeocodeTimeout, metrics, logger)
	resolver := geocoder.NewResolver(client, metrics, logger)
	svc := service.NewReportService(repo, resolver, clockwork.NewRealClock(), metrics, logger)

	summary, err := importMessages(ctx, svc, messages, logger)
	if err != nil {
		logger.Error().Err(err).Int("saved", summary.Saved).Int("rejected", summary.Rejected).Msg("import aborted")
		os.Exit(1)
	}

	fmt.Printf("Imported %d reports, rejected %d messages\n", summary.Saved, summary.Rejected)
}

func parseCSV(filePath string) ([]models.RawMessage, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return readMessages(file)
}

// readMessages expects a header row followed by sender_id,text rows
func readMessages(r io.Reader) ([]models.RawMessage, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 2

	// Skip header
	if _, err := reader.Read(); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	var messages []models.RawMessage
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record: %w", err)
		}

		messages = append(messages, models.RawMessage{
			SenderID: strings.TrimSpace(record[0]),
			Text:     record[1],
		})
	}

	return messages, nil
}

// importMessages skips rejected rows and stops at the first infrastructure failure
func importMessages(ctx context.Context, h MessageHandler, messages []models.RawMessage, logger zerolog.Logger) (importSummary, error) {
	var summary importSummary
	for i, msg := range messages {
		row := i + 2
		if _, err := h.Handle(ctx, msg.SenderID, msg.Text); err != nil {
			if service.IsRejected(err) {
				summary.Rejected++
				logger.Warn().Err(err).Int("row", row).Str("user_id", msg.SenderID).Msg("row rejected")
				continue
			}
			return summary, fmt.Errorf("row %d: %w", row, err)
		}
		summary.Saved++
	}
	return summary, nil
}
