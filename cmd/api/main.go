package main

import (
	"context"
	"net/http"

	_ "incident-report-api/docs"
	"incident-report-api/internal/config"
	"incident-report-api/internal/geocoder"
	"incident-report-api/internal/handler"
	"incident-report-api/internal/observability"
	"incident-report-api/internal/repository"
	"incident-report-api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

//	@title			Incident Report API
//	@version		1.0
//	@description	Turns chat incident reports into geocoded records and serves them back.
//	@BasePath		/
func main() {
	config, err := config.LoadConfig("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	logger, err := observability.NewLogger(config.LogLevel, config.LogFormat)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot build logger")
	}
	log.Logger = logger

	// Database connection
	conn, err := pgxpool.New(context.Background(), config.DBSource)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot connect to db")
	}
	defer conn.Close()

	repo := repository.NewRepository(conn)
	if config.AutoMigrate {
		if err := repo.Migrate(context.Background()); err != nil {
			log.Fatal().Err(err).Msg("cannot migrate db")
		}
	}

	// Initialize layers
	metrics := observability.NewMetrics()

	client := geocoder.NewGoogleClient(config.GoogleAPIKey, config.GeocodeBaseURL, config.GeocodeTimeout, metrics, logger)
	resolver := geocoder.NewResolver(client, metrics, logger)

	reportService := service.NewReportService(repo, resolver, clockwork.NewRealClock(), metrics, logger)
	reportQueryService := service.NewReportQueryService(repo)

	webhookHandler := handler.NewWebhookHandler(reportService, config.LineChannelSecret, logger)
	reportHandler := handler.NewReportHandler(reportQueryService)

	if config.LineChannelSecret == "" {
		logger.Warn().Msg("LINE_CHANNEL_SECRET is empty, webhook signatures are not verified")
	}

	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	r.POST("/line/callback", webhookHandler.Callback)

	api := r.Group("/api")
	api.GET("/reports", reportHandler.ListReports)
	api.GET("/reports/nearby", reportHandler.NearbyReports)
	api.GET("/reports/:id", reportHandler.GetReport)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	logger.Info().Str("addr", config.ServerAddress).Msg("starting server")
	if err := r.Run(config.ServerAddress); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
