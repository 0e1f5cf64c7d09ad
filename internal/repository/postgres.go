package repository

import (
	"context"
	"errors"
	"fmt"

	"incident-report-api/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the subset of *pgxpool.Pool the repository needs
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository implements report storage on PostgreSQL with PostGIS
type Repository struct {
	db DB
}

// NewRepository creates a new PostgreSQL repository
func NewRepository(db DB) *Repository {
	return &Repository{db: db}
}

const reportColumns = `
	id,
	user_id,
	tag1,
	tag2,
	tag3,
	occur_date,
	prefecture,
	municipality,
	district,
	address_details,
	latitude,
	longitude,
	summary,
	created`

// SaveReport inserts a report inside its own transaction and returns the assigned id
func (r *Repository) SaveReport(ctx context.Context, report *models.Report) (int64, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("repository: failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	sql := `
		INSERT INTO reports (
			user_id,
			tag1,
			tag2,
			tag3,
			occur_date,
			prefecture,
			municipality,
			district,
			address_details,
			latitude,
			longitude,
			summary,
			created
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id
	`

	var id int64
	err = tx.QueryRow(ctx, sql,
		report.UserID,
		report.Tag1,
		report.Tag2,
		report.Tag3,
		report.OccurDate,
		report.Prefecture,
		report.Municipality,
		report.District,
		report.AddressDetails,
		report.Latitude,
		report.Longitude,
		report.Summary,
		report.Created,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("repository: failed to insert report: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("repository: failed to commit report: %w", err)
	}

	return id, nil
}

// ListReports returns the most recently created reports first
func (r *Repository) ListReports(ctx context.Context, limit int) ([]models.Report, error) {
	sql := `SELECT` + reportColumns + `
		FROM reports
		ORDER BY created DESC, id DESC
		LIMIT $1
	`

	rows, err := r.db.Query(ctx, sql, limit)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to execute list query: %w", err)
	}
	defer rows.Close()

	reports := []models.Report{}
	for rows.Next() {
		var report models.Report
		if err := rows.Scan(reportFields(&report)...); err != nil {
			return nil, fmt.Errorf("repository: failed to scan report: %w", err)
		}
		reports = append(reports, report)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating rows: %w", err)
	}

	return reports, nil
}

// FindReportByID returns the report with the given id, or nil when there is none
func (r *Repository) FindReportByID(ctx context.Context, id int64) (*models.Report, error) {
	sql := `SELECT` + reportColumns + `
		FROM reports
		WHERE id = $1
	`

	var report models.Report
	err := r.db.QueryRow(ctx, sql, id).Scan(reportFields(&report)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("repository: failed to find report: %w", err)
	}

	return &report, nil
}

// FindReportsNear performs a spatial query for reports within radiusMeters of the given coordinates
func (r *Repository) FindReportsNear(ctx context.Context, lat, lon, radiusMeters float64, limit int) ([]models.NearbyReport, error) {
	sql := `SELECT` + reportColumns + `,
			ST_Distance(geom, ST_SetSRID(ST_MakePoint($2, $1), 4326)::geography) AS distance
		FROM reports
		WHERE ST_DWithin(geom, ST_SetSRID(ST_MakePoint($2, $1), 4326)::geography, $3)
		ORDER BY geom <-> ST_SetSRID(ST_MakePoint($2, $1), 4326)::geography
		LIMIT $4
	`

	rows, err := r.db.Query(ctx, sql, lat, lon, radiusMeters, limit)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to execute spatial query: %w", err)
	}
	defer rows.Close()

	reports := []models.NearbyReport{}
	for rows.Next() {
		var nearby models.NearbyReport
		dest := append(reportFields(&nearby.Report), &nearby.DistanceMeters)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("repository: failed to scan report: %w", err)
		}
		reports = append(reports, nearby)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating rows: %w", err)
	}

	return reports, nil
}

func reportFields(report *models.Report) []any {
	return []any{
		&report.ID,
		&report.UserID,
		&report.Tag1,
		&report.Tag2,
		&report.Tag3,
		&report.OccurDate,
		&report.Prefecture,
		&report.Municipality,
		&report.District,
		&report.AddressDetails,
		&report.Latitude,
		&report.Longitude,
		&report.Summary,
		&report.Created,
	}
}
