package repository

import (
	"context"
	"fmt"
)

const schemaSQL = `
	CREATE EXTENSION IF NOT EXISTS postgis;

	CREATE TABLE IF NOT EXISTS reports (
		id BIGSERIAL PRIMARY KEY,
		user_id VARCHAR(255) NOT NULL,
		tag1 VARCHAR(255) NOT NULL DEFAULT '',
		tag2 VARCHAR(255) NOT NULL DEFAULT '',
		tag3 VARCHAR(255) NOT NULL DEFAULT '',
		occur_date TIMESTAMPTZ,
		prefecture VARCHAR(255) NOT NULL,
		municipality VARCHAR(255) NOT NULL,
		district VARCHAR(255) NOT NULL,
		address_details VARCHAR(255) NOT NULL DEFAULT '',
		latitude DOUBLE PRECISION NOT NULL,
		longitude DOUBLE PRECISION NOT NULL,
		summary TEXT NOT NULL DEFAULT '',
		created TIMESTAMPTZ NOT NULL,
		geom GEOGRAPHY(POINT, 4326) GENERATED ALWAYS AS (
			ST_SetSRID(ST_MakePoint(longitude, latitude), 4326)::geography
		) STORED
	);

	CREATE INDEX IF NOT EXISTS reports_geom_idx ON reports USING GIST (geom);
	CREATE INDEX IF NOT EXISTS reports_created_idx ON reports (created DESC);
`

// Migrate creates the reports table and its indexes when they do not exist yet
func (r *Repository) Migrate(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("repository: failed to apply schema: %w", err)
	}
	return nil
}
