package repo

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/agencyops/occurrence-engine/internal/models"
)

// created_at is stored as text on purpose: the mirror keeps whatever the feed
// sent, and parsing happens here with the same rules as the HTTP source so
// malformed timestamps surface in the data-quality tally either way.
const occurrenceQuery = `
SELECT id, agency, segment, equipment, vendor, carrier, status, severity,
       equipment_state, created_at, forecast_closure, description,
       reason_code, blocker_reason, has_impediment, region, agency_type,
       serial_number
  FROM occurrences
 ORDER BY created_at DESC`

// PostgresSource reads the occurrence population from a Postgres mirror of
// the upstream feed.
type PostgresSource struct {
	db *sql.DB
}

// NewPostgresSource opens a connection pool against the supplied DSN.
func NewPostgresSource(dsn string) (*PostgresSource, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres dsn is required")
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return &PostgresSource{db: db}, nil
}

// Ping verifies connectivity, used to fail fast at boot.
func (s *PostgresSource) Ping(ctx context.Context) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("postgres source not initialised")
	}
	return s.db.PingContext(ctx)
}

// FetchOccurrences loads the full population, dropping rows whose
// enumeration values do not parse and reporting how many were dropped.
func (s *PostgresSource) FetchOccurrences(ctx context.Context) ([]models.Occurrence, int, error) {
	if s == nil || s.db == nil {
		return nil, 0, fmt.Errorf("postgres source not initialised")
	}

	rows, err := s.db.QueryContext(ctx, occurrenceQuery)
	if err != nil {
		return nil, 0, fmt.Errorf("query occurrences: %w", err)
	}
	defer rows.Close()

	occurrences := make([]models.Occurrence, 0)
	rejected := 0
	for rows.Next() {
		var (
			dto        occurrenceDTO
			carrier    sql.NullString
			forecast   sql.NullString
			reason     sql.NullString
			blocker    sql.NullString
			agencyType sql.NullString
			serial     sql.NullString
		)
		if err := rows.Scan(
			&dto.ID, &dto.Agency, &dto.Segment, &dto.Equipment, &dto.Vendor,
			&carrier, &dto.Status, &dto.Severity, &dto.EquipmentState,
			&dto.CreatedAt, &forecast, &dto.Description, &reason, &blocker,
			&dto.HasImpediment, &dto.Region, &agencyType, &serial,
		); err != nil {
			return nil, rejected, fmt.Errorf("scan occurrence: %w", err)
		}
		dto.Carrier = carrier.String
		dto.ForecastClosure = forecast.String
		dto.ReasonCode = reason.String
		dto.BlockerReason = blocker.String
		dto.AgencyType = agencyType.String
		dto.SerialNumber = serial.String

		occ, err := mapOccurrence(dto)
		if err != nil {
			rejected++
			continue
		}
		occurrences = append(occurrences, occ)
	}
	if err := rows.Err(); err != nil {
		return nil, rejected, fmt.Errorf("iterate occurrences: %w", err)
	}
	return occurrences, rejected, nil
}

// Close releases the connection pool.
func (s *PostgresSource) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
