package cityguide

import (
	"context"
	"database/sql"
	"time"

	"activity-aggregator/internal/catalog"
	"activity-aggregator/internal/common/database"
	apperrors "activity-aggregator/internal/common/errors"
	"activity-aggregator/internal/common/logger"
	"activity-aggregator/internal/common/metrics"
)

// SourceName is the canonical attribution for this adapter's records.
const SourceName = "City Guide"

const idPrefix = "cg-"

// selectActivities pulls curated entries for a city inside the date
// range. The editorial table stores one row per activity occurrence.
const selectActivities = `
	SELECT id, name, category, venue, activity_date, activity_time,
	       price, description, image_url, booking_url,
	       latitude, longitude, rating, popular
	FROM city_activities
	WHERE LOWER(city) = LOWER($1)
	  AND activity_date BETWEEN $2 AND $3
	ORDER BY activity_date, activity_time
	LIMIT $4`

// Adapter serves hand-curated city guide entries out of Postgres. It is
// the only provider with no upstream HTTP dependency.
type Adapter struct {
	config *Config
	db     *database.PostgresClient
	logger logger.Logger
}

func New(config *Config, db *database.PostgresClient, log logger.Logger) *Adapter {
	return &Adapter{
		config: config,
		db:     db,
		logger: log.WithFields(map[string]interface{}{"provider": SourceName}),
	}
}

func (a *Adapter) Name() string {
	return SourceName
}

// Fetch returns curated entries for the query, or nothing on any
// internal failure.
func (a *Adapter) Fetch(ctx context.Context, q catalog.Query) []catalog.Record {
	start := time.Now()
	records, err := a.fetch(ctx, q)
	metrics.ProviderFetchDuration.WithLabelValues(SourceName).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.ProviderFetches.WithLabelValues(SourceName, "error").Inc()
		a.logger.Warn("fetch failed, returning no records", map[string]interface{}{
			"errorCode": string(apperrors.CodeOf(err)),
			"error":     err.Error(),
		})
		return nil
	}

	metrics.ProviderFetches.WithLabelValues(SourceName, "success").Inc()
	metrics.ProviderRecords.WithLabelValues(SourceName).Add(float64(len(records)))
	return records
}

func (a *Adapter) fetch(ctx context.Context, q catalog.Query) ([]catalog.Record, error) {
	if a.db == nil {
		return nil, apperrors.New(apperrors.ErrCodeMissingCredentials, SourceName, "database not configured")
	}

	rows, err := a.db.Query(ctx, selectActivities,
		q.City, q.Start.Format(catalog.DateLayout), q.End.Format(catalog.DateLayout), a.config.MaxResults)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeDatabaseUnavailable, SourceName, err)
	}
	defer rows.Close()

	var records []catalog.Record
	for rows.Next() {
		rec, err := scanActivity(rows, q.City)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeMalformedPayload, SourceName, err)
		}
		if err := rec.Validate(); err != nil {
			a.logger.Debug("dropping record", map[string]interface{}{"reason": err.Error()})
			continue
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeDatabaseUnavailable, SourceName, err)
	}
	return records, nil
}

func scanActivity(rows *sql.Rows, city string) (catalog.Record, error) {
	var (
		id, name             string
		category, venue      sql.NullString
		date                 time.Time
		clock, price, desc   sql.NullString
		imageURL, bookingURL sql.NullString
		lat, lon, rating     sql.NullFloat64
		popular              sql.NullBool
	)

	err := rows.Scan(&id, &name, &category, &venue, &date, &clock,
		&price, &desc, &imageURL, &bookingURL, &lat, &lon, &rating, &popular)
	if err != nil {
		return catalog.Record{}, err
	}

	rec := catalog.Record{
		ID:          idPrefix + id,
		Name:        name,
		Category:    category.String,
		Venue:       venue.String,
		Date:        date.Format(catalog.DateLayout),
		Time:        clock.String,
		Price:       price.String,
		Description: desc.String,
		ImageURL:    imageURL.String,
		BookingURL:  bookingURL.String,
		Source:      SourceName,
		Rating:      rating.Float64,
		Popular:     popular.Bool,
		City:        city,
	}

	if rec.Category == "" {
		rec.Category = catalog.DefaultCategory
	}
	if rec.Venue == "" {
		rec.Venue = catalog.VenueTBA
	}
	// Curated entries default to free admission unless the editors say
	// otherwise.
	if rec.Price == "" {
		rec.Price = catalog.PriceFree
	}
	if rec.Description == "" {
		rec.Description = name
	}
	if lat.Valid && lon.Valid {
		rec.Coordinates = &catalog.Coordinates{Lat: lat.Float64, Lon: lon.Float64}
	}

	return rec, nil
}
