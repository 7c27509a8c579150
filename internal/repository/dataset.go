package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"tft-wrapped/internal/domain"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

var ErrDatasetNotCached = errors.New("dataset not cached")

// DatasetKey identifies one immutable dataset snapshot.
type DatasetKey struct {
	Version string
	Locale  string
	Kind    domain.DatasetKind
}

func (k DatasetKey) String() string {
	return k.Version + "/" + k.Locale + "/" + string(k.Kind)
}

type CachedDataset struct {
	Key       DatasetKey
	Table     domain.LookupTable
	FetchedAt time.Time
}

type DatasetRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewDatasetRepository(sqlDB *sql.DB, logger zerolog.Logger) *DatasetRepository {
	return &DatasetRepository{db: sqlDB, logger: logger}
}

const getDatasetSQL = `
SELECT payload, fetched_at
FROM dataset_cache
WHERE version = ? AND locale = ? AND kind = ?`

func (r *DatasetRepository) Get(ctx context.Context, key DatasetKey) (*CachedDataset, error) {
	var payload string
	var fetchedAt time.Time

	err := r.db.QueryRowContext(ctx, getDatasetSQL, key.Version, key.Locale, string(key.Kind)).Scan(&payload, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		r.logger.Debug().Str("dataset", key.String()).Msg("dataset not in sqlite cache")
		return nil, ErrDatasetNotCached
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset %s: %w", key, err)
	}

	var table domain.LookupTable
	if err := json.Unmarshal([]byte(payload), &table); err != nil {
		return nil, fmt.Errorf("failed to decode cached dataset %s: %w", key, err)
	}

	return &CachedDataset{Key: key, Table: table, FetchedAt: fetchedAt}, nil
}

const upsertDatasetSQL = `
INSERT INTO dataset_cache (id, version, locale, kind, payload, entry_count, fetched_at, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (version, locale, kind) DO UPDATE SET
    payload = excluded.payload,
    entry_count = excluded.entry_count,
    fetched_at = excluded.fetched_at,
    updated_at = excluded.updated_at`

func (r *DatasetRepository) Upsert(ctx context.Context, key DatasetKey, table domain.LookupTable, fetchedAt time.Time) error {
	payload, err := json.Marshal(table)
	if err != nil {
		return fmt.Errorf("failed to encode dataset %s: %w", key, err)
	}

	id, err := gonanoid.New()
	if err != nil {
		return fmt.Errorf("failed to generate nanoid: %w", err)
	}

	now := time.Now()
	_, err = r.db.ExecContext(ctx, upsertDatasetSQL,
		id, key.Version, key.Locale, string(key.Kind), string(payload), len(table), fetchedAt, now, now)
	if err != nil {
		return fmt.Errorf("failed to upsert dataset %s: %w", key, err)
	}

	r.logger.Debug().Str("dataset", key.String()).Int("entries", len(table)).Msg("dataset cached in sqlite")
	return nil
}

// DeleteOtherVersions drops snapshots for every version except keep.
func (r *DatasetRepository) DeleteOtherVersions(ctx context.Context, keep string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM dataset_cache WHERE version <> ?`, keep)
	if err != nil {
		return 0, fmt.Errorf("failed to prune datasets: %w", err)
	}
	return res.RowsAffected()
}
