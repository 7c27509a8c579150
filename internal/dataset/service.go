// Package dataset resolves the trait and champion lookup tables through a
// memory -> sqlite -> CDN read-through cache.
package dataset

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"tft-wrapped/internal/api"
	"tft-wrapped/internal/config"
	"tft-wrapped/internal/constants"
	"tft-wrapped/internal/domain"
	"tft-wrapped/internal/repository"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

type Fetcher interface {
	FetchDataset(ctx context.Context, kind domain.DatasetKind) (domain.LookupTable, error)
	ImageURL(kind domain.DatasetKind, full string) string
}

type Store interface {
	Get(ctx context.Context, key repository.DatasetKey) (*repository.CachedDataset, error)
	Upsert(ctx context.Context, key repository.DatasetKey, table domain.LookupTable, fetchedAt time.Time) error
}

type memoryEntry struct {
	table    domain.LookupTable
	loadedAt time.Time
}

type Service struct {
	fetcher Fetcher
	store   Store
	version string
	locale  string
	ttl     time.Duration
	logger  zerolog.Logger

	mu     sync.RWMutex
	memory map[repository.DatasetKey]memoryEntry
	group  singleflight.Group
	now    func() time.Time
}

func NewService(fetcher *api.DDragonClient, store *repository.DatasetRepository, cfg *config.Config, logger zerolog.Logger) *Service {
	return newService(fetcher, store, cfg.DDragonVersion, cfg.DDragonLocale, cfg.CacheTTL, logger)
}

func newService(fetcher Fetcher, store Store, version, locale string, ttl time.Duration, logger zerolog.Logger) *Service {
	return &Service{
		fetcher: fetcher,
		store:   store,
		version: version,
		locale:  locale,
		ttl:     ttl,
		logger:  logger,
		memory:  make(map[repository.DatasetKey]memoryEntry),
		now:     time.Now,
	}
}

func (s *Service) Traits(ctx context.Context) (domain.LookupTable, error) {
	return s.Table(ctx, domain.DatasetTraits)
}

func (s *Service) Champions(ctx context.Context) (domain.LookupTable, error) {
	return s.Table(ctx, domain.DatasetChampions)
}

func (s *Service) IconURL(kind domain.DatasetKind, full string) string {
	return s.fetcher.ImageURL(kind, full)
}

// Table returns the lookup table for kind. Concurrent callers asking for
// the same dataset share one load. The shared load is detached from every
// caller's cancellation and bounded by ExternalAPITimeout instead; a caller
// whose ctx ends stops waiting without failing the others.
func (s *Service) Table(ctx context.Context, kind domain.DatasetKind) (domain.LookupTable, error) {
	key := repository.DatasetKey{Version: s.version, Locale: s.locale, Kind: kind}

	if table, ok := s.fromMemory(key); ok {
		return table, nil
	}

	ch := s.group.DoChan(key.String(), func() (any, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), constants.ExternalAPITimeout)
		defer cancel()
		return s.load(loadCtx, key)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			s.logger.Debug().Str("dataset", key.String()).Msg("dataset load shared with concurrent caller")
		}
		return res.Val.(domain.LookupTable), nil
	}
}

func (s *Service) fromMemory(key repository.DatasetKey) (domain.LookupTable, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.memory[key]
	if !ok || s.now().Sub(entry.loadedAt) > s.ttl {
		return nil, false
	}
	return entry.table, true
}

func (s *Service) remember(key repository.DatasetKey, table domain.LookupTable) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.memory[key] = memoryEntry{table: table, loadedAt: s.now()}
}

func (s *Service) load(ctx context.Context, key repository.DatasetKey) (domain.LookupTable, error) {
	cached, err := s.store.Get(ctx, key)
	switch {
	case err == nil:
		s.logger.Debug().Str("dataset", key.String()).Int("entries", len(cached.Table)).Msg("dataset loaded from sqlite")
		s.remember(key, cached.Table)
		return cached.Table, nil
	case errors.Is(err, repository.ErrDatasetNotCached):
	default:
		s.logger.Warn().Err(err).Str("dataset", key.String()).Msg("sqlite dataset read failed, fetching from CDN")
	}

	table, err := s.fetcher.FetchDataset(ctx, key.Kind)
	if err != nil {
		s.logger.Error().Err(err).Str("dataset", key.String()).Msg("failed to fetch dataset")
		return nil, fmt.Errorf("failed to resolve %s: %w", key, err)
	}

	if err := s.store.Upsert(ctx, key, table, s.now()); err != nil {
		s.logger.Warn().Err(err).Str("dataset", key.String()).Msg("failed to persist dataset")
	}

	s.logger.Info().Str("dataset", key.String()).Int("entries", len(table)).Msg("dataset fetched from CDN")
	s.remember(key, table)
	return table, nil
}
