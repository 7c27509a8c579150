package service

import (
	"context"
	"strings"

	"tft-wrapped/internal/api"
	"tft-wrapped/internal/apperr"
	"tft-wrapped/internal/cards"
	"tft-wrapped/internal/constants"
	"tft-wrapped/internal/domain"
	"tft-wrapped/internal/job"

	"github.com/rs/zerolog"
)

const summaryNotReadyMessage = "Wrapped summary is not ready yet."

type jobRunner interface {
	Run(ctx context.Context, riotID string, year int, emit job.EmitFunc) (domain.JobStatus, error)
}

type summarySource interface {
	Summary(ctx context.Context, puuid string, year int) (*domain.WrappedSummary, error)
}

type cardBuilder interface {
	Build(ctx context.Context, summary *domain.WrappedSummary) ([]domain.Card, error)
}

// Deck is the card sequence for one player and year.
type Deck struct {
	Puuid string
	Year  int
	Cards []domain.Card
}

type WrappedService struct {
	jobs    jobRunner
	backend summarySource
	builder cardBuilder
	logger  zerolog.Logger
}

func NewWrappedService(orchestrator *job.Orchestrator, backend *api.BackendClient, builder *cards.Builder, logger zerolog.Logger) *WrappedService {
	return &WrappedService{jobs: orchestrator, backend: backend, builder: builder, logger: logger}
}

// Track drives the backend job for riotID and reports every status to emit.
// A zero year means the current season.
func (s *WrappedService) Track(ctx context.Context, riotID string, year int, emit job.EmitFunc) (domain.JobStatus, error) {
	riotID = strings.TrimSpace(riotID)
	year = normalizeYear(year)

	s.logger.Info().Str("riot_id", riotID).Int("year", year).Msg("tracking wrapped job")

	status, err := s.jobs.Run(ctx, riotID, year, emit)
	if err != nil {
		s.logger.Warn().Err(err).Str("riot_id", riotID).Str("kind", apperr.KindOf(err).String()).Msg("wrapped job did not finish")
		return status, err
	}
	return status, nil
}

// Cards fetches the finished summary and builds its deck. A summary the
// backend has not finished yet is a NotReady error.
func (s *WrappedService) Cards(ctx context.Context, puuid string, year int) (*Deck, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.CardBuildTimeout)
	defer cancel()

	year = normalizeYear(year)
	if strings.TrimSpace(puuid) == "" {
		return nil, apperr.New(apperr.KindValidation, "puuid is required")
	}

	summary, err := s.backend.Summary(ctx, puuid, year)
	if err != nil {
		s.logger.Error().Err(err).Str("puuid", puuid).Int("year", year).Msg("failed to fetch summary")
		return nil, err
	}

	if !summary.Ready {
		msg := summary.Message
		if msg == "" {
			msg = summaryNotReadyMessage
		}
		s.logger.Info().Str("puuid", puuid).Int("year", year).Msg("summary not ready")
		return nil, apperr.New(apperr.KindNotReady, msg)
	}

	deck, err := s.builder.Build(ctx, summary)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("puuid", puuid).Int("year", year).Int("cards", len(deck)).Msg("deck built")
	return &Deck{Puuid: puuid, Year: year, Cards: deck}, nil
}

// Wrapped runs the whole flow: the job to completion, then the deck for the
// resolved player.
func (s *WrappedService) Wrapped(ctx context.Context, riotID string, year int, emit job.EmitFunc) (*Deck, error) {
	status, err := s.Track(ctx, riotID, year, emit)
	if err != nil {
		return nil, err
	}
	return s.Cards(ctx, status.Puuid, status.Year)
}

func normalizeYear(year int) int {
	if year <= 0 {
		return constants.DefaultYear
	}
	return year
}
