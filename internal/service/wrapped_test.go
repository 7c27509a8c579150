package service

import (
	"context"
	"testing"

	"tft-wrapped/internal/apperr"
	"tft-wrapped/internal/domain"
	"tft-wrapped/internal/job"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeJobs struct {
	gotRiotID string
	gotYear   int
	status    domain.JobStatus
	err       error
}

func (f *fakeJobs) Run(ctx context.Context, riotID string, year int, emit job.EmitFunc) (domain.JobStatus, error) {
	f.gotRiotID, f.gotYear = riotID, year
	emit(f.status)
	return f.status, f.err
}

type fakeSummaries struct {
	summary *domain.WrappedSummary
	err     error
	calls   int
}

func (f *fakeSummaries) Summary(ctx context.Context, puuid string, year int) (*domain.WrappedSummary, error) {
	f.calls++
	return f.summary, f.err
}

type fakeBuilder struct {
	built *domain.WrappedSummary
	err   error
}

func (f *fakeBuilder) Build(ctx context.Context, summary *domain.WrappedSummary) ([]domain.Card, error) {
	f.built = summary
	if f.err != nil {
		return nil, f.err
	}
	return []domain.Card{domain.CoverCard{CardBase: domain.CardBase{ID: "cover"}}}, nil
}

func newTestService(jobs *fakeJobs, summaries *fakeSummaries, builder *fakeBuilder) *WrappedService {
	return &WrappedService{jobs: jobs, backend: summaries, builder: builder, logger: zerolog.Nop()}
}

func TestWrappedService_TrackDefaultsYear(t *testing.T) {
	jobs := &fakeJobs{status: domain.JobStatus{State: domain.JobDone, Puuid: "p-1", Year: 2025}}
	svc := newTestService(jobs, &fakeSummaries{}, &fakeBuilder{})

	var seen []domain.JobStatus
	status, err := svc.Track(context.Background(), "  Player#EUW ", 0, func(s domain.JobStatus) { seen = append(seen, s) })
	require.NoError(t, err)

	assert.Equal(t, "Player#EUW", jobs.gotRiotID)
	assert.Equal(t, 2025, jobs.gotYear)
	assert.Equal(t, domain.JobDone, status.State)
	assert.Len(t, seen, 1)
}

func TestWrappedService_CardsNotReady(t *testing.T) {
	builder := &fakeBuilder{}
	svc := newTestService(&fakeJobs{}, &fakeSummaries{summary: &domain.WrappedSummary{Ready: false, Message: "Still crunching"}}, builder)

	_, err := svc.Cards(context.Background(), "p-1", 2025)
	assert.ErrorIs(t, err, apperr.ErrNotReady)
	assert.EqualError(t, err, "Still crunching")
	assert.Nil(t, builder.built)
}

func TestWrappedService_CardsRequiresPuuid(t *testing.T) {
	summaries := &fakeSummaries{}
	svc := newTestService(&fakeJobs{}, summaries, &fakeBuilder{})

	_, err := svc.Cards(context.Background(), " ", 2025)
	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.Zero(t, summaries.calls)
}

func TestWrappedService_CardsPropagatesErrors(t *testing.T) {
	svc := newTestService(&fakeJobs{}, &fakeSummaries{err: apperr.New(apperr.KindNotFound, "no profile")}, &fakeBuilder{})
	_, err := svc.Cards(context.Background(), "p-1", 2025)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	svc = newTestService(&fakeJobs{}, &fakeSummaries{summary: &domain.WrappedSummary{Ready: true}}, &fakeBuilder{err: apperr.New(apperr.KindIconLookup, "cdn down")})
	_, err = svc.Cards(context.Background(), "p-1", 2025)
	assert.ErrorIs(t, err, apperr.ErrIconLookup)
}

func TestWrappedService_WrappedFullFlow(t *testing.T) {
	jobs := &fakeJobs{status: domain.JobStatus{State: domain.JobDone, Puuid: "p-1", Year: 2024}}
	summary := &domain.WrappedSummary{Ready: true, Puuid: "p-1", Year: 2024}
	builder := &fakeBuilder{}
	svc := newTestService(jobs, &fakeSummaries{summary: summary}, builder)

	deck, err := svc.Wrapped(context.Background(), "Player#EUW", 2024, func(domain.JobStatus) {})
	require.NoError(t, err)

	assert.Equal(t, "p-1", deck.Puuid)
	assert.Equal(t, 2024, deck.Year)
	assert.Len(t, deck.Cards, 1)
	assert.Same(t, summary, builder.built)
}

func TestWrappedService_WrappedStopsOnJobFailure(t *testing.T) {
	summaries := &fakeSummaries{}
	jobs := &fakeJobs{
		status: domain.JobStatus{State: domain.JobFailed},
		err:    apperr.New(apperr.KindJobFailed, "Job failed."),
	}
	svc := newTestService(jobs, summaries, &fakeBuilder{})

	_, err := svc.Wrapped(context.Background(), "Player#EUW", 2025, func(domain.JobStatus) {})
	assert.ErrorIs(t, err, apperr.ErrJobFailed)
	assert.Zero(t, summaries.calls)
}
