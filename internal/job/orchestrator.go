package job

import (
	"context"
	"errors"
	"time"

	"tft-wrapped/internal/api"
	"tft-wrapped/internal/apperr"
	"tft-wrapped/internal/config"
	"tft-wrapped/internal/constants"
	"tft-wrapped/internal/domain"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

const (
	backendStateDone   = "DONE"
	backendStateFailed = "FAILED"

	riotIDFormatMessage = "RiotId must be in format GameName#TAG"
	jobFailedMessage    = "Job failed."
)

type Backend interface {
	RequestJob(ctx context.Context, riotID string, year int) (*api.RequestResponse, error)
	JobStatus(ctx context.Context, puuid string, year int) (*api.StatusResponse, error)
}

// EmitFunc receives every status the run produces, in order. It is never
// called after the run's context is cancelled.
type EmitFunc func(domain.JobStatus)

// Orchestrator drives one backend job from request to a terminal state.
// Polls are sequential: the next one is scheduled only after the previous
// result has been applied and emitted.
type Orchestrator struct {
	backend        Backend
	interval       time.Duration
	timeout        time.Duration
	requestTimeout time.Duration // per backend call
	logger         zerolog.Logger
	recorder       *StateRecorder
	now            func() time.Time
}

func NewOrchestrator(backend *api.BackendClient, cfg *config.Config, logger zerolog.Logger) *Orchestrator {
	return newOrchestrator(backend, cfg.PollInterval, cfg.PollTimeout, logger)
}

func newOrchestrator(backend Backend, interval, timeout time.Duration, logger zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		backend:        backend,
		interval:       interval,
		timeout:        timeout,
		requestTimeout: constants.ExternalAPITimeout,
		logger:         logger,
		now:            time.Now,
	}
}

// Start runs the job in its own goroutine and streams statuses on the
// returned channel, which is closed once the run ends. The last value is
// DONE or FAILED unless ctx was cancelled first.
func (o *Orchestrator) Start(ctx context.Context, riotID string, year int) <-chan domain.JobStatus {
	out := make(chan domain.JobStatus)
	go func() {
		defer close(out)
		_, _ = o.Run(ctx, riotID, year, forward(ctx, out))
	}()
	return out
}

// forward sends each status on out until ctx ends. Cancellation is checked
// first so a ready reader never receives a status after it.
func forward(ctx context.Context, out chan<- domain.JobStatus) EmitFunc {
	return func(s domain.JobStatus) {
		if ctx.Err() != nil {
			return
		}
		select {
		case out <- s:
		case <-ctx.Done():
		}
	}
}

// Run drives the job synchronously. The returned error is nil only when the
// job reached DONE; after cancellation it is ctx.Err() and nothing further
// was emitted.
func (o *Orchestrator) Run(ctx context.Context, riotID string, year int, emit EmitFunc) (domain.JobStatus, error) {
	runID, err := gonanoid.New()
	if err != nil {
		o.logger.Warn().Err(err).Msg("failed to generate run id")
	}
	log := o.logger.With().Str("run_id", runID).Str("riot_id", riotID).Int("year", year).Logger()

	r := &run{
		o:       o,
		ctx:     ctx,
		emit:    emit,
		log:     log,
		machine: newMachine(o.recorder),
		status: domain.JobStatus{
			RunID:     runID,
			RiotID:    riotID,
			Year:      year,
			State:     domain.JobRequesting,
			UpdatedAt: o.now(),
		},
	}
	return r.execute()
}

type run struct {
	o       *Orchestrator
	ctx     context.Context
	emit    EmitFunc
	log     zerolog.Logger
	machine *machine
	status  domain.JobStatus
}

func (r *run) execute() (domain.JobStatus, error) {
	r.publish()

	if !domain.ValidRiotID(r.status.RiotID) {
		r.log.Debug().Msg("rejecting malformed riot id")
		return r.fail(apperr.New(apperr.KindValidation, riotIDFormatMessage))
	}

	r.log.Info().Msg("requesting wrapped job")
	reqCtx, cancel := context.WithTimeout(r.ctx, r.o.requestTimeout)
	req, err := r.o.backend.RequestJob(reqCtx, r.status.RiotID, r.status.Year)
	cancel()
	if r.cancelled() {
		return r.status, r.ctx.Err()
	}
	if err != nil {
		r.log.Error().Err(err).Msg("job request failed")
		return r.fail(asTaxonomy(err))
	}

	r.status.Puuid = req.Puuid
	r.status.BackendState = req.State

	if req.State == backendStateDone {
		r.log.Info().Str("puuid", req.Puuid).Msg("summary already available, skipping polling")
		return r.finish()
	}

	if err := r.move(domain.JobPolling); err != nil {
		return r.status, err
	}
	r.status.Message = "Crunching your matches…"
	r.publish()

	return r.poll()
}

func (r *run) poll() (domain.JobStatus, error) {
	pollCtx, cancelPoll := context.WithTimeout(r.ctx, r.o.timeout)
	defer cancelPoll()

	for attempt := 1; ; attempt++ {
		st, err := r.jobStatus(pollCtx)
		if r.cancelled() {
			r.log.Debug().Int("attempt", attempt).Msg("run cancelled, discarding poll result")
			return r.status, r.ctx.Err()
		}
		if err != nil {
			if pollCtx.Err() != nil {
				return r.timedOut(attempt)
			}
			r.log.Error().Err(err).Int("attempt", attempt).Msg("status poll failed")
			return r.fail(asTaxonomy(err))
		}

		r.status.BackendState = st.State
		r.status.MatchIDsFound = st.MatchIDsFound
		r.status.MatchesCached = st.MatchesCached
		r.status.SummaryReady = st.SummaryReady
		r.status.Message = st.Message

		r.log.Debug().
			Int("attempt", attempt).
			Str("backend_state", st.State).
			Int("match_ids_found", st.MatchIDsFound).
			Int("matches_cached", st.MatchesCached).
			Bool("summary_ready", st.SummaryReady).
			Msg("status polled")

		// The ready flag wins over whatever the state string says.
		if st.SummaryReady || st.State == backendStateDone {
			return r.finish()
		}
		if st.State == backendStateFailed {
			msg := st.Message
			if msg == "" {
				msg = jobFailedMessage
			}
			return r.fail(apperr.New(apperr.KindJobFailed, msg))
		}

		if err := r.move(domain.JobPolling); err != nil {
			return r.status, err
		}
		r.publish()

		wait := time.NewTimer(r.o.interval)
		select {
		case <-pollCtx.Done():
			wait.Stop()
			if r.cancelled() {
				return r.status, r.ctx.Err()
			}
			return r.timedOut(attempt)
		case <-wait.C:
		}
	}
}

// jobStatus bounds a single poll by requestTimeout and by what is left of
// the overall poll window.
func (r *run) jobStatus(pollCtx context.Context) (*api.StatusResponse, error) {
	ctx, cancel := context.WithTimeout(pollCtx, r.o.requestTimeout)
	defer cancel()
	return r.o.backend.JobStatus(ctx, r.status.Puuid, r.status.Year)
}

func (r *run) timedOut(attempts int) (domain.JobStatus, error) {
	r.log.Warn().Dur("timeout", r.o.timeout).Int("attempts", attempts).Msg("gave up waiting for summary")
	return r.fail(apperr.New(apperr.KindTimeout, "Timed out waiting for your summary."))
}

func (r *run) finish() (domain.JobStatus, error) {
	if err := r.move(domain.JobDone); err != nil {
		return r.status, err
	}
	r.status.SummaryReady = true
	r.publish()
	r.log.Info().Str("puuid", r.status.Puuid).Msg("wrapped job done")
	return r.status, nil
}

func (r *run) fail(err *apperr.Error) (domain.JobStatus, error) {
	if moveErr := r.move(domain.JobFailed); moveErr != nil {
		return r.status, moveErr
	}
	r.status.Message = err.Error()
	r.status.Err = err
	r.publish()
	return r.status, err
}

func (r *run) move(to domain.JobState) error {
	if err := r.machine.transition(to); err != nil {
		r.log.Error().Err(err).Msg("rejected state transition")
		return err
	}
	r.status.State = to
	r.status.UpdatedAt = r.o.now()
	return nil
}

func (r *run) publish() {
	if r.cancelled() || r.emit == nil {
		return
	}
	r.emit(r.status)
}

func (r *run) cancelled() bool {
	return r.ctx.Err() != nil
}

// asTaxonomy keeps backend classifications and reports anything else as a
// network failure.
func asTaxonomy(err error) *apperr.Error {
	var e *apperr.Error
	if errors.As(err, &e) {
		return e
	}
	return apperr.Wrap(apperr.KindNetwork, "network error", err)
}
