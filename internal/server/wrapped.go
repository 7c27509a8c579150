package server

import (
	"context"
	"errors"
	"net/http"

	"tft-wrapped/internal/domain"
	"tft-wrapped/internal/job"
	"tft-wrapped/internal/service"

	"connectrpc.com/connect"
	"github.com/rs/zerolog"
)

const (
	WrappedServicePath = "/tftwrapped.v1.WrappedService/"
	TrackProcedure     = WrappedServicePath + "Track"
	GetCardsProcedure  = WrappedServicePath + "GetCards"
)

type wrappedService interface {
	Track(ctx context.Context, riotID string, year int, emit job.EmitFunc) (domain.JobStatus, error)
	Cards(ctx context.Context, puuid string, year int) (*service.Deck, error)
}

type WrappedServer struct {
	svc    wrappedService
	logger zerolog.Logger
}

func NewWrappedServer(svc *service.WrappedService, logger zerolog.Logger) *WrappedServer {
	return &WrappedServer{svc: svc, logger: logger}
}

// Handler returns the mount path and handler for both procedures.
func (s *WrappedServer) Handler(opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(jsonCodec{})}, opts...)

	mux := http.NewServeMux()
	mux.Handle(TrackProcedure, connect.NewServerStreamHandler(TrackProcedure, s.Track, opts...))
	mux.Handle(GetCardsProcedure, connect.NewUnaryHandler(GetCardsProcedure, s.GetCards, opts...))
	return WrappedServicePath, mux
}

// Track streams every job status until the job is DONE or FAILED. A failed
// job is reported in-band on the last update and the stream ends cleanly.
func (s *WrappedServer) Track(ctx context.Context, req *connect.Request[TrackRequest], stream *connect.ServerStream[TrackUpdate]) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var sendErr error
	status, err := s.svc.Track(ctx, req.Msg.RiotID, req.Msg.Year, func(st domain.JobStatus) {
		if sendErr != nil {
			return
		}
		if sendErr = stream.Send(toTrackUpdate(st)); sendErr != nil {
			cancel()
		}
	})

	switch {
	case sendErr != nil:
		s.logger.Debug().Err(sendErr).Str("riot_id", req.Msg.RiotID).Msg("track stream closed by client")
		return connect.NewError(connect.CodeCanceled, sendErr)
	case err == nil, status.State == domain.JobFailed:
		return nil
	default:
		return toConnectError(err)
	}
}

func (s *WrappedServer) GetCards(ctx context.Context, req *connect.Request[CardsRequest]) (*connect.Response[CardsResponse], error) {
	deck, err := s.svc.Cards(ctx, req.Msg.Puuid, req.Msg.Year)
	if err != nil {
		return nil, toConnectError(err)
	}

	resp := &CardsResponse{Puuid: deck.Puuid, Year: deck.Year, Cards: make([]CardMessage, 0, len(deck.Cards))}
	for _, card := range deck.Cards {
		msg, err := toCardMessage(card)
		if err != nil {
			s.logger.Error().Err(err).Msg("failed to encode card")
			return nil, connect.NewError(connect.CodeInternal, errors.New("failed to encode cards"))
		}
		resp.Cards = append(resp.Cards, msg)
	}
	return connect.NewResponse(resp), nil
}
