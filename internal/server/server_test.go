package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"tft-wrapped/internal/api"
	"tft-wrapped/internal/apperr"
	"tft-wrapped/internal/domain"
	"tft-wrapped/internal/job"
	"tft-wrapped/internal/service"

	"connectrpc.com/connect"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeService struct {
	statuses []domain.JobStatus
	trackErr error
	deck     *service.Deck
	cardsErr error
}

func (f *fakeService) Track(ctx context.Context, riotID string, year int, emit job.EmitFunc) (domain.JobStatus, error) {
	var last domain.JobStatus
	for _, st := range f.statuses {
		if ctx.Err() != nil {
			return last, ctx.Err()
		}
		emit(st)
		last = st
	}
	return last, f.trackErr
}

func (f *fakeService) Cards(ctx context.Context, puuid string, year int) (*service.Deck, error) {
	if f.cardsErr != nil {
		return nil, f.cardsErr
	}
	return f.deck, nil
}

func happyStatuses() []domain.JobStatus {
	return []domain.JobStatus{
		{RunID: "r1", State: domain.JobRequesting, Year: 2025},
		{RunID: "r1", State: domain.JobPolling, Puuid: "p-1", Year: 2025, MatchIDsFound: 40, MatchesCached: 10, Message: "Crunching your matches…"},
		{RunID: "r1", State: domain.JobDone, Puuid: "p-1", Year: 2025, MatchIDsFound: 40, MatchesCached: 40, SummaryReady: true},
	}
}

func startConnectServer(t *testing.T, svc *fakeService) *httptest.Server {
	t.Helper()
	ws := &WrappedServer{svc: svc, logger: zerolog.Nop()}
	mux := http.NewServeMux()
	path, handler := ws.Handler()
	mux.Handle(path, handler)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestWrappedServer_TrackStreamsStatuses(t *testing.T) {
	srv := startConnectServer(t, &fakeService{statuses: happyStatuses()})
	client := connect.NewClient[TrackRequest, TrackUpdate](srv.Client(), srv.URL+TrackProcedure, connect.WithCodec(jsonCodec{}))

	stream, err := client.CallServerStream(context.Background(), connect.NewRequest(&TrackRequest{RiotID: "Player#EUW", Year: 2025}))
	require.NoError(t, err)

	var got []*TrackUpdate
	for stream.Receive() {
		got = append(got, stream.Msg())
	}
	require.NoError(t, stream.Err())
	require.Len(t, got, 3)

	assert.Equal(t, "REQUESTING", got[0].State)
	assert.Equal(t, 25, got[1].Progress)
	assert.Equal(t, "Crunching your matches…", got[1].Info)
	assert.Equal(t, "Cached 10 / 40 matches", got[1].CachedLine)
	assert.Equal(t, "DONE", got[2].State)
	assert.Equal(t, 100, got[2].Progress)
	assert.Nil(t, got[2].Error)
}

func TestWrappedServer_TrackFailureIsInBand(t *testing.T) {
	failure := apperr.New(apperr.KindNotFound, "Riot account not found")
	statuses := []domain.JobStatus{
		{State: domain.JobRequesting},
		{State: domain.JobFailed, Message: failure.Error(), Err: failure},
	}
	srv := startConnectServer(t, &fakeService{statuses: statuses, trackErr: failure})
	client := connect.NewClient[TrackRequest, TrackUpdate](srv.Client(), srv.URL+TrackProcedure, connect.WithCodec(jsonCodec{}))

	stream, err := client.CallServerStream(context.Background(), connect.NewRequest(&TrackRequest{RiotID: "Player#EUW"}))
	require.NoError(t, err)

	var last *TrackUpdate
	for stream.Receive() {
		last = stream.Msg()
	}
	require.NoError(t, stream.Err())
	require.NotNil(t, last)
	require.NotNil(t, last.Error)
	assert.Equal(t, "FAILED", last.State)
	assert.Equal(t, "not_found", last.Error.Kind)
	assert.Equal(t, "Player not found", last.Error.Title)
	assert.True(t, last.Error.ShowHints)
}

func TestWrappedServer_GetCards(t *testing.T) {
	deck := &service.Deck{
		Puuid: "p-1",
		Year:  2025,
		Cards: []domain.Card{
			domain.CoverCard{CardBase: domain.CardBase{ID: "cover", Title: "Your 2025 TFT Wrapped", Background: "bg-a"}},
			domain.StatCard{CardBase: domain.CardBase{ID: "podium", Title: "Podium magnet"}, Value: "2nd × 80"},
			domain.ListCard{CardBase: domain.CardBase{ID: "units"}, Items: []domain.ListItem{{ID: "u0", Label: "Ahri — 70", Icon: "https://cdn/a.png"}, {ID: "u1", Label: "Garen — 3"}}},
			domain.HighlightCard{CardBase: domain.CardBase{ID: "best"}, Meta: []domain.ListItem{{ID: "best-meta-0", Label: "Econ diff"}}},
		},
	}
	srv := startConnectServer(t, &fakeService{deck: deck})
	client := connect.NewClient[CardsRequest, CardsResponse](srv.Client(), srv.URL+GetCardsProcedure, connect.WithCodec(jsonCodec{}))

	resp, err := client.CallUnary(context.Background(), connect.NewRequest(&CardsRequest{Puuid: "p-1", Year: 2025}))
	require.NoError(t, err)

	cards := resp.Msg.Cards
	require.Len(t, cards, 4)
	assert.Equal(t, CardMessage{ID: "cover", Type: "cover", Title: "Your 2025 TFT Wrapped", Background: "bg-a"}, cards[0])
	assert.Equal(t, "2nd × 80", cards[1].Value)
	assert.Equal(t, "stat", cards[1].Type)
	assert.Equal(t, "https://cdn/a.png", cards[2].Items[0].Icon)
	assert.Empty(t, cards[2].Items[1].Icon)
	assert.Equal(t, "Econ diff", cards[3].Meta[0].Label)
}

func TestWrappedServer_GetCardsErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code connect.Code
		kind string
	}{
		{"not ready", apperr.New(apperr.KindNotReady, "not ready"), connect.CodeFailedPrecondition, "not_ready"},
		{"icon lookup", apperr.New(apperr.KindIconLookup, "cdn"), connect.CodeUnavailable, "icon_lookup"},
		{"validation", apperr.New(apperr.KindValidation, "puuid is required"), connect.CodeInvalidArgument, "validation"},
		{"unknown", errors.New("boom"), connect.CodeInternal, "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := startConnectServer(t, &fakeService{cardsErr: tt.err})
			client := connect.NewClient[CardsRequest, CardsResponse](srv.Client(), srv.URL+GetCardsProcedure, connect.WithCodec(jsonCodec{}))

			_, err := client.CallUnary(context.Background(), connect.NewRequest(&CardsRequest{Puuid: "p-1"}))
			require.Error(t, err)
			assert.Equal(t, tt.code, connect.CodeOf(err))

			var cerr *connect.Error
			require.True(t, errors.As(err, &cerr))
			assert.Equal(t, tt.kind, cerr.Meta().Get("x-error-kind"))
		})
	}
}

func TestConnectCode(t *testing.T) {
	assert.Equal(t, connect.CodeNotFound, connectCode(apperr.New(apperr.KindNotFound, "x")))
	assert.Equal(t, connect.CodeResourceExhausted, connectCode(apperr.New(apperr.KindRateLimit, "x")))
	assert.Equal(t, connect.CodeFailedPrecondition, connectCode(apperr.New(apperr.KindJobFailed, "x")))
	assert.Equal(t, connect.CodeDeadlineExceeded, connectCode(apperr.New(apperr.KindTimeout, "x")))
	assert.Equal(t, connect.CodeUnavailable, connectCode(apperr.New(apperr.KindNetwork, "x")))
	assert.Equal(t, connect.CodeCanceled, connectCode(context.Canceled))
}

type unknownCard struct{ domain.CoverCard }

func TestToCardMessage_UnknownType(t *testing.T) {
	_, err := toCardMessage(unknownCard{})
	assert.Error(t, err)
}

func TestTrackSocket_StreamsUntilDone(t *testing.T) {
	h := &TrackSocket{svc: &fakeService{statuses: happyStatuses()}, logger: zerolog.Nop()}
	srv := httptest.NewServer(h)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/track?riotId=Player%23EUW&year=2024"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var states []string
	for {
		var u TrackUpdate
		if err := conn.ReadJSON(&u); err != nil {
			assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "unexpected error: %v", err)
			break
		}
		states = append(states, u.State)
	}
	assert.Equal(t, []string{"REQUESTING", "POLLING", "DONE"}, states)
}

func TestTrackSocket_RejectsMalformedYear(t *testing.T) {
	svc := &fakeService{statuses: happyStatuses()}
	h := &TrackSocket{svc: svc, logger: zerolog.Nop()}
	srv := httptest.NewServer(h)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/track?riotId=Player%23EUW&year=twenty"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.ErrorIs(t, err, websocket.ErrBadHandshake)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

type fixedRateLimit struct{ info api.RateLimitInfo }

func (f fixedRateLimit) RateLimit() api.RateLimitInfo { return f.info }

func TestHealthHandler(t *testing.T) {
	h := &HealthHandler{backend: fixedRateLimit{info: api.RateLimitInfo{Limit: 90, Remaining: 12}}, logger: zerolog.Nop()}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.EqualValues(t, 12, body["backendRateLimit"].(map[string]any)["remaining"])
}
