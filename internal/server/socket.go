package server

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"tft-wrapped/internal/domain"
	"tft-wrapped/internal/service"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const socketWriteWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// TrackSocket serves GET /ws/track?riotId=...&year=... and pushes one JSON
// TrackUpdate per job status. Closing the socket cancels the job run.
type TrackSocket struct {
	svc    wrappedService
	logger zerolog.Logger
}

func NewTrackSocket(svc *service.WrappedService, logger zerolog.Logger) *TrackSocket {
	return &TrackSocket{svc: svc, logger: logger}
}

func (h *TrackSocket) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	riotID := r.URL.Query().Get("riotId")
	year := 0
	if raw := r.URL.Query().Get("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(w, "year must be a number", http.StatusBadRequest)
			return
		}
		year = parsed
	}

	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer ws.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Incoming messages are ignored; a read error means the client left.
	go func() {
		defer cancel()
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}()

	h.logger.Debug().Str("riot_id", riotID).Msg("track socket connected")

	_, err = h.svc.Track(ctx, riotID, year, func(st domain.JobStatus) {
		ws.SetWriteDeadline(time.Now().Add(socketWriteWait))
		if err := ws.WriteJSON(toTrackUpdate(st)); err != nil {
			h.logger.Debug().Err(err).Msg("track socket write failed")
			cancel()
		}
	})
	if ctx.Err() != nil {
		h.logger.Debug().Str("riot_id", riotID).Msg("track socket disconnected")
		return
	}

	reason := "done"
	if err != nil {
		reason = "failed"
	}
	ws.SetWriteDeadline(time.Now().Add(socketWriteWait))
	_ = ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, reason))
}
