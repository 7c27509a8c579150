package server

import (
	"errors"
	"fmt"
	"time"

	"tft-wrapped/internal/apperr"
	"tft-wrapped/internal/domain"
)

type TrackRequest struct {
	RiotID string `json:"riotId"`
	Year   int    `json:"year"`
}

type ErrorDetail struct {
	Kind      string `json:"kind"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	Detail    string `json:"detail"`
	ShowHints bool   `json:"showHints"`
}

type TrackUpdate struct {
	RunID         string       `json:"runId"`
	State         string       `json:"state"`
	BackendState  string       `json:"backendState,omitempty"`
	Puuid         string       `json:"puuid,omitempty"`
	Year          int          `json:"year"`
	MatchIDsFound int          `json:"matchIdsFound"`
	MatchesCached int          `json:"matchesCached"`
	SummaryReady  bool         `json:"summaryReady"`
	Progress      int          `json:"progress"`
	Info          string       `json:"info"`
	CachedLine    string       `json:"cachedLine"`
	UpdatedAt     string       `json:"updatedAt"`
	Error         *ErrorDetail `json:"error,omitempty"`
}

type CardsRequest struct {
	Puuid string `json:"puuid"`
	Year  int    `json:"year"`
}

type ListItemMessage struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Icon  string `json:"icon,omitempty"`
}

type CardMessage struct {
	ID         string            `json:"id"`
	Type       string            `json:"type"`
	Title      string            `json:"title"`
	Headline   string            `json:"headline,omitempty"`
	Subtext    string            `json:"subtext,omitempty"`
	Value      string            `json:"value,omitempty"`
	Items      []ListItemMessage `json:"items,omitempty"`
	Meta       []ListItemMessage `json:"meta,omitempty"`
	Background string            `json:"bg"`
}

type CardsResponse struct {
	Puuid string        `json:"puuid"`
	Year  int           `json:"year"`
	Cards []CardMessage `json:"cards"`
}

func toTrackUpdate(s domain.JobStatus) *TrackUpdate {
	u := &TrackUpdate{
		RunID:         s.RunID,
		State:         string(s.State),
		BackendState:  s.BackendState,
		Puuid:         s.Puuid,
		Year:          s.Year,
		MatchIDsFound: s.MatchIDsFound,
		MatchesCached: s.MatchesCached,
		SummaryReady:  s.SummaryReady,
		Progress:      s.Progress(),
		Info:          s.Info(),
		CachedLine:    s.CachedLine(),
		UpdatedAt:     s.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if s.State == domain.JobDone {
		u.Progress = 100
	}
	if s.State == domain.JobFailed {
		u.Error = toErrorDetail(s.Err, s.Message)
	}
	return u
}

func toErrorDetail(err error, fallback string) *ErrorDetail {
	msg := fallback
	var appErr *apperr.Error
	if errors.As(err, &appErr) && appErr.Message != "" {
		msg = appErr.Message
	} else if msg == "" && err != nil {
		msg = err.Error()
	}

	f := apperr.FriendlyMessage(msg)
	return &ErrorDetail{
		Kind:      apperr.KindOf(err).String(),
		Title:     f.Title,
		Body:      f.Body,
		Detail:    f.Detail,
		ShowHints: f.ShowHints,
	}
}

func toCardMessage(card domain.Card) (CardMessage, error) {
	base := card.Base()
	msg := CardMessage{
		ID:         base.ID,
		Type:       string(card.Kind()),
		Title:      base.Title,
		Headline:   base.Headline,
		Subtext:    base.Subtext,
		Background: base.Background,
	}

	switch c := card.(type) {
	case domain.CoverCard, domain.OutroCard:
	case domain.StatCard:
		msg.Value = c.Value
	case domain.ListCard:
		msg.Items = toItemMessages(c.Items)
	case domain.HighlightCard:
		msg.Meta = toItemMessages(c.Meta)
	default:
		return CardMessage{}, fmt.Errorf("unknown card type %T", card)
	}
	return msg, nil
}

func toItemMessages(items []domain.ListItem) []ListItemMessage {
	out := make([]ListItemMessage, 0, len(items))
	for _, it := range items {
		out = append(out, ListItemMessage{ID: it.ID, Label: it.Label, Icon: it.Icon})
	}
	return out
}
