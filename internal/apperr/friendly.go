package apperr

import (
	"encoding/json"
	"regexp"
	"strings"
)

const genericMessage = "Something went wrong"

// Friendly is the user-facing rendering of a failure message. Detail always
// carries the raw message.
type Friendly struct {
	Title     string `json:"title"`
	Body      string `json:"body"`
	Detail    string `json:"detail"`
	ShowHints bool   `json:"showHints"`
}

func FriendlyMessage(msg string) Friendly {
	lower := strings.ToLower(msg)

	switch {
	case strings.Contains(lower, "riotid must be in format"):
		return Friendly{
			Title:     "Riot ID format",
			Body:      "Please make sure your Riot ID is in the correct format.",
			Detail:    msg,
			ShowHints: true,
		}
	case strings.Contains(lower, "not found"):
		return Friendly{
			Title:     "Player not found",
			Body:      "We couldn't find a player with that Riot ID. Make sure it’s written as GameName#TAG.",
			Detail:    msg,
			ShowHints: true,
		}
	case strings.Contains(lower, "rate") && strings.Contains(lower, "limit"):
		return Friendly{
			Title:  "Too many requests",
			Body:   "Riot API is throttling us for a moment. Try again in a bit.",
			Detail: msg,
		}
	default:
		return Friendly{Title: genericMessage, Body: msg, Detail: msg}
	}
}

var upstreamURLPattern = regexp.MustCompile(`(?i)from GET https?://\S+`)

// PayloadMessage extracts a message from a backend error body. JSON bodies
// may carry {"message": ...} or {"error": {"message": ...}}; anything else
// is treated as text.
func PayloadMessage(contentType string, body []byte) string {
	if strings.Contains(contentType, "application/json") {
		var payload struct {
			Message string          `json:"message"`
			Error   json.RawMessage `json:"error"`
		}
		if err := json.Unmarshal(body, &payload); err == nil {
			if payload.Message != "" {
				return payload.Message
			}
			var nested struct {
				Message string `json:"message"`
			}
			if len(payload.Error) > 0 && json.Unmarshal(payload.Error, &nested) == nil && nested.Message != "" {
				return nested.Message
			}
			var flat string
			if len(payload.Error) > 0 && json.Unmarshal(payload.Error, &flat) == nil && flat != "" {
				return flat
			}
			return genericMessage
		}
	}

	text := strings.TrimSpace(upstreamURLPattern.ReplaceAllString(string(body), ""))
	if text == "" {
		return genericMessage
	}
	return text
}
