package api

import (
	"strconv"
	"sync"
	"time"

	"github.com/valyala/fasthttp"
)

type RateLimitInfo struct {
	Limit     int `json:"limit"`
	Remaining int `json:"remaining"`

	// seconds until reset
	Reset int `json:"reset"`

	UpdatedAt time.Time `json:"updatedAt"`
}

// rateLimitTracker remembers the last throttling headers the backend sent.
// Zero values mean the backend never reported them.
type rateLimitTracker struct {
	mu   sync.RWMutex
	info RateLimitInfo
}

func (t *rateLimitTracker) snapshot() RateLimitInfo {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.info
}

func (t *rateLimitTracker) observe(resp *fasthttp.Response) {
	t.mu.Lock()
	defer t.mu.Unlock()

	seen := false
	if v, ok := headerInt(resp, "X-Ratelimit-Limit"); ok {
		t.info.Limit = v
		seen = true
	}
	if v, ok := headerInt(resp, "X-Ratelimit-Remaining"); ok {
		t.info.Remaining = v
		seen = true
	}
	if v, ok := headerInt(resp, "X-Ratelimit-Reset"); ok {
		t.info.Reset = v
		seen = true
	}
	if v, ok := headerInt(resp, "Retry-After"); ok {
		t.info.Remaining = 0
		t.info.Reset = v
		seen = true
	}
	if seen {
		t.info.UpdatedAt = time.Now()
	}
}

func headerInt(resp *fasthttp.Response, name string) (int, bool) {
	raw := resp.Header.Peek(name)
	if len(raw) == 0 {
		return 0, false
	}
	v, err := strconv.Atoi(string(raw))
	if err != nil {
		return 0, false
	}
	return v, true
}
