package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"tft-wrapped/internal/config"
	"tft-wrapped/internal/domain"

	"github.com/valyala/fasthttp"
)

// BackendClient talks to the job processor that computes the yearly
// summary.
type BackendClient struct {
	baseURL  string
	platform string
	client   *fasthttp.Client
	limits   rateLimitTracker
}

func NewBackendClient(cfg *config.Config) *BackendClient {
	return &BackendClient{
		baseURL:  strings.TrimRight(cfg.BackendBaseURL, "/"),
		platform: cfg.Platform,
		client:   newHTTPClient(),
	}
}

type RequestResponse struct {
	Puuid string  `json:"puuid"`
	Year  int     `json:"year"`
	JobID *string `json:"jobId"`
	State string  `json:"state"`
}

type StatusResponse struct {
	Puuid         string `json:"puuid"`
	Year          int    `json:"year"`
	State         string `json:"state"`
	MatchIDsFound int    `json:"matchIdsFound"`
	MatchesCached int    `json:"matchesCached"`
	SummaryReady  bool   `json:"summaryReady"`
	Message       string `json:"message"`
}

// RequestJob starts the job for (riotID, year) or resumes the existing one.
func (c *BackendClient) RequestJob(ctx context.Context, riotID string, year int) (*RequestResponse, error) {
	body := domain.JobRequest{RiotID: riotID, Year: year, Platform: c.platform}
	return doRequest[RequestResponse](ctx, c.client, fasthttp.MethodPost, c.baseURL+"/api/wrapped/request", body, c.limits.observe)
}

func (c *BackendClient) JobStatus(ctx context.Context, puuid string, year int) (*StatusResponse, error) {
	u := fmt.Sprintf("%s/api/wrapped/status?%s", c.baseURL, playerYearQuery(puuid, year))
	return doRequest[StatusResponse](ctx, c.client, fasthttp.MethodGet, u, nil, c.limits.observe)
}

// Summary returns the finished summary, or one with Ready=false while the
// backend is still computing.
func (c *BackendClient) Summary(ctx context.Context, puuid string, year int) (*domain.WrappedSummary, error) {
	u := fmt.Sprintf("%s/api/wrapped?%s", c.baseURL, playerYearQuery(puuid, year))
	return doRequest[domain.WrappedSummary](ctx, c.client, fasthttp.MethodGet, u, nil, c.limits.observe)
}

// RateLimit reports the most recent throttling headers from the backend.
func (c *BackendClient) RateLimit() RateLimitInfo {
	return c.limits.snapshot()
}

func playerYearQuery(puuid string, year int) string {
	q := url.Values{}
	q.Set("puuid", puuid)
	q.Set("year", strconv.Itoa(year))
	return q.Encode()
}
