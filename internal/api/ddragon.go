package api

import (
	"context"
	"fmt"
	"strings"

	"tft-wrapped/internal/config"
	"tft-wrapped/internal/domain"

	"github.com/valyala/fasthttp"
)

// DDragonClient reads the versioned trait/champion datasets from the Data
// Dragon CDN.
type DDragonClient struct {
	baseURL string
	version string
	locale  string
	client  *fasthttp.Client
}

func NewDDragonClient(cfg *config.Config) *DDragonClient {
	return &DDragonClient{
		baseURL: strings.TrimRight(cfg.DDragonBaseURL, "/"),
		version: cfg.DDragonVersion,
		locale:  cfg.DDragonLocale,
		client:  newHTTPClient(),
	}
}

func (c *DDragonClient) Version() string { return c.version }
func (c *DDragonClient) Locale() string  { return c.locale }

type datasetResponse struct {
	Type    string                         `json:"type"`
	Version string                         `json:"version"`
	Data    map[string]domain.DatasetEntry `json:"data"`
}

func (c *DDragonClient) DataURL(kind domain.DatasetKind) string {
	return fmt.Sprintf("%s/%s/data/%s/%s.json", c.baseURL, c.version, c.locale, kind)
}

// ImageURL builds the icon URL for a dataset entry's image file.
func (c *DDragonClient) ImageURL(kind domain.DatasetKind, full string) string {
	return fmt.Sprintf("%s/%s/img/%s/%s", c.baseURL, c.version, kind, full)
}

// FetchDataset downloads one dataset. Champion entries are keyed by their
// "id" field rather than the CDN's path-like keys, so lookups by unit
// identifier work directly.
func (c *DDragonClient) FetchDataset(ctx context.Context, kind domain.DatasetKind) (domain.LookupTable, error) {
	resp, err := doRequest[datasetResponse](ctx, c.client, fasthttp.MethodGet, c.DataURL(kind), nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s dataset: %w", kind, err)
	}

	table := make(domain.LookupTable, len(resp.Data))
	for key, entry := range resp.Data {
		if kind == domain.DatasetChampions {
			if entry.ID == "" {
				continue
			}
			key = entry.ID
		}
		table[key] = entry
	}
	return table, nil
}
