package domain

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"tft-wrapped/internal/constants"
)

var riotIDPattern = regexp.MustCompile(`^[^#]{3,16}#[A-Za-z0-9]{2,5}$`)

// ValidRiotID reports whether s (surrounding whitespace ignored) has the
// GameName#TAG shape.
func ValidRiotID(s string) bool {
	return riotIDPattern.MatchString(strings.TrimSpace(s))
}

type JobRequest struct {
	RiotID   string `json:"riotId"`
	Year     int    `json:"year"`
	Platform string `json:"platform"`
}

type JobState string

const (
	JobRequesting JobState = "REQUESTING"
	JobPolling    JobState = "POLLING"
	JobDone       JobState = "DONE"
	JobFailed     JobState = "FAILED"
)

func (s JobState) Terminal() bool {
	return s == JobDone || s == JobFailed
}

type JobStatus struct {
	RunID         string    `json:"runId"`
	RiotID        string    `json:"riotId"`
	Puuid         string    `json:"puuid"`
	Year          int       `json:"year"`
	State         JobState  `json:"state"`
	BackendState  string    `json:"backendState,omitempty"`
	MatchIDsFound int       `json:"matchIdsFound"`
	MatchesCached int       `json:"matchesCached"`
	SummaryReady  bool      `json:"summaryReady"`
	Message       string    `json:"message"`
	Err           error     `json:"-"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Progress is capped at 95 so the bar never reads complete before the job
// reaches a terminal state.
func (s JobStatus) Progress() int {
	found := s.MatchIDsFound
	if found < 1 {
		found = 1
	}
	pct := int(math.Round(float64(s.MatchesCached) / float64(found) * 100))
	if pct > constants.MaxProgressPercent {
		return constants.MaxProgressPercent
	}
	if pct < 0 {
		return 0
	}
	return pct
}

func (s JobStatus) CachedLine() string {
	return "Cached " + strconv.Itoa(s.MatchesCached) + " / " + strconv.Itoa(s.MatchIDsFound) + " matches"
}

// Info is the short progress message shown while polling.
func (s JobStatus) Info() string {
	if s.Message != "" {
		return s.Message
	}
	if s.BackendState != "" {
		return s.BackendState
	}
	return string(s.State)
}

type NamedCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type GameHighlight struct {
	Level     int    `json:"level"`
	Placement int    `json:"placement"`
	GoldLeft  int    `json:"goldLeft"`
	MatchID   string `json:"matchId"`
}

type WrappedSummary struct {
	Ready        bool           `json:"ready"`
	Message      string         `json:"message,omitempty"`
	Puuid        string         `json:"puuid"`
	Year         int            `json:"year"`
	GamesPlayed  int            `json:"gamesPlayed"`
	AvgPlacement float64        `json:"avgPlacement"`
	Top4Rate     float64        `json:"top4Rate"`
	Placements   map[string]int `json:"placements"`
	TopTraits    []NamedCount   `json:"topTraits"`
	TopUnits     []NamedCount   `json:"topUnits"`
	BestGame     GameHighlight  `json:"bestGame"`
	WorstGame    GameHighlight  `json:"worstGame"`
}

// Placement returns the count for a finishing position; absent keys are 0.
func (w *WrappedSummary) Placement(p int) int {
	if w.Placements == nil {
		return 0
	}
	return w.Placements[strconv.Itoa(p)]
}

type DatasetKind string

const (
	DatasetTraits    DatasetKind = "tft-trait"
	DatasetChampions DatasetKind = "tft-champion"
)

type DatasetImage struct {
	Full string `json:"full"`
}

type DatasetEntry struct {
	ID    string       `json:"id,omitempty"`
	Name  string       `json:"name"`
	Image DatasetImage `json:"image"`
}

// LookupTable maps a dataset identifier to its display name and icon file.
// Tables are read-only once resolved.
type LookupTable map[string]DatasetEntry
