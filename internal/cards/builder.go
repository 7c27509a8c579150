// Package cards turns a finished WrappedSummary into the fixed sequence of
// narrative cards.
package cards

import (
	"context"
	"fmt"
	"strconv"

	"tft-wrapped/internal/apperr"
	"tft-wrapped/internal/constants"
	"tft-wrapped/internal/domain"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Lookups resolves the dataset tables that list items take their icons from.
type Lookups interface {
	Traits(ctx context.Context) (domain.LookupTable, error)
	Champions(ctx context.Context) (domain.LookupTable, error)
	IconURL(kind domain.DatasetKind, full string) string
}

type Builder struct {
	lookups Lookups
	logger  zerolog.Logger
}

func NewBuilder(lookups Lookups, logger zerolog.Logger) *Builder {
	return &Builder{lookups: lookups, logger: logger}
}

// stats are the scalars every card is derived from.
type stats struct {
	games        int
	perDay       float64
	firsts       int
	seconds      int
	eighths      int
	topHalf      int
	bottomHalf   int
	topHalfRate  float64
	modalPlace   int
	modalCount   int
	avgPlacement float64
}

func deriveStats(s *domain.WrappedSummary) stats {
	st := stats{
		games:        s.GamesPlayed,
		perDay:       float64(s.GamesPlayed) / constants.DaysPerYear,
		firsts:       s.Placement(1),
		seconds:      s.Placement(2),
		eighths:      s.Placement(8),
		avgPlacement: s.AvgPlacement,
	}
	for p := 1; p <= 4; p++ {
		st.topHalf += s.Placement(p)
	}
	for p := 5; p <= 8; p++ {
		st.bottomHalf += s.Placement(p)
	}
	if s.GamesPlayed > 0 {
		st.topHalfRate = float64(st.topHalf) / float64(s.GamesPlayed)
	}
	st.modalPlace, st.modalCount = modalPlacement(s)
	return st
}

// modalPlacement starts from 4th and only moves on a strictly larger count,
// so ties and empty years stay on 4th.
func modalPlacement(s *domain.WrappedSummary) (int, int) {
	place, count := 4, s.Placement(4)
	for p := 1; p <= 8; p++ {
		if c := s.Placement(p); c > count {
			place, count = p, c
		}
	}
	return place, count
}

// Build resolves both lookup tables and then returns the 14 cards in display
// order. Either table failing fails the whole build.
func (b *Builder) Build(ctx context.Context, summary *domain.WrappedSummary) ([]domain.Card, error) {
	if summary == nil || !summary.Ready {
		return nil, apperr.New(apperr.KindNotReady, "Wrapped summary is not ready yet.")
	}

	var traits, champions domain.LookupTable
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		t, err := b.lookups.Traits(gctx)
		if err != nil {
			return err
		}
		traits = t
		return nil
	})
	g.Go(func() error {
		c, err := b.lookups.Champions(gctx)
		if err != nil {
			return err
		}
		champions = c
		return nil
	})
	if err := g.Wait(); err != nil {
		b.logger.Error().Err(err).Str("puuid", summary.Puuid).Msg("failed to resolve icon datasets")
		return nil, apperr.Wrap(apperr.KindIconLookup, "Could not load champion and trait data.", err)
	}

	st := deriveStats(summary)
	year := summary.Year
	if year == 0 {
		year = constants.DefaultYear
	}

	unitItems := b.listItems("units", summary.TopUnits, champions, domain.DatasetChampions, func(nc domain.NamedCount) string {
		return fmt.Sprintf("%s — %d", humanize(nc.Name), nc.Count)
	})
	traitItems := b.listItems("traits", summary.TopTraits, traits, domain.DatasetTraits, func(nc domain.NamedCount) string {
		return fmt.Sprintf("%s — %d games", humanize(nc.Name), nc.Count)
	})

	cards := []domain.Card{
		domain.CoverCard{CardBase: domain.CardBase{
			ID:         "cover",
			Title:      fmt.Sprintf("Your %d TFT Wrapped", year),
			Background: backgrounds[0],
		}},
		domain.StatCard{CardBase: domain.CardBase{
			ID:         "time",
			Title:      gamesTitle(st.games),
			Headline:   fmt.Sprintf("%d games", st.games),
			Subtext:    gamesIntroSubtitle(st.games),
			Background: backgrounds[1],
		}},
		domain.StatCard{CardBase: domain.CardBase{
			ID:         "comfort",
			Title:      "Comfort zone",
			Headline:   "You lived in " + ordinal(st.modalPlace),
			Subtext:    strconv.Itoa(st.modalCount) + " times. That place had your name on it.",
			Background: backgrounds[3],
		}},
		domain.StatCard{CardBase: domain.CardBase{
			ID:         "grind",
			Title:      "The grind",
			Headline:   toFixed(st.perDay, 1) + " games / day",
			Subtext:    gamesPerDaySubtitle(st.perDay),
			Background: backgrounds[4],
		}},
		domain.StatCard{CardBase: domain.CardBase{
			ID:         "avg",
			Title:      "Consistency",
			Headline:   toFixed(st.avgPlacement, 2) + " avg",
			Subtext:    avgPlacementSubtitle(st.avgPlacement),
			Background: backgrounds[2],
		}},
		domain.StatCard{CardBase: domain.CardBase{
			ID:         "split",
			Title:      "Lobby split",
			Headline:   percent(st.topHalfRate) + " top-half",
			Subtext:    lobbySplitSubtitle(st.topHalf, st.bottomHalf, st.topHalfRate),
			Background: backgrounds[3],
		}},
		domain.StatCard{
			CardBase: domain.CardBase{
				ID:         "podium",
				Title:      "Podium magnet",
				Headline:   secondPlaceChip(st.seconds),
				Subtext:    secondPlaceSubtitle(st.seconds),
				Background: backgrounds[0],
			},
			Value: fmt.Sprintf("2nd × %d", st.seconds),
		},
		domain.StatCard{CardBase: domain.CardBase{
			ID:         "wins",
			Title:      "The highs",
			Headline:   fmt.Sprintf("%d firsts", st.firsts),
			Subtext:    winsSubtitle(st.firsts, st.games),
			Background: backgrounds[1],
		}},
		domain.StatCard{CardBase: domain.CardBase{
			ID:         "lows",
			Title:      "The lows",
			Headline:   fmt.Sprintf("%d eighths", st.eighths),
			Subtext:    lowsSubtitle(st.eighths, st.games),
			Background: backgrounds[4],
		}},
		domain.HighlightCard{
			CardBase: domain.CardBase{
				ID:         "best",
				Title:      "Peak moment",
				Headline:   gameHeadline(summary.BestGame),
				Subtext:    fmt.Sprintf("%d gold left. You didn’t win — you ended it.", summary.BestGame.GoldLeft),
				Background: backgrounds[1],
			},
			Meta: []domain.ListItem{{ID: "best-meta-0", Label: peakMomentLabel(summary.BestGame)}},
		},
		domain.HighlightCard{
			CardBase: domain.CardBase{
				ID:         "worst",
				Title:      "Rock bottom",
				Headline:   gameHeadline(summary.WorstGame),
				Subtext:    fmt.Sprintf("%d gold. Some of us just have receipts.", summary.WorstGame.GoldLeft),
				Background: backgrounds[4],
			},
			Meta: []domain.ListItem{{ID: "worst-meta-0", Label: rockBottomLabel(summary.WorstGame)}},
		},
		domain.ListCard{
			CardBase: domain.CardBase{
				ID:         "units",
				Title:      "Signature units",
				Headline:   "Your top units",
				Subtext:    unitSubtitle(summary.TopUnits, st.games),
				Background: backgrounds[2],
			},
			Items: unitItems,
		},
		domain.ListCard{
			CardBase: domain.CardBase{
				ID:         "traits",
				Title:      "Fortress comps",
				Headline:   "Your top traits",
				Subtext:    traitSubtitle(summary.TopTraits, st.games),
				Background: backgrounds[3],
			},
			Items: traitItems,
		},
		domain.OutroCard{CardBase: domain.CardBase{
			ID:         "outro",
			Title:      "See you in queue",
			Headline:   "Turn 2nds into 1sts",
			Subtext:    fmt.Sprintf("%d is your conversion arc.", year+1),
			Background: backgrounds[1],
		}},
	}

	b.logger.Debug().
		Str("puuid", summary.Puuid).
		Int("year", year).
		Int("cards", len(cards)).
		Msg("cards built")

	return cards, nil
}

func gameHeadline(g domain.GameHighlight) string {
	return fmt.Sprintf("Lvl %d • #%d", g.Level, g.Placement)
}

// listItems keeps at most MaxListItems entries. A name missing from table, or
// an entry without an image, yields an item with no icon.
func (b *Builder) listItems(prefix string, entries []domain.NamedCount, table domain.LookupTable, kind domain.DatasetKind, label func(domain.NamedCount) string) []domain.ListItem {
	if len(entries) > constants.MaxListItems {
		entries = entries[:constants.MaxListItems]
	}

	items := make([]domain.ListItem, 0, len(entries))
	for idx, nc := range entries {
		item := domain.ListItem{
			ID:    fmt.Sprintf("%s-item-%d-%s", prefix, idx, nc.Name),
			Label: label(nc),
		}
		if entry, ok := table[nc.Name]; ok && entry.Image.Full != "" {
			item.Icon = b.lookups.IconURL(kind, entry.Image.Full)
		}
		items = append(items, item)
	}
	return items
}
