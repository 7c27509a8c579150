package cards

import (
	"unicode"
	"unicode/utf16"

	"tft-wrapped/internal/domain"
)

// seedOf sums the leading UTF-16 unit of each code point in id. The same
// match always yields the same seed, so captions never change between
// renders.
func seedOf(id string) int {
	seed := 0
	for _, r := range id {
		if hi, _ := utf16.EncodeRune(r); hi != unicode.ReplacementChar {
			seed += int(hi)
			continue
		}
		seed += int(r)
	}
	return seed
}

func pick(options []string, seed int) string {
	n := len(options)
	return options[((seed%n)+n)%n]
}

var (
	peakFinalRoll = []string{"The final roll down", "Endgame spike", "All-in, all hit", "Perfect cash-out", "The lobby ended here"}
	peakRichWin   = []string{"Rich AND winning", "Econ diff", "Saved gold, still won", "Luxury victory"}
	peakLevelTen  = []string{"Level 10 supremacy", "Capped board moment", "Exodia energy", "Late-game masterpiece"}
	peakTopTwo    = []string{"Clean execution", "Top 2 aura", "Calculated finish", "Everything clicked"}
	peakFallback  = []string{"A good day in queue", "Momentum game", "The one that felt easy"}
	lowDiedRich   = []string{"Died rich", "Econ with no time", "Greed punished", "Bank account, no HP"}
	lowFastEight  = []string{"Never stabilized", "Fast 8 incident", "Rough early game", "Went next speedrun"}
	lowBottomTwo  = []string{"One of those games", "Couldn’t find the angle", "Tilt queue moment", "Bad RNG allegations"}
	lowFallback   = []string{"Not your cleanest", "We learn and queue again"}
)

func peakMomentLabel(g domain.GameHighlight) string {
	seed := seedOf(g.MatchID)
	switch {
	case g.Placement == 1 && g.Level >= 9 && g.GoldLeft <= 10:
		return pick(peakFinalRoll, seed)
	case g.Placement == 1 && g.GoldLeft >= 30:
		return pick(peakRichWin, seed)
	case g.Level >= 10:
		return pick(peakLevelTen, seed)
	case g.Placement <= 2:
		return pick(peakTopTwo, seed)
	default:
		return pick(peakFallback, seed)
	}
}

func rockBottomLabel(g domain.GameHighlight) string {
	seed := seedOf(g.MatchID)
	switch {
	case g.Placement == 8 && g.GoldLeft >= 30:
		return pick(lowDiedRich, seed)
	case g.Placement == 8 && g.Level <= 6:
		return pick(lowFastEight, seed)
	case g.Placement >= 7:
		return pick(lowBottomTwo, seed)
	default:
		return pick(lowFallback, seed)
	}
}
