package cards

import (
	"fmt"
	"math"
)

var backgrounds = [...]string{
	"bg-gradient-to-br from-orange-600 via-purple-700 to-indigo-800",
	"bg-gradient-to-br from-rose-600 via-orange-500 to-amber-400",
	"bg-gradient-to-br from-emerald-500 via-teal-650 to-cyan-700",
	"bg-gradient-to-br from-sky-500 via-blue-700 to-violet-800",
	"bg-gradient-to-br from-zinc-900 via-slate-900 to-black",
}

func gamesTitle(games int) string {
	switch {
	case games > 800:
		return "Built different"
	case games > 400:
		return "Locked in"
	case games > 150:
		return "Consistent climb"
	default:
		return "Just getting started"
	}
}

func gamesIntroSubtitle(games int) string {
	switch {
	case games >= 1000:
		return "You didn’t log in. You clocked in."
	case games >= 600:
		return "This wasn’t a phase. It was a lifestyle."
	case games >= 400:
		return "Consistency is a skill. You mastered it."
	case games >= 250:
		return "You kept coming back — and it showed."
	case games >= 150:
		return "Not every day. But often enough to matter."
	case games >= 75:
		return "Enough games to leave a mark."
	default:
		return "Every journey starts somewhere."
	}
}

func gamesPerDaySubtitle(perDay float64) string {
	switch {
	case math.IsNaN(perDay) || math.IsInf(perDay, 0):
		return "How often you queued up this year."
	case perDay >= 6:
		return "TFT was basically a daily ritual."
	case perDay >= 3:
		return "You checked in almost every day."
	case perDay >= 1:
		return "A steady part of your routine."
	default:
		return "You played when it felt right."
	}
}

func avgPlacementSubtitle(avg float64) string {
	switch {
	case math.IsNaN(avg) || math.IsInf(avg, 0):
		return "Your average finish across the year."
	case avg <= 3.8:
		return "You consistently played for the top — results followed."
	case avg <= 4.5:
		return "Solid finishes, steady decisions."
	case avg <= 5.2:
		return "You took risks. Sometimes they paid off."
	default:
		return "High risk, high variance — not every game was safe."
	}
}

func lobbySplitSubtitle(top, bottom int, rate float64) string {
	counts := fmt.Sprintf("Top 4: %d • Bottom 4: %d\n", top, bottom)
	switch {
	case rate >= 0.6:
		return counts + "You controlled the lobby"
	case rate >= 0.53:
		return counts + "More pressure than excuses"
	case rate >= 0.5:
		return counts + "Just enough to stay dangerous"
	default:
		return counts + "High risk, high variance"
	}
}

func secondPlaceChip(count int) string {
	switch {
	case count >= 50:
		return "One fight away"
	case count >= 30:
		return "Final round regular"
	default:
		return "Top 2 finishes"
	}
}

func secondPlaceSubtitle(count int) string {
	switch {
	case count >= 60:
		return "You lived on the edge — one fight from victory, again and again."
	case count >= 40:
		return "Final boss energy… just one round short."
	case count >= 20:
		return "Close calls were kind of your thing."
	default:
		return "When you lost, it was rarely by much."
	}
}

// rate divides by at least one game so an empty year reads as 0%.
func rate(count, games int) float64 {
	return float64(count) / float64(max(1, games))
}

func winsSubtitle(firsts, games int) string {
	r := rate(firsts, games)
	prefix := "Winrate " + toFixed(r*100, 1) + "%. "
	switch {
	case r >= 0.12:
		return prefix + "When you hit first, the lobby knows it’s over."
	case r >= 0.08:
		return prefix + "You didn’t win often — but when you did, it was loud."
	case r >= 0.05:
		return prefix + "Clutch victories, perfectly timed."
	default:
		return prefix + "Every win felt earned."
	}
}

func lowsSubtitle(eighths, games int) string {
	r := rate(eighths, games)
	switch {
	case r >= 0.15:
		return "Because TFT isn’t a game. It’s character development."
	case r >= 0.1:
		return "Some games were unwinnable. You queued again anyway."
	case r >= 0.05:
		return "Not every lobby was kind. You survived them all."
	default:
		return "Even your bad games didn’t last long."
	}
}
