package cards

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHumanize(t *testing.T) {
	tests := map[string]string{
		"TFT15_BattleAcademia": "Battle Academia",
		"TFT9_Ahri":            "Ahri",
		"Bastion":              "Bastion",
		"TFTSet_Foo":           "TFTSet_Foo",
		"TFT14_KaiSa":          "Kai Sa",
	}
	for in, want := range tests {
		assert.Equal(t, want, humanize(in), in)
	}
}

func TestOrdinal(t *testing.T) {
	tests := map[int]string{
		1: "1st", 2: "2nd", 3: "3rd", 4: "4th", 8: "8th",
		11: "11th", 12: "12th", 13: "13th", 21: "21st", 102: "102nd",
	}
	for in, want := range tests {
		assert.Equal(t, want, ordinal(in))
	}
}

func TestPercent(t *testing.T) {
	assert.Equal(t, "50%", percent(0.5))
	assert.Equal(t, "53%", percent(0.525))
	assert.Equal(t, "0%", percent(0))
}

func TestToFixed(t *testing.T) {
	tests := []struct {
		x      float64
		digits int
		want   string
	}{
		{4.125, 2, "4.13"},
		{4.42, 2, "4.42"},
		{float64(1) / 400 * 100, 1, "0.3"},
		{500.0 / 365, 1, "1.4"},
		{0, 1, "0.0"},
		{0.05, 2, "0.05"},
		{2.5, 0, "3"},
		{1.005, 2, "1.00"},
		{-4.125, 2, "-4.13"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, toFixed(tt.x, tt.digits), "toFixed(%v, %d)", tt.x, tt.digits)
	}
}

func TestWinsSubtitle_RoundsTiesUp(t *testing.T) {
	assert.Equal(t, "Winrate 0.3%. Every win felt earned.", winsSubtitle(1, 400))
	assert.Equal(t, "Winrate 12.5%. When you hit first, the lobby knows it’s over.", winsSubtitle(1, 8))
}

func TestGamesBands(t *testing.T) {
	assert.Equal(t, "Built different", gamesTitle(801))
	assert.Equal(t, "Locked in", gamesTitle(800))
	assert.Equal(t, "Consistent climb", gamesTitle(151))
	assert.Equal(t, "Just getting started", gamesTitle(150))

	assert.Equal(t, "You didn’t log in. You clocked in.", gamesIntroSubtitle(1000))
	assert.Equal(t, "You kept coming back — and it showed.", gamesIntroSubtitle(250))
	assert.Equal(t, "Enough games to leave a mark.", gamesIntroSubtitle(75))
	assert.Equal(t, "Every journey starts somewhere.", gamesIntroSubtitle(74))
}

func TestFloatBands(t *testing.T) {
	assert.Equal(t, "How often you queued up this year.", gamesPerDaySubtitle(math.NaN()))
	assert.Equal(t, "TFT was basically a daily ritual.", gamesPerDaySubtitle(6))
	assert.Equal(t, "You played when it felt right.", gamesPerDaySubtitle(0.99))

	assert.Equal(t, "Your average finish across the year.", avgPlacementSubtitle(math.Inf(1)))
	assert.Equal(t, "You consistently played for the top — results followed.", avgPlacementSubtitle(3.8))
	assert.Equal(t, "Solid finishes, steady decisions.", avgPlacementSubtitle(4.5))
	assert.Equal(t, "You took risks. Sometimes they paid off.", avgPlacementSubtitle(5.2))
	assert.Equal(t, "High risk, high variance — not every game was safe.", avgPlacementSubtitle(5.21))

	assert.Equal(t, "Top 4: 60 • Bottom 4: 40\nYou controlled the lobby", lobbySplitSubtitle(60, 40, 0.6))
	assert.Equal(t, "Top 4: 1 • Bottom 4: 2\nHigh risk, high variance", lobbySplitSubtitle(1, 2, 0.33))
}

func TestRateBands(t *testing.T) {
	assert.Equal(t, "Winrate 12.0%. When you hit first, the lobby knows it’s over.", winsSubtitle(12, 100))
	assert.Equal(t, "Winrate 5.0%. Clutch victories, perfectly timed.", winsSubtitle(5, 100))

	assert.Equal(t, "Because TFT isn’t a game. It’s character development.", lowsSubtitle(15, 100))
	assert.Equal(t, "Some games were unwinnable. You queued again anyway.", lowsSubtitle(10, 100))
	assert.Equal(t, "Not every lobby was kind. You survived them all.", lowsSubtitle(5, 100))
	assert.Equal(t, "Even your bad games didn’t last long.", lowsSubtitle(0, 0))

	assert.Equal(t, "Final round regular", secondPlaceChip(30))
	assert.Equal(t, "Top 2 finishes", secondPlaceChip(29))
	assert.Equal(t, "Final boss energy… just one round short.", secondPlaceSubtitle(40))
	assert.Equal(t, "Close calls were kind of your thing.", secondPlaceSubtitle(20))
}
