package cards

import (
	"fmt"
	"math"
	"math/big"
	"regexp"
	"strconv"
	"strings"

	"tft-wrapped/internal/domain"
)

var (
	setPrefix   = regexp.MustCompile(`^TFT\d+_`)
	camelBorder = regexp.MustCompile(`([a-z])([A-Z])`)
)

// humanize turns a dataset identifier such as "TFT15_BattleAcademia" into
// "Battle Academia".
func humanize(id string) string {
	return camelBorder.ReplaceAllString(setPrefix.ReplaceAllString(id, ""), "$1 $2")
}

func ordinal(n int) string {
	suffix := "th"
	switch v := n % 100; {
	case v >= 11 && v <= 13:
	case v%10 == 1:
		suffix = "st"
	case v%10 == 2:
		suffix = "nd"
	case v%10 == 3:
		suffix = "rd"
	}
	return strconv.Itoa(n) + suffix
}

// toFixed formats x with a fixed number of decimals. Unlike fmt it rounds an
// exact tie up, so 4.125 becomes "4.13" rather than "4.12".
func toFixed(x float64, digits int) string {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return strconv.FormatFloat(x, 'f', digits, 64)
	}
	sign := ""
	if x < 0 {
		sign, x = "-", -x
	}

	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(max(digits, 0))), nil)
	r := new(big.Rat).SetFloat64(x)
	r.Mul(r, new(big.Rat).SetInt(scale))
	r.Add(r, big.NewRat(1, 2))
	n := new(big.Int).Quo(r.Num(), r.Denom())

	s := n.String()
	if digits <= 0 {
		return sign + s
	}
	if len(s) <= digits {
		s = strings.Repeat("0", digits-len(s)+1) + s
	}
	return sign + s[:len(s)-digits] + "." + s[len(s)-digits:]
}

func percent(f float64) string {
	return fmt.Sprintf("%d%%", int(math.Round(f*100)))
}

func unitSubtitle(units []domain.NamedCount, games int) string {
	if len(units) == 0 || games == 0 {
		return "Your most trusted champions this year."
	}
	top := units[0]
	if float64(top.Count)/float64(games) > 0.25 {
		return fmt.Sprintf("You kept coming back to %s. Loyalty matters.", humanize(top.Name))
	}
	if len(units) > 1 && top.Count-units[1].Count < 10 {
		return "You rotated your carries — flexibility over commitment."
	}
	return fmt.Sprintf("%s led the way, but you weren’t afraid to adapt.", humanize(top.Name))
}

func traitSubtitle(traits []domain.NamedCount, games int) string {
	if len(traits) == 0 || games == 0 {
		return "The traits that shaped your comps."
	}
	top := traits[0]
	if float64(top.Count)/float64(games) > 0.3 {
		return fmt.Sprintf("%s was your foundation. You built around it again and again.", humanize(top.Name))
	}
	if len(traits) > 1 && top.Count-traits[1].Count < 10 {
		return "You flexed between traits — adaptability over commitment."
	}
	return fmt.Sprintf("%s led your comps, but you stayed flexible.", humanize(top.Name))
}
