package domain

type CardKind string

const (
	CardCover     CardKind = "cover"
	CardStat      CardKind = "stat"
	CardList      CardKind = "list"
	CardHighlight CardKind = "highlight"
	CardOutro     CardKind = "outro"
)

// ListItem.Icon is empty when no icon could be resolved.
type ListItem struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Icon  string `json:"icon,omitempty"`
}

func (i ListItem) HasIcon() bool { return i.Icon != "" }

type CardBase struct {
	ID         string
	Title      string
	Headline   string
	Subtext    string
	Background string
}

// Card is a closed sum type: the only implementations are the five card
// structs below. Consumers switch on the concrete type.
type Card interface {
	Base() CardBase
	Kind() CardKind
	card()
}

type CoverCard struct {
	CardBase
}

type StatCard struct {
	CardBase
	Value string
}

type ListCard struct {
	CardBase
	Items []ListItem
}

type HighlightCard struct {
	CardBase
	Meta []ListItem
}

type OutroCard struct {
	CardBase
}

func (c CoverCard) Base() CardBase     { return c.CardBase }
func (c StatCard) Base() CardBase      { return c.CardBase }
func (c ListCard) Base() CardBase      { return c.CardBase }
func (c HighlightCard) Base() CardBase { return c.CardBase }
func (c OutroCard) Base() CardBase     { return c.CardBase }

func (CoverCard) Kind() CardKind     { return CardCover }
func (StatCard) Kind() CardKind      { return CardStat }
func (ListCard) Kind() CardKind      { return CardList }
func (HighlightCard) Kind() CardKind { return CardHighlight }
func (OutroCard) Kind() CardKind     { return CardOutro }

func (CoverCard) card()     {}
func (StatCard) card()      {}
func (ListCard) card()      {}
func (HighlightCard) card() {}
func (OutroCard) card()     {}
