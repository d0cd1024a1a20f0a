package entities

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Card is a vote token. Numeric cards keep their canonical decimal form
// ("0.5", "13"); the rest are symbolic ("?", "coffee", "XL").
type Card string

// Numeric returns the card value when the token is a number.
func (c Card) Numeric() (float64, bool) {
	value, err := strconv.ParseFloat(string(c), 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, false
	}
	return value, true
}

// MarshalJSON writes numeric cards as JSON numbers and the rest as strings.
func (c Card) MarshalJSON() ([]byte, error) {
	if value, ok := c.Numeric(); ok {
		return []byte(strconv.FormatFloat(value, 'f', -1, 64)), nil
	}
	return json.Marshal(string(c))
}

func (c *Card) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if strings.HasPrefix(raw, "\"") {
		var token string
		if err := json.Unmarshal(data, &token); err != nil {
			return err
		}
		*c = Card(token)
		return nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return err
	}
	*c = Card(strconv.FormatFloat(value, 'f', -1, 64))
	return nil
}

type CardPackage string

const (
	CardPackageMountainGoat CardPackage = "mountainGoat"
	CardPackageFibonacci    CardPackage = "fibonacci"
	CardPackageTShirt       CardPackage = "tshirt"
)

// AggregationPolicy says how revealed votes are summarised for a deck.
type AggregationPolicy string

const (
	AggregationNone    AggregationPolicy = "none"
	AggregationAverage AggregationPolicy = "average"
)

type Deck struct {
	Package     CardPackage
	Cards       []Card
	Aggregation AggregationPolicy
}

var decks = []Deck{
	{
		Package:     CardPackageMountainGoat,
		Cards:       []Card{"0", "0.5", "1", "2", "3", "5", "8", "13", "20", "40", "100", "?", "coffee"},
		Aggregation: AggregationAverage,
	},
	{
		Package:     CardPackageFibonacci,
		Cards:       []Card{"0", "1", "2", "3", "5", "8", "13", "21", "34", "55", "89", "?", "coffee"},
		Aggregation: AggregationAverage,
	},
	{
		Package:     CardPackageTShirt,
		Cards:       []Card{"XS", "S", "M", "L", "XL", "XXL", "?"},
		Aggregation: AggregationNone,
	},
}

// Decks lists every supported card package in display order.
func Decks() []Deck {
	out := make([]Deck, 0, len(decks))
	for _, deck := range decks {
		deck.Cards = append([]Card(nil), deck.Cards...)
		out = append(out, deck)
	}
	return out
}

func LookupDeck(pkg CardPackage) (Deck, bool) {
	for _, deck := range decks {
		if deck.Package == pkg {
			return deck, true
		}
	}
	return Deck{}, false
}

func (p CardPackage) Valid() bool {
	_, ok := LookupDeck(p)
	return ok
}

func (d Deck) Contains(card Card) bool {
	for _, candidate := range d.Cards {
		if candidate == card {
			return true
		}
	}
	return false
}
