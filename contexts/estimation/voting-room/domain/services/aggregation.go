package services

import "ivote/contexts/estimation/voting-room/domain/entities"

// CalculateAverage summarises revealed votes according to the deck policy.
// The second result is false when there is nothing to report: no votes, no
// numeric votes, or a deck without an aggregation policy.
func CalculateAverage(votes []entities.Card, pkg entities.CardPackage) (float64, bool) {
	if len(votes) == 0 {
		return 0, false
	}
	deck, ok := entities.LookupDeck(pkg)
	if !ok || deck.Aggregation != entities.AggregationAverage {
		return 0, false
	}

	sum := 0.0
	count := 0
	for _, vote := range votes {
		value, numeric := vote.Numeric()
		if !numeric {
			continue
		}
		sum += value
		count++
	}
	if count == 0 {
		return 0, false
	}
	return sum / float64(count), true
}
