package services

import (
	"testing"

	"ivote/contexts/estimation/voting-room/domain/entities"
)

func TestCalculateAverage(t *testing.T) {
	tests := []struct {
		name   string
		votes  []entities.Card
		pkg    entities.CardPackage
		want   float64
		wantOK bool
	}{
		{"empty", nil, entities.CardPackageMountainGoat, 0, false},
		{"numeric mean", []entities.Card{"1", "2", "3"}, entities.CardPackageMountainGoat, 2, true},
		{"half card", []entities.Card{"0.5", "1"}, entities.CardPackageMountainGoat, 0.75, true},
		{"non numeric excluded", []entities.Card{"8", "?", "coffee", "13"}, entities.CardPackageMountainGoat, 10.5, true},
		{"only symbols", []entities.Card{"?", "coffee"}, entities.CardPackageMountainGoat, 0, false},
		{"fibonacci", []entities.Card{"21", "34"}, entities.CardPackageFibonacci, 27.5, true},
		{"no policy", []entities.Card{"XL", "S"}, entities.CardPackageTShirt, 0, false},
		{"unknown deck", []entities.Card{"1"}, entities.CardPackage("tarot"), 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CalculateAverage(tt.votes, tt.pkg)
			if ok != tt.wantOK {
				t.Fatalf("ok: got %v want %v", ok, tt.wantOK)
			}
			if got != tt.want {
				t.Fatalf("average: got %v want %v", got, tt.want)
			}
		})
	}
}
