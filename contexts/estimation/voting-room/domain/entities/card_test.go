package entities

import (
	"encoding/json"
	"testing"
)

func TestCardJSONEncoding(t *testing.T) {
	raw, err := json.Marshal(map[string]Card{"a": "0.5", "b": "?", "c": "13"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(raw) != `{"a":0.5,"b":"?","c":13}` {
		t.Fatalf("unexpected encoding %s", raw)
	}

	var decoded map[string]Card
	if err := json.Unmarshal([]byte(`{"a":0.50,"b":"coffee","c":13}`), &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded["a"] != "0.5" || decoded["b"] != "coffee" || decoded["c"] != "13" {
		t.Fatalf("unexpected decode %v", decoded)
	}
}

func TestDeckContains(t *testing.T) {
	deck, ok := LookupDeck(CardPackageMountainGoat)
	if !ok {
		t.Fatalf("mountainGoat deck missing")
	}
	if !deck.Contains("0.5") || !deck.Contains("?") {
		t.Fatalf("expected deck cards present")
	}
	if deck.Contains("21") {
		t.Fatalf("fibonacci card accepted by mountainGoat deck")
	}
	if CardPackage("tarot").Valid() {
		t.Fatalf("unknown package reported valid")
	}
}

func TestRoomAcceptsVotes(t *testing.T) {
	room := Room{State: RoomStateRevealed}
	if room.AcceptsVotes() {
		t.Fatalf("revealed room without option must reject votes")
	}
	room.Options.AllowVotesAfterReveal = true
	if !room.AcceptsVotes() {
		t.Fatalf("revealed room with option must accept votes")
	}
	room.State = RoomStateVoting
	room.Options.AllowVotesAfterReveal = false
	if !room.AcceptsVotes() {
		t.Fatalf("voting room must accept votes")
	}
}
