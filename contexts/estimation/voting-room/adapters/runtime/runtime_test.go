package runtime

import (
	"context"
	"strconv"
	"testing"
)

func TestRoomIDsAreFiveDigitNumbers(t *testing.T) {
	var ids RoomIDs
	for i := 0; i < 200; i++ {
		id, err := ids.NewRoomID(context.Background())
		if err != nil {
			t.Fatalf("new room id: %v", err)
		}
		n, err := strconv.Atoi(id)
		if err != nil || len(id) != 5 || n < 10000 || n > 99999 {
			t.Fatalf("unexpected room id %q", id)
		}
	}
}
