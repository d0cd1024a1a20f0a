package runtime

import (
	"context"
	"time"

	"ivote/contexts/estimation/voting-room/ports"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	roomIDLeadingAlphabet = "123456789"
	roomIDAlphabet        = "0123456789"
	roomIDLength          = 5
)

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// RoomIDs proposes five digit room ids in 10000..99999.
type RoomIDs struct{}

func (RoomIDs) NewRoomID(context.Context) (string, error) {
	head, err := gonanoid.Generate(roomIDLeadingAlphabet, 1)
	if err != nil {
		return "", err
	}
	tail, err := gonanoid.Generate(roomIDAlphabet, roomIDLength-1)
	if err != nil {
		return "", err
	}
	return head + tail, nil
}

var _ ports.Clock = SystemClock{}
var _ ports.RoomIDGenerator = RoomIDs{}
