package errors

import "errors"

// Code is the stable, client-facing identifier of a business failure.
type Code string

const (
	CodeKickSelf          Code = "KickSelfError"
	CodeNotOwner          Code = "NotOwnerError"
	CodeUserAlreadyInRoom Code = "UserAlreadyInRoomError"
	CodeUserNotInRoom     Code = "UserNotInRoomError"
	CodeVotingNotAllowed  Code = "VotingNotAllowedError"
)

// BusinessError is an expected, policy-driven failure. It is raised before any
// state is mutated and is never retried.
type BusinessError struct {
	Code   Code
	Status int
}

func (e *BusinessError) Error() string {
	return string(e.Code)
}

var (
	ErrKickSelf          = &BusinessError{Code: CodeKickSelf, Status: 400}
	ErrNotOwner          = &BusinessError{Code: CodeNotOwner, Status: 403}
	ErrUserAlreadyInRoom = &BusinessError{Code: CodeUserAlreadyInRoom, Status: 409}
	ErrUserNotInRoom     = &BusinessError{Code: CodeUserNotInRoom, Status: 404}
	ErrVotingNotAllowed  = &BusinessError{Code: CodeVotingNotAllowed, Status: 400}
)

var (
	ErrRoomNotFound        = errors.New("room not found")
	ErrRoomIDTaken         = errors.New("room id already in use")
	ErrRoomVersionConflict = errors.New("room was modified concurrently")
	ErrInvalidRequest      = errors.New("invalid request")
	ErrUnknownCardPackage  = errors.New("unknown card package")
	ErrInvalidCard         = errors.New("card is not part of the room card package")
	ErrRoomIDExhausted     = errors.New("could not allocate a free room id")
)

// AsBusinessError reports whether err carries a business failure and returns it.
func AsBusinessError(err error) (*BusinessError, bool) {
	var businessErr *BusinessError
	if errors.As(err, &businessErr) {
		return businessErr, true
	}
	return nil, false
}
