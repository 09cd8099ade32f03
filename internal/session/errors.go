package session

import "errors"

var (
	ErrRoomFull      = errors.New("room_full")
	ErrNoSuchSession = errors.New("no_such_session")
	ErrNoSuchUser    = errors.New("no_such_user")
	ErrAlreadyInRoom = errors.New("already_in_room")
)
