package chat

import "errors"

var (
	// ErrRoomNotFound means the chat room does not exist.
	ErrRoomNotFound = errors.New("chat room not found")
	// ErrEmptyMessage means the message text is blank after trimming.
	ErrEmptyMessage = errors.New("message is empty")
	// ErrNotParticipant means the caller is not a member of the room.
	ErrNotParticipant = errors.New("not a participant of this chat room")
)
