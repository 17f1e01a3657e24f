package chat

import "errors"

var (
	ErrRoomNotFound   = errors.New("chat room not found")
	ErrNotRoomMember  = errors.New("you are not a member of this chat")
	ErrCannotChatSelf = errors.New("cannot start chat with yourself")
	ErrNotMatched     = errors.New("chat requires an active match")
	ErrUserBlocked    = errors.New("cannot send message, user is blocked")
)
