package schemas

import "time"

// ChatSchema is the POST /chats body.
type ChatSchema struct {
	Name string `json:"name" validate:"required,max=255"`
}

// ChatCreatedResponse is the 201 body of a created chat.
type ChatCreatedResponse struct {
	Success bool `json:"success"`
	ChatID  int  `json:"chatID"`
}

// ChatPreview is one row of the caller's chat list: the room, the other
// members, and the most recent message for the activity preview.
type ChatPreview struct {
	ChatID    int       `json:"chatid" db:"chatid"`
	Name      string    `json:"name" db:"name"`
	Message   string    `json:"message" db:"message"`
	Timestamp time.Time `json:"timestamp" db:"timestamp"`
	Usernames []string  `json:"usernames"`
}

// ChatListResponse is the GET /chats body.
type ChatListResponse struct {
	Chats []ChatPreview `json:"chats"`
}

// ChatMemberRow is one member email in a chat.
type ChatMemberRow struct {
	Email string `json:"email" db:"email"`
}

// ChatMembersResponse is the GET /chats/members/:chatId body.
type ChatMembersResponse struct {
	RowCount int             `json:"rowCount"`
	Rows     []ChatMemberRow `json:"rows"`
}

// NewMessageSchema is the POST /messages body.
type NewMessageSchema struct {
	ChatID  int    `json:"chatId" validate:"required"`
	Message string `json:"message" validate:"required"`
}

// MessageRow is one stored message with its author's email.
type MessageRow struct {
	MessageID int       `json:"messageid" db:"messageid"`
	Email     string    `json:"email" db:"email"`
	Message   string    `json:"message" db:"message"`
	Timestamp time.Time `json:"timestamp" db:"timestamp"`
}

// MessageListResponse is the GET /messages/:chatId body.
type MessageListResponse struct {
	ChatID   int          `json:"chatId"`
	RowCount int          `json:"rowCount"`
	Rows     []MessageRow `json:"rows"`
}
