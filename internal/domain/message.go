package domain

import "time"

type Message struct {
	ID     int64      `json:"id"`
	FromID int64      `json:"fromId"`
	ToID   int64      `json:"toId"`
	Body   string     `json:"body"`
	SentAt time.Time  `json:"sentAt"`
	ReadAt *time.Time `json:"readAt"`
}

type MessageDetail struct {
	ID       int64      `json:"id"`
	FromUser UserRef    `json:"fromUser"`
	ToUser   UserRef    `json:"toUser"`
	Body     string     `json:"body"`
	SentAt   time.Time  `json:"sentAt"`
	ReadAt   *time.Time `json:"readAt"`
}

// UserMessage is a message listed from one user's mailbox; Peer is the other
// party (the sender for an inbox, the recipient for an outbox).
type UserMessage struct {
	ID     int64      `json:"id"`
	Peer   UserRef    `json:"user"`
	Body   string     `json:"body"`
	SentAt time.Time  `json:"sentAt"`
	ReadAt *time.Time `json:"readAt"`
}
