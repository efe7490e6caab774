package messages

import (
	"time"

	"github.com/eduplus/eduplus-backend/internal/auth"
)

// Message is created once and mutated only to flip Read.
type Message struct {
	ID         string    `gorm:"primaryKey" json:"id"`
	SenderID   string    `gorm:"not null;index" json:"sender_id"`
	ReceiverID string    `gorm:"not null;index" json:"receiver_id"`
	Content    string    `gorm:"not null" json:"content"`
	Read       bool      `gorm:"default:false" json:"read"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Message) TableName() string { return "app_lms.messages" }

// Participant is the slice of a user shown in conversation and contact lists.
type Participant struct {
	ID    string    `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Role  auth.Role `json:"role"`
}

// Conversation is derived, never stored: the latest message exchanged with
// one counterpart plus how many of their messages are still unread.
type Conversation struct {
	Other       Participant `json:"other_user"`
	LastMessage Message     `json:"last_message"`
	UnreadCount int         `json:"unread_count"`
}
