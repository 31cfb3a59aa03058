package domain

import "time"

// TrainerStatus reports whether a trainer is reachable.
type TrainerStatus string

const (
	TrainerOnline  TrainerStatus = "online"
	TrainerOffline TrainerStatus = "offline"
)

// Trainer is a chat contact.
type Trainer struct {
	ID            int64         `json:"id"`
	Name          string        `json:"name"`
	Specialty     string        `json:"specialty"`
	Status        TrainerStatus `json:"status"`
	LastMessage   string        `json:"last_message"`
	LastMessageAt time.Time     `json:"last_message_at"`
	Unread        bool          `json:"unread"`
}

// Message belongs to exactly one trainer conversation.
type Message struct {
	ID        string    `json:"id"`
	TrainerID int64     `json:"trainer_id"`
	Text      string    `json:"message"`
	IsUser    bool      `json:"is_user"`
	Timestamp time.Time `json:"timestamp"`
}

// TrainerReplies is the fixed set a simulated trainer reply is drawn from.
var TrainerReplies = []string{
	"Thanks for reaching out! I'll get back to you soon.",
	"Great question! Let me help you with that.",
	"I appreciate your dedication to fitness!",
	"That's a fantastic goal! Let's work on it together.",
}
