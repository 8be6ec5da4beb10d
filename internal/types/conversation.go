package types

// Role tags who authored a conversation turn.
type Role string

// Conversation roles
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one message of a chat conversation.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}
