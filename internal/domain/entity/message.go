package entity

type MessageRole string

const (
	RoleSystem    MessageRole = "system"
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// Message is one role-tagged entry of the conversation history owned by the
// completion client.
type Message struct {
	Role    MessageRole `json:"role"`
	Content string      `json:"content"`
}
