package model

// Role identifies the author of a conversation message.
type Role string

const (
	RoleUser  Role = "user"
	RoleAgent Role = "agent"
)

// Message is a single turn in the conversation log.
type Message struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}
