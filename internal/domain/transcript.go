package domain

// Role identifies who authored a transcript entry.
type Role string

// Transcript roles.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// TranscriptEntry is one message of the studio conversation.
type TranscriptEntry struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}
