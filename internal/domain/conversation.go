package domain

import "time"

// Role is the author of a conversation turn.
type Role string

// Conversation roles.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// IsValid checks if the role is user or assistant.
func (r Role) IsValid() bool { return r == RoleUser || r == RoleAssistant }

// DefaultHistoryLimit is the number of recent turns kept per session.
const DefaultHistoryLimit = 10

// Turn is one message of a conversation.
type Turn struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// TrimHistory keeps the most recent limit turns. A non-positive limit uses DefaultHistoryLimit.
func TrimHistory(turns []Turn, limit int) []Turn {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if len(turns) <= limit {
		return turns
	}
	return turns[len(turns)-limit:]
}

// LastAssistantTurn returns the most recent assistant turn, if any.
func LastAssistantTurn(turns []Turn) (Turn, bool) {
	for i := len(turns) - 1; i >= 0; i-- {
		if turns[i].Role == RoleAssistant {
			return turns[i], true
		}
	}
	return Turn{}, false
}

// RunStatus is the state of a hosted conversation run.
type RunStatus string

// Hosted run states. Anything else reported by the service maps to RunFailed.
const (
	RunQueued     RunStatus = "queued"
	RunInProgress RunStatus = "in_progress"
	RunCompleted  RunStatus = "completed"
	RunFailed     RunStatus = "failed"
	RunTimeout    RunStatus = "timeout"
)

// IsTerminal reports whether polling can stop.
func (s RunStatus) IsTerminal() bool {
	return s != RunQueued && s != RunInProgress
}
