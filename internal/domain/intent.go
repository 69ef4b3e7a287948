package domain

// Intent is the classification of an incoming message.
type Intent string

// Intent labels.
const (
	IntentNewSearch Intent = "NEW_SEARCH"
	IntentFollowUp  Intent = "FOLLOW_UP"
)
