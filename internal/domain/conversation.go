package domain

// Conversation is the top-level container of messages.
type Conversation struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	StartDate string `json:"startDate"`
}
