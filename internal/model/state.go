package model

// ListState is the list view cursor kept per chat between bot updates.
type ListState struct {
	Page    int    `json:"page"`
	Keyword string `json:"keyword,omitempty"`
}
