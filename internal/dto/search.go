package dto

// SearchResult is a tagged union over user and post matches so the client
// can render mixed results from one list.
type SearchResult struct {
	Type string       `json:"type"` // "user" or "post"
	User *UserSummary `json:"user,omitempty"`
	Post *PostResponse `json:"post,omitempty"`
}
