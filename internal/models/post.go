package models

// Post status values.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

// Post is one portal announcement in portal.json.
type Post struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
	Status      string   `json:"status"`
	Pinned      bool     `json:"pinned"`
	CoverImage  string   `json:"coverImage"`
	ShareURL    string   `json:"shareUrl"`
	Summary     string   `json:"summary"`
	PublishedAt string   `json:"publishedAt"`
	UpdatedAt   string   `json:"updatedAt"`
	BodyHTML    string   `json:"bodyHtml"`
}
