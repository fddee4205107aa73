// Package portal maintains the announcement posts shown on the school
// portal: tag normalization, id generation, filtering and display order.
package portal

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"runde/internal/models"
	"runde/internal/roster"
)

// NewID generates a fresh post id: a timestamp for humans plus a short
// random suffix for uniqueness.
func NewID() string {
	return "p_" + time.Now().Format("20060102_150405") + "_" + uuid.NewString()[:8]
}

// NowISO returns the timestamp format stored on posts.
func NowISO() string {
	return time.Now().Format("2006-01-02T15:04:05")
}

// NormalizeTags splits a comma-separated tag string (full-width commas
// accepted), trims each tag and removes duplicates keeping first-seen order.
func NormalizeTags(s string) []string {
	s = strings.ReplaceAll(s, "，", ",")

	seen := make(map[string]bool)
	out := []string{}

	for _, part := range strings.Split(s, ",") {
		t := roster.NormLine(part)
		if t == "" || seen[t] {
			continue
		}

		seen[t] = true
		out = append(out, t)
	}

	return out
}

// NormalizeStatus restricts the status to draft/published, defaulting to
// draft.
func NormalizeStatus(s string) string {
	s = strings.ToLower(roster.NormLine(s))
	if s == models.StatusPublished {
		return s
	}

	return models.StatusDraft
}

// Find locates a post by id.
func Find(posts []models.Post, id string) *models.Post {
	id = roster.NormLine(id)
	for i := range posts {
		if posts[i].ID == id {
			return &posts[i]
		}
	}

	return nil
}

// Filter keeps posts whose title, summary, category or tags contain the
// query (case-insensitive) and, when status is non-empty, whose status
// matches it.
func Filter(posts []models.Post, query, status string) []models.Post {
	query = strings.ToLower(roster.NormLine(query))

	out := make([]models.Post, 0, len(posts))

	for _, p := range posts {
		if status != "" && p.Status != status {
			continue
		}

		if query != "" {
			hay := strings.ToLower(strings.Join([]string{
				p.Title, p.Summary, p.Category, strings.Join(p.Tags, " "),
			}, " "))
			if !strings.Contains(hay, query) {
				continue
			}
		}

		out = append(out, p)
	}

	return out
}

// SortForDisplay orders posts pinned-first, then newest first by published
// time (falling back to the update time).
func SortForDisplay(posts []models.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		if posts[i].Pinned != posts[j].Pinned {
			return posts[i].Pinned
		}

		return displayTime(posts[i]) > displayTime(posts[j])
	})
}

func displayTime(p models.Post) string {
	if p.PublishedAt != "" {
		return p.PublishedAt
	}

	return p.UpdatedAt
}
