// Package acquire downloads forum posts and their comment threads into the
// "<group>_posts.json" archives that the corpus analyzer reads.
package acquire

import "strings"

// Post is one entry of a group listing.
type Post struct {
	Title      string  `json:"title"`
	Body       string  `json:"selftext"`
	Score      int     `json:"score"`
	URL        string  `json:"url"`
	CreatedUTC float64 `json:"created_utc"`
	Author     string  `json:"author"`
	Permalink  string  `json:"permalink"`
}

type Comment struct {
	Body    string    `json:"body"`
	Author  string    `json:"author"`
	Score   int       `json:"score"`
	Replies []Comment `json:"replies,omitempty"`
}

// Details is the full content of a post page.
type Details struct {
	Body     string
	Comments []Comment
}

// Record is one archived post.
type Record struct {
	Title          string    `json:"title"`
	Body           string    `json:"body"`
	Score          int       `json:"score"`
	URL            string    `json:"url"`
	CreatedUTC     float64   `json:"created_utc"`
	Author         string    `json:"author"`
	Permalink      string    `json:"permalink"`
	Comments       []Comment `json:"comments"`
	AllCommentText string    `json:"all_comment_text"`
}

func NewRecord(p Post, d Details) Record {
	comments := d.Comments
	if comments == nil {
		comments = []Comment{}
	}
	return Record{
		Title:          p.Title,
		Body:           d.Body,
		Score:          p.Score,
		URL:            p.URL,
		CreatedUTC:     p.CreatedUTC,
		Author:         p.Author,
		Permalink:      p.Permalink,
		Comments:       comments,
		AllCommentText: FlattenComments(comments),
	}
}

// FlattenComments joins every non-empty comment body depth first, each comment before its
// replies, separated by blank lines.
func FlattenComments(comments []Comment) string {
	parts := make([]string, 0, len(comments))
	for _, c := range comments {
		if c.Body != "" {
			parts = append(parts, c.Body)
		}
		if nested := FlattenComments(c.Replies); nested != "" {
			parts = append(parts, nested)
		}
	}
	return strings.Join(parts, "\n\n")
}
