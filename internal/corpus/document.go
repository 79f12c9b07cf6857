package corpus

import (
	"encoding/json"
	"fmt"

	"github.com/freyjadaisy/EPQ/internal/tokenize"
)

// Document is one unit of corpus content: a post title, its body, and the flattened text of
// its comment thread.
type Document struct {
	Title       string
	Body        string
	CommentText string
}

// record is the on-disk shape written by the acquisition step. Fields the analysis does not
// use (score, url, permalink, ...) are ignored.
type record struct {
	Title          string `json:"title"`
	Body           string `json:"body"`
	AllCommentText string `json:"all_comment_text"`
	CommentText    string `json:"comment_text"`
}

// DecodeDocuments parses a JSON array of post records.
func DecodeDocuments(raw []byte) ([]Document, error) {
	var records []*record
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	if records == nil {
		return nil, fmt.Errorf("%w: expected a list of records", ErrInvalidFormat)
	}

	docs := make([]Document, 0, len(records))
	for i, r := range records {
		if r == nil {
			return nil, fmt.Errorf("%w: record %d is null", ErrInvalidFormat, i)
		}
		comments := r.AllCommentText
		if comments == "" {
			comments = r.CommentText
		}
		docs = append(docs, Document{Title: r.Title, Body: r.Body, CommentText: comments})
	}
	return docs, nil
}

// Text joins title, body and comment text of every document with single spaces.
func Text(docs []Document) string {
	fields := make([]string, 0, 3*len(docs))
	for _, d := range docs {
		fields = append(fields, d.Title, d.Body, d.CommentText)
	}
	return tokenize.Join(fields...)
}
