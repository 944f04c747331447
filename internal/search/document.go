// Package search provides full-text search over the reading library using Bleve.
package search

import (
	"strings"

	"github.com/listenupapp/pagetrail/internal/domain"
	"github.com/listenupapp/pagetrail/internal/util"
)

// Document is the indexed form of a library entry.
type Document struct {
	ID          string
	Title       string
	Authors     string // Joined for phrase matching
	Description string // Plain text
	Categories  string
	Notes       string
	Status      string
	Tags        []string // Tag keys (cleaned, case folded)
	DateAdded   int64    // Unix millis
}

// DocumentFromEntry builds the index document for an entry.
func DocumentFromEntry(e *domain.LibraryEntry) *Document {
	tags := make([]string, 0, len(e.Status.Tags))
	for _, t := range e.Status.Tags {
		if key := util.TagKey(t); key != "" {
			tags = append(tags, key)
		}
	}

	notes := e.Status.Notes
	for _, r := range e.Status.ReReads {
		if r.Notes != "" {
			notes += "\n" + r.Notes
		}
	}

	return &Document{
		ID:          e.Book.ID,
		Title:       e.Book.Title,
		Authors:     strings.Join(e.Book.Authors, ", "),
		Description: util.PlainText(e.Book.Description),
		Categories:  strings.Join(e.Book.Categories, ", "),
		Notes:       strings.TrimSpace(notes),
		Status:      string(e.Status.Status),
		Tags:        tags,
		DateAdded:   e.Status.DateAdded.UnixMilli(),
	}
}

// ToMap converts the document to a map keyed by the mapping's field names.
func (d *Document) ToMap() map[string]any {
	m := map[string]any{
		"id":         d.ID,
		"title":      d.Title,
		"status":     d.Status,
		"date_added": d.DateAdded,
	}
	if d.Authors != "" {
		m["authors"] = d.Authors
	}
	if d.Description != "" {
		m["description"] = d.Description
	}
	if d.Categories != "" {
		m["categories"] = d.Categories
	}
	if d.Notes != "" {
		m["notes"] = d.Notes
	}
	if len(d.Tags) > 0 {
		m["tags"] = d.Tags
	}
	return m
}
