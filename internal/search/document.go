package search

import "github.com/manhuaapp/manhua-server/internal/domain"

// ComicDocument is the indexed projection of a comic.
type ComicDocument struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	Views       int64  `json:"views"`
}

// ToMap converts the document to a map with lowercase field names. Bleve
// indexes Go struct field names verbatim, and the mapping uses lowercase.
func (d *ComicDocument) ToMap() map[string]any {
	return map[string]any{
		"id":          d.ID,
		"title":       d.Title,
		"description": d.Description,
		"category":    d.Category,
		"views":       d.Views,
	}
}

// ComicToDocument builds the indexed projection of a comic.
func ComicToDocument(c *domain.Comic) *ComicDocument {
	return &ComicDocument{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description,
		Category:    c.Category,
		Views:       c.Views,
	}
}
