package domain

import "time"

// Bookmark marks a single page within a chapter. The comic and chapter
// titles are denormalized for display so the reader list renders without
// catalog lookups.
type Bookmark struct {
	ComicID      string    `json:"comic_id"`
	ChapterID    string    `json:"chapter_id"`
	PageIndex    int       `json:"page_index"`
	ComicTitle   string    `json:"comic_title"`
	ChapterTitle string    `json:"chapter_title"`
	AddedAt      time.Time `json:"added_at"`
}

// Matches reports whether two bookmarks refer to the same page. At most one
// bookmark per (comic, chapter, page) tuple exists per account; toggling
// removes on exact match and inserts otherwise.
func (b Bookmark) Matches(other Bookmark) bool {
	return b.ComicID == other.ComicID &&
		b.ChapterID == other.ChapterID &&
		b.PageIndex == other.PageIndex
}
