package domain

// Comic is a serialized illustrated title in the catalog.
type Comic struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CoverImage  string    `json:"cover_image"`
	Category    string    `json:"category"`
	Rating      float64   `json:"rating"`
	Views       int64     `json:"views"`
	Favorites   int64     `json:"favorites"`
	ShowInSlider bool     `json:"show_in_slider"`
	Chapters    []Chapter `json:"chapters"`
}

// Chapter is one installment of a comic. Chapters are immutable once
// created except via full replacement of the parent comic's chapter list.
type Chapter struct {
	ID        string   `json:"id"`
	Number    int      `json:"number"`
	Title     string   `json:"title"`
	IsPremium bool     `json:"is_premium"`
	Pages     []string `json:"pages"`
}

// FindChapter returns the chapter with the given ID, or nil.
func (c *Comic) FindChapter(chapterID string) *Chapter {
	for i := range c.Chapters {
		if c.Chapters[i].ID == chapterID {
			return &c.Chapters[i]
		}
	}
	return nil
}

// Normalize repairs records restored from persisted or remote state:
// counters are clamped at zero and nil slices become empty ones. Missing
// fields on legacy documents are defaulted, never rejected.
func (c *Comic) Normalize() {
	if c.Views < 0 {
		c.Views = 0
	}
	if c.Favorites < 0 {
		c.Favorites = 0
	}
	if c.Chapters == nil {
		c.Chapters = []Chapter{}
	}
	for i := range c.Chapters {
		if c.Chapters[i].Pages == nil {
			c.Chapters[i].Pages = []string{}
		}
	}
}
