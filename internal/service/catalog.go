package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/manhuaapp/manhua-server/internal/category"
	"github.com/manhuaapp/manhua-server/internal/domain"
	domainerrors "github.com/manhuaapp/manhua-server/internal/errors"
	"github.com/manhuaapp/manhua-server/internal/id"
	"github.com/manhuaapp/manhua-server/internal/search"
	"github.com/manhuaapp/manhua-server/internal/store"
)

// CatalogService owns the in-memory catalog after launch. Reads are served
// from memory; every mutation is written through to the local store as one
// document and mirrored into the search index. Single writer at a time.
type CatalogService struct {
	store  *store.Store
	index  *search.Index
	logger *slog.Logger

	mu     sync.RWMutex
	comics []domain.Comic
}

// NewCatalogService creates the catalog service. The catalog is empty until
// the sync coordinator publishes it.
func NewCatalogService(s *store.Store, index *search.Index, logger *slog.Logger) *CatalogService {
	return &CatalogService{
		store:  s,
		index:  index,
		logger: logger,
	}
}

// Publish atomically replaces the in-memory catalog and rebuilds the search
// index from it. No reader observes a partial catalog: the swap happens
// under the write lock in one assignment.
func (s *CatalogService) Publish(ctx context.Context, comics []domain.Comic) error {
	for i := range comics {
		comics[i].Normalize()
	}

	s.mu.Lock()
	s.comics = comics
	s.mu.Unlock()

	docs := make([]*search.ComicDocument, len(comics))
	for i := range comics {
		docs[i] = search.ComicToDocument(&comics[i])
	}
	if err := s.index.Rebuild(docs); err != nil {
		return fmt.Errorf("rebuild search index: %w", err)
	}

	s.logger.Info("catalog published", "comics", len(comics))
	return nil
}

// List returns the catalog, optionally filtered by a case-insensitive
// substring match on title or category. Category terms also match through
// the alias canon, so "wuxia" selects "Martial Arts" titles.
func (s *CatalogService) List(filter string) []domain.Comic {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if filter == "" {
		return s.copyCatalogLocked()
	}

	needle := strings.ToLower(filter)
	var out []domain.Comic
	for i := range s.comics {
		if strings.Contains(strings.ToLower(s.comics[i].Title), needle) ||
			strings.Contains(strings.ToLower(s.comics[i].Category), needle) ||
			category.Matches(s.comics[i].Category, filter) {
			out = append(out, s.comics[i])
		}
	}
	if out == nil {
		out = []domain.Comic{}
	}
	return out
}

// Categories returns the browse taxonomy: the built-in canon plus any
// categories present in the catalog that fall outside it.
func (s *CatalogService) Categories() []category.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]category.Category, len(category.Defaults))
	copy(out, category.Defaults)

	seen := make(map[string]bool, len(out))
	for _, c := range out {
		seen[c.Slug] = true
	}
	for i := range s.comics {
		for _, slug := range category.Split(s.comics[i].Category) {
			if seen[slug] {
				continue
			}
			seen[slug] = true
			out = append(out, category.Category{Name: category.DisplayName(slug), Slug: slug})
		}
	}
	return out
}

// Search runs a full-text query against the catalog index.
func (s *CatalogService) Search(ctx context.Context, params search.Params) (*search.Result, error) {
	return s.index.Search(ctx, params)
}

// Get returns the comic and counts the access as a view. Every detail read
// increments the cumulative counter and writes it through.
func (s *CatalogService) Get(ctx context.Context, comicID string) (*domain.Comic, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.findLocked(comicID)
	if i < 0 {
		return nil, domainerrors.NotFoundf("comic %s not found", comicID)
	}

	s.comics[i].Views++
	if err := s.persistLocked(ctx); err != nil {
		return nil, err
	}
	s.reindexLocked(&s.comics[i])

	comic := s.comics[i]
	return &comic, nil
}

// Peek returns the comic without counting a view.
func (s *CatalogService) Peek(comicID string) (*domain.Comic, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.findLocked(comicID)
	if i < 0 {
		return nil, domainerrors.NotFoundf("comic %s not found", comicID)
	}
	comic := s.comics[i]
	return &comic, nil
}

// GetChapter returns a chapter, enforcing the premium gate: a premium
// chapter requested by an account that cannot read premium is refused
// without mutating any state.
func (s *CatalogService) GetChapter(ctx context.Context, account *domain.Account, comicID, chapterID string) (*domain.Chapter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.findLocked(comicID)
	if i < 0 {
		return nil, domainerrors.NotFoundf("comic %s not found", comicID)
	}

	chapter := s.comics[i].FindChapter(chapterID)
	if chapter == nil {
		return nil, domainerrors.NotFoundf("chapter %s not found", chapterID)
	}

	if chapter.IsPremium && (account == nil || !account.CanReadPremium()) {
		return nil, domainerrors.Forbidden("premium subscription required")
	}

	c := *chapter
	return &c, nil
}

// Trending returns the top-n comics by view count.
func (s *CatalogService) Trending(n int) []domain.Comic {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sorted := s.copyCatalogLocked()
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Views > sorted[j].Views
	})
	if n > 0 && n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}

// Slider returns the comics flagged for the home slider.
func (s *CatalogService) Slider() []domain.Comic {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []domain.Comic{}
	for i := range s.comics {
		if s.comics[i].ShowInSlider {
			out = append(out, s.comics[i])
		}
	}
	return out
}

// AdjustFavorites shifts a comic's aggregate favorites counter by delta,
// clamped at zero. A comic that has left the catalog is ignored.
func (s *CatalogService) AdjustFavorites(ctx context.Context, comicID string, delta int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.findLocked(comicID)
	if i < 0 {
		return nil
	}

	s.comics[i].Favorites += delta
	if s.comics[i].Favorites < 0 {
		s.comics[i].Favorites = 0
	}
	return s.persistLocked(ctx)
}

// CreateComicRequest describes a new comic.
type CreateComicRequest struct {
	Title        string  `json:"title" validate:"required,max=300"`
	Description  string  `json:"description" validate:"max=5000"`
	CoverImage   string  `json:"cover_image" validate:"omitempty,url"`
	Category     string  `json:"category" validate:"max=100"`
	Rating       float64 `json:"rating" validate:"gte=0,lte=5"`
	ShowInSlider bool    `json:"show_in_slider"`
}

// CreateComic adds a new title to the catalog.
func (s *CatalogService) CreateComic(ctx context.Context, req CreateComicRequest) (*domain.Comic, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	comicID, err := id.Generate("comic")
	if err != nil {
		return nil, fmt.Errorf("generate comic ID: %w", err)
	}

	comic := domain.Comic{
		ID:           comicID,
		Title:        req.Title,
		Description:  req.Description,
		CoverImage:   req.CoverImage,
		Category:     req.Category,
		Rating:       req.Rating,
		ShowInSlider: req.ShowInSlider,
		Chapters:     []domain.Chapter{},
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.comics = append(s.comics, comic)
	if err := s.persistLocked(ctx); err != nil {
		return nil, err
	}
	s.reindexLocked(&comic)

	s.logger.Info("comic created", "comic_id", comicID, "title", req.Title)
	return &comic, nil
}

// UpdateComicRequest carries partial comic field updates. Nil fields are
// left untouched.
type UpdateComicRequest struct {
	Title        *string  `json:"title,omitempty" validate:"omitempty,min=1,max=300"`
	Description  *string  `json:"description,omitempty" validate:"omitempty,max=5000"`
	CoverImage   *string  `json:"cover_image,omitempty" validate:"omitempty,url"`
	Category     *string  `json:"category,omitempty" validate:"omitempty,max=100"`
	Rating       *float64 `json:"rating,omitempty" validate:"omitempty,gte=0,lte=5"`
	ShowInSlider *bool    `json:"show_in_slider,omitempty"`
}

// UpdateComic applies partial field updates to a comic.
func (s *CatalogService) UpdateComic(ctx context.Context, comicID string, req UpdateComicRequest) (*domain.Comic, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.findLocked(comicID)
	if i < 0 {
		return nil, domainerrors.NotFoundf("comic %s not found", comicID)
	}

	c := &s.comics[i]
	if req.Title != nil {
		c.Title = *req.Title
	}
	if req.Description != nil {
		c.Description = *req.Description
	}
	if req.CoverImage != nil {
		c.CoverImage = *req.CoverImage
	}
	if req.Category != nil {
		c.Category = *req.Category
	}
	if req.Rating != nil {
		c.Rating = *req.Rating
	}
	if req.ShowInSlider != nil {
		c.ShowInSlider = *req.ShowInSlider
	}

	if err := s.persistLocked(ctx); err != nil {
		return nil, err
	}
	s.reindexLocked(c)

	comic := *c
	return &comic, nil
}

// AppendChapterRequest describes a new chapter.
type AppendChapterRequest struct {
	Number    int      `json:"number" validate:"gte=0"`
	Title     string   `json:"title" validate:"required,max=300"`
	IsPremium bool     `json:"is_premium"`
	Pages     []string `json:"pages" validate:"dive,url"`
}

// AppendChapter adds a chapter to the end of a comic's list. Chapters are
// immutable afterwards except via ReplaceChapters.
func (s *CatalogService) AppendChapter(ctx context.Context, comicID string, req AppendChapterRequest) (*domain.Chapter, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	chapterID, err := id.Generate("chapter")
	if err != nil {
		return nil, fmt.Errorf("generate chapter ID: %w", err)
	}

	pages := req.Pages
	if pages == nil {
		pages = []string{}
	}
	chapter := domain.Chapter{
		ID:        chapterID,
		Number:    req.Number,
		Title:     req.Title,
		IsPremium: req.IsPremium,
		Pages:     pages,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.findLocked(comicID)
	if i < 0 {
		return nil, domainerrors.NotFoundf("comic %s not found", comicID)
	}

	s.comics[i].Chapters = append(s.comics[i].Chapters, chapter)
	if err := s.persistLocked(ctx); err != nil {
		return nil, err
	}

	s.logger.Info("chapter appended", "comic_id", comicID, "chapter_id", chapterID)
	return &chapter, nil
}

// ReplaceChapters swaps a comic's whole chapter list.
func (s *CatalogService) ReplaceChapters(ctx context.Context, comicID string, chapters []domain.Chapter) (*domain.Comic, error) {
	if chapters == nil {
		chapters = []domain.Chapter{}
	}
	for i := range chapters {
		if chapters[i].ID == "" {
			chapterID, err := id.Generate("chapter")
			if err != nil {
				return nil, fmt.Errorf("generate chapter ID: %w", err)
			}
			chapters[i].ID = chapterID
		}
		if chapters[i].Pages == nil {
			chapters[i].Pages = []string{}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.findLocked(comicID)
	if i < 0 {
		return nil, domainerrors.NotFoundf("comic %s not found", comicID)
	}

	s.comics[i].Chapters = chapters
	if err := s.persistLocked(ctx); err != nil {
		return nil, err
	}

	comic := s.comics[i]
	return &comic, nil
}

// Export returns a copy of the current catalog for snapshot assembly.
func (s *CatalogService) Export() []domain.Comic {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.copyCatalogLocked()
}

func (s *CatalogService) findLocked(comicID string) int {
	for i := range s.comics {
		if s.comics[i].ID == comicID {
			return i
		}
	}
	return -1
}

func (s *CatalogService) copyCatalogLocked() []domain.Comic {
	out := make([]domain.Comic, len(s.comics))
	copy(out, s.comics)
	return out
}

func (s *CatalogService) persistLocked(ctx context.Context) error {
	if err := s.store.SaveCatalog(ctx, s.comics); err != nil {
		return fmt.Errorf("persist catalog: %w", err)
	}
	return nil
}

func (s *CatalogService) reindexLocked(c *domain.Comic) {
	if err := s.index.IndexDocument(search.ComicToDocument(c)); err != nil {
		s.logger.Warn("failed to reindex comic", "comic_id", c.ID, "error", err)
	}
}
