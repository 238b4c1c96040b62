package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/manhuaapp/manhua-server/internal/category"
	"github.com/manhuaapp/manhua-server/internal/domain"
	"github.com/manhuaapp/manhua-server/internal/search"
)

func (s *Server) registerComicRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listComics",
		Method:      http.MethodGet,
		Path:        "/api/v1/comics",
		Summary:     "List comics",
		Description: "Returns the catalog, optionally filtered by a case-insensitive substring match on title or category",
		Tags:        []string{"Comics"},
	}, s.handleListComics)

	huma.Register(s.api, huma.Operation{
		OperationID: "sliderComics",
		Method:      http.MethodGet,
		Path:        "/api/v1/comics/slider",
		Summary:     "Slider comics",
		Description: "Returns the comics flagged for the home slider",
		Tags:        []string{"Comics"},
	}, s.handleSliderComics)

	huma.Register(s.api, huma.Operation{
		OperationID: "trendingComics",
		Method:      http.MethodGet,
		Path:        "/api/v1/comics/trending",
		Summary:     "Trending comics",
		Description: "Returns the most viewed comics",
		Tags:        []string{"Comics"},
	}, s.handleTrendingComics)

	huma.Register(s.api, huma.Operation{
		OperationID: "listCategories",
		Method:      http.MethodGet,
		Path:        "/api/v1/comics/categories",
		Summary:     "List categories",
		Description: "Returns the browse taxonomy: built-in categories plus any found in the catalog",
		Tags:        []string{"Comics"},
	}, s.handleListCategories)

	huma.Register(s.api, huma.Operation{
		OperationID: "getComic",
		Method:      http.MethodGet,
		Path:        "/api/v1/comics/{id}",
		Summary:     "Get comic",
		Description: "Returns one comic and counts the access as a view",
		Tags:        []string{"Comics"},
	}, s.handleGetComic)

	huma.Register(s.api, huma.Operation{
		OperationID: "getChapter",
		Method:      http.MethodGet,
		Path:        "/api/v1/comics/{id}/chapters/{chapterID}",
		Summary:     "Get chapter",
		Description: "Returns one chapter with its pages. Premium chapters require a premium account.",
		Tags:        []string{"Comics"},
	}, s.handleGetChapter)

	huma.Register(s.api, huma.Operation{
		OperationID: "searchComics",
		Method:      http.MethodGet,
		Path:        "/api/v1/search",
		Summary:     "Search comics",
		Description: "Full-text search over titles, descriptions, and categories",
		Tags:        []string{"Comics"},
	}, s.handleSearchComics)
}

// === DTOs ===

// ListComicsInput carries the optional catalog filter.
type ListComicsInput struct {
	Filter string `query:"filter" doc:"Substring to match against title or category"`
}

// ComicsOutput wraps a comic list for Huma.
type ComicsOutput struct {
	Body []domain.Comic
}

// TrendingInput carries the trending list size.
type TrendingInput struct {
	Limit int `query:"limit" default:"10" minimum:"1" maximum:"50" doc:"Number of comics to return"`
}

// GetComicInput identifies a comic.
type GetComicInput struct {
	ID string `path:"id" doc:"Comic ID"`
}

// ComicOutput wraps one comic for Huma.
type ComicOutput struct {
	Body domain.Comic
}

// GetChapterInput identifies a chapter within a comic.
type GetChapterInput struct {
	ID        string `path:"id" doc:"Comic ID"`
	ChapterID string `path:"chapterID" doc:"Chapter ID"`
}

// ChapterOutput wraps one chapter for Huma.
type ChapterOutput struct {
	Body domain.Chapter
}

// SearchInput carries the search query.
type SearchInput struct {
	Query    string `query:"q" required:"true" doc:"Search query"`
	Category string `query:"category" doc:"Restrict results to one category"`
	Limit    int    `query:"limit" default:"20" minimum:"1" maximum:"100" doc:"Maximum hits to return"`
	Offset   int    `query:"offset" default:"0" minimum:"0" doc:"Hits to skip"`
}

// SearchOutput wraps search results for Huma.
type SearchOutput struct {
	Body search.Result
}

// === Handlers ===

func (s *Server) handleListComics(_ context.Context, input *ListComicsInput) (*ComicsOutput, error) {
	return &ComicsOutput{Body: s.services.Catalog.List(input.Filter)}, nil
}

func (s *Server) handleSliderComics(_ context.Context, _ *struct{}) (*ComicsOutput, error) {
	return &ComicsOutput{Body: s.services.Catalog.Slider()}, nil
}

// CategoriesOutput wraps the browse taxonomy for Huma.
type CategoriesOutput struct {
	Body []category.Category
}

func (s *Server) handleListCategories(_ context.Context, _ *struct{}) (*CategoriesOutput, error) {
	return &CategoriesOutput{Body: s.services.Catalog.Categories()}, nil
}

func (s *Server) handleTrendingComics(_ context.Context, input *TrendingInput) (*ComicsOutput, error) {
	return &ComicsOutput{Body: s.services.Catalog.Trending(input.Limit)}, nil
}

func (s *Server) handleGetComic(ctx context.Context, input *GetComicInput) (*ComicOutput, error) {
	comic, err := s.services.Catalog.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &ComicOutput{Body: *comic}, nil
}

func (s *Server) handleGetChapter(ctx context.Context, input *GetChapterInput) (*ChapterOutput, error) {
	// Anonymous readers may open free chapters; the premium gate needs the
	// account when one is signed in.
	var account *domain.Account
	if accountID, err := GetAccountID(ctx); err == nil {
		account, err = s.services.Account.GetAccount(ctx, accountID)
		if err != nil {
			return nil, err
		}
	}

	chapter, err := s.services.Catalog.GetChapter(ctx, account, input.ID, input.ChapterID)
	if err != nil {
		return nil, err
	}
	return &ChapterOutput{Body: *chapter}, nil
}

func (s *Server) handleSearchComics(ctx context.Context, input *SearchInput) (*SearchOutput, error) {
	result, err := s.services.Catalog.Search(ctx, search.Params{
		Query:    input.Query,
		Category: input.Category,
		Limit:    input.Limit,
		Offset:   input.Offset,
	})
	if err != nil {
		return nil, err
	}
	return &SearchOutput{Body: *result}, nil
}
