package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/manhuaapp/manhua-server/internal/domain"
	"github.com/manhuaapp/manhua-server/internal/service"
)

func (s *Server) registerAccountRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "toggleFavorite",
		Method:      http.MethodPost,
		Path:        "/api/v1/me/favorites/{comicID}",
		Summary:     "Toggle favorite",
		Description: "Adds the comic to the account's favorites, or removes it if already present",
		Tags:        []string{"Account"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleToggleFavorite)

	huma.Register(s.api, huma.Operation{
		OperationID: "listBookmarks",
		Method:      http.MethodGet,
		Path:        "/api/v1/me/bookmarks",
		Summary:     "List bookmarks",
		Description: "Returns the account's saved reading positions, newest first",
		Tags:        []string{"Account"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListBookmarks)

	huma.Register(s.api, huma.Operation{
		OperationID: "toggleBookmark",
		Method:      http.MethodPost,
		Path:        "/api/v1/me/bookmarks",
		Summary:     "Toggle bookmark",
		Description: "Saves a reading position, or removes it if the exact same position is already saved",
		Tags:        []string{"Account"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleToggleBookmark)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateSubscription",
		Method:      http.MethodPost,
		Path:        "/api/v1/me/subscription",
		Summary:     "Update subscription",
		Description: "Records the chosen tier and grants premium. Payment is arranged out of band with a support contact.",
		Tags:        []string{"Account"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateSubscription)
}

// === DTOs ===

// ToggleFavoriteInput identifies the comic to toggle.
type ToggleFavoriteInput struct {
	ComicID string `path:"comicID" doc:"Comic ID"`
}

// AccountOutput wraps an account for Huma.
type AccountOutput struct {
	Body AccountResponse
}

// BookmarksOutput wraps a bookmark list for Huma.
type BookmarksOutput struct {
	Body []domain.Bookmark
}

// BookmarkRequest identifies a reading position to toggle.
type BookmarkRequest struct {
	ComicID      string `json:"comic_id" validate:"required" doc:"Comic ID"`
	ChapterID    string `json:"chapter_id" validate:"required" doc:"Chapter ID"`
	PageIndex    int    `json:"page_index" validate:"gte=0" doc:"Zero-based page index"`
	ComicTitle   string `json:"comic_title,omitempty" doc:"Comic title, denormalized for display"`
	ChapterTitle string `json:"chapter_title,omitempty" doc:"Chapter title, denormalized for display"`
}

// ToggleBookmarkInput wraps the bookmark request for Huma.
type ToggleBookmarkInput struct {
	Body BookmarkRequest
}

// SubscriptionRequest selects a tier.
type SubscriptionRequest struct {
	Tier string `json:"tier" validate:"required" doc:"Subscription tier (ONE_MONTH, TWO_MONTHS, THREE_MONTHS, SIX_MONTHS, ONE_YEAR)"`
}

// SubscriptionInput wraps the subscription request for Huma.
type SubscriptionInput struct {
	Body SubscriptionRequest
}

// === Handlers ===

func (s *Server) handleToggleFavorite(ctx context.Context, input *ToggleFavoriteInput) (*AccountOutput, error) {
	accountID, err := GetAccountID(ctx)
	if err != nil {
		return nil, err
	}

	account, err := s.services.Account.ToggleFavorite(ctx, accountID, input.ComicID)
	if err != nil {
		return nil, err
	}
	return &AccountOutput{Body: toAccountResponse(account)}, nil
}

func (s *Server) handleListBookmarks(ctx context.Context, _ *struct{}) (*BookmarksOutput, error) {
	account, err := s.RequireAccount(ctx)
	if err != nil {
		return nil, err
	}
	return &BookmarksOutput{Body: account.Bookmarks}, nil
}

func (s *Server) handleToggleBookmark(ctx context.Context, input *ToggleBookmarkInput) (*AccountOutput, error) {
	accountID, err := GetAccountID(ctx)
	if err != nil {
		return nil, err
	}

	account, err := s.services.Account.ToggleBookmark(ctx, accountID, service.BookmarkRequest{
		ComicID:      input.Body.ComicID,
		ChapterID:    input.Body.ChapterID,
		PageIndex:    input.Body.PageIndex,
		ComicTitle:   input.Body.ComicTitle,
		ChapterTitle: input.Body.ChapterTitle,
	})
	if err != nil {
		return nil, err
	}
	return &AccountOutput{Body: toAccountResponse(account)}, nil
}

func (s *Server) handleUpdateSubscription(ctx context.Context, input *SubscriptionInput) (*AccountOutput, error) {
	accountID, err := GetAccountID(ctx)
	if err != nil {
		return nil, err
	}

	account, err := s.services.Account.UpdateSubscription(ctx, accountID, service.SubscriptionRequest{
		Tier: domain.SubscriptionTier(input.Body.Tier),
	})
	if err != nil {
		return nil, err
	}
	return &AccountOutput{Body: toAccountResponse(account)}, nil
}
