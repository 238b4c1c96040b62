package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/manhuaapp/manhua-server/internal/domain"
	"github.com/manhuaapp/manhua-server/internal/service"
)

func (s *Server) registerAdminRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "createComic",
		Method:      http.MethodPost,
		Path:        "/api/v1/admin/comics",
		Summary:     "Create comic",
		Tags:        []string{"Admin"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateComic)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateComic",
		Method:      http.MethodPatch,
		Path:        "/api/v1/admin/comics/{id}",
		Summary:     "Update comic",
		Description: "Applies partial field updates to a comic",
		Tags:        []string{"Admin"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateComic)

	huma.Register(s.api, huma.Operation{
		OperationID: "appendChapter",
		Method:      http.MethodPost,
		Path:        "/api/v1/admin/comics/{id}/chapters",
		Summary:     "Append chapter",
		Tags:        []string{"Admin"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleAppendChapter)

	huma.Register(s.api, huma.Operation{
		OperationID: "replaceChapters",
		Method:      http.MethodPut,
		Path:        "/api/v1/admin/comics/{id}/chapters",
		Summary:     "Replace chapter list",
		Description: "Swaps a comic's whole chapter list. Chapters without IDs get generated ones.",
		Tags:        []string{"Admin"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleReplaceChapters)

	huma.Register(s.api, huma.Operation{
		OperationID: "replaceContacts",
		Method:      http.MethodPut,
		Path:        "/api/v1/admin/contacts",
		Summary:     "Replace support contacts",
		Tags:        []string{"Admin"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleReplaceContacts)

	huma.Register(s.api, huma.Operation{
		OperationID: "saveRemoteConfig",
		Method:      http.MethodPut,
		Path:        "/api/v1/admin/remote",
		Summary:     "Save remote sync configuration",
		Tags:        []string{"Admin"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSaveRemoteConfig)

	huma.Register(s.api, huma.Operation{
		OperationID: "remoteStatus",
		Method:      http.MethodGet,
		Path:        "/api/v1/admin/remote/status",
		Summary:     "Remote sync status",
		Description: "Reports whether sync is configured and the remote reachable",
		Tags:        []string{"Admin"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleRemoteStatus)

	huma.Register(s.api, huma.Operation{
		OperationID: "pushSnapshot",
		Method:      http.MethodPost,
		Path:        "/api/v1/admin/snapshot/push",
		Summary:     "Push snapshot",
		Description: "Writes the full local state to the remote. The last successful push wins; a concurrent push from another device is overwritten.",
		Tags:        []string{"Admin"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handlePushSnapshot)

	huma.Register(s.api, huma.Operation{
		OperationID: "pullSnapshot",
		Method:      http.MethodPost,
		Path:        "/api/v1/admin/snapshot/pull",
		Summary:     "Pull snapshot",
		Description: "Fetches the remote snapshot and adopts it, overwriting local catalog, contacts, and accounts",
		Tags:        []string{"Admin"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handlePullSnapshot)
}

// === DTOs ===

// CreateComicInput wraps the comic creation request for Huma.
type CreateComicInput struct {
	Body service.CreateComicRequest
}

// UpdateComicInput wraps partial comic updates for Huma.
type UpdateComicInput struct {
	ID   string `path:"id" doc:"Comic ID"`
	Body service.UpdateComicRequest
}

// AppendChapterInput wraps the new chapter request for Huma.
type AppendChapterInput struct {
	ID   string `path:"id" doc:"Comic ID"`
	Body service.AppendChapterRequest
}

// ReplaceChaptersInput wraps the full chapter list for Huma.
type ReplaceChaptersInput struct {
	ID   string `path:"id" doc:"Comic ID"`
	Body []domain.Chapter
}

// ReplaceContactsInput wraps the full contact list for Huma.
type ReplaceContactsInput struct {
	Body []service.ContactInput
}

// RemoteConfigInput wraps the remote configuration for Huma.
type RemoteConfigInput struct {
	Body service.RemoteConfigRequest
}

// RemoteConfigResponse echoes the saved configuration without the credential.
type RemoteConfigResponse struct {
	Repo string `json:"repo" doc:"Repository in owner/name form"`
}

// RemoteConfigOutput wraps the saved configuration for Huma.
type RemoteConfigOutput struct {
	Body RemoteConfigResponse
}

// RemoteStatusOutput wraps the sync status for Huma.
type RemoteStatusOutput struct {
	Body service.RemoteStatus
}

// PullResponse reports the outcome of a pull.
type PullResponse struct {
	Adopted bool   `json:"adopted" doc:"Whether a snapshot was found and adopted"`
	Message string `json:"message" doc:"Status message"`
}

// PullOutput wraps the pull response for Huma.
type PullOutput struct {
	Body PullResponse
}

// === Handlers ===

func (s *Server) handleCreateComic(ctx context.Context, input *CreateComicInput) (*ComicOutput, error) {
	if _, err := s.RequireAdmin(ctx); err != nil {
		return nil, err
	}

	comic, err := s.services.Catalog.CreateComic(ctx, input.Body)
	if err != nil {
		return nil, err
	}
	return &ComicOutput{Body: *comic}, nil
}

func (s *Server) handleUpdateComic(ctx context.Context, input *UpdateComicInput) (*ComicOutput, error) {
	if _, err := s.RequireAdmin(ctx); err != nil {
		return nil, err
	}

	comic, err := s.services.Catalog.UpdateComic(ctx, input.ID, input.Body)
	if err != nil {
		return nil, err
	}
	return &ComicOutput{Body: *comic}, nil
}

func (s *Server) handleAppendChapter(ctx context.Context, input *AppendChapterInput) (*ChapterOutput, error) {
	if _, err := s.RequireAdmin(ctx); err != nil {
		return nil, err
	}

	chapter, err := s.services.Catalog.AppendChapter(ctx, input.ID, input.Body)
	if err != nil {
		return nil, err
	}
	return &ChapterOutput{Body: *chapter}, nil
}

func (s *Server) handleReplaceChapters(ctx context.Context, input *ReplaceChaptersInput) (*ComicOutput, error) {
	if _, err := s.RequireAdmin(ctx); err != nil {
		return nil, err
	}

	comic, err := s.services.Catalog.ReplaceChapters(ctx, input.ID, input.Body)
	if err != nil {
		return nil, err
	}
	return &ComicOutput{Body: *comic}, nil
}

func (s *Server) handleReplaceContacts(ctx context.Context, input *ReplaceContactsInput) (*ContactsOutput, error) {
	if _, err := s.RequireAdmin(ctx); err != nil {
		return nil, err
	}

	contacts, err := s.services.Contact.Replace(ctx, input.Body)
	if err != nil {
		return nil, err
	}
	return &ContactsOutput{Body: contacts}, nil
}

func (s *Server) handleSaveRemoteConfig(ctx context.Context, input *RemoteConfigInput) (*RemoteConfigOutput, error) {
	if _, err := s.RequireAdmin(ctx); err != nil {
		return nil, err
	}

	cfg, err := s.services.Sync.SaveRemoteConfig(ctx, input.Body)
	if err != nil {
		return nil, err
	}
	return &RemoteConfigOutput{Body: RemoteConfigResponse{Repo: cfg.Repo}}, nil
}

func (s *Server) handleRemoteStatus(ctx context.Context, _ *struct{}) (*RemoteStatusOutput, error) {
	if _, err := s.RequireAdmin(ctx); err != nil {
		return nil, err
	}

	status, err := s.services.Sync.Status(ctx)
	if err != nil {
		return nil, err
	}
	return &RemoteStatusOutput{Body: *status}, nil
}

func (s *Server) handlePushSnapshot(ctx context.Context, _ *struct{}) (*MessageOutput, error) {
	account, err := s.RequireAdmin(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Sync.Push(ctx, account.Email); err != nil {
		return nil, err
	}
	return &MessageOutput{Body: MessageResponse{Message: "snapshot pushed"}}, nil
}

func (s *Server) handlePullSnapshot(ctx context.Context, _ *struct{}) (*PullOutput, error) {
	if _, err := s.RequireAdmin(ctx); err != nil {
		return nil, err
	}

	adopted, err := s.services.Sync.Pull(ctx)
	if err != nil {
		return nil, err
	}

	msg := "no remote snapshot found"
	if adopted {
		msg = "snapshot adopted"
	}
	return &PullOutput{Body: PullResponse{Adopted: adopted, Message: msg}}, nil
}
