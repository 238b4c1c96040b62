package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/manhuaapp/manhua-server/internal/domain"
	"github.com/manhuaapp/manhua-server/internal/service"
)

func (s *Server) registerAuthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/login",
		Summary:     "Log in",
		Description: "Authenticates an account, creating it on first use of an email. An account is bound to the device that created it and rejected elsewhere.",
		Tags:        []string{"Authentication"},
	}, s.handleLogin)

	huma.Register(s.api, huma.Operation{
		OperationID: "restoreSession",
		Method:      http.MethodGet,
		Path:        "/api/v1/auth/session",
		Summary:     "Restore session",
		Description: "Returns the signed-in session when one exists for this device, or null data when there is none.",
		Tags:        []string{"Authentication"},
	}, s.handleRestoreSession)

	huma.Register(s.api, huma.Operation{
		OperationID: "logout",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/logout",
		Summary:     "Log out",
		Description: "Clears the current session record",
		Tags:        []string{"Authentication"},
	}, s.handleLogout)
}

// === DTOs ===

// LoginRequest is the request body for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email,max=254" doc:"Account email"`
	Name     string `json:"name,omitempty" validate:"omitempty,max=200" doc:"Display name, used on first login"`
	Password string `json:"password,omitempty" validate:"omitempty,max=1024" doc:"Account secret; may be empty"`
}

// LoginInput wraps the login request for Huma.
type LoginInput struct {
	Body LoginRequest
}

// AccountResponse contains account information in API responses.
type AccountResponse struct {
	ID           string            `json:"id" doc:"Account ID"`
	Email        string            `json:"email" doc:"Account email"`
	Name         string            `json:"name" doc:"Display name"`
	Avatar       string            `json:"avatar,omitempty" doc:"Avatar image URL"`
	Role         string            `json:"role" doc:"Account role"`
	IsPremium    bool              `json:"is_premium" doc:"Whether premium chapters are readable"`
	Subscription string            `json:"subscription_type" doc:"Subscription tier"`
	SubEnd       *time.Time        `json:"sub_end,omitempty" doc:"Subscription end date"`
	Bookmarks    []domain.Bookmark `json:"bookmarks" doc:"Saved reading positions, newest first"`
	FavoriteIDs  []string          `json:"favorite_ids" doc:"Favorited comic IDs"`
	CreatedAt    time.Time         `json:"created_at" doc:"Creation timestamp"`
	UpdatedAt    time.Time         `json:"updated_at" doc:"Last update timestamp"`
}

// AuthResponse contains the access token and account info.
type AuthResponse struct {
	AccessToken string          `json:"access_token" doc:"PASETO access token"`
	TokenType   string          `json:"token_type" doc:"Token type (Bearer)"`
	Account     AccountResponse `json:"account" doc:"Authenticated account"`
}

// AuthOutput wraps the auth response for Huma.
type AuthOutput struct {
	Body AuthResponse
}

// SessionOutput wraps an optional auth response: null body data means no
// session exists for this device.
type SessionOutput struct {
	Body *AuthResponse
}

// MessageResponse contains a simple message.
type MessageResponse struct {
	Message string `json:"message" doc:"Success message"`
}

// MessageOutput wraps the message response for Huma.
type MessageOutput struct {
	Body MessageResponse
}

// === Handlers ===

func (s *Server) handleLogin(ctx context.Context, input *LoginInput) (*AuthOutput, error) {
	resp, err := s.services.Account.Login(ctx, service.LoginRequest{
		Email:    input.Body.Email,
		Name:     input.Body.Name,
		Password: input.Body.Password,
	})
	if err != nil {
		return nil, err
	}

	return &AuthOutput{Body: toAuthResponse(resp)}, nil
}

func (s *Server) handleRestoreSession(ctx context.Context, _ *struct{}) (*SessionOutput, error) {
	resp, err := s.services.Account.RestoreSession(ctx)
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return &SessionOutput{}, nil
	}

	body := toAuthResponse(resp)
	return &SessionOutput{Body: &body}, nil
}

func (s *Server) handleLogout(ctx context.Context, _ *struct{}) (*MessageOutput, error) {
	if err := s.services.Account.Logout(ctx); err != nil {
		return nil, err
	}
	return &MessageOutput{Body: MessageResponse{Message: "logged out"}}, nil
}

func toAuthResponse(resp *service.AuthResponse) AuthResponse {
	return AuthResponse{
		AccessToken: resp.AccessToken,
		TokenType:   "Bearer",
		Account:     toAccountResponse(resp.Account),
	}
}

func toAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		ID:           a.ID,
		Email:        a.Email,
		Name:         a.Name,
		Avatar:       a.Avatar,
		Role:         string(a.Role),
		IsPremium:    a.IsPremium,
		Subscription: string(a.Subscription),
		SubEnd:       a.SubEnd,
		Bookmarks:    a.Bookmarks,
		FavoriteIDs:  a.FavoriteIDs,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}
