package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/manhuaapp/manhua-server/internal/auth"
	"github.com/manhuaapp/manhua-server/internal/color"
	"github.com/manhuaapp/manhua-server/internal/device"
	"github.com/manhuaapp/manhua-server/internal/domain"
	domainerrors "github.com/manhuaapp/manhua-server/internal/errors"
	"github.com/manhuaapp/manhua-server/internal/id"
	"github.com/manhuaapp/manhua-server/internal/store"
)

// AccountService handles login, session restore, and per-account reading
// state (favorites, bookmarks, subscription).
//
// The device binding is deliberate and unforgiving: an account created on
// one install is rejected on every other install, with no recovery flow.
// Sharing a snapshot between installs is how accounts travel, and the
// binding is what keeps one paid account from serving a whole group chat.
type AccountService struct {
	store        *store.Store
	devices      *device.Provider
	tokenService *auth.TokenService
	catalog      *CatalogService
	adminEmail   string
	logger       *slog.Logger
}

// NewAccountService creates the account service. adminEmail is the one
// identity that gets SUPER_ADMIN on first login.
func NewAccountService(
	s *store.Store,
	devices *device.Provider,
	tokenService *auth.TokenService,
	catalog *CatalogService,
	adminEmail string,
	logger *slog.Logger,
) *AccountService {
	return &AccountService{
		store:        s,
		devices:      devices,
		tokenService: tokenService,
		catalog:      catalog,
		adminEmail:   adminEmail,
		logger:       logger,
	}
}

// LoginRequest carries login credentials. Password may be empty: accounts
// created without a secret accept only an empty secret.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"max=200"`
	Password string `json:"password" validate:"max=1024"`
}

// AuthResponse is the result of a successful login or session restore.
type AuthResponse struct {
	Account     *domain.Account `json:"account"`
	AccessToken string          `json:"access_token"`
}

// Login signs an account in, creating it on first use of an identity.
//
// For a known identity the rejection order is fixed: secret first, then
// device. A stolen address on the wrong device therefore learns nothing
// about the device binding without also knowing the secret.
func (s *AccountService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	deviceID, err := s.devices.DeviceID(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve device: %w", err)
	}

	account, err := s.store.GetAccountByEmail(ctx, req.Email)
	if err != nil {
		if !domainerrors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("look up account: %w", err)
		}
		return s.createAccount(ctx, req, deviceID)
	}

	// Secret check comes first, always.
	if account.PasswordHash == "" {
		if req.Password != "" {
			return nil, domainerrors.InvalidCredentials("invalid email or password")
		}
	} else {
		ok, err := auth.VerifyPassword(account.PasswordHash, req.Password)
		if err != nil {
			return nil, fmt.Errorf("verify password: %w", err)
		}
		if !ok {
			return nil, domainerrors.InvalidCredentials("invalid email or password")
		}
	}

	// Device check second, unconditional. No re-binding, no recovery.
	if account.DeviceID != deviceID {
		return nil, domainerrors.DeviceMismatch("account is bound to another device")
	}

	account.Normalize()

	// The administrator identity never loses its role: if a synced
	// snapshot demoted it, promote it back on login.
	if s.isAdminIdentity(account.Email) && !account.IsSuperAdmin() {
		account.Role = domain.RoleSuperAdmin
		account.IsPremium = true
		account.Subscription = domain.LongestTier
		s.logger.Info("administrator identity re-promoted", "account_id", account.ID)
	}

	account.Touch()
	if err := s.store.Accounts.Update(ctx, account.ID, account); err != nil {
		return nil, fmt.Errorf("update account: %w", err)
	}

	return s.establishSession(ctx, account, deviceID)
}

// createAccount registers a brand-new identity bound to this device.
func (s *AccountService) createAccount(ctx context.Context, req LoginRequest, deviceID string) (*AuthResponse, error) {
	accountID, err := id.Generate("account")
	if err != nil {
		return nil, fmt.Errorf("generate account ID: %w", err)
	}

	var passwordHash string
	if req.Password != "" {
		passwordHash, err = auth.HashPassword(req.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
	}

	name := req.Name
	if name == "" {
		name = req.Email[:strings.Index(req.Email, "@")]
	}

	account := &domain.Account{
		ID:           accountID,
		Email:        req.Email,
		Name:         name,
		PasswordHash: passwordHash,
		Avatar:       avatarURL(name, req.Email),
		DeviceID:     deviceID,
		Role:         domain.RoleUser,
		Subscription: domain.TierFree,
		IsApproved:   true,
	}

	if s.isAdminIdentity(req.Email) {
		account.Role = domain.RoleSuperAdmin
		account.IsPremium = true
		account.Subscription = domain.LongestTier
		end := time.Now().AddDate(0, domain.LongestTier.Months(), 0)
		account.SubEnd = &end
	}

	account.Normalize()
	account.InitTimestamps()

	if err := s.store.Accounts.Create(ctx, accountID, account); err != nil {
		if domainerrors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.AlreadyExists("email already in use")
		}
		return nil, fmt.Errorf("create account: %w", err)
	}

	s.logger.Info("account created",
		"account_id", accountID,
		"email", account.Email,
		"role", account.Role,
	)

	return s.establishSession(ctx, account, deviceID)
}

// establishSession persists the denormalized session record and issues an
// access token.
func (s *AccountService) establishSession(ctx context.Context, account *domain.Account, deviceID string) (*AuthResponse, error) {
	session := &domain.Session{
		Account:  *account,
		DeviceID: deviceID,
		IssuedAt: time.Now(),
	}
	if err := s.store.SetCurrentSession(ctx, session); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}

	token, err := s.tokenService.GenerateAccessToken(account.ID, account.Email, string(account.Role), deviceID)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &AuthResponse{
		Account:     sanitized(account),
		AccessToken: token,
	}, nil
}

// RestoreSession returns the persisted session when its bound device is
// this device. Any other outcome, including a session written by a
// different install sharing the same snapshot, yields nothing, silently,
// and the stale record stays where it is.
func (s *AccountService) RestoreSession(ctx context.Context) (*AuthResponse, error) {
	session, err := s.store.GetCurrentSession(ctx)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("load session: %w", err)
	}

	deviceID, err := s.devices.DeviceID(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve device: %w", err)
	}
	if session.DeviceID != deviceID {
		return nil, nil
	}

	account := session.Account
	account.Normalize()

	token, err := s.tokenService.GenerateAccessToken(account.ID, account.Email, string(account.Role), deviceID)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &AuthResponse{
		Account:     sanitized(&account),
		AccessToken: token,
	}, nil
}

// Logout clears the current-session record. Nothing else is touched; the
// account and its reading state stay intact.
func (s *AccountService) Logout(ctx context.Context) error {
	return s.store.ClearCurrentSession(ctx)
}

// GetAccount loads an account by ID, normalized.
func (s *AccountService) GetAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.store.Accounts.Get(ctx, accountID)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFoundf("account %s not found", accountID)
		}
		return nil, fmt.Errorf("get account: %w", err)
	}
	account.Normalize()
	return account, nil
}

// ToggleFavorite adds the comic to the account's favorite set or removes it
// if already present, mirroring the change into the comic's aggregate
// counter.
func (s *AccountService) ToggleFavorite(ctx context.Context, accountID, comicID string) (*domain.Account, error) {
	account, err := s.GetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	var delta int64
	if account.HasFavorite(comicID) {
		kept := account.FavoriteIDs[:0]
		for _, fav := range account.FavoriteIDs {
			if fav != comicID {
				kept = append(kept, fav)
			}
		}
		account.FavoriteIDs = kept
		delta = -1
	} else {
		account.FavoriteIDs = append(account.FavoriteIDs, comicID)
		delta = 1
	}

	if err := s.saveAccount(ctx, account); err != nil {
		return nil, err
	}
	if err := s.catalog.AdjustFavorites(ctx, comicID, delta); err != nil {
		return nil, err
	}

	return sanitized(account), nil
}

// BookmarkRequest identifies a reading position.
type BookmarkRequest struct {
	ComicID      string `json:"comic_id" validate:"required"`
	ChapterID    string `json:"chapter_id" validate:"required"`
	PageIndex    int    `json:"page_index" validate:"gte=0"`
	ComicTitle   string `json:"comic_title" validate:"max=300"`
	ChapterTitle string `json:"chapter_title" validate:"max=300"`
}

// ToggleBookmark removes the bookmark whose (comic, chapter, page) tuple
// matches exactly, or prepends a new one. Newest first, no upper bound.
func (s *AccountService) ToggleBookmark(ctx context.Context, accountID string, req BookmarkRequest) (*domain.Account, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	account, err := s.GetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	bookmark := domain.Bookmark{
		ComicID:      req.ComicID,
		ChapterID:    req.ChapterID,
		PageIndex:    req.PageIndex,
		ComicTitle:   req.ComicTitle,
		ChapterTitle: req.ChapterTitle,
		AddedAt:      time.Now(),
	}

	removed := false
	kept := account.Bookmarks[:0]
	for _, b := range account.Bookmarks {
		if b.Matches(bookmark) {
			removed = true
			continue
		}
		kept = append(kept, b)
	}
	if removed {
		account.Bookmarks = kept
	} else {
		account.Bookmarks = append([]domain.Bookmark{bookmark}, account.Bookmarks...)
	}

	if err := s.saveAccount(ctx, account); err != nil {
		return nil, err
	}
	return sanitized(account), nil
}

// SubscriptionRequest selects a subscription tier.
type SubscriptionRequest struct {
	Tier domain.SubscriptionTier `json:"tier" validate:"required"`
}

// UpdateSubscription records the chosen tier and grants premium
// unconditionally. Payment happens out of band through a support contact;
// the app trusts that it did.
func (s *AccountService) UpdateSubscription(ctx context.Context, accountID string, req SubscriptionRequest) (*domain.Account, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}
	if !req.Tier.IsValid() {
		return nil, domainerrors.Validationf("unknown subscription tier %q", req.Tier)
	}

	account, err := s.GetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	account.IsPremium = true
	account.Subscription = req.Tier
	if months := req.Tier.Months(); months > 0 {
		end := time.Now().AddDate(0, months, 0)
		account.SubEnd = &end
	} else {
		account.SubEnd = nil
	}

	if err := s.saveAccount(ctx, account); err != nil {
		return nil, err
	}

	s.logger.Info("subscription updated", "account_id", accountID, "tier", req.Tier)
	return sanitized(account), nil
}

// saveAccount writes the account through to the table and refreshes the
// denormalized session copy when it is the signed-in account.
func (s *AccountService) saveAccount(ctx context.Context, account *domain.Account) error {
	account.Touch()
	if err := s.store.Accounts.Update(ctx, account.ID, account); err != nil {
		return fmt.Errorf("update account: %w", err)
	}

	session, err := s.store.GetCurrentSession(ctx)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("load session: %w", err)
	}
	if session.Account.ID != account.ID {
		return nil
	}

	session.Account = *account
	if err := s.store.SetCurrentSession(ctx, session); err != nil {
		return fmt.Errorf("refresh session: %w", err)
	}
	return nil
}

func (s *AccountService) isAdminIdentity(email string) bool {
	return strings.EqualFold(strings.TrimSpace(email), strings.TrimSpace(s.adminEmail))
}

// sanitized returns a copy safe for responses, with the credential hash
// stripped.
func sanitized(account *domain.Account) *domain.Account {
	out := *account
	out.PasswordHash = ""
	return &out
}

// avatarURL builds a generated-initials avatar for a new account. The
// background color is derived from the email so the avatar stays stable
// across devices and snapshot adoptions.
func avatarURL(name, email string) string {
	background := strings.TrimPrefix(color.ForAccount(email), "#")
	return "https://ui-avatars.com/api/?name=" + url.QueryEscape(name) + "&background=" + background
}
