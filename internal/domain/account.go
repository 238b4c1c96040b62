package domain

import "time"

// Role represents an account's permission level in the system.
type Role string

const (
	// RoleSuperAdmin grants full administrative access, including catalog
	// management and remote snapshot sync.
	RoleSuperAdmin Role = "SUPER_ADMIN"
	// RoleEditor grants the same administrative access, assigned by hand
	// through a synced snapshot rather than the admin identity rule.
	RoleEditor Role = "EDITOR"
	// RoleUser grants standard reader access.
	RoleUser Role = "USER"
)

// SubscriptionTier identifies the length of a paid subscription.
// Payment itself happens out of band; the tier is recorded in-app only.
type SubscriptionTier string

const (
	TierFree        SubscriptionTier = "FREE"
	TierOneMonth    SubscriptionTier = "ONE_MONTH"
	TierTwoMonths   SubscriptionTier = "TWO_MONTHS"
	TierThreeMonths SubscriptionTier = "THREE_MONTHS"
	TierSixMonths   SubscriptionTier = "SIX_MONTHS"
	TierOneYear     SubscriptionTier = "ONE_YEAR"
)

// LongestTier is the tier auto-granted to the administrator account.
const LongestTier = TierOneYear

// IsValid reports whether the tier is one of the known values.
func (t SubscriptionTier) IsValid() bool {
	switch t {
	case TierFree, TierOneMonth, TierTwoMonths, TierThreeMonths, TierSixMonths, TierOneYear:
		return true
	}
	return false
}

// Months returns the subscription length in months, 0 for the free tier.
func (t SubscriptionTier) Months() int {
	switch t {
	case TierOneMonth:
		return 1
	case TierTwoMonths:
		return 2
	case TierThreeMonths:
		return 3
	case TierSixMonths:
		return 6
	case TierOneYear:
		return 12
	default:
		return 0
	}
}

// Account represents a reader account.
//
// The credential secret is stored as an Argon2id hash, never plain text.
// DeviceID binds the account to the device that created it; this is a
// usage-limiting heuristic, not a security boundary.
type Account struct {
	ID           string           `json:"id"`
	Email        string           `json:"email"`
	Name         string           `json:"name"`
	PasswordHash string           `json:"password_hash,omitempty"`
	Avatar       string           `json:"avatar"`
	DeviceID     string           `json:"device_id"`
	Role         Role             `json:"role"`
	IsPremium    bool             `json:"is_premium"`
	Subscription SubscriptionTier `json:"subscription_type"`
	SubEnd       *time.Time       `json:"subscription_end,omitempty"`
	IsApproved   bool             `json:"is_approved"`
	Bookmarks    []Bookmark       `json:"bookmarks"`
	FavoriteIDs  []string         `json:"favorite_ids"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// IsAdmin returns true if the account may manage the catalog.
func (a *Account) IsAdmin() bool {
	return a.Role == RoleSuperAdmin || a.Role == RoleEditor
}

// IsSuperAdmin returns true if the account may control remote sync.
func (a *Account) IsSuperAdmin() bool {
	return a.Role == RoleSuperAdmin
}

// CanReadPremium returns true if the account may open premium chapters.
func (a *Account) CanReadPremium() bool {
	return a.IsPremium || a.IsAdmin()
}

// HasFavorite reports whether the comic is in the account's favorite set.
func (a *Account) HasFavorite(comicID string) bool {
	for _, id := range a.FavoriteIDs {
		if id == comicID {
			return true
		}
	}
	return false
}

// Normalize repairs legacy records that predate the bookmark and favorite
// collections by defaulting absent fields. It never rejects a record.
func (a *Account) Normalize() {
	if a.Bookmarks == nil {
		a.Bookmarks = []Bookmark{}
	}
	if a.FavoriteIDs == nil {
		a.FavoriteIDs = []string{}
	}
	if a.Subscription == "" {
		a.Subscription = TierFree
	}
	if a.Role == "" {
		a.Role = RoleUser
	}
}

// Touch updates the UpdatedAt timestamp to the current time.
func (a *Account) Touch() {
	a.UpdatedAt = time.Now()
}

// InitTimestamps sets both CreatedAt and UpdatedAt to now.
func (a *Account) InitTimestamps() {
	now := time.Now()
	a.CreatedAt = now
	a.UpdatedAt = now
}
