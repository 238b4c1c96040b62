package domain

import "time"

// RemoteConfig locates the shared snapshot file and carries the credential
// used to read and write it.
type RemoteConfig struct {
	Token     string    `json:"token"`
	Repo      string    `json:"repo"` // "owner/name"
	UpdatedAt time.Time `json:"updated_at,omitzero"`
}

// IsConfigured reports whether both the credential and the repository
// location are present. Remote sync is skipped entirely otherwise.
func (c *RemoteConfig) IsConfigured() bool {
	return c != nil && c.Token != "" && c.Repo != ""
}

// Session is the denormalized record of the signed-in account on this
// device. It is stored separately from the accounts table so that restoring
// it never requires a table scan.
type Session struct {
	Account  Account   `json:"account"`
	DeviceID string    `json:"device_id"`
	IssuedAt time.Time `json:"issued_at"`
}
