package domain

import "time"

// Snapshot is the full exported state of a server instance: the accounts
// table, the catalog, and the support contact list, serialized as a single
// JSON document in the remote repository.
//
// The remote object has no lock or transaction. The last successful push
// wins and silently discards any changes pushed by another device since the
// pusher's last fetch. PushedAt and PushedBy make that contract visible to
// admins instead of pretending it away.
type Snapshot struct {
	Comics   []Comic            `json:"manhuas"`
	Accounts map[string]Account `json:"accounts"`
	Contacts []SupportContact   `json:"contacts"`
	PushedAt time.Time          `json:"pushed_at,omitzero"`
	PushedBy string             `json:"pushed_by,omitempty"`
}

// Normalize repairs every record carried by the snapshot.
func (s *Snapshot) Normalize() {
	for i := range s.Comics {
		s.Comics[i].Normalize()
	}
	for email, acc := range s.Accounts {
		acc.Normalize()
		s.Accounts[email] = acc
	}
	if s.Contacts == nil {
		s.Contacts = []SupportContact{}
	}
}
