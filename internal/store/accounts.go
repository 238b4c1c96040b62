package store

import (
	"context"
	"fmt"

	"github.com/manhuaapp/manhua-server/internal/domain"
)

// GetAccountByEmail looks up an account by address, case-insensitively.
func (s *Store) GetAccountByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return s.Accounts.GetByIndex(ctx, "email", email)
}

// ListAccounts returns every stored account. Records are normalized on the
// way out so legacy documents with missing collections never escape the
// store layer.
func (s *Store) ListAccounts(ctx context.Context) ([]*domain.Account, error) {
	var accounts []*domain.Account
	for account, err := range s.Accounts.List(ctx) {
		if err != nil {
			return nil, fmt.Errorf("list accounts: %w", err)
		}
		account.Normalize()
		accounts = append(accounts, account)
	}
	return accounts, nil
}

// SnapshotAccounts returns the accounts table keyed by normalized email,
// the shape the shared snapshot document uses.
func (s *Store) SnapshotAccounts(ctx context.Context) (map[string]domain.Account, error) {
	accounts, err := s.ListAccounts(ctx)
	if err != nil {
		return nil, err
	}

	table := make(map[string]domain.Account, len(accounts))
	for _, a := range accounts {
		table[normalizeEmail(a.Email)] = *a
	}
	return table, nil
}

// ReplaceAccounts drops the entire accounts table and installs the given
// one. Used when adopting a remote snapshot, which is authoritative for
// accounts when it carries them.
func (s *Store) ReplaceAccounts(ctx context.Context, accounts map[string]domain.Account) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.db.DropPrefix([]byte("account:")); err != nil {
		return fmt.Errorf("drop accounts: %w", err)
	}

	for _, account := range accounts {
		a := account
		a.Normalize()
		if err := s.Accounts.Create(ctx, a.ID, &a); err != nil {
			return fmt.Errorf("install account %s: %w", a.ID, err)
		}
	}
	return nil
}
