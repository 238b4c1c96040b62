package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/manhuaapp/manhua-server/internal/domain"
	"github.com/manhuaapp/manhua-server/internal/id"
	"github.com/manhuaapp/manhua-server/internal/store"
)

// ContactService owns the support contact list: the people readers message
// to arrange a subscription. Reference data, replaced whole by admins.
type ContactService struct {
	store  *store.Store
	logger *slog.Logger

	mu       sync.RWMutex
	contacts []domain.SupportContact
}

// NewContactService creates the contact service. The list is empty until
// the sync coordinator publishes it.
func NewContactService(s *store.Store, logger *slog.Logger) *ContactService {
	return &ContactService{
		store:  s,
		logger: logger,
	}
}

// Publish atomically replaces the in-memory contact list.
func (s *ContactService) Publish(contacts []domain.SupportContact) {
	if contacts == nil {
		contacts = []domain.SupportContact{}
	}
	s.mu.Lock()
	s.contacts = contacts
	s.mu.Unlock()
}

// List returns the current support contacts.
func (s *ContactService) List() []domain.SupportContact {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.SupportContact, len(s.contacts))
	copy(out, s.contacts)
	return out
}

// ContactInput describes one contact in a replacement list.
type ContactInput struct {
	ID      string            `json:"id,omitempty"`
	Name    string            `json:"name" validate:"required,max=200"`
	Handles map[string]string `json:"handles"`
}

// Replace swaps the whole contact list and writes it through.
func (s *ContactService) Replace(ctx context.Context, inputs []ContactInput) ([]domain.SupportContact, error) {
	contacts := make([]domain.SupportContact, 0, len(inputs))
	for _, in := range inputs {
		if err := validate.Struct(in); err != nil {
			return nil, formatValidationError(err)
		}
		contactID := in.ID
		if contactID == "" {
			generated, err := id.Generate("contact")
			if err != nil {
				return nil, fmt.Errorf("generate contact ID: %w", err)
			}
			contactID = generated
		}
		contacts = append(contacts, domain.SupportContact{
			ID:      contactID,
			Name:    in.Name,
			Handles: in.Handles,
		})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.SaveContacts(ctx, contacts); err != nil {
		return nil, fmt.Errorf("persist contacts: %w", err)
	}
	s.contacts = contacts

	s.logger.Info("support contacts replaced", "count", len(contacts))

	out := make([]domain.SupportContact, len(contacts))
	copy(out, contacts)
	return out, nil
}
