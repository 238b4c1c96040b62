package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/manhuaapp/manhua-server/internal/domain"
)

func (s *Server) registerContactRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listContacts",
		Method:      http.MethodGet,
		Path:        "/api/v1/contacts",
		Summary:     "List support contacts",
		Description: "Returns the people readers message to arrange a subscription",
		Tags:        []string{"Contacts"},
	}, s.handleListContacts)
}

// ContactsOutput wraps the contact list for Huma.
type ContactsOutput struct {
	Body []domain.SupportContact
}

func (s *Server) handleListContacts(_ context.Context, _ *struct{}) (*ContactsOutput, error) {
	return &ContactsOutput{Body: s.services.Contact.List()}, nil
}
