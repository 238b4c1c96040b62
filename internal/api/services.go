package api

import (
	"github.com/manhuaapp/manhua-server/internal/service"
)

// Services groups all business logic services used by the API server.
// This reduces the parameter count for NewServer and improves testability.
type Services struct {
	Account   *service.AccountService
	Catalog   *service.CatalogService
	Contact   *service.ContactService
	Sync      *service.SyncService
	Recommend *service.RecommendationService
}
