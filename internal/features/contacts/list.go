package contacts

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/okian/contacts/internal/adapters/http/api"
	"github.com/okian/contacts/internal/domain/model"
	"github.com/okian/contacts/pkg/logger"
)

// ListDependencies is the storage capability needed to list contacts.
type ListDependencies interface {
	List(ctx context.Context) ([]model.Contact, error)
}

// ListHandler handles GET /contacts.
type ListHandler struct {
	deps ListDependencies
	log  logger.Logger
}

// NewListHandler creates a new list handler.
func NewListHandler(deps ListDependencies, log logger.Logger) *ListHandler {
	return &ListHandler{deps: deps, log: log}
}

// MapEndpoint implements api.Endpoint.
func (h *ListHandler) MapEndpoint(r chi.Router) {
	r.Get(collectionPath, api.MetricsMiddleware(h.HandleList, "contacts_list"))
}

// HandleList returns every contact as a JSON array, never null.
func (h *ListHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_contacts"

	all, err := h.deps.List(r.Context())
	if err != nil {
		writeStoreError(w, r, h.log, op, err)
		return
	}
	if all == nil {
		all = []model.Contact{}
	}
	api.WriteJSON(w, http.StatusOK, all)
}
