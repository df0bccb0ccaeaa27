package contacts

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/okian/contacts/internal/adapters/http/api"
	"github.com/okian/contacts/internal/domain/model"
	"github.com/okian/contacts/pkg/logger"
)

// GetDependencies is the storage capability needed to read one contact.
type GetDependencies interface {
	FindByID(ctx context.Context, id string) (model.Contact, error)
}

// GetHandler handles GET /contacts/{id}.
type GetHandler struct {
	deps GetDependencies
	log  logger.Logger
}

// NewGetHandler creates a new get handler.
func NewGetHandler(deps GetDependencies, log logger.Logger) *GetHandler {
	return &GetHandler{deps: deps, log: log}
}

// MapEndpoint implements api.Endpoint.
func (h *GetHandler) MapEndpoint(r chi.Router) {
	r.Get(itemPath, api.MetricsMiddleware(h.HandleGet, "contacts_get"))
}

// HandleGet returns one contact or 404.
func (h *GetHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_contact"

	id, ok := pathID(r)
	if !ok {
		api.WriteNotFound(w)
		return
	}

	c, err := h.deps.FindByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, r, h.log, op, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, c)
}
