package contacts

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/okian/contacts/internal/adapters/http/api"
	"github.com/okian/contacts/internal/domain/model"
	"github.com/okian/contacts/pkg/logger"
	"github.com/okian/contacts/pkg/metrics"
)

// UpdateDependencies is the storage capability needed to overwrite a contact.
type UpdateDependencies interface {
	FindByID(ctx context.Context, id string) (model.Contact, error)
	Replace(ctx context.Context, c model.Contact) error
}

// UpdateHandler handles PUT /contacts/{id}.
type UpdateHandler struct {
	deps         UpdateDependencies
	log          logger.Logger
	maxBodyBytes int64
}

// NewUpdateHandler creates a new update handler.
func NewUpdateHandler(deps UpdateDependencies, log logger.Logger, maxBodyBytes int64) *UpdateHandler {
	if maxBodyBytes <= 0 {
		maxBodyBytes = defaultMaxBodyBytes
	}
	return &UpdateHandler{deps: deps, log: log, maxBodyBytes: maxBodyBytes}
}

// MapEndpoint implements api.Endpoint.
func (h *UpdateHandler) MapEndpoint(r chi.Router) {
	r.Put(itemPath, api.MetricsMiddleware(h.HandleUpdate, "contacts_update"))
}

// HandleUpdate overwrites all mutable fields of an existing contact.
// Unknown ids answer 404 before the body is read.
func (h *UpdateHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	const op = "api.update_contact"

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

	var req contactDetails
	if !decodeBody(w, r, op, h.maxBodyBytes, &req) {
		return
	}

	c.Apply(req.toModel())
	// A concurrent remove between the lookup and the write surfaces as 404.
	if err := h.deps.Replace(r.Context(), c); err != nil {
		writeStoreError(w, r, h.log, op, err)
		return
	}

	metrics.RecordContactUpdated()
	api.WriteJSON(w, http.StatusOK, c)
}
