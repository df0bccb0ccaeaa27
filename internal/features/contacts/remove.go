package contacts

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/okian/contacts/internal/adapters/http/api"
	"github.com/okian/contacts/pkg/logger"
	"github.com/okian/contacts/pkg/metrics"
)

// RemoveDependencies is the storage capability needed to delete a contact.
type RemoveDependencies interface {
	Remove(ctx context.Context, id string) error
}

// RemoveHandler handles DELETE /contacts/{id}.
type RemoveHandler struct {
	deps RemoveDependencies
	log  logger.Logger
}

// NewRemoveHandler creates a new remove handler.
func NewRemoveHandler(deps RemoveDependencies, log logger.Logger) *RemoveHandler {
	return &RemoveHandler{deps: deps, log: log}
}

// MapEndpoint implements api.Endpoint.
func (h *RemoveHandler) MapEndpoint(r chi.Router) {
	r.Delete(itemPath, api.MetricsMiddleware(h.HandleRemove, "contacts_remove"))
}

// HandleRemove deletes a contact and answers 204 with no body.
func (h *RemoveHandler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	const op = "api.remove_contact"

	id, ok := pathID(r)
	if !ok {
		api.WriteNotFound(w)
		return
	}

	if err := h.deps.Remove(r.Context(), id); err != nil {
		writeStoreError(w, r, h.log, op, err)
		return
	}

	metrics.RecordContactRemoved()
	h.log.Debug(r.Context(), "contact removed", logger.String("id", id))
	w.WriteHeader(http.StatusNoContent)
}
