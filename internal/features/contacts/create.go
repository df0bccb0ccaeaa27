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

// CreateDependencies is the storage capability needed to create contacts.
type CreateDependencies interface {
	Add(ctx context.Context, c model.Contact) error
}

// CreateHandler handles POST /contacts.
type CreateHandler struct {
	deps         CreateDependencies
	log          logger.Logger
	maxBodyBytes int64
}

// NewCreateHandler creates a new create handler.
func NewCreateHandler(deps CreateDependencies, log logger.Logger, maxBodyBytes int64) *CreateHandler {
	if maxBodyBytes <= 0 {
		maxBodyBytes = defaultMaxBodyBytes
	}
	return &CreateHandler{deps: deps, log: log, maxBodyBytes: maxBodyBytes}
}

// MapEndpoint implements api.Endpoint.
func (h *CreateHandler) MapEndpoint(r chi.Router) {
	r.Post(collectionPath, api.MetricsMiddleware(h.HandleCreate, "contacts_create"))
}

// HandleCreate stores a new contact under a fresh id and echoes it back.
func (h *CreateHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_contact"

	var req contactDetails
	if !decodeBody(w, r, op, h.maxBodyBytes, &req) {
		return
	}

	c := model.NewContact(req.toModel())
	if err := h.deps.Add(r.Context(), c); err != nil {
		writeStoreError(w, r, h.log, op, err)
		return
	}

	metrics.RecordContactCreated()
	h.log.Debug(r.Context(), "contact created", logger.String("id", c.ID))
	api.WriteJSON(w, http.StatusOK, c)
}
