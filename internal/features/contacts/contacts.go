// Package contacts implements the contact endpoints as vertical slices: every
// file owns its request shape, the storage capability it needs, its handler
// and its route.
package contacts

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/okian/contacts/internal/adapters/http/api"
	"github.com/okian/contacts/internal/adapters/repository"
	"github.com/okian/contacts/internal/domain/model"
	"github.com/okian/contacts/pkg/logger"
)

// Route patterns.
const (
	collectionPath = "/contacts"
	itemPath       = "/contacts/{id}"
	idParam        = "id"
)

const defaultMaxBodyBytes int64 = 1 << 20

var errTrailingData = errors.New("unexpected data after JSON body")

// settings is shared by every slice.
type settings struct {
	maxBodyBytes int64
}

// Option configures the contact endpoints.
type Option func(*settings)

// WithMaxBodyBytes caps request bodies; larger bodies are answered with 413.
func WithMaxBodyBytes(n int64) Option {
	return func(s *settings) {
		if n > 0 {
			s.maxBodyBytes = n
		}
	}
}

// Endpoints returns the five contact endpoints in registration order.
func Endpoints(store repository.Store, log logger.Logger, opts ...Option) []api.Endpoint {
	s := settings{maxBodyBytes: defaultMaxBodyBytes}
	for _, opt := range opts {
		opt(&s)
	}

	return []api.Endpoint{
		NewCreateHandler(store, log, s.maxBodyBytes),
		NewGetHandler(store, log),
		NewListHandler(store, log),
		NewUpdateHandler(store, log, s.maxBodyBytes),
		NewRemoveHandler(store, log),
	}
}

// contactDetails is the body accepted by create and update. Absent fields
// decode as empty strings.
type contactDetails struct {
	Name        string `json:"Name"`
	CountryCode string `json:"CountryCode"`
	PhoneNumber string `json:"PhoneNumber"`
}

func (d contactDetails) toModel() model.Details {
	return model.Details{Name: d.Name, CountryCode: d.CountryCode, PhoneNumber: d.PhoneNumber}
}

// decodeBody reads a JSON body of at most limit bytes into v. It writes the
// 400/413 answer itself and reports whether the caller may continue.
func decodeBody(w http.ResponseWriter, r *http.Request, op string, limit int64, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, limit))
	err := dec.Decode(v)
	if err == nil {
		// Exactly one JSON value; anything after it is a malformed body.
		switch extra := dec.Decode(&struct{}{}); {
		case errors.Is(extra, io.EOF):
		case errors.As(extra, new(*http.MaxBytesError)):
			err = extra
		default:
			err = errTrailingData
		}
	}
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			api.WriteError(w, http.StatusRequestEntityTooLarge, "request_too_large",
				api.WrapKind(op, api.ErrBadRequest, fmt.Errorf("body exceeds %d bytes", tooLarge.Limit)))
			return false
		}
		api.WriteError(w, http.StatusBadRequest, "bad_request", api.WrapKind(op, api.ErrBadRequest, err))
		return false
	}
	return true
}

// pathID extracts and canonicalizes the id route parameter. A malformed id
// cannot name a stored contact, so it is reported as absent.
func pathID(r *http.Request) (string, bool) {
	id, err := model.ParseID(chi.URLParam(r, idParam))
	if err != nil {
		return "", false
	}
	return id, true
}

// writeStoreError maps a storage error to a response. Not-found answers 404
// with an empty body; anything else is a storage failure.
func writeStoreError(w http.ResponseWriter, r *http.Request, log logger.Logger, op string, err error) {
	if errors.Is(err, repository.ErrNotFound) {
		api.WriteNotFound(w)
		return
	}
	log.Error(r.Context(), "contact store failed",
		logger.String("op", op),
		logger.String("path", r.URL.Path),
		logger.Error(err),
	)
	api.WriteError(w, http.StatusInternalServerError, "internal_error", api.WrapKind(op, api.ErrInternal, err))
}
