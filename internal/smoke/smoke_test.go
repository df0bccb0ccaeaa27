package smoke_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/okian/contacts/internal/adapters/http/api"
	service "github.com/okian/contacts/internal/app"
	"github.com/okian/contacts/internal/features/contacts"
	"github.com/okian/contacts/internal/smoke"
	"github.com/okian/contacts/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func quietLogger() logger.Logger {
	l, err := logger.New(logger.WithWriter(io.Discard))
	if err != nil {
		panic(err)
	}
	return l
}

// newContactsServer starts the real contact stack behind httptest.
func newContactsServer() (*httptest.Server, *service.Service) {
	log := quietLogger()
	svc := service.New(service.WithLogger(log))
	if err := svc.Start(context.Background()); err != nil {
		panic(err)
	}

	r := chi.NewRouter()
	registry := api.NewRegistry(contacts.Endpoints(svc, log)...)
	if err := api.NewServer(svc).Register(context.Background(), r, registry); err != nil {
		panic(err)
	}
	return httptest.NewServer(r), svc
}

func TestRun(t *testing.T) {
	Convey("Given a running contacts service", t, func() {
		srv, svc := newContactsServer()
		defer srv.Close()
		defer svc.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		Convey("When running the smoke test", func() {
			out := filepath.Join(t.TempDir(), "out", "contacts.json")
			stats, err := smoke.Run(ctx, &smoke.Config{
				BaseURL:    srv.URL,
				Contacts:   40,
				Workers:    4,
				Sample:     10,
				Timeout:    5 * time.Second,
				OutputFile: out,
			}, quietLogger())

			Convey("Then every step should pass", func() {
				So(err, ShouldBeNil)
				So(stats.Generated, ShouldEqual, 40)
				So(stats.Created, ShouldEqual, 40)
				So(stats.CreateFailed, ShouldEqual, 0)
				So(stats.Listed, ShouldEqual, 40)
				So(stats.Verified, ShouldEqual, 10)
				So(stats.Updated, ShouldEqual, 10)
				So(stats.Removed, ShouldEqual, 10)
				So(stats.Duration > 0, ShouldBeTrue)
			})

			Convey("And the removed sample should be gone from the service", func() {
				So(svc.Count(ctx), ShouldEqual, 30)
			})

			Convey("And the created contacts should be saved", func() {
				data, err := os.ReadFile(out)
				So(err, ShouldBeNil)
				var saved []smoke.Contact
				So(json.Unmarshal(data, &saved), ShouldBeNil)
				So(len(saved), ShouldEqual, 40)
				for _, c := range saved {
					So(c.ID, ShouldNotBeEmpty)
					So(c.CountryCode, ShouldNotBeEmpty)
					So(c.PhoneNumber, ShouldNotBeEmpty)
				}
			})
		})

		Convey("When the sample is larger than the contact count", func() {
			stats, err := smoke.Run(ctx, &smoke.Config{
				BaseURL:  srv.URL,
				Contacts: 3,
				Sample:   50,
			}, quietLogger())

			Convey("Then it should be clamped", func() {
				So(err, ShouldBeNil)
				So(stats.Removed, ShouldEqual, 3)
				So(svc.Count(ctx), ShouldEqual, 0)
			})
		})

		Convey("When asked for no contacts", func() {
			_, err := smoke.Run(ctx, &smoke.Config{BaseURL: srv.URL}, quietLogger())

			Convey("Then it should reject the config", func() {
				So(errors.Is(err, smoke.ErrInvalidConfig), ShouldBeTrue)
			})
		})
	})

	Convey("Given a stopped contacts service", t, func() {
		srv, svc := newContactsServer()
		defer srv.Close()
		svc.Stop()

		Convey("When running the smoke test", func() {
			stats, err := smoke.Run(context.Background(), &smoke.Config{
				BaseURL:  srv.URL,
				Contacts: 5,
				Workers:  2,
			}, quietLogger())

			Convey("Then creation failures should fail the run", func() {
				So(errors.Is(err, smoke.ErrVerification), ShouldBeTrue)
				So(stats.CreateFailed, ShouldEqual, 5)
			})
		})
	})

	Convey("Given an unhealthy endpoint", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		Convey("When running the smoke test", func() {
			_, err := smoke.Run(context.Background(), &smoke.Config{BaseURL: srv.URL, Contacts: 1}, quietLogger())

			Convey("Then it should stop at the health check", func() {
				So(errors.Is(err, smoke.ErrUnhealthy), ShouldBeTrue)
			})
		})
	})
}

func TestHTTPClient(t *testing.T) {
	Convey("Given a client for a running service", t, func() {
		srv, svc := newContactsServer()
		defer srv.Close()
		defer svc.Stop()

		ctx := context.Background()
		client := smoke.NewHTTPClient(srv.URL+"/", time.Second)

		Convey("When reading an unknown contact", func() {
			_, found, err := client.Get(ctx, "3f1c1b1e-8a0f-4c65-9a3a-9d6b6b5c2a10")

			Convey("Then it should report not found without error", func() {
				So(err, ShouldBeNil)
				So(found, ShouldBeFalse)
			})
		})

		Convey("When updating and deleting an unknown contact", func() {
			_, updated, err := client.Update(ctx, "3f1c1b1e-8a0f-4c65-9a3a-9d6b6b5c2a10", smoke.ContactInput{})
			So(err, ShouldBeNil)
			deleted, err := client.Delete(ctx, "3f1c1b1e-8a0f-4c65-9a3a-9d6b6b5c2a10")

			Convey("Then both should report not found", func() {
				So(err, ShouldBeNil)
				So(updated, ShouldBeFalse)
				So(deleted, ShouldBeFalse)
			})
		})

		Convey("When the service fails", func() {
			svc.Stop()
			_, err := client.List(ctx)

			Convey("Then the status error should carry the answer", func() {
				So(errors.Is(err, smoke.ErrUnexpectedStatus), ShouldBeTrue)
				var se *smoke.StatusError
				So(errors.As(err, &se), ShouldBeTrue)
				So(se.Status, ShouldEqual, http.StatusInternalServerError)
				So(se.Body, ShouldContainSubstring, "internal_error")
			})
		})
	})
}
