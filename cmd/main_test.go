package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	app "github.com/okian/contacts/internal/app"
	"github.com/okian/contacts/internal/config"
	"github.com/okian/contacts/internal/domain/model"
	"github.com/okian/contacts/pkg/logger"
	"github.com/okian/contacts/pkg/metrics"
	"github.com/smartystreets/goconvey/convey"
)

func testLogger() logger.Logger {
	l, err := logger.New(logger.WithWriter(io.Discard))
	if err != nil {
		panic(err)
	}
	return l
}

func startedService(ctx context.Context, env string) *app.Service {
	svc := app.New(app.WithLogger(testLogger()), app.WithEnvironment(env))
	if err := svc.Start(ctx); err != nil {
		panic(err)
	}
	return svc
}

func send(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(method, path, rd))
	return w
}

func TestMainFunction(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		convey.Convey("When testing configuration loading", func() {
			_ = os.Setenv("CONTACTS_ADDR", ":8081")
			_ = os.Setenv("CONTACTS_ENVIRONMENT", "staging")
			defer func() {
				_ = os.Unsetenv("CONTACTS_ADDR")
				_ = os.Unsetenv("CONTACTS_ENVIRONMENT")
			}()

			convey.Convey("Then configuration should be loadable", func() {
				cfg, err := config.Load(context.Background())
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8081")
				convey.So(cfg.DocsEnabled(), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When testing invalid configuration", func() {
			_ = os.Setenv("CONTACTS_ADDR", "")
			defer func() { _ = os.Unsetenv("CONTACTS_ADDR") }()

			convey.Convey("Then run should fail before serving", func() {
				err := run()
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "failed to load config")
			})
		})
	})
}

func TestRouter(t *testing.T) {
	convey.Convey("Given a router built for development", t, func() {
		ctx := context.Background()
		cfg := config.New()
		svc := startedService(ctx, cfg.Environment)
		defer svc.Stop()

		h, err := newRouter(ctx, cfg, svc, testLogger())
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("When walking a contact through its lifecycle", func() {
			w := send(h, http.MethodPost, "/contacts", `{"Name":"Alice","CountryCode":"+1","PhoneNumber":"5551234"}`)
			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			var created model.Contact
			convey.So(json.NewDecoder(w.Body).Decode(&created), convey.ShouldBeNil)

			convey.Convey("Then every operation should behave end to end", func() {
				w := send(h, http.MethodGet, "/contacts", "")
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
				var all []model.Contact
				convey.So(json.NewDecoder(w.Body).Decode(&all), convey.ShouldBeNil)
				convey.So(all, convey.ShouldResemble, []model.Contact{created})

				w = send(h, http.MethodPut, "/contacts/"+created.ID, `{"Name":"Alicia"}`)
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)

				w = send(h, http.MethodGet, "/contacts/"+created.ID, "")
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
				convey.So(w.Body.String(), convey.ShouldContainSubstring, `"Name":"Alicia"`)
				convey.So(w.Body.String(), convey.ShouldContainSubstring, `"PhoneNumber":""`)

				w = send(h, http.MethodDelete, "/contacts/"+created.ID, "")
				convey.So(w.Code, convey.ShouldEqual, http.StatusNoContent)

				w = send(h, http.MethodGet, "/contacts/"+created.ID, "")
				convey.So(w.Code, convey.ShouldEqual, http.StatusNotFound)
			})
		})

		convey.Convey("When reading the operational endpoints", func() {
			send(h, http.MethodPost, "/contacts", `{}`)

			convey.Convey("Then stats should report the stored contacts", func() {
				w := send(h, http.MethodGet, "/stats", "")
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
				var stats map[string]any
				convey.So(json.NewDecoder(w.Body).Decode(&stats), convey.ShouldBeNil)
				convey.So(stats["started"], convey.ShouldEqual, true)
				convey.So(stats["totalContacts"], convey.ShouldEqual, float64(1))
				convey.So(stats["environment"], convey.ShouldEqual, config.EnvDevelopment)
			})

			convey.Convey("And healthz should expose the contact metrics", func() {
				w := send(h, http.MethodGet, "/healthz", "")
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
				convey.So(w.Body.String(), convey.ShouldContainSubstring, "contacts_api_contacts_created_total")
			})

			convey.Convey("And the docs should be served", func() {
				convey.So(send(h, http.MethodGet, "/api-docs", "").Code, convey.ShouldEqual, http.StatusOK)
				convey.So(send(h, http.MethodGet, "/openapi.yaml", "").Code, convey.ShouldEqual, http.StatusOK)
			})
		})

		convey.Convey("When the body exceeds the configured limit", func() {
			small := config.New()
			small.MaxBodyBytes = 8
			limited, err := newRouter(ctx, small, svc, testLogger())
			convey.So(err, convey.ShouldBeNil)

			w := send(limited, http.MethodPost, "/contacts", `{"Name":"far too long for the limit"}`)

			convey.Convey("Then it should answer 413", func() {
				convey.So(w.Code, convey.ShouldEqual, http.StatusRequestEntityTooLarge)
			})
		})

		convey.Convey("When the service is stopped", func() {
			svc.Stop()
			w := send(h, http.MethodGet, "/contacts", "")

			convey.Convey("Then the contact endpoints should answer 500", func() {
				convey.So(w.Code, convey.ShouldEqual, http.StatusInternalServerError)
			})
		})
	})

	convey.Convey("Given a router built for production", t, func() {
		ctx := context.Background()
		cfg := config.New()
		cfg.Environment = config.EnvProduction
		svc := startedService(ctx, cfg.Environment)
		defer svc.Stop()

		h, err := newRouter(ctx, cfg, svc, testLogger())
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("Then the docs should not be registered", func() {
			convey.So(send(h, http.MethodGet, "/api-docs", "").Code, convey.ShouldEqual, http.StatusNotFound)
			convey.So(send(h, http.MethodGet, "/openapi.yaml", "").Code, convey.ShouldEqual, http.StatusNotFound)
		})

		convey.Convey("And the contact endpoints should still work", func() {
			convey.So(send(h, http.MethodGet, "/contacts", "").Code, convey.ShouldEqual, http.StatusOK)
		})
	})
}

func TestRouterLogging(t *testing.T) {
	convey.Convey("Given a router with a buffered logger", t, func() {
		ctx := context.Background()
		var buf bytes.Buffer
		log, err := logger.New(logger.WithWriter(&buf), logger.WithFormat(logger.FormatJSON))
		convey.So(err, convey.ShouldBeNil)

		svc := startedService(ctx, config.EnvDevelopment)
		h, err := newRouter(ctx, config.New(), svc, log)
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("When the store fails", func() {
			svc.Stop()
			send(h, http.MethodPost, "/contacts", `{}`)

			convey.Convey("Then the failure should be logged with a request id", func() {
				out := buf.String()
				convey.So(out, convey.ShouldContainSubstring, "contact store failed")
				convey.So(out, convey.ShouldContainSubstring, "request failed")
				convey.So(out, convey.ShouldContainSubstring, `"request_id"`)
			})
		})
	})
}

func TestInitMetrics(t *testing.T) {
	convey.Convey("Given metrics initialised from config", t, func() {
		ctx := context.Background()
		defer metrics.Init()

		cfg := config.New()
		cfg.Environment = config.EnvStaging

		convey.Convey("When a contact is created", func() {
			initMetrics(cfg)
			svc := startedService(ctx, cfg.Environment)
			defer svc.Stop()
			h, err := newRouter(ctx, cfg, svc, testLogger())
			convey.So(err, convey.ShouldBeNil)

			send(h, http.MethodPost, "/contacts", `{}`)
			w := send(h, http.MethodGet, "/healthz", "")

			convey.Convey("Then healthz should carry the environment label", func() {
				convey.So(w.Body.String(), convey.ShouldContainSubstring,
					`contacts_api_contacts_created_total{environment="staging"} 1`)
			})
		})

		convey.Convey("When metrics are disabled", func() {
			cfg.MetricsEnabled = false
			initMetrics(cfg)
			svc := startedService(ctx, cfg.Environment)
			defer svc.Stop()
			h, err := newRouter(ctx, cfg, svc, testLogger())
			convey.So(err, convey.ShouldBeNil)

			send(h, http.MethodPost, "/contacts", `{}`)
			w := send(h, http.MethodGet, "/healthz", "")

			convey.Convey("Then nothing should be counted", func() {
				convey.So(w.Body.String(), convey.ShouldContainSubstring,
					`contacts_api_contacts_created_total{environment="staging"} 0`)
			})
		})
	})
}

func TestMainApplicationComponents(t *testing.T) {
	convey.Convey("Given main application components", t, func() {
		convey.Convey("When testing system metrics updater", func() {
			convey.Convey("Then it should return once the context ends", func() {
				ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
				defer cancel()

				convey.So(func() {
					startSystemMetricsUpdater(ctx)
				}, convey.ShouldNotPanic)
			})
		})

		convey.Convey("When testing service metrics updater", func() {
			svc := app.New(app.WithLogger(testLogger()))

			convey.Convey("Then it should return once the context ends", func() {
				ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
				defer cancel()

				convey.So(func() {
					startServiceMetricsUpdater(ctx, svc)
				}, convey.ShouldNotPanic)
			})
		})

		convey.Convey("When testing system metrics update", func() {
			convey.Convey("Then it should update metrics without panicking", func() {
				convey.So(func() {
					updateSystemMetrics()
				}, convey.ShouldNotPanic)
			})
		})

		convey.Convey("When testing service metrics update", func() {
			svc := app.New(app.WithLogger(testLogger()))

			convey.Convey("Then it should update metrics without panicking", func() {
				convey.So(func() {
					updateServiceMetrics(svc)
				}, convey.ShouldNotPanic)
			})
		})
	})
}
