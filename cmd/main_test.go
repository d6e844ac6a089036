package main

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/roastcurve/internal/config"
	"github.com/okian/roastcurve/pkg/logger"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func TestMainConfiguration(t *testing.T) {
	convey.Convey("Given ROAST_ environment overrides", t, func() {
		_ = os.Setenv("ROAST_ADDR", ":18080")
		_ = os.Setenv("ROAST_MAX_PROFILES", "4")
		_ = os.Setenv("ROAST_DEFAULT_PROFILES", "2")
		_ = os.Setenv("ROAST_DEFAULT_MODE", "duration")
		defer func() {
			_ = os.Unsetenv("ROAST_ADDR")
			_ = os.Unsetenv("ROAST_MAX_PROFILES")
			_ = os.Unsetenv("ROAST_DEFAULT_PROFILES")
			_ = os.Unsetenv("ROAST_DEFAULT_MODE")
		}()

		convey.Convey("When the service is built from the loaded config", func() {
			cfg, err := config.Load(context.Background())
			convey.So(err, convey.ShouldBeNil)
			svc := newService(cfg, logger.Get())
			stats := svc.GetStats()

			convey.Convey("Then the service carries the configured limits", func() {
				convey.So(cfg.Addr, convey.ShouldEqual, ":18080")
				convey.So(stats["maxProfiles"], convey.ShouldEqual, 4)
				convey.So(stats["defaultProfiles"], convey.ShouldEqual, 2)
				convey.So(stats["defaultMode"], convey.ShouldEqual, "interval")
			})
		})
	})

	convey.Convey("Given an invalid default mode", t, func() {
		_ = os.Setenv("ROAST_DEFAULT_MODE", "epoch")
		defer func() { _ = os.Unsetenv("ROAST_DEFAULT_MODE") }()

		convey.Convey("Then configuration loading fails", func() {
			cfg, err := config.Load(context.Background())
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(cfg, convey.ShouldBeNil)
		})
	})
}

func TestMainHandler(t *testing.T) {
	convey.Convey("Given the assembled HTTP handler over a started service", t, func() {
		ctx := context.Background()
		svc := newService(config.New(), logger.Get())
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		defer svc.Stop()

		handler, err := newHandler(ctx, svc, logger.Get())
		convey.So(err, convey.ShouldBeNil)
		srv := httptest.NewServer(handler)
		defer srv.Close()

		get := func(path string) (*http.Response, string) {
			resp, err := srv.Client().Get(srv.URL + path)
			convey.So(err, convey.ShouldBeNil)
			defer resp.Body.Close()
			body, err := io.ReadAll(resp.Body)
			convey.So(err, convey.ShouldBeNil)
			return resp, string(body)
		}

		convey.Convey("Then the workbench, docs and API are all routed", func() {
			resp, body := get("/")
			convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusOK)
			convey.So(body, convey.ShouldContainSubstring, "Workbench")

			resp, _ = get("/api-docs")
			convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusOK)

			resp, body = get("/openapi.yaml")
			convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusOK)
			convey.So(body, convey.ShouldContainSubstring, "/sessions/{id}/sync")

			resp, body = get("/stats")
			convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusOK)
			convey.So(body, convey.ShouldContainSubstring, `"started":true`)

			post, err := srv.Client().Post(srv.URL+"/sessions", "application/json", strings.NewReader(""))
			convey.So(err, convey.ShouldBeNil)
			_ = post.Body.Close()
			convey.So(post.StatusCode, convey.ShouldEqual, http.StatusCreated)
		})
	})
}

func TestSystemMetrics(t *testing.T) {
	convey.Convey("Given the system metrics updater", t, func() {
		convey.Convey("Then a single update does not panic", func() {
			convey.So(updateSystemMetrics, convey.ShouldNotPanic)
		})

		convey.Convey("And the loop returns when its context ends", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
			defer cancel()
			done := make(chan struct{})
			go func() {
				startSystemMetricsUpdater(ctx)
				close(done)
			}()
			select {
			case <-done:
			case <-time.After(2 * time.Second):
				t.Fatal("metrics updater did not stop")
			}
		})
	})
}
