package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with a private registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("unit"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithConstLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then metrics are registered under the configured names", func() {
				So(manager, ShouldNotBeNil)
				manager.derivations.WithLabelValues("interval").Inc()

				families, err := registry.Gather()
				So(err, ShouldBeNil)
				found := false
				for _, f := range families {
					if f.GetName() == "test_unit_derivations_total" {
						found = true
						So(f.GetMetric()[0].GetLabel()[0].GetName(), ShouldEqual, "env")
					}
				}
				So(found, ShouldBeTrue)
			})
		})

		Convey("When registering twice on the same registry", func() {
			registry := prometheus.NewRegistry()
			NewManager(WithPrometheusRegistry(registry))

			Convey("Then promauto panics on the duplicate", func() {
				So(func() { NewManager(WithPrometheusRegistry(registry)) }, ShouldPanic)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("When recording derivation metrics", func() {
			before := testutil.ToFloat64(globalManager.rowsDropped)
			RecordRowsNormalized(5, 2)
			RecordDerivation("absolute")
			RecordDeriveLatency(0.2)

			Convey("Then counters advance", func() {
				So(testutil.ToFloat64(globalManager.rowsDropped)-before, ShouldEqual, 2)
				So(testutil.ToFloat64(globalManager.derivations.WithLabelValues("absolute")), ShouldBeGreaterThanOrEqualTo, 1)
			})
		})

		Convey("When recording parse and sync metrics", func() {
			before := testutil.ToFloat64(globalManager.synchronizes)
			RecordParse(3, 1)
			RecordSynchronize(3)
			RecordSynchronizeError()

			Convey("Then they are visible", func() {
				So(testutil.ToFloat64(globalManager.synchronizes)-before, ShouldEqual, 1)
				So(testutil.ToFloat64(globalManager.parseLines.WithLabelValues("skipped")), ShouldBeGreaterThanOrEqualTo, 1)
			})
		})

		Convey("When recording store and session metrics", func() {
			UpdateActiveSessions(4)
			RecordSessionCreated()
			RecordStoreOperation("put", "ok", 0.3)
			RecordStoreEncodedSize(512)
			RecordRender("png")
			RecordImport("toml")

			Convey("Then the gauge holds the last value", func() {
				So(testutil.ToFloat64(globalManager.activeSessions), ShouldEqual, 4)
				So(testutil.ToFloat64(globalManager.storeOps.WithLabelValues("put", "ok")), ShouldBeGreaterThanOrEqualTo, 1)
			})
		})

		Convey("When recording HTTP, error and system metrics", func() {
			So(func() {
				RecordHTTPRequest("/derive", "POST", "200")
				RecordHTTPRequestDuration("/derive", "POST", "200", 1.5)
				RecordErrorByComponent("service", "not_found")
				RecordErrorByType("client_error", "low")
				RecordErrorByEndpoint("/derive", "POST", "client_error")
				RecordErrorLatency("http", "client_error", 2)
				UpdateSystemMemoryUsage(1 << 20)
				UpdateSystemGoroutineCount(12)
				RecordSystemGCPauseTime(0.4)
			}, ShouldNotPanic)
		})

		Convey("When gathering the custom registry", func() {
			families, err := GetRegistry().Gather()

			Convey("Then every family carries the service prefix", func() {
				So(err, ShouldBeNil)
				So(families, ShouldNotBeEmpty)
				for _, f := range families {
					So(strings.HasPrefix(f.GetName(), "roast_curve_"), ShouldBeTrue)
				}
			})
		})
	})
}
