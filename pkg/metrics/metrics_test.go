package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should be enabled with the default interval", func() {
				So(manager, ShouldNotBeNil)
				So(manager.Enabled(), ShouldBeTrue)
				So(manager.RefreshInterval(), ShouldEqual, defaultRefreshInterval)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("rig"),
				WithSubsystem("left"),
				WithMetricPrefix("test_"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithMetricsEnabled(false),
				WithRefreshInterval(5*time.Second),
				WithCustomLabels(map[string]string{"rig": "a"}),
				WithPrometheusRegistry(registry),
			)
			manager.sessionsTotal.Inc()

			Convey("Then names and labels follow the options", func() {
				So(manager.Enabled(), ShouldBeFalse)
				So(manager.RefreshInterval(), ShouldEqual, 5*time.Second)

				families, err := registry.Gather()
				So(err, ShouldBeNil)
				found := false
				for _, f := range families {
					if f.GetName() == "rig_left_test_sessions_total" {
						found = true
						So(f.GetMetric()[0].GetLabel()[0].GetValue(), ShouldEqual, "a")
					}
				}
				So(found, ShouldBeTrue)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global manager", t, func() {
		m := globalManager

		Convey("Sessions move the active gauge both ways", func() {
			active := testutil.ToFloat64(m.sessionsActive)
			total := testutil.ToFloat64(m.sessionsTotal)
			RecordSessionOpened()
			So(testutil.ToFloat64(m.sessionsActive), ShouldEqual, active+1)
			RecordSessionClosed(3 * time.Second)
			So(testutil.ToFloat64(m.sessionsActive), ShouldEqual, active)
			So(testutil.ToFloat64(m.sessionsTotal), ShouldEqual, total+1)
		})

		Convey("Requests are labelled by type and status", func() {
			c := m.requests.WithLabelValues("close-session-request", "200")
			before := testutil.ToFloat64(c)
			RecordRequest("close-session-request", "200")
			So(testutil.ToFloat64(c), ShouldEqual, before+1)
		})

		Convey("Frame metrics count modes, jumps and commands", func() {
			mode := testutil.ToFloat64(m.behaviorModes.WithLabelValues("run"))
			jumps := testutil.ToFloat64(m.jumpFrames)
			sent := testutil.ToFloat64(m.stimulusSent)

			RecordBehaviorMode("run")
			RecordJumpFrame()
			RecordStimulusCommands(2)
			RecordStimulusCommands(0)
			RecordFrameLatency(0.3)

			So(testutil.ToFloat64(m.behaviorModes.WithLabelValues("run")), ShouldEqual, mode+1)
			So(testutil.ToFloat64(m.jumpFrames), ShouldEqual, jumps+1)
			So(testutil.ToFloat64(m.stimulusSent), ShouldEqual, sent+2)
		})

		Convey("Log queue size tracks deltas", func() {
			size := testutil.ToFloat64(m.logQueueSize)
			UpdateLogQueueSize(3)
			UpdateLogQueueSize(-2)
			So(testutil.ToFloat64(m.logQueueSize), ShouldEqual, size+1)
			UpdateLogQueueSize(-1)

			written := testutil.ToFloat64(m.logRecordsWritten)
			RecordLogBatch(4, 1.5)
			So(testutil.ToFloat64(m.logRecordsWritten), ShouldEqual, written+4)
		})

		Convey("The registry exposes the venkman namespace", func() {
			RecordHTTPRequest("/healthz", "GET", "200")
			RecordErrorByComponent("session", "server_error")
			problems, err := testutil.CollectAndLint(m.requests)
			So(err, ShouldBeNil)
			So(problems, ShouldBeEmpty)

			families, err := GetRegistry().Gather()
			So(err, ShouldBeNil)
			for _, f := range families {
				So(strings.HasPrefix(f.GetName(), "venkman_rules_"), ShouldBeTrue)
			}
		})
	})
}
