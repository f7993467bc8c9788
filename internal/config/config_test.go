package config_test

import (
	"testing"
	"time"

	"github.com/okian/venkman/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":4444")
			convey.So(cfg.OpsAddr, convey.ShouldEqual, ":9080")
			convey.So(cfg.LogWritePause(), convey.ShouldEqual, 5*time.Second)
			convey.So(cfg.LogItemsToBuffer, convey.ShouldEqual, 0)
			convey.So(cfg.SessionIDFormat, convey.ShouldEqual, config.SessionIDSequence)
			convey.So(cfg.RandomSeed, convey.ShouldEqual, 0)
			convey.So(cfg.ShutdownTimeout(), convey.ShouldEqual, 10*time.Second)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}
