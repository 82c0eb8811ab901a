package config_test

import (
	"testing"
	"time"

	"github.com/okian/crewboard/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.LogFormat, convey.ShouldEqual, "text")
			convey.So(cfg.SourceURL, convey.ShouldEqual, "data/sales.csv")
			convey.So(cfg.CacheTTL(), convey.ShouldEqual, 5*time.Minute)
			convey.So(cfg.FetchTimeout(), convey.ShouldEqual, 10*time.Second)
			convey.So(cfg.PollInterval(), convey.ShouldEqual, time.Minute)
			convey.So(cfg.MaxPayloadBytes, convey.ShouldEqual, 32<<20)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}
