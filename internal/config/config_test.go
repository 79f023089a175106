package config_test

import (
	"context"
	"testing"
	"time"

	"github.com/okian/firewatch/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with defaults", t, func() {
		cfg := config.New(context.Background())

		convey.Convey("Then it should describe the original dashboard", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.SourceURL, convey.ShouldEqual, "http://localhost:9080/api/fire_aqi_data")
			convey.So(cfg.ServeFixture, convey.ShouldBeTrue)
			convey.So(cfg.InitialDate, convey.ShouldEqual, "2025-01-07")
			convey.So(cfg.AnchorDate, convey.ShouldEqual, "2025-01-07")
			convey.So(cfg.PlaybackSteps, convey.ShouldEqual, 23)
			convey.So(cfg.PlaybackInterval(), convey.ShouldEqual, time.Second)
			convey.So(cfg.MapCenterLat, convey.ShouldEqual, 34.0522)
			convey.So(cfg.MapCenterLon, convey.ShouldEqual, -118.2437)
			convey.So(cfg.MapZoom, convey.ShouldEqual, 9)
		})

		convey.Convey("And the defaults should validate", func() {
			convey.So(cfg.Validate(), convey.ShouldBeNil)
			convey.So(cfg.FetchTimeout(), convey.ShouldEqual, 10*time.Second)
			convey.So(cfg.FetchBackoff(), convey.ShouldEqual, 500*time.Millisecond)
		})
	})
}
