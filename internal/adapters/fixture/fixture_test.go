package fixture_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/okian/firewatch/internal/adapters/fixture"
	"github.com/okian/firewatch/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestFires(t *testing.T) {
	Convey("Given the mock fire tracks", t, func() {
		fires := fixture.Fires()

		Convey("Then three fires with six snapshots each are returned", func() {
			So(len(fires), ShouldEqual, 18)
			names := map[string]int{}
			for _, f := range fires {
				names[f.Name]++
			}
			So(names["Palisades Fire"], ShouldEqual, 6)
			So(names["Eaton Fire"], ShouldEqual, 6)
			So(names["Hughes Fire"], ShouldEqual, 6)
		})

		Convey("Then the first day holds only the Palisades fire", func() {
			ds := fixture.Payload().Dataset()
			day := ds.FiresOn("2025-01-07")
			So(len(day), ShouldEqual, 1)
			So(day[0].Name, ShouldEqual, "Palisades Fire")
			So(day[0].Size, ShouldEqual, 1200)
		})
	})
}

func TestAQI(t *testing.T) {
	Convey("Given the generated AQI series", t, func() {
		series := fixture.AQI()

		Convey("Then it covers 24 consecutive days", func() {
			So(len(series), ShouldEqual, 24)
			So(series[0].Date, ShouldEqual, "2025-01-07")
			So(series[23].Date, ShouldEqual, "2025-01-30")
		})

		Convey("Then values follow the base cycle and fire load", func() {
			want := map[string]int{
				"2025-01-07": 125,
				"2025-01-08": 150,
				"2025-01-09": 375,
				"2025-01-10": 500,
				"2025-01-12": 500,
				"2025-01-13": 337,
				"2025-01-14": 375,
				"2025-01-15": 200,
				"2025-01-16": 150,
				"2025-01-30": 125,
			}
			for _, r := range series {
				if v, ok := want[r.Date]; ok {
					So(r.Value, ShouldEqual, v)
				}
			}
		})

		Convey("Then every reading is capped and located in Los Angeles", func() {
			for _, r := range series {
				So(r.Value, ShouldBeLessThanOrEqualTo, 500)
				So(r.Latitude, ShouldNotBeNil)
				So(*r.Latitude, ShouldEqual, 34.0522)
				So(*r.Longitude, ShouldEqual, -118.2437)
			}
		})
	})
}

func TestHandler(t *testing.T) {
	Convey("Given the fixture handler on a mux", t, func() {
		mux := http.NewServeMux()
		fixture.Register(mux)

		Convey("When GET is requested", func() {
			rr := httptest.NewRecorder()
			mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, fixture.Path, nil))

			Convey("Then a successful payload is returned", func() {
				So(rr.Code, ShouldEqual, http.StatusOK)
				var p model.Payload
				So(json.Unmarshal(rr.Body.Bytes(), &p), ShouldBeNil)
				So(p.Succeeded(), ShouldBeTrue)
				So(len(p.FireData), ShouldEqual, 18)
				So(len(p.AQIData), ShouldEqual, 24)
			})
		})

		Convey("When another method is used", func() {
			rr := httptest.NewRecorder()
			mux.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, fixture.Path, nil))

			Convey("Then it is not found", func() {
				So(rr.Code, ShouldEqual, http.StatusNotFound)
			})
		})

		Convey("When registering on a nil mux", func() {
			So(func() { fixture.Register(nil) }, ShouldPanic)
		})
	})
}
