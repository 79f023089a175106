package mapview_test

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/okian/firewatch/internal/adapters/mapview"
	"github.com/okian/firewatch/internal/domain/geo"
	"github.com/paulmach/orb"
	. "github.com/smartystreets/goconvey/convey"
)

func palisades() mapview.Circle {
	return mapview.Circle{
		Name:      "Palisades Fire",
		Date:      "2025-01-07",
		Center:    geo.LatLng{Lat: 34.0522, Lng: -118.5536},
		RadiusM:   geo.RadiusMeters(1200),
		SizeAcres: 1200,
		Label:     "Palisades Fire / Size: 1,200 acres / Date: 2025-01-07",
	}
}

func TestLayer(t *testing.T) {
	Convey("Given an empty layer", t, func() {
		l := mapview.New()

		Convey("Then it reports the default view", func() {
			So(l.Len(), ShouldEqual, 0)
			v := l.Viewport()
			So(v.Center.Lat, ShouldEqual, 34.0522)
			So(v.Center.Lng, ShouldEqual, -118.2437)
			So(v.Zoom, ShouldEqual, 9)
			So(v, ShouldResemble, l.DefaultViewport())
		})

		Convey("When a circle is added", func() {
			h := l.AddCircle(palisades())

			Convey("Then it is listed with the fire style", func() {
				circles := l.Circles()
				So(len(circles), ShouldEqual, 1)
				So(circles[0].Style.Color, ShouldEqual, "red")
				So(circles[0].Style.FillColor, ShouldEqual, "#f03")
				So(circles[0].Style.FillOpacity, ShouldEqual, 0.5)
			})

			Convey("Then removing its handle clears it once", func() {
				So(l.Remove(h), ShouldBeTrue)
				So(l.Remove(h), ShouldBeFalse)
				So(l.Len(), ShouldEqual, 0)
			})

			Convey("Then the view centers on it", func() {
				v := l.Viewport()
				So(v.Center.Lat, ShouldAlmostEqual, 34.0522, 1e-4)
				So(v.Center.Lng, ShouldAlmostEqual, -118.5536, 1e-4)
				So(v.Zoom, ShouldBeGreaterThan, 9)
			})
		})

		Convey("When circles are added in order", func() {
			a := palisades()
			b := palisades()
			b.Name = "Eaton Fire"
			c := palisades()
			c.Name = "Hughes Fire"
			l.AddCircle(a)
			hb := l.AddCircle(b)
			l.AddCircle(c)
			l.Remove(hb)

			Convey("Then drawing order is kept", func() {
				circles := l.Circles()
				So(len(circles), ShouldEqual, 2)
				So(circles[0].Name, ShouldEqual, "Palisades Fire")
				So(circles[1].Name, ShouldEqual, "Hughes Fire")
			})
		})

		Convey("When used concurrently", func() {
			var wg sync.WaitGroup
			for i := 0; i < 16; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					h := l.AddCircle(palisades())
					_ = l.Circles()
					l.Remove(h)
				}()
			}
			wg.Wait()

			Convey("Then every handle is released", func() {
				So(l.Len(), ShouldEqual, 0)
			})
		})
	})
}

func TestFeatureCollection(t *testing.T) {
	Convey("Given a layer with one circle", t, func() {
		l := mapview.New(mapview.WithCircleVertices(16))
		l.AddCircle(palisades())

		fc := l.FeatureCollection()

		Convey("Then one polygon feature carries the popup properties", func() {
			So(len(fc.Features), ShouldEqual, 1)
			f := fc.Features[0]
			poly, ok := f.Geometry.(orb.Polygon)
			So(ok, ShouldBeTrue)
			So(len(poly[0]), ShouldEqual, 17)
			So(f.Properties["name"], ShouldEqual, "Palisades Fire")
			So(f.Properties["fillColor"], ShouldEqual, "#f03")
			So(f.Properties["label"], ShouldContainSubstring, "1,200 acres")
		})

		Convey("Then it encodes as GeoJSON", func() {
			raw, err := json.Marshal(fc)
			So(err, ShouldBeNil)
			var doc map[string]any
			So(json.Unmarshal(raw, &doc), ShouldBeNil)
			So(doc["type"], ShouldEqual, "FeatureCollection")
		})
	})

	Convey("Given a circle with zero radius", t, func() {
		l := mapview.New()
		c := palisades()
		c.RadiusM = 0
		l.AddCircle(c)

		Convey("Then it is encoded as a point", func() {
			_, ok := l.FeatureCollection().Features[0].Geometry.(orb.Point)
			So(ok, ShouldBeTrue)
		})
	})
}

func TestViewportOption(t *testing.T) {
	Convey("Given a custom default view", t, func() {
		want := geo.Viewport{Center: geo.LatLng{Lat: 10, Lng: 20}, Zoom: 4}
		l := mapview.New(mapview.WithDefaultViewport(want))

		Convey("Then an empty layer reports it", func() {
			So(l.Viewport(), ShouldResemble, want)
		})
	})
}
