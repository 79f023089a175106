package geo

import (
	"math"

	"github.com/golang/geo/s2"
	"github.com/wroge/wgs84"
)

const (
	tileSize         = 256
	webMercatorWorld = 2 * math.Pi * 6378137
	maxFitZoom       = 15
	// EPSG codes
	epsgWGS84       = 4326
	epsgWebMercator = 3857
)

// Viewport is a map view: a center and a slippy-map zoom level.
type Viewport struct {
	Center LatLng `json:"center"`
	Zoom   int    `json:"zoom"`
}

// FitViewport returns the view showing bound on a widthPx x heightPx canvas.
// An empty bound yields fallback.
func FitViewport(bound s2.Rect, widthPx, heightPx int, fallback Viewport) Viewport {
	if bound.IsEmpty() || widthPx <= 0 || heightPx <= 0 {
		return fallback
	}

	epsg := wgs84.EPSG()
	toMercator := epsg.Transform(epsgWGS84, epsgWebMercator)
	toWGS84 := epsg.Transform(epsgWebMercator, epsgWGS84)

	lo, hi := bound.Lo(), bound.Hi()
	x0, y0, _ := toMercator(lo.Lng.Degrees(), lo.Lat.Degrees(), 0)
	x1, y1, _ := toMercator(hi.Lng.Degrees(), hi.Lat.Degrees(), 0)

	cx, cy := (x0+x1)/2, (y0+y1)/2
	lng, lat, _ := toWGS84(cx, cy, 0)

	zoom := maxFitZoom
	for _, fit := range []struct{ extent, px float64 }{
		{math.Abs(x1 - x0), float64(widthPx)},
		{math.Abs(y1 - y0), float64(heightPx)},
	} {
		if fit.extent == 0 {
			continue
		}
		z := int(math.Floor(math.Log2(webMercatorWorld * fit.px / (tileSize * fit.extent))))
		if z < zoom {
			zoom = z
		}
	}
	if zoom < 0 {
		zoom = 0
	}

	return Viewport{Center: LatLng{Lat: lat, Lng: lng}, Zoom: zoom}
}

// UnionBound merges rectangles into one covering bound.
func UnionBound(rects ...s2.Rect) s2.Rect {
	out := s2.EmptyRect()
	for _, r := range rects {
		out = out.Union(r)
	}
	return out
}
