// Package mapview keeps the overlays drawn on the dashboard map. Every
// overlay is owned through a Handle so callers can remove exactly what they
// added.
package mapview

import (
	"sort"
	"sync"

	"github.com/golang/geo/s2"
	"github.com/okian/firewatch/internal/domain/geo"
	"github.com/paulmach/orb/geojson"
)

// Overlay style of a fire circle.
const (
	StrokeColor = "red"
	FillColor   = "#f03"
	FillOpacity = 0.5
)

// Viewport size assumed when fitting the map to the overlays.
const (
	fitWidthPx  = 800
	fitHeightPx = 600
)

// Handle identifies one overlay on a Layer.
type Handle uint64

// Style describes how a circle is painted.
type Style struct {
	Color       string  `json:"color"`
	FillColor   string  `json:"fill_color"`
	FillOpacity float64 `json:"fill_opacity"`
}

// DefaultStyle is the style of fire circles.
func DefaultStyle() Style {
	return Style{Color: StrokeColor, FillColor: FillColor, FillOpacity: FillOpacity}
}

// Circle is a geodesic circle overlay with a popup label.
type Circle struct {
	Name      string     `json:"name"`
	Date      string     `json:"date"`
	Center    geo.LatLng `json:"center"`
	RadiusM   float64    `json:"radius_m"`
	SizeAcres float64    `json:"size_acres"`
	Label     string     `json:"label"`
	Style     Style      `json:"style"`
}

// Layer is an in-memory map overlay layer. It is safe for concurrent use.
type Layer struct {
	mu       sync.RWMutex
	next     Handle
	circles  map[Handle]Circle
	fallback geo.Viewport
	vertices int
}

// New creates an empty layer.
func New(opts ...Option) *Layer {
	l := &Layer{
		circles:  make(map[Handle]Circle),
		fallback: geo.Viewport{Center: geo.LatLng{Lat: 34.0522, Lng: -118.2437}, Zoom: 9},
		vertices: geo.DefaultCircleVertices,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// AddCircle draws c and returns the handle that owns it.
func (l *Layer) AddCircle(c Circle) Handle {
	if c.Style == (Style{}) {
		c.Style = DefaultStyle()
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.next++
	l.circles[l.next] = c
	return l.next
}

// Remove deletes the overlay owned by h. It reports whether h was present.
func (l *Layer) Remove(h Handle) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.circles[h]; !ok {
		return false
	}
	delete(l.circles, h)
	return true
}

// Len returns the number of overlays on the layer.
func (l *Layer) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.circles)
}

// Circles returns the overlays in drawing order.
func (l *Layer) Circles() []Circle {
	l.mu.RLock()
	defer l.mu.RUnlock()
	handles := l.sortedHandles()
	out := make([]Circle, 0, len(handles))
	for _, h := range handles {
		out = append(out, l.circles[h])
	}
	return out
}

// FeatureCollection encodes the overlays as GeoJSON polygons approximating
// each circle.
func (l *Layer) FeatureCollection() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, c := range l.Circles() {
		f := geojson.NewFeature(geo.CircleGeometry(c.Center, c.RadiusM, l.vertices))
		f.Properties["name"] = c.Name
		f.Properties["date"] = c.Date
		f.Properties["size_acres"] = c.SizeAcres
		f.Properties["radius_m"] = c.RadiusM
		f.Properties["label"] = c.Label
		f.Properties["color"] = c.Style.Color
		f.Properties["fillColor"] = c.Style.FillColor
		f.Properties["fillOpacity"] = c.Style.FillOpacity
		fc.Append(f)
	}
	return fc
}

// Viewport returns the view fitting every overlay, or the default view when
// the layer is empty.
func (l *Layer) Viewport() geo.Viewport {
	circles := l.Circles()
	if len(circles) == 0 {
		return l.fallback
	}
	bounds := make([]s2.Rect, 0, len(circles))
	for _, c := range circles {
		bounds = append(bounds, geo.CircleBound(c.Center, c.RadiusM))
	}
	return geo.FitViewport(geo.UnionBound(bounds...), fitWidthPx, fitHeightPx, l.fallback)
}

// DefaultViewport returns the view used when nothing is drawn.
func (l *Layer) DefaultViewport() geo.Viewport {
	return l.fallback
}

func (l *Layer) sortedHandles() []Handle {
	out := make([]Handle, 0, len(l.circles))
	for h := range l.circles {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
