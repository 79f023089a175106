package mapview

import "github.com/okian/firewatch/internal/domain/geo"

// Option applies a configuration option to the Layer.
type Option func(*Layer)

// WithDefaultViewport sets the view returned when the layer is empty.
func WithDefaultViewport(v geo.Viewport) Option {
	return func(l *Layer) {
		l.fallback = v
	}
}

// WithCircleVertices sets the number of vertices of GeoJSON circles.
func WithCircleVertices(n int) Option {
	return func(l *Layer) {
		if n >= 3 {
			l.vertices = n
		}
	}
}
