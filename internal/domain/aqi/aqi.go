// Package aqi maps Air Quality Index readings to qualitative bands.
package aqi

// Band is a qualitative AQI category. The zero value is Good.
type Band int

// Bands in increasing order of severity.
const (
	Good Band = iota
	Moderate
	UnhealthyForSensitiveGroups
	Unhealthy
	VeryUnhealthy
	Hazardous
)

// upper inclusive bound of every band but the last
var upperBounds = [...]int{50, 100, 150, 200, 300}

var labels = [...]string{
	"Good",
	"Moderate",
	"Unhealthy for Sensitive Groups",
	"Unhealthy",
	"Very Unhealthy",
	"Hazardous",
}

// Classify returns the band of value. It is total: anything at or below 50
// (negative readings included) is Good, anything above 300 is Hazardous.
func Classify(value int) Band {
	for i, upper := range upperBounds {
		if value <= upper {
			return Band(i)
		}
	}
	return Hazardous
}

// String returns the display label of the band.
func (b Band) String() string {
	if b < Good || b > Hazardous {
		return "Unknown"
	}
	return labels[b]
}

// Status is shorthand for Classify(value).String().
func Status(value int) string {
	return Classify(value).String()
}
