package projector

import (
	"math"

	"launcharc/internal/core/model"
)

const (
	defaultViewWidth     = 1920
	defaultViewHeight    = 200
	defaultExposedArcDeg = 64
)

// NewGeometry places a circle of diameter width below a view of the given
// height so that exposedArcDegrees of it pokes above the bottom edge.
func NewGeometry(width, height, exposedArcDegrees float64) model.GeometryDescriptor {
	if width <= 0 {
		width = defaultViewWidth
	}
	if height <= 0 {
		height = defaultViewHeight
	}
	if exposedArcDegrees <= 0 || exposedArcDegrees >= 360 {
		exposedArcDegrees = defaultExposedArcDeg
	}

	radius := width / 2
	exposedArc := exposedArcDegrees * math.Pi / 180
	distanceToChord := radius * math.Cos(exposedArc/2)
	return model.GeometryDescriptor{
		Radius:     radius,
		CenterX:    width / 2,
		CenterY:    height + distanceToChord,
		ViewHeight: height,
	}
}
