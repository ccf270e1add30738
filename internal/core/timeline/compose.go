package timeline

import (
	"launcharc/internal/core/colorfade"
	"launcharc/internal/core/model"
	"launcharc/internal/core/projector"
)

// ProjectedNode is one renderable event: where it sits and how it is colored.
type ProjectedNode struct {
	projector.Placement
	colorfade.Marker
}

// Compose projects events for one offset and colors each marker by how close
// it is to now. It is pure and safe to call from any goroutine.
func Compose(
	offsetSeconds float64,
	events []model.MissionEvent,
	projection projector.Config,
	transition colorfade.Transition,
	geometry model.GeometryDescriptor,
) []ProjectedNode {
	placements := projector.Project(offsetSeconds, events, projection, geometry)
	nodes := make([]ProjectedNode, 0, len(placements))
	for _, placement := range placements {
		nodes = append(nodes, ProjectedNode{
			Placement: placement,
			Marker:    transition.At(placement.RelativeSeconds),
		})
	}
	return nodes
}
