package projector

import (
	"math"
	"strings"
)

// Baselines for the two label sides.
const (
	BaselineAfterEdge  = "text-after-edge"
	BaselineBeforeEdge = "text-before-edge"
)

// LabelConfig places event labels radially around a node.
type LabelConfig struct {
	// TextOffset is the distance from the node centre to the label centre.
	TextOffset float64
	// ConnectorGap is the space left between the connector end and the label.
	ConnectorGap float64
}

// Segment is a straight line.
type Segment struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

// Label is the text geometry of one event.
type Label struct {
	Lines           []string `json:"lines"`
	X               float64  `json:"x"`
	Y               float64  `json:"y"`
	RotationDegrees float64  `json:"rotation_degrees"`
	Outside         bool     `json:"outside"`
	Baseline        string   `json:"baseline"`
	Connector       *Segment `json:"connector,omitempty"`
}

// placeLabel alternates sides by the event's original index: odd indexes sit
// outside the circle, even ones inside.
func placeLabel(name string, index int, cx, cy, angle, nodeRadius float64, config LabelConfig) Label {
	outside := index%2 == 1
	direction := -1.0
	baseline := BaselineBeforeEdge
	if outside {
		direction = 1
		baseline = BaselineAfterEdge
	}

	cos, sin := math.Cos(angle), math.Sin(angle)
	label := Label{
		Lines:           strings.Fields(name),
		RotationDegrees: angle*180/math.Pi + 90,
		Outside:         outside,
		Baseline:        baseline,
	}

	textDistance := math.Max(config.TextOffset, nodeRadius)
	lineLength := textDistance - config.ConnectorGap - nodeRadius
	if lineLength >= 1 {
		label.Connector = &Segment{
			X1: cx + direction*nodeRadius*cos,
			Y1: cy + direction*nodeRadius*sin,
			X2: cx + direction*(nodeRadius+lineLength)*cos,
			Y2: cy + direction*(nodeRadius+lineLength)*sin,
		}
	}

	label.X = cx + direction*textDistance*cos
	label.Y = cy + direction*textDistance*sin
	return label
}
