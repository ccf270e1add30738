package arcview

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"

	"launcharc/internal/core/model"
	"launcharc/internal/core/projector"
	"launcharc/internal/core/timeline"
)

// Style holds the colors and sizes used to draw the arc.
type Style struct {
	Background     color.NRGBA
	Arc            color.NRGBA
	ArcWidth       float32
	NodeStroke     float32
	Connector      color.NRGBA
	LabelColor     color.NRGBA
	LabelTextSize  float32
	LabelBoxWidth  float32
	LabelLineSpace float32
}

// DefaultStyle draws white on black.
func DefaultStyle() Style {
	return Style{
		Background:     color.NRGBA{R: 0, G: 0, B: 0, A: 255},
		Arc:            color.NRGBA{R: 255, G: 255, B: 255, A: 77},
		ArcWidth:       2,
		NodeStroke:     2,
		Connector:      color.NRGBA{R: 255, G: 255, B: 255, A: 153},
		LabelColor:     color.NRGBA{R: 255, G: 255, B: 255, A: 255},
		LabelTextSize:  12,
		LabelBoxWidth:  140,
		LabelLineSpace: 1.2,
	}
}

// buildScene converts a snapshot into canvas objects, arc first.
func buildScene(snapshot timeline.Snapshot, geometry model.GeometryDescriptor, style Style) []fyne.CanvasObject {
	objects := make([]fyne.CanvasObject, 0, 1+len(snapshot.Nodes)*4)

	arc := canvas.NewCircle(color.Transparent)
	arc.StrokeColor = style.Arc
	arc.StrokeWidth = style.ArcWidth
	setCircle(arc, geometry.CenterX, geometry.CenterY, geometry.Radius)
	objects = append(objects, arc)

	for _, node := range snapshot.VisibleNodes() {
		if connector := node.Label.Connector; connector != nil {
			line := canvas.NewLine(style.Connector)
			line.StrokeWidth = 1
			line.Position1 = fyne.NewPos(float32(connector.X1), float32(connector.Y1))
			line.Position2 = fyne.NewPos(float32(connector.X2), float32(connector.Y2))
			objects = append(objects, line)
		}

		outer := canvas.NewCircle(style.Background)
		outer.StrokeColor = node.Color.NRGBA()
		outer.StrokeWidth = style.NodeStroke
		setCircle(outer, node.CX, node.CY, snapshot.NodeRadius)
		objects = append(objects, outer)

		if node.ShouldDrawInnerDot {
			inner := canvas.NewCircle(node.InnerDotColor.NRGBA())
			setCircle(inner, node.CX, node.CY, snapshot.InnerDotRadius)
			objects = append(objects, inner)
		}

		objects = append(objects, labelTexts(node.Label, style)...)
	}
	return objects
}

// labelTexts stacks label lines around the anchor. fyne text cannot be
// rotated, so lines stay horizontal; outside labels grow upwards.
func labelTexts(label projector.Label, style Style) []fyne.CanvasObject {
	lineHeight := style.LabelTextSize * style.LabelLineSpace
	top := float32(label.Y)
	if label.Baseline == projector.BaselineAfterEdge {
		top -= lineHeight * float32(len(label.Lines))
	}

	texts := make([]fyne.CanvasObject, 0, len(label.Lines))
	for i, line := range label.Lines {
		text := canvas.NewText(line, style.LabelColor)
		text.TextSize = style.LabelTextSize
		text.Alignment = fyne.TextAlignCenter
		text.Move(fyne.NewPos(float32(label.X)-style.LabelBoxWidth/2, top+lineHeight*float32(i)))
		text.Resize(fyne.NewSize(style.LabelBoxWidth, lineHeight))
		texts = append(texts, text)
	}
	return texts
}

func setCircle(circle *canvas.Circle, cx, cy, radius float64) {
	circle.Position1 = fyne.NewPos(float32(cx-radius), float32(cy-radius))
	circle.Position2 = fyne.NewPos(float32(cx+radius), float32(cy+radius))
}
