// Package svg renders timeline snapshots as standalone SVG documents.
package svg

import (
	"fmt"
	"strings"

	"launcharc/internal/core/model"
	"launcharc/internal/core/timeline"
)

// Options controls the look of the rendered document.
type Options struct {
	Background    string
	ArcStroke     string
	ArcWidth      float64
	ConnectorLine string
	TextColor     string
	FontFamily    string
	FontSize      int
	ClockFontSize int
	ShowClock     bool
}

// DefaultOptions is white on black in a condensed face.
func DefaultOptions() Options {
	return Options{
		Background:    "#000000",
		ArcStroke:     "rgba(255, 255, 255, 0.3)",
		ArcWidth:      2,
		ConnectorLine: "rgba(255, 255, 255, 0.6)",
		TextColor:     "#ffffff",
		FontFamily:    "Roboto Condensed, Arial, sans-serif",
		FontSize:      12,
		ClockFontSize: 32,
		ShowClock:     true,
	}
}

// Render draws the visible nodes of snapshot on the arc described by geometry.
func Render(snapshot timeline.Snapshot, geometry model.GeometryDescriptor, options Options) string {
	width := geometry.CenterX * 2
	height := geometry.ViewHeight

	var svg strings.Builder
	svg.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg width="%s" height="%s" viewBox="0 0 %s %s" xmlns="http://www.w3.org/2000/svg">
<rect width="100%%" height="100%%" fill="%s"/>
<defs>
<style>
.event-label { font-family: %s; font-size: %dpx; fill: %s; text-anchor: middle; }
.clock { font-family: %s; font-size: %dpx; fill: %s; text-anchor: middle; }
</style>
</defs>
`, num(width), num(height), num(width), num(height), escapeXML(options.Background),
		escapeXML(options.FontFamily), options.FontSize, escapeXML(options.TextColor),
		escapeXML(options.FontFamily), options.ClockFontSize, escapeXML(options.TextColor)))

	svg.WriteString(fmt.Sprintf(`<circle cx="%s" cy="%s" r="%s" fill="none" stroke="%s" stroke-width="%s"/>`+"\n",
		num(geometry.CenterX), num(geometry.CenterY), num(geometry.Radius),
		escapeXML(options.ArcStroke), num(options.ArcWidth)))

	for _, node := range snapshot.VisibleNodes() {
		drawNode(&svg, node, snapshot, options)
	}

	if options.ShowClock {
		svg.WriteString(fmt.Sprintf(`<text class="clock" x="%s" y="%s">%s</text>`+"\n",
			num(width/2), num(height/2), escapeXML(snapshot.Clock.String())))
	}

	svg.WriteString("</svg>")
	return svg.String()
}

func drawNode(svg *strings.Builder, node timeline.ProjectedNode, snapshot timeline.Snapshot, options Options) {
	svg.WriteString(fmt.Sprintf(`<g data-key="%s">`+"\n", escapeXML(node.Key)))

	svg.WriteString(fmt.Sprintf(`<circle cx="%s" cy="%s" r="%s" fill="%s" stroke="%s" stroke-width="2"/>`+"\n",
		num(node.CX), num(node.CY), num(snapshot.NodeRadius), escapeXML(options.Background), node.Color.String()))

	if node.ShouldDrawInnerDot {
		svg.WriteString(fmt.Sprintf(`<circle cx="%s" cy="%s" r="%s" fill="%s"/>`+"\n",
			num(node.CX), num(node.CY), num(snapshot.InnerDotRadius), node.InnerDotColor.String()))
	}

	if connector := node.Label.Connector; connector != nil {
		svg.WriteString(fmt.Sprintf(`<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="1"/>`+"\n",
			num(connector.X1), num(connector.Y1), num(connector.X2), num(connector.Y2), escapeXML(options.ConnectorLine)))
	}

	svg.WriteString(fmt.Sprintf(`<text class="event-label" x="%s" y="%s" dominant-baseline="%s" transform="rotate(%s %s %s)">`,
		num(node.Label.X), num(node.Label.Y), node.Label.Baseline,
		num(node.Label.RotationDegrees), num(node.Label.X), num(node.Label.Y)))
	for i, line := range node.Label.Lines {
		dy := "0"
		if i > 0 {
			dy = "1.1em"
		}
		svg.WriteString(fmt.Sprintf(`<tspan x="%s" dy="%s">%s</tspan>`, num(node.Label.X), dy, escapeXML(line)))
	}
	svg.WriteString("</text>\n</g>\n")
}

func num(value float64) string {
	return fmt.Sprintf("%.2f", value)
}

func escapeXML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, "\"", "&quot;")
	s = strings.ReplaceAll(s, "'", "&apos;")
	return s
}
