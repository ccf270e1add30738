package projector

import (
	"fmt"
	"math"

	"launcharc/internal/core/model"
)

// Config holds the tuning constants of a projection.
type Config struct {
	MissionDurationSeconds float64
	// AngularSpan is the sweep in radians covered by half a mission duration.
	AngularSpan float64
	Density     model.DensityProfile
	// FilterViewWindow drops events more than half a mission duration from now.
	FilterViewWindow bool
	NodeRadius       float64
	InnerDotRadius   float64
	Label            LabelConfig
}

// DefaultConfig projects a one hour mission onto a half-circle layout.
func DefaultConfig() Config {
	span, _ := model.LayoutHalf.AngularSpan()
	return Config{
		MissionDurationSeconds: 3600,
		AngularSpan:            span,
		Density: model.DensityProfile{
			AverageFactor: 1,
			PastFactor:    1,
			FutureFactor:  1,
		},
		FilterViewWindow: true,
		NodeRadius:       6,
		InnerDotRadius:   2,
		Label:            LabelConfig{TextOffset: 18, ConnectorGap: 7},
	}
}

// ForProfile returns a copy of config carrying the profile's mission duration,
// angular span and density. Radii, labels and filtering stay as configured.
func (config Config) ForProfile(profile model.MissionProfile) Config {
	config.MissionDurationSeconds = profile.MissionDurationSeconds
	config.AngularSpan = profile.AngularSpan()
	config.Density = profile.Density
	return config
}

// Placement is the projected position of one event.
type Placement struct {
	// Index is the event's position in the source list, kept across filtering.
	Index            int     `json:"index"`
	Key              string  `json:"key"`
	Name             string  `json:"name"`
	TimestampSeconds float64 `json:"timestamp_seconds"`
	// RelativeSeconds is the event time minus the current offset.
	RelativeSeconds float64 `json:"relative_seconds"`
	AngleRadians    float64 `json:"angle_radians"`
	CX              float64 `json:"cx"`
	CY              float64 `json:"cy"`
	Visible         bool    `json:"visible"`
	Past            bool    `json:"past"`
	Label           Label   `json:"label"`
}

// Angle maps a timestamp to radians given the current offset. "Now" is always -π/2.
func Angle(timestampSeconds, offsetSeconds float64, scale Scale, missionDurationSeconds, angularSpan float64) float64 {
	virtualDelta := scale.Map(timestampSeconds) - scale.Map(offsetSeconds)
	return virtualDelta/(missionDurationSeconds/2)*angularSpan - math.Pi/2
}

// Project places every event around the arc for the given offset. A
// non-positive mission duration yields no placements.
func Project(offsetSeconds float64, events []model.MissionEvent, config Config, geometry model.GeometryDescriptor) []Placement {
	if config.MissionDurationSeconds <= 0 || math.IsNaN(config.MissionDurationSeconds) {
		return nil
	}

	half := config.MissionDurationSeconds / 2
	windowStart, windowEnd := offsetSeconds-half, offsetSeconds+half
	scale := BlendScale(offsetSeconds, config.Density)

	placements := make([]Placement, 0, len(events))
	for index, event := range events {
		timestamp := event.TimestampSeconds
		if config.FilterViewWindow && (timestamp < windowStart || timestamp > windowEnd) {
			continue
		}

		angle := Angle(timestamp, offsetSeconds, scale, config.MissionDurationSeconds, config.AngularSpan)
		cx := geometry.CenterX + geometry.Radius*math.Cos(angle)
		cy := geometry.CenterY + geometry.Radius*math.Sin(angle)
		name := event.DisplayName(index)

		placements = append(placements, Placement{
			Index:            index,
			Key:              fmt.Sprintf("%g-%s", timestamp, name),
			Name:             name,
			TimestampSeconds: timestamp,
			RelativeSeconds:  timestamp - offsetSeconds,
			AngleRadians:     angle,
			CX:               cx,
			CY:               cy,
			Visible:          cy >= -config.NodeRadius && cy <= geometry.ViewHeight+config.NodeRadius,
			Past:             timestamp-offsetSeconds <= 0,
			Label:            placeLabel(name, index, cx, cy, angle, config.NodeRadius, config.Label),
		})
	}
	return placements
}
