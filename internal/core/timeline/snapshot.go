package timeline

import "launcharc/internal/core/countdown"

// Snapshot is everything a renderer needs for one frame.
type Snapshot struct {
	OffsetSeconds float64                `json:"offset_seconds"`
	Mode          countdown.Mode         `json:"mode"`
	Clock         countdown.ClockDisplay `json:"clock"`
	IsTPlus       bool                   `json:"is_t_plus"`

	MissionName            string  `json:"mission_name"`
	Vehicle                string  `json:"vehicle"`
	MissionDurationSeconds float64 `json:"mission_duration_seconds"`
	EventCount             int     `json:"event_count"`

	NodeRadius     float64         `json:"node_radius"`
	InnerDotRadius float64         `json:"inner_dot_radius"`
	Nodes          []ProjectedNode `json:"nodes"`
}

// VisibleNodes returns the nodes that fall inside the view.
func (snapshot Snapshot) VisibleNodes() []ProjectedNode {
	visible := make([]ProjectedNode, 0, len(snapshot.Nodes))
	for _, node := range snapshot.Nodes {
		if node.Visible {
			visible = append(visible, node)
		}
	}
	return visible
}
