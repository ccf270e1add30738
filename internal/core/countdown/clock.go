package countdown

import (
	"fmt"
	"math"
)

// ClockDisplay is the formatted mission clock.
type ClockDisplay struct {
	Sign string `json:"sign"`
	Time string `json:"time"`
}

// Positive reports whether the clock reads T-plus.
func (display ClockDisplay) Positive() bool {
	return display.Sign == "+"
}

// String renders the clock as "T - HH:MM:SS".
func (display ClockDisplay) String() string {
	return fmt.Sprintf("T %s %s", display.Sign, display.Time)
}

// FormatClock renders an offset as a signed HH:MM:SS magnitude.
// Negative offsets round the magnitude up so the clock never reads T-00:00:00
// early; non-negative offsets round down so T+00:00:00 shows the instant T-0 passes.
func FormatClock(offsetSeconds float64) ClockDisplay {
	sign := "+"
	magnitude := math.Floor(math.Abs(offsetSeconds))
	if offsetSeconds < 0 {
		sign = "-"
		magnitude = math.Ceil(math.Abs(offsetSeconds))
	}
	if math.IsNaN(magnitude) {
		magnitude = 0
	}
	magnitude = math.Min(magnitude, math.Ceil(MaxOffsetSeconds))

	total := int64(magnitude)
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60
	return ClockDisplay{
		Sign: sign,
		Time: fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds),
	}
}
