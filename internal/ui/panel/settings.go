package panel

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"launcharc/internal/core/model"
)

// Settings defines the profile values editable from the panel.
type Settings struct {
	CountdownSeconds       float64
	MissionDurationSeconds float64
	Layout                 model.Layout
	Density                model.DensityProfile
}

// SettingsFromProfile extracts the editable values of a profile.
func SettingsFromProfile(profile model.MissionProfile) Settings {
	return Settings{
		CountdownSeconds:       profile.CountdownSeconds,
		MissionDurationSeconds: profile.MissionDurationSeconds,
		Layout:                 profile.Layout,
		Density:                profile.Density,
	}
}

// Apply writes the settings into profile.
func (settings Settings) Apply(profile model.MissionProfile) model.MissionProfile {
	profile.CountdownSeconds = settings.CountdownSeconds
	profile.MissionDurationSeconds = settings.MissionDurationSeconds
	profile.Layout = settings.Layout
	profile.Density = settings.Density
	return profile
}

// Form holds the raw text of every settings field.
type Form struct {
	Countdown          string
	MissionDuration    string
	Layout             string
	AverageFactor      string
	PastFactor         string
	FutureFactor       string
	TransitionStart    string
	TransitionDuration string
}

// FormFromSettings renders settings as form text.
func FormFromSettings(settings Settings) Form {
	return Form{
		Countdown:          formatNumber(settings.CountdownSeconds),
		MissionDuration:    formatNumber(settings.MissionDurationSeconds),
		Layout:             string(settings.Layout),
		AverageFactor:      formatNumber(settings.Density.AverageFactor),
		PastFactor:         formatNumber(settings.Density.PastFactor),
		FutureFactor:       formatNumber(settings.Density.FutureFactor),
		TransitionStart:    formatNumber(settings.Density.TransitionStartOffset),
		TransitionDuration: formatNumber(settings.Density.TransitionDurationSeconds),
	}
}

// Merge parses form over base. Fields that do not parse keep the base value.
func (form Form) Merge(base Settings) Settings {
	settings := base

	if seconds, ok := parseNonNegative(form.Countdown); ok {
		settings.CountdownSeconds = seconds
	}
	if seconds, ok := parsePositive(form.MissionDuration); ok {
		settings.MissionDurationSeconds = seconds
	}
	if layout := model.Layout(strings.TrimSpace(form.Layout)); layout != "" {
		if _, ok := layout.AngularSpan(); ok {
			settings.Layout = layout
		}
	}
	if factor, ok := parsePositive(form.AverageFactor); ok {
		settings.Density.AverageFactor = factor
	}
	if factor, ok := parsePositive(form.PastFactor); ok {
		settings.Density.PastFactor = factor
	}
	if factor, ok := parsePositive(form.FutureFactor); ok {
		settings.Density.FutureFactor = factor
	}
	if offset, ok := parseFinite(form.TransitionStart); ok {
		settings.Density.TransitionStartOffset = offset
	}
	if seconds, ok := parseNonNegative(form.TransitionDuration); ok {
		settings.Density.TransitionDurationSeconds = seconds
	}
	return settings
}

// eventRow is the list text of one event.
func eventRow(index int, event model.MissionEvent) string {
	sign := "+"
	if event.TimestampSeconds < 0 {
		sign = "-"
	}
	return fmt.Sprintf("T%s%s  %s", sign, formatNumber(math.Abs(event.TimestampSeconds)), event.DisplayName(index))
}

func formatNumber(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

func parseFinite(value string) (float64, bool) {
	parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
		return 0, false
	}
	return parsed, true
}

func parsePositive(value string) (float64, bool) {
	parsed, ok := parseFinite(value)
	if !ok || parsed <= 0 {
		return 0, false
	}
	return parsed, true
}

func parseNonNegative(value string) (float64, bool) {
	parsed, ok := parseFinite(value)
	if !ok || parsed < 0 {
		return 0, false
	}
	return parsed, true
}
