package storage

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"launcharc/internal/core/countdown"
	"launcharc/internal/core/model"
	"launcharc/internal/core/timeline"
)

const profileFileName = "profile.yaml"

// ErrMalformedProfile is returned when imported profile data cannot be used.
var ErrMalformedProfile = errors.New("malformed mission profile")

type yamlEvent struct {
	T    float64 `yaml:"t"`
	Name string  `yaml:"name"`
}

type yamlDensity struct {
	AverageFactor             *float64 `yaml:"average_factor,omitempty"`
	PastFactor                *float64 `yaml:"past_factor,omitempty"`
	FutureFactor              *float64 `yaml:"future_factor,omitempty"`
	TransitionStartOffset     *float64 `yaml:"transition_start_offset,omitempty"`
	TransitionDurationSeconds *float64 `yaml:"transition_duration_seconds,omitempty"`
}

type yamlProfile struct {
	MissionName            string      `yaml:"mission_name"`
	Vehicle                string      `yaml:"vehicle"`
	MissionDurationSeconds *float64    `yaml:"mission_duration_seconds,omitempty"`
	CountdownSeconds       *float64    `yaml:"countdown_seconds,omitempty"`
	Layout                 string      `yaml:"layout"`
	Density                yamlDensity `yaml:"density"`
	Events                 []yamlEvent `yaml:"events"`
}

// LoadProfile reads the saved mission profile for appName.
// If the file does not exist, the default profile is returned.
func LoadProfile(appName string) (model.MissionProfile, error) {
	profilePath, err := ProfilePath(appName)
	if err != nil {
		return model.DefaultProfile(), err
	}
	return LoadProfileFile(profilePath)
}

// LoadProfileFile reads a profile from path. Fields that fail validation keep
// their default values.
func LoadProfileFile(profilePath string) (model.MissionProfile, error) {
	profile := model.DefaultProfile()

	rawData, err := os.ReadFile(profilePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return profile, nil
		}
		return profile, fmt.Errorf("read profile file: %w", err)
	}

	var fileData yamlProfile
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return profile, fmt.Errorf("parse profile yaml: %w", err)
	}

	applyYamlProfile(&profile, fileData)
	return profile, nil
}

// SaveProfile writes the mission profile for appName.
func SaveProfile(appName string, profile model.MissionProfile) error {
	profilePath, err := ProfilePath(appName)
	if err != nil {
		return err
	}
	return SaveProfileFile(profilePath, profile)
}

// SaveProfileFile writes the mission profile to path, creating parent directories.
func SaveProfileFile(profilePath string, profile model.MissionProfile) error {
	if err := os.MkdirAll(filepath.Dir(profilePath), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	serialized, err := EncodeProfile(profile)
	if err != nil {
		return err
	}

	if err := os.WriteFile(profilePath, serialized, 0o644); err != nil {
		return fmt.Errorf("write profile file: %w", err)
	}
	return nil
}

// ProfilePath is where the profile for appName lives.
func ProfilePath(appName string) (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, appName, profileFileName), nil
}

// ImportProfile decodes a profile from r. Unlike LoadProfile, nothing is
// defaulted silently: anything unusable is rejected with ErrMalformedProfile.
func ImportProfile(r io.Reader) (model.MissionProfile, error) {
	rawData, err := io.ReadAll(r)
	if err != nil {
		return model.MissionProfile{}, fmt.Errorf("read profile: %w", err)
	}
	return DecodeProfile(rawData)
}

// DecodeProfile is ImportProfile for data already in memory.
func DecodeProfile(rawData []byte) (model.MissionProfile, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(rawData))
	decoder.KnownFields(true)

	var fileData yamlProfile
	if err := decoder.Decode(&fileData); err != nil {
		if errors.Is(err, io.EOF) {
			return model.MissionProfile{}, fmt.Errorf("%w: empty document", ErrMalformedProfile)
		}
		return model.MissionProfile{}, fmt.Errorf("%w: %w", ErrMalformedProfile, err)
	}

	profile := model.DefaultProfile()
	profile.Events = make([]model.MissionEvent, 0, len(fileData.Events))
	for _, event := range fileData.Events {
		profile.Events = append(profile.Events, model.MissionEvent{TimestampSeconds: event.T, Name: event.Name})
	}

	if fileData.MissionName != "" {
		profile.MissionName = fileData.MissionName
	}
	if fileData.Vehicle != "" {
		profile.Vehicle = fileData.Vehicle
	}
	if fileData.Layout != "" {
		profile.Layout = model.Layout(fileData.Layout)
	}

	profile.MissionDurationSeconds = model.DefaultMissionDuration(profile.Events)
	if fileData.MissionDurationSeconds != nil {
		profile.MissionDurationSeconds = *fileData.MissionDurationSeconds
	}
	profile.CountdownSeconds = model.DefaultCountdown(profile.Events)
	if fileData.CountdownSeconds != nil {
		if !validCountdown(*fileData.CountdownSeconds) {
			return model.MissionProfile{}, fmt.Errorf("%w: countdown %v", ErrMalformedProfile, *fileData.CountdownSeconds)
		}
		profile.CountdownSeconds = *fileData.CountdownSeconds
	}
	density, err := decodeYamlDensity(profile.Density, fileData.Density)
	if err != nil {
		return model.MissionProfile{}, fmt.Errorf("%w: %w", ErrMalformedProfile, err)
	}
	profile.Density = density

	if err := timeline.ValidateProfile(profile); err != nil {
		return model.MissionProfile{}, fmt.Errorf("%w: %w", ErrMalformedProfile, err)
	}
	return profile, nil
}

// ExportProfile writes profile to w as YAML.
func ExportProfile(w io.Writer, profile model.MissionProfile) error {
	serialized, err := EncodeProfile(profile)
	if err != nil {
		return err
	}
	if _, err := w.Write(serialized); err != nil {
		return fmt.Errorf("write profile: %w", err)
	}
	return nil
}

// EncodeProfile serializes profile to YAML.
func EncodeProfile(profile model.MissionProfile) ([]byte, error) {
	duration := profile.MissionDurationSeconds
	countdownSeconds := profile.CountdownSeconds
	averageFactor := profile.Density.AverageFactor
	pastFactor := profile.Density.PastFactor
	futureFactor := profile.Density.FutureFactor
	transitionStart := profile.Density.TransitionStartOffset
	transitionDuration := profile.Density.TransitionDurationSeconds

	fileData := yamlProfile{
		MissionName:            profile.MissionName,
		Vehicle:                profile.Vehicle,
		MissionDurationSeconds: &duration,
		CountdownSeconds:       &countdownSeconds,
		Layout:                 string(profile.Layout),
		Density: yamlDensity{
			AverageFactor:             &averageFactor,
			PastFactor:                &pastFactor,
			FutureFactor:              &futureFactor,
			TransitionStartOffset:     &transitionStart,
			TransitionDurationSeconds: &transitionDuration,
		},
		Events: make([]yamlEvent, 0, len(profile.Events)),
	}
	for _, event := range profile.Events {
		fileData.Events = append(fileData.Events, yamlEvent{T: event.TimestampSeconds, Name: event.Name})
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return nil, fmt.Errorf("marshal profile yaml: %w", err)
	}
	return serialized, nil
}

func applyYamlProfile(profile *model.MissionProfile, fileData yamlProfile) {
	if fileData.MissionName != "" {
		profile.MissionName = fileData.MissionName
	}
	if fileData.Vehicle != "" {
		profile.Vehicle = fileData.Vehicle
	}

	if events, ok := convertEvents(fileData.Events); ok {
		profile.Events = events
		profile.MissionDurationSeconds = model.DefaultMissionDuration(events)
		profile.CountdownSeconds = model.DefaultCountdown(events)
	}

	if fileData.MissionDurationSeconds != nil && *fileData.MissionDurationSeconds > 0 && !math.IsInf(*fileData.MissionDurationSeconds, 0) {
		profile.MissionDurationSeconds = *fileData.MissionDurationSeconds
	}
	if fileData.CountdownSeconds != nil && validCountdown(*fileData.CountdownSeconds) {
		profile.CountdownSeconds = *fileData.CountdownSeconds
	}
	if _, ok := model.Layout(fileData.Layout).AngularSpan(); ok {
		profile.Layout = model.Layout(fileData.Layout)
	}
	applyYamlDensity(&profile.Density, fileData.Density)
}

func applyYamlDensity(density *model.DensityProfile, fileData yamlDensity) {
	if factor := fileData.AverageFactor; factor != nil && positiveFinite(*factor) {
		density.AverageFactor = *factor
	}
	if factor := fileData.PastFactor; factor != nil && positiveFinite(*factor) {
		density.PastFactor = *factor
	}
	if factor := fileData.FutureFactor; factor != nil && positiveFinite(*factor) {
		density.FutureFactor = *factor
	}
	if start := fileData.TransitionStartOffset; start != nil && !math.IsNaN(*start) && !math.IsInf(*start, 0) {
		density.TransitionStartOffset = *start
	}
	if duration := fileData.TransitionDurationSeconds; duration != nil && *duration >= 0 && !math.IsInf(*duration, 0) {
		density.TransitionDurationSeconds = *duration
	}
}

// decodeYamlDensity overlays the fields present in fileData on base and
// rejects the result if any of them is unusable.
func decodeYamlDensity(base model.DensityProfile, fileData yamlDensity) (model.DensityProfile, error) {
	density := base
	overlay := []struct {
		value  *float64
		target *float64
	}{
		{fileData.AverageFactor, &density.AverageFactor},
		{fileData.PastFactor, &density.PastFactor},
		{fileData.FutureFactor, &density.FutureFactor},
		{fileData.TransitionStartOffset, &density.TransitionStartOffset},
		{fileData.TransitionDurationSeconds, &density.TransitionDurationSeconds},
	}
	for _, field := range overlay {
		if field.value != nil {
			*field.target = *field.value
		}
	}
	if err := timeline.ValidateDensity(density); err != nil {
		return model.DensityProfile{}, err
	}
	return density, nil
}

func convertEvents(fileEvents []yamlEvent) ([]model.MissionEvent, bool) {
	if len(fileEvents) == 0 {
		return nil, false
	}
	events := make([]model.MissionEvent, 0, len(fileEvents))
	for _, event := range fileEvents {
		if math.IsNaN(event.T) || math.IsInf(event.T, 0) {
			return nil, false
		}
		events = append(events, model.MissionEvent{TimestampSeconds: event.T, Name: event.Name})
	}
	return events, true
}

func validCountdown(seconds float64) bool {
	return seconds >= 0 && seconds <= countdown.MaxOffsetSeconds
}

func positiveFinite(value float64) bool {
	return value > 0 && !math.IsInf(value, 0)
}
