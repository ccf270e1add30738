package resources

import (
	"embed"
	"fmt"
	"sync"

	"fyne.io/fyne/v2"

	"launcharc/internal/core/model"
	"launcharc/internal/storage"
)

const (
	iconDir            = "icon/"
	defaultProfileFile = "default_profile.yaml"
)

//go:embed icon/*.svg
var iconFS embed.FS

//go:embed default_profile.yaml
var defaultProfileYAML []byte

var iconCache sync.Map

// Icon returns a Fyne resource for the given icon file.
func Icon(fileName string) (fyne.Resource, error) {
	return loadResource(iconFS, iconDir+fileName, &iconCache)
}

// MustIcon returns a Fyne resource or panics on error.
func MustIcon(fileName string) fyne.Resource {
	resource, err := Icon(fileName)
	if err != nil {
		panic(err)
	}
	return resource
}

// AppIcon is the application and tray icon.
func AppIcon() fyne.Resource {
	return MustIcon("launcharc.svg")
}

// DefaultProfile decodes the embedded stock mission profile.
func DefaultProfile() (model.MissionProfile, error) {
	profile, err := storage.DecodeProfile(defaultProfileYAML)
	if err != nil {
		return model.MissionProfile{}, fmt.Errorf("load resource %s: %w", defaultProfileFile, err)
	}
	return profile, nil
}

// MustDefaultProfile returns the embedded profile or panics on error.
func MustDefaultProfile() model.MissionProfile {
	profile, err := DefaultProfile()
	if err != nil {
		panic(err)
	}
	return profile
}

// DefaultProfileYAML returns a copy of the embedded profile document.
func DefaultProfileYAML() []byte {
	return append([]byte(nil), defaultProfileYAML...)
}

func loadResource(fs embed.FS, path string, cache *sync.Map) (fyne.Resource, error) {
	if cached, ok := cache.Load(path); ok {
		return cached.(fyne.Resource), nil
	}

	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load resource %s: %w", path, err)
	}

	resource := fyne.NewStaticResource(path, data)
	cache.Store(path, resource)
	return resource, nil
}
