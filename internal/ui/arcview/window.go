package arcview

import (
	"image/color"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"

	"launcharc/internal/core/model"
	"launcharc/internal/core/projector"
	"launcharc/internal/core/timeline"
)

// Config defines the arc window.
type Config struct {
	Title             string
	Width             float32
	Height            float32
	ExposedArcDegrees float64
	ClockTextSize     float32
	Style             Style
}

// DefaultConfig is a 1280x260 strip exposing 64 degrees of arc.
func DefaultConfig() Config {
	return Config{
		Title:             "launcharc",
		Width:             1280,
		Height:            260,
		ExposedArcDegrees: 64,
		ClockTextSize:     28,
		Style:             DefaultStyle(),
	}
}

// Window shows the timeline arc and the mission clock.
type Window struct {
	window     fyne.Window
	config     Config
	scene      *fyne.Container
	background *canvas.Rectangle
	clock      *canvas.Text
	mission    *canvas.Text

	mu       sync.Mutex
	geometry model.GeometryDescriptor
	onResize func(model.GeometryDescriptor)
}

// New creates the arc window.
func New(app fyne.App, config Config) *Window {
	window := app.NewWindow(config.Title)
	if app.Icon() != nil {
		window.SetIcon(app.Icon())
	}
	window.SetPadded(false)

	background := canvas.NewRectangle(config.Style.Background)
	scene := container.NewWithoutLayout()

	clock := canvas.NewText("T - 00:00:00", color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	clock.Alignment = fyne.TextAlignCenter
	clock.TextStyle = fyne.TextStyle{Bold: true, Monospace: true}
	clock.TextSize = config.ClockTextSize

	mission := canvas.NewText("", color.NRGBA{R: 255, G: 255, B: 255, A: 180})
	mission.Alignment = fyne.TextAlignCenter
	mission.TextSize = config.ClockTextSize / 2

	view := &Window{
		window:     window,
		config:     config,
		scene:      scene,
		background: background,
		clock:      clock,
		mission:    mission,
		geometry:   projector.NewGeometry(float64(config.Width), float64(config.Height), config.ExposedArcDegrees),
	}

	root := container.New(&arcLayout{view: view}, background, scene, mission, clock)
	window.SetContent(root)
	window.Resize(fyne.NewSize(config.Width, config.Height))
	return view
}

// Geometry returns the geometry matching the current window size.
func (view *Window) Geometry() model.GeometryDescriptor {
	view.mu.Lock()
	defer view.mu.Unlock()
	return view.geometry
}

// SetOnResize is called with a new geometry whenever the window size changes.
func (view *Window) SetOnResize(handler func(model.GeometryDescriptor)) {
	view.mu.Lock()
	defer view.mu.Unlock()
	view.onResize = handler
}

// SetOnClose sets the handler for the window close button.
func (view *Window) SetOnClose(handler func()) {
	view.window.SetCloseIntercept(handler)
}

// Show displays the window.
func (view *Window) Show() {
	view.window.Show()
}

// Render draws a snapshot. It may be called from any goroutine.
func (view *Window) Render(snapshot timeline.Snapshot) {
	geometry := view.Geometry()
	fyne.Do(func() {
		view.scene.Objects = buildScene(snapshot, geometry, view.config.Style)
		view.scene.Refresh()

		view.clock.Text = snapshot.Clock.String()
		view.clock.Refresh()
		view.mission.Text = missionLine(snapshot)
		view.mission.Refresh()
	})
}

func (view *Window) resize(size fyne.Size) {
	geometry := projector.NewGeometry(float64(size.Width), float64(size.Height), view.config.ExposedArcDegrees)

	view.mu.Lock()
	changed := geometry != view.geometry
	view.geometry = geometry
	handler := view.onResize
	view.mu.Unlock()

	if changed && handler != nil {
		handler(geometry)
	}
}

func missionLine(snapshot timeline.Snapshot) string {
	switch {
	case snapshot.MissionName != "" && snapshot.Vehicle != "":
		return snapshot.MissionName + " · " + snapshot.Vehicle
	default:
		return snapshot.MissionName + snapshot.Vehicle
	}
}

// arcLayout fills the window with the background and scene and keeps the
// clock centred near the bottom.
type arcLayout struct {
	view *Window
}

func (layout *arcLayout) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	if len(objects) < 4 {
		return
	}
	background, scene, mission, clock := objects[0], objects[1], objects[2], objects[3]

	background.Move(fyne.NewPos(0, 0))
	background.Resize(size)
	scene.Move(fyne.NewPos(0, 0))
	scene.Resize(size)

	clockSize := clock.MinSize()
	missionSize := mission.MinSize()
	clockY := size.Height - clockSize.Height - size.Height*0.05
	if clockY < 0 {
		clockY = 0
	}
	clock.Move(fyne.NewPos(0, clockY))
	clock.Resize(fyne.NewSize(size.Width, clockSize.Height))

	missionY := clockY - missionSize.Height
	if missionY < 0 {
		missionY = 0
	}
	mission.Move(fyne.NewPos(0, missionY))
	mission.Resize(fyne.NewSize(size.Width, missionSize.Height))

	layout.view.resize(size)
}

func (layout *arcLayout) MinSize(objects []fyne.CanvasObject) fyne.Size {
	if len(objects) < 4 {
		return fyne.NewSize(0, 0)
	}
	clockSize := objects[3].MinSize()
	missionSize := objects[2].MinSize()
	width := clockSize.Width
	if missionSize.Width > width {
		width = missionSize.Width
	}
	return fyne.NewSize(width, clockSize.Height+missionSize.Height)
}
