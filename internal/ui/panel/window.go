package panel

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog/log"

	"launcharc/internal/core/model"
	"launcharc/internal/core/timeline"
)

// Controller is the engine surface the panel edits.
type Controller interface {
	Toggle() error
	Reset() error
	JumpTo(raw string) error
	AddEvent(name string) int
	RemoveEvent(index int) error
	RenameEvent(index int, name string) error
	SetEventTime(index int, timestampSeconds float64) error
	Events() []model.MissionEvent
	Profile() model.MissionProfile
	SetCountdown(seconds float64) error
	SetMissionDuration(seconds float64) error
	SetDensity(density model.DensityProfile) error
	SetLayout(layout model.Layout) error
}

// Window handles the control panel UI.
type Window struct {
	window     fyne.Window
	controller Controller
	settings   Settings
	onSave     func(model.MissionProfile)
	onChange   func()

	countdown          *widget.Entry
	missionDuration    *widget.Entry
	layoutSelect       *widget.Select
	averageFactor      *widget.Entry
	pastFactor         *widget.Entry
	futureFactor       *widget.Entry
	transitionStart    *widget.Entry
	transitionDuration *widget.Entry

	jumpEntry *widget.Entry

	events    []model.MissionEvent
	eventList *widget.List
	selected  int
	eventName *widget.Entry
	eventTime *widget.Entry

	status *widget.Label
}

// New creates the control panel. onSave receives the profile after each save;
// onChange runs after every edit so an idle view can redraw.
func New(app fyne.App, controller Controller, onSave func(model.MissionProfile), onChange func()) *Window {
	window := app.NewWindow("launcharc control panel")

	panel := &Window{
		window:             window,
		controller:         controller,
		onSave:             onSave,
		onChange:           onChange,
		countdown:          widget.NewEntry(),
		missionDuration:    widget.NewEntry(),
		layoutSelect:       widget.NewSelect([]string{string(model.LayoutHalf), string(model.LayoutFull)}, nil),
		averageFactor:      widget.NewEntry(),
		pastFactor:         widget.NewEntry(),
		futureFactor:       widget.NewEntry(),
		transitionStart:    widget.NewEntry(),
		transitionDuration: widget.NewEntry(),
		jumpEntry:          widget.NewEntry(),
		selected:           -1,
		eventName:          widget.NewEntry(),
		eventTime:          widget.NewEntry(),
		status:             widget.NewLabel(""),
	}
	panel.jumpEntry.SetPlaceHolder("seconds, e.g. -10")
	panel.eventName.SetPlaceHolder("name")
	panel.eventTime.SetPlaceHolder("T offset (s)")

	panel.eventList = widget.NewList(
		func() int { return len(panel.events) },
		func() fyne.CanvasObject { return widget.NewLabel("T+0000  EVENT NAME") },
		func(id widget.ListItemID, item fyne.CanvasObject) {
			item.(*widget.Label).SetText(eventRow(id, panel.events[id]))
		},
	)
	panel.eventList.OnSelected = panel.handleSelect

	launchButton := widget.NewButton("Launch / Pause", panel.handleToggle)
	resetButton := widget.NewButton("Reset", panel.handleReset)
	jumpButton := widget.NewButton("Jump", panel.handleJump)
	panel.jumpEntry.OnSubmitted = func(string) { panel.handleJump() }

	addButton := widget.NewButton("Add", panel.handleAdd)
	applyButton := widget.NewButton("Apply", panel.handleApplyEvent)
	removeButton := widget.NewButton("Remove", panel.handleRemove)

	saveButton := widget.NewButton("Save", panel.handleSave)
	closeButton := widget.NewButton("Close", window.Hide)

	clockForm := container.NewVBox(
		widget.NewLabelWithStyle("Clock", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(launchButton, resetButton),
		container.NewBorder(nil, nil, widget.NewLabel("Jump to T"), jumpButton, panel.jumpEntry),
	)

	settingsForm := widget.NewForm(
		widget.NewFormItem("Countdown (s)", panel.countdown),
		widget.NewFormItem("Mission duration (s)", panel.missionDuration),
		widget.NewFormItem("Layout", panel.layoutSelect),
		widget.NewFormItem("Average density", panel.averageFactor),
		widget.NewFormItem("Past density", panel.pastFactor),
		widget.NewFormItem("Future density", panel.futureFactor),
		widget.NewFormItem("Transition start (s)", panel.transitionStart),
		widget.NewFormItem("Transition length (s)", panel.transitionDuration),
	)

	eventEditor := container.NewVBox(
		widget.NewLabelWithStyle("Events", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewGridWithColumns(2, panel.eventName, panel.eventTime),
		container.NewHBox(addButton, applyButton, removeButton),
	)

	left := container.NewVBox(clockForm, widget.NewSeparator(),
		widget.NewLabelWithStyle("Mission", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}), settingsForm)
	right := container.NewBorder(eventEditor, nil, nil, nil, panel.eventList)
	buttons := container.NewHBox(panel.status, layout.NewSpacer(), saveButton, closeButton)

	window.SetContent(container.NewBorder(nil, buttons, nil, nil, container.NewGridWithColumns(2, left, right)))
	window.Resize(fyne.NewSize(760, 520))
	window.SetCloseIntercept(window.Hide)

	panel.Reload()
	return panel
}

// Show displays the control panel.
func (panel *Window) Show() {
	panel.Reload()
	panel.window.Show()
	panel.window.RequestFocus()
}

// Reload refreshes every field from the controller.
func (panel *Window) Reload() {
	panel.settings = SettingsFromProfile(panel.controller.Profile())
	form := FormFromSettings(panel.settings)
	panel.countdown.SetText(form.Countdown)
	panel.missionDuration.SetText(form.MissionDuration)
	panel.layoutSelect.SetSelected(form.Layout)
	panel.averageFactor.SetText(form.AverageFactor)
	panel.pastFactor.SetText(form.PastFactor)
	panel.futureFactor.SetText(form.FutureFactor)
	panel.transitionStart.SetText(form.TransitionStart)
	panel.transitionDuration.SetText(form.TransitionDuration)
	panel.reloadEvents()
}

func (panel *Window) reloadEvents() {
	panel.events = panel.controller.Events()
	if panel.selected >= len(panel.events) {
		panel.selected = -1
		panel.eventList.UnselectAll()
	}
	panel.eventList.Refresh()
}

func (panel *Window) form() Form {
	return Form{
		Countdown:          panel.countdown.Text,
		MissionDuration:    panel.missionDuration.Text,
		Layout:             panel.layoutSelect.Selected,
		AverageFactor:      panel.averageFactor.Text,
		PastFactor:         panel.pastFactor.Text,
		FutureFactor:       panel.futureFactor.Text,
		TransitionStart:    panel.transitionStart.Text,
		TransitionDuration: panel.transitionDuration.Text,
	}
}

func (panel *Window) handleToggle() {
	panel.report(panel.controller.Toggle(), "")
}

func (panel *Window) handleReset() {
	panel.report(panel.controller.Reset(), "Clock reset")
}

func (panel *Window) handleJump() {
	panel.report(panel.controller.JumpTo(panel.jumpEntry.Text), "Jumped to T"+panel.jumpEntry.Text)
}

func (panel *Window) handleSelect(id widget.ListItemID) {
	if id < 0 || id >= len(panel.events) {
		return
	}
	panel.selected = id
	panel.eventName.SetText(panel.events[id].Name)
	panel.eventTime.SetText(formatNumber(panel.events[id].TimestampSeconds))
}

func (panel *Window) handleAdd() {
	index := panel.controller.AddEvent(panel.eventName.Text)
	panel.reloadEvents()
	panel.eventList.Select(index)
	panel.report(nil, "Event added")
}

func (panel *Window) handleApplyEvent() {
	if panel.selected < 0 {
		panel.report(nil, "Select an event first")
		return
	}
	seconds, ok := parseFinite(panel.eventTime.Text)
	if !ok {
		panel.report(fmt.Errorf("%w: %q", timeline.ErrInvalidEventTime, panel.eventTime.Text), "")
		return
	}
	if err := panel.controller.RenameEvent(panel.selected, panel.eventName.Text); err != nil {
		panel.report(err, "")
		return
	}
	if err := panel.controller.SetEventTime(panel.selected, seconds); err != nil {
		panel.report(err, "")
		return
	}
	panel.reloadEvents()
	panel.report(nil, "Event updated")
}

func (panel *Window) handleRemove() {
	if panel.selected < 0 {
		panel.report(nil, "Select an event first")
		return
	}
	err := panel.controller.RemoveEvent(panel.selected)
	if err == nil {
		panel.selected = -1
		panel.eventList.UnselectAll()
	}
	panel.reloadEvents()
	panel.report(err, "Event removed")
}

func (panel *Window) handleSave() {
	settings := panel.form().Merge(panel.settings)

	if err := panel.controller.SetCountdown(settings.CountdownSeconds); err != nil {
		panel.report(err, "")
		return
	}
	if err := panel.controller.SetMissionDuration(settings.MissionDurationSeconds); err != nil {
		panel.report(err, "")
		return
	}
	if err := panel.controller.SetLayout(settings.Layout); err != nil {
		panel.report(err, "")
		return
	}
	if err := panel.controller.SetDensity(settings.Density); err != nil {
		panel.report(err, "")
		return
	}

	panel.settings = settings
	if panel.onSave != nil {
		panel.onSave(panel.controller.Profile())
	}
	panel.Reload()
	panel.report(nil, "Saved")
}

func (panel *Window) report(err error, success string) {
	if err != nil {
		log.Debug().Err(err).Msg("control panel action rejected")
		panel.status.SetText(err.Error())
		return
	}
	panel.status.SetText(success)
	if panel.onChange != nil {
		panel.onChange()
	}
}
