package components

import (
	"ice-extent/internal/models"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

const dayEntryWidth = 64

// ControlBar holds the year pickers and day-of-year controls
type ControlBar struct {
	container       *fyne.Container
	yearSelects     [len(models.Panels)]*widget.Select
	dayEntry        *widget.Entry
	decrementButton *widget.Button
	incrementButton *widget.Button
	todayButton     *widget.Button

	// Event handlers
	yearChangeHandler func(models.Panel, string)
	daySubmitHandler  func(string)
	decrementHandler  func()
	incrementHandler  func()
	todayHandler      func()

	// set while the controller writes values so OnChanged stays quiet
	syncing bool
}

// NewControlBar creates the control bar; years lists the dropdown choices
func NewControlBar(years []string) *ControlBar {
	cb := &ControlBar{}
	cb.createComponents(years)
	cb.buildLayout()
	cb.setupEventHandlers()
	return cb
}

func (cb *ControlBar) createComponents(years []string) {
	for _, p := range models.Panels {
		sel := widget.NewSelect(years, nil)
		if len(years) > 0 {
			sel.SetSelected(years[0])
		}
		cb.yearSelects[p] = sel
	}

	cb.dayEntry = widget.NewEntry()
	cb.dayEntry.SetPlaceHolder("day")

	cb.decrementButton = widget.NewButton("<<", nil)
	cb.incrementButton = widget.NewButton(">>", nil)
	cb.todayButton = widget.NewButton("Today", nil)
	cb.todayButton.Importance = widget.HighImportance
}

func (cb *ControlBar) buildLayout() {
	dayBox := container.NewGridWrap(
		fyne.NewSize(dayEntryWidth, cb.dayEntry.MinSize().Height),
		cb.dayEntry,
	)

	cb.container = container.NewHBox(
		layout.NewSpacer(),
		cb.yearSelects[models.Left],
		layout.NewSpacer(),
		cb.decrementButton,
		dayBox,
		cb.incrementButton,
		layout.NewSpacer(),
		cb.yearSelects[models.Right],
		layout.NewSpacer(),
		cb.todayButton,
	)
}

func (cb *ControlBar) setupEventHandlers() {
	for _, p := range models.Panels {
		panel := p
		cb.yearSelects[p].OnChanged = func(year string) {
			if cb.syncing || cb.yearChangeHandler == nil {
				return
			}
			cb.yearChangeHandler(panel, year)
		}
	}

	cb.dayEntry.OnSubmitted = func(text string) {
		if cb.daySubmitHandler != nil {
			cb.daySubmitHandler(text)
		}
	}

	cb.decrementButton.OnTapped = func() {
		if cb.decrementHandler != nil {
			cb.decrementHandler()
		}
	}

	cb.incrementButton.OnTapped = func() {
		if cb.incrementHandler != nil {
			cb.incrementHandler()
		}
	}

	cb.todayButton.OnTapped = func() {
		if cb.todayHandler != nil {
			cb.todayHandler()
		}
	}
}

// Event handler setters

func (cb *ControlBar) SetYearChangeHandler(handler func(models.Panel, string)) {
	cb.yearChangeHandler = handler
}

func (cb *ControlBar) SetDaySubmitHandler(handler func(string)) {
	cb.daySubmitHandler = handler
}

func (cb *ControlBar) SetDecrementHandler(handler func()) {
	cb.decrementHandler = handler
}

func (cb *ControlBar) SetIncrementHandler(handler func()) {
	cb.incrementHandler = handler
}

func (cb *ControlBar) SetTodayHandler(handler func()) {
	cb.todayHandler = handler
}

// State updates from the controller

// SetYear selects a year without notifying the year change handler
func (cb *ControlBar) SetYear(p models.Panel, year string) {
	cb.syncing = true
	defer func() { cb.syncing = false }()
	cb.yearSelects[p].SetSelected(year)
}

// SetDayText shows the current day-of-year in the entry
func (cb *ControlBar) SetDayText(text string) {
	cb.dayEntry.SetText(text)
}

func (cb *ControlBar) GetYear(p models.Panel) string {
	return cb.yearSelects[p].Selected
}

func (cb *ControlBar) GetDayText() string {
	return cb.dayEntry.Text
}

func (cb *ControlBar) GetContainer() *fyne.Container {
	return cb.container
}
