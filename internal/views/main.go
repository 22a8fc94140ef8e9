package views

import (
	"image"

	"ice-extent/internal/models"
	"ice-extent/internal/views/components"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// MainView is the comparison window: control bar on top, the two panels in
// the middle and a status line at the bottom
type MainView struct {
	// UI Components
	window        fyne.Window
	mainContainer *fyne.Container
	controlBar    *components.ControlBar
	imageDisplay  *components.ImageDisplay
	statusBar     *components.StatusBar
}

// NewMainView creates the view and sets it as the window content
func NewMainView(window fyne.Window, years []string) *MainView {
	view := &MainView{
		window: window,
	}

	view.initializeComponents(years)
	view.buildLayout()

	return view
}

func (mv *MainView) initializeComponents(years []string) {
	mv.controlBar = components.NewControlBar(years)
	mv.imageDisplay = components.NewImageDisplay()
	mv.statusBar = components.NewStatusBar()
}

func (mv *MainView) buildLayout() {
	mv.mainContainer = container.NewBorder(
		container.NewVBox(mv.controlBar.GetContainer(), widget.NewSeparator()),
		mv.statusBar.GetContainer(),
		nil,
		nil,
		mv.imageDisplay.GetContainer(),
	)

	mv.window.SetContent(mv.mainContainer)
}

// Event handler setters - called by controller. Handlers run on the UI
// goroutine.

func (mv *MainView) SetYearChangeHandler(handler func(models.Panel, string)) {
	mv.controlBar.SetYearChangeHandler(handler)
}

func (mv *MainView) SetDaySubmitHandler(handler func(string)) {
	mv.controlBar.SetDaySubmitHandler(handler)
}

func (mv *MainView) SetDecrementHandler(handler func()) {
	mv.controlBar.SetDecrementHandler(handler)
}

func (mv *MainView) SetIncrementHandler(handler func()) {
	mv.controlBar.SetIncrementHandler(handler)
}

func (mv *MainView) SetTodayHandler(handler func()) {
	mv.controlBar.SetTodayHandler(handler)
}

// UI update methods - called by controller, safe from any goroutine

// SetPanelImage replaces one panel's bitmap
func (mv *MainView) SetPanelImage(panel models.Panel, req models.ImageRequest, img image.Image) {
	fyne.Do(func() {
		mv.imageDisplay.SetPanelImage(panel, req, img)
	})
}

// SetPanelError shows the error placeholder in one panel
func (mv *MainView) SetPanelError(panel models.Panel, req models.ImageRequest, err error) {
	fyne.Do(func() {
		mv.imageDisplay.SetPanelError(panel, req, err)
	})
}

func (mv *MainView) SetPanelLoading(panel models.Panel, req models.ImageRequest) {
	fyne.Do(func() {
		mv.imageDisplay.SetPanelLoading(panel, req)
	})
}

func (mv *MainView) SetDayText(text string) {
	fyne.Do(func() {
		mv.controlBar.SetDayText(text)
	})
}

func (mv *MainView) SetYear(panel models.Panel, year string) {
	fyne.Do(func() {
		mv.controlBar.SetYear(panel, year)
	})
}

// UpdateStatus updates the status bar message
func (mv *MainView) UpdateStatus(status string) {
	fyne.Do(func() {
		mv.statusBar.SetStatus(status)
	})
}

// GetWindow returns the main window
func (mv *MainView) GetWindow() fyne.Window {
	return mv.window
}

// GetContainer returns the main container
func (mv *MainView) GetContainer() *fyne.Container {
	return mv.mainContainer
}

// GetImageDisplay returns the image display component
func (mv *MainView) GetImageDisplay() *components.ImageDisplay {
	return mv.imageDisplay
}

// GetControlBar returns the control bar component
func (mv *MainView) GetControlBar() *components.ControlBar {
	return mv.controlBar
}

// ViewState represents the current state of the view
type ViewState struct {
	Day           string
	Years         [len(models.Panels)]string
	Headers       [len(models.Panels)]string
	HasImage      [len(models.Panels)]bool
	StatusMessage string
}

// GetViewState returns the current view state
func (mv *MainView) GetViewState() ViewState {
	state := ViewState{
		Day:           mv.controlBar.GetDayText(),
		StatusMessage: mv.statusBar.GetStatus(),
	}
	for _, p := range models.Panels {
		state.Years[p] = mv.controlBar.GetYear(p)
		state.Headers[p] = mv.imageDisplay.Header(p)
		state.HasImage[p] = mv.imageDisplay.HasImage(p)
	}
	return state
}
