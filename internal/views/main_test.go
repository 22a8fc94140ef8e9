package views

import (
	"context"
	"image"
	"sync"
	"testing"
	"time"

	"ice-extent/internal/archive"
	"ice-extent/internal/controllers"
	"ice-extent/internal/models"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2020, time.March, 1, 12, 0, 0, 0, time.UTC) // day 61

type stubLoader struct {
	mu       sync.Mutex
	requests []models.ImageRequest
	missing  map[models.ImageRequest]bool
}

func (s *stubLoader) Load(_ context.Context, req models.ImageRequest) (image.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, req)
	if s.missing[req] {
		return nil, &archive.StatusError{URL: req.FileName(), StatusCode: 404}
	}
	return image.NewRGBA(image.Rect(0, 0, 8, 8)), nil
}

func (s *stubLoader) seen() []models.ImageRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.ImageRequest(nil), s.requests...)
}

func newWiredView(t *testing.T, loader *stubLoader) (*MainView, *controllers.MainController) {
	t.Helper()
	a := test.NewTempApp(t)
	w := a.NewWindow("Ice Extent")
	t.Cleanup(w.Close)

	selection := models.NewDateSelection(models.WithClock(func() time.Time { return testNow }))
	view := NewMainView(w, models.YearChoices(testNow))
	controller := controllers.NewMainController(selection, loader, nil)
	controller.SetMainView(view)
	t.Cleanup(controller.Shutdown)

	return view, controller
}

func TestMainViewInitialLoad(t *testing.T) {
	loader := &stubLoader{}
	view, controller := newWiredView(t, loader)

	controller.Start()
	controller.Wait()

	state := view.GetViewState()
	assert.Equal(t, "61", state.Day)
	assert.Equal(t, [2]string{"2020", "2020"}, state.Years)
	assert.Equal(t, [2]bool{true, true}, state.HasImage)
	assert.Equal(t, "2020 · ims2020061.gif", state.Headers[models.Left])
	assert.Equal(t, "Ready", state.StatusMessage)
	assert.Equal(t, []models.ImageRequest{{Year: 2020, Day: 61}, {Year: 2020, Day: 61}}, loader.seen())
	assert.Equal(t, view.GetContainer(), view.GetWindow().Content())
}

func TestMainViewComparisonFlow(t *testing.T) {
	loader := &stubLoader{}
	view, controller := newWiredView(t, loader)
	bar := view.GetControlBar()

	controller.Start()
	controller.Wait()

	controller.HandleYearChange(models.Left, "2015")
	controller.Wait()
	bar.SetDayText("45")
	controller.HandleDaySubmit(bar.GetDayText())
	controller.Wait()

	state := view.GetViewState()
	assert.Equal(t, "45", state.Day)
	assert.Equal(t, "2015 · ims2015045.gif", state.Headers[models.Left])
	assert.Equal(t, "2020 · ims2020045.gif", state.Headers[models.Right])
}

func TestMainViewRejectedDayReverts(t *testing.T) {
	loader := &stubLoader{}
	view, controller := newWiredView(t, loader)
	bar := view.GetControlBar()

	controller.Start()
	controller.Wait()
	before := len(loader.seen())

	bar.SetDayText("400")
	controller.HandleDaySubmit("400")
	controller.Wait()

	assert.Equal(t, "61", view.GetViewState().Day)
	assert.Len(t, loader.seen(), before)
}

func TestMainViewMissingFrameShowsPlaceholder(t *testing.T) {
	loader := &stubLoader{missing: map[models.ImageRequest]bool{{Year: 2020, Day: 62}: true}}
	view, controller := newWiredView(t, loader)

	controller.Start()
	controller.Wait()
	controller.HandleIncrement()
	controller.Wait()

	state := view.GetViewState()
	assert.Equal(t, [2]bool{false, false}, state.HasImage)
	assert.Contains(t, state.StatusMessage, "404")
}

func TestMainViewTodayButton(t *testing.T) {
	loader := &stubLoader{}
	view, controller := newWiredView(t, loader)
	bar := view.GetControlBar()

	controller.Start()
	controller.Wait()
	controller.HandleDecrement()
	controller.Wait()
	require.Equal(t, "60", view.GetViewState().Day)

	bar.SetDayText("1")
	controller.HandleToday()
	controller.Wait()

	assert.Equal(t, "61", view.GetViewState().Day)
}

func TestMainViewWindowContent(t *testing.T) {
	a := test.NewTempApp(t)
	w := a.NewWindow("Ice Extent")
	defer w.Close()
	w.Resize(fyne.NewSize(1054, 600))

	view := NewMainView(w, []string{"2020"})

	assert.NotNil(t, view.GetImageDisplay())
	assert.Equal(t, "Ready", view.GetViewState().StatusMessage)
}
