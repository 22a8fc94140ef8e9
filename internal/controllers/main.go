package controllers

import (
	"context"
	"errors"
	"fmt"
	"image"
	"strconv"
	"strings"
	"sync"

	"ice-extent/internal/archive"
	"ice-extent/internal/logger"
	"ice-extent/internal/models"
)

// ImageLoader produces a panel bitmap for an archive request
type ImageLoader interface {
	Load(ctx context.Context, req models.ImageRequest) (image.Image, error)
}

// View is the part of the main view the controller drives. Implementations
// must be safe to call from background goroutines, and SetYear/SetDayText
// must not fire the registered handlers.
type View interface {
	SetPanelImage(panel models.Panel, req models.ImageRequest, img image.Image)
	SetPanelError(panel models.Panel, req models.ImageRequest, err error)
	SetPanelLoading(panel models.Panel, req models.ImageRequest)
	SetDayText(text string)
	SetYear(panel models.Panel, year string)
	UpdateStatus(status string)

	SetYearChangeHandler(handler func(models.Panel, string))
	SetDaySubmitHandler(handler func(string))
	SetDecrementHandler(handler func())
	SetIncrementHandler(handler func())
	SetTodayHandler(handler func())
}

// MainController applies control bar actions to the date selection and
// refreshes the panels they affect. Selection changes happen on the caller's
// (UI) goroutine; archive loads run in the background.
type MainController struct {
	selection *models.DateSelection
	loader    ImageLoader
	logger    logger.Logger
	view      View

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// guards generations and ordering of view updates from refreshes
	mu          sync.Mutex
	generations [len(models.Panels)]uint64
}

// NewMainController creates a controller; call SetMainView before Start
func NewMainController(selection *models.DateSelection, loader ImageLoader, log logger.Logger) *MainController {
	if log == nil {
		log = logger.NoOpLogger{}
	}
	ctx, cancel := context.WithCancel(context.Background())

	return &MainController{
		selection: selection,
		loader:    loader,
		logger:    log,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// SetMainView wires the view's controls to the controller and syncs the
// displayed values with the selection
func (mc *MainController) SetMainView(view View) {
	mc.view = view

	view.SetYearChangeHandler(mc.HandleYearChange)
	view.SetDaySubmitHandler(mc.HandleDaySubmit)
	view.SetDecrementHandler(mc.HandleDecrement)
	view.SetIncrementHandler(mc.HandleIncrement)
	view.SetTodayHandler(mc.HandleToday)

	for _, p := range models.Panels {
		view.SetYear(p, strconv.Itoa(mc.selection.Year(p)))
	}
	mc.syncDay()
}

// Start loads both panels for the initial selection
func (mc *MainController) Start() {
	mc.logger.Info("MainController", "initial load", map[string]interface{}{
		"day":        mc.selection.Day(),
		"year_left":  mc.selection.Year(models.Left),
		"year_right": mc.selection.Year(models.Right),
	})
	mc.Refresh(models.Both)
}

// HandleYearChange refreshes only the panel whose year changed
func (mc *MainController) HandleYearChange(panel models.Panel, value string) {
	year, err := strconv.Atoi(value)
	if err != nil {
		mc.rejectYear(panel, fmt.Errorf("%w: %q", models.ErrInvalidYear, value))
		return
	}

	refresh, err := mc.selection.SetYear(panel, year)
	if err != nil {
		mc.rejectYear(panel, err)
		return
	}
	mc.Refresh(refresh)
}

// HandleDaySubmit applies a typed day; invalid input reverts the entry
func (mc *MainController) HandleDaySubmit(text string) {
	refresh, err := mc.selection.SetDay(text)
	if err != nil {
		mc.logger.Debug("MainController", "day input rejected", map[string]interface{}{
			"input": text,
			"day":   mc.selection.Day(),
		})
		mc.syncDay()
		return
	}
	mc.syncDay()
	mc.Refresh(refresh)
}

func (mc *MainController) HandleIncrement() {
	refresh := mc.selection.IncrementDay()
	mc.syncDay()
	mc.Refresh(refresh)
}

func (mc *MainController) HandleDecrement() {
	refresh := mc.selection.DecrementDay()
	mc.syncDay()
	mc.Refresh(refresh)
}

func (mc *MainController) HandleToday() {
	refresh := mc.selection.SetToday()
	mc.syncDay()
	mc.Refresh(refresh)
}

// Refresh reloads the given panels in order on a background goroutine.
// A result is dropped when a newer refresh for the same panel was started.
func (mc *MainController) Refresh(panels models.PanelSet) {
	type job struct {
		panel      models.Panel
		req        models.ImageRequest
		generation uint64
	}

	var jobs []job
	mc.mu.Lock()
	// the shutdown check and wg.Add share the lock Shutdown cancels under
	if mc.ctx.Err() != nil {
		mc.mu.Unlock()
		return
	}
	for _, p := range panels.Panels() {
		mc.generations[p]++
		jobs = append(jobs, job{panel: p, req: mc.selection.Request(p), generation: mc.generations[p]})
	}
	if len(jobs) == 0 {
		mc.mu.Unlock()
		return
	}
	mc.wg.Add(1)
	mc.mu.Unlock()

	go func() {
		defer mc.wg.Done()

		var failures []string
		for _, j := range jobs {
			if mc.ctx.Err() != nil {
				return
			}
			if !mc.current(j.panel, j.generation) {
				continue
			}

			mc.view.SetPanelLoading(j.panel, j.req)
			mc.view.UpdateStatus(fmt.Sprintf("Loading %s…", j.req))

			img, err := mc.loader.Load(mc.ctx, j.req)
			if err != nil && errors.Is(err, context.Canceled) && mc.ctx.Err() != nil {
				return
			}

			if mc.apply(j.panel, j.req, j.generation, img, err) && err != nil {
				failures = append(failures, fmt.Sprintf("%s %s: %v", j.panel, j.req, err))
			}
		}

		last := jobs[len(jobs)-1]
		if !mc.current(last.panel, last.generation) {
			return
		}
		if len(failures) > 0 {
			mc.view.UpdateStatus(strings.Join(failures, "; "))
		} else {
			mc.view.UpdateStatus("Ready")
		}
	}()
}

// apply pushes a load result to the view unless it is stale
func (mc *MainController) apply(panel models.Panel, req models.ImageRequest, generation uint64, img image.Image, err error) bool {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	if mc.generations[panel] != generation {
		mc.logger.Debug("MainController", "discarding stale frame", map[string]interface{}{
			"panel":   panel.String(),
			"request": req.String(),
		})
		return false
	}

	if err != nil {
		mc.logger.Error("MainController", err, map[string]interface{}{
			"panel":     panel.String(),
			"request":   req.String(),
			"not_found": archive.IsNotFound(err),
		})
		mc.view.SetPanelError(panel, req, err)
		return true
	}

	mc.view.SetPanelImage(panel, req, img)
	return true
}

func (mc *MainController) current(panel models.Panel, generation uint64) bool {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	return mc.generations[panel] == generation
}

func (mc *MainController) rejectYear(panel models.Panel, err error) {
	mc.logger.Warning("MainController", "year change rejected", map[string]interface{}{
		"panel": panel.String(),
		"error": err.Error(),
	})
	mc.view.SetYear(panel, strconv.Itoa(mc.selection.Year(panel)))
	mc.view.UpdateStatus(err.Error())
}

func (mc *MainController) syncDay() {
	mc.view.SetDayText(strconv.Itoa(mc.selection.Day()))
}

// Wait blocks until every started refresh has finished
func (mc *MainController) Wait() {
	mc.wg.Wait()
}

// Shutdown cancels in-flight loads and waits for refreshes to exit
func (mc *MainController) Shutdown() {
	mc.mu.Lock()
	mc.cancel()
	mc.mu.Unlock()

	mc.wg.Wait()
	mc.logger.Info("MainController", "shutdown complete", nil)
}
