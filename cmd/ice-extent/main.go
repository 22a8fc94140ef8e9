package main

import (
	"context"
	"log"
	"os"
	"runtime"
	"time"

	"ice-extent/internal/archive"
	"ice-extent/internal/config"
	"ice-extent/internal/controllers"
	"ice-extent/internal/logger"
	"ice-extent/internal/models"
	"ice-extent/internal/services"
	"ice-extent/internal/shutdown"
	"ice-extent/internal/telemetry"
	"ice-extent/internal/views"
	"ice-extent/internal/views/components"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
)

const (
	AppName    = "Ice Extent"
	AppID      = "gov.noaa.natice.ice-extent"
	AppVersion = "1.0.0"

	windowWidth  = 1054
	windowHeight = 600

	statsInterval   = 30 * time.Second
	exporterTimeout = 5 * time.Second
)

// Application holds the wired components for one run
type Application struct {
	// Core components
	fyneApp fyne.App
	window  fyne.Window
	logger  logger.Logger

	// MVC Components
	controller *controllers.MainController
	view       *views.MainView

	// Services
	imageService *services.ImageService
	exporter     *telemetry.Exporter

	// Lifecycle management
	shutdown *shutdown.Manager
}

func main() {
	cfg, err := config.Parse("ice-extent", "Compare northern hemisphere ice extent maps side by side.", os.Args[1:])
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	application, err := NewApplication(cfg)
	if err != nil {
		log.Fatalf("Application initialization failed: %v", err)
	}

	application.Run()
}

// NewApplication wires configuration, archive access and the UI together
func NewApplication(cfg *config.Config) (*Application, error) {
	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	appLogger := logger.New(level, cfg.JSONLogs)

	exporter, err := telemetry.NewExporter(context.Background(), AppVersion)
	if err != nil {
		return nil, err
	}

	fyneApp := app.NewWithID(AppID)
	fyneApp.SetMetadata(&fyne.AppMetadata{
		ID:      AppID,
		Name:    AppName,
		Version: AppVersion,
	})

	window := fyneApp.NewWindow(AppName)
	window.Resize(fyne.NewSize(windowWidth, windowHeight))
	window.SetFixedSize(true)
	window.CenterOnScreen()

	client := archive.NewClient(cfg.ArchiveURL, cfg.Timeout, archive.WithLogger(appLogger))
	imageService := services.NewImageService(client, appLogger, components.ImageAreaWidth, components.ImageAreaHeight)

	selection := models.NewDateSelection()
	mainController := controllers.NewMainController(selection, imageService, appLogger)
	mainView := views.NewMainView(window, models.YearChoices(selection.Now()))
	mainController.SetMainView(mainView)

	application := &Application{
		fyneApp:      fyneApp,
		window:       window,
		logger:       appLogger,
		controller:   mainController,
		view:         mainView,
		imageService: imageService,
		exporter:     exporter,
		shutdown:     shutdown.NewManager(appLogger),
	}

	application.registerShutdown()
	application.setupWindowEvents()

	appLogger.Info("Application", "initialized", map[string]interface{}{
		"version":       AppVersion,
		"archive_url":   cfg.ArchiveURL,
		"timeout":       cfg.Timeout.String(),
		"otlp_endpoint": exporter.Endpoint(),
		"go_version":    runtime.Version(),
		"fyne_version":  "v2.6.1",
	})

	return application, nil
}

// Run loads the initial panels and blocks in the UI event loop
func (app *Application) Run() {
	app.shutdown.Listen(app.fyneApp.Quit)

	go app.startStatsMonitoring()

	app.controller.Start()
	app.window.ShowAndRun()

	app.shutdown.Shutdown()
	app.logger.Info("Application", "terminated", nil)
}

// registerShutdown orders teardown; the controller stops before the exporter
func (app *Application) registerShutdown() {
	app.shutdown.Register("exporter", shutdown.Func(func() {
		ctx, cancel := context.WithTimeout(context.Background(), exporterTimeout)
		defer cancel()
		if err := app.exporter.Shutdown(ctx); err != nil {
			app.logger.Error("Application", err, map[string]interface{}{
				"step": "exporter",
			})
		}
	}))
	app.shutdown.Register("controller", app.controller)
}

func (app *Application) setupWindowEvents() {
	app.window.SetOnClosed(func() {
		app.logger.Info("Application", "window closed", nil)
	})
}

// startStatsMonitoring logs archive load counters until shutdown
func (app *Application) startStatsMonitoring() {
	ticker := time.NewTicker(statsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			app.logStats()
		case <-app.shutdown.Done():
			return
		}
	}
}

func (app *Application) logStats() {
	stats := app.imageService.Stats()

	app.logger.Debug("Application", "archive load stats", map[string]interface{}{
		"loaded":          stats.Loaded,
		"failed":          stats.Failed,
		"avg_load_ms":     stats.AverageTime.Milliseconds(),
		"goroutine_count": runtime.NumGoroutine(),
	})
}
