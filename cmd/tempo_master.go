package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/rivo/tview"
	"github.com/spf13/pflag"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/lowaak/tempo-master/internal/config"
	"github.com/lowaak/tempo-master/internal/session"
	"github.com/lowaak/tempo-master/internal/trainer"
	"github.com/lowaak/tempo-master/internal/workouts"
)

// uiLogWriter forwards each log line to the UI log pane.
// Lines are dropped when the pane falls behind; the log file keeps them.
type uiLogWriter struct {
	ch chan<- string
}

func (w uiLogWriter) Write(p []byte) (int, error) {
	select {
	case w.ch <- string(p):
	default:
	}
	return len(p), nil
}

func main() {
	fs := pflag.NewFlagSet("tempo-master", pflag.ExitOnError)
	config.RegisterFlags(fs)
	must("parse flags", fs.Parse(os.Args[1:]))

	cfg, err := config.Load(fs)
	must("load config", err)

	// stdout belongs to tview; logs go to a rotating file and the log pane
	var fileLog io.Writer = io.Discard
	if cfg.Log.File != "" {
		rotating := &lumberjack.Logger{
			Filename:   cfg.Log.File,
			MaxSize:    cfg.Log.MaxSizeMB,
			MaxBackups: cfg.Log.MaxBackups,
			MaxAge:     cfg.Log.MaxAgeDays,
			Compress:   cfg.Log.Compress,
		}
		defer rotating.Close()
		fileLog = rotating
	}
	uiLogChan := make(chan string, 256)
	logger := log.New(io.MultiWriter(fileLog, uiLogWriter{ch: uiLogChan}), "", log.Ltime)

	limits := cfg.SetupLimits()
	catalog, err := workouts.LoadCatalog(cfg.Workouts.File, limits)
	must("load workouts", err)

	style, err := trainer.ParseDisplayStyle(cfg.Display.Style)
	must("parse display style", err)

	sessionController := session.NewController(session.NewControllerArg{
		TickSource: session.NewTickerSource(cfg.Ride.TickInterval, logger),
		Limits:     cfg.CadenceLimits(),
		Logger:     logger,
	})

	defaults := trainer.RideDefaults{
		Cadence:     cfg.Ride.DefaultCadence,
		CadenceStep: cfg.Ride.CadenceStep,
		Timed:       cfg.TimedPlan(),
		Intervals:   cfg.IntervalPlan(),
	}

	model := trainer.NewUIModel(trainer.NewUIModelArg{
		Summaries: sessionController,
		Menu:      trainer.BuildMenu(defaults, catalog),
		Style:     style,
		Logger:    logger,
		UILogChan: uiLogChan,
	})

	controller := trainer.NewUIController(trainer.NewUIControllerArg{
		Model:    model,
		Session:  sessionController,
		Defaults: defaults,
		Limits:   limits,
		Logger:   logger,
	})

	app := tview.NewApplication()
	view := trainer.NewBaseUIView(trainer.NewBaseUIViewArg{
		UIViewImpl:   trainer.NewCursesUIView(logger, app, model),
		UIModel:      model,
		UIController: controller,
		Session:      sessionController,
		FrameRate:    cfg.Display.FrameRate,
		Logger:       logger,
	})

	logger.Printf("Tempo Master ready: %d workouts", len(catalog.All()))
	must("start ride", startFromConfig(cfg, catalog, controller))

	runErr := view.Run()

	view.Shutdown()
	controller.Shutdown()
	model.Shutdown()

	must("run UI", runErr)
}

// startFromConfig starts the ride selected with --mode, if any
func startFromConfig(cfg config.Config, catalog *workouts.Catalog, controller *trainer.UIController) error {
	var err error
	switch cfg.Start.Mode {
	case config.ModeMenu:
		return nil
	case config.ModeFree:
		err = controller.StartFreeRide(cfg.Ride.DefaultCadence)
	case config.ModeTimed:
		err = controller.StartTimed(cfg.TimedPlan())
	case config.ModeInterval:
		plan := cfg.IntervalPlan()
		if cfg.Start.Workout != "" {
			plan, err = catalog.Find(cfg.Start.Workout)
			if err != nil {
				return err
			}
		}
		err = controller.StartInterval(plan)
	default:
		err = fmt.Errorf("unknown start mode %q", cfg.Start.Mode)
	}
	if err != nil {
		return err
	}

	controller.OnModeChange(trainer.UIModeRide)
	return nil
}

func must(action string, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to %s: %v\n", action, err)
		os.Exit(1)
	}
}
