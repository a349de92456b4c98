// Package main provides the entry point for the SnapSpot viewer.
package main

import (
	"os"
	"path/filepath"
	"time"

	fyneapp "fyne.io/fyne/v2/app"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/NielsIH/snapspot/internal/engine"
	"github.com/NielsIH/snapspot/internal/settings"
	"github.com/NielsIH/snapspot/internal/version"
	"github.com/NielsIH/snapspot/ui/mainwindow"
)

const (
	appID           = "com.github.nielsih.snapspot"
	settingsFile    = "snapspot.yaml"
	settingsRecheck = 2 * time.Second
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
	log.Info().Msg(version.String())

	cfg := loadSettings()

	eng := engine.New(engine.Options{
		MinScale:          cfg.MinScale,
		MaxScale:          cfg.MaxScale,
		HighlightDuration: cfg.HighlightDuration(),
		Crosshair:         cfg.Crosshair,
	})
	applyRules(eng, cfg)

	watcher := settings.NewWatcher(settingsPath(), settingsRecheck)
	if watcher != nil {
		watcher.OnReload(func(updated settings.Settings) {
			log.Info().Msg("settings reloaded")
			applyRules(eng, updated)
		})
		watcher.Start()
		defer watcher.Stop()
	}

	fyneApp := fyneapp.NewWithID(appID)
	win := mainwindow.New(fyneApp, eng)

	if len(os.Args) > 1 {
		win.OpenImage(os.Args[1])
	} else {
		win.RestoreLastImage()
	}

	win.ShowAndRun()
}

// settingsPath looks for the settings file next to the executable,
// falling back to the working directory.
func settingsPath() string {
	if exe, err := os.Executable(); err == nil {
		p := filepath.Join(filepath.Dir(exe), settingsFile)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return settingsFile
}

// loadSettings reads the settings file, running on defaults when it is
// missing or unreadable.
func loadSettings() settings.Settings {
	cfg, err := settings.Load(settingsPath())
	if err != nil {
		log.Info().Err(err).Msg("using default settings")
		return settings.Default()
	}
	return cfg
}

// applyRules converts the configured styling rules and hands them to
// the engine. A malformed rule list leaves the previous rules in place.
func applyRules(eng *engine.Engine, cfg settings.Settings) {
	rules, err := cfg.ColorRules()
	if err != nil {
		log.Warn().Err(err).Msg("styling rules rejected")
		return
	}
	eng.SetColorRules(rules)
}
