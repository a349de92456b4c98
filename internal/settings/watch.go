package settings

import (
	"os"
	"time"
)

// Watcher polls the settings file for modification and reloads it when
// it changes. Polling keeps the watcher free of platform notification
// quirks; the interval is coarse because rule edits are rare.
type Watcher struct {
	path     string
	baseline time.Time
	interval time.Duration
	stopCh   chan struct{}
	onReload func(Settings)
}

// NewWatcher creates a watcher for the given settings path. Returns nil
// if the file cannot be stat'ed.
func NewWatcher(path string, interval time.Duration) *Watcher {
	info, err := os.Stat(path)
	if err != nil {
		return nil
	}
	return &Watcher{
		path:     path,
		baseline: info.ModTime(),
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// OnReload sets the callback invoked with the freshly loaded settings.
// The callback runs on a background goroutine; callers updating UI
// state must marshal onto their own thread.
func (w *Watcher) OnReload(callback func(Settings)) {
	w.onReload = callback
}

// Start begins watching in a background goroutine.
func (w *Watcher) Start() {
	w.stopCh = make(chan struct{})
	go w.watchLoop()
}

// Stop stops the watcher goroutine.
func (w *Watcher) Stop() {
	close(w.stopCh)
}

func (w *Watcher) watchLoop() {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.checkOnce()
		}
	}
}

// checkOnce reloads the file if it changed since the last check. A
// file that fails to parse leaves the baseline untouched so the next
// save is picked up.
func (w *Watcher) checkOnce() {
	info, err := os.Stat(w.path)
	if err != nil {
		return
	}
	if !info.ModTime().After(w.baseline) {
		return
	}
	s, err := Load(w.path)
	if err != nil {
		return
	}
	w.baseline = info.ModTime()
	if w.onReload != nil {
		w.onReload(s)
	}
}
