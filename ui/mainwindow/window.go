// Package mainwindow provides the main application window.
package mainwindow

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog/log"

	"github.com/NielsIH/snapspot/internal/engine"
	"github.com/NielsIH/snapspot/internal/imageio"
	"github.com/NielsIH/snapspot/internal/marker"
	"github.com/NielsIH/snapspot/internal/version"
	"github.com/NielsIH/snapspot/ui/viewer"
)

const (
	prefKeyLastDir   = "lastDirectory"
	prefKeyLastImage = "lastImage"
	prefKeyViewState = "viewState:" // + image path
)

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app       fyne.App
	eng       *engine.Engine
	viewer    *viewer.Viewer
	statusBar *widget.Label

	imagePath string
}

// New creates the main window over an already configured engine.
func New(fyneApp fyne.App, eng *engine.Engine) *MainWindow {
	win := fyneApp.NewWindow("SnapSpot")

	mw := &MainWindow{
		Window: win,
		app:    fyneApp,
		eng:    eng,
	}

	mw.setupUI()
	mw.setupMenus()
	mw.setupEventHandlers()

	win.SetCloseIntercept(func() {
		mw.persistSession()
		fyneApp.Quit()
	})

	return mw
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	mw.viewer = viewer.New(mw.eng)
	mw.viewer.OnMarkerTapped(func(id string) {
		if m, ok := marker.Find(mw.eng.Markers(), id); ok {
			mw.updateStatus(m.Description)
		}
	})
	mw.viewer.OnMarkerAdded(func(id string) {
		mw.saveMarkers()
		mw.updateStatus("Marker added")
	})

	mw.statusBar = widget.NewLabel("Ready")

	content := container.NewBorder(
		mw.createToolbar(),                // top
		container.NewPadded(mw.statusBar), // bottom
		nil,                               // left
		nil,                               // right
		mw.viewer,                         // center
	)

	mw.SetContent(content)
	mw.Resize(fyne.NewSize(1000, 700))
}

// createToolbar creates the toolbar with view controls.
func (mw *MainWindow) createToolbar() fyne.CanvasObject {
	zoomOutBtn := widget.NewButton("-", func() {
		mw.eng.Zoom(1 / 1.25)
	})
	zoomInBtn := widget.NewButton("+", func() {
		mw.eng.Zoom(1.25)
	})
	fitBtn := widget.NewButton("Fit", func() {
		mw.eng.ResetView()
	})
	rotateBtn := widget.NewButton("Rotate", func() {
		mw.rotateBy(90)
	})

	return container.NewHBox(
		widget.NewLabel("Zoom:"),
		zoomOutBtn,
		zoomInBtn,
		fitBtn,
		rotateBtn,
	)
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Image...", mw.onOpenImage),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Save Markers", mw.saveMarkers),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() {
			mw.persistSession()
			mw.app.Quit()
		}),
	)

	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Zoom In", func() { mw.eng.Zoom(1.25) }),
		fyne.NewMenuItem("Zoom Out", func() { mw.eng.Zoom(1 / 1.25) }),
		fyne.NewMenuItem("Fit to Window", mw.eng.ResetView),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Rotate Right", func() { mw.rotateBy(90) }),
		fyne.NewMenuItem("Rotate Left", func() { mw.rotateBy(-90) }),
	)

	markerMenu := fyne.NewMenu("Markers",
		fyne.NewMenuItem("Lock Markers", func() {
			mw.eng.SetMarkersEditable(false)
			mw.updateStatus("Markers locked")
		}),
		fyne.NewMenuItem("Unlock Markers", func() {
			mw.eng.SetMarkersEditable(true)
			mw.updateStatus("Markers unlocked")
		}),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, viewMenu, markerMenu, helpMenu))
}

// setupEventHandlers registers for engine events.
func (mw *MainWindow) setupEventHandlers() {
	mw.eng.On(engine.EventImageLoaded, func(data interface{}) {
		if path, ok := data.(string); ok {
			mw.SetTitle("SnapSpot - " + filepath.Base(path))
			mw.updateStatus("Image loaded: " + path)
		}
	})
}

// rotateBy steps the rotation by a quarter turn in either direction.
func (mw *MainWindow) rotateBy(step int) {
	deg := (mw.eng.ViewState().Rotation + step + 360) % 360
	if err := mw.eng.SetRotation(deg); err != nil {
		log.Warn().Err(err).Int("degrees", deg).Msg("rotation rejected")
	}
}

// onOpenImage shows the file picker and loads the chosen image.
func (mw *MainWindow) onOpenImage() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		path := reader.URI().Path()
		_ = reader.Close()
		mw.saveLastDir(path)
		mw.OpenImage(path)
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".png", ".jpg", ".jpeg", ".tif", ".tiff"}))
	if dir := mw.getLastDir(); dir != nil {
		fd.SetLocation(dir)
	}
	fd.Show()
}

// OpenImage decodes the file off the UI thread and installs it. While
// the decode runs the previous content keeps rendering; a failure loads
// the placeholder instead.
func (mw *MainWindow) OpenImage(path string) {
	mw.persistSession()
	mw.updateStatus("Loading " + filepath.Base(path) + "...")

	go func() {
		img, err := imageio.DecodeFile(path)
		if err != nil {
			log.Error().Err(err).Str("path", path).Msg("image decode failed")
			mw.eng.LoadPlaceholder()
			mw.updateStatus("Failed to load " + filepath.Base(path))
			return
		}
		mw.imagePath = path
		if err := mw.eng.LoadImage(path, img); err != nil {
			log.Error().Err(err).Str("path", path).Msg("image install failed")
			return
		}
		mw.app.Preferences().SetString(prefKeyLastImage, path)
		mw.loadMarkers()
		mw.restoreViewState(path)
	}()
}

// RestoreLastImage reopens the image from the previous session, if any.
func (mw *MainWindow) RestoreLastImage() {
	if path := mw.app.Preferences().String(prefKeyLastImage); path != "" {
		mw.OpenImage(path)
	}
}

// markersPath derives the marker store path next to the image.
func (mw *MainWindow) markersPath() string {
	if mw.imagePath == "" {
		return ""
	}
	ext := filepath.Ext(mw.imagePath)
	return strings.TrimSuffix(mw.imagePath, ext) + ".markers.json"
}

// loadMarkers reads the marker set stored next to the current image.
// A missing file simply means no markers yet.
func (mw *MainWindow) loadMarkers() {
	path := mw.markersPath()
	if path == "" {
		return
	}
	markers, err := marker.LoadFile(path)
	if err != nil {
		log.Debug().Err(err).Str("path", path).Msg("no marker file loaded")
		mw.eng.SetMarkers(nil)
		return
	}
	mw.eng.SetMarkers(markers)
	mw.updateStatus(fmt.Sprintf("Loaded %d markers", len(markers)))
}

// saveMarkers writes the marker set next to the current image.
func (mw *MainWindow) saveMarkers() {
	path := mw.markersPath()
	if path == "" {
		return
	}
	if err := marker.SaveFile(path, mw.eng.Markers()); err != nil {
		log.Error().Err(err).Str("path", path).Msg("saving markers failed")
		mw.updateStatus("Saving markers failed")
	}
}

// persistSession stores the markers and current view for the open image.
func (mw *MainWindow) persistSession() {
	if mw.imagePath == "" {
		return
	}
	mw.saveMarkers()

	vs := mw.eng.ViewState()
	data, err := json.Marshal(vs)
	if err != nil {
		return
	}
	mw.app.Preferences().SetString(prefKeyViewState+mw.imagePath, string(data))
}

// restoreViewState reapplies the persisted view for an image, keeping
// the fit-to-screen default when none was stored.
func (mw *MainWindow) restoreViewState(path string) {
	raw := mw.app.Preferences().String(prefKeyViewState + path)
	if raw == "" {
		return
	}
	var vs engine.ViewState
	if err := json.Unmarshal([]byte(raw), &vs); err != nil {
		return
	}
	if err := mw.eng.SetViewState(vs); err != nil {
		log.Debug().Err(err).Str("path", path).Msg("stored view state not applied")
	}
}

// updateStatus updates the status bar text.
func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

// getLastDir returns the last used directory as a ListableURI, or nil.
func (mw *MainWindow) getLastDir() fyne.ListableURI {
	path := mw.app.Preferences().String(prefKeyLastDir)
	if path == "" {
		return nil
	}
	uri := storage.NewFileURI(path)
	listable, err := storage.ListerForURI(uri)
	if err != nil {
		return nil
	}
	return listable
}

// saveLastDir saves the directory of the given file path.
func (mw *MainWindow) saveLastDir(filePath string) {
	mw.app.Preferences().SetString(prefKeyLastDir, filepath.Dir(filePath))
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About", version.String()+"\nAn image marker viewer.", mw.Window)
}
