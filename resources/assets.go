package resources

import (
	"embed"
	"fmt"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"

	"timersync/internal/core/model"
)

const logoDir = "logo/"

//go:embed logo/*.svg
var logoFS embed.FS

var logoCache sync.Map

// Logo returns a Fyne resource for the given logo file.
func Logo(fileName string) (fyne.Resource, error) {
	return loadResource(logoFS, logoDir+fileName, &logoCache)
}

// MustLogo returns a Fyne resource or panics on error.
func MustLogo(fileName string) fyne.Resource {
	resource, err := Logo(fileName)
	if err != nil {
		panic(err)
	}
	return resource
}

// AppIcon is the application and idle tray icon.
func AppIcon() fyne.Resource {
	return MustLogo("timersync.svg")
}

// StateIcon picks the tray icon for the current surface.
func StateIcon(mode model.Mode, paused, finished, active bool) fyne.Resource {
	switch {
	case finished:
		return theme.ConfirmIcon()
	case !active:
		return AppIcon()
	case paused:
		return theme.MediaPauseIcon()
	case mode.IsBreak():
		return theme.HomeIcon()
	default:
		return theme.HistoryIcon()
	}
}

func loadResource(fs embed.FS, path string, cache *sync.Map) (fyne.Resource, error) {
	if cached, ok := cache.Load(path); ok {
		return cached.(fyne.Resource), nil
	}

	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load resource %s: %w", path, err)
	}

	resource := fyne.NewStaticResource(path, data)
	cache.Store(path, resource)
	return resource, nil
}
