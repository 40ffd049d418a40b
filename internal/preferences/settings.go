package preferences

import (
	"time"

	"timersync/internal/core/model"
)

// SurfaceKind selects the status surface backend.
type SurfaceKind string

const (
	// SurfaceAuto picks the tray banner when a desktop is available and no surface otherwise.
	SurfaceAuto     SurfaceKind = "auto"
	SurfaceTray     SurfaceKind = "tray"
	SurfaceActivity SurfaceKind = "activity"
	// SurfaceDesktop shows both the tray banner and the live countdown window.
	SurfaceDesktop SurfaceKind = "desktop"
	SurfaceConsole SurfaceKind = "console"
	SurfaceNone    SurfaceKind = "none"
)

// ParseSurfaceKind validates a surface name.
func ParseSurfaceKind(value string) (SurfaceKind, bool) {
	switch kind := SurfaceKind(value); kind {
	case SurfaceAuto, SurfaceTray, SurfaceActivity, SurfaceDesktop, SurfaceConsole, SurfaceNone:
		return kind, true
	default:
		return "", false
	}
}

// NeedsDesktop reports whether the surface requires a graphical session.
func (kind SurfaceKind) NeedsDesktop() bool {
	return kind == SurfaceTray || kind == SurfaceActivity || kind == SurfaceDesktop
}

// Settings defines user preferences for the timer core.
type Settings struct {
	Surface         SurfaceKind
	ListenPort      int
	RefreshInterval time.Duration
	GraceDelay      time.Duration
	EventBuffer     int
	DefaultTitle    string
	AccessLog       bool
}

// DefaultSettings returns default settings.
func DefaultSettings() Settings {
	return Settings{
		Surface:         SurfaceAuto,
		RefreshInterval: model.DefaultRefreshInterval,
		GraceDelay:      model.DefaultGraceDelay,
		EventBuffer:     8,
		DefaultTitle:    model.DefaultTitle,
	}
}

// TimeKeeperConfig converts settings to the controller config.
func (settings Settings) TimeKeeperConfig() model.Config {
	return model.Config{
		RefreshInterval: settings.RefreshInterval,
		GraceDelay:      settings.GraceDelay,
		DefaultTitle:    settings.DefaultTitle,
	}.WithDefaults()
}
