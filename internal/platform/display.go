package platform

// DesktopAvailable reports whether a graphical session can host tray and
// window surfaces. Without one the core runs with the no-op surface.
func DesktopAvailable() bool {
	return desktopAvailable()
}
