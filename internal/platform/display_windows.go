package platform

import "os"

// Services run in session 0 without an interactive desktop.
func desktopAvailable() bool {
	return os.Getenv("SESSIONNAME") != "Services"
}
