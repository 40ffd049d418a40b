package platform

import "os"

// SSH sessions have no access to the window server.
func desktopAvailable() bool {
	return os.Getenv("SSH_CONNECTION") == ""
}
