//go:build !linux && !darwin && !windows

package platform

func desktopAvailable() bool {
	return false
}
