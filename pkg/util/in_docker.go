package util

import "os"

var containerMarkers = []string{"/.dockerenv", "/run/.containerenv"}

// IsRunningInContainer reports whether the process runs inside a docker or
// podman container
func IsRunningInContainer() bool {
	for _, m := range containerMarkers {
		if _, err := os.Stat(m); err == nil {
			return true
		}
	}

	return false
}
