package keys

import (
	"runtime"
	"sync"
)

// OS identifies the platform for key normalization and display formatting.
type OS string

const (
	OSMac     OS = "macos"
	OSWindows OS = "windows"
	OSLinux   OS = "linux"
	OSUnknown OS = "unknown"
)

var (
	detectOnce sync.Once
	detected   OS
)

// Detect returns the current platform, queried once and cached for the
// process lifetime.
func Detect() OS {
	detectOnce.Do(func() {
		detected = fromGOOS(runtime.GOOS)
	})
	return detected
}

func fromGOOS(goos string) OS {
	switch goos {
	case "darwin":
		return OSMac
	case "windows":
		return OSWindows
	case "linux":
		return OSLinux
	default:
		return OSUnknown
	}
}
