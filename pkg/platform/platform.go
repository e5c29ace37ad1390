// Package platform reports which operating system family the binary targets.
package platform

import "runtime"

const (
	IsWindows = runtime.GOOS == "windows"
	IsDarwin  = runtime.GOOS == "darwin"
	IsIOS     = runtime.GOOS == "ios"
	IsLinux   = runtime.GOOS == "linux" || runtime.GOOS == "android"
	IsAndroid = runtime.GOOS == "android"
	IsUnix    = IsDarwin || IsIOS || IsLinux || runtime.GOOS == "freebsd" ||
		runtime.GOOS == "netbsd" || runtime.GOOS == "openbsd" || runtime.GOOS == "dragonfly" ||
		runtime.GOOS == "solaris" || runtime.GOOS == "illumos" || runtime.GOOS == "aix"
)

// Name describes the target, e.g. "linux/amd64".
func Name() string {
	return runtime.GOOS + "/" + runtime.GOARCH
}

// Family is "windows", "unix", or the raw GOOS for anything else.
func Family() string {
	switch {
	case IsWindows:
		return "windows"
	case IsUnix:
		return "unix"
	default:
		return runtime.GOOS
	}
}
