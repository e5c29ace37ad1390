//go:build !unix && !windows

package errkind

var nativeKinds = buildTable(nil)
