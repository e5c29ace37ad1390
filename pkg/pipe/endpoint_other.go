//go:build !(darwin || dragonfly || freebsd || linux || netbsd || openbsd || windows)

package pipe

import "errors"

func buffered(uintptr) (int, error) {
	return 0, errors.ErrUnsupported
}

func readOnce(uintptr, []byte) (int, error) {
	return 0, errors.ErrUnsupported
}
