//go:build windows

package pipe

import (
	"io"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	modkernel32       = windows.NewLazySystemDLL("kernel32.dll")
	procPeekNamedPipe = modkernel32.NewProc("PeekNamedPipe")
)

func peekNamedPipe(h windows.Handle, available *uint32) error {
	r1, _, e1 := procPeekNamedPipe.Call(uintptr(h), 0, 0, 0, uintptr(unsafe.Pointer(available)), 0)
	if r1 != 0 {
		return nil
	}
	if errno, ok := e1.(syscall.Errno); ok && errno != 0 {
		return errno
	}
	return syscall.EINVAL
}

// buffered surfaces ERROR_BROKEN_PIPE unchanged; Drain treats it as end of data.
func buffered(fd uintptr) (int, error) {
	var available uint32
	if err := peekNamedPipe(windows.Handle(fd), &available); err != nil {
		return 0, err
	}
	return int(available), nil
}

func readOnce(fd uintptr, p []byte) (int, error) {
	var done uint32
	if err := windows.ReadFile(windows.Handle(fd), p, &done, nil); err != nil {
		return int(done), err
	}
	if done == 0 {
		return 0, io.EOF
	}
	return int(done), nil
}
