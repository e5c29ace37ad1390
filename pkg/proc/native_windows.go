//go:build windows

package proc

import (
	"fmt"
	"os"
	"sync/atomic"

	"golang.org/x/sys/windows"
)

// Native identifies a child by process ID and an owned process handle.
type Native struct {
	Pid     uint32
	Process windows.Handle

	released *atomic.Bool
}

// PID returns the process ID.
func (n Native) PID() int { return int(n.Pid) }

func (n Native) release() error {
	if n.Process == 0 || n.Process == windows.InvalidHandle {
		return nil
	}
	if n.released != nil && !n.released.CompareAndSwap(false, true) {
		return nil
	}
	return windows.CloseHandle(n.Process)
}

// nativeFromProcess opens our own handle to the child; os.Process keeps its
// handle private.
func nativeFromProcess(p *os.Process) (Native, error) {
	h, err := windows.OpenProcess(
		windows.PROCESS_QUERY_LIMITED_INFORMATION|windows.SYNCHRONIZE,
		false,
		uint32(p.Pid),
	)
	if err != nil {
		return Native{}, fmt.Errorf("open process %d: %w", p.Pid, err)
	}
	return Native{Pid: uint32(p.Pid), Process: h, released: new(atomic.Bool)}, nil
}
