//go:build !windows

package proc

import "os"

// Native identifies a child by process ID.
type Native struct {
	Pid int
}

// PID returns the process ID.
func (n Native) PID() int { return n.Pid }

// A POSIX pid holds no resource once the child has been waited on.
func (n Native) release() error { return nil }

func nativeFromProcess(p *os.Process) (Native, error) {
	return Native{Pid: p.Pid}, nil
}
