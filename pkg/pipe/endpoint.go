package pipe

import (
	"fmt"
	"os"
	"syscall"
)

// Endpoint is the read end of an OS pipe. Buffered and Read go straight to
// the descriptor through the file's raw connection, so neither waits on the
// runtime poller.
type Endpoint struct {
	f    *os.File
	conn syscall.RawConn
}

// NewEndpoint wraps the read end f. The Endpoint owns f from then on.
func NewEndpoint(f *os.File) (*Endpoint, error) {
	conn, err := f.SyscallConn()
	if err != nil {
		return nil, fmt.Errorf("pipe endpoint %s: %w", f.Name(), err)
	}
	return &Endpoint{f: f, conn: conn}, nil
}

// File returns the wrapped file.
func (e *Endpoint) File() *os.File { return e.f }

// Buffered reports the number of bytes the OS holds for this pipe.
func (e *Endpoint) Buffered() (n int, err error) {
	cerr := e.conn.Control(func(fd uintptr) {
		n, err = buffered(fd)
	})
	if cerr != nil {
		return 0, cerr
	}
	return n, err
}

// Read performs exactly one read system call into p.
func (e *Endpoint) Read(p []byte) (n int, err error) {
	cerr := e.conn.Read(func(fd uintptr) bool {
		n, err = readOnce(fd, p)
		return true
	})
	if cerr != nil {
		return 0, cerr
	}
	return n, err
}

// Close closes the read end.
func (e *Endpoint) Close() error { return e.f.Close() }
