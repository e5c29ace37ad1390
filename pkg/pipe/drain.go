// Package pipe drains child process output without blocking.
//
// Drain asks the OS how many bytes a pipe currently holds and transfers at
// most that many in a single read. A pipe whose writer has gone away is not an
// error: it simply has nothing more to give. Any other failure is a fault the
// caller cannot recover from and is reported as a *FatalError.
package pipe

import (
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/vertti/childproc/pkg/errkind"
)

// Source is a readable pipe endpoint.
type Source interface {
	// Buffered reports how many bytes can be read right now without blocking.
	// A closed writer may be reported as a broken-pipe class error.
	Buffered() (int, error)
	// Read performs one transfer into p.
	Read(p []byte) (int, error)
}

// ErrPipeFault marks unrecoverable pipe failures.
var ErrPipeFault = errors.New("pipe fault")

// FatalError is a pipe failure other than the writer having closed.
type FatalError struct {
	Op  string
	Err error
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("%v: %s: %v", ErrPipeFault, e.Op, e.Err)
}

func (e *FatalError) Unwrap() []error { return []error{ErrPipeFault, e.Err} }

// Drain returns whatever src holds right now. It never waits for data.
func Drain(src Source) (Result, error) {
	b, _, err := drain(src)
	if err != nil {
		return Result{}, err
	}
	return NewResult(b), nil
}

// drain also reports whether the writer is known to be closed.
func drain(src Source) (data []byte, closed bool, err error) {
	n, err := src.Buffered()
	if err != nil {
		if !endOfData(err) {
			return nil, false, &FatalError{Op: "query", Err: err}
		}
		logrus.WithError(err).Debug("pipe: writer closed, nothing buffered")
		return nil, true, nil
	}
	if n <= 0 {
		return nil, false, nil
	}

	buf := make([]byte, n)
	got, err := src.Read(buf)
	if err != nil {
		if !endOfData(err) {
			return nil, false, &FatalError{Op: "read", Err: err}
		}
		closed = true
	}
	// The pipe may hand over less than it advertised if another reader won
	// the race between the query and the transfer.
	got = max(0, min(got, n))
	if got == 0 {
		return nil, closed, nil
	}
	if got < n {
		logrus.WithFields(logrus.Fields{"advertised": n, "read": got}).Debug("pipe: short read")
	}
	return buf[:got], closed, nil
}

func endOfData(err error) bool {
	return errors.Is(err, io.EOF) || errkind.Of(err) == errkind.BrokenPipe
}
