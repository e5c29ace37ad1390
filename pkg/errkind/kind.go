// Package errkind normalizes native OS error codes into a small portable
// taxonomy, so callers can tell an expected condition (the writer of a pipe
// went away) from a genuine fault without knowing which platform they run on.
package errkind

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"syscall"
)

// Kind is a portable error class.
type Kind int

const (
	// InvalidArgument is also the class of every unrecognized native code.
	InvalidArgument Kind = iota
	NotFound
	AccessDenied
	AlreadyExists
	OutOfMemory
	IOFault
	DiskFull
	ReadOnly
	Unsupported
	NotEmpty
	TooManyHandles
	NameTooLong
	BrokenPipe
)

// Default is the class assigned to native codes missing from the table.
const Default = InvalidArgument

var kindNames = [...]string{
	InvalidArgument: "invalid argument",
	NotFound:        "not found",
	AccessDenied:    "access denied",
	AlreadyExists:   "already exists",
	OutOfMemory:     "out of memory",
	IOFault:         "i/o fault",
	DiskFull:        "disk full",
	ReadOnly:        "read-only",
	Unsupported:     "unsupported operation",
	NotEmpty:        "not empty",
	TooManyHandles:  "too many open handles",
	NameTooLong:     "name too long",
	BrokenPipe:      "broken pipe",
}

// Kinds lists every class in declaration order.
func Kinds() []Kind {
	out := make([]Kind, len(kindNames))
	for i := range kindNames {
		out[i] = Kind(i)
	}
	return out
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// Error makes a Kind usable as an errors.Is target.
func (k Kind) Error() string { return k.String() }

// Normalize maps a native error code to its portable class. It never fails:
// codes absent from the platform table map to Default.
func Normalize(code syscall.Errno) Kind {
	if k, ok := nativeKinds[code]; ok {
		return k
	}
	return Default
}

// Of classifies err. Wrapped native codes are normalized through the platform
// table; a few standard library sentinels are recognized directly. Everything
// else, including nil, is Default.
func Of(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return Normalize(errno)
	}
	switch {
	case errors.Is(err, io.ErrClosedPipe):
		return BrokenPipe
	case errors.Is(err, fs.ErrNotExist):
		return NotFound
	case errors.Is(err, fs.ErrPermission):
		return AccessDenied
	case errors.Is(err, fs.ErrExist):
		return AlreadyExists
	}
	return Default
}

// Error is a failed native call annotated with its portable class.
type Error struct {
	Op   string
	Code syscall.Errno
	Kind Kind
}

// Wrap annotates err with op and, when it carries a native code, its class.
// It returns nil for a nil err.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return &Error{Op: op, Code: errno, Kind: Normalize(errno)}
	}
	return fmt.Errorf("%s: %w", op, err)
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s (%v)", e.Op, e.Kind, e.Code)
}

// Unwrap exposes the native code, so errors.Is(err, fs.ErrNotExist) keeps
// working through the platform's own errno mapping.
func (e *Error) Unwrap() error { return e.Code }

// Is reports whether target is this error's Kind.
func (e *Error) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == e.Kind
}

type entry struct {
	code syscall.Errno
	kind Kind
}

// buildTable tolerates codes that alias each other on some platforms
// (ENOTSUP and EOPNOTSUPP on Linux) since they always carry the same class.
func buildTable(entries []entry) map[syscall.Errno]Kind {
	t := make(map[syscall.Errno]Kind, len(entries))
	for _, e := range entries {
		t[e.code] = e.kind
	}
	return t
}
