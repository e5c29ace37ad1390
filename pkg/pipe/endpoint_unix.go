//go:build darwin || dragonfly || freebsd || linux || netbsd || openbsd

package pipe

import (
	"io"

	"golang.org/x/sys/unix"
)

func buffered(fd uintptr) (int, error) {
	n, err := unix.IoctlGetInt(int(fd), fionread)
	if err != nil || n > 0 {
		return n, err
	}

	// Nothing buffered. A zero-timeout poll tells an idle writer apart from a
	// closed one: a pipe that is readable yet empty is at end of file.
	fds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
	if _, err := unix.Poll(fds, 0); err != nil {
		if err == unix.EINTR {
			return 0, nil
		}
		return 0, err
	}
	revents := fds[0].Revents
	if revents&unix.POLLNVAL != 0 {
		return 0, unix.EBADF
	}
	if revents&(unix.POLLIN|unix.POLLHUP) == 0 {
		return 0, nil
	}
	if n, err = unix.IoctlGetInt(int(fd), fionread); err != nil || n > 0 {
		return n, err
	}
	return 0, unix.EPIPE
}

func readOnce(fd uintptr, p []byte) (int, error) {
	n, err := unix.Read(int(fd), p)
	switch {
	case err == unix.EAGAIN || err == unix.EINTR:
		return 0, nil
	case err != nil:
		return 0, err
	case n == 0:
		return 0, io.EOF
	}
	return n, nil
}
