//go:build unix

package errkind

import "golang.org/x/sys/unix"

var nativeKinds = buildTable([]entry{
	{unix.ENOENT, NotFound},
	{unix.ENOTDIR, NotFound},

	{unix.EACCES, AccessDenied},
	{unix.EPERM, AccessDenied},

	{unix.EEXIST, AlreadyExists},

	{unix.EINVAL, InvalidArgument},
	{unix.EBADF, InvalidArgument},

	{unix.ENOMEM, OutOfMemory},

	{unix.EIO, IOFault},

	{unix.ENOSPC, DiskFull},
	{unix.EROFS, ReadOnly},
	{unix.ENOSYS, Unsupported},
	{unix.ENOTSUP, Unsupported},
	{unix.EOPNOTSUPP, Unsupported},
	{unix.ENOTEMPTY, NotEmpty},
	{unix.EMFILE, TooManyHandles},
	{unix.ENFILE, TooManyHandles},
	{unix.ENAMETOOLONG, NameTooLong},
	{unix.EPIPE, BrokenPipe},
})
