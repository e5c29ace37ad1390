//go:build windows

package errkind

import "golang.org/x/sys/windows"

var nativeKinds = buildTable([]entry{
	{windows.ERROR_FILE_NOT_FOUND, NotFound},
	{windows.ERROR_PATH_NOT_FOUND, NotFound},
	{windows.ERROR_INVALID_DRIVE, NotFound},
	{windows.ERROR_BAD_NETPATH, NotFound},
	{windows.ERROR_INVALID_NAME, NotFound},
	{windows.ERROR_DIRECTORY, NotFound},

	{windows.ERROR_ACCESS_DENIED, AccessDenied},
	{windows.ERROR_SHARING_VIOLATION, AccessDenied},
	{windows.ERROR_LOCK_VIOLATION, AccessDenied},
	{windows.ERROR_CURRENT_DIRECTORY, AccessDenied},

	{windows.ERROR_FILE_EXISTS, AlreadyExists},
	{windows.ERROR_ALREADY_EXISTS, AlreadyExists},

	{windows.ERROR_INVALID_HANDLE, InvalidArgument},
	{windows.ERROR_INVALID_PARAMETER, InvalidArgument},

	{windows.ERROR_NOT_ENOUGH_MEMORY, OutOfMemory},
	{windows.ERROR_OUTOFMEMORY, OutOfMemory},

	{windows.ERROR_GEN_FAILURE, IOFault},
	{windows.ERROR_IO_DEVICE, IOFault},

	{windows.ERROR_DISK_FULL, DiskFull},
	{windows.ERROR_WRITE_PROTECT, ReadOnly},
	{windows.ERROR_CALL_NOT_IMPLEMENTED, Unsupported},
	{windows.ERROR_NOT_SUPPORTED, Unsupported},
	{windows.ERROR_DIR_NOT_EMPTY, NotEmpty},
	{windows.ERROR_TOO_MANY_OPEN_FILES, TooManyHandles},
	{windows.ERROR_FILENAME_EXCED_RANGE, NameTooLong},
	{windows.ERROR_BROKEN_PIPE, BrokenPipe},
})
