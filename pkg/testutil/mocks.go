package testutil

import (
	"strings"
)

// FakeSource is a test double for a pipe endpoint. It counts calls so tests
// can assert that no transfer happens when nothing is buffered.
type FakeSource struct {
	BufferedFunc func() (int, error)
	ReadFunc     func(p []byte) (int, error)

	BufferedCalls int
	ReadCalls     int
}

func (f *FakeSource) Buffered() (int, error) {
	f.BufferedCalls++
	if f.BufferedFunc == nil {
		return 0, nil
	}
	return f.BufferedFunc()
}

func (f *FakeSource) Read(p []byte) (int, error) {
	f.ReadCalls++
	if f.ReadFunc == nil {
		return 0, nil
	}
	return f.ReadFunc(p)
}

// QueueSource serves each queued chunk as one buffered batch, then reports
// ClosedErr (if set) once the queue is empty.
type QueueSource struct {
	Chunks    [][]byte
	ClosedErr error

	ReadCalls int
}

func (q *QueueSource) Buffered() (int, error) {
	if len(q.Chunks) == 0 {
		return 0, q.ClosedErr
	}
	return len(q.Chunks[0]), nil
}

func (q *QueueSource) Read(p []byte) (int, error) {
	q.ReadCalls++
	if len(q.Chunks) == 0 {
		return 0, nil
	}
	n := copy(p, q.Chunks[0])
	q.Chunks[0] = q.Chunks[0][n:]
	if len(q.Chunks[0]) == 0 {
		q.Chunks = q.Chunks[1:]
	}
	return n, nil
}

// ContainsDetail checks if any detail string contains the given substring.
func ContainsDetail(details []string, substr string) bool {
	for _, d := range details {
		if strings.Contains(d, substr) {
			return true
		}
	}
	return false
}
