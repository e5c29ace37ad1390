package pipe

import (
	"bytes"
	"io"
	"sync"
	"unicode/utf8"
)

// Stream serializes drains of one endpoint and clamps every Result to whole
// code points. An incomplete UTF-8 sequence at the end of a transfer is held
// back and prepended to the next one; once the writer is gone it is released
// as-is.
type Stream struct {
	mu     sync.Mutex
	src    Source
	carry  []byte
	closed bool
}

// NewStream wraps src.
func NewStream(src Source) *Stream {
	return &Stream{src: src}
}

// Drain returns the whole code points currently available.
func (s *Stream) Drain() (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, closed, err := drain(s.src)
	if err != nil {
		return Result{}, err
	}
	if closed {
		s.closed = true
	}
	if len(s.carry) > 0 {
		data = append(s.carry, data...)
		s.carry = nil
	}
	if !s.closed {
		if cut := completePrefix(data); cut < len(data) {
			s.carry = bytes.Clone(data[cut:])
			data = data[:cut]
		}
	}
	return NewResult(data), nil
}

// Pending is the number of bytes held back waiting for the rest of a code point.
func (s *Stream) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.carry)
}

// Closed reports whether the writer has been observed to close.
func (s *Stream) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Flush releases any held-back bytes regardless of writer state.
func (s *Stream) Flush() Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	data := s.carry
	s.carry = nil
	return NewResult(data)
}

// Close closes the underlying endpoint when it is closable.
func (s *Stream) Close() error {
	if c, ok := s.src.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// completePrefix returns the length of b without a trailing sequence that is
// a valid but incomplete UTF-8 encoding. Invalid bytes are not held back.
func completePrefix(b []byte) int {
	for i := len(b) - 1; i >= 0 && i >= len(b)-(utf8.UTFMax-1); i-- {
		if !utf8.RuneStart(b[i]) {
			continue
		}
		if !utf8.FullRune(b[i:]) {
			return i
		}
		break
	}
	return len(b)
}
