package pipe

import (
	"bytes"
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

// Result is an immutable snapshot of bytes drained from a pipe.
type Result struct {
	data   []byte
	points int
}

// NewResult takes ownership of b. The code point count is always derived from
// b itself: each complete UTF-8 sequence counts once and each byte that does
// not start one counts once (as U+FFFD would), so decoding never steps past
// the end of b.
func NewResult(b []byte) Result {
	if len(b) == 0 {
		return Result{}
	}
	return Result{data: b, points: utf8.RuneCount(b)}
}

// Len is the number of bytes actually obtained.
func (r Result) Len() int { return len(r.data) }

// Points is the number of decoded code points.
func (r Result) Points() int { return r.points }

// Empty reports whether nothing was drained.
func (r Result) Empty() bool { return len(r.data) == 0 }

// Bytes returns a copy of the drained bytes.
func (r Result) Bytes() []byte { return bytes.Clone(r.data) }

func (r Result) String() string { return string(r.data) }

// Graphemes counts user-perceived characters.
func (r Result) Graphemes() int {
	if len(r.data) == 0 {
		return 0
	}
	return uniseg.GraphemeClusterCount(string(r.data))
}
