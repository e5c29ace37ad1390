package pipe

import (
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vertti/childproc/pkg/errkind"
	"github.com/vertti/childproc/pkg/testutil"
)

func bytesSource(data []byte) *testutil.FakeSource {
	return &testutil.FakeSource{
		BufferedFunc: func() (int, error) { return len(data), nil },
		ReadFunc:     func(p []byte) (int, error) { return copy(p, data), nil },
	}
}

func TestDrain_NothingBufferedSkipsRead(t *testing.T) {
	src := &testutil.FakeSource{}

	r, err := Drain(src)

	require.NoError(t, err)
	assert.True(t, r.Empty())
	assert.Equal(t, 0, r.Points())
	assert.Equal(t, 1, src.BufferedCalls)
	assert.Equal(t, 0, src.ReadCalls)
}

func TestDrain_WriterClosedIsEmptyNotError(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"closed pipe sentinel", io.ErrClosedPipe},
		{"annotated broken pipe", &errkind.Error{Op: "peek", Kind: errkind.BrokenPipe}},
		{"eof", io.EOF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &testutil.FakeSource{
				BufferedFunc: func() (int, error) { return 0, tt.err },
			}

			r, err := Drain(src)

			require.NoError(t, err)
			assert.True(t, r.Empty())
			assert.Equal(t, 0, src.ReadCalls)
		})
	}
}

func TestDrain_QueryFaultIsFatal(t *testing.T) {
	cause := &errkind.Error{Op: "ioctl", Kind: errkind.InvalidArgument}
	src := &testutil.FakeSource{
		BufferedFunc: func() (int, error) { return 0, cause },
	}

	r, err := Drain(src)

	require.Error(t, err)
	assert.True(t, r.Empty())
	assert.ErrorIs(t, err, ErrPipeFault)
	assert.ErrorIs(t, err, cause)
	var fatal *FatalError
	require.ErrorAs(t, err, &fatal)
	assert.Equal(t, "query", fatal.Op)
	assert.Equal(t, 0, src.ReadCalls)
}

func TestDrain_ReadFaultIsFatal(t *testing.T) {
	cause := errors.New("device gone")
	src := &testutil.FakeSource{
		BufferedFunc: func() (int, error) { return 4, nil },
		ReadFunc:     func(p []byte) (int, error) { return 2, cause },
	}

	r, err := Drain(src)

	assert.ErrorIs(t, err, ErrPipeFault)
	assert.ErrorIs(t, err, cause)
	assert.True(t, r.Empty(), "no partial result on a fatal fault")
	assert.Contains(t, err.Error(), "read")
}

func TestDrain_ShortReadTruncates(t *testing.T) {
	src := &testutil.FakeSource{
		BufferedFunc: func() (int, error) { return 10, nil },
		ReadFunc:     func(p []byte) (int, error) { return copy(p, "h\u00e9y"), nil },
	}

	r, err := Drain(src)

	require.NoError(t, err)
	assert.Equal(t, 4, r.Len())
	assert.Equal(t, 3, r.Points())
	assert.Equal(t, "h\u00e9y", r.String())
	assert.Equal(t, 1, src.ReadCalls)
}

func TestDrain_ReadEOFAfterQueryIsEmpty(t *testing.T) {
	src := &testutil.FakeSource{
		BufferedFunc: func() (int, error) { return 3, nil },
		ReadFunc:     func(p []byte) (int, error) { return 0, io.EOF },
	}

	r, err := Drain(src)

	require.NoError(t, err)
	assert.True(t, r.Empty())
}

func TestDrain_OverReportedReadIsClamped(t *testing.T) {
	src := &testutil.FakeSource{
		BufferedFunc: func() (int, error) { return 2, nil },
		ReadFunc:     func(p []byte) (int, error) { copy(p, "ok"); return 5, nil },
	}

	r, err := Drain(src)

	require.NoError(t, err)
	assert.Equal(t, "ok", r.String())
}

func TestDrain_CodePoints(t *testing.T) {
	tests := []struct {
		name       string
		data       string
		wantBytes  int
		wantPoints int
	}{
		{"ascii", "hello world", 11, 11},
		{"two byte", "h\u00e9llo", 6, 5},
		{"combining mark", "e\u0301", 3, 2},
		{"three byte", "日本語", 9, 3},
		{"four byte", "a😀b", 6, 3},
		{"invalid byte", "a\xffb", 3, 3},
		{"split at end", "ab\xe6\x97", 4, 4},
		{"lone continuation", "\x80\x80", 2, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Drain(bytesSource([]byte(tt.data)))
			require.NoError(t, err)
			assert.Equal(t, tt.wantBytes, r.Len())
			assert.Equal(t, tt.wantPoints, r.Points())
		})
	}
}

func TestDrain_PointsMatchDecodedBytes(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	alphabet := []string{"a", "\u00e9", "e\u0301", "日", "😀", "\xff", "\xe6", "\x97", " "}

	for i := range 500 {
		var data []byte
		for range rng.IntN(40) {
			data = append(data, alphabet[rng.IntN(len(alphabet))]...)
		}
		short := len(data)
		if short > 0 {
			short = rng.IntN(len(data) + 1)
		}
		src := &testutil.FakeSource{
			BufferedFunc: func() (int, error) { return len(data), nil },
			ReadFunc:     func(p []byte) (int, error) { return copy(p[:short], data), nil },
		}

		r, err := Drain(src)
		require.NoError(t, err)
		require.Equal(t, short, r.Len(), "case %d", i)
		require.Equal(t, utf8.RuneCount(data[:short]), r.Points(), "case %d", i)
	}
}

func TestResult(t *testing.T) {
	r := NewResult([]byte("\u00e9x"))

	assert.Equal(t, 3, r.Len())
	assert.Equal(t, 2, r.Points())
	assert.Equal(t, 2, r.Graphemes())
	assert.False(t, r.Empty())

	b := r.Bytes()
	b[0] = 'Z'
	assert.Equal(t, "\u00e9x", r.String(), "Bytes must return a copy")

	decomposed := NewResult([]byte("e\u0301x"))
	assert.Equal(t, 4, decomposed.Len())
	assert.Equal(t, 3, decomposed.Points())
	assert.Equal(t, 2, decomposed.Graphemes())

	var zero Result
	assert.True(t, zero.Empty())
	assert.Equal(t, 0, zero.Graphemes())
	assert.Equal(t, "", zero.String())
}

func TestFatalError_Message(t *testing.T) {
	err := &FatalError{Op: "query", Err: fmt.Errorf("bad handle")}
	assert.Equal(t, "pipe fault: query: bad handle", err.Error())
}
