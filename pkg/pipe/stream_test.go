package pipe

import (
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vertti/childproc/pkg/testutil"
)

func TestStream_HoldsBackSplitCodePoint(t *testing.T) {
	src := &testutil.QueueSource{Chunks: [][]byte{
		[]byte("a\xe4\xb8"),
		[]byte("\xadb"),
	}}
	s := NewStream(src)

	r, err := s.Drain()
	require.NoError(t, err)
	assert.Equal(t, "a", r.String())
	assert.Equal(t, 1, r.Points())
	assert.Equal(t, 2, s.Pending())

	r, err = s.Drain()
	require.NoError(t, err)
	assert.Equal(t, "中b", r.String())
	assert.Equal(t, 2, r.Points())
	assert.Equal(t, 0, s.Pending())
}

func TestStream_NothingNewKeepsCarry(t *testing.T) {
	src := &testutil.QueueSource{Chunks: [][]byte{[]byte("\xf0\x9f")}}
	s := NewStream(src)

	r, err := s.Drain()
	require.NoError(t, err)
	assert.True(t, r.Empty())
	assert.Equal(t, 2, s.Pending())

	r, err = s.Drain()
	require.NoError(t, err)
	assert.True(t, r.Empty())
	assert.Equal(t, 2, s.Pending())
	assert.False(t, s.Closed())
}

func TestStream_ReleasesCarryWhenWriterCloses(t *testing.T) {
	src := &testutil.QueueSource{
		Chunks:    [][]byte{[]byte("ok\xe4")},
		ClosedErr: io.ErrClosedPipe,
	}
	s := NewStream(src)

	r, err := s.Drain()
	require.NoError(t, err)
	assert.Equal(t, "ok", r.String())

	r, err = s.Drain()
	require.NoError(t, err)
	assert.Equal(t, "\xe4", r.String())
	assert.Equal(t, 1, r.Points())
	assert.True(t, s.Closed())

	r, err = s.Drain()
	require.NoError(t, err)
	assert.True(t, r.Empty())
}

func TestStream_InvalidBytesAreNotHeld(t *testing.T) {
	s := NewStream(&testutil.QueueSource{Chunks: [][]byte{[]byte("x\xff")}})

	r, err := s.Drain()
	require.NoError(t, err)
	assert.Equal(t, 2, r.Len())
	assert.Equal(t, 0, s.Pending())
}

func TestStream_Flush(t *testing.T) {
	s := NewStream(&testutil.QueueSource{Chunks: [][]byte{[]byte("\xe4\xb8")}})

	_, err := s.Drain()
	require.NoError(t, err)

	r := s.Flush()
	assert.Equal(t, 2, r.Len())
	assert.Equal(t, 0, s.Pending())
	assert.True(t, s.Flush().Empty())
}

func TestStream_ConcurrentDrainsSeeEveryByteOnce(t *testing.T) {
	var chunks [][]byte
	for range 200 {
		chunks = append(chunks, []byte("日本"))
	}
	s := NewStream(&testutil.QueueSource{Chunks: chunks})

	var (
		mu    sync.Mutex
		total int
		wg    sync.WaitGroup
	)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 50 {
				r, err := s.Drain()
				if !assert.NoError(t, err) {
					return
				}
				mu.Lock()
				total += r.Points()
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 400, total)
}

func TestStream_CloseWithoutCloser(t *testing.T) {
	s := NewStream(&testutil.QueueSource{})
	assert.NoError(t, s.Close())
}

func TestCompletePrefix(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want int
	}{
		{"empty", "", 0},
		{"ascii", "abc", 3},
		{"complete multibyte", "a日", 4},
		{"one of three", "a\xe6", 1},
		{"two of three", "a\xe6\x97", 1},
		{"three of four", "\xf0\x9f\x98", 0},
		{"invalid lead", "a\xff", 2},
		{"continuations only", "\x80\x80\x80\x80", 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, completePrefix([]byte(tt.in)))
		})
	}
}
