package capture

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeebo/blake3"

	"github.com/vertti/childproc/pkg/pipe"
)

func TestParseAlgorithm(t *testing.T) {
	tests := []struct {
		input   string
		want    Algorithm
		wantErr bool
	}{
		{"", AlgorithmBLAKE3, false},
		{"blake3", AlgorithmBLAKE3, false},
		{"SHA256", AlgorithmSHA256, false},
		{" sha512 ", AlgorithmSHA512, false},
		{"md5", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseAlgorithm(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCapture_Totals(t *testing.T) {
	c := New("stdout", "")
	c.Add(pipe.NewResult([]byte("hello ")))
	c.Add(pipe.Result{})
	c.Add(pipe.NewResult([]byte("w\u00f6rld")))

	assert.Equal(t, AlgorithmBLAKE3, c.Algorithm())
	assert.Equal(t, 12, c.Bytes())
	assert.Equal(t, 11, c.Points())
	assert.Equal(t, 11, c.Graphemes())
	assert.Equal(t, 2, c.Chunks(), "empty results are not chunks")
}

func TestCapture_DigestMatchesWholeStream(t *testing.T) {
	whole := []byte("hello world, split across chunks")

	for _, algo := range []Algorithm{AlgorithmBLAKE3, AlgorithmSHA256, AlgorithmSHA512} {
		t.Run(string(algo), func(t *testing.T) {
			split := New("stdout", algo)
			split.Add(pipe.NewResult([]byte(string(whole[:5]))))
			split.Add(pipe.NewResult([]byte(string(whole[5:]))))

			once := New("stdout", algo)
			once.Add(pipe.NewResult([]byte(string(whole))))

			assert.Equal(t, once.Digest(), split.Digest())
		})
	}
}

func TestCapture_KnownDigests(t *testing.T) {
	data := []byte("hello world")

	b3 := New("out", AlgorithmBLAKE3)
	b3.Add(pipe.NewResult([]byte(string(data))))
	sum := blake3.Sum256(data)
	assert.Equal(t, hex.EncodeToString(sum[:]), b3.Digest())

	s256 := New("out", AlgorithmSHA256)
	s256.Add(pipe.NewResult([]byte(string(data))))
	want := sha256.Sum256(data)
	assert.Equal(t, hex.EncodeToString(want[:]), s256.Digest())
}

func TestCapture_Details(t *testing.T) {
	c := New("stderr", AlgorithmSHA256)
	c.Add(pipe.NewResult([]byte("oops")))

	details := c.Details()
	require.Len(t, details, 2)
	assert.Equal(t, "stderr: 4 bytes, 4 code points, 4 graphemes in 1 chunks", details[0])
	assert.Contains(t, details[1], "stderr sha256: ")
	assert.Len(t, details[1], len("stderr sha256: ")+64)
}
