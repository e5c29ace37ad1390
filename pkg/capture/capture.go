// Package capture accumulates the chunks drained from one child stream.
package capture

import (
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"
	"strings"

	"github.com/zeebo/blake3"

	"github.com/vertti/childproc/pkg/pipe"
)

// Algorithm names the digest computed over a stream.
type Algorithm string

const (
	AlgorithmBLAKE3 Algorithm = "blake3"
	AlgorithmSHA256 Algorithm = "sha256"
	AlgorithmSHA512 Algorithm = "sha512"
)

// ParseAlgorithm accepts an algorithm name case-insensitively. The empty
// string selects BLAKE3.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch a := Algorithm(strings.ToLower(strings.TrimSpace(s))); a {
	case "":
		return AlgorithmBLAKE3, nil
	case AlgorithmBLAKE3, AlgorithmSHA256, AlgorithmSHA512:
		return a, nil
	default:
		return "", fmt.Errorf("unsupported digest algorithm %q (use blake3, sha256 or sha512)", s)
	}
}

func (a Algorithm) newHasher() hash.Hash {
	switch a {
	case AlgorithmSHA256:
		return sha256.New()
	case AlgorithmSHA512:
		return sha512.New()
	default:
		return blake3.New()
	}
}

// Capture totals the Results drained from a stream. The zero value is not
// usable; call New.
type Capture struct {
	Name string

	algo      Algorithm
	hasher    hash.Hash
	bytes     int
	points    int
	graphemes int
	chunks    int
}

// New returns an empty capture for the named stream.
func New(name string, algo Algorithm) *Capture {
	if algo == "" {
		algo = AlgorithmBLAKE3
	}
	return &Capture{Name: name, algo: algo, hasher: algo.newHasher()}
}

// Add folds one drained Result in. Empty results are ignored. Grapheme
// clusters are counted per chunk, so a cluster made of several code points
// that straddles two chunks counts twice.
func (c *Capture) Add(r pipe.Result) {
	if r.Empty() {
		return
	}
	_, _ = c.hasher.Write(r.Bytes())
	c.bytes += r.Len()
	c.points += r.Points()
	c.graphemes += r.Graphemes()
	c.chunks++
}

func (c *Capture) Bytes() int     { return c.bytes }
func (c *Capture) Points() int    { return c.points }
func (c *Capture) Graphemes() int { return c.graphemes }
func (c *Capture) Chunks() int    { return c.chunks }

// Algorithm returns the digest algorithm in use.
func (c *Capture) Algorithm() Algorithm { return c.algo }

// Digest returns the hex digest of everything added so far.
func (c *Capture) Digest() string {
	return hex.EncodeToString(c.hasher.Sum(nil))
}

// Details renders the totals as "label: value" lines for a report.
func (c *Capture) Details() []string {
	return []string{
		fmt.Sprintf("%s: %d bytes, %d code points, %d graphemes in %d chunks",
			c.Name, c.bytes, c.points, c.graphemes, c.chunks),
		fmt.Sprintf("%s %s: %s", c.Name, c.algo, c.Digest()),
	}
}
