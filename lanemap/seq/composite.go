// Copyright © 2023-2024 Wei Shen <shenwei356@gmail.com>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package seq

import (
	"errors"
	"sort"

	"github.com/zeebo/wyhash"
)

// SeedLen is the length of seeds searched in a composite reference.
const SeedLen = 8

// DefaultSeparator joins reference entries in a composite reference.
var DefaultSeparator = []byte("**********")

// ErrInvalidSeparator means the separator could be matched by a seed.
var ErrInvalidSeparator = errors.New("seq: separator should be longer than the seed length and contain no nucleotide characters")

// ErrNoReference means no reference sequences are given.
var ErrNoReference = errors.New("seq: no reference sequences")

// Composite is the concatenation of reference sequences separated by a
// separator which no seed could match.
type Composite struct {
	Seq []byte

	IDs    []string // IDs of reference entries
	Starts []int    // start positions of entries in Seq
	Lens   []int    // lengths of entries

	sepLen int
}

// NewComposite concatenates the reference sequences.
// The DefaultSeparator is used if sep is nil.
func NewComposite(refs []*Sequence, sep []byte) (*Composite, error) {
	if len(refs) == 0 {
		return nil, ErrNoReference
	}
	if sep == nil {
		sep = DefaultSeparator
	}
	if len(sep) <= SeedLen {
		return nil, ErrInvalidSeparator
	}
	for _, b := range sep {
		if validBases[b] {
			return nil, ErrInvalidSeparator
		}
	}

	n := len(sep) * (len(refs) - 1)
	for _, r := range refs {
		n += len(r.Seq)
	}

	c := &Composite{
		Seq:    make([]byte, 0, n),
		IDs:    make([]string, 0, len(refs)),
		Starts: make([]int, 0, len(refs)),
		Lens:   make([]int, 0, len(refs)),
		sepLen: len(sep),
	}
	for i, r := range refs {
		if i > 0 {
			c.Seq = append(c.Seq, sep...)
		}
		c.IDs = append(c.IDs, r.ID)
		c.Starts = append(c.Starts, len(c.Seq))
		c.Lens = append(c.Lens, len(r.Seq))
		c.Seq = append(c.Seq, r.Seq...)
	}
	return c, nil
}

// Len returns the length of the composite sequence.
func (c *Composite) Len() int { return len(c.Seq) }

// NumRefs returns the number of reference entries.
func (c *Composite) NumRefs() int { return len(c.IDs) }

// Locate returns the index of the reference entry containing pos,
// and the position in that entry.
// ok is false if pos is out of range or in a separator.
func (c *Composite) Locate(pos int) (idx int, local int, ok bool) {
	if pos < 0 || pos >= len(c.Seq) {
		return -1, -1, false
	}
	// the last entry starting at or before pos
	idx = sort.Search(len(c.Starts), func(i int) bool { return c.Starts[i] > pos }) - 1
	local = pos - c.Starts[idx]
	if local >= c.Lens[idx] {
		return -1, -1, false
	}
	return idx, local, true
}

// Fingerprint returns a hash value of the composite sequence,
// for telling whether two runs used the same reference.
func (c *Composite) Fingerprint() uint64 {
	return wyhash.Hash(c.Seq, uint64(c.sepLen))
}
