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

package align

import (
	"bytes"

	"github.com/shenwei356/kmers"
)

// SeedIndex stores the positions of all seed-sized windows of a reference.
// Windows are keyed by their 2-bit codes, so that candidate positions are
// checked with an exact comparison. Seeds that can not be encoded,
// e.g., those containing X, '-' or '.', are searched by scanning.
type SeedIndex struct {
	ref  []byte
	locs map[uint64][]int32
}

// NewSeedIndex builds the index of a reference sequence.
func NewSeedIndex(ref []byte) *SeedIndex {
	idx := &SeedIndex{
		ref:  ref,
		locs: make(map[uint64][]int32, len(ref)>>2),
	}

	var code uint64
	var err error
	for i := 0; i+SeedLen <= len(ref); i++ {
		code, err = kmers.Encode(ref[i : i+SeedLen])
		if err != nil { // separators and other characters
			continue
		}
		idx.locs[code] = append(idx.locs[code], int32(i))
	}
	return idx
}

// Find appends the positions of all exact occurrences of the seed to locs,
// in ascending order. Overlapping occurrences are all reported.
func (idx *SeedIndex) Find(seed []byte, locs []int) []int {
	if len(seed) != SeedLen {
		return locs
	}

	code, err := kmers.Encode(seed)
	if err != nil {
		return idx.scan(seed, locs)
	}

	var p int
	for _, pos := range idx.locs[code] {
		p = int(pos)
		// different bases could share a code, e.g., "a" and "A".
		if bytes.Equal(idx.ref[p:p+SeedLen], seed) {
			locs = append(locs, p)
		}
	}
	return locs
}

func (idx *SeedIndex) scan(seed []byte, locs []int) []int {
	var i, j int
	for {
		j = bytes.Index(idx.ref[i:], seed)
		if j < 0 {
			return locs
		}
		locs = append(locs, i+j)
		i += j + 1
	}
}
