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

// Package seq provides validated nucleotide sequence records and the
// composite reference built from them.
package seq

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/shenwei356/LaneMap/lanemap/util"
)

// Unaligned is the offset of a sequence that is not placed on the reference.
const Unaligned = -1

// LineWidth is the line width of sequences in FASTA output.
var LineWidth = 50

// ErrEmptyID means the sequence identifier is empty.
var ErrEmptyID = errors.New("seq: empty sequence id")

// ErrInvalidBase means the sequence contains a character out of the alphabet.
var ErrInvalidBase = errors.New("seq: invalid nucleotide")

// InvalidBaseError reports the first invalid character of a sequence.
type InvalidBaseError struct {
	ID   string
	Pos  int
	Base byte
}

func (e *InvalidBaseError) Error() string {
	return fmt.Sprintf("seq: invalid nucleotide '%c' at position %d of %s", e.Base, e.Pos+1, e.ID)
}

// Is makes errors.Is(err, ErrInvalidBase) work.
func (e *InvalidBaseError) Is(target error) bool { return target == ErrInvalidBase }

// Alphabet lists all valid characters.
const Alphabet = "AaTtGgCcXxNn-."

var validBases [256]bool

func init() {
	for i := 0; i < len(Alphabet); i++ {
		validBases[Alphabet[i]] = true
	}
}

// IsValidBase tells if b is in the alphabet.
func IsValidBase(b byte) bool { return validBases[b] }

// Sequence is a nucleotide sequence record.
// The offset is set by aligners and the depth by track layouts.
type Sequence struct {
	ID     string // the first word of the header
	Header string // the full header, without '>'
	Seq    []byte

	offset int
	depth  int
}

// NewSequence creates a Sequence from a header line (with or without the
// leading '>') and the bases. Invalid records are rejected here.
func NewSequence(header string, s []byte) (*Sequence, error) {
	header = strings.TrimPrefix(header, ">")
	header = strings.TrimRight(header, "\r\n")

	id := header
	if i := strings.IndexAny(header, " \t"); i >= 0 {
		id = header[:i]
	}
	if id == "" {
		return nil, ErrEmptyID
	}

	for i, b := range s {
		if !validBases[b] {
			return nil, &InvalidBaseError{ID: id, Pos: i, Base: b}
		}
	}

	return &Sequence{
		ID:     id,
		Header: header,
		Seq:    s,
		offset: Unaligned,
	}, nil
}

// Len returns the number of bases.
func (s *Sequence) Len() int { return len(s.Seq) }

// Offset returns the reference position of the first base,
// or Unaligned.
func (s *Sequence) Offset() int { return s.offset }

// SetOffset records the reference position of the first base.
func (s *Sequence) SetOffset(offset int) { s.offset = offset }

// ResetOffset marks the sequence as unaligned.
func (s *Sequence) ResetOffset() { s.offset = Unaligned }

// Aligned tells if the sequence has been placed on the reference.
func (s *Sequence) Aligned() bool { return s.offset >= 0 }

// End returns the reference position of the last base.
func (s *Sequence) End() int { return s.offset + len(s.Seq) - 1 }

// Depth returns the lane index assigned by a layout.
func (s *Sequence) Depth() int { return s.depth }

// SetDepth sets the lane index.
func (s *Sequence) SetDepth(d int) { s.depth = d }

// Overlaps tells if the closed reference intervals of two aligned
// sequences intersect.
func (s *Sequence) Overlaps(o *Sequence) bool {
	return !(s.End() < o.offset || o.End() < s.offset)
}

// Covers tells if pos is in the reference interval of the sequence.
func (s *Sequence) Covers(pos int) bool {
	return s.Aligned() && pos >= s.offset && pos <= s.End()
}

func (s *Sequence) String() string {
	return fmt.Sprintf("%s, len:%d, offset:%d, depth:%d", s.ID, len(s.Seq), s.offset, s.depth)
}

// Format returns the record in FASTA format, with sequences wrapped
// by LineWidth.
func (s *Sequence) Format() []byte {
	var buf bytes.Buffer
	buf.WriteByte('>')
	buf.WriteString(s.Header)
	buf.WriteByte('\n')
	wrapped, _ := util.WrapByteSlice(s.Seq, LineWidth, nil)
	buf.Write(wrapped)
	buf.WriteByte('\n')
	return buf.Bytes()
}
