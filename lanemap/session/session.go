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

// Package session holds the state of an alignment session: the reference,
// the reads, the aligner and the track layout of aligned reads.
package session

import (
	"errors"

	"github.com/shenwei356/LaneMap/lanemap/align"
	"github.com/shenwei356/LaneMap/lanemap/seq"
	"github.com/shenwei356/LaneMap/lanemap/track"
	"github.com/shenwei356/LaneMap/lanemap/util"
	"github.com/willf/bitset"
)

// ErrInvalidRange means the range of read indexes is invalid.
var ErrInvalidRange = errors.New("session: invalid read range")

// Session is not safe for concurrent use.
type Session struct {
	aligner *align.Aligner
	layout  *track.Layout

	reads   []*seq.Sequence
	results []align.Result

	unaligned int

	// OnAttempt, if not nil, is called after each alignment attempt.
	OnAttempt func(i int, s *seq.Sequence, r *align.Result)
}

// New creates a session. dlog could be nil.
func New(ref *seq.Composite, reads []*seq.Sequence, opt *align.Options, dlog *align.DiagLog) (*Session, error) {
	aligner, err := align.New(ref, opt, dlog)
	if err != nil {
		return nil, err
	}
	s := &Session{
		aligner: aligner,
		layout:  track.NewLayout(),
	}
	s.SetReads(reads)
	return s, nil
}

// SetReads replaces the reads and clears the layout.
func (s *Session) SetReads(reads []*seq.Sequence) {
	s.layout.Clear()
	for _, r := range reads {
		r.ResetOffset()
		r.SetDepth(0)
	}
	s.reads = reads
	s.results = make([]align.Result, len(reads))
	s.unaligned = len(reads)
}

// SetMinPercentMatch changes the threshold of following alignments.
func (s *Session) SetMinPercentMatch(m int) error {
	return s.aligner.SetMinPercentMatch(m)
}

// Reference returns the composite reference.
func (s *Session) Reference() *seq.Composite { return s.aligner.Reference() }

// Aligner returns the aligner.
func (s *Session) Aligner() *align.Aligner { return s.aligner }

// Layout returns the track layout of aligned reads.
func (s *Session) Layout() *track.Layout { return s.layout }

// Reads returns all reads.
func (s *Session) Reads() []*seq.Sequence { return s.reads }

// NumReads returns the number of reads.
func (s *Session) NumReads() int { return len(s.reads) }

// Result returns the last alignment result of the i-th read.
func (s *Session) Result(i int) (align.Result, bool) {
	if i < 0 || i >= len(s.results) {
		return align.Result{}, false
	}
	return s.results[i], true
}

// Unaligned returns the number of reads not aligned, updated after each
// alignment.
func (s *Session) Unaligned() int { return s.unaligned }

// AlignOne aligns the i-th read and places it in the layout if aligned.
// A read placed before is taken out of the layout first.
func (s *Session) AlignOne(i int) bool {
	if i < 0 || i >= len(s.reads) {
		return false
	}
	ok := s.align(i)
	s.count()
	return ok
}

func (s *Session) align(i int) bool {
	r := s.reads[i]
	if r.Aligned() {
		s.layout.Remove(r)
	}

	res := s.aligner.Align(r)
	if res.OK() {
		if _, err := s.layout.Add(r); err != nil {
			r.ResetOffset()
			res.Status = align.OutOfBounds
			res.Offset = seq.Unaligned
		}
	}
	s.results[i] = res

	if s.OnAttempt != nil {
		s.OnAttempt(i, r, &res)
	}
	return res.OK()
}

func (s *Session) count() {
	var n int
	for _, r := range s.reads {
		if !r.Aligned() {
			n++
		}
	}
	s.unaligned = n
}

// Batch is the summary of aligning a range of reads.
type Batch struct {
	First, Last int // 0-based, inclusive

	Total  int
	Failed int

	// number of reads of each status
	Status [align.OutOfBounds + 1]int

	// indexes of aligned reads
	Aligned *bitset.BitSet

	// statistics of scores of aligned reads
	MeanScore  float64
	StdevScore float64
}

// AlignAll clears the layout and aligns all reads.
func (s *Session) AlignAll() Batch {
	s.layout.Clear()
	for _, r := range s.reads {
		r.ResetOffset()
	}
	if len(s.reads) == 0 {
		s.unaligned = 0
		return Batch{First: 0, Last: -1, Aligned: bitset.New(0)}
	}
	b, _ := s.AlignRange(0, len(s.reads)-1)
	return b
}

// AlignRange aligns reads from first to last (0-based, inclusive).
func (s *Session) AlignRange(first, last int) (Batch, error) {
	if first < 0 || last >= len(s.reads) || first > last {
		return Batch{}, ErrInvalidRange
	}

	b := Batch{
		First:   first,
		Last:    last,
		Total:   last - first + 1,
		Aligned: bitset.New(uint(len(s.reads))),
	}
	scores := make([]float64, 0, b.Total)
	for i := first; i <= last; i++ {
		if s.align(i) {
			b.Aligned.Set(uint(i))
			scores = append(scores, float64(s.results[i].Score()))
		} else {
			b.Failed++
		}
		b.Status[s.results[i].Status]++
	}
	b.MeanScore, b.StdevScore = util.MeanStdev(scores)

	s.count()
	return b, nil
}
