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
	"github.com/shenwei356/LaneMap/lanemap/seq"
)

// Aligner aligns reads against a composite reference.
type Aligner struct {
	options *Options

	ref   *seq.Composite
	seeds *SeedIndex

	dlog *DiagLog

	locs []int // buffer of seed positions
}

// New creates an Aligner. dlog could be nil for no diagnostic logging.
func New(ref *seq.Composite, opt *Options, dlog *DiagLog) (*Aligner, error) {
	if ref == nil {
		return nil, ErrNilReference
	}
	if opt == nil {
		opt = &DefaultOptions
	}
	if err := CheckOptions(opt); err != nil {
		return nil, err
	}

	_opt := *opt
	return &Aligner{
		options: &_opt,
		ref:     ref,
		seeds:   NewSeedIndex(ref.Seq),
		dlog:    dlog,
		locs:    make([]int, 0, 64),
	}, nil
}

// Reference returns the reference.
func (a *Aligner) Reference() *seq.Composite { return a.ref }

// MinPercentMatch returns the minimum score of accepted hits.
func (a *Aligner) MinPercentMatch() int { return a.options.MinPercentMatch }

// SetMinPercentMatch changes the minimum score of accepted hits.
func (a *Aligner) SetMinPercentMatch(m int) error {
	opt := Options{MinPercentMatch: m}
	if err := CheckOptions(&opt); err != nil {
		return err
	}
	a.options.MinPercentMatch = m
	return nil
}

// Align finds the best placement of a read. The offset of the read is set
// if it is aligned, or reset to seq.Unaligned otherwise.
// Every attempt is written to the diagnostic log.
func (a *Aligner) Align(s *seq.Sequence) Result {
	best := Hit{RefPos: -1, SeqPos: -1}
	var nHits, score int

	read := s.Seq
	for i := 0; i+SeedLen <= len(read); i += SeedLen {
		a.locs = a.seeds.Find(read[i:i+SeedLen], a.locs[:0])
		for _, pos := range a.locs {
			nHits++
			score = a.ExtendMatch(s, pos, i)
			if score > best.Score { // the first one wins in ties
				best = Hit{RefPos: pos, SeqPos: i, Score: score}
			}
		}
	}

	r := Result{Best: best, Offset: seq.Unaligned, Hits: nHits}
	switch {
	case nHits == 0:
		r.Status = NoSeedHit
	case best.Score <= 0 || best.Score < a.options.MinPercentMatch:
		r.Status = LowScore
	case best.RefPos < best.SeqPos:
		r.Status = OutOfBounds
	default:
		r.Status = Aligned
		r.Offset = best.RefPos - best.SeqPos
	}

	if r.Status == Aligned {
		s.SetOffset(r.Offset)
	} else {
		s.ResetOffset()
	}

	a.dlog.Attempt(s, &r)
	return r
}

// ExtendMatch scores the hit of the seed at seqPos of the read and refPos
// of the reference. Early terminations are written to the diagnostic log.
func (a *Aligner) ExtendMatch(s *seq.Sequence, refPos, seqPos int) int {
	e := Extend(a.ref.Seq, s.Seq, refPos, seqPos)
	if e.Terminated {
		a.dlog.EarlyTermination(s, refPos, seqPos, &e)
	}
	return e.Score
}

// Extension is the result of extending a seed hit.
type Extension struct {
	Score      int
	Matches    int // including the seed credit
	Walked     int // compared positions in the last extended direction
	Terminated bool
}

// Extend compares the read and the reference base by base, forward from the
// seed start and backward from the base before it, and returns the score.
// The match counter starts with the seed length. In either direction, the
// extension stops with a score of 0 once a mismatch is met after at least
// MinWalk compared positions, with the compared positions being more than
// MaxWalkRatio times the matches.
func Extend(ref, read []byte, refPos, seqPos int) Extension {
	e := Extension{Matches: SeedLen}
	if len(read) == 0 {
		return e
	}

	// forward, the seed itself is compared again.
	r, q := refPos, seqPos
	for r < len(ref) && q < len(read) {
		if ref[r] == read[q] {
			e.Matches++
		} else if e.Walked >= MinWalk && e.Walked > MaxWalkRatio*e.Matches {
			e.Terminated = true
			return e
		}
		e.Walked++
		r++
		q++
	}

	// backward
	e.Walked = 0
	r, q = refPos-1, seqPos-1
	for r >= 0 && q >= 0 {
		if ref[r] == read[q] {
			e.Matches++
		} else if e.Walked >= MinWalk && e.Walked > MaxWalkRatio*e.Matches {
			e.Terminated = true
			return e
		}
		e.Walked++
		r--
		q--
	}

	e.Score = e.Matches * 100 / len(read)
	return e
}
