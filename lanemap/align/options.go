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

// Package align places reads on a composite reference with a seed-and-extend
// heuristic.
//
// Seeds are the non-overlapping 8-base windows of a read, starting from the
// first base. Every exact occurrence of a seed in the reference is extended
// base by base, without gaps, in both directions. The hit with the highest
// score is accepted if the score reaches Options.MinPercentMatch.
//
// The score is the number of matched bases, plus the seed length, in
// percentage of the read length. As the seed bases are also compared in the
// forward extension, a perfectly matched read scores (len+8)*100/len,
// which is above 100.
package align

import (
	"errors"
	"fmt"

	"github.com/shenwei356/LaneMap/lanemap/seq"
)

// SeedLen is the seed length and also the stride of seeds on reads.
const SeedLen = seq.SeedLen

// Extension stops early if at least MinWalk positions are compared
// and the compared positions are more than MaxWalkRatio times of the matches.
const (
	MinWalk      = 24
	MaxWalkRatio = 2
)

// Options contains the options of an Aligner.
type Options struct {
	MinPercentMatch int // minimum score of accepted hits, [50, 98]
}

// DefaultOptions is the default value of Options.
var DefaultOptions = Options{
	MinPercentMatch: 80,
}

// ErrInvalidMinPercentMatch means the minimum score is out of range.
var ErrInvalidMinPercentMatch = errors.New("align: minimum percent match should be in range of [50, 98]")

// ErrNilReference means no reference is given.
var ErrNilReference = errors.New("align: nil reference")

// CheckOptions checks the options.
func CheckOptions(opt *Options) error {
	if opt.MinPercentMatch < 50 || opt.MinPercentMatch > 98 {
		return ErrInvalidMinPercentMatch
	}
	return nil
}

// Status is the outcome of aligning a read.
type Status uint8

const (
	Aligned     Status = iota
	NoSeedHit          // no seed occurs in the reference
	LowScore           // the best score is below the threshold
	OutOfBounds        // the read would start before the reference
)

func (s Status) String() string {
	switch s {
	case Aligned:
		return "aligned"
	case NoSeedHit:
		return "no seed hit"
	case LowScore:
		return "low score"
	case OutOfBounds:
		return "out of bounds"
	}
	return "unknown"
}

// Hit is a candidate placement: a seed at SeqPos of the read occurring at
// RefPos of the reference.
type Hit struct {
	RefPos int
	SeqPos int
	Score  int
}

func (h Hit) String() string {
	return fmt.Sprintf("<%d,%d,%d>", h.RefPos, h.SeqPos, h.Score)
}

// Result is the result of aligning a read.
type Result struct {
	Status Status
	Best   Hit
	Offset int // reference position of the first base, or seq.Unaligned
	Hits   int // number of seed hits
}

// Score returns the score of the best hit.
func (r Result) Score() int { return r.Best.Score }

// OK tells if the read is aligned.
func (r Result) OK() bool { return r.Status == Aligned }
