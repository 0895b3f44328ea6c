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
	"strings"
	"testing"

	"github.com/shenwei356/LaneMap/lanemap/seq"
)

func newSeq(t *testing.T, id string, s string) *seq.Sequence {
	r, err := seq.NewSequence(id, []byte(s))
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func newAligner(t *testing.T, minPercent int, dlog *DiagLog, refs ...string) *Aligner {
	_refs := make([]*seq.Sequence, len(refs))
	for i, r := range refs {
		_refs[i] = newSeq(t, "ref"+strings.Repeat("_", i), r)
	}
	ref, err := seq.NewComposite(_refs, nil)
	if err != nil {
		t.Fatal(err)
	}
	a, err := New(ref, &Options{MinPercentMatch: minPercent}, dlog)
	if err != nil {
		t.Fatal(err)
	}
	return a
}

func TestSeedIndex(t *testing.T) {
	tests := []struct {
		ref      string
		seed     string
		expected []int
	}{
		{"AAAAAAAAAA", "AAAAAAAA", []int{0, 1, 2}},
		{"acgtacgtACGTACGT", "ACGTACGT", []int{8}},
		{"acgtacgtACGTACGT", "acgtacgt", []int{0}},
		{"AAAAAAAANNNNNNNN", "NNNNNNNN", []int{8}},
		{"AAAAAAAANNNNNNNN", "AAAAAAAA", []int{0}},
		{"TTACGT-ACGTT", "ACGT-ACG", []int{2}},
		{"ACGT.ACGxACGT.ACG", "ACGT.ACG", []int{0, 9}},
		{"ACGTACG**********CGTACGTT", "ACGTACGT", nil},
		{"ACGTACGTT", "GGGGGGGG", nil},
		{"ACGTACGTT", "ACGT", nil},
	}

	for _, test := range tests {
		idx := NewSeedIndex([]byte(test.ref))
		locs := idx.Find([]byte(test.seed), nil)
		if len(locs) != len(test.expected) {
			t.Errorf("%s in %s: expected %v, results: %v", test.seed, test.ref, test.expected, locs)
			continue
		}
		for i, p := range locs {
			if p != test.expected[i] {
				t.Errorf("%s in %s: expected %v, results: %v", test.seed, test.ref, test.expected, locs)
				break
			}
		}
	}
}

// reference with ACGTACGT at 16, read with two mismatches after the seed.
var (
	refA  = "TTGCATTGCATTGCAT" + "ACGTACGT" + "GA" + "CCTTAAGGCCTTAAGG"
	readA = "ACGTACGT" + "TC" + "CCTTAAGGCCTTAAGG"
)

func TestAlignScenarioA(t *testing.T) {
	var buf bytes.Buffer
	a := newAligner(t, 80, NewDiagLogWriter(&buf), refA)

	s := newSeq(t, "readA sample", readA)
	r := a.Align(s)
	if !r.OK() {
		t.Errorf("read should be aligned, status: %s, hit: %s", r.Status, r.Best)
		return
	}
	if r.Offset != 16 || s.Offset() != 16 {
		t.Errorf("expected offset: 16, result: %d, %d", r.Offset, s.Offset())
	}
	if r.Best.RefPos != 16 || r.Best.SeqPos != 0 {
		t.Errorf("the first seed should win in ties, best: %s", r.Best)
	}
	// 8 + 24 matched bases, of 26
	if r.Score() != 3200/26 {
		t.Errorf("expected score: %d, result: %d", 3200/26, r.Score())
	}
	if r.Score() < a.MinPercentMatch() {
		t.Errorf("accepted score should not be smaller than the threshold")
	}
	if r.Hits != 2 {
		t.Errorf("expected hits: 2, result: %d", r.Hits)
	}

	log := buf.String()
	if !strings.Contains(log, "readA sample: aligned at 16") {
		t.Errorf("unexpected log: %s", log)
	}
}

func TestAlignScenarioB(t *testing.T) {
	var buf bytes.Buffer
	a := newAligner(t, 80, NewDiagLogWriter(&buf), strings.Repeat("ACGT", 10))

	s := newSeq(t, "readB", "TTTTTTTTGGGGGGGGCCCC")
	s.SetOffset(3)
	r := a.Align(s)
	if r.OK() || r.Status != NoSeedHit {
		t.Errorf("read should not be aligned, status: %s", r.Status)
	}
	if r.Offset != seq.Unaligned || s.Offset() != seq.Unaligned || s.Aligned() {
		t.Errorf("read should be marked as unaligned")
	}
	if !strings.Contains(buf.String(), "readB: not aligned (no seed hit)") {
		t.Errorf("unexpected log: %s", buf.String())
	}
}

func TestAlignThreshold(t *testing.T) {
	ref := "ACGTACGT" + strings.Repeat("A", 20)
	read := "ACGTACGT" + strings.Repeat("C", 12)

	// (8 + 8) * 100 / 20 = 80
	a := newAligner(t, 80, nil, ref)
	r := a.Align(newSeq(t, "r", read))
	if !r.OK() || r.Score() != 80 || r.Offset != 0 {
		t.Errorf("score equal to the threshold should be accepted: %s %s", r.Status, r.Best)
	}

	if err := a.SetMinPercentMatch(85); err != nil {
		t.Error(err)
		return
	}
	r = a.Align(newSeq(t, "r", read))
	if r.Status != LowScore {
		t.Errorf("expected low score, result: %s %s", r.Status, r.Best)
	}

	if err := a.SetMinPercentMatch(99); err != ErrInvalidMinPercentMatch {
		t.Errorf("99 should be rejected")
	}
	if err := a.SetMinPercentMatch(49); err != ErrInvalidMinPercentMatch {
		t.Errorf("49 should be rejected")
	}
	if a.MinPercentMatch() != 85 {
		t.Errorf("invalid values should not change the threshold")
	}
}

func TestAlignLastWindow(t *testing.T) {
	a := newAligner(t, 80, nil, "TTTTACGTACGTTTTT")
	r := a.Align(newSeq(t, "r", "ACGTACGT"))
	if !r.OK() || r.Offset != 4 {
		t.Errorf("read of one seed should be aligned: %s %s", r.Status, r.Best)
	}
	// seed bases are counted twice
	if r.Score() != 200 {
		t.Errorf("expected score: 200, result: %d", r.Score())
	}
}

func TestAlignOutOfBounds(t *testing.T) {
	a := newAligner(t, 80, nil, "GGG"+"ACGTTGCA"+"GGGGG")
	s := newSeq(t, "r", "CCCCCCCC"+"ACGTTGCA")
	r := a.Align(s)
	if r.Status != OutOfBounds || s.Aligned() {
		t.Errorf("expected out of bounds, result: %s %s", r.Status, r.Best)
	}
	if r.Best.RefPos != 3 || r.Best.SeqPos != 8 {
		t.Errorf("unexpected best hit: %s", r.Best)
	}
}

func TestAlignMultipleEntries(t *testing.T) {
	a := newAligner(t, 80, nil,
		"CATCATCATCATCATCATCAT",
		"GGGTTTCCCAAAGGGTTTCCCAAA")

	read := "TTTCCCAAAGGGTTTC"
	s := newSeq(t, "r", read)
	r := a.Align(s)
	if !r.OK() {
		t.Errorf("read should be aligned: %s %s", r.Status, r.Best)
		return
	}
	idx, local, ok := a.Reference().Locate(r.Offset)
	if !ok || idx != 1 || local != 3 {
		t.Errorf("expected (1, 3), result: (%d, %d, %v)", idx, local, ok)
	}
}

func TestExtend(t *testing.T) {
	ref := []byte(refA)
	read := []byte(readA)

	e1 := Extend(ref, read, 16, 0)
	e2 := Extend(ref, read, 16, 0)
	if e1 != e2 {
		t.Errorf("extension should be deterministic: %v, %v", e1, e2)
	}

	// the hit of the third seed gives the same score with backward extension
	e3 := Extend(ref, read, 32, 16)
	if e3.Score != e1.Score || e3.Matches != 32 {
		t.Errorf("expected the same score, results: %d, %d", e1.Score, e3.Score)
	}

	if e := Extend(ref, nil, 0, 0); e.Score != 0 {
		t.Errorf("empty read should score 0")
	}
}

func TestExtendEarlyTermination(t *testing.T) {
	ref := "ACGTACGT" + strings.Repeat("A", 60)
	read := "ACGTACGT" + strings.Repeat("C", 60)

	e := Extend([]byte(ref), []byte(read), 0, 0)
	if !e.Terminated || e.Score != 0 {
		t.Errorf("extension should be terminated: %+v", e)
	}
	// 16 matches, stopped at the first mismatch after 32 compared positions
	if e.Matches != 16 || e.Walked != 33 {
		t.Errorf("unexpected stopping point: %+v", e)
	}

	var buf bytes.Buffer
	a := newAligner(t, 80, NewDiagLogWriter(&buf), ref)
	r := a.Align(newSeq(t, "bad", read))
	if r.Status != LowScore || r.Score() != 0 {
		t.Errorf("expected low score, result: %s %s", r.Status, r.Best)
	}
	if !strings.Contains(buf.String(), "bad: early termination of hit <0,0>") {
		t.Errorf("unexpected log: %s", buf.String())
	}
}

func TestNewAligner(t *testing.T) {
	if _, err := New(nil, nil, nil); err != ErrNilReference {
		t.Errorf("expected ErrNilReference, got %v", err)
	}

	ref, _ := seq.NewComposite([]*seq.Sequence{newSeq(t, "r", "ACGT")}, nil)
	if _, err := New(ref, &Options{MinPercentMatch: 20}, nil); err != ErrInvalidMinPercentMatch {
		t.Errorf("expected ErrInvalidMinPercentMatch, got %v", err)
	}
	a, err := New(ref, nil, nil)
	if err != nil {
		t.Error(err)
		return
	}
	if a.MinPercentMatch() != DefaultOptions.MinPercentMatch {
		t.Errorf("default options should be used")
	}
	a.SetMinPercentMatch(90)
	if DefaultOptions.MinPercentMatch != 80 {
		t.Errorf("default options should not be changed")
	}
}
