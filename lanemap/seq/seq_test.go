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
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestNewSequence(t *testing.T) {
	s, err := NewSequence(">read_1 sample A", []byte("ACGTacgtNnXx-."))
	if err != nil {
		t.Error(err)
		return
	}
	if s.ID != "read_1" {
		t.Errorf("expected id: read_1, result: %s", s.ID)
	}
	if s.Header != "read_1 sample A" {
		t.Errorf("unexpected header: %s", s.Header)
	}
	if s.Offset() != Unaligned || s.Aligned() {
		t.Errorf("new sequence should be unaligned")
	}
	if s.Len() != 14 {
		t.Errorf("expected length: 14, result: %d", s.Len())
	}

	for _, header := range []string{"", ">", "> read", " read"} {
		_, err = NewSequence(header, []byte("ACGT"))
		if !errors.Is(err, ErrEmptyID) {
			t.Errorf("header %q: expected ErrEmptyID, got %v", header, err)
		}
	}

	_, err = NewSequence("r2", []byte("ACGUA"))
	if !errors.Is(err, ErrInvalidBase) {
		t.Errorf("expected ErrInvalidBase, got %v", err)
	}
	var e *InvalidBaseError
	if !errors.As(err, &e) || e.Pos != 3 || e.Base != 'U' {
		t.Errorf("unexpected error detail: %v", err)
	}
}

func TestOverlaps(t *testing.T) {
	newAt := func(id string, offset, n int) *Sequence {
		s, _ := NewSequence(id, bytes.Repeat([]byte{'A'}, n))
		s.SetOffset(offset)
		return s
	}

	a := newAt("a", 0, 10)  // [0, 9]
	b := newAt("b", 5, 10)  // [5, 14]
	c := newAt("c", 10, 10) // [10, 19]
	d := newAt("d", 9, 1)   // [9, 9]

	if !a.Overlaps(b) || !b.Overlaps(a) {
		t.Errorf("a and b should overlap")
	}
	if a.Overlaps(c) || c.Overlaps(a) {
		t.Errorf("a and c should not overlap")
	}
	if !a.Overlaps(d) || d.Overlaps(c) {
		t.Errorf("closed intervals: a-d should overlap, d-c should not")
	}

	if !a.Covers(0) || !a.Covers(9) || a.Covers(10) {
		t.Errorf("a should cover [0, 9]")
	}
	a.ResetOffset()
	if a.Covers(0) {
		t.Errorf("unaligned sequence covers nothing")
	}
}

func TestFormat(t *testing.T) {
	LineWidth = 4
	defer func() { LineWidth = 50 }()

	s, _ := NewSequence("r1 desc", []byte("ACGTACGTAC"))
	expected := ">r1 desc\nACGT\nACGT\nAC\n"
	if string(s.Format()) != expected {
		t.Errorf("expected: %q, result: %q", expected, s.Format())
	}
}

func newRefs(t *testing.T, seqs ...string) []*Sequence {
	refs := make([]*Sequence, len(seqs))
	for i, s := range seqs {
		r, err := NewSequence("ref"+string(rune('A'+i)), []byte(s))
		if err != nil {
			t.Fatal(err)
		}
		refs[i] = r
	}
	return refs
}

func TestComposite(t *testing.T) {
	refs := newRefs(t, "ACGTACGT", "TTTT", "GGGGCC")

	c, err := NewComposite(refs, nil)
	if err != nil {
		t.Error(err)
		return
	}

	expected := "ACGTACGT**********TTTT**********GGGGCC"
	if string(c.Seq) != expected {
		t.Errorf("expected: %s, result: %s", expected, c.Seq)
	}
	if c.NumRefs() != 3 || c.Len() != len(expected) {
		t.Errorf("unexpected composite size: %d refs, %d bases", c.NumRefs(), c.Len())
	}

	tests := []struct {
		pos   int
		idx   int
		local int
		ok    bool
	}{
		{0, 0, 0, true},
		{7, 0, 7, true},
		{8, -1, -1, false},
		{18, 1, 0, true},
		{21, 1, 3, true},
		{22, -1, -1, false},
		{32, 2, 0, true},
		{37, 2, 5, true},
		{38, -1, -1, false},
		{-1, -1, -1, false},
	}
	for _, test := range tests {
		idx, local, ok := c.Locate(test.pos)
		if idx != test.idx || local != test.local || ok != test.ok {
			t.Errorf("pos %d: expected (%d, %d, %v), result: (%d, %d, %v)",
				test.pos, test.idx, test.local, test.ok, idx, local, ok)
		}
	}

	c2, _ := NewComposite(newRefs(t, "ACGTACGT", "TTTT", "GGGGCC"), nil)
	if c.Fingerprint() != c2.Fingerprint() {
		t.Errorf("fingerprints of identical references should be equal")
	}
}

func TestCompositeSeparator(t *testing.T) {
	refs := newRefs(t, "ACGT", "ACGT")

	for _, sep := range []string{"********", "*", "****A*****", "NNNNNNNNNN", "----------"} {
		if _, err := NewComposite(refs, []byte(sep)); err != ErrInvalidSeparator {
			t.Errorf("separator %q should be rejected", sep)
		}
	}
	if _, err := NewComposite(refs, []byte("#########")); err != nil {
		t.Errorf("separator of 9 characters should be fine: %s", err)
	}
	if _, err := NewComposite(nil, nil); err != ErrNoReference {
		t.Errorf("expected ErrNoReference, got %v", err)
	}
}

// no seed window of any read could cover a separator
func TestCompositeNoCrossBoundarySeed(t *testing.T) {
	refs := newRefs(t, "ACGTACGTAA", "CCGGTTAACC", "GATTACA")
	c, err := NewComposite(refs, nil)
	if err != nil {
		t.Error(err)
		return
	}

	for i := 0; i+SeedLen <= c.Len(); i++ {
		w := c.Seq[i : i+SeedLen]
		valid := true
		for _, b := range w {
			if !IsValidBase(b) {
				valid = false
				break
			}
		}
		if !valid {
			continue
		}
		idx0, _, ok0 := c.Locate(i)
		idx1, _, ok1 := c.Locate(i + SeedLen - 1)
		if !ok0 || !ok1 || idx0 != idx1 {
			t.Errorf("window %s at %d spans two entries", w, i)
		}
	}
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "reads.fa")
	data := `>r1 first read
ACGTACGT
ACGT
>r2 bad read
ACGTZZ
> 
ACGT
>r4
acgtn-.x
`
	if err := os.WriteFile(file, []byte(data), 0644); err != nil {
		t.Error(err)
		return
	}

	seqs, rejected, err := ReadFile(file)
	if err != nil {
		t.Error(err)
		return
	}
	if len(seqs) != 2 {
		t.Errorf("expected 2 records, result: %d", len(seqs))
		return
	}
	if seqs[0].ID != "r1" || string(seqs[0].Seq) != "ACGTACGTACGT" {
		t.Errorf("unexpected record: %s %s", seqs[0].ID, seqs[0].Seq)
	}
	if seqs[1].ID != "r4" || string(seqs[1].Seq) != "acgtn-.x" {
		t.Errorf("unexpected record: %s %s", seqs[1].ID, seqs[1].Seq)
	}

	if len(rejected) != 2 {
		t.Errorf("expected 2 rejected records, result: %d", len(rejected))
		return
	}
	if !errors.Is(rejected[0], ErrInvalidBase) || !errors.Is(rejected[1], ErrEmptyID) {
		t.Errorf("unexpected errors: %v", rejected)
	}
	var e *RecordError
	if errors.As(rejected[0], &e) && e.Num != 2 {
		t.Errorf("expected record #2, result: %d", e.Num)
	}

	if _, _, err = ReadFile(filepath.Join(dir, "missing.fa")); err == nil {
		t.Errorf("missing file should fail")
	}
}
