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

// Package track arranges aligned reads into tracks (display lanes), where
// the reference intervals of reads in the same track never overlap.
//
// Reads are placed with a first-fit greedy strategy: a read goes to the
// first track, in creation order, with no overlapping reads, or a new track
// is created for it. The result depends on the order of insertion and the
// number of tracks is not guaranteed to be minimal.
package track

import (
	"errors"

	"github.com/rdleal/intervalst/interval"
	"github.com/shenwei356/LaneMap/lanemap/list"
	"github.com/shenwei356/LaneMap/lanemap/seq"
)

// ErrUnaligned means the sequence has no reference offset.
var ErrUnaligned = errors.New("track: sequence not aligned")

func identity(s *seq.Sequence) *seq.Sequence { return s }

func cmpInt(x, y int) int { return x - y }

func newReadList() *list.List[*seq.Sequence, *seq.Sequence] {
	return list.New[*seq.Sequence, *seq.Sequence](identity)
}

// Track holds reads with non-overlapping reference intervals,
// in the order of insertion.
type Track struct {
	reads *list.List[*seq.Sequence, *seq.Sequence]

	// for searching reads by position
	tree *interval.SearchTree[*seq.Sequence, int]
}

func newTrack() *Track {
	return &Track{
		reads: newReadList(),
		tree:  interval.NewSearchTree[*seq.Sequence, int](cmpInt),
	}
}

// Len returns the number of reads.
func (t *Track) Len() int { return t.reads.Len() }

// Reads returns the reads in the order of insertion.
func (t *Track) Reads() []*seq.Sequence { return t.reads.Values() }

// Fits tells if s overlaps with none of the reads.
func (t *Track) Fits(s *seq.Sequence) bool {
	for r, ok := t.reads.First(); ok; r, ok = t.reads.Next() {
		if r.Overlaps(s) {
			return false
		}
	}
	return true
}

func (t *Track) add(s *seq.Sequence) error {
	if err := t.tree.Insert(s.Offset(), s.End()+1, s); err != nil {
		return err
	}
	t.reads.AddTail(s)
	return nil
}

func (t *Track) remove(s *seq.Sequence) bool {
	if _, ok := t.reads.RemoveKey(s); !ok {
		return false
	}
	t.tree.Delete(s.Offset(), s.End()+1)
	return true
}

// At returns the read covering the reference position.
func (t *Track) At(pos int) (*seq.Sequence, bool) {
	// intervals in the tree are [offset, end+1]
	rs, ok := t.tree.AllIntersections(pos, pos+1)
	if !ok {
		return nil, false
	}
	for _, r := range rs {
		if r.Covers(pos) {
			return r, true
		}
	}
	return nil, false
}

// Layout is a set of tracks and a queue of placed reads,
// which is sorted by read length in descending order.
type Layout struct {
	queue  *list.List[*seq.Sequence, *seq.Sequence]
	tracks []*Track
}

// NewLayout creates an empty layout.
func NewLayout() *Layout {
	return &Layout{
		queue:  newReadList(),
		tracks: make([]*Track, 0, 8),
	}
}

// Assign puts an aligned sequence into the first track it fits in,
// or a new track, and returns the track index, which is also saved as the
// depth of the sequence.
func (l *Layout) Assign(s *seq.Sequence) (int, error) {
	if !s.Aligned() {
		return -1, ErrUnaligned
	}

	for i, t := range l.tracks {
		if t.Fits(s) {
			if err := t.add(s); err != nil {
				return -1, err
			}
			s.SetDepth(i)
			return i, nil
		}
	}

	t := newTrack()
	if err := t.add(s); err != nil {
		return -1, err
	}
	l.tracks = append(l.tracks, t)
	s.SetDepth(len(l.tracks) - 1)
	return len(l.tracks) - 1, nil
}

// Add queues an aligned sequence by length and assigns it to a track.
func (l *Layout) Add(s *seq.Sequence) (int, error) {
	if !s.Aligned() {
		return -1, ErrUnaligned
	}
	l.enqueue(s)
	i, err := l.Assign(s)
	if err != nil {
		l.queue.RemoveKey(s)
	}
	return i, err
}

// enqueue inserts s in front of the first read not longer than it.
func (l *Layout) enqueue(s *seq.Sequence) {
	q := l.queue
	r, ok := q.First()
	for ok && r.Len() > s.Len() {
		r, ok = q.Next()
	}
	if !ok {
		q.AddTail(s)
		return
	}
	q.Previous()
	q.Add(s)
}

// Remove takes a read out of the queue and its track.
// Other reads stay in their tracks.
func (l *Layout) Remove(s *seq.Sequence) bool {
	if _, ok := l.queue.RemoveKey(s); !ok {
		return false
	}
	for _, t := range l.tracks {
		if t.remove(s) {
			break
		}
	}
	return true
}

// Contains tells if the read is in the layout.
func (l *Layout) Contains(s *seq.Sequence) bool {
	var found bool
	l.queue.Walk(func(r *seq.Sequence) bool {
		found = r == s
		return found
	})
	return found
}

// Rebuild reassigns all queued reads to new tracks, from long to short.
func (l *Layout) Rebuild() error {
	l.tracks = l.tracks[:0]
	var err error
	l.queue.Walk(func(s *seq.Sequence) bool {
		_, err = l.Assign(s)
		return err != nil
	})
	return err
}

// Clear removes all reads and tracks.
func (l *Layout) Clear() {
	l.queue.Clear()
	l.tracks = l.tracks[:0]
}

// Len returns the number of reads in the layout.
func (l *Layout) Len() int { return l.queue.Len() }

// Queue returns the reads sorted by length in descending order.
func (l *Layout) Queue() []*seq.Sequence { return l.queue.Values() }

// NumTracks returns the number of tracks.
func (l *Layout) NumTracks() int { return len(l.tracks) }

// Tracks returns all tracks.
func (l *Layout) Tracks() []*Track { return l.tracks }

// FindAt returns the read of a track covering the reference position.
func (l *Layout) FindAt(track int, pos int) (*seq.Sequence, bool) {
	if track < 0 || track >= len(l.tracks) {
		return nil, false
	}
	return l.tracks[track].At(pos)
}
