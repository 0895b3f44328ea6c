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
	"fmt"
	"io"

	"github.com/shenwei356/LaneMap/lanemap/seq"
	"github.com/shenwei356/xopen"
)

// DiagLog is an append-only text log recording every alignment attempt.
// It is flushed after each record, so that the records survive an abrupt
// stop. All methods are no-ops on a nil *DiagLog.
type DiagLog struct {
	w  io.Writer
	fh *xopen.Writer

	err error // the first writing error
}

// NewDiagLog creates (or truncates) a log file, a ".gz" suffix is supported.
func NewDiagLog(file string) (*DiagLog, error) {
	fh, err := xopen.Wopen(file)
	if err != nil {
		return nil, err
	}
	return &DiagLog{w: fh, fh: fh}, nil
}

// NewDiagLogWriter creates a DiagLog writing to w.
func NewDiagLogWriter(w io.Writer) *DiagLog {
	return &DiagLog{w: w}
}

// Printf writes a free-form record.
func (l *DiagLog) Printf(format string, a ...interface{}) {
	if l == nil || l.err != nil {
		return
	}
	_, l.err = fmt.Fprintf(l.w, format, a...)
	if l.err == nil && l.fh != nil {
		l.err = l.fh.Flush()
	}
}

// Attempt records the outcome of aligning a read.
func (l *DiagLog) Attempt(s *seq.Sequence, r *Result) {
	if r.Status == Aligned {
		l.Printf("%s: aligned at %d, hit %s, score: %d\n", s.Header, r.Offset, r.Best, r.Best.Score)
		return
	}
	l.Printf("%s: not aligned (%s), hit %s, score: %d\n", s.Header, r.Status, r.Best, r.Best.Score)
}

// EarlyTermination records an extension stopped early.
func (l *DiagLog) EarlyTermination(s *seq.Sequence, refPos, seqPos int, e *Extension) {
	l.Printf("%s: early termination of hit <%d,%d>, matches: %d, walked: %d\n",
		s.Header, refPos, seqPos, e.Matches, e.Walked)
}

// Err returns the first writing error.
func (l *DiagLog) Err() error {
	if l == nil {
		return nil
	}
	return l.err
}

// Close closes the log file.
func (l *DiagLog) Close() error {
	if l == nil || l.fh == nil {
		return nil
	}
	return l.fh.Close()
}
