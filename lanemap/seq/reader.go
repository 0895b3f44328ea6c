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
	"fmt"
	"io"

	bseq "github.com/shenwei356/bio/seq"
	"github.com/shenwei356/bio/seqio/fastx"
)

// RecordError is returned for a record rejected when reading a file.
type RecordError struct {
	File string
	Num  int // 1-based record number
	Err  error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("%s: record #%d ignored: %s", e.File, e.Num, e.Err)
}

func (e *RecordError) Unwrap() error { return e.Err }

// ReadFile reads all FASTA/Q records of a (compressed) file.
// Malformed records are skipped and returned as *RecordError in rejected,
// while err is only for failures of reading the file.
func ReadFile(file string) (seqs []*Sequence, rejected []error, err error) {
	bseq.ValidateSeq = false

	reader, err := fastx.NewReader(bseq.Unlimit, file, "")
	if err != nil {
		return nil, nil, err
	}
	defer reader.Close()

	var record *fastx.Record
	var s *Sequence
	var n int
	for {
		record, err = reader.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return seqs, rejected, err
		}
		n++

		// records are reused by the reader
		bases := make([]byte, len(record.Seq.Seq))
		copy(bases, record.Seq.Seq)

		s, err = NewSequence(string(record.Name), bases)
		if err != nil {
			rejected = append(rejected, &RecordError{File: file, Num: n, Err: err})
			continue
		}
		seqs = append(seqs, s)
	}

	return seqs, rejected, nil
}

// ReadFiles reads records from multiple files in order.
func ReadFiles(files []string) (seqs []*Sequence, rejected []error, err error) {
	var _seqs []*Sequence
	var _rejected []error
	for _, file := range files {
		_seqs, _rejected, err = ReadFile(file)
		seqs = append(seqs, _seqs...)
		rejected = append(rejected, _rejected...)
		if err != nil {
			return seqs, rejected, err
		}
	}
	return seqs, rejected, nil
}
