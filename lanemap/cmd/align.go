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

package cmd

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shenwei356/LaneMap/lanemap/align"
	"github.com/shenwei356/LaneMap/lanemap/seq"
	"github.com/shenwei356/LaneMap/lanemap/track"
	"github.com/spf13/cobra"
	"github.com/twotwotwo/sorts"
)

var alignCmd = &cobra.Command{
	Use:   "align",
	Short: "Align reads to reference sequences and arrange them into tracks",
	Long: `Align reads to reference sequences and arrange them into tracks

How it works:
  1. Reference sequences are concatenated with a separator (default: ten '*'),
     which is longer than a seed, so no seed spans two sequences.
  2. Every 8-bp window of a read at positions 0, 8, 16, ... is used as a seed,
     and all its exact occurrences in the reference are extended in both
     directions without gaps.
  3. The score of a hit is the percentage of matched bases plus a credit of
     8 bases for the seed, so it might exceed 100. An extension stops early
     if over half of at least 24 walked bases mismatch.
  4. The hit with the highest score (the first one in ties) is accepted if the
     score is >= -m/--min-percent-match and the read does not start before the
     beginning of the concatenated reference.
  5. Aligned reads are arranged into tracks, from long to short. A read goes to
     the first track where it overlaps no other reads, or a new track.

Attention:
  1. Input should be (gzipped) FASTA or FASTQ records from files or stdin.
     Records with empty IDs or characters other than 'AaTtGgCcXxNn-.' are
     skipped with warnings.
  2. Bases are compared case-sensitively.

Output (TSV, positions are 1-based):
  1. read,     read ID
  2. len,      read length
  3. status,   aligned, no_seed_hit, low_score, or out_of_bounds
  4. score,    score of the best hit
  5. offset,   start position in the concatenated reference
  6. ref,      reference sequence of the best hit
  7. ref_pos,  start position in the reference sequence, could be <= 0
               if the read starts before the sequence.
  8. track,    track index (0-based)

Layout output (TSV, -L/--layout-out, positions are 1-based):
  1. track,    track index (0-based)
  2. read,     read ID
  3. start,    start position in the concatenated reference
  4. end,      end position in the concatenated reference
  5. ref,      reference sequence of the read start
  6. ref_pos,  start position in the reference sequence

`,
	Run: func(cmd *cobra.Command, args []string) {
		opt := getOptions(cmd)

		outFile := getFlagString(cmd, "out-file")

		var fhLog *os.File
		if opt.Log2File {
			ro, err := filepath.Abs(outFile)
			if err != nil {
				checkError(fmt.Errorf("failed to check output file: %s", err))
			}
			rl, err := filepath.Abs(opt.LogFile)
			if err != nil {
				checkError(fmt.Errorf("failed to check log file: %s", err))
			}
			if ro == rl {
				checkError(fmt.Errorf("output file and log file should not be the same: %s", outFile))
			}
			fhLog = addLog(opt.LogFile, opt.Verbose)
		}

		verbose := opt.Verbose
		outputLog := opt.Verbose || opt.Log2File

		timeStart := time.Now()
		defer func() {
			if outputLog {
				log.Info()
				log.Infof("elapsed time: %s", time.Since(timeStart))
				log.Info()
			}
			if opt.Log2File {
				fhLog.Close()
			}
		}()

		// ---------------------------------------------------------------

		if outputLog {
			log.Infof("LaneMap v%s", VERSION)
			log.Info("  https://github.com/shenwei356/LaneMap")
			log.Info()
		}

		p := getAlignParams(cmd, args, opt)

		outFileClean := filepath.Clean(outFile)
		for _, file := range append([]string{p.RefFile}, p.ReadFiles...) {
			if !isStdin(file) && filepath.Clean(file) == outFileClean {
				checkError(fmt.Errorf("out file should not be one of the input files"))
			}
		}

		layoutFile := getFlagString(cmd, "layout-out")
		unalignedFile := getFlagString(cmd, "unaligned-out")
		summaryFile := getFlagString(cmd, "summary")
		rangeStr := getFlagString(cmd, "range")

		// ---------------------------------------------------------------

		sess, dlog, nRejected := loadSession(p, outputLog)
		defer closeDiagLog(dlog)

		first, last := 0, sess.NumReads()-1
		if rangeStr != "" {
			var err error
			first, last, err = parseRange(rangeStr, sess.NumReads())
			checkError(err)
		}

		if outputLog {
			log.Info()
			log.Infof("aligning %d read(s) with a minimum score of %d ...", last-first+1, p.MinPercentMatch)
		}
		b := alignReads(sess, first, last, verbose)

		if outputLog {
			log.Infof("  %d read(s) aligned, %d read(s) unaligned (no seed hit: %d, low score: %d, out of bounds: %d)",
				b.Total-b.Failed, b.Failed,
				b.Status[align.NoSeedHit], b.Status[align.LowScore], b.Status[align.OutOfBounds])
			log.Infof("  aligned reads are arranged into %d track(s)", sess.Layout().NumTracks())
			if b.Total > b.Failed {
				log.Infof("  score of aligned reads: %.2f ± %.2f", b.MeanScore, b.StdevScore)
			}
		}

		// ---------------------------------------------------------------

		ref := sess.Reference()
		reads := sess.Reads()

		outfh, gw, w, err := outStream(outFile, strings.HasSuffix(outFile, ".gz"), opt.CompressionLevel)
		checkError(err)
		outfh.WriteString(resultHeader)
		for i := first; i <= last; i++ {
			r, _ := sess.Result(i)
			writeResult(outfh, ref, reads[i], &r)
		}
		checkError(closeOutStream(outfh, gw, w))
		if outputLog && !isStdin(outFile) {
			log.Infof("alignment results saved to: %s", outFile)
		}

		if layoutFile != "" {
			outfh, gw, w, err = outStream(layoutFile, strings.HasSuffix(layoutFile, ".gz"), opt.CompressionLevel)
			checkError(err)
			writeLayout(outfh, ref, sess.Layout())
			checkError(closeOutStream(outfh, gw, w))
			if outputLog {
				log.Infof("track layout saved to: %s", layoutFile)
			}
		}

		if unalignedFile != "" {
			outfh, gw, w, err = outStream(unalignedFile, strings.HasSuffix(unalignedFile, ".gz"), opt.CompressionLevel)
			checkError(err)
			for i := first; i <= last; i++ {
				if !b.Aligned.Test(uint(i)) {
					outfh.Write(reads[i].Format())
				}
			}
			checkError(closeOutStream(outfh, gw, w))
			if outputLog {
				log.Infof("%d unaligned read(s) saved to: %s", b.Failed, unalignedFile)
			}
		}

		if summaryFile != "" {
			s := newSummary()
			s.Reference = RefSummary{
				File:        p.RefFile,
				Sequences:   ref.NumRefs(),
				Length:      ref.Len(),
				Fingerprint: formatFingerprint(ref.Fingerprint()),
			}
			s.Reads = ReadsSummary{
				Files:       len(p.ReadFiles),
				Total:       sess.NumReads(),
				Rejected:    nRejected,
				Attempted:   b.Total,
				Aligned:     b.Total - b.Failed,
				Unaligned:   sess.Unaligned(),
				NoSeedHit:   b.Status[align.NoSeedHit],
				LowScore:    b.Status[align.LowScore],
				OutOfBounds: b.Status[align.OutOfBounds],
				Tracks:      sess.Layout().NumTracks(),
			}
			s.Score = ScoreSummary{
				MinPercentMatch: p.MinPercentMatch,
				Mean:            b.MeanScore,
				Stdev:           b.StdevScore,
			}
			checkError(errors.Wrap(writeSummary(summaryFile, s), "write summary"))
			if outputLog {
				log.Infof("summary of run %s saved to: %s", s.RunID, summaryFile)
			}
		}
	},
}

func init() {
	RootCmd.AddCommand(alignCmd)

	addAlignFlags(alignCmd)

	alignCmd.Flags().StringP("out-file", "o", "-",
		formatFlagUsage(`Out file, supports the ".gz" suffix ("-" for stdout).`))

	alignCmd.Flags().StringP("range", "R", "",
		formatFlagUsage(`Only align reads in a range, in the format of "first,last" (1-based, inclusive).`))

	alignCmd.Flags().StringP("layout-out", "L", "",
		formatFlagUsage(`Out file of the track layout, supports the ".gz" suffix.`))

	alignCmd.Flags().StringP("unaligned-out", "u", "",
		formatFlagUsage(`Out file of unaligned reads in FASTA format, supports the ".gz" suffix.`))

	alignCmd.Flags().StringP("summary", "s", "",
		formatFlagUsage(`Summary file of the run in TOML format.`))

	alignCmd.SetUsageTemplate(usageTemplate("{ -r <ref.fa> } [-I <reads dir>] [reads.fa ...]"))
}

type layoutRow struct {
	track int
	s     *seq.Sequence
}

type layoutRows []layoutRow

func (rs layoutRows) Len() int      { return len(rs) }
func (rs layoutRows) Swap(i, j int) { rs[i], rs[j] = rs[j], rs[i] }
func (rs layoutRows) Less(i, j int) bool {
	a, b := rs[i], rs[j]
	if a.track != b.track {
		return a.track < b.track
	}
	if a.s.Offset() != b.s.Offset() {
		return a.s.Offset() < b.s.Offset()
	}
	return a.s.ID < b.s.ID
}

func getLayoutRows(l *track.Layout) layoutRows {
	rows := make(layoutRows, 0, l.Len())
	for i, t := range l.Tracks() {
		for _, s := range t.Reads() {
			rows = append(rows, layoutRow{track: i, s: s})
		}
	}
	sorts.Quicksort(rows)
	return rows
}

func writeLayout(outfh *bufio.Writer, ref *seq.Composite, l *track.Layout) {
	outfh.WriteString("track\tread\tstart\tend\tref\tref_pos\n")

	var refID, refPos string
	for _, row := range getLayoutRows(l) {
		refID, refPos = "-", "-"
		if idx, local, ok := ref.Locate(row.s.Offset()); ok {
			refID, refPos = ref.IDs[idx], strconv.Itoa(local+1)
		}
		fmt.Fprintf(outfh, "%d\t%s\t%d\t%d\t%s\t%s\n",
			row.track, row.s.ID, row.s.Offset()+1, row.s.End()+1, refID, refPos)
	}
}
