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
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/shenwei356/LaneMap/lanemap/align"
	"github.com/shenwei356/LaneMap/lanemap/seq"
	"github.com/shenwei356/LaneMap/lanemap/session"
	"github.com/shenwei356/util/pathutil"
	"github.com/spf13/cobra"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

// alignParams holds the parameters shared by "align" and "pick".
type alignParams struct {
	RefFile   string
	ReadFiles []string

	MinPercentMatch int
	Separator       []byte
	DiagLog         string
}

func addAlignFlags(c *cobra.Command) {
	c.Flags().StringP("ref", "r", "",
		formatFlagUsage(`Reference sequence file in FASTA/Q format, supports the ".gz" suffix. Multiple sequences are concatenated with a separator.`))

	c.Flags().StringP("in-dir", "I", "",
		formatFlagUsage(`Directory containing read files. Directory symlinks are followed.`))

	c.Flags().StringP("file-regexp", "N", defaultFileRegexp,
		formatFlagUsage(`Regular expression for matching read files in -I/--in-dir, case ignored.`))

	c.Flags().StringP("infile-list", "X", "",
		formatFlagUsage(`File of read file list (one file per line). If given, they are appended to files from CLI arguments.`))

	c.Flags().IntP("min-percent-match", "m", align.DefaultOptions.MinPercentMatch,
		formatFlagUsage(`Minimum score of accepted hits, i.e., the percentage of matched bases. Range: [50, 98].`))

	c.Flags().StringP("separator", "", string(seq.DefaultSeparator),
		formatFlagUsage(`Separator of concatenated reference sequences. It should be longer than 8 and contain no nucleotide characters.`))

	c.Flags().StringP("diag-log", "D", "",
		formatFlagUsage(`Diagnostic log file recording every alignment attempt, supports the ".gz" suffix.`))

	c.Flags().StringP("config", "c", "",
		formatFlagUsage(`Config file in TOML format, with keys: min_percent_match, separator, diag_log. Values are overridden by flags.`))
}

func getAlignParams(cmd *cobra.Command, args []string, opt *Options) *alignParams {
	p := &alignParams{
		MinPercentMatch: getFlagInt(cmd, "min-percent-match"),
		Separator:       []byte(getFlagString(cmd, "separator")),
		DiagLog:         getFlagString(cmd, "diag-log"),
	}

	if file := getFlagString(cmd, "config"); file != "" {
		c, err := readConfig(file)
		checkError(errors.Wrapf(err, "read config file: %s", file))

		if c.MinPercentMatch != 0 && !cmd.Flags().Changed("min-percent-match") {
			p.MinPercentMatch = c.MinPercentMatch
		}
		if c.Separator != "" && !cmd.Flags().Changed("separator") {
			p.Separator = []byte(c.Separator)
		}
		if c.DiagLog != "" && !cmd.Flags().Changed("diag-log") {
			p.DiagLog = c.DiagLog
		}
	}
	if p.DiagLog != "" {
		p.DiagLog = expandPath(p.DiagLog)
	}

	checkError(errors.Wrapf(align.CheckOptions(&align.Options{MinPercentMatch: p.MinPercentMatch}),
		"invalid value of -m/--min-percent-match: %d", p.MinPercentMatch))

	// reference

	p.RefFile = getFlagString(cmd, "ref")
	if p.RefFile == "" {
		checkError(fmt.Errorf("flag -r/--ref needed"))
	}
	p.RefFile = expandPath(p.RefFile)
	if !isStdin(p.RefFile) {
		existed, err := pathutil.Exists(p.RefFile)
		checkError(errors.Wrap(err, p.RefFile))
		if !existed {
			checkError(fmt.Errorf("reference file does not exist: %s", p.RefFile))
		}
	}

	// reads

	inDir := getFlagString(cmd, "in-dir")
	if inDir == "" {
		p.ReadFiles = getFileListFromArgsAndFile(cmd, args, true, "infile-list", true)
	} else {
		inDir = expandPath(inDir)
		existed, err := pathutil.DirExists(inDir)
		checkError(errors.Wrap(err, inDir))
		if !existed {
			checkError(fmt.Errorf("input directory does not exist: %s", inDir))
		}

		pattern, err := regexp.Compile("(?i)" + getFlagString(cmd, "file-regexp"))
		checkError(errors.Wrap(err, "failed to parse the value of -N/--file-regexp"))

		files, err := getFileListFromDir(inDir, pattern, opt.NumCPUs)
		checkError(errors.Wrapf(err, "walk directory: %s", inDir))
		if len(files) == 0 {
			checkError(fmt.Errorf("no read files found in directory: %s", inDir))
		}

		if len(args) > 0 || getFlagString(cmd, "infile-list") != "" {
			files = append(files, getFileListFromArgsAndFile(cmd, args, true, "infile-list", true)...)
		}
		p.ReadFiles = files
	}

	var nStdin int
	if isStdin(p.RefFile) {
		nStdin++
	}
	for _, file := range p.ReadFiles {
		if isStdin(file) {
			nStdin++
		}
	}
	if nStdin > 1 {
		checkError(fmt.Errorf("stdin (-) can only be used once, for either the reference or reads"))
	}

	return p
}

// loadSession reads the reference and reads, and returns the number of
// malformed read records skipped.
func loadSession(p *alignParams, outputLog bool) (*session.Session, *align.DiagLog, int) {
	if outputLog {
		log.Infof("reading reference sequences from %s ...", p.RefFile)
	}
	refs, rejected, err := seq.ReadFile(p.RefFile)
	checkError(errors.Wrapf(err, "read reference file: %s", p.RefFile))
	logRejected(rejected)

	ref, err := seq.NewComposite(refs, p.Separator)
	checkError(errors.Wrap(err, "concatenate reference sequences"))
	if outputLog {
		log.Infof("  %d reference sequence(s) concatenated, length: %d", ref.NumRefs(), ref.Len())
	}

	if outputLog {
		log.Infof("reading reads from %d file(s) ...", len(p.ReadFiles))
	}
	reads, rejected, err := seq.ReadFiles(p.ReadFiles)
	checkError(errors.Wrap(err, "read reads"))
	logRejected(rejected)
	if outputLog {
		log.Infof("  %d read(s) loaded, %d malformed record(s) skipped", len(reads), len(rejected))
	}

	var dlog *align.DiagLog
	if p.DiagLog != "" {
		dlog, err = align.NewDiagLog(p.DiagLog)
		if err != nil {
			log.Warningf("failed to create diagnostic log, continue without it: %s", err)
			dlog = nil
		}
	}

	sess, err := session.New(ref, reads, &align.Options{MinPercentMatch: p.MinPercentMatch}, dlog)
	checkError(err)

	return sess, dlog, len(rejected)
}

func logRejected(rejected []error) {
	for _, err := range rejected {
		log.Warningf("malformed record skipped: %s", err)
	}
}

func closeDiagLog(dlog *align.DiagLog) {
	if err := dlog.Err(); err != nil {
		log.Warningf("diagnostic log might be incomplete: %s", err)
	}
	if err := dlog.Close(); err != nil {
		log.Warningf("failed to close diagnostic log: %s", err)
	}
}

// alignReads aligns reads from first to last (0-based, inclusive), and
// rebuilds the layout to place long reads first.
func alignReads(sess *session.Session, first, last int, verbose bool) session.Batch {
	var pbs *mpb.Progress
	if verbose && last >= first {
		pbs = mpb.New(mpb.WithWidth(40), mpb.WithOutput(os.Stderr))
		bar := pbs.AddBar(int64(last-first+1),
			mpb.PrependDecorators(
				decor.Name("aligned reads: ", decor.WC{W: len("aligned reads: "), C: decor.DindentRight}),
				decor.Name("", decor.WCSyncSpaceR),
				decor.CountersNoUnit("%d / %d", decor.WCSyncWidth),
			),
			mpb.AppendDecorators(
				decor.Name("ETA: ", decor.WC{W: len("ETA: ")}),
				decor.AverageETA(decor.ET_STYLE_GO),
				decor.OnComplete(decor.Name(""), ". done"),
			),
		)
		sess.OnAttempt = func(i int, s *seq.Sequence, r *align.Result) {
			bar.Increment()
		}
		defer func() { sess.OnAttempt = nil }()
	}

	var b session.Batch
	if first == 0 && last == sess.NumReads()-1 {
		b = sess.AlignAll()
	} else {
		var err error
		b, err = sess.AlignRange(first, last)
		checkError(err)
	}
	if pbs != nil {
		pbs.Wait()
	}

	checkError(errors.Wrap(sess.Layout().Rebuild(), "arrange reads into tracks"))
	return b
}

// parseRange parses a 1-based inclusive range "first,last" of n reads,
// and returns 0-based positions.
func parseRange(s string, n int) (int, int, error) {
	items := strings.Split(s, ",")
	if len(items) != 2 {
		return -1, -1, fmt.Errorf("invalid range: %s, it should be in the format of first,last", s)
	}
	first, err := strconv.Atoi(strings.TrimSpace(items[0]))
	if err != nil {
		return -1, -1, fmt.Errorf("invalid range: %s, %s", s, err)
	}
	last, err := strconv.Atoi(strings.TrimSpace(items[1]))
	if err != nil {
		return -1, -1, fmt.Errorf("invalid range: %s, %s", s, err)
	}
	if first < 1 || last < first || last > n {
		return -1, -1, fmt.Errorf("invalid range: %s, it should be in [1, %d] and first <= last", s, n)
	}
	return first - 1, last - 1, nil
}

var resultHeader = "read\tlen\tstatus\tscore\toffset\tref\tref_pos\ttrack\n"

func formatStatus(s align.Status) string {
	return strings.ReplaceAll(s.String(), " ", "_")
}

// writeResult writes a TSV row of the result of a read, with 1-based positions.
// The reference sequence of the best hit is also reported for unaligned reads.
func writeResult(outfh *bufio.Writer, ref *seq.Composite, s *seq.Sequence, r *align.Result) {
	offset, refID, refPos, track := "-", "-", "-", "-"
	if r.Hits > 0 && r.Best.RefPos >= 0 {
		// seeds never hit separators
		if idx, local, ok := ref.Locate(r.Best.RefPos); ok {
			refID = ref.IDs[idx]
			refPos = strconv.Itoa(local - r.Best.SeqPos + 1)
		}
	}
	if r.OK() {
		offset = strconv.Itoa(r.Offset + 1)
		track = strconv.Itoa(s.Depth())
	}

	fmt.Fprintf(outfh, "%s\t%d\t%s\t%d\t%s\t%s\t%s\t%s\n",
		s.ID, s.Len(), formatStatus(r.Status), r.Score(), offset, refID, refPos, track)
}
