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
	"fmt"
	"os"
	"strings"

	"github.com/shenwei356/LaneMap/lanemap/seq"
	"github.com/spf13/cobra"
)

var pickCmd = &cobra.Command{
	Use:   "pick",
	Short: "Find the read covering a position in a track",
	Long: `Find the read covering a position in a track

All reads are aligned and arranged into tracks in the same way as "lanemap align",
then the read covering the position in the given track is reported
in the same format as "lanemap align".

Attention:
  1. The position is 1-based. It is a position in the reference sequence if
     -n/--ref-name is given, or in the concatenated reference otherwise.
  2. Nothing is printed if no read is found.

`,
	Run: func(cmd *cobra.Command, args []string) {
		opt := getOptions(cmd)

		outFile := getFlagString(cmd, "out-file")

		var fhLog *os.File
		if opt.Log2File {
			fhLog = addLog(opt.LogFile, opt.Verbose)
		}
		outputLog := opt.Verbose || opt.Log2File
		defer func() {
			if opt.Log2File {
				fhLog.Close()
			}
		}()

		trackIdx := getFlagNonNegativeInt(cmd, "track")
		pos := getFlagPositiveInt(cmd, "position")
		refName := getFlagString(cmd, "ref-name")

		p := getAlignParams(cmd, args, opt)

		sess, dlog, _ := loadSession(p, outputLog)
		defer closeDiagLog(dlog)

		ref := sess.Reference()
		pos, err := refPosition(ref, refName, pos)
		checkError(err)

		alignReads(sess, 0, sess.NumReads()-1, false)

		outfh, gw, w, err := outStream(outFile, strings.HasSuffix(outFile, ".gz"), opt.CompressionLevel)
		checkError(err)
		defer func() {
			checkError(closeOutStream(outfh, gw, w))
		}()

		s, ok := sess.Layout().FindAt(trackIdx, pos)
		if !ok {
			if outputLog {
				log.Warningf("no read found at position %d of track %d, number of tracks: %d",
					pos+1, trackIdx, sess.Layout().NumTracks())
			}
			return
		}

		for i, r := range sess.Reads() {
			if r != s {
				continue
			}
			res, _ := sess.Result(i)
			outfh.WriteString(resultHeader)
			writeResult(outfh, ref, s, &res)
			break
		}
	},
}

// refPosition converts a 1-based position in a reference sequence,
// or the concatenated reference if refName is empty, to a 0-based
// position in the concatenated reference.
func refPosition(ref *seq.Composite, refName string, pos int) (int, error) {
	if refName == "" {
		if pos > ref.Len() {
			return -1, fmt.Errorf("position %d out of range of the concatenated reference: [1, %d]", pos, ref.Len())
		}
		return pos - 1, nil
	}

	for i, id := range ref.IDs {
		if id != refName {
			continue
		}
		if pos > ref.Lens[i] {
			return -1, fmt.Errorf("position %d out of range of %s: [1, %d]", pos, refName, ref.Lens[i])
		}
		return ref.Starts[i] + pos - 1, nil
	}
	return -1, fmt.Errorf("reference sequence not found: %s", refName)
}

func init() {
	RootCmd.AddCommand(pickCmd)

	addAlignFlags(pickCmd)

	pickCmd.Flags().IntP("track", "t", 0,
		formatFlagUsage(`Track index (0-based).`))

	pickCmd.Flags().IntP("position", "p", 0,
		formatFlagUsage(`Position (1-based).`))

	pickCmd.Flags().StringP("ref-name", "n", "",
		formatFlagUsage(`Reference sequence ID. If not given, the position is in the concatenated reference.`))

	pickCmd.Flags().StringP("out-file", "o", "-",
		formatFlagUsage(`Out file, supports the ".gz" suffix ("-" for stdout).`))

	pickCmd.SetUsageTemplate(usageTemplate("{ -r <ref.fa> -t <track> -p <position> } [reads.fa ...]"))
}
