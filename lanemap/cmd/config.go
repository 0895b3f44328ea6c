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
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/pelletier/go-toml/v2"
	"github.com/shenwei356/xopen"
)

// Config is the optional configuration file in TOML format.
// Values are overridden by the corresponding command-line flags.
//
//	min_percent_match = 85
//	separator = "**********"
//	diag_log = "align.log"
type Config struct {
	MinPercentMatch int    `toml:"min_percent_match"`
	Separator       string `toml:"separator"`
	DiagLog         string `toml:"diag_log"`
}

func readConfig(file string) (*Config, error) {
	fh, err := xopen.Ropen(expandPath(file))
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	return decodeConfig(fh)
}

func decodeConfig(r io.Reader) (*Config, error) {
	var c Config
	if err := toml.NewDecoder(r).DisallowUnknownFields().Decode(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Summary is the summary of an alignment run.
type Summary struct {
	RunID   string    `toml:"run_id"`
	Version string    `toml:"version"`
	Date    time.Time `toml:"date"`

	Reference RefSummary   `toml:"reference"`
	Reads     ReadsSummary `toml:"reads"`
	Score     ScoreSummary `toml:"score"`
}

// RefSummary describes the reference sequences.
type RefSummary struct {
	File        string `toml:"file"`
	Sequences   int    `toml:"sequences"`
	Length      int    `toml:"length"` // of the concatenated sequence
	Fingerprint string `toml:"fingerprint"`
}

// ReadsSummary counts reads.
type ReadsSummary struct {
	Files       int `toml:"files"`
	Total       int `toml:"total"`
	Rejected    int `toml:"rejected"`
	Attempted   int `toml:"attempted"`
	Aligned     int `toml:"aligned"`
	Unaligned   int `toml:"unaligned"`
	NoSeedHit   int `toml:"no_seed_hit"`
	LowScore    int `toml:"low_score"`
	OutOfBounds int `toml:"out_of_bounds"`
	Tracks      int `toml:"tracks"`
}

// ScoreSummary is the statistics of scores of aligned reads.
type ScoreSummary struct {
	MinPercentMatch int     `toml:"min_percent_match"`
	Mean            float64 `toml:"mean"`
	Stdev           float64 `toml:"stdev"`
}

func newSummary() *Summary {
	return &Summary{
		RunID:   uuid.New().String(),
		Version: VERSION,
		Date:    time.Now().Truncate(time.Second),
	}
}

func formatFingerprint(h uint64) string {
	return fmt.Sprintf("%016x", h)
}

func writeSummary(file string, s *Summary) error {
	fh, err := xopen.Wopen(file)
	if err != nil {
		return err
	}

	if err = toml.NewEncoder(fh).Encode(s); err != nil {
		fh.Close()
		return err
	}
	return fh.Close()
}
