// samnorm: normalizing SAM records for deterministic comparison.
// Copyright (c) 2026 imec vzw.

// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version, and Additional Terms
// (see below).

// This program is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Affero General Public License for more details.

// You should have received a copy of the GNU Affero General Public
// License and Additional Terms along with this program. If not, see
// <https://github.com/ExaScience/samnorm/blob/master/LICENSE.txt>.

package cmd

import (
	"bufio"
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/exascience/samnorm/internal"
	"github.com/exascience/samnorm/sam"
)

// DiffHelp is the help string for this command.
const DiffHelp = "diff parameters:\n" +
	"samnorm diff sam-file-1 sam-file-2\n" +
	"[--max-differences nr]\n" +
	"[--log-path path]\n"

// ErrDifferent is returned by Diff when the two SAM files do not
// normalize to the same records.
var ErrDifferent = errors.New("SAM files differ")

func diffFiles(left, right string, maxDifferences int) (c *sam.Comparison, err error) {
	l, err := sam.Open(left)
	if err != nil {
		return nil, err
	}
	defer internal.Close(l, &err)
	r, err := sam.Open(right)
	if err != nil {
		return nil, err
	}
	defer internal.Close(r, &err)
	return sam.Compare(l.Reader, r.Reader, maxDifferences)
}

func formatStats(out io.Writer, name string, stats sam.Stats) {
	fmt.Fprintf(out, "%v: %v records, %v header lines, %v short lines\n", name, stats.Records, stats.Headers, stats.ShortLines)
}

func formatComparison(out io.Writer, left, right string, c *sam.Comparison) {
	formatStats(out, left, c.LeftStats)
	formatStats(out, right, c.RightStats)
	if c.Equal() {
		fmt.Fprintln(out, "no differences")
		return
	}
	fmt.Fprintf(out, "%v differing records\n", c.Count())
	for _, d := range c.Reported {
		fmt.Fprintf(out, "record %v:\n", d.Record+1)
		if d.HasLeft {
			fmt.Fprintln(out, "<", d.Left)
		} else {
			fmt.Fprintln(out, "< (missing)")
		}
		if d.HasRight {
			fmt.Fprintln(out, ">", d.Right)
		} else {
			fmt.Fprintln(out, "> (missing)")
		}
	}
	if rest := c.Count() - len(c.Reported); rest > 0 {
		fmt.Fprintf(out, "... and %v more\n", rest)
	}
}

// Diff implements the samnorm diff command.
func Diff() error {
	var (
		logPath        string
		maxDifferences int
	)

	var flags flag.FlagSet

	flags.IntVar(&maxDifferences, "max-differences", 10, "number of differing records to print")
	flags.StringVar(&logPath, "log-path", "", "write log files to the specified directory")

	parseFlags(&flags, 4, DiffHelp)

	left := getFilename(os.Args[2], DiffHelp)
	right := getFilename(os.Args[3], DiffHelp)

	setLogOutput(logPath)

	// sanity checks

	var sanityChecksFailed bool

	if !checkExist("", left) {
		sanityChecksFailed = true
	}

	if !checkExist("", right) {
		sanityChecksFailed = true
	}

	if isStdStream(left) && isStdStream(right) {
		sanityChecksFailed = true
		log.Println("Error: At most one of the SAM files can be read from standard input.")
	}

	if maxDifferences < 0 {
		sanityChecksFailed = true
		log.Println("Error: Invalid max-differences: ", maxDifferences)
	}

	if sanityChecksFailed {
		fmt.Fprint(os.Stderr, DiffHelp)
		os.Exit(1)
	}

	// building output command line

	var command bytes.Buffer
	fmt.Fprint(&command, os.Args[0], " diff ", left, " ", right)
	fmt.Fprint(&command, " --max-differences ", maxDifferences)
	if logPath != "" {
		fmt.Fprint(&command, " --log-path ", logPath)
	}

	// executing command

	log.Println("Executing command:\n", command.String())

	c, err := diffFiles(left, right, maxDifferences)
	if err != nil {
		return err
	}

	out := bufio.NewWriter(os.Stdout)
	formatComparison(out, left, right, c)
	if err := out.Flush(); err != nil {
		return err
	}

	if !c.Equal() {
		return ErrDifferent
	}
	return nil
}
