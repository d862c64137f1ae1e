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
	"bytes"
	"compress/flate"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"

	"github.com/exascience/samnorm/internal"
	"github.com/exascience/samnorm/sam"
)

// NormalizeHelp is the help string for this command.
const NormalizeHelp = "normalize parameters:\n" +
	"samnorm normalize sam-input-file sam-output-file\n" +
	"[--parallel]\n" +
	"[--nr-of-threads nr]\n" +
	"[--compression-level nr]\n" +
	"[--timed]\n" +
	"[--profile file]\n" +
	"[--log-path path]\n"

func normalizeFile(input, output string, parallel bool, compressionLevel int) (stats sam.Stats, err error) {
	in, err := sam.Open(input)
	if err != nil {
		return stats, err
	}
	defer internal.Close(in, &err)
	out, err := sam.Create(output, compressionLevel)
	if err != nil {
		return stats, err
	}
	defer internal.Close(out, &err)
	if parallel {
		return sam.ParallelTransform(in.Reader, out.Writer)
	}
	return sam.Transform(in.Reader, out.Writer)
}

// normalizeStream normalizes plain SAM text, without looking for
// compressed input or output.
func normalizeStream(r io.Reader, w io.Writer) error {
	_, err := sam.Transform(r, w)
	return err
}

// NormalizeStdio normalizes standard input to standard output. It is
// what the samnorm binary does when called without a command, and
// neither logs nor consults any flags.
func NormalizeStdio() error {
	return normalizeStream(os.Stdin, os.Stdout)
}

// Normalize implements the samnorm normalize command.
func Normalize() error {
	var (
		profile, logPath              string
		nrOfThreads, compressionLevel int
		parallel, timed               bool
	)

	var flags flag.FlagSet

	flags.BoolVar(&parallel, "parallel", false, "normalize batches of lines in parallel")
	flags.IntVar(&nrOfThreads, "nr-of-threads", 0, "number of worker threads")
	flags.IntVar(&compressionLevel, "compression-level", flate.DefaultCompression, "compression level for .gz/.bgz output")
	flags.BoolVar(&timed, "timed", false, "measure the runtime")
	flags.StringVar(&profile, "profile", "", "write a runtime profile to the specified file(s)")
	flags.StringVar(&logPath, "log-path", "", "write log files to the specified directory")

	parseFlags(&flags, 4, NormalizeHelp)

	input := getFilename(os.Args[2], NormalizeHelp)
	output := getFilename(os.Args[3], NormalizeHelp)

	setLogOutput(logPath)

	// sanity checks

	var sanityChecksFailed bool

	if !checkExist("", input) {
		sanityChecksFailed = true
	}

	if !checkCreate("", output) {
		sanityChecksFailed = true
	}

	if profile != "" && !checkCreate("--profile", profile) {
		sanityChecksFailed = true
	}

	if nrOfThreads < 0 {
		sanityChecksFailed = true
		log.Println("Error: Invalid nr-of-threads: ", nrOfThreads)
	}

	if compressionLevel < flate.HuffmanOnly || compressionLevel > flate.BestCompression {
		sanityChecksFailed = true
		log.Println("Error: Invalid compression-level: ", compressionLevel)
	}

	if nrOfThreads > 0 && !parallel {
		log.Println("Warning: The --nr-of-threads optional flag is set without using --parallel. Only BGZF compression and decompression use the worker threads.")
	}

	if sanityChecksFailed {
		fmt.Fprint(os.Stderr, NormalizeHelp)
		os.Exit(1)
	}

	fullInput, err := internal.FullPathname(input)
	if err != nil {
		return err
	}

	fullOutput, err := internal.FullPathname(output)
	if err != nil {
		return err
	}

	// building output command line

	var command bytes.Buffer
	fmt.Fprint(&command, os.Args[0], " normalize ", fullInput, " ", fullOutput)
	if parallel {
		fmt.Fprint(&command, " --parallel")
	}
	if nrOfThreads > 0 {
		runtime.GOMAXPROCS(nrOfThreads)
		fmt.Fprint(&command, " --nr-of-threads ", nrOfThreads)
	}
	if compressionLevel != flate.DefaultCompression {
		fmt.Fprint(&command, " --compression-level ", compressionLevel)
	}
	if timed {
		fmt.Fprint(&command, " --timed")
	}
	if profile != "" {
		fmt.Fprint(&command, " --profile ", profile)
	}
	if logPath != "" {
		fmt.Fprint(&command, " --log-path ", logPath)
	}

	// executing command

	log.Println("Executing command:\n", command.String())

	var stats sam.Stats
	timedRun(timed, profile, "Normalizing SAM records.", 1, func() {
		stats, err = normalizeFile(fullInput, fullOutput, parallel, compressionLevel)
	})
	if err != nil {
		return err
	}

	log.Printf("Read %v lines, skipped %v header lines and %v short lines, wrote %v records.\n",
		stats.Lines, stats.Headers, stats.ShortLines, stats.Records)
	return nil
}
