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

// samnorm normalizes SAM files for deterministic comparison.
//
// Called without parameters, samnorm reads SAM lines from standard
// input and writes the normalized alignment lines to standard output:
// header lines and lines with fewer than eleven fields are dropped, and
// the optional fields of each alignment are sorted. See the sam package
// for the details.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/exascience/samnorm/cmd"
)

func printHelp() {
	fmt.Fprintln(os.Stderr, "Available commands: normalize, diff")
	fmt.Fprintln(os.Stderr, "Without a command, samnorm normalizes standard input to standard output.")
	fmt.Fprint(os.Stderr, "\n", cmd.NormalizeHelp)
	fmt.Fprint(os.Stderr, "\n", cmd.DiffHelp)
}

func main() {
	if len(os.Args) < 2 {
		if err := cmd.NormalizeStdio(); err != nil {
			log.Fatal(err)
		}
		return
	}

	fmt.Fprintln(os.Stderr, cmd.ProgramMessage)

	var err error
	switch os.Args[1] {
	case "normalize":
		err = cmd.Normalize()
	case "diff":
		err = cmd.Diff()
	case "help", "-help", "--help", "-h", "--h":
		printHelp()
	default:
		log.Println("Unknown command", os.Args[1])
		fmt.Fprint(os.Stderr, cmd.HelpMessage)
		printHelp()
		os.Exit(1)
	}
	if err != nil {
		log.Fatal(err)
	}
}
