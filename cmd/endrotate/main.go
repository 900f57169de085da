// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// endrotate rotates BED features whose line contains the substring "END"
// (in any field) by swapping and offsetting their start and end, for use upstream
// of bedshift when a feature's name marks it as crossing a contig's join
// point.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/kortschak/satrep/internal/bed"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), `Usage of %[1]s:
  $ %[1]s <in.bed >out.bed

Features whose line contains the substring "END" have their start and end
rotated as (end-1, start-1); all other features pass through unchanged.
`, os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() > 1 {
		flag.Usage()
		os.Exit(2)
	}

	in := os.Stdin
	if flag.NArg() == 1 {
		f, err := os.Open(flag.Arg(0))
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		in = f
	}

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	sc := bufio.NewScanner(in)
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			continue
		}
		f, err := bed.ParseFeature(line)
		if err != nil {
			log.Fatal(err)
		}
		if strings.Contains(line, "END") {
			f.Start, f.End = f.End-1, f.Start-1
		}
		fmt.Fprintln(out, f.String())
	}
	if err := sc.Err(); err != nil {
		log.Fatal(err)
	}
}
