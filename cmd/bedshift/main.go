// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// bedshift projects BED features from one genome's coordinate system into
// another's, using a shift file that describes the correspondence between
// the two as a set of, possibly orientation-reversing, interval mappings.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/kortschak/satrep/internal/bed"
)

func main() {
	shiftPath := flag.String("shift", "", "specify the shift file (required)")

	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), `Usage of %[1]s:
  $ %[1]s -shift <shift.txt> <in.bed >out.bed

Shift file lines are "old start end [new]"; omitting new reuses old as the
new contig name. start > end reverses the orientation of the new system
relative to the old.

Options:
`, os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if *shiftPath == "" || flag.NArg() > 1 {
		flag.Usage()
		os.Exit(2)
	}

	log.Println(os.Args)

	sf, err := os.Open(*shiftPath)
	if err != nil {
		log.Fatal(err)
	}
	var records []bed.ShiftRecord
	sc := bufio.NewScanner(sf)
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			continue
		}
		r, err := bed.ParseShiftRecord(line)
		if err != nil {
			log.Fatal(err)
		}
		records = append(records, r)
	}
	if err := sc.Err(); err != nil {
		log.Fatal(err)
	}
	sf.Close()

	shifter, err := bed.NewShifter(records)
	if err != nil {
		log.Fatal(err)
	}

	in := os.Stdin
	if flag.NArg() == 1 {
		in, err = os.Open(flag.Arg(0))
		if err != nil {
			log.Fatal(err)
		}
		defer in.Close()
	}

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	var dropped int
	sc = bufio.NewScanner(in)
	for sc.Scan() {
		line := sc.Text()
		if line == "" || line[0] == '#' {
			continue
		}
		f, err := bed.ParseFeature(line)
		if err != nil {
			log.Fatal(err)
		}
		projected := shifter.Apply(f)
		if len(projected) == 0 {
			dropped++
			continue
		}
		for _, nf := range projected {
			fmt.Fprintln(out, nf.String())
		}
	}
	if err := sc.Err(); err != nil {
		log.Fatal(err)
	}

	if dropped > 0 {
		log.Printf("dropped %d features with no surviving projection", dropped)
	}
}
