// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// kmerhist prints a per-contig table of sliding k-mer counts, the window
// being a short word rather than the full transition-graph k-mer length
// used by satrep, for a quick look at a genome's local repetitiveness
// before committing to a full search.
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"sort"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"
)

func main() {
	window := flag.Int("window", 2, "specify the k-mer window length")
	width := flag.Int("width", 180, "specify the output table width in characters")
	show := flag.Int("top", 100, "specify how many of the most frequent k-mers to show per contig")

	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), `Usage of %[1]s:
  $ %[1]s [options] <genome.fa>

Options:
`, os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	f, err := os.Open(flag.Arg(0))
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	sc := seqio.NewScanner(fasta.NewReader(f, linear.NewSeq("", nil, alphabet.DNA)))
	for sc.Next() {
		s := sc.Seq().(*linear.Seq)
		fmt.Printf("Stats for %s\n", s.ID)
		counts := count(s, *window)
		printTable(counts, *window, *width, *show)
	}
	if err := sc.Error(); err != nil {
		log.Fatal(err)
	}
}

func count(s *linear.Seq, window int) map[string]int {
	counts := make(map[string]int)
	if s.Len() < window {
		return counts
	}
	word := make([]byte, 0, window)
	for i := 0; i < s.Len(); i++ {
		word = append(word, byte(s.Seq[i]))
		if len(word) > window {
			word = word[1:]
		}
		if len(word) == window {
			counts[string(word)]++
		}
	}
	return counts
}

type slideCount struct {
	slide string
	n     int
}

func printTable(counts map[string]int, window, width, show int) {
	if len(counts) == 0 {
		return
	}
	ranked := make([]slideCount, 0, len(counts))
	for slide, n := range counts {
		ranked = append(ranked, slideCount{slide, n})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].n != ranked[j].n {
			return ranked[i].n > ranked[j].n
		}
		return ranked[i].slide < ranked[j].slide
	})
	if len(ranked) > show {
		ranked = ranked[:show]
	}

	maxNum := int(math.Ceil(math.Log10(float64(ranked[0].n) + 1)))
	cols := width / (window + maxNum + 3)
	if cols < 1 {
		cols = 1
	}
	rows := (len(ranked) + cols - 1) / cols

	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			idx := j*rows + i
			if idx >= len(ranked) {
				break
			}
			fmt.Printf("%s %*d   ", ranked[idx].slide, maxNum, ranked[idx].n)
		}
		fmt.Println()
	}
}
