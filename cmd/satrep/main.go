// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// satrep finds tandem-ish, interspersed repeat families in a genome from
// first principles: it builds a k-mer transition graph from the genome
// itself, then walks the genome again scoring how well a path through
// that graph explains each run of sequence, reporting the high-scoring
// runs as repeat calls.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/kortschak/satrep/internal/automaton"
	"github.com/kortschak/satrep/internal/driver"
	"github.com/kortschak/satrep/internal/fasta"
	"github.com/kortschak/satrep/internal/kgraph"
)

func main() {
	k := flag.Int("k", 12, "specify the k-mer length used to build the transition graph")
	absThreshold := flag.Float64("abs-threshold", 0, "specify the absolute scaled-weight pruning threshold")
	relThreshold := flag.Float64("rel-threshold", 1, "specify the pruning threshold as a percentage of the maximum scaled weight")
	scaling := flag.String("scaling", "log1p", "specify the edge weight scaling function (log1p or no-scale)")
	maxDrop := flag.Int("max-drop", 30, "specify the maximum score drop tolerated before a search gives up")
	insertPen := flag.Float64("insert-pen", 8, "specify the penalty for an insertion transition")
	gapPen := flag.Float64("gap-pen", 4, "specify the penalty for a gap transition")
	basePen := flag.Float64("base-pen", 0.5, "specify the per-base rising floor applied while a search is live")
	skip := flag.Int64("skip", 0, "specify the number of leading bases of the genome to skip")
	exactMatch := flag.Int("exact-match", 20, "specify the exact-match seed length")
	minValue := flag.Float64("min-value", 0, "specify the minimum score for a call to be reported")
	fastSkip := flag.Bool("fast-skip", true, "specify whether to resume scanning from where a search stopped rather than its best interval's end")
	dotOut := flag.String("dot", "", "specify a file to write the pruned k-mer graph to in DOT format")
	spoolDir := flag.String("spool", "", "specify a directory to spool hits through on disk before reporting, sorted by contig and position")
	verbose := flag.Bool("verbose", false, "specify verbose progress logging")

	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), `Usage of %[1]s:
  $ %[1]s [options] <genome.fa >calls.bed

The genome is read twice, once to build the k-mer transition graph and
once to search it, so it must be a seekable file, not a pipe.

Options:
`, os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	log.Println(os.Args)

	genome, err := os.Open(flag.Arg(0))
	if err != nil {
		log.Fatal(err)
	}
	defer genome.Close()

	log.Println("building k-mer transition graph")
	b := kgraph.NewBuilder(*k)
	if err := b.Add(genome); err != nil {
		log.Fatal(err)
	}

	scaled, err := kgraph.Scale(b.Counts(), *scaling)
	if err != nil {
		log.Fatal(err)
	}
	pruned := kgraph.Prune(scaled, *absThreshold, *relThreshold)

	g, err := kgraph.Index(pruned, *k, *exactMatch)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("graph has %d nodes after pruning", g.Len())

	if *dotOut != "" {
		if err := writeDOT(g, *dotOut); err != nil {
			log.Fatal(err)
		}
	}

	if _, err := genome.Seek(0, io.SeekStart); err != nil {
		log.Fatal(err)
	}
	cur := fasta.NewCursor(genome)

	params := driver.Params{
		MinValue: *minValue,
		FastSkip: *fastSkip,
		Skip:     *skip,
		Automaton: automaton.Params{
			MaxDrop:          *maxDrop,
			InsertionPenalty: *insertPen,
			GapPenalty:       *gapPen,
			BasePenalty:      *basePen,
			ExactMatch:       *exactMatch,
		},
	}

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	cov := driver.NewCoverage()

	writeHit := func(h driver.Hit) error {
		_, err := fmt.Fprintf(out, "%s\t%d\t%d\t%.4g\n", h.Contig, h.Start, h.End, h.Score)
		return err
	}

	var spool *driver.Spool
	emit := writeHit
	if *spoolDir != "" {
		spool, err = driver.NewSpool(*spoolDir)
		if err != nil {
			log.Fatal(err)
		}
		emit = spool.Add
	}

	notice := func(string) {}
	if *verbose {
		notice = func(msg string) { log.Println(msg) }
	}

	log.Println("searching for repeats")
	err = driver.Run(cur, g, params, emit, notice, cov)
	if err != nil {
		log.Fatal(err)
	}

	if spool != nil {
		err = spool.Drain(writeHit)
		if err != nil {
			log.Fatal(err)
		}
	}

	for _, line := range cov.Summary() {
		log.Println(line)
	}
}

func writeDOT(g *kgraph.Indexed, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	b, err := g.DOT()
	if err != nil {
		return err
	}
	_, err = f.Write(b)
	return err
}
