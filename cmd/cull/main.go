// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// cull is a tool to remove lower scoring repeat calls from a satrep BED
// output. It discards calls that are completely contained, on the same
// contig, within a higher scoring call. Calls without a numeric score
// field are not considered but are retained in the set.
//
// usage: cull < calls.bed > culled.bed
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/biogo/store/interval"

	"github.com/kortschak/satrep/internal/bed"
)

func main() {
	flag.Usage = func() {
		fmt.Println(`usage: cull < calls.bed > culled.bed`)
		os.Exit(0)
	}
	flag.Parse()

	var feats []bed.Feature
	sc := bufio.NewScanner(os.Stdin)
	for sc.Scan() {
		line := sc.Text()
		if line == "" || line[0] == '#' {
			continue
		}
		f, err := bed.ParseFeature(line)
		if err != nil {
			log.Fatal(err)
		}
		feats = append(feats, f)
	}
	if err := sc.Err(); err != nil {
		log.Fatal(err)
	}

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()
	for _, f := range cullContained(feats) {
		fmt.Fprintln(out, f.String())
	}
}

// cullContained returns the subset of hits with every hit that is
// completely contained by a higher scoring hit on the same contig
// removed, the same interval-tree containment test cmd/cull in the
// sibling ins tool uses for GFF features, applied per contig and keyed
// on the BED score column instead of a GFF feature score.
func cullContained(hits []bed.Feature) []bed.Feature {
	trees := make(map[string]*interval.IntTree)
	scores := make([]float64, len(hits))
	scored := make([]bool, len(hits))
	for i, f := range hits {
		s, ok := score(f)
		scores[i] = s
		scored[i] = ok
		if !ok {
			continue
		}
		tree, ok := trees[f.Contig]
		if !ok {
			tree = &interval.IntTree{}
			trees[f.Contig] = tree
		}
		err := tree.Insert(subjectInterval{uid: uintptr(i), start: f.Start, end: f.End, score: s}, true)
		if err != nil {
			log.Fatal(err)
		}
	}
	for _, tree := range trees {
		tree.AdjustRanges()
	}

	var culled []bed.Feature
outer:
	for i, f := range hits {
		if scored[i] {
			tree, ok := trees[f.Contig]
			if ok {
				for _, h := range tree.Get(subjectInterval{start: f.Start, end: f.End}) {
					o := h.(subjectInterval)
					if o.uid != uintptr(i) && o.score > scores[i] {
						continue outer
					}
				}
			}
		}
		culled = append(culled, f)
	}
	return culled
}

// score returns the repeat-call score if present and numeric: satrep
// writes calls as contig, start, end, score (cmd/satrep/main.go), so the
// score is the first trailing field, Rest[0].
func score(f bed.Feature) (float64, bool) {
	if len(f.Rest) < 1 {
		return 0, false
	}
	v, err := strconv.ParseFloat(f.Rest[0], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

type subjectInterval struct {
	uid        uintptr
	start, end int
	score      float64
}

// Overlap returns whether the b interval completely contains i.
func (i subjectInterval) Overlap(b interval.IntRange) bool {
	return b.Start <= i.start && i.end <= b.End
}
func (i subjectInterval) ID() uintptr { return i.uid }
func (i subjectInterval) Range() interval.IntRange {
	return interval.IntRange{Start: i.start, End: i.end}
}
