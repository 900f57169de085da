// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package driver

import (
	"strings"
	"testing"

	"github.com/kortschak/satrep/internal/automaton"
	"github.com/kortschak/satrep/internal/fasta"
	"github.com/kortschak/satrep/internal/kgraph"
)

// buildGraph runs the full kgraph pipeline over genome, the same sequence
// of calls cmd/satrep makes.
func buildGraph(t *testing.T, genome string, k int) *kgraph.Indexed {
	t.Helper()
	b := kgraph.NewBuilder(k)
	if err := b.Add(strings.NewReader(genome)); err != nil {
		t.Fatalf("Builder.Add: %v", err)
	}
	scaled, err := kgraph.Scale(b.Counts(), "no-scale")
	if err != nil {
		t.Fatalf("Scale: %v", err)
	}
	pruned := kgraph.Prune(scaled, 0, 0)
	g, err := kgraph.Index(pruned, k, k)
	if err != nil {
		t.Fatalf("Index: %v", err)
	}
	return g
}

func TestRunFindsRepeatWithContigRelativeCoordinates(t *testing.T) {
	// A long tandem repeat embedded in flanking, non-repetitive sequence.
	flank := "GATTACAGGCT"
	repeat := strings.Repeat("AC", 30)
	genome := ">chr1\n" + flank + repeat + flank + "\n"

	g := buildGraph(t, genome, 4)

	cur := fasta.NewCursor(strings.NewReader(genome))
	params := Params{
		MinValue: 5,
		FastSkip: true,
		Automaton: automaton.Params{
			MaxDrop:          40,
			InsertionPenalty: 8,
			GapPenalty:       4,
			BasePenalty:      0.5,
			ExactMatch:       4,
		},
	}

	var hits []Hit
	err := Run(cur, g, params, func(h Hit) error {
		hits = append(hits, h)
		return nil
	}, nil, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(hits) == 0 {
		t.Fatal("expected at least one hit for the embedded tandem repeat")
	}

	genomeLen := int64(len(flank)*2 + len(repeat))
	for _, h := range hits {
		if h.Contig != "chr1" {
			t.Errorf("hit contig = %q, want chr1", h.Contig)
		}
		if h.Score < 0 {
			t.Errorf("hit score = %v, want non-negative (emitted hits must clear MinValue > 0)", h.Score)
		}
		if h.Start < 0 || h.End > genomeLen || h.Start >= h.End {
			t.Errorf("hit span [%d,%d) out of bounds for a %d-base contig", h.Start, h.End, genomeLen)
		}
	}
	for i := 1; i < len(hits); i++ {
		if hits[i].Start < hits[i-1].Start {
			t.Errorf("hits not emitted in non-decreasing start order: %+v then %+v", hits[i-1], hits[i])
		}
	}
}

func TestRunRespectsSkip(t *testing.T) {
	genome := ">chr1\n" + strings.Repeat("AC", 20) + "\n"
	g := buildGraph(t, genome, 4)

	cur := fasta.NewCursor(strings.NewReader(genome))
	params := Params{
		MinValue: 1000000, // unreachable, so Run should just walk to EOF without emitting
		Skip:     5,
		FastSkip: true,
		Automaton: automaton.Params{
			MaxDrop:          40,
			InsertionPenalty: 8,
			GapPenalty:       4,
			BasePenalty:      0.5,
			ExactMatch:       4,
		},
	}

	var emitted int
	err := Run(cur, g, params, func(Hit) error {
		emitted++
		return nil
	}, nil, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if emitted != 0 {
		t.Errorf("emitted %d hits, want 0 given an unreachable MinValue", emitted)
	}
}
