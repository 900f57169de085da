// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package automaton

import (
	"strings"
	"testing"

	"github.com/kortschak/satrep/internal/fasta"
	"github.com/kortschak/satrep/internal/kgraph"
)

// acCycle builds a two-node graph recognising a perfect AC/CA tandem
// repeat: "AC" --A--> "CA" --C--> "AC" --A--> ..., each transition
// worth weight 5.
func acCycle(t *testing.T) *kgraph.Indexed {
	t.Helper()
	pruned := map[string][]kgraph.ScaledEdge{
		"AC": {{Base: 'A', Weight: 5}},
		"CA": {{Base: 'C', Weight: 5}},
	}
	g, err := kgraph.Index(pruned, 2, 2)
	if err != nil {
		t.Fatalf("kgraph.Index: %v", err)
	}
	return g
}

func basicParams() Params {
	return Params{
		MaxDrop:          40,
		InsertionPenalty: 8,
		GapPenalty:       4,
		BasePenalty:      0.5,
		ExactMatch:       2,
	}
}

func TestSearchScoresPerfectRepeat(t *testing.T) {
	g := acCycle(t)
	seq := strings.Repeat("AC", 10) // 20 bases
	cur := fasta.NewCursor(strings.NewReader(">c\n" + seq + "\n"))

	res, err := Search(cur, g, basicParams())
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Contig != "c" {
		t.Errorf("Contig = %q, want c", res.Contig)
	}
	if res.Value <= 0 {
		t.Errorf("Value = %v, want > 0 for a perfect repeat", res.Value)
	}
	if res.Min > res.Max {
		t.Errorf("Min (%d) > Max (%d)", res.Min, res.Max)
	}
	if res.Min != 2 {
		t.Errorf("Min = %d, want 2 (the first base after the exact-match seed)", res.Min)
	}
}

func TestSearchValueGrowsWithRepeatLength(t *testing.T) {
	g := acCycle(t)

	short := strings.Repeat("AC", 3)
	cShort := fasta.NewCursor(strings.NewReader(">c\n" + short + "\n"))
	resShort, err := Search(cShort, g, basicParams())
	if err != nil {
		t.Fatalf("Search (short): %v", err)
	}

	long := strings.Repeat("AC", 15)
	cLong := fasta.NewCursor(strings.NewReader(">c\n" + long + "\n"))
	resLong, err := Search(cLong, g, basicParams())
	if err != nil {
		t.Fatalf("Search (long): %v", err)
	}

	if !(resLong.Value > resShort.Value) {
		t.Errorf("longer repeat scored %v, want greater than shorter repeat's %v", resLong.Value, resShort.Value)
	}
	if !(resLong.Max > resShort.Max) {
		t.Errorf("longer repeat's Max = %d, want greater than shorter repeat's %d", resLong.Max, resShort.Max)
	}
}

func TestSearchStopsAtContigBoundary(t *testing.T) {
	g := acCycle(t)
	seq := strings.Repeat("AC", 4)
	cur := fasta.NewCursor(strings.NewReader(">c\n" + seq + "\n>d\nACACACAC\n"))

	res, err := Search(cur, g, basicParams())
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Contig != "c" {
		t.Errorf("Contig = %q, want c", res.Contig)
	}
	if res.Max > int64(len(seq)) {
		t.Errorf("Max = %d, search must not cross into the next contig (len(seq)=%d)", res.Max, len(seq))
	}
}

func TestSearchNoSeedMatchReturnsZero(t *testing.T) {
	g := acCycle(t)
	cur := fasta.NewCursor(strings.NewReader(">c\nGGGGGGGGGG\n"))
	res, err := Search(cur, g, basicParams())
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Value != 0 {
		t.Errorf("Value = %v, want 0 when the seed never matches the graph", res.Value)
	}
}
