// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kgraph

import (
	"math"
	"testing"
)

func TestScaleDropsZeroCounts(t *testing.T) {
	counts := map[string]*[4]int{
		"AA": {5, 0, 0, 0},
	}
	scaled, err := Scale(counts, "no-scale")
	if err != nil {
		t.Fatalf("Scale: %v", err)
	}
	edges := scaled["AA"]
	if len(edges) != 1 {
		t.Fatalf("got %d edges, want 1 (zero counts must be dropped)", len(edges))
	}
	if edges[0].Base != 'A' || edges[0].Weight != 5 {
		t.Errorf("edge = %+v, want {A 5}", edges[0])
	}
}

func TestScaleMonotone(t *testing.T) {
	counts := map[string]*[4]int{
		"AA": {2, 8, 0, 0},
	}
	scaled, err := Scale(counts, "log1p")
	if err != nil {
		t.Fatalf("Scale: %v", err)
	}
	edges := scaled["AA"]
	var wLow, wHigh float64
	for _, e := range edges {
		switch e.Base {
		case 'A':
			wLow = e.Weight
		case 'C':
			wHigh = e.Weight
		}
	}
	if !(wLow < wHigh) {
		t.Errorf("log1p(2)=%v should be less than log1p(8)=%v", wLow, wHigh)
	}
	if wLow != math.Log1p(2) || wHigh != math.Log1p(8) {
		t.Errorf("got weights %v, %v, want log1p(2)=%v, log1p(8)=%v", wLow, wHigh, math.Log1p(2), math.Log1p(8))
	}
}

func TestScaleUnknownName(t *testing.T) {
	_, err := Scale(nil, "bogus")
	if err == nil {
		t.Fatal("expected an error for an unknown scaling name")
	}
}

func TestPruneThresholdCombinesAbsAndRel(t *testing.T) {
	scaled := map[string][]ScaledEdge{
		"AA": {{Base: 'A', Weight: 10}, {Base: 'C', Weight: 1}},
		"CC": {{Base: 'G', Weight: 5}},
	}
	// rel-threshold is a percentage of the max weight (10): 50 -> 5.
	pruned := Prune(scaled, 0, 50)
	if len(pruned["AA"]) != 1 || pruned["AA"][0].Base != 'A' {
		t.Errorf("AA edges = %+v, want only the weight-10 A edge", pruned["AA"])
	}
	if len(pruned["CC"]) != 1 {
		t.Errorf("CC edges = %+v, want the weight-5 edge to survive (threshold is 5, inclusive)", pruned["CC"])
	}

	// abs-threshold overrides when it is the larger of the two.
	pruned = Prune(scaled, 8, 0)
	if _, ok := pruned["CC"]; ok {
		t.Errorf("CC should have been fully pruned by abs-threshold=8")
	}
	if len(pruned["AA"]) != 1 {
		t.Errorf("AA edges = %+v, want only the weight-10 edge to survive abs-threshold=8", pruned["AA"])
	}
}

func TestPruneIsIdempotent(t *testing.T) {
	scaled := map[string][]ScaledEdge{
		"AA": {{Base: 'A', Weight: 10}, {Base: 'C', Weight: 1}},
	}
	once := Prune(scaled, 0, 50)
	twice := Prune(once, 0, 50)
	if len(once["AA"]) != len(twice["AA"]) {
		t.Fatalf("pruning is not idempotent: once=%v twice=%v", once, twice)
	}
	for i := range once["AA"] {
		if once["AA"][i] != twice["AA"][i] {
			t.Errorf("edge %d differs between passes: %v vs %v", i, once["AA"][i], twice["AA"][i])
		}
	}
}

func TestPruneDropsEmptiedNodes(t *testing.T) {
	scaled := map[string][]ScaledEdge{
		"AA": {{Base: 'A', Weight: 10}},
		"CC": {{Base: 'G', Weight: 1}},
	}
	pruned := Prune(scaled, 0, 100)
	if _, ok := pruned["CC"]; ok {
		t.Errorf("CC should be dropped entirely once its only edge is pruned")
	}
	if _, ok := pruned["AA"]; !ok {
		t.Errorf("AA should survive since it has the maximum weight")
	}
}
