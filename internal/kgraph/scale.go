// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kgraph

import (
	"fmt"
	"math"
)

// Scaling is a monotone per-edge rescaling of a raw transition count.
type Scaling func(float64) float64

// Scalings holds the named scalings accepted by the CLI.
var Scalings = map[string]Scaling{
	"log1p":    math.Log1p,
	"no-scale": identity,
}

func identity(x float64) float64 { return x }

// ScaledEdge is a surviving, scaled transition out of a node, labelled by
// the base that causes it.
type ScaledEdge struct {
	Base   byte
	Weight float64
}

// Scale applies the named scaling to every observed (non-zero) count in
// counts, dropping zero counts first so that a scaling with scaled(0)==0
// cannot resurrect a transition that was never observed.
func Scale(counts map[string]*[4]int, name string) (map[string][]ScaledEdge, error) {
	scale, ok := Scalings[name]
	if !ok {
		return nil, fmt.Errorf("kgraph: unknown scaling %q", name)
	}
	scaled := make(map[string][]ScaledEdge, len(counts))
	for kmer, c := range counts {
		var edges []ScaledEdge
		for i, n := range c {
			if n <= 0 {
				continue
			}
			edges = append(edges, ScaledEdge{Base: "ACGT"[i], Weight: scale(float64(n))})
		}
		scaled[kmer] = edges
	}
	return scaled, nil
}

// Prune keeps only edges with weight at least the threshold derived from
// absThreshold and relThreshold (a percentage of the maximum observed
// weight), then deletes any node left with no outgoing edges.
func Prune(scaled map[string][]ScaledEdge, absThreshold, relThreshold float64) map[string][]ScaledEdge {
	var maxWeight float64 = -1
	for _, edges := range scaled {
		for _, e := range edges {
			if e.Weight > maxWeight {
				maxWeight = e.Weight
			}
		}
	}
	threshold := math.Max(maxWeight*relThreshold/100, absThreshold)

	pruned := make(map[string][]ScaledEdge, len(scaled))
	for kmer, edges := range scaled {
		var kept []ScaledEdge
		for _, e := range edges {
			if e.Weight >= threshold {
				kept = append(kept, e)
			}
		}
		if len(kept) > 0 {
			pruned[kmer] = kept
		}
	}
	return pruned
}
