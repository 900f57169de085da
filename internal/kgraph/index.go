// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kgraph

import (
	"errors"
	"sort"

	"github.com/kortschak/satrep/internal/fasta"
)

// Edge is a scaled, surviving transition out of a node.
type Edge struct {
	Target int32 // node index, or -1 if this base was never observed or its target was pruned away
	Weight float64
}

// Node is a materialised k-mer graph node: a stable integer index, its
// k-mer, and up to four outgoing edges keyed by base (A,C,G,T order).
type Node struct {
	Idx  int32
	Kmer string
	Next [4]Edge
}

// Indexed is the dense, integer-indexed k-mer transition graph used by
// the automaton search.
type Indexed struct {
	k         int
	nodes     []Node
	byKmer    map[string]int32
	suffixLen int
	suffix    map[string][]int32
	byBase    [4][]int32
}

// ErrEmptyGraph is returned by Index when pruning has removed every edge,
// leaving nothing to search.
var ErrEmptyGraph = errors.New("kgraph: graph is empty after pruning")

// Index assembles the dense indexed graph from a pruned node-to-edge
// mapping. suffixLen is the exact-match length ℓ used to seed searches.
// Edges whose target k-mer was itself pruned away are silently dropped.
func Index(pruned map[string][]ScaledEdge, k, suffixLen int) (*Indexed, error) {
	if len(pruned) == 0 {
		return nil, ErrEmptyGraph
	}

	kmers := make([]string, 0, len(pruned))
	for kmer := range pruned {
		kmers = append(kmers, kmer)
	}
	sort.Strings(kmers)

	g := &Indexed{
		k:         k,
		nodes:     make([]Node, len(kmers)),
		byKmer:    make(map[string]int32, len(kmers)),
		suffixLen: suffixLen,
		suffix:    make(map[string][]int32),
	}
	for i, kmer := range kmers {
		g.byKmer[kmer] = int32(i)
		g.nodes[i] = Node{Idx: int32(i), Kmer: kmer}
		for b := range g.nodes[i].Next {
			g.nodes[i].Next[b].Target = -1
		}
	}

	for i, kmer := range kmers {
		for _, e := range pruned[kmer] {
			target := nextKmer(kmer, e.Base, k)
			ti, ok := g.byKmer[target]
			if !ok {
				// Pruning removed the target node; drop the edge silently.
				continue
			}
			bi := fasta.BaseIndex(e.Base)
			g.nodes[i].Next[bi] = Edge{Target: ti, Weight: e.Weight}
			g.byBase[bi] = append(g.byBase[bi], ti)
		}
	}

	if suffixLen > 0 {
		for i, kmer := range kmers {
			if len(kmer) < suffixLen {
				continue
			}
			suf := kmer[len(kmer)-suffixLen:]
			g.suffix[suf] = append(g.suffix[suf], int32(i))
		}
	} else {
		all := make([]int32, len(kmers))
		for i := range kmers {
			all[i] = int32(i)
		}
		g.suffix[""] = all
	}

	return g, nil
}

// nextKmer computes the k-mer reached by reading base b from kmer,
// matching the rolling-suffix update performed by the k-mer stream.
func nextKmer(kmer string, b byte, k int) string {
	s := kmer + string(b)
	if len(s) > k {
		s = s[len(s)-k:]
	}
	return s
}

// Len returns the number of nodes in the graph.
func (g *Indexed) Len() int { return len(g.nodes) }

// Node returns the node at index i.
func (g *Indexed) Node(i int32) *Node { return &g.nodes[i] }

// ByKmer returns the index of the node for kmer, if present.
func (g *Indexed) ByKmer(kmer string) (int32, bool) {
	i, ok := g.byKmer[kmer]
	return i, ok
}

// Suffix returns the nodes whose k-mer ends with suf, the exact-match
// seeding bucket for suf.
func (g *Indexed) Suffix(suf string) []int32 { return g.suffix[suf] }

// SuffixLen returns the configured exact-match length ℓ.
func (g *Indexed) SuffixLen() int { return g.suffixLen }

// ByBase returns the nodes with at least one incoming edge labelled with
// base b (0=A, 1=C, 2=G, 3=T). This is the legacy seeding path; the
// production search seeds from Suffix instead.
func (g *Indexed) ByBase(b int) []int32 { return g.byBase[b] }

// K returns the configured k-mer length.
func (g *Indexed) K() int { return g.k }
