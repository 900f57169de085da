// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kgraph

import (
	"fmt"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/encoding"
	"gonum.org/v1/gonum/graph/encoding/dot"
	"gonum.org/v1/gonum/graph/simple"
)

// DOT renders the indexed graph in Graphviz DOT format, with each node
// labelled by its k-mer and each edge weighted by its scaled transition
// weight. It is a diagnostic export, not part of the search itself.
func (g *Indexed) DOT() ([]byte, error) {
	dg := simple.NewWeightedDirectedGraph(0, 0)
	nodes := make([]kmerNode, len(g.nodes))
	for i, n := range g.nodes {
		nodes[i] = kmerNode{id: int64(i), kmer: n.Kmer}
		dg.AddNode(nodes[i])
	}
	for i, n := range g.nodes {
		for _, e := range n.Next {
			if e.Target < 0 {
				continue
			}
			dg.SetWeightedEdge(kmerEdge{
				f: nodes[i],
				t: nodes[e.Target],
				w: e.Weight,
			})
		}
	}
	return dot.Marshal(dg, "kgraph", "", "\t")
}

type kmerNode struct {
	id   int64
	kmer string
}

func (n kmerNode) ID() int64     { return n.id }
func (n kmerNode) DOTID() string { return n.kmer }

type kmerEdge struct {
	f, t kmerNode
	w    float64
}

func (e kmerEdge) From() graph.Node         { return e.f }
func (e kmerEdge) To() graph.Node           { return e.t }
func (e kmerEdge) ReversedEdge() graph.Edge { return kmerEdge{f: e.t, t: e.f, w: e.w} }
func (e kmerEdge) Weight() float64          { return e.w }
func (e kmerEdge) Attributes() []encoding.Attribute {
	return []encoding.Attribute{{Key: "weight", Value: fmt.Sprint(e.w)}}
}
