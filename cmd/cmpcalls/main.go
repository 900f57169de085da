// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// The cmpcalls program compares the repeat calls in two satrep BED outputs.
// It reports, per contig and in total, the number of bases called in both
// inputs and called in only one of them, as a JSON object on stdout.
// Bases called in neither input are not counted.
//
// If a dot flag is provided, a DOT format graph describing the contigs
// where the two inputs disagree is written, with edge weights giving the
// count of disagreeing bases.
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"

	"github.com/biogo/store/step"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/encoding"
	"gonum.org/v1/gonum/graph/encoding/dot"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/kortschak/satrep/internal/bed"
)

func main() {
	aFile := flag.String("a", "", "specify the input file a name (required)")
	bFile := flag.String("b", "", "specify the input file b name (required)")
	out := flag.String("dot", "", "specify a file to write a DOT graph of per-contig disagreement to")

	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), `Usage of %[1]s:
  $ %[1]s -a <calls-a.bed> -b <calls-b.bed>

Options:
`, os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if *aFile == "" || *bFile == "" {
		flag.Usage()
		os.Exit(2)
	}

	tracks := make(map[string]*step.Vector)
	err := mark(*aFile, tracks, func(p *pair) { p.a = true })
	if err != nil {
		log.Fatal(err)
	}
	err = mark(*bFile, tracks, func(p *pair) { p.b = true })
	if err != nil {
		log.Fatal(err)
	}

	contigs := make([]string, 0, len(tracks))
	for c := range tracks {
		contigs = append(contigs, c)
	}
	sort.Strings(contigs)

	type record struct {
		Agree  int `json:"agree"`
		AOnly  int `json:"a-only"`
		BOnly  int `json:"b-only"`
	}
	total := record{}
	perContig := make(map[string]record, len(contigs))
	mismatched := make(map[string]int)
	for _, c := range contigs {
		var r record
		tracks[c].Do(func(start, end int, e step.Equaler) {
			p := e.(pair)
			if p.isZero() {
				return
			}
			n := end - start
			switch {
			case p.a && p.b:
				r.Agree += n
			case p.a:
				r.AOnly += n
			case p.b:
				r.BOnly += n
			}
		})
		perContig[c] = r
		total.Agree += r.Agree
		total.AOnly += r.AOnly
		total.BOnly += r.BOnly
		if r.AOnly+r.BOnly > 0 {
			mismatched[c] = r.AOnly + r.BOnly
		}
	}

	report := struct {
		Total     record            `json:"total"`
		PerContig map[string]record `json:"per_contig"`
	}{Total: total, PerContig: perContig}

	m, err := json.Marshal(report)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("%s\n", m)

	if *out != "" {
		err = dotOut(*out, *aFile, *bFile, mismatched)
		if err != nil {
			log.Fatal(err)
		}
	}
}

// mark scans the BED features in path and applies set to the pair
// covering each feature's span on its contig.
func mark(path string, tracks map[string]*step.Vector, set func(*pair)) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		if line == "" || line[0] == '#' {
			continue
		}
		feat, err := bed.ParseFeature(line)
		if err != nil {
			return err
		}
		v, ok := tracks[feat.Contig]
		if !ok {
			v, err = step.New(0, 1, pair{})
			if err != nil {
				return err
			}
			v.Relaxed = true
			tracks[feat.Contig] = v
		}
		err = v.ApplyRange(feat.Start, feat.End, func(e step.Equaler) step.Equaler {
			p := e.(pair)
			set(&p)
			return p
		})
		if err != nil {
			return err
		}
	}
	return sc.Err()
}

// pair is a step vector element recording whether a base was called in
// each of the two inputs being compared.
type pair struct {
	a, b bool
}

func (p pair) isZero() bool { return p == pair{} }

func (p pair) Equal(e step.Equaler) bool {
	return p == e.(pair)
}

func dotOut(path, aFile, bFile string, mismatched map[string]int) error {
	g := newNameGraph()
	for contig, w := range mismatched {
		e := edge{
			f: g.nodeFor(aFile),
			t: g.nodeFor(contig + "@" + bFile),
			w: float64(w),
		}
		g.SetWeightedEdge(e)
	}
	b, err := dot.Marshal(g, "discord", "", "\t")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o664)
}

type nameGraph struct {
	*simple.WeightedUndirectedGraph
	idFor map[string]int64
}

func newNameGraph() nameGraph {
	return nameGraph{
		WeightedUndirectedGraph: simple.NewWeightedUndirectedGraph(0, 0),
		idFor:                   make(map[string]int64),
	}
}

func (g nameGraph) nodeFor(s string) graph.Node {
	id, ok := g.idFor[s]
	if ok {
		return g.Node(id)
	}
	id = g.WeightedUndirectedGraph.NewNode().ID()
	g.idFor[s] = id
	n := node{id: id, name: s}
	g.AddNode(n)
	return n
}

type node struct {
	id   int64
	name string
}

func (n node) ID() int64     { return n.id }
func (n node) DOTID() string { return n.name }

type edge struct {
	f, t graph.Node
	w    float64
}

func (e edge) From() graph.Node         { return e.f }
func (e edge) To() graph.Node           { return e.t }
func (e edge) ReversedEdge() graph.Edge { return edge{f: e.t, t: e.f, w: e.w} }
func (e edge) Weight() float64          { return e.w }
func (e edge) Attributes() []encoding.Attribute {
	return []encoding.Attribute{{Key: "weight", Value: fmt.Sprint(e.w)}}
}
