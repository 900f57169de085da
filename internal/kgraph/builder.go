// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package kgraph builds, scales, prunes and indexes the k-mer transition
// graph that the automaton search walks.
package kgraph

import (
	"io"

	"github.com/kortschak/satrep/internal/fasta"
)

// Builder performs a single pass over a FASTA k-mer stream, counting how
// often each base follows each observed k-mer.
type Builder struct {
	k      int
	counts map[string]*[4]int
	order  []string
}

// NewBuilder returns a Builder for k-mers of length k. The empty k-mer
// is seeded as the sentinel node that absorbs start-of-sequence and
// post-break transitions.
func NewBuilder(k int) *Builder {
	b := &Builder{k: k, counts: make(map[string]*[4]int)}
	b.ensure("")
	return b
}

func (b *Builder) ensure(kmer string) *[4]int {
	c, ok := b.counts[kmer]
	if !ok {
		c = new([4]int)
		b.counts[kmer] = c
		b.order = append(b.order, kmer)
	}
	return c
}

// Add scans r as a FASTA k-mer stream, incrementing the transition
// counts of the graph under construction. It may be called more than
// once, though the core CLI uses a single full scan.
func (b *Builder) Add(r io.Reader) error {
	kr := fasta.NewKmerReader(r, b.k, 0)
	prev := ""
	for {
		ev, err := kr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if ev.Break {
			prev = ""
		}
		idx := fasta.BaseIndex(ev.Base)
		b.ensure(prev)[idx]++
		b.ensure(ev.Kmer)
		prev = ev.Kmer
	}
}

// Counts returns the raw per-kmer, per-base transition counts gathered
// so far, keyed by k-mer text. The returned map must not be mutated.
func (b *Builder) Counts() map[string]*[4]int {
	return b.counts
}

// K returns the configured k-mer length.
func (b *Builder) K() int {
	return b.k
}
