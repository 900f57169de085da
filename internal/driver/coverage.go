// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package driver

import (
	"fmt"
	"sort"

	"github.com/biogo/store/step"
)

// Coverage accumulates a run-length-encoded, per-contig track of bases
// claimed by emitted hits, for a one-line end-of-run summary. It mirrors
// the step.Vector per-base annotation tracks built by cmd/cmpint in the
// sibling ins tool, applied here to repeat coverage instead of feature
// concordance. Overlapping hits on the same contig claim their union of
// bases exactly once, the same way cmd/cmpint's tracks fold overlapping
// GTF features before walking them with Do.
type Coverage struct {
	tracks map[string]*step.Vector
}

// NewCoverage returns an empty coverage tracker.
func NewCoverage() *Coverage {
	return &Coverage{
		tracks: make(map[string]*step.Vector),
	}
}

type covered bool

func (c covered) Equal(e step.Equaler) bool {
	o, ok := e.(covered)
	return ok && c == o
}

// Add records that [start, end) on contig was claimed by an emitted hit.
func (c *Coverage) Add(contig string, start, end int64) {
	if end <= start {
		return
	}
	v, ok := c.tracks[contig]
	if !ok {
		var err error
		v, err = step.New(0, 1, covered(false))
		if err != nil {
			// step.New only fails on a malformed zero value; covered(false)
			// is always valid, so this is unreachable.
			panic(err)
		}
		v.Relaxed = true
		c.tracks[contig] = v
	}
	v.ApplyRange(int(start), int(end), func(step.Equaler) step.Equaler {
		return covered(true)
	})
}

// Summary returns one line per contig with hits, sorted by contig name.
// The base count for each contig is read back from its track by walking
// every step with Do and summing the spans marked covered, so bases
// claimed by overlapping hits are counted once rather than once per hit.
func (c *Coverage) Summary() []string {
	contigs := make([]string, 0, len(c.tracks))
	for contig := range c.tracks {
		contigs = append(contigs, contig)
	}
	sort.Strings(contigs)
	lines := make([]string, len(contigs))
	for i, contig := range contigs {
		var total int64
		c.tracks[contig].Do(func(start, end int, e step.Equaler) {
			if e.(covered) {
				total += int64(end - start)
			}
		})
		lines[i] = fmt.Sprintf("# %s: %d bases covered by repeats", contig, total)
	}
	return lines
}
