// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package automaton implements the valued nondeterministic automaton
// that scores how well a traversal of the k-mer transition graph explains
// a run of the input sequence.
package automaton

import (
	"io"
	"strings"

	"github.com/kortschak/satrep/internal/fasta"
	"github.com/kortschak/satrep/internal/kgraph"
)

// Params holds the scoring parameters for a single search.
type Params struct {
	MaxDrop          int
	InsertionPenalty float64
	GapPenalty       float64
	BasePenalty      float64
	ExactMatch       int // ℓ, the exact-match seed length
}

// Result is the outcome of a single search: the best-scoring interval
// found and where the search stopped.
type Result struct {
	Contig string
	Min    int64 // absolute start of the best interval
	Max    int64 // absolute end of the best interval
	Value  float64
	End    int64 // absolute position the search stopped at
}

// slot is a (position, score) pair. A slot set in an earlier step always
// compares as inferior to one set in the current step, which lets the
// search reuse value arrays across steps without clearing them.
type slot struct {
	pos   int64
	score float64
}

func less(a, b slot) bool {
	if a.pos != b.pos {
		return a.pos < b.pos
	}
	return a.score < b.score
}

type proposal struct {
	allowInsert bool
	idx         int32
}

// Search runs a single inner search starting at the cursor's current
// position. It seeds from an exact match of length p.ExactMatch, then
// propagates scored activations forward one base at a time until the
// best live score has dropped irrecoverably below the best ever seen,
// the contig changes, or the stream ends.
func Search(cur *fasta.Cursor, g *kgraph.Indexed, p Params) (Result, error) {
	offset := cur.Position()
	position := offset
	ell := p.ExactMatch

	var chrom string
	var seed strings.Builder
	for i := 0; i < ell; i++ {
		c, b, err := cur.Next()
		if err != nil {
			if err == io.EOF {
				return Result{Contig: chrom, Min: offset, Max: position, Value: 0, End: position}, nil
			}
			return Result{}, err
		}
		chrom = c
		seed.WriteByte(b)
		position++
	}

	seeds := g.Suffix(seed.String())
	if len(seeds) == 0 {
		return Result{Contig: chrom, Min: offset, Max: offset + int64(ell), Value: 0, End: offset + int64(ell)}, nil
	}

	n := g.Len()
	batches := int(float64(p.MaxDrop)/p.GapPenalty) + 1

	values := make([]slot, n)
	nextValues := make([]slot, n)
	starts := make([]int64, n)
	nextStarts := make([]int64, n)
	for i := range starts {
		starts[i] = offset
		nextStarts[i] = offset
	}
	for i := range values {
		values[i] = slot{pos: -1}
		nextValues[i] = slot{pos: -1}
	}

	maxValue := 0.0
	maxPosition := offset + int64(ell)
	minPosition := offset
	flood := 0.0

	nextStates := make([][]proposal, batches)
	seedBatch := make([]proposal, len(seeds))
	for i, s := range seeds {
		seedBatch[i] = proposal{allowInsert: true, idx: s}
	}
	nextStates[0] = seedBatch

	for anyLive(nextStates) {
		currentStates := nextStates
		nextStates = make([][]proposal, batches)
		values, nextValues = nextValues, values
		starts, nextStarts = nextStarts, starts

		c, b, err := cur.Next()
		if err != nil {
			if err == io.EOF {
				return Result{Contig: chrom, Min: minPosition, Max: maxPosition, Value: maxValue, End: position}, nil
			}
			return Result{}, err
		}
		if c != chrom {
			return Result{Contig: chrom, Min: minPosition, Max: maxPosition, Value: maxValue, End: position}, nil
		}
		base := fasta.BaseIndex(b)
		position++

		cutoff := flood + max0(maxValue-float64(p.MaxDrop))

		for bi := 0; bi < len(currentStates); bi++ {
			for si := 0; si < len(currentStates[bi]); si++ {
				st := currentStates[bi][si]
				value := values[st.idx].score
				if value < cutoff {
					continue
				}

				var stateStart int64
				if value <= 0 {
					stateStart = position - 1
				} else {
					stateStart = starts[st.idx]
				}

				node := g.Node(st.idx)
				gapValue := value - p.GapPenalty
				for eb, e := range node.Next {
					if e.Target < 0 {
						continue
					}
					if eb == base {
						newValue := value + e.Weight
						correct := slot{pos: position, score: newValue}
						if less(nextValues[e.Target], correct) {
							if newValue-flood > maxValue {
								maxValue = newValue - flood
								minPosition = stateStart
								maxPosition = position
								cutoff = flood + max0(maxValue-float64(p.MaxDrop))
							}
							if less(nextValues[e.Target], slot{pos: position, score: -1}) {
								wave := clampBatch(int((maxValue+flood-newValue)/p.GapPenalty), batches)
								nextStates[wave] = append(nextStates[wave], proposal{allowInsert: true, idx: e.Target})
							}
							nextValues[e.Target] = correct
							nextStarts[e.Target] = stateStart
						}
					} else {
						gapped := slot{pos: position, score: gapValue}
						if gapValue >= cutoff && less(values[e.Target], gapped) {
							values[e.Target] = gapped
							wave := clampBatch(int((maxValue+flood-gapValue)/p.GapPenalty), batches)
							currentStates[wave] = append(currentStates[wave], proposal{allowInsert: false, idx: e.Target})
						}
					}
				}

				if st.allowInsert {
					newValue := value - p.InsertionPenalty
					if newValue > cutoff {
						insertion := slot{pos: position, score: newValue}
						if less(nextValues[st.idx], insertion) {
							wave := clampBatch(int((maxValue+flood-newValue)/p.GapPenalty), batches)
							nextStates[wave] = append(nextStates[wave], proposal{allowInsert: true, idx: st.idx})
							nextValues[st.idx] = insertion
							nextStarts[st.idx] = stateStart
						}
					}
				}
			}
		}

		flood += p.BasePenalty
	}

	return Result{Contig: chrom, Min: minPosition, Max: maxPosition, Value: maxValue, End: position}, nil
}

func anyLive(states [][]proposal) bool {
	for _, b := range states {
		if len(b) > 0 {
			return true
		}
	}
	return false
}

func max0(x float64) float64 {
	if x > 0 {
		return x
	}
	return 0
}

func clampBatch(i, batches int) int {
	if i < 0 {
		return 0
	}
	if i >= batches {
		return batches - 1
	}
	return i
}
