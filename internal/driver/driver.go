// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package driver implements the outer repeat-search loop: it repeatedly
// invokes the automaton search starting from the current cursor, emits
// hits exceeding a minimum score, and advances.
package driver

import (
	"fmt"
	"io"

	"github.com/kortschak/satrep/internal/automaton"
	"github.com/kortschak/satrep/internal/fasta"
	"github.com/kortschak/satrep/internal/kgraph"
)

// Hit is a contig-relative, scored interval ready for emission.
type Hit struct {
	Contig string
	Start  int64
	End    int64
	Score  float64
}

// Params configures a run of the driver.
type Params struct {
	MinValue  float64
	FastSkip  bool
	Skip      int64
	Automaton automaton.Params

	// ReportEvery is how many bases of progress elapse between notices.
	// Zero selects the default of 50,000.
	ReportEvery int64
}

const defaultReportEvery = 50000

// Run drives the search to completion, calling emit for every hit whose
// score exceeds p.MinValue and notice for progress messages roughly
// every p.ReportEvery bases. The coverage tracker, if non-nil, is given
// every emitted hit's contig-relative span.
func Run(cur *fasta.Cursor, g *kgraph.Indexed, p Params, emit func(Hit) error, notice func(string), cov *Coverage) error {
	reportEvery := p.ReportEvery
	if reportEvery <= 0 {
		reportEvery = defaultReportEvery
	}

	position := p.Skip
	lastReport := int64(0)

	for {
		err := cur.Reset(position)
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}

		res, err := automaton.Search(cur, g, p.Automaton)
		if err != nil {
			return err
		}

		if res.Value > p.MinValue {
			offset, ok := cur.ContigStart(res.Contig)
			if !ok {
				offset = 0
			}
			start := res.Min - offset
			end := res.Max - offset
			if err := emit(Hit{Contig: res.Contig, Start: start, End: end, Score: res.Value}); err != nil {
				return err
			}
			if cov != nil {
				cov.Add(res.Contig, start, end)
			}
		}

		if p.FastSkip {
			position = res.End
		} else {
			position = res.Max
		}

		if lastReport+reportEvery <= position {
			lastReport = position
			if notice != nil {
				notice(fmt.Sprintf("# Now at base: %d", position))
			}
		}

		if res.Value <= 0 {
			return nil
		}
	}
}
