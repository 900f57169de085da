// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package bed implements the BED coordinate-shifting contract described
// for the companion collaborator in the repeat search specification: a
// BED feature on one coordinate system is projected into another
// coordinate system defined by a shift record, with the record itself
// able to express a reversal of orientation.
package bed

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/biogo/store/interval"
)

// ShiftRecord describes one coordinate-system mapping: the span
// [Start, End) of OldContig corresponds to the whole of NewContig.
// Start > End signals that the new coordinate system runs in the
// opposite orientation to the old one.
type ShiftRecord struct {
	OldContig string
	Start     int
	End       int
	NewContig string
}

// ParseShiftRecord parses one line of a shift file: three tab/space
// separated fields (old, start, end), with new defaulting to old, or
// four fields (old, start, end, new).
func ParseShiftRecord(line string) (ShiftRecord, error) {
	f := strings.Fields(line)
	if len(f) != 3 && len(f) < 4 {
		return ShiftRecord{}, fmt.Errorf("bed: malformed shift record: %q", line)
	}
	start, err := strconv.Atoi(f[1])
	if err != nil {
		return ShiftRecord{}, fmt.Errorf("bed: bad start in %q: %w", line, err)
	}
	end, err := strconv.Atoi(f[2])
	if err != nil {
		return ShiftRecord{}, fmt.Errorf("bed: bad end in %q: %w", line, err)
	}
	new := f[0]
	if len(f) >= 4 {
		new = f[3]
	}
	return ShiftRecord{OldContig: f[0], Start: start, End: end, NewContig: new}, nil
}

// Feature is a BED feature: a contig and a half-open interval, plus
// whatever trailing fields (name, score, strand, ...) followed them.
type Feature struct {
	Contig string
	Start  int
	End    int
	Rest   []string
}

// ParseFeature parses one line of a BED file.
func ParseFeature(line string) (Feature, error) {
	f := strings.Fields(line)
	if len(f) < 3 {
		return Feature{}, fmt.Errorf("bed: malformed feature: %q", line)
	}
	start, err := strconv.Atoi(f[1])
	if err != nil {
		return Feature{}, fmt.Errorf("bed: bad start in %q: %w", line, err)
	}
	end, err := strconv.Atoi(f[2])
	if err != nil {
		return Feature{}, fmt.Errorf("bed: bad end in %q: %w", line, err)
	}
	return Feature{Contig: f[0], Start: start, End: end, Rest: f[3:]}, nil
}

// String renders the feature back to a tab-separated BED line.
func (f Feature) String() string {
	fields := append([]string{f.Contig, strconv.Itoa(f.Start), strconv.Itoa(f.End)}, f.Rest...)
	return strings.Join(fields, "\t")
}

// Project maps f through s, returning the projected feature and true,
// or false if the projection's intersection with f is empty.
//
// A forward record (s.Start < s.End) simply subtracts s.Start, clipped
// to [0, s.End-s.Start). A reversed record (s.Start > s.End) additionally
// reflects the clipped interval within that span and, if present,
// toggles the strand column.
func Project(f Feature, s ShiftRecord) (Feature, bool) {
	lo, hi := s.Start, s.End
	reverse := lo > hi
	if reverse {
		lo, hi = hi, lo
	}

	clipStart := max(lo, f.Start)
	clipEnd := min(hi, f.End)
	if clipStart >= clipEnd {
		return Feature{}, false
	}

	span := hi - lo
	localStart := clipStart - lo
	localEnd := clipEnd - lo

	newStart, newEnd := localStart, localEnd
	rest := f.Rest
	if reverse {
		newStart, newEnd = span-localEnd, span-localStart
		if len(rest) >= 3 {
			rest = append([]string(nil), rest...)
			switch rest[2] {
			case "+":
				rest[2] = "-"
			case "-":
				rest[2] = "+"
			}
		}
	}

	return Feature{Contig: s.NewContig, Start: newStart, End: newEnd, Rest: rest}, true
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Shifter indexes shift records by old contig in an interval tree, so
// that the records applicable to a feature are found by a range query
// rather than a scan of every record, the same way cmd/cull's
// cullContained indexes scored features for containment queries.
type Shifter struct {
	byContig map[string]*interval.IntTree
}

// NewShifter builds a Shifter from a set of shift records. Multiple
// records may apply to the same old contig and will all be tried.
func NewShifter(records []ShiftRecord) (*Shifter, error) {
	s := &Shifter{byContig: make(map[string]*interval.IntTree)}
	var uid uintptr
	for _, r := range records {
		tree, ok := s.byContig[r.OldContig]
		if !ok {
			tree = &interval.IntTree{}
			s.byContig[r.OldContig] = tree
		}
		err := tree.Insert(shiftInterval{uid: uid, rec: r}, true)
		if err != nil {
			return nil, err
		}
		uid++
	}
	for _, tree := range s.byContig {
		tree.AdjustRanges()
	}
	return s, nil
}

// Apply returns every projection of f through the shift records that
// apply to f's contig and overlap its span, in no particular order.
func (s *Shifter) Apply(f Feature) []Feature {
	tree, ok := s.byContig[f.Contig]
	if !ok {
		return nil
	}
	hits := tree.Get(queryInterval{lo: f.Start, hi: f.End})
	var out []Feature
	for _, h := range hits {
		rec := h.(shiftInterval).rec
		if nf, ok := Project(f, rec); ok {
			out = append(out, nf)
		}
	}
	return out
}

type shiftInterval struct {
	uid uintptr
	rec ShiftRecord
}

func (s shiftInterval) ID() uintptr { return s.uid }

func (s shiftInterval) Range() interval.IntRange {
	lo, hi := s.rec.Start, s.rec.End
	if lo > hi {
		lo, hi = hi, lo
	}
	return interval.IntRange{Start: lo, End: hi}
}

func (s shiftInterval) Overlap(b interval.IntRange) bool {
	r := s.Range()
	return r.Start < b.End && b.Start < r.End
}

// queryInterval is used only to query the tree for overlaps with a
// feature's span; its ID is never inserted.
type queryInterval struct {
	lo, hi int
}

func (q queryInterval) ID() uintptr { return 0 }
func (q queryInterval) Range() interval.IntRange {
	return interval.IntRange{Start: q.lo, End: q.hi}
}
func (q queryInterval) Overlap(b interval.IntRange) bool {
	return q.lo < b.End && b.Start < q.hi
}
