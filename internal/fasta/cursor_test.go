// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fasta

import (
	"strings"
	"testing"
)

func readN(t *testing.T, c *Cursor, n int) ([]byte, []string) {
	t.Helper()
	bases := make([]byte, 0, n)
	contigs := make([]string, 0, n)
	for i := 0; i < n; i++ {
		contig, b, err := c.Next()
		if err != nil {
			t.Fatalf("Next failed at i=%d: %v", i, err)
		}
		bases = append(bases, b)
		contigs = append(contigs, contig)
	}
	return bases, contigs
}

func TestCursorResetIsExact(t *testing.T) {
	// The bug-fix design point: after Reset(p), the cursor must sit at
	// exactly position p, whether p rewinds into the held buffer or
	// discards forward past it.
	input := ">chr1\nACGTACGTACGT\n"
	c := NewCursor(strings.NewReader(input))

	readN(t, c, 8)
	if got := c.Position(); got != 8 {
		t.Fatalf("position after 8 reads = %d, want 8", got)
	}

	if err := c.Reset(3); err != nil {
		t.Fatalf("Reset(3): %v", err)
	}
	if got := c.Position(); got != 3 {
		t.Fatalf("position after Reset(3) = %d, want 3", got)
	}

	if err := c.Reset(10); err != nil {
		t.Fatalf("Reset(10): %v", err)
	}
	if got := c.Position(); got != 10 {
		t.Fatalf("position after Reset(10) = %d, want 10", got)
	}
}

func TestCursorResetRewindEquivalence(t *testing.T) {
	// Testable property: reading straight through must equal reading with
	// any number of backward resets interleaved, from the point of the
	// reset onward.
	input := ">chr1\nACGTACGTACGTACGTACGT\n"

	straight := NewCursor(strings.NewReader(input))
	wantBases, wantContigs := readN(t, straight, 20)

	c := NewCursor(strings.NewReader(input))
	readN(t, c, 12)
	if err := c.Reset(5); err != nil {
		t.Fatalf("Reset(5): %v", err)
	}
	gotBases, gotContigs := readN(t, c, 15)

	for i := 0; i < 15; i++ {
		if gotBases[i] != wantBases[5+i] || gotContigs[i] != wantContigs[5+i] {
			t.Fatalf("at relative index %d: got (%q,%q), want (%q,%q)",
				i, gotContigs[i], string(gotBases[i]), wantContigs[5+i], string(wantBases[5+i]))
		}
	}
}

func TestCursorResetBelowFloorErrors(t *testing.T) {
	input := ">chr1\nACGTACGTACGTACGTACGTACGTACGT\n"
	c := NewCursor(strings.NewReader(input))
	readN(t, c, 10)
	if err := c.Reset(9); err != nil {
		t.Fatalf("Reset(9) within buffer: %v", err)
	}
	readN(t, c, 1) // advance so start moves past 0 via a forward reset
	if err := c.Reset(20); err != nil {
		t.Fatalf("Reset(20): %v", err)
	}
	if err := c.Reset(0); err == nil {
		t.Fatal("Reset(0) after discarding early positions should have failed")
	} else if _, ok := err.(*ResetError); !ok {
		t.Fatalf("got error of type %T, want *ResetError", err)
	}
}

func TestCursorContigBreakSkipsN(t *testing.T) {
	input := ">chr1\nACNNGT\n>chr2\nTT\n"
	c := NewCursor(strings.NewReader(input))
	bases, contigs := readN(t, c, 6)
	wantBases := "ACGTTT"
	wantContigs := []string{"chr1", "chr1", "chr1", "chr1", "chr2", "chr2"}
	for i := range wantContigs {
		if bases[i] != wantBases[i] || contigs[i] != wantContigs[i] {
			t.Fatalf("index %d: got (%q,%q), want (%q,%q)", i, contigs[i], string(bases[i]), wantContigs[i], string(wantBases[i]))
		}
	}
}

func TestCursorContigStart(t *testing.T) {
	input := ">chr1\nACGT\n>chr2\nTTAA\n"
	c := NewCursor(strings.NewReader(input))
	readN(t, c, 8)

	start1, ok := c.ContigStart("chr1")
	if !ok || start1 != 0 {
		t.Fatalf("ContigStart(chr1) = %d, %v, want 0, true", start1, ok)
	}
	start2, ok := c.ContigStart("chr2")
	if !ok || start2 != 4 {
		t.Fatalf("ContigStart(chr2) = %d, %v, want 4, true", start2, ok)
	}
}

func TestCursorContigStartSurvivesForwardDiscardingReset(t *testing.T) {
	// contigStart must be recorded from the monotonic `produced` counter,
	// not the pre-reset (start, offset) frame, so that it stays correct
	// when Reset jumps forward past data never buffered.
	input := ">chr1\nACGT\n>chr2\nTTAATTAATTAA\n"
	c := NewCursor(strings.NewReader(input))
	if err := c.Reset(10); err != nil {
		t.Fatalf("Reset(10): %v", err)
	}
	start2, ok := c.ContigStart("chr2")
	if !ok || start2 != 4 {
		t.Fatalf("ContigStart(chr2) = %d, %v, want 4, true", start2, ok)
	}
}
