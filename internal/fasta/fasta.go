// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fasta provides a minimal, allocation-conscious FASTA reader
// tailored to the repeat search engine: a k-mer stream used once to build
// the transition graph, and a rewindable byte cursor used by the
// automaton search to walk the sequence a base at a time.
//
// Only the uppercase alphabet A, C, G and T is understood as sequence;
// any other byte except N is an error. N is a contig-internal break in the
// k-mer stream; the cursor skips it without marking a break.
package fasta

import "fmt"

// IsBase reports whether b is one of the four recognised bases.
func IsBase(b byte) bool {
	switch b {
	case 'A', 'C', 'G', 'T':
		return true
	default:
		return false
	}
}

const ambiguous = 'N'

// BaseIndex returns the 0-based index of b in A,C,G,T order, or -1 if b
// is not a recognised base.
func BaseIndex(b byte) int {
	switch b {
	case 'A':
		return 0
	case 'C':
		return 1
	case 'G':
		return 2
	case 'T':
		return 3
	default:
		return -1
	}
}

// IndexBase is the inverse of BaseIndex.
func IndexBase(i int) byte {
	return "ACGT"[i]
}

// IllegalCharacterError is returned when a FASTA byte stream contains a
// character outside the accepted alphabet {A, C, G, T, N} (and line
// terminators).
type IllegalCharacterError struct {
	Contig   string
	Char     byte
	Kmer     string
	Position int
	Line     int
}

func (e *IllegalCharacterError) Error() string {
	return fmt.Sprintf("fasta: illegal character %q in contig %q at position %d (line %d), current k-mer %q",
		e.Char, e.Contig, e.Position, e.Line, e.Kmer)
}

// ResetError is returned when a cursor is asked to rewind to a position
// earlier than the earliest position it still holds.
type ResetError struct {
	Requested int64
	Floor     int64
}

func (e *ResetError) Error() string {
	return fmt.Sprintf("fasta: cannot reset to position %d: floor is %d", e.Requested, e.Floor)
}
