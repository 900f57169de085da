// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fasta

import (
	"bufio"
	"io"
)

// KmerEvent is one step of the k-mer stream: a base read from the input,
// the k-mer ending at that base, and its location.
type KmerEvent struct {
	Contig   string
	Base     byte
	Kmer     string
	Position int // intra-contig position, counting valid bases only
	Line     int

	// Break reports whether the running k-mer was emptied immediately
	// before this base was read, by a contig change or an N run. A
	// graph builder consuming the stream must treat the previous k-mer
	// as empty for this transition.
	Break bool
}

// KmerReader yields the k-mer stream described in the component design:
// successive (contig, base, k-mer suffix, position, line) tuples, with
// the running k-mer reset to empty on contig change and on N.
type KmerReader struct {
	sc   *bufio.Scanner
	k    int
	skip int

	contig string
	kmer   []byte
	pos    int
	line   int

	broke bool // the running k-mer was just reset

	lineBuf []byte
	li      int
	done    bool
}

// NewKmerReader returns a KmerReader over r with k-mer length k, skipping
// the first skip valid bases of the stream (they are consumed but not
// emitted).
func NewKmerReader(r io.Reader, k, skip int) *KmerReader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<24)
	return &KmerReader{
		sc:    sc,
		k:     k,
		skip:  skip,
		broke: true, // start-of-sequence transitions are absorbed by the sentinel
	}
}

// Next returns the next event in the k-mer stream, or an *IllegalCharacterError
// if the input contains a byte outside {A,C,G,T,N,'\n'}. It returns io.EOF
// once the stream is exhausted.
func (k *KmerReader) Next() (KmerEvent, error) {
	for {
		c, ok, err := k.nextByte()
		if err != nil {
			return KmerEvent{}, err
		}
		if !ok {
			return KmerEvent{}, io.EOF
		}

		switch {
		case c == ambiguous:
			k.kmer = k.kmer[:0]
			k.broke = true
			continue
		case IsBase(c):
			k.kmer = append(k.kmer, c)
			if len(k.kmer) > k.k {
				k.kmer = k.kmer[len(k.kmer)-k.k:]
			}
			ev := KmerEvent{
				Contig:   k.contig,
				Base:     c,
				Kmer:     string(k.kmer),
				Position: k.pos,
				Line:     k.line,
				Break:    k.broke,
			}
			k.broke = false
			k.pos++
			if k.skip > 0 {
				k.skip--
				continue
			}
			return ev, nil
		default:
			return KmerEvent{}, &IllegalCharacterError{
				Contig:   k.contig,
				Char:     c,
				Kmer:     string(k.kmer),
				Position: k.pos,
				Line:     k.line,
			}
		}
	}
}

// nextByte returns the next sequence byte (header lines are consumed and
// update the contig state rather than being returned), or ok=false at EOF.
func (k *KmerReader) nextByte() (byte, bool, error) {
	for {
		if k.li >= len(k.lineBuf) {
			if k.done {
				return 0, false, nil
			}
			if !k.sc.Scan() {
				if err := k.sc.Err(); err != nil {
					return 0, false, err
				}
				k.done = true
				continue
			}
			k.lineBuf = k.sc.Bytes()
			k.li = 0
			k.line++
			if len(k.lineBuf) > 0 && k.lineBuf[0] == '>' {
				k.contig = string(k.lineBuf[1:])
				k.pos = 0
				k.kmer = k.kmer[:0]
				k.broke = true
				k.li = len(k.lineBuf)
				continue
			}
			continue
		}
		c := k.lineBuf[k.li]
		k.li++
		return c, true, nil
	}
}
