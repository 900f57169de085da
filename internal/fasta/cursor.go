// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fasta

import (
	"bufio"
	"io"
)

// Cursor is a rewindable byte-stream over the valid bases of a FASTA
// file. It yields (contig, base) pairs, skipping N runs and whitespace,
// and records the absolute position at which each contig started so a
// caller can translate absolute positions to contig-relative ones.
//
// Cursor keeps a bounded look-behind buffer so that reset to an earlier
// position, as long as it is still covered by the buffer, is cheap; a
// reset further back than the buffer is a programmer error and returns
// a *ResetError.
type Cursor struct {
	sc *bufio.Scanner

	contig   string
	lineBuf  []byte
	li       int
	streamed bool // underlying stream exhausted

	buf    []byte
	bufSeq []string // contig id for each entry in buf, parallel to buf

	start  int64 // absolute position at buf[0]
	offset int   // next unread index within buf

	produced int64 // total valid bases ever produced by advance; start+len(buf) == produced

	contigStart map[string]int64
}

// NewCursor returns a Cursor over r.
func NewCursor(r io.Reader) *Cursor {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<24)
	return &Cursor{
		sc:          sc,
		contigStart: make(map[string]int64),
	}
}

// Position returns the absolute position of the next base to be read.
func (c *Cursor) Position() int64 {
	return c.start + int64(c.offset)
}

// ContigStart returns the absolute position at which contig first
// appeared in the stream, and whether it has been seen at all.
func (c *Cursor) ContigStart(contig string) (int64, bool) {
	p, ok := c.contigStart[contig]
	return p, ok
}

// Next returns the next (contig, base) pair, or io.EOF when the stream
// is exhausted.
func (c *Cursor) Next() (string, byte, error) {
	if c.offset < len(c.buf) {
		contig := c.bufSeq[c.offset]
		base := c.buf[c.offset]
		c.offset++
		return contig, base, nil
	}

	contig, base, err := c.advance()
	if err != nil {
		return "", 0, err
	}
	c.buf = append(c.buf, base)
	c.bufSeq = append(c.bufSeq, contig)
	c.offset++
	return contig, base, nil
}

// Reset rewinds the cursor so that the next call to Next returns the
// base at absolute position p. p must not be earlier than the position
// at the start of the current look-behind buffer.
func (c *Cursor) Reset(p int64) error {
	if p < c.start {
		return &ResetError{Requested: p, Floor: c.start}
	}
	if c.start+int64(len(c.buf)) >= p {
		drop := int(p - c.start)
		c.buf = c.buf[drop:]
		c.bufSeq = c.bufSeq[drop:]
	} else {
		n := p - c.start - int64(len(c.buf))
		c.buf = c.buf[:0]
		c.bufSeq = c.bufSeq[:0]
		for i := int64(0); i < n; i++ {
			_, _, err := c.advance()
			if err != nil {
				return err
			}
		}
	}
	c.start = p
	c.offset = 0
	return nil
}

// advance reads and returns the next valid base directly from the
// underlying stream, without touching the look-behind buffer.
func (c *Cursor) advance() (string, byte, error) {
	for {
		if c.li >= len(c.lineBuf) {
			if c.streamed {
				return "", 0, io.EOF
			}
			if !c.sc.Scan() {
				if err := c.sc.Err(); err != nil {
					return "", 0, err
				}
				c.streamed = true
				continue
			}
			c.lineBuf = c.sc.Bytes()
			c.li = 0
			if len(c.lineBuf) > 0 && c.lineBuf[0] == '>' {
				c.contig = string(c.lineBuf[1:])
				if _, ok := c.contigStart[c.contig]; !ok {
					c.contigStart[c.contig] = c.produced
				}
				c.li = len(c.lineBuf)
				continue
			}
			continue
		}
		ch := c.lineBuf[c.li]
		c.li++
		switch {
		case ch == ambiguous:
			continue
		case IsBase(ch):
			c.produced++
			return c.contig, ch, nil
		default:
			return "", 0, &IllegalCharacterError{
				Contig: c.contig,
				Char:   ch,
			}
		}
	}
}
