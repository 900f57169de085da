// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package driver

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"
	"path/filepath"

	"modernc.org/kv"
)

// batchSize mirrors the transaction batching used by the sibling ins
// tool's region-merge pass over its kv.DB stores.
const batchSize = 100

// Spool is an on-disk, contig/position-ordered store for emitted hits.
// It lets a genome-scale run hold hits on disk rather than in memory,
// via modernc.org/kv, exactly as the sibling ins tool spools BLAST hits
// through forward.db and regions.db. Hits drain sorted by contig name,
// then start, then end: within a contig this is the order the driver
// emitted them in, but contigs come out in name order, not file order.
type Spool struct {
	db    *kv.DB
	n     int
	inTx  bool
}

// NewSpool creates a fresh ordered hit store under dir.
func NewSpool(dir string) (*Spool, error) {
	opts := &kv.Options{Compare: compareHitKey}
	db, err := kv.Create(filepath.Join(dir, "hits.db"), opts)
	if err != nil {
		return nil, err
	}
	return &Spool{db: db}, nil
}

// Add spools a hit, batching transactions the same way merge does in
// cmd/ins/fragment.go.
func (s *Spool) Add(h Hit) error {
	if s.n%batchSize == 0 {
		if err := s.db.BeginTransaction(); err != nil {
			return err
		}
		s.inTx = true
	}
	if err := s.db.Set(marshalHitKey(h), nil); err != nil {
		return err
	}
	s.n++
	if s.n%batchSize == 0 {
		if err := s.db.Commit(); err != nil {
			return err
		}
		s.inTx = false
	}
	return nil
}

// Drain calls emit for every spooled hit in contig/position order, then
// closes the store.
func (s *Spool) Drain(emit func(Hit) error) error {
	if s.inTx {
		if err := s.db.Commit(); err != nil {
			return err
		}
		s.inTx = false
	}
	it, err := s.db.SeekFirst()
	if err != nil {
		if err == io.EOF {
			return s.db.Close()
		}
		return err
	}
	for {
		k, _, err := it.Next()
		if err != nil {
			if err == io.EOF {
				break
			}
			return err
		}
		if err := emit(unmarshalHitKey(k)); err != nil {
			return err
		}
	}
	return s.db.Close()
}

var order = binary.BigEndian

// compareHitKey orders hit keys by contig, then start, then end; it is
// the kv.DB comparator, grounded on store.GroupByQueryOrderSubjectLeft
// in the sibling ins tool.
func compareHitKey(x, y []byte) int {
	if bytes.Equal(x, y) {
		return 0
	}
	hx := unmarshalHitKey(x)
	hy := unmarshalHitKey(y)
	switch {
	case hx.Contig < hy.Contig:
		return -1
	case hx.Contig > hy.Contig:
		return 1
	}
	switch {
	case hx.Start < hy.Start:
		return -1
	case hx.Start > hy.Start:
		return 1
	}
	switch {
	case hx.End < hy.End:
		return -1
	case hx.End > hy.End:
		return 1
	}
	return 0
}

func marshalHitKey(h Hit) []byte {
	var buf bytes.Buffer
	var b [8]byte
	order.PutUint64(b[:], uint64(len(h.Contig)))
	buf.Write(b[:])
	buf.WriteString(h.Contig)
	order.PutUint64(b[:], uint64(h.Start))
	buf.Write(b[:])
	order.PutUint64(b[:], uint64(h.End))
	buf.Write(b[:])
	order.PutUint64(b[:], math.Float64bits(h.Score))
	buf.Write(b[:])
	return buf.Bytes()
}

func unmarshalHitKey(data []byte) Hit {
	var h Hit
	n64 := 8
	n := order.Uint64(data[:n64])
	data = data[n64:]
	h.Contig = string(data[:n])
	data = data[n:]
	h.Start = int64(order.Uint64(data[:n64]))
	data = data[n64:]
	h.End = int64(order.Uint64(data[:n64]))
	data = data[n64:]
	h.Score = math.Float64frombits(order.Uint64(data[:n64]))
	return h
}
