// Copyright 2011 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package sstable

import (
	"io"

	"github.com/treeverse/lakefs-sstable/vfs"
)

// EntryIterator is a forward-only, single-pass sequence of every entry in
// an SSTable, in stored order (§4.7). It composes the footer, the
// flattened data-block handle list, and the data-block decoder into one
// explicit state machine: which data block is current, and where within
// that block's decoded entries the cursor sits. This avoids the recursion
// nested generator composition would otherwise need.
//
// An EntryIterator is not safe for concurrent use and holds no lock on the
// underlying file; closing the Reader that produced it while iteration is
// in progress is the caller's mistake, not this package's problem to guard
// against (§5).
type EntryIterator struct {
	f       vfs.File
	ft      footer
	opts    *ReaderOptions
	handles []blockHandle

	blockIdx int
	entries  []blockEntry
	entryIdx int

	err error
}

// newEntryIterator constructs an EntryIterator over every data block named,
// directly or transitively, by ft's index.
func newEntryIterator(f vfs.File, ft footer, props Properties, opts *ReaderOptions) (*EntryIterator, error) {
	handles, err := dataBlockHandles(f, ft, props, opts)
	if err != nil {
		return nil, err
	}
	return &EntryIterator{f: f, ft: ft, opts: opts, handles: handles}, nil
}

// Next advances the iterator and returns the next entry, or io.EOF once
// every data block has been exhausted. Any decode error aborts iteration
// immediately and is returned (and cached: subsequent calls keep returning
// it) rather than silently skipping the bad block.
func (it *EntryIterator) Next() (Entry, error) {
	if it.err != nil {
		return Entry{}, it.err
	}
	for it.entryIdx >= len(it.entries) {
		if it.blockIdx >= len(it.handles) {
			it.err = io.EOF
			return Entry{}, io.EOF
		}
		b, err := readBlock(it.f, it.handles[it.blockIdx], it.ft.checksumKind, it.opts)
		if err != nil {
			it.err = err
			return Entry{}, err
		}
		entries, err := readDataBlockEntries(b)
		if err != nil {
			it.err = err
			return Entry{}, err
		}
		it.entries = entries
		it.entryIdx = 0
		it.blockIdx++
	}
	e := it.entries[it.entryIdx]
	it.entryIdx++
	return entryFromBlock(e), nil
}
