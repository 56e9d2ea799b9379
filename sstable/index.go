// Copyright 2011 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package sstable

import (
	"github.com/treeverse/lakefs-sstable/internal/base"
	"github.com/treeverse/lakefs-sstable/vfs"
	"golang.org/x/exp/slices"
)

// indexEntry pairs a decoded index-block separator key with the handle of
// the block (data block, for a single-level index; second-level index
// block, for a two-level index) it precedes.
type indexEntry struct {
	separator base.InternalKey
	handle    blockHandle
}

// decodeIndexBlock decodes b (laid out exactly like a data block, §4.5) as
// a sequence of (separator_key, child_handle) pairs.
func decodeIndexBlock(b block) ([]indexEntry, error) {
	entries, err := readDataBlockEntries(b)
	if err != nil {
		return nil, err
	}
	out := make([]indexEntry, len(entries))
	for i, e := range entries {
		c := newCursor(e.value, 0)
		h, err := decodeBlockHandle(c)
		if err != nil {
			return nil, err
		}
		out[i] = indexEntry{separator: e.ikey, handle: h}
	}
	return out, nil
}

// dataBlockHandles flattens the top-level index into the ordered sequence
// of data-block handles it addresses, transparently resolving one level of
// indirection when ft/props name a two-level index (§4.5). This reads
// every second-level index block eagerly; for the single-pass streaming
// iterator this reader targets, that is no more I/O than walking them
// lazily would be, since every data block is visited anyway.
func dataBlockHandles(f vfs.File, ft footer, props Properties, opts *ReaderOptions) ([]blockHandle, error) {
	topBlock, err := readBlock(f, ft.indexHandle, ft.checksumKind, opts)
	if err != nil {
		return nil, err
	}
	topEntries, err := decodeIndexBlock(topBlock)
	if err != nil {
		return nil, err
	}
	if props.IndexType() != indexTypeTwoLevel {
		handles := make([]blockHandle, len(topEntries))
		for i, e := range topEntries {
			handles[i] = e.handle
		}
		return handles, nil
	}

	var handles []blockHandle
	for _, top := range topEntries {
		secondBlock, err := readBlock(f, top.handle, ft.checksumKind, opts)
		if err != nil {
			return nil, err
		}
		secondEntries, err := decodeIndexBlock(secondBlock)
		if err != nil {
			return nil, err
		}
		for _, e := range secondEntries {
			handles = append(handles, e.handle)
		}
	}
	return handles, nil
}

// seekIndex returns the index of the first entry in entries whose
// separator is >= userKey, or len(entries) if none qualifies. Index-block
// separators are sorted by construction (readDataBlockEntries enforces
// non-decreasing user keys), so this is a binary search rather than a
// linear scan.
func seekIndex(entries []indexEntry, userKey []byte) int {
	i, _ := slices.BinarySearchFunc(entries, userKey, func(e indexEntry, target []byte) int {
		return base.DefaultCompare(e.separator.UserKey, target)
	})
	return i
}
