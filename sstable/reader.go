// Copyright 2011 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package sstable reads the on-disk Sorted String Table format used by the
// RocksDB/Pebble lineage: given random-access byte source, it locates the
// footer, walks the index, decodes data blocks, and yields every key/value
// entry in stored order. There is no write path, no compression support,
// and no cross-file indexing; the public surface is Reader (with Open and
// NewReader), ReaderOptions, EntryIterator, Entry, Properties and the error
// sentinels.
package sstable

import (
	"github.com/cockroachdb/errors"
	"github.com/treeverse/lakefs-sstable/vfs"
)

// Reader provides read-only access to a single SSTable file. It is safe
// for concurrent use by multiple goroutines for property lookups, but
// EntryIterator instances it produces are not (§5).
type Reader struct {
	file vfs.File
	opts ReaderOptions

	footer footer
	props  Properties

	topIndex []indexEntry
}

// Open reads and validates name's footer and properties block, returning a
// Reader ready to produce iterators. The caller retains ownership of fs and
// must call Close when done with the Reader.
func Open(fs vfs.FS, name string, opts ReaderOptions) (*Reader, error) {
	f, err := fs.Open(name)
	if err != nil {
		return nil, err
	}
	r, err := NewReader(f, opts)
	if err != nil {
		f.Close()
		return nil, err
	}
	return r, nil
}

// NewReader wraps an already-open vfs.File. Ownership of f passes to the
// returned Reader; Close on the Reader closes f.
func NewReader(f vfs.File, opts ReaderOptions) (*Reader, error) {
	opts.EnsureDefaults()

	ft, err := readFooter(f)
	if err != nil {
		return nil, err
	}
	if ft.LegacyFormat {
		opts.Logger.Infof("sstable: reading legacy footer, checksum kind forced to CRC32c")
	}
	props, err := readProperties(f, ft, &opts)
	if err != nil {
		return nil, err
	}

	r := &Reader{file: f, opts: opts, footer: ft, props: props}

	topBlock, err := readBlock(f, ft.indexHandle, ft.checksumKind, &opts)
	if err != nil {
		return nil, err
	}
	r.topIndex, err = decodeIndexBlock(topBlock)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// Close releases the underlying file. It does not invalidate Properties
// already returned by a prior call, since those no longer reference the
// file.
func (r *Reader) Close() error {
	return r.file.Close()
}

// Properties returns the file's decoded properties block. The returned map
// must not be mutated; it is shared across callers.
func (r *Reader) Properties() Properties {
	return r.props
}

// NewIter returns a fresh EntryIterator over every entry in the file, in
// stored order.
func (r *Reader) NewIter() (*EntryIterator, error) {
	return newEntryIterator(r.file, r.footer, r.props, &r.opts)
}

// Get scans the data block that could contain userKey (located via a
// binary search of the top-level index, falling through one level of
// indirection for a two-level index) and returns the first entry in that
// block whose exposed key equals userKey. ok is false, with a nil error,
// if no such entry exists; err is non-nil only on a decode failure.
//
// This is a convenience on top of the sequential EntryIterator for callers
// that want a single lookup rather than a full scan; it does not attempt
// to merge multiple sequence numbers for the same user key the way a full
// LSM read path would, since there is no write path here to produce more
// than one version intentionally.
func (r *Reader) Get(userKey []byte) (Entry, bool, error) {
	h, err := r.dataBlockHandleFor(userKey)
	if err != nil {
		return Entry{}, false, err
	}
	if h == nil {
		return Entry{}, false, nil
	}
	b, err := readBlock(r.file, *h, r.footer.checksumKind, &r.opts)
	if err != nil {
		return Entry{}, false, err
	}
	entries, err := readDataBlockEntries(b)
	if err != nil {
		return Entry{}, false, err
	}
	for _, e := range entries {
		if string(e.ikey.UserKey) == string(userKey) {
			return entryFromBlock(e), true, nil
		}
	}
	return Entry{}, false, nil
}

func (r *Reader) dataBlockHandleFor(userKey []byte) (*blockHandle, error) {
	i := seekIndex(r.topIndex, userKey)
	if i >= len(r.topIndex) {
		return nil, nil
	}
	top := r.topIndex[i]
	if r.props.IndexType() != indexTypeTwoLevel {
		return &top.handle, nil
	}
	secondBlock, err := readBlock(r.file, top.handle, r.footer.checksumKind, &r.opts)
	if err != nil {
		return nil, err
	}
	secondEntries, err := decodeIndexBlock(secondBlock)
	if err != nil {
		return nil, err
	}
	j := seekIndex(secondEntries, userKey)
	if j >= len(secondEntries) {
		return nil, nil
	}
	return &secondEntries[j].handle, nil
}

// ErrNotFound is returned by callers layering a stricter contract on top
// of Get's (Entry, bool, error) return; Get itself never returns it.
var ErrNotFound = errors.New("sstable: not found")
