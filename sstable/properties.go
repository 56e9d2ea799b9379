// Copyright 2011 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package sstable

import (
	"github.com/treeverse/lakefs-sstable/vfs"
)

// propertiesBlockName and its legacy alias are the meta-index keys a
// RocksDB-family writer files the properties block under. Older writers
// (the LevelDB-footer era) used the "rocksdb.stats" name.
var (
	propertiesBlockName       = []byte("rocksdb.properties")
	legacyPropertiesBlockName = []byte("rocksdb.stats")
)

// Well-known property names, for use with the Properties map and its
// Uint64 and String accessors. Not exhaustive; callers needing an unlisted
// property can still look it up in the raw map.
const (
	PropNumEntries         = "rocksdb.num.entries"
	PropRawKeySize         = "rocksdb.raw.key.size"
	PropRawValueSize       = "rocksdb.raw.value.size"
	PropDataSize           = "rocksdb.data.size"
	PropIndexSize          = "rocksdb.index.size"
	PropComparator         = "rocksdb.comparator"
	PropColumnFamilyName   = "rocksdb.column.family.name"
	PropCollectors         = "rocksdb.property.collectors"
	PropIndexType          = "rocksdb.block.based.table.index.type"
)

// indexType enumerates the value of PropIndexType.
type indexType uint32

const (
	indexTypeSingleLevel indexType = 0
	indexTypeTwoLevel    indexType = 2
)

// Properties is the decoded properties block: a mapping from property name
// to its raw encoded value, exactly as decoded off disk (§3 "Properties").
type Properties map[string][]byte

// Uint64 decodes a uvarint-valued property, returning 0 if name is absent
// or the value under it doesn't decode as a single uvarint.
func (p Properties) Uint64(name string) uint64 {
	v, ok := p[name]
	if !ok {
		return 0
	}
	c := newCursor(v, 0)
	n, err := decodeUvarint(c)
	if err != nil {
		return 0
	}
	return n
}

// String returns the raw bytes under name interpreted as UTF-8, or "" if
// absent.
func (p Properties) String(name string) string {
	return string(p[name])
}

// IndexType reports whether the file's index is single-level or two-level.
// Defaults to single-level if the property is absent, matching the oldest
// writers this reader's lineage supports.
func (p Properties) IndexType() indexType {
	return indexType(p.Uint64(PropIndexType))
}

// readProperties decodes the meta-index block (itself laid out as a data
// block mapping name -> block handle), locates the properties block by
// name, and decodes that block as a data block into a Properties map. A
// file with no properties block (ancient writers, or one that elided it)
// yields an empty, non-nil map rather than an error.
func readProperties(f vfs.File, ft footer, opts *ReaderOptions) (Properties, error) {
	metaBlock, err := readBlock(f, ft.metaIndexHandle, ft.checksumKind, opts)
	if err != nil {
		return nil, err
	}
	metaEntries, err := readPlainBlockEntries(metaBlock)
	if err != nil {
		return nil, err
	}

	var propsHandleBytes []byte
	for _, e := range metaEntries {
		if string(e.key) == string(propertiesBlockName) ||
			string(e.key) == string(legacyPropertiesBlockName) {
			propsHandleBytes = e.value
			break
		}
	}
	if propsHandleBytes == nil {
		return Properties{}, nil
	}

	c := newCursor(propsHandleBytes, 0)
	h, err := decodeBlockHandle(c)
	if err != nil {
		return nil, err
	}

	propsBlock, err := readBlock(f, h, ft.checksumKind, opts)
	if err != nil {
		return nil, err
	}
	propEntries, err := readPlainBlockEntries(propsBlock)
	if err != nil {
		return nil, err
	}

	props := make(Properties, len(propEntries))
	for _, e := range propEntries {
		props[string(e.key)] = e.value
	}
	return props, nil
}
