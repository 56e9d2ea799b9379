// Copyright 2018 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package sstable

import (
	"github.com/treeverse/lakefs-sstable/internal/base"
)

// kv is one synthetic record used to build a test SSTable. Entries must be
// supplied in ascending key order, matching what a real writer would
// produce.
type kv struct {
	key, value string
}

// buildSSTableFile assembles a complete, minimal SSTable file in memory:
// one or more data blocks (entries chunked perBlock at a time), a
// single-level or two-level index over them, a meta-index block, and a
// properties block, terminated by a current-format footer. It is this
// repo's analogue of the teacher's rawBlockWriter-based fixture
// construction, generalized to also emit the index and properties blocks
// the teacher's own reader tests get for free from a real .sst fixture.
func buildSSTableFile(entries []kv, perBlock int, twoLevel bool) []byte {
	var file []byte
	appendBlock := func(payload []byte) blockHandle {
		h := blockHandle{offset: uint64(len(file)), length: uint64(len(payload))}
		file = append(file, payload...)
		file = append(file, compressionNone)
		file = append(file, 0, 0, 0, 0) // checksum, unverified in these tests
		return h
	}

	var dataHandles []blockHandle
	var separatorPerBlock [][]byte
	for i := 0; i < len(entries); i += perBlock {
		chunk := entries[i:min(i+perBlock, len(entries))]
		keys := make([][]byte, len(chunk))
		values := make([][]byte, len(chunk))
		for j, e := range chunk {
			keys[j] = ikeyBytes(e.key, base.SeqNum(i+j+1), base.InternalKeyKindSet)
			values[j] = []byte(e.value)
		}
		b := buildBlock(keys, values, 16)
		dataHandles = append(dataHandles, appendBlock(b))
		separatorPerBlock = append(separatorPerBlock, ikeyBytes(chunk[len(chunk)-1].key, 0, base.InternalKeyKindSeparator))
	}
	buildIndexBlock := func(seps [][]byte, handles []blockHandle) []byte {
		values := make([][]byte, len(handles))
		for i, h := range handles {
			values[i] = encodeBlockHandle(h)
		}
		return buildBlock(seps, values, 16)
	}

	var topIndexHandle blockHandle
	indexTypeValue := indexTypeSingleLevel
	if !twoLevel || len(dataHandles) <= 1 {
		topIndexHandle = appendBlock(buildIndexBlock(separatorPerBlock, dataHandles))
	} else {
		indexTypeValue = indexTypeTwoLevel
		groupSize := (len(dataHandles) + 1) / 2
		if groupSize < 1 {
			groupSize = 1
		}
		var topSeps [][]byte
		var topHandles []blockHandle
		for i := 0; i < len(dataHandles); i += groupSize {
			end := min(i+groupSize, len(dataHandles))
			second := appendBlock(buildIndexBlock(separatorPerBlock[i:end], dataHandles[i:end]))
			topSeps = append(topSeps, separatorPerBlock[end-1])
			topHandles = append(topHandles, second)
		}
		topIndexHandle = appendBlock(buildIndexBlock(topSeps, topHandles))
	}

	metaHandle := appendMetaAndProperties(appendBlock, len(entries), indexTypeValue)

	footerBytes := buildFooter(metaHandle, topIndexHandle, 2, checksumNone)
	file = append(file, footerBytes...)
	return file
}

// appendMetaAndProperties writes the properties block and the meta-index
// block that names it, returning the meta-index block's handle.
func appendMetaAndProperties(appendBlock func([]byte) blockHandle, numEntries int, idxType indexType) blockHandle {
	propKeys := [][]byte{
		[]byte(PropIndexType),
		[]byte(PropNumEntries),
	}
	propValues := [][]byte{
		appendUvarint(nil, uint64(idxType)),
		appendUvarint(nil, uint64(numEntries)),
	}
	propsBlock := buildBlock(propKeys, propValues, 16)
	propsHandle := appendBlock(propsBlock)

	metaKeys := [][]byte{propertiesBlockName}
	metaValues := [][]byte{encodeBlockHandle(propsHandle)}
	metaBlock := buildBlock(metaKeys, metaValues, 16)
	return appendBlock(metaBlock)
}

// buildLegacySSTableFile assembles a single-data-block SSTable file
// terminated by the older, version-less LevelDB footer rather than the
// current-format one buildSSTableFile emits, so tests can exercise the
// legacy-footer fallback path in readFooter.
func buildLegacySSTableFile(entries []kv) []byte {
	var file []byte
	appendBlock := func(payload []byte) blockHandle {
		h := blockHandle{offset: uint64(len(file)), length: uint64(len(payload))}
		file = append(file, payload...)
		file = append(file, compressionNone, 0, 0, 0, 0)
		return h
	}

	keys := make([][]byte, len(entries))
	values := make([][]byte, len(entries))
	for i, e := range entries {
		keys[i] = ikeyBytes(e.key, base.SeqNum(i+1), base.InternalKeyKindSet)
		values[i] = []byte(e.value)
	}
	dataHandle := appendBlock(buildBlock(keys, values, 16))

	sep := ikeyBytes(entries[len(entries)-1].key, 0, base.InternalKeyKindSeparator)
	indexHandle := appendBlock(buildBlock([][]byte{sep}, [][]byte{encodeBlockHandle(dataHandle)}, 16))

	metaHandle := appendMetaAndProperties(appendBlock, len(entries), indexTypeSingleLevel)

	var footerBuf []byte
	footerBuf = appendUvarint(footerBuf, metaHandle.offset)
	footerBuf = appendUvarint(footerBuf, metaHandle.length)
	footerBuf = appendUvarint(footerBuf, indexHandle.offset)
	footerBuf = appendUvarint(footerBuf, indexHandle.length)
	for len(footerBuf) < legacyFooterLen-8 {
		footerBuf = append(footerBuf, 0)
	}
	footerBuf = append(footerBuf, legacyMagic[:]...)
	file = append(file, footerBuf...)
	return file
}

func encodeBlockHandle(h blockHandle) []byte {
	buf := appendUvarint(nil, h.offset)
	buf = appendUvarint(buf, h.length)
	return buf
}
