// Copyright 2018 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package sstable

import (
	"github.com/treeverse/lakefs-sstable/internal/base"
)

// blockTrailerLen is the fixed width of a block's on-disk trailer: one
// compression-type byte plus a 4-byte checksum.
const blockTrailerLen = 5

// Compression codec identifiers. These are part of the on-disk format and
// must not be renumbered.
const (
	compressionNone   byte = 0
	compressionSnappy byte = 1
	compressionZlib   byte = 2
	compressionLZ4    byte = 4
	compressionZstd   byte = 7
)

// block is the decompressed payload of a data or index block: a sequence
// of restart-compressed entries followed by the restart-point array and
// its count (§3 "Block").
type block []byte

// restartCount returns the number of restart points encoded in the last 4
// bytes of the block.
func (b block) restartCount() (uint32, error) {
	if len(b) < 4 {
		return 0, ErrBadBlockStructure
	}
	c := newCursor(b[len(b)-4:], 0)
	return decodeFixed32u(c)
}

// entryAreaEnd returns the offset, within b, at which the entry area ends
// and the restart-offset array begins: 4*(N+1) bytes before the end of the
// block, where N is the restart count.
func (b block) entryAreaEnd(numRestarts uint32) int {
	return len(b) - 4*(int(numRestarts)+1)
}

// restartOffset returns the i'th restart offset, a byte position within
// the entry area at which a restart-compressed entry with shared == 0
// begins.
func (b block) restartOffset(entryAreaEnd int, i uint32) (uint32, error) {
	pos := entryAreaEnd + 4*int(i)
	if pos < 0 || pos+4 > len(b) {
		return 0, ErrBadBlockStructure
	}
	c := newCursor(b[pos:pos+4], 0)
	return decodeFixed32u(c)
}

// rawEntry is one decoded restart-compressed entry before any
// interpretation of its key: the key exactly as reconstructed from the
// shared/unshared split, and its value.
type rawEntry struct {
	key   []byte
	value []byte
}

// blockEntry is one data- or index-block entry with its key interpreted as
// an internal key (exposed user key plus decoded sequence/kind).
type blockEntry struct {
	ikey  base.InternalKey
	value []byte
}

// readRawBlockEntries decodes every entry in a block, in stored
// (restart-compressed) order, validating the structural invariants from §3
// that don't depend on how the key is interpreted:
//
//   - every restart offset is strictly increasing and lies within the
//     entry area;
//   - at each restart offset, shared == 0;
//   - shared never exceeds the length of the previous key.
//
// Key-order monotonicity is the caller's responsibility, since what "the
// key" means for ordering purposes differs between plain-keyed blocks
// (meta-index, properties) and internal-keyed blocks (data, index) — see
// readDataBlockEntries and readPlainBlockEntries.
//
// The returned entries borrow no state from the block after this call
// returns: each key/value is copied out, not sliced from the prefix buffer
// (the prefix buffer is reused across entries and would otherwise alias).
func readRawBlockEntries(b block) ([]rawEntry, error) {
	numRestarts, err := b.restartCount()
	if err != nil {
		return nil, err
	}
	if numRestarts == 0 {
		return nil, ErrBadBlockStructure
	}
	entryAreaEnd := b.entryAreaEnd(numRestarts)
	if entryAreaEnd < 0 {
		return nil, ErrBadBlockStructure
	}

	restarts := make([]uint32, numRestarts)
	for i := uint32(0); i < numRestarts; i++ {
		off, err := b.restartOffset(entryAreaEnd, i)
		if err != nil {
			return nil, err
		}
		if int(off) >= entryAreaEnd || (i > 0 && off <= restarts[i-1]) {
			return nil, ErrBadBlockStructure
		}
		restarts[i] = off
	}

	var (
		entries        []rawEntry
		prevKey        []byte
		nextRestartIdx int
	)
	c := newCursor(b[:entryAreaEnd], 0)
	for !c.exhausted() {
		entryOffset := c.consumed()
		isRestart := nextRestartIdx < len(restarts) && uint32(entryOffset) == restarts[nextRestartIdx]

		shared, err := decodeUvarint(c)
		if err != nil {
			return nil, err
		}
		unshared, err := decodeUvarint(c)
		if err != nil {
			return nil, err
		}
		valueLen, err := decodeUvarint(c)
		if err != nil {
			return nil, err
		}

		if isRestart {
			if shared != 0 {
				return nil, ErrBadBlockStructure
			}
			nextRestartIdx++
		}
		if shared > uint64(len(prevKey)) {
			return nil, ErrBadBlockStructure
		}

		suffix, err := c.take(int(unshared))
		if err != nil {
			return nil, err
		}
		value, err := c.take(int(valueLen))
		if err != nil {
			return nil, err
		}

		key := make([]byte, int(shared)+len(suffix))
		copy(key, prevKey[:shared])
		copy(key[shared:], suffix)

		entries = append(entries, rawEntry{key: key, value: append([]byte(nil), value...)})
		prevKey = key
	}
	if nextRestartIdx != len(restarts) {
		return nil, ErrBadBlockStructure
	}
	return entries, nil
}

// readDataBlockEntries decodes a data or index block whose keys are
// internal keys (user key plus an 8-byte sequence/kind trailer, §4.4 step
// 4), additionally validating that every key is long enough to hold the
// trailer and that exposed (trailer-stripped) user keys are non-decreasing
// under unsigned byte comparison. Entries sharing a user key but differing
// only in sequence number are permitted: the trailer's encoding does not
// preserve sequence order under raw byte comparison, so only the user-key
// prefix is checked.
func readDataBlockEntries(b block) ([]blockEntry, error) {
	raw, err := readRawBlockEntries(b)
	if err != nil {
		return nil, err
	}
	entries := make([]blockEntry, len(raw))
	var prevUserKey []byte
	for i, e := range raw {
		if len(e.key) < 8 {
			return nil, ErrBadBlockStructure
		}
		ikey := base.DecodeInternalKey(e.key)
		if prevUserKey != nil && base.DefaultCompare(ikey.UserKey, prevUserKey) < 0 {
			return nil, ErrBadBlockStructure
		}
		entries[i] = blockEntry{ikey: ikey, value: e.value}
		prevUserKey = ikey.UserKey
	}
	return entries, nil
}

// readPlainBlockEntries decodes a meta-index or properties block, whose
// keys carry no internal-key trailer, validating that keys are
// non-decreasing under unsigned byte comparison directly.
func readPlainBlockEntries(b block) ([]rawEntry, error) {
	raw, err := readRawBlockEntries(b)
	if err != nil {
		return nil, err
	}
	var prevKey []byte
	for _, e := range raw {
		if prevKey != nil && base.DefaultCompare(e.key, prevKey) < 0 {
			return nil, ErrBadBlockStructure
		}
		prevKey = e.key
	}
	return raw, nil
}
