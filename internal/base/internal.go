// Copyright 2011 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package base holds the small, shared vocabulary used by the sstable
// decoder: the internal key trailer format, the default byte-wise
// comparer, and the kind enum that RocksDB and Pebble pack into it.
package base

import (
	"encoding/binary"
	"fmt"
)

// SeqNum is a sequence number defining precedence among identical keys. A
// key with a higher sequence number takes precedence over a key with an
// equal user key of a lower sequence number. Sequence numbers are stored
// durably within the internal key trailer as a 7-byte (uint56) uint.
type SeqNum uint64

// SeqNumMax is the largest valid sequence number.
const SeqNumMax SeqNum = 1<<56 - 1

func (s SeqNum) String() string {
	if s == SeqNumMax {
		return "inf"
	}
	return fmt.Sprintf("%d", uint64(s))
}

// InternalKeyKind enumerates the kind of key: a deletion tombstone, a set
// value, a merged value, etc. These constants are part of the file format
// and must not be renumbered.
type InternalKeyKind uint8

const (
	InternalKeyKindDelete       InternalKeyKind = 0
	InternalKeyKindSet          InternalKeyKind = 1
	InternalKeyKindMerge        InternalKeyKind = 2
	InternalKeyKindLogData      InternalKeyKind = 3
	InternalKeyKindSingleDelete InternalKeyKind = 7
	InternalKeyKindRangeDelete  InternalKeyKind = 15
	// InternalKeyKindSeparator is a key used for separator / successor keys
	// written to sstable block indexes.
	InternalKeyKindSeparator     InternalKeyKind = 17
	InternalKeyKindSetWithDelete InternalKeyKind = 18
	InternalKeyKindMax           InternalKeyKind = 18
	// InternalKeyKindInvalid is not part of the file format; it marks a key
	// whose trailer could not be decoded (too short).
	InternalKeyKindInvalid InternalKeyKind = 255
)

func (k InternalKeyKind) String() string {
	switch k {
	case InternalKeyKindDelete:
		return "DEL"
	case InternalKeyKindSet:
		return "SET"
	case InternalKeyKindMerge:
		return "MERGE"
	case InternalKeyKindLogData:
		return "LOGDATA"
	case InternalKeyKindSingleDelete:
		return "SINGLEDEL"
	case InternalKeyKindRangeDelete:
		return "RANGEDEL"
	case InternalKeyKindSeparator:
		return "SEPARATOR"
	case InternalKeyKindSetWithDelete:
		return "SETWITHDEL"
	case InternalKeyKindInvalid:
		return "INVALID"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", uint8(k))
	}
}

// InternalKeyTrailer encodes a SeqNum and an InternalKeyKind into a single
// uint64: the low 8 bits hold the kind, the high 56 bits hold the sequence
// number.
type InternalKeyTrailer uint64

// MakeTrailer packs a sequence number and kind into a trailer.
func MakeTrailer(seqNum SeqNum, kind InternalKeyKind) InternalKeyTrailer {
	return (InternalKeyTrailer(seqNum) << 8) | InternalKeyTrailer(kind)
}

// SeqNum returns the sequence number packed into the trailer.
func (t InternalKeyTrailer) SeqNum() SeqNum {
	return SeqNum(t >> 8)
}

// Kind returns the key kind packed into the trailer.
func (t InternalKeyTrailer) Kind() InternalKeyKind {
	return InternalKeyKind(t & 0xff)
}

// trailerLen is the width, in bytes, of the internal key trailer appended
// to every on-disk key.
const trailerLen = 8

// InternalKey is a key together with the trailer that RocksDB/Pebble pack
// onto the end of every on-disk key: a sequence number and a kind.
type InternalKey struct {
	UserKey []byte
	Trailer InternalKeyTrailer
}

// DecodeInternalKey decodes an encoded internal key, splitting off the
// trailing 8-byte trailer. A key shorter than the trailer decodes to a
// zero-length user key and InternalKeyKindInvalid; callers that must treat
// this as an error should check Trailer.Kind() against InternalKeyKindInvalid
// explicitly, since this function itself never returns an error (it mirrors
// the split done inline by the block iterator's hot path).
func DecodeInternalKey(encodedKey []byte) InternalKey {
	n := len(encodedKey) - trailerLen
	if n < 0 {
		return InternalKey{Trailer: InternalKeyTrailer(InternalKeyKindInvalid)}
	}
	return InternalKey{
		UserKey: encodedKey[:n:n],
		Trailer: InternalKeyTrailer(binary.LittleEndian.Uint64(encodedKey[n:])),
	}
}

func (k InternalKey) String() string {
	return fmt.Sprintf("%s#%s,%s", k.UserKey, k.Trailer.SeqNum(), k.Trailer.Kind())
}
