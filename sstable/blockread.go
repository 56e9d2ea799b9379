// Copyright 2011 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package sstable

import (
	"hash/crc32"

	"github.com/cespare/xxhash/v2"
	"github.com/treeverse/lakefs-sstable/vfs"
)

var crc32cTable = crc32.MakeTable(crc32.Castagnoli)

// readBlock reads the handle.length+5-byte span named by h, validates the
// compression byte, optionally verifies the checksum, and returns the
// decompressed (here: bare, since only "none" is supported) payload.
func readBlock(f vfs.File, h blockHandle, checksumKind uint32, opts *ReaderOptions) (block, error) {
	buf := make([]byte, h.length+blockTrailerLen)
	if _, err := f.ReadAt(buf, int64(h.offset)); err != nil {
		return nil, atOffset(ErrTruncated, int64(h.offset))
	}

	payload := buf[:h.length]
	compression := buf[h.length]
	checksum := buf[h.length+1:]

	if compression != compressionNone {
		return nil, atOffsetf(ErrUnsupportedCompression, int64(h.offset)+int64(h.length),
			"compression byte %d", compression)
	}

	if opts.VerifyChecksums {
		if err := verifyChecksum(checksumKind, payload, compression, checksum, int64(h.offset)); err != nil {
			return nil, err
		}
	}
	return block(payload), nil
}

func verifyChecksum(kind uint32, payload []byte, compression byte, want []byte, offset int64) error {
	var got uint32
	switch kind {
	case checksumNone:
		return nil
	case checksumCRC32c:
		crc := crc32.New(crc32cTable)
		crc.Write(payload)
		crc.Write([]byte{compression})
		got = crc.Sum32()
	case checksumXXHash64:
		h := xxhash.New()
		h.Write(payload)
		h.Write([]byte{compression})
		got = uint32(h.Sum64())
	default:
		return atOffsetf(ErrUnsupportedChecksum, offset, "checksum kind %d", kind)
	}
	c := newCursor(want, 0)
	wantVal, err := decodeFixed32u(c)
	if err != nil {
		return err
	}
	if got != wantVal {
		return atOffsetf(ErrChecksumMismatch, offset, "got %x, want %x", got, wantVal)
	}
	return nil
}
