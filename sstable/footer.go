// Copyright 2011 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package sstable

import (
	"github.com/cockroachdb/errors"

	"github.com/treeverse/lakefs-sstable/vfs"
)

// footerLen is the fixed width of the RocksDB v2 footer this reader
// targets: a meta-index handle and an index handle (each two varints of up
// to 10 bytes apiece), zero-padded out to a fixed region, followed by a 4-byte
// format version, a 4-byte checksum kind, and an 8-byte magic number.
const footerLen = 53

// legacyFooterLen is the width of the older LevelDB footer: the same
// meta-index/index handle region, padded to 40 bytes, followed directly by
// the 8-byte magic (no explicit version or checksum-kind field).
const legacyFooterLen = 48

// magic is the fixed 8-byte constant that terminates every footer this
// reader recognizes as the current format.
var magic = [8]byte{0xf0, 0x9f, 0x97, 0x84, 0xf0, 0x9f, 0x92, 0xbe}

// legacyMagic terminates the older, version-less LevelDB-style footer.
var legacyMagic = [8]byte{0x57, 0xfb, 0x80, 0x8b, 0x24, 0x75, 0x47, 0xdb}

// formatVersion is the only footer version this reader decodes entries
// for. The legacy (version-less) footer is always accepted regardless, since
// it predates the version field entirely.
const formatVersion uint32 = 2

// Checksum kinds named by the footer's checksum-kind field.
const (
	checksumNone     uint32 = 0
	checksumCRC32c   uint32 = 1
	checksumXXHash   uint32 = 2
	checksumXXHash64 uint32 = 3
)

// footer is the decoded trailer of an SSTable file.
type footer struct {
	metaIndexHandle blockHandle
	indexHandle     blockHandle
	version         uint32
	checksumKind    uint32
	// LegacyFormat is set when the file ends in the older, version-less
	// LevelDB footer rather than the RocksDB v2 footer. Checksum kind is
	// then implicitly CRC32c.
	LegacyFormat bool
}

// readFooter locates and decodes the footer at the end of f. It tries the
// current-format magic first and falls back to the legacy magic, mirroring
// the two-attempt probe in the older table reader this is grounded on.
func readFooter(f vfs.File) (footer, error) {
	info, err := f.Stat()
	if err != nil {
		return footer{}, err
	}
	size := info.Size()

	if size >= footerLen {
		buf := make([]byte, footerLen)
		if _, err := f.ReadAt(buf, size-footerLen); err == nil {
			ft, err := decodeFooter(buf, size-footerLen, false)
			if err == nil {
				return ft, nil
			}
			// An unsupported version is definitive: the magic matched, so
			// this unambiguously is a current-format footer, just one whose
			// version this reader doesn't target. Every other decode
			// failure here (bad magic, truncated handles) is ambiguous
			// enough that falling through to the legacy probe is still
			// worthwhile.
			if errors.Is(err, ErrUnsupportedVersion) {
				return footer{}, err
			}
		}
	}
	if size >= legacyFooterLen {
		buf := make([]byte, legacyFooterLen)
		if _, err := f.ReadAt(buf, size-legacyFooterLen); err != nil {
			return footer{}, atOffset(ErrTruncated, size-legacyFooterLen)
		}
		return decodeFooter(buf, size-legacyFooterLen, true)
	}
	return footer{}, atOffset(ErrBadFileFormat, 0)
}

// decodeFooter parses buf (exactly footerLen or legacyFooterLen bytes, per
// legacy) as a footer, asserting that decoding consumes the handle region
// and that the trailing fixed fields line up exactly at the end of buf.
func decodeFooter(buf []byte, base int64, legacy bool) (footer, error) {
	c := newCursor(buf, base)

	metaIndexHandle, err := decodeBlockHandle(c)
	if err != nil {
		return footer{}, err
	}
	indexHandle, err := decodeBlockHandle(c)
	if err != nil {
		return footer{}, err
	}

	tailLen := 8
	if !legacy {
		tailLen = 16
	}
	handleRegionLen := len(buf) - tailLen
	if c.consumed() > handleRegionLen {
		return footer{}, atOffset(ErrBadFileFormat, c.offset())
	}
	// Skip the zero padding between the handles and the fixed tail.
	c = newCursor(buf[handleRegionLen:], base+int64(handleRegionLen))

	ft := footer{
		metaIndexHandle: metaIndexHandle,
		indexHandle:     indexHandle,
		LegacyFormat:    legacy,
	}
	if legacy {
		ft.checksumKind = checksumCRC32c
		if err := decodeMagic(c, legacyMagic[:]); err != nil {
			return footer{}, err
		}
		return ft, nil
	}

	versionOffset := c.offset()
	version, err := decodeFixed32u(c)
	if err != nil {
		return footer{}, err
	}
	checksumKind, err := decodeFixed32u(c)
	if err != nil {
		return footer{}, err
	}
	// The magic is checked before the version: a magic mismatch means this
	// isn't a current-format footer at all, and readFooter should be free to
	// fall back to the legacy probe. A magic match with an unrecognized
	// version means it unambiguously is one, just a version this reader
	// doesn't target; that case must not be swallowed by the legacy fallback.
	if err := decodeMagic(c, magic[:]); err != nil {
		return footer{}, err
	}
	if version != formatVersion {
		return footer{}, atOffsetf(ErrUnsupportedVersion, versionOffset, "version %d", version)
	}
	ft.version = version
	ft.checksumKind = checksumKind
	if !c.exhausted() {
		return footer{}, atOffset(ErrBadFileFormat, c.offset())
	}
	return ft, nil
}
