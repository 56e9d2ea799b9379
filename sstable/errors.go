// Copyright 2011 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package sstable

import (
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/redact"
)

// The sentinel errors below classify every way a decode can fail. The
// primitive, footer and block-read decoders wrap one of these with the byte
// offset at which the failure was observed, so callers can use errors.Is
// against the sentinel while still getting offset context in the message.
// The block-structure checks in block.go return ErrBadBlockStructure
// unwrapped, with no offset.
var (
	// ErrTruncated means the byte source ended inside a field.
	ErrTruncated = errors.New("sstable: truncated")
	// ErrBadFileFormat means the magic didn't match, or the layout is
	// structurally impossible (e.g. a negative length).
	ErrBadFileFormat = errors.New("sstable: bad file format")
	// ErrOverflow means a varint exceeded 10 bytes, or decoded to a value
	// with bits set above bit 63.
	ErrOverflow = errors.New("sstable: varint overflow")
	// ErrBadBlockStructure means a restart offset was out of range, a
	// shared-prefix length exceeded the previous key's length, or a key
	// trailer was shorter than 8 bytes.
	ErrBadBlockStructure = errors.New("sstable: bad block structure")
	// ErrUnsupportedCompression means the block's compression byte names a
	// codec this reader does not implement.
	ErrUnsupportedCompression = errors.New("sstable: unsupported compression")
	// ErrUnsupportedVersion means the footer's format version is not one
	// this reader targets.
	ErrUnsupportedVersion = errors.New("sstable: unsupported format version")
	// ErrChecksumMismatch means VerifyChecksums was set and a block's
	// trailing checksum did not match its payload.
	ErrChecksumMismatch = errors.New("sstable: checksum mismatch")
	// ErrUnsupportedChecksum means VerifyChecksums was set but the footer's
	// checksum kind has no verifier in this reader.
	ErrUnsupportedChecksum = errors.New("sstable: unsupported checksum kind")
)

// atOffset annotates err with the byte offset at which it was observed.
func atOffset(err error, offset int64) error {
	return errors.Wrapf(err, "at offset %d", offset)
}

// atOffsetf annotates err with the byte offset and a formatted detail. The
// offset itself is marked redact.Safe: it is a position within a file, never
// user data, so log redaction pipelines built on cockroachdb/redact should
// leave it unredacted even though the rest of the detail (which may embed
// raw key bytes) is not.
func atOffsetf(err error, offset int64, format string, args ...interface{}) error {
	args = append([]interface{}{redact.Safe(offset)}, args...)
	return errors.Wrapf(err, "at offset %d: "+format, args...)
}
