// Copyright 2011 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package sstable

import "encoding/binary"

// cursor is a counted, forward-only iterator over an in-memory byte range.
// It plays the role the spec calls the "counted byte iterator": every
// decoder below advances it by exactly as many bytes as it consumes, and
// pos is always the number of bytes yielded so far.
//
// base is the absolute file offset of buf[0], used only to annotate errors
// with a useful position; decoders never seek on a cursor, only advance it.
type cursor struct {
	buf  []byte
	pos  int
	base int64
}

func newCursor(buf []byte, base int64) *cursor {
	return &cursor{buf: buf, base: base}
}

// consumed reports how many bytes this cursor has yielded so far.
func (c *cursor) consumed() int {
	return c.pos
}

// offset is the absolute file offset of the cursor's current position,
// used for error annotation.
func (c *cursor) offset() int64 {
	return c.base + int64(c.pos)
}

// remaining returns the unconsumed tail of the cursor's buffer.
func (c *cursor) remaining() []byte {
	return c.buf[c.pos:]
}

func (c *cursor) exhausted() bool {
	return c.pos >= len(c.buf)
}

// take advances the cursor by n bytes and returns them, or fails with
// ErrTruncated if fewer than n bytes remain.
func (c *cursor) take(n int) ([]byte, error) {
	if n < 0 || c.pos+n > len(c.buf) {
		return nil, atOffset(ErrTruncated, c.offset())
	}
	b := c.buf[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

// decodeUvarint reads an unsigned LEB128 varint: bytes are consumed until
// one with the high bit clear, and the low 7 bits of each byte are
// concatenated least-significant-group-first into a uint64. The maximum
// encoded length is 10 bytes (7*9+1 = 64 bits); a tenth continuation byte,
// or a tenth byte with any bit above bit 0 set, is ErrOverflow.
func decodeUvarint(c *cursor) (uint64, error) {
	var result uint64
	for shift := uint(0); ; shift += 7 {
		if c.exhausted() {
			return 0, atOffset(ErrTruncated, c.offset())
		}
		b := c.buf[c.pos]
		c.pos++
		if shift == 63 && b > 1 {
			// The 10th byte may only contribute bit 63; anything else
			// overflows a uint64.
			return 0, atOffset(ErrOverflow, c.offset())
		}
		if shift >= 70 {
			return 0, atOffset(ErrOverflow, c.offset())
		}
		result |= uint64(b&0x7f) << shift
		if b < 0x80 {
			return result, nil
		}
	}
}

// decodeVarint reads a signed varint as a zig-zag-encoded unsigned varint:
// result = (u >> 1) ^ -(u & 1). This matches encoding/binary's mapping
// (0 -> 0, 1 -> -1, 2 -> 1, 3 -> -2, ...).
func decodeVarint(c *cursor) (int64, error) {
	u, err := decodeUvarint(c)
	if err != nil {
		return 0, err
	}
	return int64(u>>1) ^ -int64(u&1), nil
}

// decodeFixed32 reads four little-endian bytes as a signed 32-bit integer.
func decodeFixed32(c *cursor) (int32, error) {
	b, err := c.take(4)
	if err != nil {
		return 0, err
	}
	return int32(binary.LittleEndian.Uint32(b)), nil
}

// decodeFixed32u reads four little-endian bytes as an unsigned 32-bit
// integer. Used for restart offsets and restart counts, which the format
// never treats as signed.
func decodeFixed32u(c *cursor) (uint32, error) {
	b, err := c.take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// decodeFixed64u reads eight little-endian bytes as an unsigned 64-bit
// integer.
func decodeFixed64u(c *cursor) (uint64, error) {
	b, err := c.take(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// decodeMagic reads len(want) bytes and compares them against want.
// A mismatch is ErrBadFileFormat; a stream with fewer than len(want) bytes
// left is ErrTruncated, as reported by take.
func decodeMagic(c *cursor, want []byte) error {
	got, err := c.take(len(want))
	if err != nil {
		return err
	}
	for i := range want {
		if got[i] != want[i] {
			return atOffsetf(ErrBadFileFormat, c.offset()-int64(len(want)),
				"bad magic: got %x, want %x", got, want)
		}
	}
	return nil
}

// decodeBytes reads a varint length n, then exactly n bytes.
func decodeBytes(c *cursor) ([]byte, error) {
	n, err := decodeUvarint(c)
	if err != nil {
		return nil, err
	}
	if n > uint64(len(c.buf)-c.pos) {
		return nil, atOffset(ErrTruncated, c.offset())
	}
	return c.take(int(n))
}

// blockHandle is the file offset and length of a block. The length never
// includes the 5-byte block trailer (1 compression byte + 4 checksum
// bytes).
type blockHandle struct {
	offset, length uint64
}

// decodeBlockHandle decodes a block handle as two consecutive unsigned
// varints: offset, then length.
func decodeBlockHandle(c *cursor) (blockHandle, error) {
	offset, err := decodeUvarint(c)
	if err != nil {
		return blockHandle{}, err
	}
	length, err := decodeUvarint(c)
	if err != nil {
		return blockHandle{}, err
	}
	return blockHandle{offset: offset, length: length}, nil
}
