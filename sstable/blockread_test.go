// Copyright 2011 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package sstable

import (
	"hash/crc32"
	"testing"

	"github.com/cespare/xxhash/v2"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"

	"github.com/treeverse/lakefs-sstable/vfs"
)

// writeBlockWithChecksum builds a single block payload plus a trailer
// carrying a real checksum of the given kind, mirroring what readBlock
// expects to find on disk.
func writeBlockWithChecksum(payload []byte, kind uint32) []byte {
	buf := append([]byte(nil), payload...)
	buf = append(buf, compressionNone)

	var checksum uint32
	switch kind {
	case checksumCRC32c:
		crc := crc32.New(crc32cTable)
		crc.Write(payload)
		crc.Write([]byte{compressionNone})
		checksum = crc.Sum32()
	case checksumXXHash64:
		h := xxhash.New()
		h.Write(payload)
		h.Write([]byte{compressionNone})
		checksum = uint32(h.Sum64())
	}
	return appendFixed32(buf, checksum)
}

func TestReadBlockVerifiesCRC32c(t *testing.T) {
	payload := []byte("hello block")
	data := writeBlockWithChecksum(payload, checksumCRC32c)

	fs := vfs.NewMem()
	fs.Create("t.blk", data)
	f, err := fs.Open("t.blk")
	require.NoError(t, err)
	defer f.Close()

	h := blockHandle{offset: 0, length: uint64(len(payload))}
	opts := (&ReaderOptions{VerifyChecksums: true}).EnsureDefaults()

	b, err := readBlock(f, h, checksumCRC32c, opts)
	require.NoError(t, err)
	require.Equal(t, payload, []byte(b))
}

func TestReadBlockVerifiesXXHash64(t *testing.T) {
	payload := []byte("another block payload")
	data := writeBlockWithChecksum(payload, checksumXXHash64)

	fs := vfs.NewMem()
	fs.Create("t.blk", data)
	f, err := fs.Open("t.blk")
	require.NoError(t, err)
	defer f.Close()

	h := blockHandle{offset: 0, length: uint64(len(payload))}
	opts := (&ReaderOptions{VerifyChecksums: true}).EnsureDefaults()

	b, err := readBlock(f, h, checksumXXHash64, opts)
	require.NoError(t, err)
	require.Equal(t, payload, []byte(b))
}

func TestReadBlockChecksumMismatch(t *testing.T) {
	payload := []byte("hello block")
	data := writeBlockWithChecksum(payload, checksumCRC32c)
	data[0] ^= 0xff // corrupt the payload after the checksum was computed

	fs := vfs.NewMem()
	fs.Create("t.blk", data)
	f, err := fs.Open("t.blk")
	require.NoError(t, err)
	defer f.Close()

	h := blockHandle{offset: 0, length: uint64(len(payload))}
	opts := (&ReaderOptions{VerifyChecksums: true}).EnsureDefaults()

	_, err = readBlock(f, h, checksumCRC32c, opts)
	require.True(t, errors.Is(err, ErrChecksumMismatch))
}

func TestReadBlockSkipsVerificationByDefault(t *testing.T) {
	payload := []byte("hello block")
	data := writeBlockWithChecksum(payload, checksumCRC32c)
	data[0] ^= 0xff // corrupt the payload; should go unnoticed

	fs := vfs.NewMem()
	fs.Create("t.blk", data)
	f, err := fs.Open("t.blk")
	require.NoError(t, err)
	defer f.Close()

	h := blockHandle{offset: 0, length: uint64(len(payload))}
	opts := (&ReaderOptions{}).EnsureDefaults()

	b, err := readBlock(f, h, checksumCRC32c, opts)
	require.NoError(t, err)
	require.Equal(t, data[:len(payload)], []byte(b))
}

func TestReadBlockUnsupportedChecksumKind(t *testing.T) {
	payload := []byte("hello block")
	data := writeBlockWithChecksum(payload, checksumCRC32c)

	fs := vfs.NewMem()
	fs.Create("t.blk", data)
	f, err := fs.Open("t.blk")
	require.NoError(t, err)
	defer f.Close()

	h := blockHandle{offset: 0, length: uint64(len(payload))}
	opts := (&ReaderOptions{VerifyChecksums: true}).EnsureDefaults()

	_, err = readBlock(f, h, 99, opts)
	require.True(t, errors.Is(err, ErrUnsupportedChecksum))
}
