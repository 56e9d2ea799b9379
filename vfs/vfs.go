// Copyright 2012 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package vfs

import (
	"io"
	"os"
)

// File is a readable sequence of bytes with random access, the byte source
// the decoders in package sstable borrow against. Typically it will be an
// *os.File, but test code may substitute a memory-backed implementation.
//
// The decoders in package sstable borrow a File only for the duration of a
// call. An sstable.Reader keeps the File it reads from until its own Close,
// which closes the File.
type File interface {
	io.Closer
	io.ReaderAt
	Stat() (os.FileInfo, error)
}

// FS is a namespace of files, opened by name.
type FS interface {
	// Open opens the named file for reading.
	Open(name string) (File, error)

	// Stat returns an os.FileInfo describing the named file.
	Stat(name string) (os.FileInfo, error)

	// List returns a listing of the given directory. The names returned are
	// relative to dir.
	List(dir string) ([]string, error)
}

// Default is an FS implementation backed by the underlying operating
// system's file system.
var Default FS = defaultFS{}

type defaultFS struct{}

func (defaultFS) Open(name string) (File, error) {
	return os.OpenFile(name, os.O_RDONLY, 0)
}

func (defaultFS) Stat(name string) (os.FileInfo, error) {
	return os.Stat(name)
}

func (defaultFS) List(dir string) ([]string, error) {
	f, err := os.Open(dir)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return f.Readdirnames(-1)
}
