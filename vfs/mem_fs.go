// Copyright 2012 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package vfs

import (
	"bytes"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
)

// MemFS is a memory-backed FS implementation, used by tests to construct
// synthetic SSTables without touching the real file system.
type MemFS struct {
	mu    sync.Mutex
	files map[string][]byte
}

// NewMem returns a new memory-backed FS implementation.
func NewMem() *MemFS {
	return &MemFS{files: make(map[string][]byte)}
}

// Create registers name with the given contents, overwriting any prior
// contents. It exists only so tests can populate a MemFS; it is not part of
// the FS interface, which is read-only.
func (m *MemFS) Create(name string, contents []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[name] = contents
}

func (m *MemFS) Open(name string) (File, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	contents, ok := m.files[name]
	if !ok {
		return nil, errors.Wrapf(os.ErrNotExist, "open %s", name)
	}
	return &memFile{name: name, r: bytes.NewReader(contents)}, nil
}

func (m *MemFS) Stat(name string) (os.FileInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	contents, ok := m.files[name]
	if !ok {
		return nil, errors.Wrapf(os.ErrNotExist, "stat %s", name)
	}
	return memFileInfo{name: name, size: int64(len(contents))}, nil
}

func (m *MemFS) List(dir string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.files))
	for name := range m.files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

type memFile struct {
	name string
	r    *bytes.Reader
}

func (f *memFile) ReadAt(p []byte, off int64) (int, error) {
	return f.r.ReadAt(p, off)
}

func (f *memFile) Close() error {
	return nil
}

func (f *memFile) Stat() (os.FileInfo, error) {
	return memFileInfo{name: f.name, size: f.r.Size()}, nil
}

type memFileInfo struct {
	name string
	size int64
}

func (fi memFileInfo) Name() string       { return fi.name }
func (fi memFileInfo) Size() int64        { return fi.size }
func (fi memFileInfo) Mode() os.FileMode  { return 0444 }
func (fi memFileInfo) ModTime() time.Time { return time.Time{} }
func (fi memFileInfo) IsDir() bool        { return false }
func (fi memFileInfo) Sys() interface{}   { return nil }
