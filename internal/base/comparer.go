// Copyright 2011 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package base

import "bytes"

// Compare returns -1, 0, or +1 depending on whether a is 'less than', 'equal
// to' or 'greater than' b, using unsigned byte-wise comparison. This is the
// only ordering the reader needs: SSTables in this format are always built
// with the default comparer.
type Compare func(a, b []byte) int

// DefaultCompare is the default byte-wise comparer, equivalent to
// bytes.Compare.
func DefaultCompare(a, b []byte) int {
	return bytes.Compare(a, b)
}
