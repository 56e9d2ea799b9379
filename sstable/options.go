// Copyright 2011 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package sstable

import "github.com/treeverse/lakefs-sstable/internal/base"

// ReaderOptions configures a Reader. The zero value is valid; call
// EnsureDefaults (or let Open do it) to fill in the defaults.
type ReaderOptions struct {
	// Comparer orders user keys. Every SSTable in this format is written
	// with the default byte-wise comparer. EnsureDefaults fills this field
	// in, but no decoder consults it: block ordering checks and index
	// searches always use base.DefaultCompare.
	Comparer base.Compare

	// VerifyChecksums, if true, makes every block read recompute and check
	// the block's trailing checksum against the algorithm named by the
	// footer's checksum kind. Off by default: verification roughly doubles
	// the cost of reading a block and the structural checks elsewhere in
	// this package already catch most forms of corruption a reader cares
	// about.
	VerifyChecksums bool

	// Logger receives diagnostic messages. Defaults to base.DefaultLogger.
	Logger base.Logger
}

// EnsureDefaults fills in zero-valued fields of o with their defaults,
// returning o for chaining.
func (o *ReaderOptions) EnsureDefaults() *ReaderOptions {
	if o.Comparer == nil {
		o.Comparer = base.DefaultCompare
	}
	if o.Logger == nil {
		o.Logger = base.DefaultLogger{}
	}
	return o
}
