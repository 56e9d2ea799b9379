// Copyright 2011 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package sstable

import "github.com/treeverse/lakefs-sstable/internal/base"

// Entry is one key/value pair surfaced by the file-level iterator: the
// exposed user key (trailer stripped), its value, and the sequence number
// and kind decoded from the trailer (§3 "Entry").
type Entry struct {
	Key      []byte
	Value    []byte
	Sequence base.SeqNum
	Kind     base.InternalKeyKind
}

func entryFromBlock(e blockEntry) Entry {
	return Entry{
		Key:      e.ikey.UserKey,
		Value:    e.value,
		Sequence: e.ikey.Trailer.SeqNum(),
		Kind:     e.ikey.Trailer.Kind(),
	}
}
