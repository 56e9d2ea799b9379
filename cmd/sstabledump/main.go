// Copyright 2018 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/treeverse/lakefs-sstable/sstable"
	"github.com/treeverse/lakefs-sstable/vfs"
)

var verifyChecksums bool

var rootCmd = &cobra.Command{
	Use:   "sstabledump [command] (flags)",
	Short: "inspect an SSTable file",
	Long:  ``,
}

var scanCmd = &cobra.Command{
	Use:   "scan <file>",
	Short: "print every entry's key, sequence, kind, and value length",
	Args:  cobra.ExactArgs(1),
	RunE:  runScan,
}

var propertiesCmd = &cobra.Command{
	Use:   "properties <file>",
	Short: "print the decoded properties map, sorted by key",
	Args:  cobra.ExactArgs(1),
	RunE:  runProperties,
}

var verifyCmd = &cobra.Command{
	Use:   "verify <file>",
	Short: "walk every block, validating structure (and, with --checksums, checksums)",
	Args:  cobra.ExactArgs(1),
	RunE:  runVerify,
}

func main() {
	log.SetFlags(0)

	verifyCmd.Flags().BoolVar(
		&verifyChecksums, "checksums", false, "also verify block checksums")

	rootCmd.AddCommand(scanCmd, propertiesCmd, verifyCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func openReader(path string, opts sstable.ReaderOptions) (*sstable.Reader, error) {
	return sstable.Open(vfs.Default, path, opts)
}

func runScan(cmd *cobra.Command, args []string) error {
	r, err := openReader(args[0], sstable.ReaderOptions{})
	if err != nil {
		return err
	}
	defer r.Close()

	it, err := r.NewIter()
	if err != nil {
		return err
	}
	for {
		e, err := it.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Printf("%q seq=%s kind=%s vlen=%d\n", e.Key, e.Sequence, e.Kind, len(e.Value))
	}
}

func runProperties(cmd *cobra.Command, args []string) error {
	r, err := openReader(args[0], sstable.ReaderOptions{})
	if err != nil {
		return err
	}
	defer r.Close()

	props := r.Properties()
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("%s: %q\n", name, props[name])
	}
	return nil
}

func runVerify(cmd *cobra.Command, args []string) error {
	r, err := openReader(args[0], sstable.ReaderOptions{VerifyChecksums: verifyChecksums})
	if err != nil {
		return err
	}
	defer r.Close()

	it, err := r.NewIter()
	if err != nil {
		return err
	}
	n := 0
	for {
		_, err := it.Next()
		if err == io.EOF {
			fmt.Printf("ok: %d entries\n", n)
			return nil
		}
		if err != nil {
			return err
		}
		n++
	}
}
