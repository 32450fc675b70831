// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

package zpl

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// DocumentSet is a list of documents to obtain configuration from in
// descending order of precedence.
type DocumentSet []*Document

// ParseFiles parses the named files, highest precedence first. A file that
// does not exist yields a nil entry so that the set stays aligned with paths.
// Any other error stops parsing and is returned along with the documents
// parsed so far.
func ParseFiles(opts *ParseOptions, paths ...string) (DocumentSet, error) {
	dset := make(DocumentSet, 0, len(paths))
	for _, path := range paths {
		doc, err := parseFile(path, opts)
		if err != nil {
			return dset, fmt.Errorf("parse zpl files: %s: %w", path, err)
		}
		dset = append(dset, doc)
	}
	return dset, nil
}

// parseFile returns a nil document if path does not exist.
func parseFile(path string, opts *ParseOptions) (*Document, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f, opts)
}

// Get returns the last value associated with the given key under path in the
// document with the highest precedence that has one. If no document has the
// key, Get returns the empty string.
func (dset DocumentSet) Get(path []string, key string) string {
	for _, doc := range dset {
		if v, ok := doc.get(path, key); ok {
			return v
		}
	}
	return ""
}

// Find returns all the values associated with the given key under path,
// starting with the document of lowest precedence.
func (dset DocumentSet) Find(path []string, key string) []string {
	var values []string
	for i := len(dset) - 1; i >= 0; i-- {
		values = append(values, dset[i].Find(path, key)...)
	}
	return values
}

// Sections returns the top-level sections named name across all documents,
// starting with the document of lowest precedence.
func (dset DocumentSet) Sections(name string) []*Section {
	var sections []*Section
	for i := len(dset) - 1; i >= 0; i-- {
		sections = append(sections, FindSections(name, dset[i].Elements())...)
	}
	return sections
}
