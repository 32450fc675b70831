// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

package zpl

import "io"

const newline = "\r\n"

// Render returns the canonical text of doc. The result depends only on the
// tree, not on how it was produced: parsing the output of Render and
// rendering again yields the same text.
func Render(doc *Document) string {
	return string(appendDocument(nil, doc))
}

// MarshalText serializes the document in canonical form. It never returns an
// error.
func (doc *Document) MarshalText() ([]byte, error) {
	return appendDocument(nil, doc), nil
}

// WriteTo writes the canonical form of the document to w.
func (doc *Document) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(appendDocument(nil, doc))
	return int64(n), err
}

func appendDocument(dst []byte, doc *Document) []byte {
	if doc == nil {
		return dst
	}
	for _, s := range doc.Sections {
		dst = appendElement(dst, s, 0)
	}
	return dst
}

func appendElement(dst []byte, e Element, depth int) []byte {
	for i := 0; i < depth*indentWidth; i++ {
		dst = append(dst, ' ')
	}
	switch e := e.(type) {
	case *Section:
		dst = append(dst, e.Name...)
		dst = append(dst, newline...)
		for _, child := range e.Children {
			dst = appendElement(dst, child, depth+1)
		}
	case *KeyValue:
		dst = append(dst, e.Key...)
		dst = append(dst, '=')
		dst = append(dst, e.Value...)
		dst = append(dst, newline...)
	default:
		panic("unreachable")
	}
	return dst
}
