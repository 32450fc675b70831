// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

package zpl

import "fmt"

// An Element is the unit of document content: either a *Section or a
// *KeyValue. No other types implement Element.
type Element interface {
	element()
}

// A Section is a named node with an ordered list of children.
type Section struct {
	Name     string
	Children []Element
}

func (*Section) element() {}

// A KeyValue is a property inside a section.
type KeyValue struct {
	Key   string
	Value string
}

func (*KeyValue) element() {}

// A Document is the ordered list of top-level sections in a file. The zero
// value is an empty document. Documents can be read by multiple concurrent
// goroutines.
type Document struct {
	Sections []*Section
}

// NewDocument returns a document with the given top-level sections.
func NewDocument(sections ...*Section) *Document {
	return &Document{Sections: sections}
}

// NewSection returns a section with the given name and children.
func NewSection(name string, children ...Element) *Section {
	return &Section{Name: name, Children: children}
}

// NewKeyValue returns a property.
func NewKeyValue(key, value string) *KeyValue {
	return &KeyValue{Key: key, Value: value}
}

// Elements returns the document's top-level sections as elements, suitable
// for passing to FindSections.
func (doc *Document) Elements() []Element {
	if doc == nil {
		return nil
	}
	elems := make([]Element, len(doc.Sections))
	for i, s := range doc.Sections {
		elems[i] = s
	}
	return elems
}

// MustSection returns e as a *Section. It panics if e is a *KeyValue.
func MustSection(e Element) *Section {
	s, ok := e.(*Section)
	if !ok {
		panic(fmt.Sprintf("zpl.MustSection(%s)", describe(e)))
	}
	return s
}

// MustKeyValue returns e as a *KeyValue. It panics if e is a *Section.
func MustKeyValue(e Element) *KeyValue {
	kv, ok := e.(*KeyValue)
	if !ok {
		panic(fmt.Sprintf("zpl.MustKeyValue(%s)", describe(e)))
	}
	return kv
}

func describe(e Element) string {
	switch e := e.(type) {
	case *Section:
		return fmt.Sprintf("section %q", e.Name)
	case *KeyValue:
		return fmt.Sprintf("property %q", e.Key)
	default:
		return "nil"
	}
}
