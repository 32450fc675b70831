// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

package zpl

// FindSections returns the sections in elems with the given name, in order.
// It does not descend into children.
func FindSections(name string, elems []Element) []*Section {
	var sections []*Section
	for _, e := range elems {
		if s, ok := e.(*Section); ok && s.Name == name {
			sections = append(sections, s)
		}
	}
	return sections
}

// FindValues returns the values of the properties in elems with the given
// key, in order. It does not descend into children.
func FindValues(key string, elems []Element) []string {
	var values []string
	for _, e := range elems {
		if kv, ok := e.(*KeyValue); ok && kv.Key == key {
			values = append(values, kv.Value)
		}
	}
	return values
}

// Find returns all the values associated with the given key in the sections
// reached by following path from the top level. Every section matching a
// path element is followed, so repeated section names contribute values in
// document order. An empty path matches nothing, since properties cannot
// appear outside a section.
func (doc *Document) Find(path []string, key string) []string {
	if doc == nil || len(path) == 0 {
		return nil
	}
	sections := FindSections(path[0], doc.Elements())
	for _, name := range path[1:] {
		var next []*Section
		for _, s := range sections {
			next = append(next, FindSections(name, s.Children)...)
		}
		sections = next
	}
	var values []string
	for _, s := range sections {
		values = append(values, FindValues(key, s.Children)...)
	}
	return values
}

// Get returns the last value associated with the given key in the sections
// reached by following path. If there are no values associated with the key,
// Get returns the empty string.
func (doc *Document) Get(path []string, key string) string {
	v, _ := doc.get(path, key)
	return v
}

func (doc *Document) get(path []string, key string) (_ string, ok bool) {
	values := doc.Find(path, key)
	if len(values) == 0 {
		return "", false
	}
	return values[len(values)-1], true
}

// Get returns the last value associated with the given key among the
// section's direct children, or the empty string if there is none.
func (s *Section) Get(key string) string {
	if s == nil {
		return ""
	}
	values := FindValues(key, s.Children)
	if len(values) == 0 {
		return ""
	}
	return values[len(values)-1]
}
