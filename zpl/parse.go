// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

package zpl

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
)

// indentWidth is the number of spaces in one level of indentation.
const indentWidth = 4

// Errors wrapped by *SyntaxError.
var (
	// ErrOrphanKeyValue is reported for a property that is not inside any
	// section.
	ErrOrphanKeyValue = errors.New("property outside of a section")

	// ErrIndent is reported for bad indentation when
	// ParseOptions.StrictIndent is set.
	ErrIndent = errors.New("bad indentation")
)

// A SyntaxError describes malformed input. Parse does not return a partial
// document alongside a SyntaxError.
type SyntaxError struct {
	Line int // 1-based
	Err  error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("parse zpl: line %d: %v", e.Line, e.Err)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

// ParseOptions holds optional parameters for Parse.
type ParseOptions struct {
	// Relaxed enables "//" line comments and "/* ... */" block comments in
	// addition to "#" line comments.
	Relaxed bool

	// StrictIndent rejects indentation that is not a whole number of levels,
	// leading tabs, and lines indented more than one level deeper than the
	// enclosing section. By default such lines are interpreted by rounding
	// the indentation down to a whole level.
	StrictIndent bool
}

// Parse parses a ZPL file. Nil options are treated identically as passing the
// zero value.
//
// See the Syntax section in the package documentation for the format
// recognized by Parse.
func Parse(r io.Reader, opts *ParseOptions) (*Document, error) {
	if opts == nil {
		opts = new(ParseOptions)
	}
	lines, err := readLines(r, opts.Relaxed)
	if err != nil {
		return nil, fmt.Errorf("parse zpl: %w", err)
	}
	return build(lines, opts.StrictIndent)
}

// ParseString parses text with "#" comments only.
func ParseString(text string) (*Document, error) {
	return Parse(strings.NewReader(text), nil)
}

// ParseRelaxedString parses text with "#", "//" and "/* ... */" comments.
func ParseRelaxedString(text string) (*Document, error) {
	return Parse(strings.NewReader(text), &ParseOptions{Relaxed: true})
}

// UnmarshalText parses the ZPL data with default options, replacing the
// contents of doc.
func (doc *Document) UnmarshalText(data []byte) error {
	parsed, err := Parse(bytes.NewReader(data), nil)
	if err != nil {
		return err
	}
	*doc = *parsed
	return nil
}

// A frame is a section whose children are still being read.
type frame struct {
	section    *Section
	childLevel int
}

// build reconstructs the section tree from content lines in a single pass.
// Open sections live on an explicit stack; a line at a shallower level than
// the innermost section expects closes sections until one fits.
func build(lines []contentLine, strictIndent bool) (*Document, error) {
	doc := new(Document)
	var stack []frame
	closeTop := func() {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if len(stack) == 0 {
			doc.Sections = append(doc.Sections, top.section)
			return
		}
		parent := stack[len(stack)-1].section
		parent.Children = append(parent.Children, top.section)
	}

	for _, line := range lines {
		spaces := countIndent(line.text)
		level := spaces / indentWidth
		if strictIndent {
			want := 0
			if len(stack) > 0 {
				want = stack[len(stack)-1].childLevel
			}
			if err := checkIndent(line.text, spaces, want); err != nil {
				return nil, &SyntaxError{Line: line.lineno, Err: err}
			}
		}
		for len(stack) > 0 && stack[len(stack)-1].childLevel > level {
			closeTop()
		}

		if i := strings.IndexByte(line.text, '='); i >= 0 {
			if len(stack) == 0 {
				return nil, &SyntaxError{Line: line.lineno, Err: ErrOrphanKeyValue}
			}
			top := stack[len(stack)-1].section
			top.Children = append(top.Children, &KeyValue{
				Key:   strings.TrimSpace(line.text[:i]),
				Value: line.text[i+1:],
			})
			continue
		}
		stack = append(stack, frame{
			section:    &Section{Name: strings.TrimSpace(line.text)},
			childLevel: level + 1,
		})
	}
	for len(stack) > 0 {
		closeTop()
	}
	return doc, nil
}

// countIndent returns the number of leading spaces in a line.
func countIndent(line string) int {
	n := 0
	for n < len(line) && line[n] == ' ' {
		n++
	}
	return n
}

func checkIndent(line string, spaces, maxLevel int) error {
	if spaces < len(line) && line[spaces] == '\t' {
		return fmt.Errorf("%w: tab in indentation", ErrIndent)
	}
	if spaces%indentWidth != 0 {
		return fmt.Errorf("%w: %d spaces is not a multiple of %d", ErrIndent, spaces, indentWidth)
	}
	if level := spaces / indentWidth; level > maxLevel {
		return fmt.Errorf("%w: level %d, expected at most %d", ErrIndent, level, maxLevel)
	}
	return nil
}
