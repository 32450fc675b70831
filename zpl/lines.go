// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

package zpl

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"math"
	"strings"
)

// A contentLine is a line that survived comment and blank line removal. The
// text keeps its leading whitespace.
type contentLine struct {
	lineno int
	text   string
}

// readLines splits r into lines and drops blank lines and comments. Relaxed
// mode also drops "//" line comments and "/* ... */" block comments.
func readLines(r io.Reader, relaxed bool) ([]contentLine, error) {
	s := bufio.NewScanner(r)
	// Lines have no length limit; the buffer grows to fit the longest one.
	s.Buffer(nil, math.MaxInt)
	s.Split(scanLines)
	var lines []contentLine
	inBlockComment := false
	lineno := 1
	for ; s.Scan(); lineno++ {
		line := s.Text()
		trimmed := strings.TrimSpace(line)
		switch {
		case inBlockComment:
			if strings.HasSuffix(trimmed, "*/") {
				inBlockComment = false
			}
		case strings.HasPrefix(trimmed, "#"):
		case relaxed && strings.HasPrefix(trimmed, "//"):
		case relaxed && strings.HasPrefix(trimmed, "/*"):
			// A block comment may close on the line that opens it.
			inBlockComment = !strings.HasSuffix(trimmed[2:], "*/")
		case trimmed == "":
		default:
			lines = append(lines, contentLine{lineno: lineno, text: line})
		}
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("line %d: %w", lineno, err)
	}
	return lines, nil
}

// scanLines is a bufio.SplitFunc that splits on CR LF, CR or LF. Unlike
// bufio.ScanLines, a lone CR ends a line.
func scanLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	i := bytes.IndexAny(data, "\r\n")
	if i == -1 {
		if atEOF {
			return len(data), data, nil
		}
		return 0, nil, nil
	}
	if data[i] == '\n' {
		return i + 1, data[:i], nil
	}
	if i+1 < len(data) {
		if data[i+1] == '\n' {
			return i + 2, data[:i], nil
		}
		return i + 1, data[:i], nil
	}
	if !atEOF {
		// Need the next byte to tell CR from CR LF.
		return 0, nil, nil
	}
	return i + 1, data[:i], nil
}
