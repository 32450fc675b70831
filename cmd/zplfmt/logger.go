// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"zombiezen.com/go/log"
)

// stderrLogger writes one line per entry, tagged with the entry's level.
type stderrLogger struct {
	mu  sync.Mutex
	out io.Writer
	min log.Level
}

func (l *stderrLogger) Log(ctx context.Context, entry log.Entry) {
	if !l.LogEnabled(entry) {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.out, "%s %s\n", levelLabel(entry.Level), entry.Msg)
}

func (l *stderrLogger) LogEnabled(entry log.Entry) bool {
	return entry.Level >= l.min
}

func levelLabel(level log.Level) string {
	switch {
	case level >= log.Error:
		return color.RedString("ERROR")
	case level >= log.Warn:
		return color.YellowString("WARN ")
	case level >= log.Info:
		return color.CyanString("INFO ")
	default:
		return color.New(color.Faint).Sprint("DEBUG")
	}
}
