// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

// Package envvar provides functions to read environment variables for
// configuration of the zplfmt command.
package envvar

import (
	"os"
	"strconv"
	"strings"
)

// Prefix is prepended to every name passed to the functions in this package.
const Prefix = "ZPL_"

// Get returns the value of the given environment variable. If it is empty or
// unset, it returns the default value.
func Get(name string, defaultValue string) string {
	v := os.Getenv(Prefix + name)
	if v == "" {
		return defaultValue
	}
	return v
}

// Bool returns the value of a boolean environment variable. If it is unset or
// not one of the strings 1, t, T, TRUE, true, or True, then it returns false.
func Bool(name string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(Prefix + name)))
	if err != nil {
		return false
	}
	return b
}

// Int returns the value of an integer environment variable. If it is unset,
// not a base-10 integer, or not positive, it returns the default value.
func Int(name string, defaultValue int) int {
	n, err := strconv.Atoi(strings.TrimSpace(os.Getenv(Prefix + name)))
	if err != nil || n <= 0 {
		return defaultValue
	}
	return n
}
