// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ASD-GmbH/ZPL/zpl"
)

func newGetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get -f FILE [-f FILE...] SECTION [SECTION...] KEY",
		Short: "Print the value of a property",
		Long: "get prints the value of KEY inside the nested sections named by the " +
			"SECTION arguments. Files are listed in descending order of precedence; " +
			"missing files are skipped. By default only the last value in the " +
			"first file that has one is printed.",
		Args: cobra.MinimumNArgs(2),
		RunE: runGet,
	}
	cmd.Flags().StringArrayP("file", "f", nil, "file to read (repeatable, highest precedence first)")
	cmd.Flags().Bool("all", false, "print every value across all files, lowest precedence first")
	cmd.MarkFlagRequired("file")
	return cmd
}

func runGet(cmd *cobra.Command, args []string) error {
	opts, err := parseOptions(cmd)
	if err != nil {
		return err
	}
	files, err := cmd.Flags().GetStringArray("file")
	if err != nil {
		return err
	}
	all, err := cmd.Flags().GetBool("all")
	if err != nil {
		return err
	}
	dset, err := zpl.ParseFiles(&opts, files...)
	if err != nil {
		return err
	}
	path, key := args[:len(args)-1], args[len(args)-1]

	values := dset.Find(path, key)
	if len(values) == 0 {
		return fmt.Errorf("get: %s %s not found", strings.Join(path, " "), key)
	}
	if !all {
		values = []string{dset.Get(path, key)}
	}
	for _, v := range values {
		fmt.Fprintln(cmd.OutOrStdout(), v)
	}
	return nil
}
