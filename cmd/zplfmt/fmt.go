// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"zombiezen.com/go/log"

	"github.com/ASD-GmbH/ZPL/envvar"
	"github.com/ASD-GmbH/ZPL/zpl"
)

func newFmtCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fmt [flags] [path...]",
		Short: "Rewrite ZPL files in canonical form",
		Long: "fmt rewrites each named file in canonical form. With no paths, " +
			"it formats standard input to standard output.",
		RunE: runFmt,
	}
	cmd.Flags().Bool("check", false, "list files that are not in canonical form instead of rewriting them")
	cmd.Flags().Bool("stdout", false, "print formatted files to stdout instead of rewriting them")
	cmd.Flags().IntP("jobs", "j", envvar.Int("JOBS", runtime.GOMAXPROCS(0)), "number of files to format concurrently (env ZPL_JOBS)")
	return cmd
}

// A formatResult is the outcome of formatting one file.
type formatResult struct {
	path      string
	formatted []byte
	changed   bool
	err       error
}

func runFmt(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	opts, err := parseOptions(cmd)
	if err != nil {
		return err
	}
	check, err := cmd.Flags().GetBool("check")
	if err != nil {
		return err
	}
	toStdout, err := cmd.Flags().GetBool("stdout")
	if err != nil {
		return err
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return err
	}
	if check && toStdout {
		return errors.New("fmt: --stdout cannot be used with --check")
	}
	if jobs < 1 {
		return fmt.Errorf("fmt: --jobs must be positive, got %d", jobs)
	}

	if len(args) == 0 {
		doc, err := zpl.Parse(cmd.InOrStdin(), &opts)
		if err != nil {
			return fmt.Errorf("fmt: <stdin>: %w", err)
		}
		_, err = doc.WriteTo(cmd.OutOrStdout())
		return err
	}

	results := formatFiles(ctx, args, &opts, jobs)
	failed := false
	changed := false
	for _, res := range results {
		switch {
		case res.err != nil:
			failed = true
			log.Errorf(ctx, "%s: %v", res.path, res.err)
		case toStdout:
			if _, err := cmd.OutOrStdout().Write(res.formatted); err != nil {
				return err
			}
		case check:
			if res.changed {
				changed = true
				fmt.Fprintln(cmd.OutOrStdout(), res.path)
			}
		case res.changed:
			if err := rewriteFile(res.path, res.formatted); err != nil {
				failed = true
				log.Errorf(ctx, "%v", err)
				continue
			}
			log.Infof(ctx, "reformatted %s", res.path)
		default:
			log.Debugf(ctx, "%s already canonical", res.path)
		}
	}
	if failed {
		return errors.New("fmt: failed to format some files")
	}
	if changed {
		return errors.New("fmt: formatting changes required")
	}
	return nil
}

// formatFiles formats the files at paths with at most jobs files in flight.
// Results are in the same order as paths.
func formatFiles(ctx context.Context, paths []string, opts *zpl.ParseOptions, jobs int) []formatResult {
	results := make([]formatResult, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i] = formatResult{path: path, err: err}
				return nil
			}
			results[i] = formatFile(path, opts)
			return nil
		})
	}
	g.Wait()
	return results
}

func formatFile(path string, opts *zpl.ParseOptions) formatResult {
	data, err := os.ReadFile(path)
	if err != nil {
		return formatResult{path: path, err: err}
	}
	doc, err := zpl.Parse(bytes.NewReader(data), opts)
	if err != nil {
		return formatResult{path: path, err: err}
	}
	formatted, _ := doc.MarshalText()
	return formatResult{
		path:      path,
		formatted: formatted,
		changed:   !bytes.Equal(data, formatted),
	}
}

// rewriteFile replaces the contents of an existing file, keeping its mode.
func rewriteFile(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC, 0)
	if err != nil {
		return fmt.Errorf("rewrite %s: %w", path, err)
	}
	_, writeErr := io.Copy(f, bytes.NewReader(data))
	closeErr := f.Close()
	if writeErr != nil {
		return fmt.Errorf("rewrite %s: %w", path, writeErr)
	}
	if closeErr != nil {
		return fmt.Errorf("rewrite %s: %w", path, closeErr)
	}
	return nil
}
