// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

// zplfmt formats, queries and serves ZPL configuration files.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"zombiezen.com/go/log"

	"github.com/ASD-GmbH/ZPL/envvar"
	"github.com/ASD-GmbH/ZPL/zpl"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCommand().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "zplfmt:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "zplfmt",
		Short:         "Format, query and serve ZPL configuration files",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(cmd)
		},
	}
	flags := root.PersistentFlags()
	flags.Bool("relaxed", envvar.Bool("RELAXED"), "accept // and /* */ comments (env ZPL_RELAXED)")
	flags.Bool("strict-indent", envvar.Bool("STRICT_INDENT"), "reject indentation that is not a whole level deeper (env ZPL_STRICT_INDENT)")
	flags.BoolP("verbose", "v", envvar.Bool("DEBUG"), "log debug messages (env ZPL_DEBUG)")
	flags.String("color", "auto", "colorize log output (auto|on|off)")

	root.AddCommand(newFmtCommand(), newGetCommand(), newServeCommand())
	return root
}

// parseOptions returns the parse options selected by the persistent flags.
func parseOptions(cmd *cobra.Command) (zpl.ParseOptions, error) {
	var opts zpl.ParseOptions
	var err error
	flags := cmd.Flags()
	if opts.Relaxed, err = flags.GetBool("relaxed"); err != nil {
		return opts, err
	}
	if opts.StrictIndent, err = flags.GetBool("strict-indent"); err != nil {
		return opts, err
	}
	return opts, nil
}

func setupLogging(cmd *cobra.Command) error {
	flags := cmd.Flags()
	verbose, err := flags.GetBool("verbose")
	if err != nil {
		return err
	}
	colorMode, err := flags.GetString("color")
	if err != nil {
		return err
	}
	switch colorMode {
	case "auto":
		color.NoColor = !term.IsTerminal(int(os.Stderr.Fd()))
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	default:
		return fmt.Errorf("--color: unknown mode %q", colorMode)
	}
	minLevel := log.Info
	if verbose {
		minLevel = log.Debug
	}
	log.SetDefault(&stderrLogger{out: cmd.ErrOrStderr(), min: minLevel})
	return nil
}
