// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"bytes"
	"context"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/google/go-cmp/cmp"
	"zombiezen.com/go/log"
	"zombiezen.com/go/log/testlog"

	"github.com/ASD-GmbH/ZPL/zpl"
	"github.com/ASD-GmbH/ZPL/zplhttp"
)

const (
	messy     = "# comment\nhello\n\n    who=world\n    welcome\n        who=earth\ntest\n    what=data\n"
	canonical = "hello\r\n    who=world\r\n    welcome\r\n        who=earth\r\ntest\r\n    what=data\r\n"
)

// run executes the command line with args and returns its standard output.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	ctx := testlog.WithTB(context.Background(), t)
	cmd := newRootCommand()
	stdout := new(bytes.Buffer)
	cmd.SetArgs(append([]string{"--color=off"}, args...))
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(stdout)
	cmd.SetErr(io.Discard)
	err := cmd.ExecuteContext(ctx)
	return stdout.String(), err
}

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o666); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestFmtStdin(t *testing.T) {
	got, err := run(t, messy, "fmt")
	if err != nil {
		t.Fatal(err)
	}
	if got != canonical {
		t.Errorf("fmt output = %q; want %q", got, canonical)
	}
}

func TestFmtRelaxed(t *testing.T) {
	input := "/* header\n */\n// note\n" + messy
	if _, err := run(t, input, "fmt"); err != nil {
		t.Fatal("strict mode should accept // and /* as section names:", err)
	}
	got, err := run(t, input, "--relaxed", "fmt")
	if err != nil {
		t.Fatal(err)
	}
	if got != canonical {
		t.Errorf("fmt --relaxed output = %q; want %q", got, canonical)
	}
}

func TestFmtRewrite(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"messy.zpl":     messy,
		"canonical.zpl": canonical,
	})
	messyPath := filepath.Join(dir, "messy.zpl")
	canonicalPath := filepath.Join(dir, "canonical.zpl")
	if _, err := run(t, "", "fmt", "-j", "2", messyPath, canonicalPath); err != nil {
		t.Fatal(err)
	}
	for _, path := range []string{messyPath, canonicalPath} {
		if got := readFile(t, path); got != canonical {
			t.Errorf("%s = %q; want %q", filepath.Base(path), got, canonical)
		}
	}
}

func TestFmtCheck(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"messy.zpl":     messy,
		"canonical.zpl": canonical,
	})
	messyPath := filepath.Join(dir, "messy.zpl")
	canonicalPath := filepath.Join(dir, "canonical.zpl")

	got, err := run(t, "", "fmt", "--check", messyPath, canonicalPath)
	if err == nil {
		t.Error("fmt --check did not return error for unformatted file")
	}
	if want := messyPath + "\n"; got != want {
		t.Errorf("fmt --check output = %q; want %q", got, want)
	}
	if got := readFile(t, messyPath); got != messy {
		t.Errorf("fmt --check modified %s", messyPath)
	}

	if _, err := run(t, "", "fmt", "--check", canonicalPath); err != nil {
		t.Errorf("fmt --check on canonical file: %v", err)
	}
}

func TestFmtStdout(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a.zpl": messy, "b.zpl": "b\n    k=v\n"})
	got, err := run(t, "", "fmt", "--stdout", filepath.Join(dir, "a.zpl"), filepath.Join(dir, "b.zpl"))
	if err != nil {
		t.Fatal(err)
	}
	if want := canonical + "b\r\n    k=v\r\n"; got != want {
		t.Errorf("fmt --stdout output = %q; want %q", got, want)
	}
	if got := readFile(t, filepath.Join(dir, "a.zpl")); got != messy {
		t.Error("fmt --stdout modified a.zpl")
	}
}

func TestFmtErrors(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"bad.zpl":  "k=v\n",
		"good.zpl": messy,
	})
	if _, err := run(t, "", "fmt", filepath.Join(dir, "bad.zpl"), filepath.Join(dir, "good.zpl")); err == nil {
		t.Error("fmt did not return error for malformed file")
	}
	if got := readFile(t, filepath.Join(dir, "good.zpl")); got != canonical {
		t.Errorf("good.zpl = %q; want it formatted despite other failures", got)
	}
	if _, err := run(t, "", "fmt", filepath.Join(dir, "missing.zpl")); err == nil {
		t.Error("fmt did not return error for missing file")
	}
	if _, err := run(t, "", "fmt", "--check", "--stdout", filepath.Join(dir, "good.zpl")); err == nil {
		t.Error("fmt --check --stdout did not return error")
	}
	if _, err := run(t, "a\n        k=v\n", "--strict-indent", "fmt"); err == nil {
		t.Error("fmt --strict-indent did not reject over-indented property")
	}
}

func TestGet(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"local.zpl": "hello\n    welcome\n        who=mars\n",
		"base.zpl":  messy + "hello\n    who=moon\n",
	})
	local := filepath.Join(dir, "local.zpl")
	base := filepath.Join(dir, "base.zpl")
	missing := filepath.Join(dir, "missing.zpl")
	tests := []struct {
		name    string
		args    []string
		want    string
		wantErr bool
	}{
		{
			name: "Single",
			args: []string{"get", "-f", base, "test", "what"},
			want: "data\n",
		},
		{
			name: "LastValueWins",
			args: []string{"get", "-f", base, "hello", "who"},
			want: "moon\n",
		},
		{
			name: "Precedence",
			args: []string{"get", "-f", missing, "-f", local, "-f", base, "hello", "welcome", "who"},
			want: "mars\n",
		},
		{
			name: "All",
			args: []string{"get", "--all", "-f", local, "-f", base, "hello", "welcome", "who"},
			want: "earth\nmars\n",
		},
		{
			name:    "NotFound",
			args:    []string{"get", "-f", base, "hello", "nobody"},
			wantErr: true,
		},
		{
			name:    "NoFile",
			args:    []string{"get", "hello", "who"},
			wantErr: true,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := run(t, "", test.args...)
			if test.wantErr {
				if err == nil {
					t.Errorf("%q did not return error", test.args)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(test.want, got); diff != "" {
				t.Errorf("%q output (-want +got):\n%s", test.args, diff)
			}
		})
	}
}

func TestServe(t *testing.T) {
	ctx, cancel := context.WithCancel(testlog.WithTB(context.Background(), t))
	defer cancel()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	done := make(chan error, 1)
	go func() {
		done <- serve(ctx, l, zplhttp.New(zpl.ParseOptions{}))
	}()

	resp, err := http.Post("http://"+l.Addr().String()+"/format", "text/plain", strings.NewReader(messy))
	if err != nil {
		t.Fatal(err)
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		t.Fatal(err)
	}
	if string(body) != canonical {
		t.Errorf("POST /format = %q; want %q", body, canonical)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Error("serve:", err)
		}
	case <-time.After(shutdownTimeout):
		t.Error("serve did not return after cancel")
	}
}

func TestStderrLogger(t *testing.T) {
	defer func(noColor bool) { color.NoColor = noColor }(color.NoColor)
	color.NoColor = true

	buf := new(bytes.Buffer)
	logger := &stderrLogger{out: buf, min: log.Info}
	ctx := context.Background()
	logger.Log(ctx, log.Entry{Level: log.Debug, Msg: "hidden"})
	logger.Log(ctx, log.Entry{Level: log.Info, Msg: "reformatted a.zpl"})
	logger.Log(ctx, log.Entry{Level: log.Warn, Msg: "careful"})
	logger.Log(ctx, log.Entry{Level: log.Error, Msg: "a.zpl: bad"})

	want := "INFO  reformatted a.zpl\n" +
		"WARN  careful\n" +
		"ERROR a.zpl: bad\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("log output (-want +got):\n%s", diff)
	}
}
