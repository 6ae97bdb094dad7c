package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeGuide(t *testing.T) string {
	t.Helper()
	md := "# Guide\n\n## Install\n\nGet it.\n\n### Linux\n\napt install.\n\n## Configure\n\n" +
		strings.Repeat("Edit the file and restart. ", 100) + "\n"
	path := filepath.Join(t.TempDir(), "guide.md")
	require.NoError(t, os.WriteFile(path, []byte(md), 0644))
	return path
}

func run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(append(args, "--config", filepath.Join(t.TempDir(), "none.yml")))
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestOutlineCommand(t *testing.T) {
	out := run(t, "outline", writeGuide(t))
	assert.Equal(t, "Guide\n- Install (#section_0)\n  - Linux (#section_1)\n- Configure (#section_2)\n", out)
}

func TestSimulateCommand(t *testing.T) {
	out := run(t, "simulate", writeGuide(t),
		"--height", "100", "--line-height", "20",
		"--click", "section_1,section_2")

	assert.Contains(t, out, "layout: 3 sections")
	assert.Regexp(t, `click section_1 +y=\d+ +current=section_1 "Linux"`, out)
	assert.Regexp(t, `click section_2 +y=\d+ +current=section_2 "Configure"`, out)
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, filepath.Join("dist", "guide.html"), outputPath("dist", "docs/guide.md"))
	assert.Equal(t, filepath.Join("out", "page.html"), outputPath("out", "page.html"))
}

func TestConfigInitWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pagenav.yml")
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"config", "init", "--config", path})
	require.NoError(t, rootCmd.Execute())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "class_prefix: usa")

	rootCmd.SetArgs([]string{"config", "init", "--config", path})
	assert.Error(t, rootCmd.Execute(), "existing file is kept without --force")
}
