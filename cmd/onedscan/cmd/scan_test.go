package cmd

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onedscan/onedscan"
)

func TestScanCommandHelp(t *testing.T) {
	buf := new(bytes.Buffer)
	scanCmd.SetOut(buf)
	scanCmd.SetErr(buf)
	err := scanCmd.Help()
	require.NoError(t, err)
	output := buf.String()
	assert.Contains(t, output, "scan")
	assert.Contains(t, output, "Usage:")
}

func TestScanCommandNoArgs(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"scan"})
	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no input files")
}

func TestRequestedFormats(t *testing.T) {
	formats, err := requestedFormats(nil)
	require.NoError(t, err)
	assert.Len(t, formats, len(scanFormats))

	formats, err = requestedFormats([]string{"ean_13", " CODE_128 "})
	require.NoError(t, err)
	assert.Equal(t, []onedscan.Format{onedscan.FormatEAN13, onedscan.FormatCode128}, formats)

	_, err = requestedFormats([]string{"CODE_11"})
	require.Error(t, err)
}

func TestGenerateThenScanRoundTrip(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "label.png")

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	generateCmd.SetOut(buf)
	generateCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"generate", "--format", "CODE_128", "-O", out, "HELLO-123"})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), out)

	buf.Reset()
	scanCmd.SetOut(buf)
	scanCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"scan", "--format", "CODE_128", out})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, strings.TrimSpace(buf.String()), "HELLO-123")
}

func TestGenerateUnknownFormat(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "nope.png")

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"generate", "--format", "CODE_11", "-O", out, "123"})
	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown barcode format")
}
