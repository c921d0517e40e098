package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunRulesList(t *testing.T) {
	// Create a buffer to capture output
	var buf bytes.Buffer

	// Create a test command with our buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)

	// Reset flags for test
	rulesFilePath = ""

	// Execute rules list command (using builtin rules)
	err := runRulesList(cmd, []string{})
	require.NoError(t, err)

	// Verify output contains rule table headers
	output := buf.String()
	assert.Contains(t, output, "KIND")
	assert.Contains(t, output, "replace")
}

func TestRunRulesValidate(t *testing.T) {
	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)

	dir := t.TempDir()
	path := filepath.Join(dir, "ok.rules")
	require.NoError(t, os.WriteFile(path, []byte(`REPLACE(FROM "a", TO "b")`), 0o644))

	err := runRulesValidate(cmd, []string{path})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "1 replacements")
}

func TestRunRulesValidateRejectsMalformed(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.SetOut(&bytes.Buffer{})

	dir := t.TempDir()
	path := filepath.Join(dir, "bad.rules")
	require.NoError(t, os.WriteFile(path, []byte(`REPLACE(FROM "a"`), 0o644))

	err := runRulesValidate(cmd, []string{path})
	assert.Error(t, err)
}
