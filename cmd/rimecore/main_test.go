// Package main provides tests for the rimecore CLI.
package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rimecore/rimecore/internal/cli"
)

func TestVersionCommand(t *testing.T) {
	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"version"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), cli.Version)
}

func TestHelpCommand(t *testing.T) {
	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--help"})

	require.NoError(t, cmd.Execute())
	output := buf.String()
	for _, expected := range []string{"schemas", "build", "deploy", "simulate", "session", "doctor"} {
		assert.Contains(t, output, expected)
	}
}

func TestSchemasCommandEmptyDataDir(t *testing.T) {
	tmpDir := t.TempDir()

	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{
		"schemas",
		"--output", "json",
		"--data_dir", tmpDir,
		"--user_data_dir", filepath.Join(tmpDir, "userdb"),
	})

	require.NoError(t, cmd.Execute())
	var result []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &result))
	assert.Empty(t, result)
}

func TestDoctorCommandReportsMissingDataDir(t *testing.T) {
	tmpDir := t.TempDir()

	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{
		"doctor",
		"--output", "json",
		"--data_dir", filepath.Join(tmpDir, "missing"),
		"--user_data_dir", filepath.Join(tmpDir, "userdb"),
	})

	require.NoError(t, cmd.Execute())
	var report struct {
		Checks []struct {
			Name   string `json:"name"`
			Passed bool   `json:"passed"`
		} `json:"checks"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &report))
	found := false
	for _, c := range report.Checks {
		if c.Name == "data_dir" {
			found = true
			assert.False(t, c.Passed)
		}
	}
	assert.True(t, found)
}

func TestCompletionCommand(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			cmd := cli.NewRootCmd()
			buf := new(bytes.Buffer)
			cmd.SetOut(buf)
			cmd.SetErr(buf)
			cmd.SetArgs([]string{"completion", shell})
			assert.NoError(t, cmd.Execute())
		})
	}
}

func TestUnknownCommand(t *testing.T) {
	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"unknown-command"})

	assert.Error(t, cmd.Execute())
}
