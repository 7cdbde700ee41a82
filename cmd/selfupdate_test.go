package cmd

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewSelfUpdateCmd(t *testing.T) {
	selfUpdateCmd := newSelfUpdateCmd()

	if selfUpdateCmd.Use != "self-update" {
		t.Errorf("Expected Use to be 'self-update', got %s", selfUpdateCmd.Use)
	}
	if selfUpdateCmd.Short == "" {
		t.Error("Expected Short description to be set")
	}
	if selfUpdateCmd.Long == "" {
		t.Error("Expected Long description to be set")
	}
	if selfUpdateCmd.RunE == nil {
		t.Error("Expected RunE function to be set")
	}
}

func TestRunSelfUpdateWithDevVersion(t *testing.T) {
	for _, v := range []string{"dev", ""} {
		t.Run("version="+v, func(t *testing.T) {
			originalVersion := rootCmd.Version
			defer func() { rootCmd.Version = originalVersion }()
			rootCmd.Version = v

			err := runSelfUpdate(nil, []string{})
			if err == nil {
				t.Fatal("Expected error for development version")
			}
			if !strings.Contains(err.Error(), "cannot self-update a development version") {
				t.Errorf("Expected specific error message, got: %s", err.Error())
			}
		})
	}
}

func TestSelfUpdateCommandHelp(t *testing.T) {
	selfUpdateCmd := newSelfUpdateCmd()
	var buf bytes.Buffer
	selfUpdateCmd.SetOut(&buf)
	selfUpdateCmd.SetErr(&buf)
	selfUpdateCmd.SetArgs([]string{"--help"})

	if err := selfUpdateCmd.Execute(); err != nil {
		t.Fatalf("Error executing self-update help: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "Checks for the latest release") {
		t.Errorf("Help output should contain long description. Got: %q", output)
	}
	if !strings.Contains(output, "self-update") {
		t.Errorf("Help output should contain command name. Got: %q", output)
	}
}

func TestGithubRepoSlug(t *testing.T) {
	if githubRepoSlug != "unison-focus/devrunner" {
		t.Errorf("Unexpected githubRepoSlug %s", githubRepoSlug)
	}
}

// The update itself needs network access and replaces the binary, so it is
// not exercised here.
