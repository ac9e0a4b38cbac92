package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

func TestRootCmd(t *testing.T) {
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs([]string{"--projects", "2", "--seed", "3", "--archive", filepath.Join(t.TempDir(), "reviews.db")})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v (stderr: %s)", err, errOut.String())
	}
	if !strings.Contains(out.String(), "Playthrough (seed 3): 2 projects") {
		t.Fatalf("unexpected report:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "Top reviews:") {
		t.Fatalf("report lists no archived reviews:\n%s", out.String())
	}
}

func TestRootCmd_RejectsArgs(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"extra"})
	if err := cmd.Execute(); err == nil {
		t.Fatal("expected an error for positional arguments")
	}
}
