package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestScanCmd_Help(t *testing.T) {
	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"scan", "--help"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("scan --help failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "recurrenceDays") {
		t.Errorf("expected help to explain recurrence, got: %s", out)
	}
	if !strings.Contains(out, "--daemon") {
		t.Errorf("expected help to mention '--daemon', got: %s", out)
	}
}

func TestScanCmd_EmptyDatabase(t *testing.T) {
	dir := t.TempDir()
	configPath := writeTestConfig(t, dir)

	// Migrate first so the scan has tables to read.
	initCmd := newRootCmd()
	initCmd.SetOut(new(bytes.Buffer))
	initCmd.SetArgs([]string{"db", "init", "--config", configPath})
	if err := initCmd.Execute(); err != nil {
		t.Fatalf("db init failed: %v", err)
	}

	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"scan", "--config", configPath})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	if !strings.Contains(buf.String(), "0 task(s) reopened") {
		t.Errorf("expected empty scan result, got: %s", buf.String())
	}
}

func TestScanCmd_DryRun(t *testing.T) {
	dir := t.TempDir()
	configPath := writeTestConfig(t, dir)

	initCmd := newRootCmd()
	initCmd.SetOut(new(bytes.Buffer))
	initCmd.SetArgs([]string{"db", "init", "--config", configPath})
	if err := initCmd.Execute(); err != nil {
		t.Fatalf("db init failed: %v", err)
	}

	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"scan", "--dry-run", "--config", configPath})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("scan --dry-run failed: %v", err)
	}
	if !strings.Contains(buf.String(), "0 task(s) would reopen") {
		t.Errorf("expected dry-run summary, got: %s", buf.String())
	}
}
