package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/goalraiders/goalraiders/internal/ident"
)

func TestTokenCmd_Roundtrip(t *testing.T) {
	dir := t.TempDir()
	configPath := writeTestConfig(t, dir)

	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"token", "user-42", "--config", configPath})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("token failed: %v", err)
	}

	token := strings.TrimSpace(buf.String())
	uid, err := ident.Verify([]byte("test-secret"), token)
	if err != nil {
		t.Fatalf("minted token did not verify: %v", err)
	}
	if uid != "user-42" {
		t.Errorf("uid = %q, want user-42", uid)
	}
}

func TestTokenCmd_RequiresUID(t *testing.T) {
	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"token"})

	if err := cmd.Execute(); err == nil {
		t.Fatal("expected error when uid argument is missing")
	}
}
