package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rcornwell/malbolge/internal/encoding"
)

func TestLoadProgramFromOpcodes(t *testing.T) {
	got, err := loadProgram("oov", "", "", "")
	if err != nil {
		t.Fatalf("loadProgram: %v", err)
	}
	if got != "oov" {
		t.Errorf("got: %q want: %q", got, "oov")
	}
}

func TestLoadProgramFromAscii(t *testing.T) {
	ascii, err := encoding.EncodeASCII("oov")
	if err != nil {
		t.Fatalf("EncodeASCII: %v", err)
	}
	got, err := loadProgram("", ascii, "", "")
	if err != nil {
		t.Fatalf("loadProgram: %v", err)
	}
	if got != "oov" {
		t.Errorf("got: %q want: %q", got, "oov")
	}
}

func TestLoadProgramFromOpcodesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prog.mb")
	if err := os.WriteFile(path, []byte("oov"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	got, err := loadProgram("", "", "", path)
	if err != nil {
		t.Fatalf("loadProgram: %v", err)
	}
	if got != "oov" {
		t.Errorf("got: %q want: %q", got, "oov")
	}
}

func TestLoadProgramRequiresExactlyOneSource(t *testing.T) {
	if _, err := loadProgram("", "", "", ""); err == nil {
		t.Errorf("expected error with no source given")
	}
	if _, err := loadProgram("oov", "xyz", "", ""); err == nil {
		t.Errorf("expected error with two sources given")
	}
}
