package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestReadInputSource_Empty(t *testing.T) {
	for _, source := range []string{"", "   "} {
		_, err := readInputSource(source, nil)
		if err == nil {
			t.Fatalf("readInputSource(%q) expected error", source)
		}
		if !strings.Contains(err.Error(), "empty input source") {
			t.Errorf("expected 'empty input source' error, got %v", err)
		}
	}
}

func TestReadInputSource_File(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "test.txt")
	if err := os.WriteFile(filePath, []byte("hello world\n"), 0o644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	got, err := readInputSource(filePath, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Output should be trimmed
	if got != "hello world" {
		t.Errorf("got %q, want %q", got, "hello world")
	}
}

func TestReadInputSource_FileWithWhitespacePath(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "test.txt")
	if err := os.WriteFile(filePath, []byte("test content"), 0o644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	got, err := readInputSource("  "+filePath+"  ", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "test content" {
		t.Errorf("got %q, want %q", got, "test content")
	}
}

func TestReadInputSource_FileNotFound(t *testing.T) {
	_, err := readInputSource("/nonexistent/path/to/file.txt", nil)
	if err == nil {
		t.Fatal("expected error for nonexistent file")
	}
	if !strings.Contains(err.Error(), "failed to read") {
		t.Errorf("expected 'failed to read' error, got %v", err)
	}
}

func TestReadInputSource_Stdin(t *testing.T) {
	stdin := strings.NewReader("content from stdin\n")

	got, err := readInputSource("-", stdin)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "content from stdin" {
		t.Errorf("got %q, want %q", got, "content from stdin")
	}
}

func TestReadInputSource_StdinWithWhitespace(t *testing.T) {
	stdin := strings.NewReader("stdin content")

	// " - " should be trimmed to "-" which means stdin
	got, err := readInputSource(" - ", stdin)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "stdin content" {
		t.Errorf("got %q, want %q", got, "stdin content")
	}
}

func TestInputHasData_NonFileReader(t *testing.T) {
	buf := &bytes.Buffer{}
	buf.WriteString("data")
	if !inputHasData(buf) {
		t.Error("expected true for bytes.Buffer (non-file reader)")
	}
}

func TestInputHasData_Pipe(t *testing.T) {
	pr, pw, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	defer pr.Close()
	defer pw.Close()

	go func() {
		pw.Write([]byte("data"))
		pw.Close()
	}()

	// A pipe is not a char device
	if !inputHasData(pr) {
		t.Error("expected true for pipe")
	}
}
