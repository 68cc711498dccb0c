package main

import (
	"io"
	"os"
	"strings"
	"testing"

	"github.com/coral-lang/coral/internal/config"
)

func init() {
	config.IsTestMode = true
}

// capture runs fn with stdout/stderr redirected to os.Pipe()s and
// returns what it wrote to each, the way a table-driven CLI test needs
// to since run() takes *os.File rather than io.Writer.
func capture(t *testing.T, fn func(stdout, stderr *os.File) int) (code int, stdout, stderr string) {
	t.Helper()

	outR, outW, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	errR, errW, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}

	code = fn(outW, errW)
	outW.Close()
	errW.Close()

	outBytes, _ := io.ReadAll(outR)
	errBytes, _ := io.ReadAll(errR)
	return code, string(outBytes), string(errBytes)
}

func writeTempAST(t *testing.T, json string) string {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "*.json")
	if err != nil {
		t.Fatalf("CreateTemp: %v", err)
	}
	if _, err := f.WriteString(json); err != nil {
		t.Fatalf("WriteString: %v", err)
	}
	f.Close()
	return f.Name()
}

const minimalAST = `{
  "name": "main",
  "expression": {
    "kind": "Int",
    "value": 0,
    "location": {"filename": "main", "line": 1, "start": 0, "end": 1}
  }
}`

func TestRunMissingFile(t *testing.T) {
	code, _, stderr := capture(t, func(stdout, errw *os.File) int {
		return run([]string{"/nonexistent/path.json"}, stdout, errw)
	})
	if code != config.ExitError {
		t.Fatalf("code = %d, want %d", code, config.ExitError)
	}
	if !strings.Contains(stderr, "reading") {
		t.Errorf("stderr %q does not mention the read failure", stderr)
	}
}

func TestRunNoArgs(t *testing.T) {
	code, _, stderr := capture(t, func(stdout, errw *os.File) int {
		return run(nil, stdout, errw)
	})
	if code != config.ExitError {
		t.Fatalf("code = %d, want %d", code, config.ExitError)
	}
	if !strings.Contains(stderr, "usage:") {
		t.Errorf("stderr %q does not print usage", stderr)
	}
}

func TestRunParseFlagUnsupported(t *testing.T) {
	path := writeTempAST(t, minimalAST)
	code, _, stderr := capture(t, func(stdout, errw *os.File) int {
		return run([]string{"--parse", path}, stdout, errw)
	})
	if code != config.ExitError {
		t.Fatalf("code = %d, want %d", code, config.ExitError)
	}
	if !strings.Contains(stderr, "external source parser") {
		t.Errorf("stderr %q does not explain --parse is unsupported", stderr)
	}
}

func TestRunEmitLLVM(t *testing.T) {
	path := writeTempAST(t, minimalAST)
	code, stdout, stderr := capture(t, func(stdoutF, errw *os.File) int {
		return run([]string{"--emit-llvm", path}, stdoutF, errw)
	})
	if code != config.ExitSuccess {
		t.Fatalf("code = %d, stderr = %q, want %d", code, stderr, config.ExitSuccess)
	}
	if !strings.Contains(stdout, "define") {
		t.Errorf("stdout %q does not look like emitted LLVM IR", stdout)
	}
}

func TestRunVerifyLLVM(t *testing.T) {
	path := writeTempAST(t, minimalAST)
	code, stdout, stderr := capture(t, func(stdoutF, errw *os.File) int {
		return run([]string{"--verify-llvm", path}, stdoutF, errw)
	})
	if code != config.ExitSuccess {
		t.Fatalf("code = %d, stderr = %q, want %d", code, stderr, config.ExitSuccess)
	}
	if stdout == "" {
		t.Errorf("expected verified IR on stdout, got nothing")
	}
}

func TestRunMalformedJSON(t *testing.T) {
	path := writeTempAST(t, `{not json`)
	code, _, stderr := capture(t, func(stdoutF, errw *os.File) int {
		return run([]string{path}, stdoutF, errw)
	})
	if code != config.ExitError {
		t.Fatalf("code = %d, want %d", code, config.ExitError)
	}
	if stderr == "" {
		t.Errorf("expected an error message for malformed JSON")
	}
}
