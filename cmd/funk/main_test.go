package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRun(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")

	dir := t.TempDir()
	good := filepath.Join(dir, "good.funk")
	bad := filepath.Join(dir, "bad.funk")
	if err := os.WriteFile(good, []byte("numb x = 1;\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(bad, []byte("numb x = 1 / 0;\n"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		args     []string
		wantCode int
		wantErr  string
	}{
		{"normal completion", []string{good}, 0, ""},
		{"funk error", []string{"--no-color", bad}, 2, ""},
		{"bad flag", []string{"--bogus"}, 1, "Error: failed to parse args"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stderr bytes.Buffer
			if code := run(tt.args, &stderr); code != tt.wantCode {
				t.Errorf("exit code = %d, want %d", code, tt.wantCode)
			}
			if !strings.Contains(stderr.String(), tt.wantErr) {
				t.Errorf("stderr = %q, want %q", stderr.String(), tt.wantErr)
			}
		})
	}
}
