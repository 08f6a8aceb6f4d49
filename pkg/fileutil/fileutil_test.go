package fileutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/text/encoding/japanese"

	"github.com/zurustar/funk/pkg/funkerr"
)

func TestReadSource(t *testing.T) {
	tmpDir := t.TempDir()

	sjis, err := japanese.ShiftJIS.NewEncoder().String(`print("こんにちは");`)
	if err != nil {
		t.Fatalf("Failed to encode test data: %v", err)
	}

	files := map[string]string{
		"plain.funk":     "numb x = 5;\nprint(x);\n",
		"bom.funk":       "\uFEFFprint(1);",
		"sjis.funk":      sjis,
		"MixedCase.FUNK": "print(2);",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(tmpDir, name), []byte(content), 0644); err != nil {
			t.Fatalf("Failed to create test file: %v", err)
		}
	}

	tests := []struct {
		name     string
		file     string
		encoding string
		want     string
	}{
		{"utf-8 default", "plain.funk", "", "numb x = 5;\nprint(x);\n"},
		{"byte order mark is dropped", "bom.funk", "utf-8", "print(1);"},
		{"shift_jis", "sjis.funk", "shift_jis", `print("こんにちは");`},
		{"case insensitive fallback", "mixedcase.funk", "", "print(2);"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadSource(filepath.Join(tmpDir, tt.file), tt.encoding)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ReadSource() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReadSourceErrors(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "prog.funk")
	if err := os.WriteFile(path, []byte("1;"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	t.Run("missing file", func(t *testing.T) {
		_, err := ReadSource(filepath.Join(tmpDir, "nope.funk"), "")
		if funkerr.KindOf(err) != funkerr.File {
			t.Fatalf("expected File error, got %v", err)
		}
		if !strings.Contains(err.Error(), "nope.funk") {
			t.Errorf("error should name the file: %v", err)
		}
	})

	t.Run("unknown encoding", func(t *testing.T) {
		_, err := ReadSource(path, "klingon")
		if funkerr.KindOf(err) != funkerr.File {
			t.Fatalf("expected File error, got %v", err)
		}
	})
}

func TestFindFileCaseInsensitive(t *testing.T) {
	tmpDir := t.TempDir()

	testFiles := []string{
		"TestFile.funk",
		"UPPERCASE.FUNK",
		"lowercase.funk",
	}

	for _, filename := range testFiles {
		path := filepath.Join(tmpDir, filename)
		if err := os.WriteFile(path, []byte("test"), 0644); err != nil {
			t.Fatalf("Failed to create test file: %v", err)
		}
	}

	tests := []struct {
		name          string
		searchName    string
		shouldFind    bool
		expectedMatch string
	}{
		{
			name:          "exact match",
			searchName:    "TestFile.funk",
			shouldFind:    true,
			expectedMatch: "TestFile.funk",
		},
		{
			name:          "lowercase search for mixed case file",
			searchName:    "testfile.funk",
			shouldFind:    true,
			expectedMatch: "TestFile.funk",
		},
		{
			name:          "mixed case search for uppercase file",
			searchName:    "Uppercase.funk",
			shouldFind:    true,
			expectedMatch: "UPPERCASE.FUNK",
		},
		{
			name:          "uppercase search for lowercase file",
			searchName:    "LOWERCASE.FUNK",
			shouldFind:    true,
			expectedMatch: "lowercase.funk",
		},
		{
			name:       "file not found",
			searchName: "nonexistent.funk",
			shouldFind: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, err := FindFileCaseInsensitive(tmpDir, tt.searchName)

			if tt.shouldFind {
				if err != nil {
					t.Errorf("Expected to find file, but got error: %v", err)
					return
				}

				actualFilename := filepath.Base(path)
				if actualFilename != tt.expectedMatch {
					t.Errorf("Expected filename %s, got %s", tt.expectedMatch, actualFilename)
				}
			} else if err == nil {
				t.Errorf("Expected error for non-existent file, but got path: %s", path)
			}
		})
	}
}
