// Package testutil provides shared test fixtures for validator packages,
// so each package's _test.go files don't have to reimplement feed
// construction.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/transitlint/gtfs-validator/parser"
)

// CreateTestFeedLoader creates a real FeedLoader from a map of test files.
// The map key is the filename (e.g., "agency.txt") and value is the file content.
func CreateTestFeedLoader(t *testing.T, files map[string]string) *parser.FeedLoader {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "gtfs-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.RemoveAll(tmpDir); err != nil {
			t.Errorf("Failed to remove temp dir: %v", err)
		}
	})

	for filename, content := range files {
		filePath := filepath.Join(tmpDir, filename)
		if err := os.WriteFile(filePath, []byte(content), 0600); err != nil {
			t.Fatalf("Failed to write test file %s: %v", filename, err)
		}
	}

	loader, err := parser.LoadFromDirectory(tmpDir)
	if err != nil {
		t.Fatalf("Failed to create FeedLoader: %v", err)
	}
	t.Cleanup(func() {
		if err := loader.Close(); err != nil {
			t.Errorf("Failed to close loader: %v", err)
		}
	})

	return loader
}
