// # internal/watcher/watcher_test.go
package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcher(t *testing.T) {
	tmpDir, _ := os.MkdirTemp("", "watchertest")
	defer os.RemoveAll(tmpDir)

	changedFiles := make(chan []string, 1)
	w, err := NewWatcher(100*time.Millisecond, []string{"vendor"}, []string{"*.min.js"}, func(paths []string) {
		changedFiles <- paths
	})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	err = w.Watch([]string{tmpDir})
	if err != nil {
		t.Fatal(err)
	}

	// Create a source file
	testFile := filepath.Join(tmpDir, "lib.php")
	os.WriteFile(testFile, []byte("<?php"), 0644)

	select {
	case paths := <-changedFiles:
		found := false
		for _, p := range paths {
			if p == testFile {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Expected to find %s in changed files %v", testFile, paths)
		}
	case <-time.After(2 * time.Second):
		t.Error("Timed out waiting for file change event")
	}

	// Irrelevant extensions never trigger a rescan.
	readme := filepath.Join(tmpDir, "README.md")
	os.WriteFile(readme, []byte("docs"), 0644)

	select {
	case paths := <-changedFiles:
		for _, p := range paths {
			if filepath.Base(p) == "README.md" {
				t.Error("Irrelevant file triggered event")
			}
		}
	case <-time.After(500 * time.Millisecond):
		// Expected
	}

	// A new lang directory should be recursively watched after create.
	subdir := filepath.Join(tmpDir, "lang", "fr")
	if err := os.MkdirAll(subdir, 0755); err != nil {
		t.Fatal(err)
	}
	subFile := filepath.Join(subdir, "quiz.php")
	if err := os.WriteFile(subFile, []byte("<?php\n$string['x'] = 'X';"), 0644); err != nil {
		t.Fatal(err)
	}

	deadline := time.After(2 * time.Second)
	for {
		select {
		case paths := <-changedFiles:
			for _, p := range paths {
				if p == subFile {
					return
				}
			}
		case <-deadline:
			t.Fatal("Timed out waiting for nested file change event")
		}
	}
}

func TestWatcherExcludedGlob(t *testing.T) {
	tmpDir := t.TempDir()

	changedFiles := make(chan []string, 1)
	w, err := NewWatcher(50*time.Millisecond, nil, []string{"*.min.js"}, func(paths []string) {
		changedFiles <- paths
	})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := w.Watch([]string{tmpDir}); err != nil {
		t.Fatal(err)
	}

	os.WriteFile(filepath.Join(tmpDir, "bundle.min.js"), []byte("x"), 0644)

	select {
	case paths := <-changedFiles:
		t.Errorf("Excluded file triggered event: %v", paths)
	case <-time.After(400 * time.Millisecond):
		// Expected
	}
}
