package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// failsDir returns the directory unusable screenshot pairs are kept in
// (configurable via FAILS_DIR env).
func failsDir() string {
	if v := os.Getenv("FAILS_DIR"); v != "" {
		return v
	}
	return "fails"
}

func ensureFailsDir() {
	if err := os.MkdirAll(failsDir(), 0755); err != nil {
		log.Printf("failed to create fails dir %s: %v", failsDir(), err)
	}
}

// saveFailedPair persists both source images of an unusable extraction for
// later inspection. The suffix is the current entry count, so names keep
// increasing within a run and never overwrite earlier pairs.
func saveFailedPair(war, league []byte) {
	dir := failsDir()
	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Printf("failed to list fails dir: %v", err)
		return
	}
	n := len(entries)
	if err := os.WriteFile(filepath.Join(dir, fmt.Sprintf("war_error%d.png", n)), war, 0644); err != nil {
		log.Printf("failed to save war screenshot: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, fmt.Sprintf("league_error%d.png", n)), league, 0644); err != nil {
		log.Printf("failed to save league screenshot: %v", err)
	}
}
