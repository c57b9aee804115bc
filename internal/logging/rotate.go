package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// backupPath returns the rotated name for backup slot n:
// fetcharr.log -> fetcharr.1.log.
func backupPath(basePath string, n int) string {
	dir := filepath.Dir(basePath)
	base := filepath.Base(basePath)
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(base, ext)
	return filepath.Join(dir, fmt.Sprintf("%s.%d%s", name, n, ext))
}

// rotateFiles shifts each numbered backup up one slot and moves the live file
// into slot 1. The backup in the highest slot falls off the end.
func rotateFiles(basePath string, maxBackups int) error {
	if maxBackups < 1 {
		maxBackups = 1
	}

	os.Remove(backupPath(basePath, maxBackups))

	for n := maxBackups - 1; n >= 1; n-- {
		from := backupPath(basePath, n)
		if _, err := os.Stat(from); err != nil {
			continue
		}
		if err := os.Rename(from, backupPath(basePath, n+1)); err != nil {
			return fmt.Errorf("rotate backup %d: %w", n, err)
		}
	}

	if _, err := os.Stat(basePath); err == nil {
		if err := os.Rename(basePath, backupPath(basePath, 1)); err != nil {
			return fmt.Errorf("rotate current log: %w", err)
		}
	}

	// slots beyond the limit linger when max_backups shrinks between runs
	for n := maxBackups + 1; ; n++ {
		p := backupPath(basePath, n)
		if _, err := os.Stat(p); err != nil {
			break
		}
		os.Remove(p)
	}

	return nil
}
