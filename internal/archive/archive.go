package archive

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// BackupFile copies path into an archive directory next to it, named
// <base>-<timestamp><ext>, and returns the path of the copy. The original
// file is left in place so it can be rewritten afterwards.
func BackupFile(path string) (string, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return "", fmt.Errorf("file does not exist: %s", path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("not a regular file: %s", path)
	}

	archiveDir := filepath.Join(filepath.Dir(path), "archive")
	if err := os.MkdirAll(archiveDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	archivePath := uniquePath(archiveDir, filepath.Base(path))
	if err := copyFile(path, archivePath, info.Mode().Perm()); err != nil {
		return "", err
	}
	return archivePath, nil
}

func uniquePath(dir, base string) string {
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	now := time.Now()
	archivePath := filepath.Join(dir, fmt.Sprintf("%s-%s%s", stem, now.Format("20060102-150405"), ext))
	if _, err := os.Stat(archivePath); err != nil {
		return archivePath
	}

	// Add microseconds to make it unique
	timestamp := now.Format("20060102-150405.000000")
	archivePath = filepath.Join(dir, fmt.Sprintf("%s-%s%s", stem, timestamp, ext))
	for i := 1; ; i++ {
		if _, err := os.Stat(archivePath); err != nil {
			return archivePath
		}
		archivePath = filepath.Join(dir, fmt.Sprintf("%s-%s-%d%s", stem, timestamp, i, ext))
	}
}

func copyFile(src, dst string, perm os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return fmt.Errorf("failed to create backup: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("failed to copy %s: %w", src, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to write backup: %w", err)
	}
	return nil
}
