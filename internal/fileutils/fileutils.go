// Package fileutils provides the small set of file operations shared by
// the import and export paths.
package fileutils

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FileExists checks if a file exists and is not a directory.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// DirectoryExists checks if a directory exists.
func DirectoryExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// EnsureDirectoryExists creates a directory if it doesn't exist.
func EnsureDirectoryExists(path string) error {
	if DirectoryExists(path) {
		return nil
	}
	if err := os.MkdirAll(path, 0750); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	return nil
}

// CreateFile creates or truncates a file for writing, creating parent
// directories as needed.
func CreateFile(path string) (*os.File, error) {
	if err := EnsureDirectoryExists(filepath.Dir(path)); err != nil {
		return nil, err
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	return file, nil
}

// ListFilesWithExtension returns the files under dirPath carrying the
// given extension (case-insensitive, leading dot included), sorted by
// path so batch runs process files in a stable order.
func ListFilesWithExtension(dirPath, extension string) ([]string, error) {
	if !DirectoryExists(dirPath) {
		return nil, fmt.Errorf("directory does not exist: %s", dirPath)
	}

	var files []string
	err := filepath.Walk(dirPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && strings.EqualFold(filepath.Ext(path), extension) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}

	sort.Strings(files)
	return files, nil
}
