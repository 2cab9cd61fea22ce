package loaders

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrDirectoryTraversal is returned when a location would escape into a
	// sensitive system directory.
	ErrDirectoryTraversal = errors.New("directory traversal not allowed")
	// ErrFileNotFound is returned when no candidate path exists on disk.
	ErrFileNotFound = errors.New("file not found")
)

// ResolveDocumentPath turns a document location into something fetchable.
//
// Resolution order:
// 1. HTTP or HTTPS URL, returned as-is
// 2. Traversal check
// 3. Absolute path, if it exists
// 4. Relative to the directory of sourcePath, when given
// 5. Each search root in order
// 6. ErrFileNotFound
func ResolveDocumentPath(location, sourcePath string, searchRoots []string) (string, error) {
	if location == "" {
		return "", nil
	}

	if IsWebLocation(location) {
		return location, nil
	}

	if escapesToSensitivePath(location) {
		return "", ErrDirectoryTraversal
	}

	if filepath.IsAbs(location) {
		if regularFileExists(location) {
			return location, nil
		}
		return "", ErrFileNotFound
	}

	if sourcePath != "" {
		candidate := filepath.Clean(filepath.Join(filepath.Dir(sourcePath), location))
		if regularFileExists(candidate) {
			return candidate, nil
		}
	}

	for _, root := range searchRoots {
		if root == "" {
			continue
		}
		candidate := filepath.Clean(filepath.Join(root, location))
		if regularFileExists(candidate) {
			return candidate, nil
		}
	}

	return "", ErrFileNotFound
}

// IsWebLocation reports whether the location is an HTTP(S) URL.
func IsWebLocation(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

// escapesToSensitivePath rejects locations that reach into system
// directories, either directly or via .. segments. /var stays allowed
// because temp dirs often live under it.
func escapesToSensitivePath(path string) bool {
	if filepath.IsAbs(path) {
		parts := strings.Split(filepath.Clean(path), string(filepath.Separator))
		if len(parts) > 1 {
			switch parts[1] {
			case "etc", "sys", "proc", "root":
				return true
			}
		}
		return false
	}

	if strings.HasPrefix(path, "../") || path == ".." {
		parts := strings.Split(filepath.Clean(path), string(filepath.Separator))

		escapeCount := 0
		for _, part := range parts {
			if part != ".." {
				break
			}
			escapeCount++
		}
		if escapeCount > 1 {
			return true
		}

		for _, part := range parts {
			switch part {
			case "etc", "var", "usr", "sys", "proc", "root":
				return true
			}
		}
	}

	for _, prefix := range []string{"etc/", "var/", "usr/", "sys/", "proc/", "root/"} {
		if strings.HasPrefix(path, prefix) || strings.Contains(path, "/"+prefix) {
			return true
		}
	}

	return false
}

func regularFileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
