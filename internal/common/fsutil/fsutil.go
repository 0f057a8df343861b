package fsutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ExpandHome replaces a leading "~" with the current user's home directory.
// Paths not starting with "~" are returned untouched.
func ExpandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home dir: %w", err)
	}
	rest := strings.TrimPrefix(path, "~")
	if rest == "" {
		return home, nil
	}
	if rest[0] != '/' && rest[0] != filepath.Separator {
		// ~user forms are not supported
		return path, nil
	}
	return filepath.Join(home, rest[1:]), nil
}

// FirstRegularFile returns the first candidate, after home expansion, that
// names an existing regular file. It returns "" when none does.
func FirstRegularFile(candidates ...string) string {
	for _, c := range candidates {
		p, err := ExpandHome(c)
		if err != nil || p == "" {
			continue
		}
		if fi, err := os.Stat(p); err == nil && fi.Mode().IsRegular() {
			return p
		}
	}
	return ""
}
