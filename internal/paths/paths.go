// Package paths holds the path conventions shared by the scanner, resolver and emitter.
// Module paths are always slash-separated and relative to the scan root.
package paths

import (
	"os"
	"path/filepath"
	"strings"
)

// Relative converts path to a slash-separated path relative to base.
// Like Python's os.path.relpath it is purely lexical: symlinks are not resolved.
func Relative(path string, base string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	absBase, err := filepath.Abs(base)
	if err != nil {
		return "", err
	}

	rel, err := filepath.Rel(absBase, absPath)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}

// NormalizePath normalizes a path by converting backslashes to forward slashes
// This is useful for paths that are already relative but need normalization
func NormalizePath(path string) string {
	return filepath.ToSlash(path)
}

// JoinRepoPath joins a repo root with a canonical path
func JoinRepoPath(repoRoot string, canonicalPath string) string {
	normalizedPath := strings.ReplaceAll(canonicalPath, "\\", "/")
	parts := strings.Split(normalizedPath, "/")
	return filepath.Join(append([]string{repoRoot}, parts...)...)
}

// TrimTrailingSeparator strips one trailing separator from a root argument.
// A bare separator is returned unchanged so "/" still names the filesystem root.
func TrimTrailingSeparator(root string) string {
	if len(root) > 1 && (strings.HasSuffix(root, "/") || strings.HasSuffix(root, string(os.PathSeparator))) {
		return root[:len(root)-1]
	}
	return root
}

// ModuleDir returns every segment of modulePath but the last, joined by "/".
// A top-level module has an empty directory.
func ModuleDir(modulePath string) string {
	idx := strings.LastIndex(modulePath, "/")
	if idx < 0 {
		return ""
	}
	return modulePath[:idx]
}

// CleanName strips the source extension from a module path, giving its node label.
func CleanName(modulePath string, ext string) string {
	return strings.TrimSuffix(modulePath, ext)
}
