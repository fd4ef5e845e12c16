package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Resolver gives the loader access to journal files. FileResolver reads
// from the operating system; tests and embedders can provide their own.
type Resolver interface {
	// ReadText returns the content of the file at path.
	ReadText(path string) (string, error)

	// ResolveInclude expands an include pattern relative to baseDir into
	// the files it names, in include order.
	ResolveInclude(baseDir, pattern string) ([]string, error)
}

// FileResolver resolves includes on the local filesystem.
//
// Patterns are split on "/". A leading "/" starts at the filesystem root,
// otherwise at the directory of the including file. Each segment is either
// a literal path element or one of:
//
//	"*"       the immediate subdirectories
//	"**"      all subdirectories, recursively
//	"*.*"     the files in the directory
//	"**.*"    the files in the directory tree
//	"*.ext"   the files with extension .ext
//	"**.ext"  the files with extension .ext in the directory tree
//
// Every directory listing is sorted by name.
type FileResolver struct{}

func (FileResolver) ReadText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (r FileResolver) ResolveInclude(baseDir, pattern string) ([]string, error) {
	paths := []string{baseDir}
	if strings.HasPrefix(pattern, "/") {
		paths = []string{"/"}
	}

	for _, segment := range strings.Split(pattern, "/") {
		if segment == "" || segment == "." {
			continue
		}

		var (
			next []string
			err  error
		)
		for _, path := range paths {
			next, err = r.expand(next, path, segment)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve include %q: %w", pattern, err)
			}
		}
		paths = next
	}

	return paths, nil
}

// expand appends the paths that segment selects below dir.
func (r FileResolver) expand(paths []string, dir, segment string) ([]string, error) {
	switch {
	case segment == "*":
		return listDirectories(paths, dir, false)
	case segment == "**":
		return listDirectories(paths, dir, true)
	case segment == "*.*":
		return listFiles(paths, dir, false, "")
	case segment == "**.*":
		return listFiles(paths, dir, true, "")
	case strings.HasPrefix(segment, "**."):
		return listFiles(paths, dir, true, segment[2:])
	case strings.HasPrefix(segment, "*."):
		return listFiles(paths, dir, false, segment[1:])
	default:
		return append(paths, filepath.Join(dir, segment)), nil
	}
}

// listDirectories appends the subdirectories of dir, each followed by its
// own subdirectories when recursive.
func listDirectories(paths []string, dir string, recursive bool) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		paths = append(paths, path)
		if recursive {
			if paths, err = listDirectories(paths, path, true); err != nil {
				return nil, err
			}
		}
	}

	return paths, nil
}

// listFiles appends the regular files of dir that end in ext (any file when
// ext is empty). Files in subdirectories are listed where the subdirectory
// sorts when recursive.
func listFiles(paths []string, dir string, recursive bool, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if entry.IsDir() {
			if recursive {
				if paths, err = listFiles(paths, path, true, ext); err != nil {
					return nil, err
				}
			}
			continue
		}
		if ext == "" || filepath.Ext(path) == ext {
			paths = append(paths, path)
		}
	}

	return paths, nil
}
