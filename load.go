// Package nightcap provides helpers shared by the nightcap commands.
package nightcap

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// cspell:words nquads nightcap

// Extensions are the file extensions of files that can be loaded into a store.
var Extensions = []string{".nq", ".nquads", ".nt", ".ttl", ".nts"}

var errNoSource = errors.New("need at least one file or directory")

// FindSources finds the files to load for the given paths.
// Each path is either a file, or a directory whose files with one of the [Extensions] are used.
// Files found in a directory are returned in lexical order.
//
// FindSources does not guarantee that contents are loadable.
func FindSources(argv ...string) (files []string, err error) {
	if len(argv) == 0 {
		return nil, errNoSource
	}

	for _, path := range argv {
		isDir, err := isDirectory(path)
		if err != nil {
			return nil, err
		}

		if !isDir {
			if !isSource(path) {
				return nil, fmt.Errorf("%q does not have a known extension", path)
			}
			files = append(files, path)
			continue
		}

		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, err
		}

		count := 0
		for _, entry := range entries {
			name := filepath.Join(path, entry.Name())
			if !entry.Type().IsRegular() || !isSource(name) {
				continue
			}
			files = append(files, name)
			count++
		}
		if count == 0 {
			return nil, fmt.Errorf("no loadable files in %q", path)
		}
	}

	// check for regular files
	for _, file := range files {
		ok, err := isFile(file)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%q is not a regular file", file)
		}
	}

	return files, nil
}

func isSource(path string) bool {
	return slices.Contains(Extensions, strings.ToLower(filepath.Ext(path)))
}

func isDirectory(path string) (ok bool, err error) {
	stats, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	return stats.Mode().IsDir(), nil
}

// isFile checks if path is a regular file.
func isFile(path string) (ok bool, err error) {
	stats, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	return stats.Mode().IsRegular(), nil
}
