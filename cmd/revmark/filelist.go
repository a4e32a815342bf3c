package main

import (
	"path/filepath"
	"sort"
	"strings"
)

// fileList is a repeatable flag of glob patterns
type fileList struct {
	patterns map[string]struct{}
}

func newFileList(paths ...string) *fileList {
	f := &fileList{patterns: make(map[string]struct{})}
	for _, p := range paths {
		f.patterns[p] = struct{}{}
	}
	return f
}

func (f *fileList) String() string {
	ps := make([]string, 0, len(f.patterns))
	for p := range f.patterns {
		ps = append(ps, p)
	}
	sort.Strings(ps)
	return strings.Join(ps, ", ")
}

func (f *fileList) Set(path string) error {
	if path == "" {
		// don't bother adding the empty path
		return nil
	}
	f.patterns[path] = struct{}{}
	return nil
}

// Contains reports whether a pattern matches the whole path or its base name
func (f *fileList) Contains(path string) bool {
	path = filepath.ToSlash(path)
	base := filepath.Base(path)
	for p := range f.patterns {
		pattern := filepath.ToSlash(p)
		if matched, _ := filepath.Match(pattern, path); matched {
			return true
		}
		if matched, _ := filepath.Match(pattern, base); matched {
			return true
		}
	}
	return false
}

// filter drops the files matching a pattern
func (f *fileList) filter(files []string) []string {
	if len(f.patterns) == 0 {
		return files
	}
	kept := make([]string, 0, len(files))
	for _, file := range files {
		if !f.Contains(file) {
			kept = append(kept, file)
		}
	}
	return kept
}
