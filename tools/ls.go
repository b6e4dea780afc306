package tools

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/arashivan/agentrt/rterr"
)

const opLs = "tools.ls"

// Ls lists path's directory contents (or, if path is a file, that
// single file), honoring All, Recursive and sort order. Recursive
// traversal tracks visited canonical directories to avoid symlink
// cycles. Grounded on
// original_source/mistralrs-agent-tools/src/tools/file/ls.rs.
func (e *Executor) Ls(path string, opts LsOptions) (LsResult, error) {
	canonical, err := e.validateRead(opLs, path)
	if err != nil {
		return LsResult{}, err
	}

	info, err := os.Stat(canonical)
	if err != nil {
		return LsResult{}, rterr.New(rterr.KindIO, opLs, err).WithPath(canonical)
	}
	if !info.IsDir() {
		entry := fileEntry(canonical, info)
		return LsResult{Entries: []FileEntry{entry}, Total: 1, TotalSize: entry.Size}, nil
	}

	var entries []FileEntry
	if opts.Recursive {
		visited := make(map[string]bool)
		if err := e.collectRecursive(canonical, opts, visited, &entries); err != nil {
			return LsResult{}, err
		}
	} else {
		if err := collectDir(canonical, opts, &entries); err != nil {
			return LsResult{}, err
		}
	}

	sortEntries(entries, opts)

	var totalSize int64
	for _, entry := range entries {
		totalSize += entry.Size
	}
	return LsResult{Entries: entries, Total: len(entries), TotalSize: totalSize}, nil
}

func collectDir(dir string, opts LsOptions, entries *[]FileEntry) error {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return rterr.New(rterr.KindIO, opLs, err).WithPath(dir)
	}
	for _, de := range dirEntries {
		if !opts.All && strings.HasPrefix(de.Name(), ".") {
			continue
		}
		info, err := de.Info()
		if err != nil {
			return rterr.New(rterr.KindIO, opLs, err).WithPath(filepath.Join(dir, de.Name()))
		}
		*entries = append(*entries, fileEntry(filepath.Join(dir, de.Name()), info))
		if len(*entries) >= MaxResults {
			return nil
		}
	}
	return nil
}

func (e *Executor) collectRecursive(dir string, opts LsOptions, visited map[string]bool, entries *[]FileEntry) error {
	canonical, err := filepath.EvalSymlinks(dir)
	if err != nil {
		canonical = dir
	}
	if visited[canonical] {
		return nil
	}
	visited[canonical] = true

	start := len(*entries)
	if err := collectDir(dir, opts, entries); err != nil {
		return err
	}
	if len(*entries) >= MaxResults {
		return nil
	}

	subdirs := make([]string, 0)
	for _, entry := range (*entries)[start:] {
		if entry.IsDir {
			subdirs = append(subdirs, entry.Path)
		}
	}

	for _, subdir := range subdirs {
		if _, err := e.Sandbox.ValidateRead(subdir); err != nil {
			continue
		}
		if err := e.collectRecursive(subdir, opts, visited, entries); err != nil {
			return err
		}
		if len(*entries) >= MaxResults {
			return nil
		}
	}
	return nil
}

func fileEntry(path string, info os.FileInfo) FileEntry {
	return FileEntry{
		Path:       path,
		Name:       info.Name(),
		IsDir:      info.IsDir(),
		Size:       info.Size(),
		ModifiedAt: info.ModTime(),
		Mode:       uint32(info.Mode().Perm()),
	}
}

func sortEntries(entries []FileEntry, opts LsOptions) {
	less := func(i, j int) bool { return entries[i].Name < entries[j].Name }
	if opts.SortBy == SortByModTime {
		less = func(i, j int) bool { return entries[i].ModifiedAt.Before(entries[j].ModifiedAt) }
	}
	sort.SliceStable(entries, less)
	if opts.Reverse {
		for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
			entries[i], entries[j] = entries[j], entries[i]
		}
	}
}
