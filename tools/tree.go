package tools

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/arashivan/agentrt/rterr"
)

const opTree = "tools.tree"

// Tree walks from root bounded by MaxDepth and returns a pre-order
// sequence of TreeEntry, capped at MaxResults. Depth and Size are a
// SPEC_FULL.md C.5 supplement over the distilled spec's bare path
// sequence, grounded on
// original_source/mistralrs-agent-tools/src/tools/search/mod.rs's tree.
func (e *Executor) Tree(root string, opts TreeOptions) (TreeResult, error) {
	canonicalRoot, err := e.validateRead(opTree, root)
	if err != nil {
		return TreeResult{}, err
	}

	var result TreeResult
	walkErr := filepath.WalkDir(canonicalRoot, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if len(result.Entries) >= MaxResults {
			result.Truncated = true
			return filepath.SkipAll
		}

		rel, _ := filepath.Rel(canonicalRoot, path)
		depth := 0
		if rel != "." {
			depth = strings.Count(rel, string(filepath.Separator)) + 1
		}
		if opts.MaxDepth != nil && depth > *opts.MaxDepth {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}
		result.Entries = append(result.Entries, TreeEntry{
			Path:  path,
			Depth: depth,
			IsDir: d.IsDir(),
			Size:  info.Size(),
		})
		return nil
	})
	if walkErr != nil {
		return TreeResult{}, rterr.New(rterr.KindIO, opTree, walkErr).WithPath(canonicalRoot)
	}
	return result, nil
}
