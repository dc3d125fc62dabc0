// Package scan discovers candidate source files under a source root. It is
// the discovery collaborator of the mutation pipeline: it decides which
// files exist, never which of them the descriptor is missing.
package scan

import (
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/vk/pbxsync/internal/plan"
)

// skippedDirs are build-output directories mixed into source trees that must
// never be offered as candidates.
var skippedDirs = map[string]struct{}{
	"Build":       {},
	"build":       {},
	"DerivedData": {},
}

// Sources walks root and returns every file whose extension appears in exts
// as an ordered (display name, relative path) candidate list. Hidden
// directories and build-output directories are pruned. An empty exts means
// plan.DefaultExtensions.
func Sources(root string, exts []string) ([]plan.Candidate, error) {
	if len(exts) == 0 {
		exts = plan.DefaultExtensions
	}
	wanted := make(map[string]struct{}, len(exts))
	for _, e := range exts {
		wanted[strings.ToLower(e)] = struct{}{}
	}

	var candidates []plan.Candidate
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path == root {
				return nil
			}
			if strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			if _, skip := skippedDirs[d.Name()]; skip {
				return filepath.SkipDir
			}
			return nil
		}
		if _, ok := wanted[strings.ToLower(filepath.Ext(d.Name()))]; !ok {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		candidates = append(candidates, plan.Candidate{Name: d.Name(), Path: filepath.ToSlash(rel)})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return candidates, nil
}
