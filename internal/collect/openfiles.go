package collect

import (
	"sort"

	"github.com/spf13/afero"

	"wakekeeper/internal/archive"
	"wakekeeper/internal/sysprobe"
)

// ResolveOpenFiles derives the candidate file set for copying: every open
// file handle, memory-mapped file path, and executable path across the
// in-scope records, deduplicated. Only paths that exist with a size in
// (0, MaxFileCopyBytes] survive; everything else is silently dropped here and
// accounted for, if at all, when the copy is attempted. The result is sorted
// so archive content is reproducible for identical input.
func ResolveOpenFiles(fs afero.Fs, recs []sysprobe.ProcessRecord) []string {
	seen := make(map[string]struct{})
	for _, rec := range recs {
		for _, p := range rec.OpenFiles {
			seen[p] = struct{}{}
		}
		for _, p := range rec.MappedFiles {
			seen[p] = struct{}{}
		}
		if rec.Exe != "" {
			seen[rec.Exe] = struct{}{}
		}
	}

	var paths []string
	for p := range seen {
		if len(p) <= 1 {
			continue
		}
		info, err := fs.Stat(p)
		if err != nil || info.IsDir() {
			continue
		}
		if info.Size() == 0 || info.Size() > archive.MaxFileCopyBytes {
			continue
		}
		paths = append(paths, p)
	}

	sort.Strings(paths)
	return paths
}
