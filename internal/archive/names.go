package archive

import (
	"path"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)
	underscores = regexp.MustCompile(`_+`)
)

// CleanName reduces a host-derived name (hostname, process name) to a safe
// archive name component. Process names like "kworker/0:1" would otherwise
// smuggle path separators into entry names.
func CleanName(name string) string {
	name = unsafeChars.ReplaceAllString(name, "_")
	name = underscores.ReplaceAllString(name, "_")
	name = strings.Trim(name, "_")
	if name == "" {
		name = "unknown"
	}
	return name
}

// StripRoot turns an absolute source path into the entry name it is archived
// under: the volume name and leading separators are removed so entries stay
// relative inside the container.
func StripRoot(srcPath string) string {
	srcPath = srcPath[len(filepath.VolumeName(srcPath)):]
	entry := path.Clean(filepath.ToSlash(srcPath))
	entry = strings.TrimLeft(entry, "/")
	for strings.HasPrefix(entry, "../") {
		entry = entry[3:]
	}
	if entry == "" || entry == "." || entry == ".." {
		entry = "unknown"
	}
	return entry
}
