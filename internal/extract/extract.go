// Package extract pulls committed memory dumps back out of a finished
// evidence archive so they can be fed to analysis tooling directly.
package extract

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

const dumpPrefix = "process_dumps/"

// Dumps extracts every process_dumps/*.mem entry from the archive at
// archivePath into destDir, creating the directory if needed. Entries are
// flattened to their base name, so a crafted archive cannot write outside
// destDir. Individual entry failures are logged and skipped; the returned
// count covers the dumps actually written.
func Dumps(archivePath, destDir string, log *zap.SugaredLogger) (int, error) {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return 0, fmt.Errorf("open archive %s: %w", archivePath, err)
	}
	defer zr.Close()

	if err := os.MkdirAll(destDir, 0o700); err != nil {
		return 0, fmt.Errorf("create extraction dir %s: %w", destDir, err)
	}

	extracted := 0
	for _, f := range zr.File {
		if !strings.HasPrefix(f.Name, dumpPrefix) || !strings.HasSuffix(f.Name, ".mem") {
			continue
		}
		dest := filepath.Join(destDir, path.Base(f.Name))
		if err := writeEntry(f, dest); err != nil {
			log.Warnf("Failed to extract %s: %v", f.Name, err)
			continue
		}
		log.Infof("Extracted %s", dest)
		extracted++
	}
	return extracted, nil
}

func writeEntry(f *zip.File, dest string) error {
	src, err := f.Open()
	if err != nil {
		return fmt.Errorf("open entry: %w", err)
	}
	defer src.Close()

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create %s: %w", dest, err)
	}
	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		return fmt.Errorf("write %s: %w", dest, err)
	}
	return out.Close()
}
