package archive

import (
	"archive/zip"
	"bytes"
	"io"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func readEntries(t *testing.T, path string) map[string][]byte {
	t.Helper()

	zr, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer zr.Close()

	entries := make(map[string][]byte, len(zr.File))
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		content, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		entries[f.Name] = content
	}
	return entries
}

func TestOpenAppendsZipSuffix(t *testing.T) {
	dir := t.TempDir()

	a, err := Open(filepath.Join(dir, "evidence"), zap.NewNop().Sugar())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "evidence.zip"), a.Path())
	require.NoError(t, a.Close())

	b, err := Open(filepath.Join(dir, "named.zip"), zap.NewNop().Sugar())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "named.zip"), b.Path())
	require.NoError(t, b.Close())
}

func TestArchiveRoundTrip(t *testing.T) {
	a, err := Open(filepath.Join(t.TempDir(), "evidence.zip"), zap.NewNop().Sugar())
	require.NoError(t, err)

	require.NoError(t, a.AddArtifact("processes.json", []byte(`{"format":"t"}`)))
	require.NoError(t, a.AddArtifact("netstat.log", []byte("one line")))

	written, failed := a.Counts()
	assert.Equal(t, 2, written)
	assert.Equal(t, 0, failed)
	require.NoError(t, a.Close())

	entries := readEntries(t, a.Path())
	require.Len(t, entries, 2)
	assert.Equal(t, `{"format":"t"}`, string(entries["processes.json"]))
	assert.Equal(t, "one line", string(entries["netstat.log"]))
}

func TestArchiveRejectsDuplicateEntries(t *testing.T) {
	a, err := Open(filepath.Join(t.TempDir(), "evidence.zip"), zap.NewNop().Sugar())
	require.NoError(t, err)
	defer a.Close()

	require.NoError(t, a.AddArtifact("processes.json", []byte("first")))
	assert.Error(t, a.AddArtifact("processes.json", []byte("second")))

	written, failed := a.Counts()
	assert.Equal(t, 1, written)
	assert.Equal(t, 0, failed)
}

func TestArchiveClosesExactlyOnce(t *testing.T) {
	a, err := Open(filepath.Join(t.TempDir(), "evidence.zip"), zap.NewNop().Sugar())
	require.NoError(t, err)

	require.NoError(t, a.Close())
	assert.ErrorIs(t, a.Close(), ErrClosed)
	assert.ErrorIs(t, a.AddArtifact("late.txt", []byte("x")), ErrClosed)
}

func TestAddFileCopy(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/etc/passwd", []byte("root:x:0:0"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/var/log/empty.log", nil, 0o644))
	require.NoError(t, afero.WriteFile(fs, "/exactly.bin", bytes.Repeat([]byte{0xAB}, MaxFileCopyBytes), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/over.bin", make([]byte, MaxFileCopyBytes+1), 0o644))

	a, err := Open(filepath.Join(t.TempDir(), "evidence.zip"), zap.NewNop().Sugar())
	require.NoError(t, err)

	tests := []struct {
		name       string
		srcPath    string
		wantEntry  string
		written    bool
		wantReason string
	}{
		{"regular file", "/etc/passwd", "etc/passwd", true, ""},
		{"at the ceiling", "/exactly.bin", "exactly.bin", true, ""},
		{"over the ceiling", "/over.bin", "over.bin", false, "exceeds size ceiling"},
		{"empty file", "/var/log/empty.log", "var/log/empty.log", false, "empty file"},
		{"missing file", "/gone.txt", "gone.txt", false, "vanished before copy"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := a.AddFileCopy(fs, tt.srcPath)
			assert.Equal(t, tt.wantEntry, res.Entry)
			assert.Equal(t, tt.written, res.Written)
			assert.Equal(t, tt.wantReason, res.Reason)
		})
	}

	require.NoError(t, a.Close())

	entries := readEntries(t, a.Path())
	require.Len(t, entries, 2)
	assert.Equal(t, "root:x:0:0", string(entries["etc/passwd"]))
	assert.Len(t, entries["exactly.bin"], MaxFileCopyBytes)
}
