package archive

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"filippo.io/age"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRecipient(t *testing.T) {
	identity, err := age.GenerateX25519Identity()
	require.NoError(t, err)

	tests := []struct {
		name    string
		key     string
		wantErr bool
	}{
		{"valid key", identity.Recipient().String(), false},
		{"wrong scheme", "ssh-ed25519 AAAAC3NzaC1lZDI1NTE5", true},
		{"prefix only", "age1", true},
		{"truncated", identity.Recipient().String()[:20], true},
		{"empty", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRecipient(tt.key)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRecipient() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSealWithAge(t *testing.T) {
	plain := filepath.Join(t.TempDir(), "evidence.zip")
	require.NoError(t, os.WriteFile(plain, []byte("archive bytes"), 0o600))

	identity, err := age.GenerateX25519Identity()
	require.NoError(t, err)

	sealedPath, err := SealWithAge(plain, identity.Recipient().String())
	require.NoError(t, err)
	assert.Equal(t, plain+".age", sealedPath)

	// The plaintext container is gone once the sealed copy exists.
	_, statErr := os.Stat(plain)
	assert.True(t, os.IsNotExist(statErr))

	sealed, err := os.Open(sealedPath)
	require.NoError(t, err)
	defer sealed.Close()

	dec, err := age.Decrypt(sealed, identity)
	require.NoError(t, err)
	content, err := io.ReadAll(dec)
	require.NoError(t, err)
	assert.Equal(t, "archive bytes", string(content))
}

func TestSealWithAgeMissingArchive(t *testing.T) {
	identity, err := age.GenerateX25519Identity()
	require.NoError(t, err)

	_, err = SealWithAge(filepath.Join(t.TempDir(), "absent.zip"), identity.Recipient().String())
	assert.Error(t, err)
}
