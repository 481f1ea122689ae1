package wallet

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/R3yz0n/beyond-pad/internal/common"
)

func TestKeystore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wallet.json")

	created, err := CreateKeystore(path, []byte("correct horse"))
	require.NoError(t, err)

	unlocked, err := Unlock(path, []byte("correct horse"))
	require.NoError(t, err)
	assert.Equal(t, created.Address(), unlocked.Address())
}

func TestKeystore_WrongPassphrase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wallet.json")

	_, err := CreateKeystore(path, []byte("right"))
	require.NoError(t, err)

	_, err = Unlock(path, []byte("wrong"))
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestKeystore_MissingFile(t *testing.T) {
	_, err := Unlock(filepath.Join(t.TempDir(), "nope.json"), []byte("pw"))
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestKeystore_FilePermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wallet.json")

	_, err := CreateKeystore(path, []byte("pw"))
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestKeystore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wallet.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := Unlock(path, []byte("pw"))
	assert.Error(t, err)
}
