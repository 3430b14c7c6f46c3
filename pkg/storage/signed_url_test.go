package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSignedURLSignerSignAndVerify(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Hour)
	token, expiresAt, err := signer.Sign("exp-1", "batch-requests/exp-1.csv")
	require.NoError(t, err)

	grant, err := signer.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "exp-1", grant.ExportID)
	require.Equal(t, "batch-requests/exp-1.csv", grant.Path)
	require.True(t, expiresAt.Equal(grant.ExpiresAt))
}

func TestSignedURLSignerRejectsTamperingAndExpiry(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Minute)
	token, _, err := signer.Sign("exp-1", "results/exp-1.pdf")
	require.NoError(t, err)

	_, err = NewSignedURLSigner("other", time.Minute).Verify(token)
	require.Error(t, err)

	signer.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, err = signer.Verify(token)
	require.Error(t, err)
}

func TestLocalStorageKeepsFilesInsideRoot(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(dir)
	require.NoError(t, err)

	name, err := store.Save("results/exp-1.csv", []byte("a,b\n"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "results", "exp-1.csv"))
	require.NoError(t, err)

	_, err = store.Save("../escape.csv", []byte("x"))
	require.Error(t, err)

	f, err := store.Open(name)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	deleted, err := store.CleanupOlderThan(-time.Second)
	require.NoError(t, err)
	require.Contains(t, deleted, filepath.Join("results", "exp-1.csv"))
}
