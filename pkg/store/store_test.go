package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreRoundTrip(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	payload := []byte(`{"balances":{"SOL":2.5}}`)
	require.NoError(t, fs.Save("wallet_state", payload))

	loaded, err := fs.Load("wallet_state")
	require.NoError(t, err)
	assert.Equal(t, payload, loaded)
}

func TestFileStoreMissingKey(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	_, err = fs.Load("never_saved")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestFileStoreOverwrite(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, fs.Save("k", []byte("first")))
	require.NoError(t, fs.Save("k", []byte("second")))

	loaded, err := fs.Load("k")
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), loaded)
}

func TestFileStoreDelete(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, fs.Save("k", []byte("v")))
	require.NoError(t, fs.Delete("k"))
	require.NoError(t, fs.Delete("k"))

	_, err = fs.Load("k")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestFileStoreKeySanitization(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, fs.Save("../escape", []byte("v")))

	loaded, err := fs.Load("../escape")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), loaded)
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	ms := NewMemoryStore()

	require.NoError(t, ms.Save("k", []byte("v")))

	loaded, err := ms.Load("k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), loaded)

	// Mutating the returned slice must not affect the stored copy.
	loaded[0] = 'x'
	again, err := ms.Load("k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), again)

	require.NoError(t, ms.Delete("k"))
	_, err = ms.Load("k")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}
