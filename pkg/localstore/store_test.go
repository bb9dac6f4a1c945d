package localstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentpay/pkg/recorder"
)

func TestStore_Upload(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "proofs")
	store, err := New(dir, "http://localhost:3000/proofs/")
	require.NoError(t, err)

	ref, err := store.Upload(context.Background(), recorder.Attachment{
		Name:    "2A_2026-10-05_143000.png",
		Content: []byte("png"),
	})

	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3000/proofs/2A_2026-10-05_143000.png", ref)
	content, err := os.ReadFile(filepath.Join(dir, "2A_2026-10-05_143000.png"))
	require.NoError(t, err)
	assert.Equal(t, "png", string(content))
}

func TestStore_UploadDoesNotOverwrite(t *testing.T) {
	store, err := New(t.TempDir(), "/proofs")
	require.NoError(t, err)

	a := recorder.Attachment{Name: "a.png", Content: []byte("first")}
	_, err = store.Upload(context.Background(), a)
	require.NoError(t, err)

	a.Content = []byte("second")
	ref, err := store.Upload(context.Background(), a)
	assert.Error(t, err)
	assert.Empty(t, ref)

	content, _ := os.ReadFile(filepath.Join(store.Dir(), "a.png"))
	assert.Equal(t, "first", string(content))
}

func TestStore_UploadRejectsPaths(t *testing.T) {
	store, err := New(t.TempDir(), "/proofs")
	require.NoError(t, err)

	for _, name := range []string{"", "../evil.png", "sub/a.png", ".."} {
		_, err := store.Upload(context.Background(), recorder.Attachment{Name: name, Content: []byte("x")})
		assert.ErrorIs(t, err, ErrInvalidName, name)
	}
}

func TestStore_Ping(t *testing.T) {
	store, err := New(t.TempDir(), "/proofs")
	require.NoError(t, err)
	assert.NoError(t, store.Ping(context.Background()))

	entries, _ := os.ReadDir(store.Dir())
	assert.Empty(t, entries)
}
