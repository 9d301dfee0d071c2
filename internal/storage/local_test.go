package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageSaveAndDelete(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(dir, "/media/")
	require.NoError(t, err)

	path, err := store.Save(context.Background(), []byte("payload"), SaveOptions{Category: "recipes", Extension: "png"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(path, "recipes/"))
	assert.True(t, strings.HasSuffix(path, ".png"))

	data, err := os.ReadFile(filepath.Join(dir, path))
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))

	require.NoError(t, store.Delete(context.Background(), path))
	_, err = os.Stat(filepath.Join(dir, path))
	assert.True(t, os.IsNotExist(err))
}

func TestLocalStorageURL(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir(), "/media/")
	require.NoError(t, err)

	assert.Equal(t, "/media/recipes/x.png", store.URL("recipes/x.png"))
	assert.Equal(t, "", store.URL(""))
}

func TestLocalStorageRejectsEmptyPayload(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir(), "/media")
	require.NoError(t, err)

	_, err = store.Save(context.Background(), nil, SaveOptions{Category: "recipes", Extension: "png"})
	assert.Error(t, err)
}

func TestLocalStorageDeleteBlankPath(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir(), "/media")
	require.NoError(t, err)

	assert.NoError(t, store.Delete(context.Background(), ""))
	assert.NoError(t, store.Delete(context.Background(), "recipes/missing.png"))
}

func TestSanitizePathSegment(t *testing.T) {
	assert.Equal(t, "recipes", sanitizePathSegment("  Recipes  "))
	assert.Equal(t, "a-b_c", sanitizePathSegment("a-b_c"))
	assert.Equal(t, "evil", sanitizePathSegment("../EVIL!"))
	assert.Equal(t, "", sanitizePathSegment("!!!"))
}
